package main

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"
)

// Standard categories, matching the published hotwords.txt layout.
var standardCategories = []string{
	"AI", "编程", "职场", "数码", "汽车", "金融", "社交", "购物",
	"设计", "健康", "旅游", "文娱", "营销", "法律", "人力", "教育",
	"房产", "运动", "政务",
}

const defaultCategory = "AI"

// Aliases the LLM is known to return, mapped to standard categories.
// Unmapped categories fall back to defaultCategory.
var categoryAliases = map[string]string{
	"ai": "AI", "编程": "编程", "职场": "职场", "数码": "数码",
	"汽车": "汽车", "金融": "金融", "社交": "社交", "购物": "购物",
	"设计": "设计", "健康": "健康", "旅游": "旅游", "文娱": "文娱",
	"营销": "营销", "法律": "法律", "人力": "人力", "教育": "教育",
	"房产": "房产", "运动": "运动", "政务": "政务",

	"人工智能": "AI", "机器学习": "AI", "深度学习": "AI", "大模型": "AI",
	"nlp": "AI", "自然语言处理": "AI", "计算机视觉": "AI",
	"科学": "AI", "物理": "AI", "数学": "AI", "天文": "AI",

	"前端": "编程", "后端": "编程", "devops": "编程", "数据库": "编程",
	"语言": "编程", "工具": "编程", "安全": "编程", "开发": "编程",
	"技术": "编程", "开源": "编程", "web": "编程", "programming": "编程",
	"software": "编程", "infrastructure": "编程", "cloud": "编程",

	"硬件": "数码", "电子": "数码", "芯片": "数码", "手机": "数码",
	"消费电子": "数码", "科技": "数码",

	"区块链": "金融", "加密货币": "金融", "crypto": "金融",
	"经济": "金融", "投资": "金融",

	"娱乐": "文娱", "影视": "文娱", "游戏": "文娱", "音乐": "文娱",
	"动漫": "文娱", "综艺": "文娱",

	"社会": "社交", "时事": "社交", "新闻": "社交", "热点": "社交",
	"网络": "社交",

	"军事": "政务", "政治": "政务", "国际": "政务",
	"历史": "文娱", "文化": "文娱",
	"美食": "旅游", "自然": "旅游",
	"环保": "政务", "能源": "政务",
	"航空": "数码", "航天": "数码",
	"医疗": "健康", "养生": "健康",
	"体育": "运动",
	"媒体": "营销",
	"其他": "AI",
}

// One line of the store file: 【category】:[term1,term2,...]
var storeLinePattern = regexp.MustCompile(`^【(.+?)】:\[(.+)]$`)

type termInfo struct {
	Original string
	Category string
}

// HotwordStore is the persisted categorized term repository. Category
// insertion order is preserved so serialization stays deterministic;
// lookups are case-insensitive through a derived lowercase index.
type HotwordStore struct {
	path          string
	categories    map[string][]string
	categoryOrder []string
	index         map[string]termInfo
}

func NewHotwordStore(path string) *HotwordStore {
	return &HotwordStore{
		path:       path,
		categories: make(map[string][]string),
		index:      make(map[string]termInfo),
	}
}

// Load reads the store file. A missing file is not an error: the store
// starts empty with the standard category set pre-seeded.
func (s *HotwordStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("store file %s missing, starting empty", s.path)
			for _, cat := range standardCategories {
				s.categories[cat] = nil
				s.categoryOrder = append(s.categoryOrder, cat)
			}
			return nil
		}
		return fmt.Errorf("reading store %s: %w", s.path, err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m := storeLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		category := m[1]
		var words []string
		for _, w := range strings.Split(m[2], ",") {
			w = strings.TrimSpace(w)
			if w != "" {
				words = append(words, w)
			}
		}
		s.categories[category] = words
		s.categoryOrder = append(s.categoryOrder, category)
		for _, w := range words {
			s.index[strings.ToLower(w)] = termInfo{Original: w, Category: category}
		}
	}
	log.Printf("store loaded categories=%d terms=%d from %s", len(s.categories), s.TermCount(), s.path)
	return nil
}

func (s *HotwordStore) Contains(term string) bool {
	_, ok := s.index[strings.ToLower(term)]
	return ok
}

// GetTermInfo returns the original spelling and category of a stored
// term, looked up case-insensitively.
func (s *HotwordStore) GetTermInfo(term string) (termInfo, bool) {
	info, ok := s.index[strings.ToLower(term)]
	return info, ok
}

// AllTerms returns a copy of the lowercase index.
func (s *HotwordStore) AllTerms() map[string]termInfo {
	out := make(map[string]termInfo, len(s.index))
	for k, v := range s.index {
		out[k] = v
	}
	return out
}

func (s *HotwordStore) TermCount() int {
	return len(s.index)
}

// AddWords appends accepted terms to their categories, resolving the
// reported category through the alias table. Terms already present
// (case-insensitively) are skipped. Returns how many were added.
func (s *HotwordStore) AddWords(terms []HotTerm) int {
	added := 0
	for _, t := range terms {
		term := strings.TrimSpace(t.Term)
		if term == "" || s.Contains(term) {
			continue
		}
		category := resolveCategory(t.Category)
		if _, ok := s.categories[category]; !ok {
			s.categories[category] = nil
			s.categoryOrder = append(s.categoryOrder, category)
		}
		s.categories[category] = append(s.categories[category], term)
		s.index[strings.ToLower(term)] = termInfo{Original: term, Category: category}
		added++
	}
	return added
}

// Save writes the store back in first-seen category order, omitting
// empty categories.
func (s *HotwordStore) Save() error {
	if err := os.WriteFile(s.path, []byte(s.Serialize()), 0644); err != nil {
		return fmt.Errorf("writing store %s: %w", s.path, err)
	}
	log.Printf("store saved categories=%d terms=%d to %s", len(s.categoryOrder), s.TermCount(), s.path)
	return nil
}

// Serialize renders the store file contents: one line per non-empty
// category, terms comma-separated, trailing newline.
func (s *HotwordStore) Serialize() string {
	var lines []string
	for _, cat := range s.categoryOrder {
		words := s.categories[cat]
		if len(words) == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("【%s】:[%s]", cat, strings.Join(words, ",")))
	}
	return strings.Join(lines, "\n") + "\n"
}

func resolveCategory(raw string) string {
	if mapped, ok := categoryAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return mapped
	}
	return defaultCategory
}
