package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

type bilibiliSource struct {
	client *feedClient
}

func (s *bilibiliSource) Name() string { return "B站" }

type bilibiliHotwordResponse struct {
	List []struct {
		Keyword string `json:"keyword"`
	} `json:"list"`
}

type bilibiliRankingResponse struct {
	Data struct {
		List []struct {
			Title string `json:"title"`
			Tname string `json:"tname"`
		} `json:"list"`
	} `json:"data"`
}

// Fetch combines the hot-search words with the all-category video
// ranking. Either half can fail independently.
func (s *bilibiliSource) Fetch(timeWindowDays int) ([]string, error) {
	var texts []string

	body, err := s.client.getJSON("https://s.search.bilibili.com/main/hotword", nil, nil)
	if err == nil {
		var resp bilibiliHotwordResponse
		if jsonErr := json.Unmarshal(body, &resp); jsonErr == nil {
			for _, item := range resp.List {
				if word := strings.TrimSpace(item.Keyword); word != "" {
					texts = append(texts, "[B站热搜] "+word)
				}
			}
		}
	}

	s.client.pause()

	body, err = s.client.getJSON(
		"https://api.bilibili.com/x/web-interface/ranking/v2",
		url.Values{"rid": {"0"}, "type": {"all"}},
		map[string]string{
			"Referer": "https://www.bilibili.com/v/popular/rank/all",
			"Origin":  "https://www.bilibili.com",
		},
	)
	if err != nil {
		if len(texts) > 0 {
			return texts, nil
		}
		return nil, err
	}

	var ranking bilibiliRankingResponse
	if err := json.Unmarshal(body, &ranking); err != nil {
		if len(texts) > 0 {
			return texts, nil
		}
		return nil, fmt.Errorf("parsing ranking response: %w", err)
	}
	for _, item := range ranking.Data.List {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}
		line := "[B站热门] " + title
		if item.Tname != "" {
			line += " (" + item.Tname + ")"
		}
		texts = append(texts, line)
	}
	return texts, nil
}
