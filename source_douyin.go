package main

import (
	"encoding/json"
	"strings"
)

// douyinSource reads a third-party mirror of the Douyin hot list. The
// payload shape varies between deployments, so parsing stays loose.
type douyinSource struct {
	client *feedClient
}

func (s *douyinSource) Name() string { return "抖音热榜" }

func (s *douyinSource) Fetch(timeWindowDays int) ([]string, error) {
	body, err := s.client.getJSON("https://v2.xxapi.cn/api/douyinhot", nil, nil)
	if err != nil {
		return nil, err
	}

	var wrapper struct {
		Data []json.RawMessage `json:"data"`
	}
	var items []json.RawMessage
	if err := json.Unmarshal(body, &wrapper); err == nil && len(wrapper.Data) > 0 {
		items = wrapper.Data
	} else {
		// Some mirrors return the list at the top level.
		var topLevel []json.RawMessage
		if err := json.Unmarshal(body, &topLevel); err == nil {
			items = topLevel
		}
	}

	var texts []string
	for _, raw := range items {
		if title := douyinItemTitle(raw); title != "" {
			texts = append(texts, "[抖音] "+title)
		}
	}
	return texts, nil
}

func douyinItemTitle(raw json.RawMessage) string {
	var obj struct {
		Title string `json:"title"`
		Word  string `json:"word"`
		Name  string `json:"name"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		for _, candidate := range []string{obj.Title, obj.Word, obj.Name} {
			if t := strings.TrimSpace(candidate); t != "" {
				return t
			}
		}
		return ""
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return strings.TrimSpace(str)
	}
	return ""
}
