package main

import (
	"encoding/json"
	"fmt"
	"strings"
)

type weiboSource struct {
	client *feedClient
}

func (s *weiboSource) Name() string { return "微博热搜" }

type weiboHotResponse struct {
	Data struct {
		Realtime []struct {
			Word      string `json:"word"`
			LabelName string `json:"label_name"`
		} `json:"realtime"`
	} `json:"data"`
}

func (s *weiboSource) Fetch(timeWindowDays int) ([]string, error) {
	body, err := s.client.getJSON("https://weibo.com/ajax/side/hotSearch", nil, map[string]string{
		"Referer": "https://weibo.com/",
	})
	if err != nil {
		return nil, err
	}

	var resp weiboHotResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing hot search response: %w", err)
	}

	var texts []string
	for _, item := range resp.Data.Realtime {
		word := strings.TrimSpace(item.Word)
		if word == "" {
			continue
		}
		prefix := ""
		if item.LabelName != "" {
			prefix = "[" + item.LabelName + "] "
		}
		texts = append(texts, "[微博] "+prefix+word)
	}
	return texts, nil
}
