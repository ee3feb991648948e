package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

type toutiaoSource struct {
	client *feedClient
}

func (s *toutiaoSource) Name() string { return "今日头条" }

type toutiaoBoardResponse struct {
	Data []struct {
		Title string `json:"Title"`
	} `json:"data"`
}

func (s *toutiaoSource) Fetch(timeWindowDays int) ([]string, error) {
	body, err := s.client.getJSON(
		"https://www.toutiao.com/hot-event/hot-board/",
		url.Values{"origin": {"toutiao_pc"}},
		map[string]string{"Referer": "https://www.toutiao.com/"},
	)
	if err != nil {
		return nil, err
	}

	var resp toutiaoBoardResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing hot board response: %w", err)
	}

	var texts []string
	for _, item := range resp.Data {
		if title := strings.TrimSpace(item.Title); title != "" {
			texts = append(texts, "[头条] "+title)
		}
	}
	return texts, nil
}
