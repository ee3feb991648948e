package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

type baiduSource struct {
	client *feedClient
}

func (s *baiduSource) Name() string { return "百度热搜" }

type baiduBoardResponse struct {
	Data struct {
		Cards []struct {
			Content []struct {
				Word string `json:"word"`
				Desc string `json:"desc"`
			} `json:"content"`
		} `json:"cards"`
	} `json:"data"`
}

func (s *baiduSource) Fetch(timeWindowDays int) ([]string, error) {
	body, err := s.client.getJSON("https://top.baidu.com/api/board", url.Values{"tab": {"realtime"}}, nil)
	if err != nil {
		return nil, err
	}

	var resp baiduBoardResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing board response: %w", err)
	}

	var texts []string
	for _, card := range resp.Data.Cards {
		for _, item := range card.Content {
			word := strings.TrimSpace(item.Word)
			if word == "" {
				continue
			}
			line := "[百度] " + word
			if desc := strings.TrimSpace(item.Desc); desc != "" {
				line += " - " + truncateRunes(desc, 100)
			}
			texts = append(texts, line)
		}
	}
	return texts, nil
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
