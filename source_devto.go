package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const devtoArticleLimit = 300

type devtoSource struct {
	client *feedClient
}

func (s *devtoSource) Name() string { return "Dev.to" }

type devtoArticle struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	TagList     []string `json:"tag_list"`
}

func (s *devtoSource) Fetch(timeWindowDays int) ([]string, error) {
	var results []string
	page := 1
	const perPage = 30

	for len(results) < devtoArticleLimit {
		body, err := s.client.getJSON("https://dev.to/api/articles", url.Values{
			"top":      {strconv.Itoa(timeWindowDays)},
			"per_page": {strconv.Itoa(perPage)},
			"page":     {strconv.Itoa(page)},
		}, nil)
		if err != nil {
			if len(results) > 0 {
				break
			}
			return nil, err
		}

		var articles []devtoArticle
		if err := json.Unmarshal(body, &articles); err != nil {
			return nil, fmt.Errorf("parsing articles response: %w", err)
		}
		if len(articles) == 0 {
			break
		}

		for _, a := range articles {
			line := "[Dev.to] " + a.Title
			if desc := strings.TrimSpace(a.Description); desc != "" {
				line += " - " + truncateRunes(desc, 100)
			}
			if len(a.TagList) > 0 {
				tags := a.TagList
				if len(tags) > 8 {
					tags = tags[:8]
				}
				line += " (tags: " + strings.Join(tags, ", ") + ")"
			}
			results = append(results, line)
		}

		if len(articles) < perPage {
			break
		}
		page++
		s.client.pause()
	}

	if len(results) > devtoArticleLimit {
		results = results[:devtoArticleLimit]
	}
	return results, nil
}
