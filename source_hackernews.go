package main

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
)

const hnBaseURL = "https://hacker-news.firebaseio.com/v0"
const hnStoryLimit = 500
const hnStoryConcurrency = 10

type hackerNewsSource struct {
	client *feedClient
}

func (s *hackerNewsSource) Name() string { return "HackerNews" }

// Fetch collects story IDs from the top/new/best lists (top gets the
// full limit, the others half) and resolves titles concurrently.
func (s *hackerNewsSource) Fetch(timeWindowDays int) ([]string, error) {
	var storyIDs []int64
	seen := make(map[int64]bool)

	for _, endpoint := range []string{"topstories", "newstories", "beststories"} {
		body, err := s.client.getJSON(fmt.Sprintf("%s/%s.json", hnBaseURL, endpoint), nil, nil)
		if err != nil {
			log.Printf("collect HackerNews %s failed: %v", endpoint, err)
			continue
		}
		var ids []int64
		if err := json.Unmarshal(body, &ids); err != nil {
			log.Printf("collect HackerNews %s parse failed: %v", endpoint, err)
			continue
		}
		cap := hnStoryLimit
		if endpoint != "topstories" {
			cap = hnStoryLimit / 2
		}
		if len(ids) > cap {
			ids = ids[:cap]
		}
		for _, id := range ids {
			if !seen[id] {
				storyIDs = append(storyIDs, id)
				seen[id] = true
			}
		}
		s.client.pause()
	}

	if len(storyIDs) == 0 {
		return nil, fmt.Errorf("no story IDs collected")
	}

	titles := make([]string, len(storyIDs))
	sem := make(chan struct{}, hnStoryConcurrency)
	var wg sync.WaitGroup
	for i, id := range storyIDs {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, id int64) {
			defer wg.Done()
			defer func() { <-sem }()
			if title := s.fetchTitle(id); title != "" {
				titles[idx] = "[HN] " + title
			}
		}(i, id)
	}
	wg.Wait()

	var texts []string
	for _, t := range titles {
		if t != "" {
			texts = append(texts, t)
		}
	}
	return texts, nil
}

func (s *hackerNewsSource) fetchTitle(id int64) string {
	body, err := s.client.getJSON(fmt.Sprintf("%s/item/%d.json", hnBaseURL, id), nil, nil)
	if err != nil {
		return ""
	}
	var item struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal(body, &item); err != nil {
		return ""
	}
	return item.Title
}
