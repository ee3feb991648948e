package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Star tiers for repository search. Each tier caps at the Search API's
// 1000-result window, so tiering is how the source gets past it.
var githubStarTiers = []string{
	"stars:>500",
	"stars:50..500",
	"stars:10..50",
}

const githubPerTierLimit = 1000

type githubSource struct {
	client *feedClient
	token  string
}

func (s *githubSource) Name() string { return "GitHub" }

type githubRepoSearchResponse struct {
	Items []struct {
		FullName    string   `json:"full_name"`
		Name        string   `json:"name"`
		Description string   `json:"description"`
		Topics      []string `json:"topics"`
		Language    string   `json:"language"`
	} `json:"items"`
}

func (s *githubSource) Fetch(timeWindowDays int) ([]string, error) {
	since := time.Now().UTC().AddDate(0, 0, -timeWindowDays).Format("2006-01-02")

	var all []string
	seen := make(map[string]bool)
	for _, tier := range githubStarTiers {
		all = append(all, s.searchTier(tier, since, seen)...)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("no repositories collected")
	}
	return all, nil
}

func (s *githubSource) searchTier(starQuery, since string, seen map[string]bool) []string {
	var results []string
	page := 1
	const perPage = 100

	headers := map[string]string{"Accept": "application/vnd.github.v3+json"}
	if s.token != "" {
		headers["Authorization"] = "Bearer " + s.token
	}

	for len(results) < githubPerTierLimit {
		body, err := s.client.getJSON("https://api.github.com/search/repositories", url.Values{
			"q":        {fmt.Sprintf("%s pushed:>%s", starQuery, since)},
			"sort":     {"stars"},
			"order":    {"desc"},
			"per_page": {strconv.Itoa(perPage)},
			"page":     {strconv.Itoa(page)},
		}, headers)
		if err != nil {
			log.Printf("collect GitHub %s failed: %v", starQuery, err)
			break
		}

		var resp githubRepoSearchResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			log.Printf("collect GitHub %s parse failed: %v", starQuery, err)
			break
		}
		if len(resp.Items) == 0 {
			break
		}

		for _, item := range resp.Items {
			if item.FullName == "" || seen[item.FullName] {
				continue
			}
			seen[item.FullName] = true

			line := "[GitHub] " + item.Name
			if desc := strings.TrimSpace(item.Description); desc != "" {
				line += " - " + truncateRunes(desc, 150)
			}
			if len(item.Topics) > 0 {
				topics := item.Topics
				if len(topics) > 8 {
					topics = topics[:8]
				}
				line += " (topics: " + strings.Join(topics, ", ") + ")"
			}
			if item.Language != "" {
				line += " [" + item.Language + "]"
			}
			results = append(results, line)
		}

		if len(resp.Items) < perPage {
			break
		}
		page++
		// Search API allows 30 req/min authenticated; 2s between pages.
		s.client.sleep(2 * time.Second)
	}

	if len(results) > githubPerTierLimit {
		results = results[:githubPerTierLimit]
	}
	log.Printf("collect GitHub %s: %d repos", starQuery, len(results))
	return results
}
