package main

import (
	"log"
	"sync"
	"time"
)

// FeedSource yields hot-content lines from one platform. Each line is
// formatted "[tag] title ..." so the extraction prompt sees the origin.
type FeedSource interface {
	Name() string
	Fetch(timeWindowDays int) ([]string, error)
}

func allSources(cfg Config) []FeedSource {
	client := newFeedClient(time.Duration(cfg.RequestTimeoutSeconds) * time.Second)
	return []FeedSource{
		&weiboSource{client: client},
		&baiduSource{client: client},
		&bilibiliSource{client: client},
		&toutiaoSource{client: client},
		&douyinSource{client: client},
		&hackerNewsSource{client: client},
		&githubSource{client: client, token: cfg.GitHubToken},
		&devtoSource{client: client},
	}
}

// CollectAll fetches every source in parallel and concatenates the
// results. A failing source logs and contributes nothing; it never
// blocks or aborts the others.
func CollectAll(sources []FeedSource, timeWindowDays int) []string {
	var mu sync.Mutex
	var all []string
	var wg sync.WaitGroup

	for _, src := range sources {
		wg.Add(1)
		go func(src FeedSource) {
			defer wg.Done()
			texts, err := src.Fetch(timeWindowDays)
			if err != nil {
				log.Printf("collect %s failed: %v", src.Name(), err)
				return
			}
			log.Printf("collect %s: %d lines", src.Name(), len(texts))
			mu.Lock()
			all = append(all, texts...)
			mu.Unlock()
		}(src)
	}
	wg.Wait()

	log.Printf("collect total=%d lines from %d sources", len(all), len(sources))
	return all
}
