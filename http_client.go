package main

import (
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"time"
)

const defaultFeedTimeout = 20 * time.Second
const feedMaxRetries = 3

var browserUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:133.0) Gecko/20100101 Firefox/133.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/18.2 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/130.0.0.0 Safari/537.36 Edg/130.0.0.0",
}

// feedClient is the HTTP client shared by all feed sources. Explicitly
// constructed and passed around; no per-goroutine hidden state.
type feedClient struct {
	http  *http.Client
	sleep func(time.Duration)
	rng   *rand.Rand
}

func newFeedClient(timeout time.Duration) *feedClient {
	if timeout <= 0 {
		timeout = defaultFeedTimeout
	}
	return &feedClient{
		http:  &http.Client{Timeout: timeout},
		sleep: time.Sleep,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// pause sleeps the polite inter-request interval feeds expect.
func (c *feedClient) pause() {
	c.sleep(time.Duration(1000+c.rng.Intn(1000)) * time.Millisecond)
}

// getJSON issues a GET with a rotating browser User-Agent, retrying
// with exponential backoff and honoring 429s, and returns the body.
func (c *feedClient) getJSON(rawURL string, params url.Values, headers map[string]string) ([]byte, error) {
	if params != nil {
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, fmt.Errorf("parsing url %s: %w", rawURL, err)
		}
		q := u.Query()
		for k, vs := range params {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
		rawURL = u.String()
	}

	var lastErr error
	for attempt := 1; attempt <= feedMaxRetries; attempt++ {
		req, err := http.NewRequest("GET", rawURL, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("User-Agent", browserUserAgents[c.rng.Intn(len(browserUserAgents))])
		req.Header.Set("Accept", "application/json, text/html, */*")
		req.Header.Set("Accept-Language", "zh-CN,zh;q=0.9,en;q=0.8")
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("executing request: %w", err)
			if attempt < feedMaxRetries {
				c.sleep(time.Duration(1<<uint(attempt)) * time.Second)
				continue
			}
			return nil, lastErr
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("reading response: %w", err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("feed returned 429")
			c.sleep(time.Duration(1<<uint(attempt)) * time.Second)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("feed returned %d: %s", resp.StatusCode, truncateBody(body))
			if attempt < feedMaxRetries {
				c.sleep(time.Duration(1<<uint(attempt)) * time.Second)
				continue
			}
			return nil, lastErr
		}
		return body, nil
	}
	return nil, lastErr
}

func truncateBody(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
