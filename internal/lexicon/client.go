package lexicon

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/temoto/robotstxt"
	"golang.org/x/time/rate"

	"github.com/dkrebs/navilex/internal/model"
)

// Client looks up Latin words against the navigium.de dictionary.
// Requests are rate limited and, when configured, checked once against
// the host's robots.txt.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	limiter    *rate.Limiter

	respectRobots bool
	robotsOnce    sync.Once
	robotsData    *robotstxt.RobotsData
}

// NewClient creates a dictionary client from configuration.
func NewClient(cfg model.HTTPConfig, rl model.RateLimitConfig) *Client {
	burst := rl.Burst
	if burst <= 0 {
		burst = 1
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		userAgent:     cfg.UserAgent,
		maxBytes:      cfg.MaxBodyBytes,
		limiter:       rate.NewLimiter(rate.Limit(rl.RequestsPerSecond), burst),
		respectRobots: cfg.RespectRobots,
	}
}

// lookupURL builds the dictionary URL for a word. nr <= 0 omits the
// result-number parameter (the all-meanings page).
func (c *Client) lookupURL(word string, nr int) string {
	u := fmt.Sprintf("%s/%s?wb=gross", c.baseURL, url.PathEscape(word))
	if nr > 0 {
		u = fmt.Sprintf("%s&nr=%d", u, nr)
	}
	return u
}

// Lookup fetches one result for word. Fails soft on any transport error.
func (c *Client) Lookup(ctx context.Context, word string, nr int) model.LookupRecord {
	word = strings.ToLower(word)
	pageURL := c.lookupURL(word, nr)

	doc, err := c.fetch(ctx, pageURL)
	if err != nil {
		return errorRecord(word, nr, pageURL, err)
	}

	containers := resultContainers(doc)
	if len(containers) == 0 {
		// Old page layout: scrape the full text for grammar patterns.
		return parseLegacyPage(doc, word, nr, pageURL)
	}

	// With an explicit result number, show the matching container and
	// collect the remaining ones as alternatives.
	index := nr - 1
	if index >= len(containers) {
		index = len(containers) - 1
	}
	record := parseResultContainer(containers[index], word, nr)
	record.URL = pageURL

	for i, cont := range containers {
		if i == index {
			continue
		}
		alt := parseResultContainer(cont, word, i+1)
		if alt.Found {
			record.Alternatives = append(record.Alternatives, model.Alternative{Nr: i + 1, Lemma: alt.Lemma})
		}
	}

	return record
}

// LookupAll fetches every candidate meaning of word. Only containers from
// the dictionary's "lat. Formen" section count; entries from the phrases
// section are not forms of the word. An empty slice means the dictionary
// has no forms; a transport failure yields a single unfound record with
// Error set.
func (c *Client) LookupAll(ctx context.Context, word string) []model.LookupRecord {
	word = strings.ToLower(word)
	pageURL := c.lookupURL(word, 0)

	doc, err := c.fetch(ctx, pageURL)
	if err != nil {
		// Soft failure: a single record carrying the reason. Callers can
		// tell it apart from "no forms" and must not cache it.
		return []model.LookupRecord{errorRecord(word, 1, pageURL, err)}
	}

	containers := formsContainers(doc)
	results := make([]model.LookupRecord, 0, len(containers))
	for i, cont := range containers {
		record := parseResultContainer(cont, word, i+1)
		record.URL = c.lookupURL(word, i+1)
		record.Alternatives = []model.Alternative{}
		if record.Found {
			results = append(results, record)
		}
	}
	return results
}

// fetch retrieves and parses a dictionary page.
func (c *Client) fetch(ctx context.Context, rawURL string) (*pageDoc, error) {
	if err := c.checkRobots(ctx, rawURL); err != nil {
		return nil, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return parsePage(string(body))
}

// checkRobots fetches robots.txt for the dictionary host once and refuses
// disallowed paths. Unreachable robots.txt allows by default.
func (c *Client) checkRobots(ctx context.Context, rawURL string) error {
	if !c.respectRobots {
		return nil
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse URL: %w", err)
	}

	c.robotsOnce.Do(func() {
		robotsURL := fmt.Sprintf("%s://%s/robots.txt", parsed.Scheme, parsed.Host)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
		if err != nil {
			return
		}
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return
		}
		defer func() { _ = resp.Body.Close() }()

		data, err := robotstxt.FromResponse(resp)
		if err != nil {
			return
		}
		c.robotsData = data
	})

	if c.robotsData == nil {
		return nil
	}
	agent := strings.Split(c.userAgent, "/")[0]
	if !c.robotsData.TestAgent(parsed.Path, agent) {
		return fmt.Errorf("disallowed by robots.txt: %s", parsed.Path)
	}
	return nil
}
