// Copyright 2025 Agentic World, LLC (Sherin Thomas)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package aragog implements a polite, single-host web crawler. Given a
// domain it discovers reachable pages by following hyperlinks, obeying the
// site's robots.txt Allow/Disallow groups and never fetching the same URL
// twice. The frontier is breadth-first and strictly rate limited.
package aragog

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/LachlanMarnham/aragog/debug"
	"github.com/LachlanMarnham/aragog/graph"
	"github.com/LachlanMarnham/aragog/storage"
)

var (
	// ErrUnsupportedSchema is the error returned for a URL schema other
	// than "http://" or "https://"
	ErrUnsupportedSchema = errors.New(`unsupported URL schema, want "http://" or "https://"`)
	// ErrMissingDomain is the error returned when no target domain is configured
	ErrMissingDomain = errors.New("missing target domain")
	// ErrNoPattern is the error type for RateLimiters without patterns
	ErrNoPattern = errors.New("no pattern defined in RateLimiter")
	// ErrRobotsTxtBlocked is the error type for robots.txt rejections
	ErrRobotsTxtBlocked = errors.New("URL blocked by robots.txt")
)

// Config holds a crawl session's configuration
type Config struct {
	// Domain is the target host, e.g. "www.example.com/". A missing
	// trailing slash is normalized to present.
	Domain string
	// Schema is the URL schema used to reach the domain. Only "http://"
	// and "https://" are supported; anything else is a fatal
	// configuration error before any crawling begins.
	Schema string
	// UserAgent is sent with every request
	UserAgent string
	// RelevantAgents are the robots.txt agent tokens this crawler obeys
	RelevantAgents []string
	// MaxRate is the maximum number of fetches per second
	MaxRate float64
	// RequestTimeout bounds each fetch, transport-side
	RequestTimeout time.Duration
	// MaxBodySize caps the number of response bytes read per fetch
	MaxBodySize int
	// DetectCharset enables charset sniffing for pages served without an
	// explicit charset declaration. This feature uses https://github.com/saintfish/chardet
	DetectCharset bool
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Schema:         "https://",
		UserAgent:      "aragog/1.0 (+https://github.com/LachlanMarnham/aragog)",
		RelevantAgents: []string{"*"},
		MaxRate:        10,
		RequestTimeout: 20 * time.Second,
		MaxBodySize:    10 * 1024 * 1024, // 10MB
		DetectCharset:  false,
	}
}

var envMap = map[string]func(*Config, string){
	"ARAGOG_USER_AGENT": func(c *Config, val string) {
		c.UserAgent = val
	},
	"ARAGOG_MAX_RATE": func(c *Config, val string) {
		rate, err := strconv.ParseFloat(val, 64)
		if err == nil && rate > 0 {
			c.MaxRate = rate
		}
	},
	"ARAGOG_MAX_BODY_SIZE": func(c *Config, val string) {
		size, err := strconv.Atoi(val)
		if err == nil {
			c.MaxBodySize = size
		}
	},
	"ARAGOG_DETECT_CHARSET": func(c *Config, val string) {
		c.DetectCharset = isYesString(val)
	},
}

func isYesString(s string) bool {
	switch strings.ToLower(s) {
	case "1", "yes", "true", "y":
		return true
	}
	return false
}

func parseSettingsFromEnv(config *Config) {
	for k, f := range envMap {
		if v, ok := os.LookupEnv(k); ok {
			f(config, v)
		}
	}
}

// PageResult contains the data collected from a single crawled page
type PageResult struct {
	// URL is the URL that was crawled
	URL string
	// Status is the HTTP status code (e.g., 200, 404, 500)
	Status int
	// Title is the page title extracted from the <title> tag (for HTML pages)
	Title string
	// Hrefs is the number of raw anchors found on the page
	Hrefs int
	// Error contains any error message if the fetch failed, empty otherwise
	Error string
}

// OnURLDiscoveredFunc is called exactly once per unique URL found during the
// crawl, at the moment it is first discovered.
type OnURLDiscoveredFunc func(url string)

// OnPageCrawledFunc is called after each page is fetched and processed,
// including pages whose fetch failed (see PageResult.Error).
type OnPageCrawledFunc func(*PageResult)

// OnCrawlCompleteFunc is called when the crawl finishes, with the total
// number of pages crawled and unique URLs discovered.
type OnCrawlCompleteFunc func(totalPages int, totalDiscovered int)

// Crawler drives the fetch -> extract -> filter -> reschedule cycle for one
// target domain until no scheduled work remains. The loop is synchronous:
// one fetch at a time, spaced by the rate limiter.
type Crawler struct {
	// Config is the session configuration (read-only after NewCrawler)
	Config *Config
	// ID is the unique identifier of the crawler
	ID uint32

	backend       Transport
	httpClient    *httpBackend
	limiter       *RateLimiter
	policy        RobotsPolicy
	store         storage.Storage
	observer      graph.Observer
	debugger      debug.Debugger
	domainPattern *regexp.Regexp
	rootURL       string // schema + host, no trailing slash
	host          string
	requestCount  uint32

	onURLDiscovered OnURLDiscoveredFunc
	onPageCrawled   OnPageCrawledFunc
	onCrawlComplete OnCrawlCompleteFunc
	mutex           sync.RWMutex
}

var crawlerCounter uint32

// NewCrawler creates a crawler for the configured domain. Configuration
// errors (unsupported schema, missing domain) are fatal here, before any
// crawling begins. If config is nil, default configuration is used.
func NewCrawler(config *Config) (*Crawler, error) {
	if config == nil {
		config = NewDefaultConfig()
	}
	parseSettingsFromEnv(config)

	if config.Schema != "http://" && config.Schema != "https://" {
		return nil, fmt.Errorf("%w: got %q", ErrUnsupportedSchema, config.Schema)
	}
	if config.Domain == "" {
		return nil, ErrMissingDomain
	}
	if !strings.HasSuffix(config.Domain, "/") {
		config.Domain += "/"
	}
	if len(config.RelevantAgents) == 0 {
		config.RelevantAgents = []string{"*"}
	}

	host := strings.TrimSuffix(config.Domain, "/")
	limiter := NewRateLimiter(config.MaxRate, host)
	if err := limiter.Init(); err != nil {
		return nil, err
	}
	backend := newHTTPBackend(config.UserAgent, config.RequestTimeout, config.MaxBodySize, config.DetectCharset)
	store := &storage.InMemoryStorage{}
	if err := store.Init(); err != nil {
		return nil, err
	}

	return &Crawler{
		Config:        config,
		ID:            atomic.AddUint32(&crawlerCounter, 1),
		backend:       backend,
		httpClient:    backend,
		limiter:       limiter,
		store:         store,
		domainPattern: localURLPattern(config.Domain),
		rootURL:       config.Schema + host,
		host:          host,
	}, nil
}

// SetClient replaces the HTTP client used by the default transport.
// Primarily useful for testing with a mock RoundTripper.
func (c *Crawler) SetClient(client *http.Client) {
	c.httpClient.Client = client
}

// SetTransport replaces the Transport used for fetching pages
func (c *Crawler) SetTransport(t Transport) {
	c.backend = t
}

// SetStorage replaces the session state backend. Must be called before Run.
func (c *Crawler) SetStorage(s storage.Storage) error {
	if err := s.Init(); err != nil {
		return err
	}
	c.store = s
	return nil
}

// SetObserver attaches a link graph observer. Optional; the crawl does not
// depend on it.
func (c *Crawler) SetObserver(o graph.Observer) {
	c.observer = o
}

// SetDebugger attaches a debugger to the crawler
func (c *Crawler) SetDebugger(d debug.Debugger) {
	d.Init()
	c.debugger = d
}

// SetOnURLDiscovered registers the new-URL callback
func (c *Crawler) SetOnURLDiscovered(f OnURLDiscoveredFunc) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.onURLDiscovered = f
}

// SetOnPageCrawled registers the per-page callback
func (c *Crawler) SetOnPageCrawled(f OnPageCrawledFunc) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.onPageCrawled = f
}

// SetOnCrawlComplete registers the completion callback
func (c *Crawler) SetOnCrawlComplete(f OnCrawlCompleteFunc) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.onCrawlComplete = f
}

// Policy returns the robots policy in force, or nil before Run
func (c *Crawler) Policy() RobotsPolicy {
	return c.policy
}

// Run executes the whole crawl session: build the robots policy, seed the
// frontier with the site root and process the queue until it empties.
// Termination is guaranteed only when the reachable local URL graph is
// finite; a generative site can keep minting unique URLs forever.
func (c *Crawler) Run() error {
	if err := c.loadRobotsPolicy(); err != nil {
		return err
	}

	seed := normalizeURL(c.rootURL + "/")
	c.store.MarkSeen(seed)
	c.store.ScheduleIfNew(seed)
	c.emitURLDiscovered(seed)

	totalPages := 0
	for {
		u, ok, err := c.store.PopScheduled()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		c.crawlPage(u)
		totalPages++
	}

	seen, _, _, err := c.store.Counts()
	if err != nil {
		return err
	}
	c.mutex.RLock()
	onComplete := c.onCrawlComplete
	c.mutex.RUnlock()
	if onComplete != nil {
		onComplete(totalPages, seen)
	}
	return nil
}

// loadRobotsPolicy fetches and parses the site's robots.txt. A transport
// failure on this one fetch is recoverable: the site is treated as having
// no robots restrictions. That fallback is deliberately narrow; it does not
// extend to ordinary page fetches.
func (c *Crawler) loadRobotsPolicy() error {
	robotsURL := c.rootURL + "/robots.txt"
	c.limiter.Wait()
	resp, err := c.backend.Fetch(robotsURL)
	if err != nil {
		c.event("robots_error", 0, map[string]string{"url": robotsURL, "error": err.Error()})
		c.policy = &RuleSet{}
		return nil
	}
	policy, err := ParseRobots(c.rootURL, resp.Text(), c.Config.RelevantAgents)
	if err != nil {
		return err
	}
	c.policy = policy
	c.event("robots_loaded", 0, map[string]string{"url": robotsURL, "rules": strconv.Itoa(policy.Len())})
	return nil
}

// crawlPage performs one iteration of the frontier loop for a single URL.
// The URL transitions to crawled no matter what: a failed fetch is reported
// through callbacks and skipped, never retried and never fatal.
func (c *Crawler) crawlPage(u string) {
	requestID := atomic.AddUint32(&c.requestCount, 1)

	if host := hostOf(u); host == "" || c.limiter.Match(host) {
		c.limiter.Wait()
	}
	resp, err := c.backend.Fetch(u)
	c.store.MarkCrawled(u)

	if err != nil {
		c.event("error", requestID, map[string]string{"url": u, "error": err.Error()})
		c.emitPageCrawled(&PageResult{URL: u, Error: err.Error()})
		return
	}

	page := &PageResult{URL: u, Status: resp.StatusCode}
	var hrefs []string
	if resp.IsHTML() {
		hrefs = extractHrefs(resp.Body)
		page.Title = extractTitle(resp.Body)
	}
	page.Hrefs = len(hrefs)
	c.event("fetch", requestID, map[string]string{"url": u, "status": strconv.Itoa(resp.StatusCode)})

	extracted := resolveURLs(u, hrefs)

	if c.observer != nil {
		for _, child := range extracted {
			if err := c.observer.AddEdge(u, child); err != nil {
				c.event("observer_error", requestID, map[string]string{"url": child, "error": err.Error()})
			}
		}
	}

	var newURLs []string
	for _, child := range extracted {
		canonical := normalizeURL(child)
		wasNew, _ := c.store.MarkSeen(canonical)
		if !wasNew {
			continue
		}
		newURLs = append(newURLs, canonical)
		c.emitURLDiscovered(canonical)
	}

	for _, local := range filterLocal(newURLs, c.domainPattern) {
		if !c.policy.IsAllowed(local) {
			c.event("robots_blocked", requestID, map[string]string{"url": local, "error": ErrRobotsTxtBlocked.Error()})
			continue
		}
		if scheduled, _ := c.store.ScheduleIfNew(local); scheduled {
			c.event("scheduled", requestID, map[string]string{"url": local})
		}
	}

	c.emitPageCrawled(page)
}

func (c *Crawler) emitURLDiscovered(u string) {
	c.mutex.RLock()
	f := c.onURLDiscovered
	c.mutex.RUnlock()
	if f != nil {
		f(u)
	}
}

func (c *Crawler) emitPageCrawled(page *PageResult) {
	c.mutex.RLock()
	f := c.onPageCrawled
	c.mutex.RUnlock()
	if f != nil {
		f(page)
	}
}

func (c *Crawler) event(eventType string, requestID uint32, values map[string]string) {
	if c.debugger == nil {
		return
	}
	c.debugger.Event(&debug.Event{
		Type:      eventType,
		RequestID: requestID,
		SessionID: c.ID,
		Values:    values,
	})
}

func hostOf(u string) string {
	parsed, err := url.Parse(u)
	if err != nil {
		return ""
	}
	return parsed.Host
}
