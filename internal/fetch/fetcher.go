// Package fetch retrieves listing pages over HTTP with the politeness
// machinery in front of it: robots.txt gate, per-domain rate limit and an
// optional page cache.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/KajetanPoliak/proklep/internal/cache"
	"github.com/KajetanPoliak/proklep/internal/extract"
	"github.com/KajetanPoliak/proklep/internal/model"
	"github.com/KajetanPoliak/proklep/internal/util"
)

// ErrDisallowed marks URLs the site's robots.txt forbids for our agent.
var ErrDisallowed = fmt.Errorf("robots.txt disallows fetching")

// Waiter blocks until a request to the domain may proceed. Satisfied by the
// worker package's per-domain limiter.
type Waiter interface {
	Wait(ctx context.Context, domain string) error
}

// Fetcher fetches listing pages and parses them into documents.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	robots     *util.RobotsChecker
	limiter    Waiter
	pages      cache.Cache
}

// New creates a Fetcher. limiter and pages may be nil to disable rate
// limiting and caching respectively.
func New(cfg model.HTTPConfig, limiter Waiter, pages cache.Cache) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBodyBytes,
		robots:    util.NewRobotsChecker(cfg.UserAgent, cfg.Timeout),
		limiter:   limiter,
		pages:     pages,
	}
}

// Fetch retrieves one listing page and parses it. Cached pages bypass the
// robots gate and the rate limiter; they cost the site nothing.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*extract.Document, error) {
	cacheKey := cache.Key("page", rawURL)
	if f.pages != nil {
		if body, ok := f.pages.Get(cacheKey); ok {
			return extract.NewDocument(rawURL, bytes.NewReader(body))
		}
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url %q: %w", rawURL, err)
	}

	if allowed, err := f.robots.Allowed(ctx, rawURL); err == nil && !allowed {
		return nil, fmt.Errorf("%s: %w", rawURL, ErrDisallowed)
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, parsed.Host); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	body, err := f.get(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	if f.pages != nil {
		_ = f.pages.Set(cacheKey, body, 0)
	}
	return extract.NewDocument(rawURL, bytes.NewReader(body))
}

func (f *Fetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "cs-CZ,cs;q=0.9,en;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}
