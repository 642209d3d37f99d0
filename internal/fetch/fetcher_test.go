package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/KajetanPoliak/proklep/internal/cache"
	"github.com/KajetanPoliak/proklep/internal/model"
)

func testHTTPConfig() model.HTTPConfig {
	return model.HTTPConfig{
		Timeout:      5 * time.Second,
		UserAgent:    "ProklepTest/0.1",
		MaxBodyBytes: 2_000_000,
	}
}

// site spins up a server with a robots.txt and a listing page, counting
// page requests.
func site(t *testing.T, robots string, pageHits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/robots.txt":
			_, _ = w.Write([]byte(robots))
		case "/listing/1":
			if pageHits != nil {
				atomic.AddInt32(pageHits, 1)
			}
			_, _ = w.Write([]byte(`<html><body><h1>Prodej bytu 3+kk</h1></body></html>`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch(t *testing.T) {
	srv := site(t, "User-agent: *\nAllow: /\n", nil)
	f := New(testHTTPConfig(), nil, nil)

	doc, err := f.Fetch(context.Background(), srv.URL+"/listing/1")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got := doc.FirstText("h1"); got != "Prodej bytu 3+kk" {
		t.Errorf("h1 = %q", got)
	}
}

func TestFetchDisallowed(t *testing.T) {
	srv := site(t, "User-agent: *\nDisallow: /listing/\n", nil)
	f := New(testHTTPConfig(), nil, nil)

	_, err := f.Fetch(context.Background(), srv.URL+"/listing/1")
	if !errors.Is(err, ErrDisallowed) {
		t.Errorf("err = %v, want ErrDisallowed", err)
	}
}

func TestFetchStatusError(t *testing.T) {
	srv := site(t, "User-agent: *\nAllow: /\n", nil)
	f := New(testHTTPConfig(), nil, nil)

	_, err := f.Fetch(context.Background(), srv.URL+"/gone")
	if err == nil || !strings.Contains(err.Error(), "unexpected status") {
		t.Errorf("err = %v, want status error", err)
	}
}

func TestFetchCachesPages(t *testing.T) {
	var hits int32
	srv := site(t, "User-agent: *\nAllow: /\n", &hits)
	pages := cache.NewMemory(time.Minute)
	f := New(testHTTPConfig(), nil, pages)

	url := srv.URL + "/listing/1"
	for i := 0; i < 2; i++ {
		if _, err := f.Fetch(context.Background(), url); err != nil {
			t.Fatalf("Fetch %d: %v", i, err)
		}
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Errorf("page fetched %d times, want 1", n)
	}
}

// A cached page must not consult robots.txt or the rate limiter at all.
func TestFetchCacheHitBypassesGates(t *testing.T) {
	pages := cache.NewMemory(time.Minute)
	url := "https://www.bezrealitky.cz/listing/1"
	if err := pages.Set(cache.Key("page", url), []byte("<html><body>cached</body></html>"), 0); err != nil {
		t.Fatal(err)
	}
	f := New(testHTTPConfig(), blockedWaiter{}, pages)

	doc, err := f.Fetch(context.Background(), url)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !strings.Contains(doc.Text(), "cached") {
		t.Errorf("doc text = %q", doc.Text())
	}
}

type blockedWaiter struct{}

func (blockedWaiter) Wait(context.Context, string) error {
	return errors.New("waiter must not be consulted on a cache hit")
}
