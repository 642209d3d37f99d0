package worker

import (
	"context"
	"testing"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != 1 {
		t.Errorf("expected default burst 1 for negative input, got %d", l2.defaultBurst)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "www.bezrealitky.cz"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
	if err := limiter.Wait(ctx, "www.sreality.cz"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_PerDomainBuckets(t *testing.T) {
	// 1 rps, burst 1: the first request drains the domain's bucket
	limiter := NewLimiter(1, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "www.bezrealitky.cz"); err != nil {
		t.Fatalf("first wait failed: %v", err)
	}
	if limiter.Allow("www.bezrealitky.cz") {
		t.Error("expected exhausted bucket for the same domain")
	}
	if !limiter.Allow("www.sreality.cz") {
		t.Error("expected a fresh bucket for a different domain")
	}
}

func TestLimiter_SetDomainRate(t *testing.T) {
	limiter := NewLimiter(10, 10)

	limiter.SetDomainRate("slow.example.cz", 0.1, 1)

	if !limiter.Allow("slow.example.cz") {
		t.Error("first request should pass the burst")
	}
	if limiter.Allow("slow.example.cz") {
		t.Error("second request should be limited")
	}
	if !limiter.Allow("fast.example.cz") {
		t.Error("other domains keep the default rate")
	}
}

func TestLimiter_WaitCancelled(t *testing.T) {
	limiter := NewLimiter(0.001, 1)
	ctx, cancel := context.WithCancel(context.Background())

	// Drain the burst, then cancel while the next Wait would block
	if err := limiter.Wait(ctx, "www.bezrealitky.cz"); err != nil {
		t.Fatalf("first wait failed: %v", err)
	}
	cancel()
	if err := limiter.Wait(ctx, "www.bezrealitky.cz"); err == nil {
		t.Error("expected error from cancelled wait")
	}
}
