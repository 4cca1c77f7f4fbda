package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestTokenBucketExhaustion(t *testing.T) {
	tb := NewTokenBucket(3, 1)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if !tb.Allow(ctx) {
			t.Fatalf("request %d should be allowed", i)
		}
	}
	if tb.Allow(ctx) {
		t.Fatalf("bucket should be empty")
	}
}

func TestSlidingWindowLimit(t *testing.T) {
	sw := NewSlidingWindow(time.Minute, 2)
	ctx := context.Background()

	if !sw.Allow(ctx) || !sw.Allow(ctx) {
		t.Fatalf("first two requests should pass")
	}
	if sw.Allow(ctx) {
		t.Fatalf("third request should be limited")
	}
}

func TestRateLimitMiddlewareReturns429(t *testing.T) {
	handler := RateLimit(NewTokenBucket(1, 1))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: expected 429, got %d", rec.Code)
	}
}

func TestCircuitBreakerOpensAfterFailures(t *testing.T) {
	cb := NewCircuitBreaker("test", 2, time.Hour)
	ctx := context.Background()
	boom := fmt.Errorf("boom")

	for i := 0; i < 2; i++ {
		if err := cb.Call(ctx, func() error { return boom }); err != boom {
			t.Fatalf("call %d: expected boom, got %v", i, err)
		}
	}
	if cb.State() != StateOpen {
		t.Fatalf("expected open state, got %v", cb.State())
	}

	// 熔断期间直接拒绝，不再执行函数。
	called := false
	err := cb.Call(ctx, func() error { called = true; return nil })
	if err == nil || called {
		t.Fatalf("expected rejection while open, err=%v called=%v", err, called)
	}
}

func TestCircuitBreakerRecovers(t *testing.T) {
	cb := NewCircuitBreaker("test", 1, 10*time.Millisecond)
	ctx := context.Background()

	if err := cb.Call(ctx, func() error { return fmt.Errorf("boom") }); err == nil {
		t.Fatalf("expected failure")
	}
	if cb.State() != StateOpen {
		t.Fatalf("expected open state")
	}

	time.Sleep(20 * time.Millisecond)
	// 半开放行，成功后回到关闭。
	if err := cb.Call(ctx, func() error { return nil }); err != nil {
		t.Fatalf("expected half-open success, got %v", err)
	}
	if cb.State() != StateClosed {
		t.Fatalf("expected closed state, got %v", cb.State())
	}
}

func TestBreakerMiddleware(t *testing.T) {
	cb := NewCircuitBreaker("test", 1, time.Hour)
	failing := Breaker(cb)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	rec := httptest.NewRecorder()
	failing.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 from handler, got %d", rec.Code)
	}
	// handler 已写过响应，中间件不能再追加 503 的响应体。
	if body := rec.Body.String(); body != "" {
		t.Fatalf("expected untouched response body, got %q", body)
	}

	// 熔断已开启，后续请求直接 503。
	rec = httptest.NewRecorder()
	failing.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 while open, got %d", rec.Code)
	}
}
