package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(limit int, window time.Duration) (*Limiter, *fakeClock) {
	clk := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	l := New(limit, window)
	l.now = clk.Now
	return l, clk
}

func TestAllow_BurstThenBlock(t *testing.T) {
	l, _ := newTestLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Allow("a") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.Allow("a") {
		t.Error("4th request should be blocked")
	}
}

func TestAllow_KeysIndependent(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)

	if !l.Allow("a") {
		t.Fatal("first request for a should be allowed")
	}
	if !l.Allow("b") {
		t.Error("first request for b should be allowed")
	}
	if l.Allow("a") {
		t.Error("second request for a should be blocked")
	}
}

func TestAllow_Refills(t *testing.T) {
	l, clk := newTestLimiter(2, time.Minute)

	l.Allow("a")
	l.Allow("a")
	if l.Allow("a") {
		t.Fatal("expected block after burst")
	}

	clk.Advance(30 * time.Second)
	if !l.Allow("a") {
		t.Error("expected a token after one refill interval")
	}
}

func TestSweep_DropsIdleKeys(t *testing.T) {
	l, clk := newTestLimiter(2, time.Minute)

	l.Allow("a")
	l.Allow("b")
	if l.Len() != 2 {
		t.Fatalf("expected 2 keys, got %d", l.Len())
	}

	clk.Advance(3 * time.Minute)
	l.Allow("c")
	if l.Len() != 1 {
		t.Errorf("expected idle keys swept, have %d", l.Len())
	}
}

func TestMiddleware(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)
	h := l.Middleware(func(r *http.Request) string { return "k" })(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/posts", nil))
	if rec.Code != http.StatusCreated {
		t.Fatalf("first request: got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/posts", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("second request: got %d, want %d", rec.Code, http.StatusTooManyRequests)
	}
	if rec.Header().Get("Retry-After") != "60" {
		t.Errorf("Retry-After: got %q", rec.Header().Get("Retry-After"))
	}
}
