package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MrSnakeDoc/telemanager/internal/domain"
	"github.com/MrSnakeDoc/telemanager/internal/logger"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func TestRequireRole(t *testing.T) {
	h := RequireRole(domain.RoleOwner, logger.Nop())(okHandler)

	tests := []struct {
		role string
		want int
	}{
		{"owner", http.StatusNoContent},
		{" Owner ", http.StatusNoContent},
		{"advertiser", http.StatusForbidden},
		{"", http.StatusForbidden},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		if tt.role != "" {
			req.Header.Set(RoleHeader, tt.role)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != tt.want {
			t.Errorf("role %q: status = %d, want %d", tt.role, rec.Code, tt.want)
		}
	}
}

func TestMatchHost(t *testing.T) {
	tests := []struct {
		host    string
		pattern string
		want    bool
	}{
		{"tm.example.com", "tm.example.com", true},
		{"app.example.com", "*.example.com", true},
		{"example.com", "*.example.com", false},
		{".example.com", "*.example.com", false},
		{"evil.com", "tm.example.com", false},
	}

	for _, tt := range tests {
		if got := matchHost(tt.host, tt.pattern); got != tt.want {
			t.Errorf("matchHost(%q, %q) = %v, want %v", tt.host, tt.pattern, got, tt.want)
		}
	}
}

func TestEnforceHostPassthrough(t *testing.T) {
	h := EnforceHost(nil, logger.Nop())(okHandler)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want passthrough", rec.Code)
	}
}

func TestAllowOnlyCIDRS(t *testing.T) {
	h := AllowOnlyCIDRS([]string{"192.0.2.0/24"}, false, logger.Nop())(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/", nil) // 192.0.2.1
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("allowed ip: status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.9:5555"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("foreign ip: status = %d, want 403", rec.Code)
	}
}

func TestLimiterAllow(t *testing.T) {
	l := newLimiter(RateLimitConfig{Burst: 2, RefillPerIPPerMin: 60})
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 2; i++ {
		if ok, _, _ := l.allow("1.2.3.4", now); !ok {
			t.Fatalf("request %d rejected within burst", i)
		}
	}

	ok, _, retry := l.allow("1.2.3.4", now)
	if ok {
		t.Fatal("third request allowed, want rejection")
	}
	if retry != 1 {
		t.Errorf("retry = %d, want 1s at one token per second", retry)
	}

	if ok, _, _ := l.allow("5.6.7.8", now); !ok {
		t.Error("other client should have its own bucket")
	}

	if ok, _, _ := l.allow("1.2.3.4", now.Add(time.Second)); !ok {
		t.Error("bucket did not refill after one second")
	}
}

func TestLimiterSweep(t *testing.T) {
	l := newLimiter(RateLimitConfig{Burst: 1, RefillPerIPPerMin: 1, IdleTTL: time.Minute})
	now := time.Now()
	l.allow("1.2.3.4", now)

	// The next call sweeps the idle bucket before adding its own
	l.allow("5.6.7.8", now.Add(2*time.Minute))

	l.mu.Lock()
	_, stale := l.buckets["1.2.3.4"]
	n := len(l.buckets)
	l.mu.Unlock()

	if stale || n != 1 {
		t.Errorf("buckets after sweep = %d (stale kept: %v), want only the fresh one", n, stale)
	}
}
