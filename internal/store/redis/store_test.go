package redis

import (
	"context"
	"testing"
	"time"
)

func TestVerdictKey(t *testing.T) {
	tests := []struct {
		handle string
		want   string
	}{
		{"my_channel", "tm:verdict:my_channel"},
		{"My_Channel", "tm:verdict:my_channel"},
	}
	for _, tt := range tests {
		if got := VerdictKey(tt.handle); got != tt.want {
			t.Errorf("VerdictKey(%q) = %q, want %q", tt.handle, got, tt.want)
		}
	}
}

func TestExtractHandle(t *testing.T) {
	got, err := ExtractHandle("tm:verdict:tech_insider")
	if err != nil || got != "tech_insider" {
		t.Errorf("ExtractHandle() = %q, %v", got, err)
	}

	for _, bad := range []string{"tm:verdict:", "jump:service:x", ""} {
		if _, err := ExtractHandle(bad); err == nil {
			t.Errorf("ExtractHandle(%q) should fail", bad)
		}
	}
}

func TestNewStoreDefaultTTL(t *testing.T) {
	if got := NewStore(nil, 0).VerdictTTL(); got != DefaultVerdictTTL {
		t.Errorf("VerdictTTL() = %v, want %v", got, DefaultVerdictTTL)
	}
	if got := NewStore(nil, time.Minute).VerdictTTL(); got != time.Minute {
		t.Errorf("VerdictTTL() = %v, want 1m", got)
	}
}

// A store without a client must behave as an empty cache.
func TestDisabledStoreIsNoop(t *testing.T) {
	ctx := context.Background()
	s := NewStore(nil, 0)

	if s.Enabled() {
		t.Fatal("Enabled() = true for nil client")
	}
	if err := s.CacheVerdict(ctx, "abc", true); err != nil {
		t.Errorf("CacheVerdict() error = %v", err)
	}
	if _, found, err := s.GetCachedVerdict(ctx, "abc"); found || err != nil {
		t.Errorf("GetCachedVerdict() found = %v, err = %v", found, err)
	}
	if err := s.InvalidateVerdict(ctx, "abc"); err != nil {
		t.Errorf("InvalidateVerdict() error = %v", err)
	}
	if flushed, err := s.FlushVerdicts(ctx); err != nil || len(flushed) != 0 {
		t.Errorf("FlushVerdicts() = %v, %v", flushed, err)
	}
	if err := s.IncrementSearchHits(ctx, []string{"abc"}); err != nil {
		t.Errorf("IncrementSearchHits() error = %v", err)
	}
	if hits, err := s.GetSearchHits(ctx); err != nil || len(hits) != 0 {
		t.Errorf("GetSearchHits() = %v, %v", hits, err)
	}
	if err := s.IncrementPurchases(ctx, "abc"); err != nil {
		t.Errorf("IncrementPurchases() error = %v", err)
	}
	if stats, err := s.GetPurchaseStats(ctx); err != nil || len(stats) != 0 {
		t.Errorf("GetPurchaseStats() = %v, %v", stats, err)
	}

	var nilStore *Store
	if nilStore.Enabled() || nilStore.Client() != nil {
		t.Error("nil store should report disabled")
	}
}
