package redis

import (
	"context"
	"fmt"
	"strings"
)

// IncrementSearchHits bumps the search-hit score of every listed channel
// in a single pipeline.
func (s *Store) IncrementSearchHits(ctx context.Context, usernames []string) error {
	if !s.Enabled() || len(usernames) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for _, u := range usernames {
		pipe.ZIncrBy(ctx, SearchHitsKey(), 1, strings.ToLower(u))
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record search hits: %w", err)
	}
	return nil
}

// GetSearchHits returns the search-hit count of every channel seen so far
func (s *Store) GetSearchHits(ctx context.Context) (map[string]int64, error) {
	if !s.Enabled() {
		return map[string]int64{}, nil
	}

	entries, err := s.client.ZRangeWithScores(ctx, SearchHitsKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get search hits: %w", err)
	}

	stats := make(map[string]int64, len(entries))
	for _, e := range entries {
		member, ok := e.Member.(string)
		if !ok {
			continue
		}
		stats[member] = int64(e.Score)
	}
	return stats, nil
}

// IncrementPurchases counts a completed purchase for a channel
func (s *Store) IncrementPurchases(ctx context.Context, username string) error {
	if !s.Enabled() {
		return nil
	}
	if err := s.client.HIncrBy(ctx, PurchasesKey(), strings.ToLower(username), 1).Err(); err != nil {
		return fmt.Errorf("failed to record purchase: %w", err)
	}
	return nil
}

// GetPurchaseStats returns completed purchases per channel
func (s *Store) GetPurchaseStats(ctx context.Context) (map[string]int64, error) {
	if !s.Enabled() {
		return map[string]int64{}, nil
	}

	raw, err := s.client.HGetAll(ctx, PurchasesKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get purchase stats: %w", err)
	}

	stats := make(map[string]int64, len(raw))
	for k, v := range raw {
		var n int64
		if _, err := fmt.Sscan(v, &n); err != nil {
			continue
		}
		stats[k] = n
	}
	return stats, nil
}
