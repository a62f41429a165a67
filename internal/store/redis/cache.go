package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	verdictValid   = "1"
	verdictInvalid = "0"
)

// CacheVerdict stores the outcome of an identity check for a handle
func (s *Store) CacheVerdict(ctx context.Context, handle string, valid bool) error {
	if !s.Enabled() {
		return nil
	}

	value := verdictInvalid
	if valid {
		value = verdictValid
	}

	if err := s.client.Set(ctx, VerdictKey(handle), value, s.verdictTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache verdict: %w", err)
	}
	return nil
}

// GetCachedVerdict retrieves a cached verdict. found is false on a cache
// miss or when Redis is disabled.
func (s *Store) GetCachedVerdict(ctx context.Context, handle string) (valid, found bool, err error) {
	if !s.Enabled() {
		return false, false, nil
	}

	value, err := s.client.Get(ctx, VerdictKey(handle)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, false, nil // Cache miss
		}
		return false, false, fmt.Errorf("failed to get cached verdict: %w", err)
	}
	return value == verdictValid, true, nil
}

// InvalidateVerdict removes a cached verdict
func (s *Store) InvalidateVerdict(ctx context.Context, handle string) error {
	if !s.Enabled() {
		return nil
	}
	if err := s.client.Del(ctx, VerdictKey(handle)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate verdict: %w", err)
	}
	return nil
}

// FlushVerdicts removes all cached verdicts and returns the handles they
// belonged to.
func (s *Store) FlushVerdicts(ctx context.Context) ([]string, error) {
	if !s.Enabled() {
		return nil, nil
	}

	var handles []string
	iter := s.client.Scan(ctx, 0, KeyPrefixVerdict+"*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		if err := s.client.Del(ctx, key).Err(); err != nil {
			return handles, fmt.Errorf("failed to delete verdict key: %w", err)
		}
		if handle, err := ExtractHandle(key); err == nil {
			handles = append(handles, handle)
		}
	}
	if err := iter.Err(); err != nil {
		return handles, fmt.Errorf("failed to flush verdicts: %w", err)
	}
	return handles, nil
}
