package redis

import (
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultVerdictTTL is how long an identity-check verdict stays cached (24 hours)
	DefaultVerdictTTL = 24 * time.Hour
)

// Store handles Redis operations for verdicts and marketplace analytics.
// Redis is optional: a Store with a nil client turns every call into a
// no-op, so callers never need to check whether Redis is configured.
type Store struct {
	client     *redis.Client
	verdictTTL time.Duration
}

// NewStore creates a new Redis store. client may be nil.
// ttl <= 0 selects DefaultVerdictTTL.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultVerdictTTL
	}
	return &Store{
		client:     client,
		verdictTTL: ttl,
	}
}

// Enabled reports whether a Redis client is attached.
func (s *Store) Enabled() bool {
	return s != nil && s.client != nil
}

// Client returns the underlying client for health checks. May be nil.
func (s *Store) Client() *redis.Client {
	if s == nil {
		return nil
	}
	return s.client
}

// VerdictTTL returns the TTL applied to cached verdicts.
func (s *Store) VerdictTTL() time.Duration {
	return s.verdictTTL
}
