package deps

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/telemanager/internal/directory"
	"github.com/MrSnakeDoc/telemanager/internal/logger"
	"github.com/MrSnakeDoc/telemanager/internal/marketplace"
	"github.com/MrSnakeDoc/telemanager/internal/postgen"
	"github.com/MrSnakeDoc/telemanager/internal/registry"
	redisstore "github.com/MrSnakeDoc/telemanager/internal/store/redis"
)

// PostGenerator writes channel posts. *postgen.Generator satisfies it.
type PostGenerator interface {
	Generate(ctx context.Context, cfg postgen.Config) (string, error)
}

type Deps struct {
	Logger           logger.Logger
	StartTime        time.Time
	Version          string
	Commit           string
	BuildDate        string
	GoVersion        string
	TimeNow          func() time.Time     // for testing, defaults to time.Now
	AllowedHosts     []string             // Host headers allowed to access the server
	AllowedCIDRS     []string             // IPs allowed to access ops endpoints
	TrustProxy       bool                 // true if running behind a trusted reverse proxy (e.g., cloudflared)
	RateBurst        int                  // post generation bucket size
	RateRefillPerMin int                  // post generation refill rate
	SeedFile         string               // Path to the seed file (empty = built-in seed only)
	Directory        *directory.Store     // Authoritative channel directory
	Registry         *registry.Service    // Verify / register
	Marketplace      *marketplace.Service // Search / purchase / slots
	Generator        PostGenerator        // nil when no Gemini API key is configured
	Analytics        *redisstore.Store    // Redis-backed counters, no-op when Redis is disabled
	RedisClient      *redis.Client        // nil when Redis is disabled
	ReloadTrigger    chan struct{}        // Channel to trigger a manual seed reload (nil if seed file disabled)
}
