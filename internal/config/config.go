package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request bound applied by the router (default: 35s)

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Directory seeding
	SeedFile       string        // optional YAML file merged into the directory (empty = built-in seed only)
	ReloadInterval time.Duration // interval to reload the seed file (default: 24h)
	RandomSeed     int64         // seed for demo slot generation (0 = time based)
	StatsInterval  time.Duration // interval between marketplace stats reports (0 = disabled)

	// Simulated Telegram round trips
	LatencyVerify     time.Duration // default 1500ms
	LatencyRegister   time.Duration // default 800ms
	LatencySearch     time.Duration // default 600ms
	LatencyPurchase   time.Duration // default 1000ms
	LatencyCreateSlot time.Duration // default 500ms
	OpTimeout         time.Duration // bound on every simulated call (default: 5s)

	// Post generation
	GeminiAPIKey    string        // optional, empty = /api/posts/generate answers 503
	GeminiModel     string        // default gemini-2.5-flash
	GenerateTimeout time.Duration // default 30s

	// Redis (optional, backs the verdict cache and analytics)
	RedisAddr             string        // ex: "localhost:6379", empty = Redis disabled
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts
	VerdictTTL            time.Duration // how long identity-check verdicts stay cached (default: 24h)

	AllowedHosts []string // restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict ops endpoints to specific IP ranges (e.g. "1.2.3.4/32, 10.0.0.0/8")
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)

	RateBurst        int // post generation bucket size per client IP
	RateRefillPerMin int // post generation tokens refilled per minute
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("TM_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("TM_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("TM_REQUEST_TIMEOUT", 35*time.Second),

		// Logging
		LogLevel:  getenv("TM_LOG_LEVEL", "info"),
		PrettyLog: mustBool("TM_PRETTY_LOG", true),

		// Directory seeding
		SeedFile:       getenv("TM_SEED_FILE", ""),
		ReloadInterval: mustDuration("TM_RELOAD_INTERVAL", 24*time.Hour),
		RandomSeed:     getenvInt64("TM_RANDOM_SEED", 0),
		StatsInterval:  mustDuration("TM_STATS_INTERVAL", time.Hour),

		// Simulated latency
		LatencyVerify:     mustDuration("TM_LATENCY_VERIFY", 1500*time.Millisecond),
		LatencyRegister:   mustDuration("TM_LATENCY_REGISTER", 800*time.Millisecond),
		LatencySearch:     mustDuration("TM_LATENCY_SEARCH", 600*time.Millisecond),
		LatencyPurchase:   mustDuration("TM_LATENCY_PURCHASE", 1000*time.Millisecond),
		LatencyCreateSlot: mustDuration("TM_LATENCY_CREATE_SLOT", 500*time.Millisecond),
		OpTimeout:         mustDuration("TM_OP_TIMEOUT", 5*time.Second),

		// Post generation
		GeminiAPIKey:    getenv("TM_GEMINI_API_KEY", ""),
		GeminiModel:     getenv("TM_GEMINI_MODEL", "gemini-2.5-flash"),
		GenerateTimeout: mustDuration("TM_GENERATE_TIMEOUT", 30*time.Second),

		// Redis settings
		RedisAddr:             getenv("TM_REDIS_ADDR", ""),
		RedisUser:             getenv("TM_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("TM_REDIS_PASSWORD_REQUIRED", false),
		RedisPassword:         getenv("TM_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("TM_REDIS_DB", 0),
		RedisDT:               mustDuration("TM_REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("TM_REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("TM_REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("TM_REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("TM_REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("TM_REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("TM_REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("TM_REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("TM_REDIS_WARN_THRESHOLD", 3),
		VerdictTTL:            mustDuration("TM_VERDICT_TTL", 24*time.Hour),

		// Access restrictions
		AllowedHosts: requireEnvSlice("TM_ALLOWED_HOSTS"),
		AllowedCIDRS: parseAllowedIPs(getenv("TM_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("TM_TRUST_PROXY", true),

		RateBurst:        getenvInt("TM_RATE_BURST", 5),
		RateRefillPerMin: getenvInt("TM_RATE_REFILL_PER_MIN", 10),
	}

	// Validate Redis password configuration
	if cfg.RedisAddr != "" && cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: TM_REDIS_PASSWORD is required when TM_REDIS_PASSWORD_REQUIRED=true")
	}
	if cfg.RequestTimeout <= 0 {
		panic(fmt.Sprintf("❌ FATAL: TM_REQUEST_TIMEOUT must be > 0, got %v", cfg.RequestTimeout))
	}
	if cfg.ReloadInterval <= 0 {
		panic(fmt.Sprintf("❌ FATAL: TM_RELOAD_INTERVAL must be > 0, got %v", cfg.ReloadInterval))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		log.Printf("[DEBUG] cfg: %+v\n", cfg.Redacted())
	}

	return cfg
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() Config {
	cp := *c
	if cp.RedisPassword != "" {
		cp.RedisPassword = "***REDACTED***"
	}
	if cp.RedisUser != "" {
		cp.RedisUser = "***REDACTED***"
	}
	if cp.GeminiAPIKey != "" {
		cp.GeminiAPIKey = "***REDACTED***"
	}
	return cp
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func requireEnvSlice(key string) []string {
	return splitAndTrim(requireEnv(key))
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getenvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
