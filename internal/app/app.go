package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/telemanager/internal/config"
	"github.com/MrSnakeDoc/telemanager/internal/directory"
	"github.com/MrSnakeDoc/telemanager/internal/domain"
	"github.com/MrSnakeDoc/telemanager/internal/httpserver"
	"github.com/MrSnakeDoc/telemanager/internal/httpserver/deps"
	"github.com/MrSnakeDoc/telemanager/internal/latency"
	"github.com/MrSnakeDoc/telemanager/internal/logger"
	"github.com/MrSnakeDoc/telemanager/internal/marketplace"
	"github.com/MrSnakeDoc/telemanager/internal/postgen"
	"github.com/MrSnakeDoc/telemanager/internal/redis"
	"github.com/MrSnakeDoc/telemanager/internal/registry"
	"github.com/MrSnakeDoc/telemanager/internal/scheduler"
	"github.com/MrSnakeDoc/telemanager/internal/seed"
	"github.com/MrSnakeDoc/telemanager/internal/sources/seedfile"
	redisstore "github.com/MrSnakeDoc/telemanager/internal/store/redis"
	"github.com/MrSnakeDoc/telemanager/internal/utils"
	"github.com/MrSnakeDoc/telemanager/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	directory   *directory.Store
	reloader    *scheduler.SeedReloader
	reporter    *scheduler.StatsReporter
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Redis is optional; when configured it must be reachable
	var redisClient *goredis.Client
	if cfg.RedisAddr != "" {
		loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.Connect(context.Background(), redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			RedisDB:        cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, loggerClient)
		if err != nil {
			loggerClient.Errorf("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		redisClient = client
		loggerClient.Info("Redis initialized successfully")
	} else {
		loggerClient.Info("Redis not configured, verdict cache and analytics disabled")
	}

	store := redisstore.NewStore(redisClient, cfg.VerdictTTL)

	// Seed the directory with the built-in demo channels
	randomSeed := cfg.RandomSeed
	if randomSeed == 0 {
		randomSeed = time.Now().UnixNano()
	}
	factory := seed.NewFactory(randomSeed, nil, domain.UUIDGenerator{})
	dir := directory.New(factory.DefaultChannels())
	loggerClient.Info("directory seeded", logger.Int("channels", dir.Count()))

	sim := latency.New(map[latency.Op]time.Duration{
		latency.OpVerify:     cfg.LatencyVerify,
		latency.OpRegister:   cfg.LatencyRegister,
		latency.OpSearch:     cfg.LatencySearch,
		latency.OpPurchase:   cfg.LatencyPurchase,
		latency.OpCreateSlot: cfg.LatencyCreateSlot,
	}, cfg.OpTimeout)

	reg := registry.New(dir, loggerClient.Named("registry"),
		registry.WithLatency(sim),
		registry.WithVerdictCache(store),
	)
	market := marketplace.New(dir, loggerClient.Named("marketplace"),
		marketplace.WithLatency(sim),
		marketplace.WithAnalytics(store),
	)

	// Post generation is only available with a Gemini API key
	var generator deps.PostGenerator
	if cfg.GeminiAPIKey != "" {
		g, err := postgen.NewGemini(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GenerateTimeout, loggerClient.Named("postgen"))
		if err != nil {
			loggerClient.Warn("post generator disabled", logger.Error(err))
		} else {
			generator = g
			loggerClient.Info("post generator enabled", logger.String("model", g.Model()))
		}
	} else {
		loggerClient.Info("Gemini API key not configured, post generation disabled")
	}

	// Initialize seed file reloader (if a seed file is configured)
	var reloader *scheduler.SeedReloader
	var reloadTrigger chan struct{}
	if cfg.SeedFile != "" {
		loggerClient.Info("seed file configured, initializing seed reloader",
			logger.String("file", cfg.SeedFile))
		reloadTrigger = make(chan struct{}, 1)
		reloader = scheduler.NewSeedReloader(
			seedfile.NewLoader(cfg.SeedFile),
			seedfile.NewMapper(factory),
			registry.New(dir, loggerClient.Named("registry")), // seed merges skip the simulated round trip
			loggerClient.Named("seed"),
			cfg.ReloadInterval,
			reloadTrigger,
		)
	} else {
		loggerClient.Info("seed file not configured, built-in channels only")
	}

	var reporter *scheduler.StatsReporter
	if cfg.StatsInterval > 0 {
		reporter = scheduler.NewStatsReporter(dir, store, loggerClient.Named("stats"), cfg.StatsInterval)
	}

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:           loggerClient,
		StartTime:        time.Now(),
		Version:          version.Version,
		Commit:           version.Commit,
		BuildDate:        version.BuildDate,
		GoVersion:        version.GoVersion,
		TimeNow:          time.Now,
		AllowedHosts:     cfg.AllowedHosts,
		AllowedCIDRS:     cfg.AllowedCIDRS,
		TrustProxy:       cfg.TrustProxy,
		RateBurst:        cfg.RateBurst,
		RateRefillPerMin: cfg.RateRefillPerMin,
		SeedFile:         cfg.SeedFile,
		Directory:        dir,
		Registry:         reg,
		Marketplace:      market,
		Generator:        generator,
		Analytics:        store,
		RedisClient:      redisClient,
		ReloadTrigger:    reloadTrigger,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		directory:   dir,
		reloader:    reloader,
		reporter:    reporter,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Telemanager v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Info(version.String())
	defer func() { _ = a.logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start seed reloader (merges the seed file and starts periodic refresh)
	if a.reloader != nil {
		if err := a.reloader.Start(ctx); err != nil {
			return fmt.Errorf("failed to start seed reloader: %w", err)
		}
		a.logger.Info("seed reloader started",
			logger.Duration("interval", a.cfg.ReloadInterval),
			logger.Int("channels", a.directory.Count()))
	}

	if a.reporter != nil {
		if err := a.reporter.Start(ctx); err != nil {
			return fmt.Errorf("failed to start stats reporter: %w", err)
		}
		a.logger.Info("stats reporter started",
			logger.Duration("interval", a.cfg.StatsInterval))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	if a.reloader != nil {
		a.reloader.Stop()
	}
	if a.reporter != nil {
		a.reporter.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		utils.MustClose(a.redisClient, a.logger)
		a.logger.Info("✅ Redis closed")
	}

	a.logger.Info("✅ Telemanager stopped cleanly")
	return nil
}
