package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/telemanager/internal/domain"
	"github.com/MrSnakeDoc/telemanager/internal/logger"
	"github.com/MrSnakeDoc/telemanager/internal/sources/seedfile"
)

// Registrar inserts a profile unless its username is taken.
// *registry.Service satisfies it.
type Registrar interface {
	Register(ctx context.Context, profile domain.ChannelProfile) (domain.RegisterOutcome, error)
}

// ReloadResult summarizes one pass over the seed file.
type ReloadResult struct {
	Inserted int
	Existing int
	Skipped  int
}

// SeedReloader merges the channels of a YAML seed file into the directory
// at start, on every tick and on manual trigger. Channels already present
// are never overwritten.
type SeedReloader struct {
	loader        *seedfile.Loader
	mapper        *seedfile.Mapper
	registrar     Registrar
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	done          chan struct{}
	stopOnce      sync.Once
	manualTrigger chan struct{}
}

// NewSeedReloader creates a new seed reloader
func NewSeedReloader(
	loader *seedfile.Loader,
	mapper *seedfile.Mapper,
	registrar Registrar,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *SeedReloader {
	return &SeedReloader{
		loader:        loader,
		mapper:        mapper,
		registrar:     registrar,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		done:          make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start loads the seed file once, then keeps reloading in the background.
// A failing initial load is returned; later failures are only logged.
func (sr *SeedReloader) Start(ctx context.Context) error {
	if _, err := sr.Reload(ctx); err != nil {
		close(sr.done)
		return fmt.Errorf("initial reload failed: %w", err)
	}

	ticker := time.NewTicker(sr.interval)
	go func() {
		defer close(sr.done)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				sr.reloadAndLog(ctx)
			case <-sr.manualTrigger:
				sr.logger.Info("manual reload triggered")
				sr.reloadAndLog(ctx)
			case <-sr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader and waits for the background loop to exit.
func (sr *SeedReloader) Stop() {
	sr.stopOnce.Do(func() { close(sr.stopCh) })
	<-sr.done
}

func (sr *SeedReloader) reloadAndLog(ctx context.Context) {
	if _, err := sr.Reload(ctx); err != nil {
		sr.logger.Error("failed to reload seed file", logger.Error(err))
	}
}

// Reload reads the seed file and registers every valid channel.
// Profiles are registered last to first so that the directory lists them
// in file order.
func (sr *SeedReloader) Reload(ctx context.Context) (ReloadResult, error) {
	sr.logger.Info("reloading channels from seed file",
		logger.String("file", sr.loader.Path()))

	config, err := sr.loader.Load()
	if err != nil {
		return ReloadResult{}, fmt.Errorf("failed to load seed file: %w", err)
	}

	profiles, skipped, err := sr.mapper.MapChannels(config)
	for _, s := range skipped {
		sr.logger.Warn("skipping seed entry",
			logger.String("username", s.Username),
			logger.String("reason", s.Reason))
	}
	if err != nil {
		return ReloadResult{Skipped: len(skipped)}, fmt.Errorf("failed to map channels: %w", err)
	}

	res := ReloadResult{Skipped: len(skipped)}
	for i := len(profiles) - 1; i >= 0; i-- {
		outcome, err := sr.registrar.Register(ctx, profiles[i])
		if err != nil {
			return res, fmt.Errorf("failed to register %s: %w", profiles[i].Username, err)
		}
		if outcome == domain.RegisterInserted {
			res.Inserted++
		} else {
			res.Existing++
		}
	}

	sr.logger.Info("seed file merged",
		logger.Int("inserted", res.Inserted),
		logger.Int("existing", res.Existing),
		logger.Int("skipped", res.Skipped))
	return res, nil
}
