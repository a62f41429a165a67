package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/telemanager/internal/directory"
	"github.com/MrSnakeDoc/telemanager/internal/logger"
)

// Stats is a point-in-time view of the marketplace.
type Stats struct {
	Channels       int
	Slots          int
	SoldSlots      int
	AvailableSlots int
	// OpenChannels counts channels with at least one slot for sale.
	OpenChannels int
	// SearchHits and Purchases are empty when Redis is disabled.
	SearchHits map[string]int64
	Purchases  map[string]int64
}

// AnalyticsReader reads the counters kept in Redis.
// *redisstore.Store satisfies it.
type AnalyticsReader interface {
	GetSearchHits(ctx context.Context) (map[string]int64, error)
	GetPurchaseStats(ctx context.Context) (map[string]int64, error)
}

// StatsReporter periodically logs directory and analytics counters.
type StatsReporter struct {
	store     *directory.Store
	analytics AnalyticsReader
	logger    logger.Logger
	interval  time.Duration
	stopCh    chan struct{}
	done      chan struct{}
	stopOnce  sync.Once
}

// NewStatsReporter creates a new stats reporter. analytics may be nil.
func NewStatsReporter(
	store *directory.Store,
	analytics AnalyticsReader,
	log logger.Logger,
	interval time.Duration,
) *StatsReporter {
	return &StatsReporter{
		store:     store,
		analytics: analytics,
		logger:    log,
		interval:  interval,
		stopCh:    make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start begins the periodic report
func (sr *StatsReporter) Start(ctx context.Context) error {
	ticker := time.NewTicker(sr.interval)
	go func() {
		defer close(sr.done)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				sr.Report(ctx)
			case <-sr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reporter and waits for it to exit
func (sr *StatsReporter) Stop() {
	sr.stopOnce.Do(func() { close(sr.stopCh) })
	<-sr.done
}

// Collect gathers the current counters. Analytics failures are logged
// and leave the maps empty.
func (sr *StatsReporter) Collect(ctx context.Context) Stats {
	total, sold := sr.store.SlotStats()
	stats := Stats{
		Channels:   sr.store.Count(),
		Slots:      total,
		SoldSlots:  sold,
		SearchHits: map[string]int64{},
		Purchases:  map[string]int64{},
	}
	for _, p := range sr.store.List() {
		if n := p.AvailableSlots(); n > 0 {
			stats.AvailableSlots += n
			stats.OpenChannels++
		}
	}

	if sr.analytics == nil {
		return stats
	}
	if hits, err := sr.analytics.GetSearchHits(ctx); err != nil {
		sr.logger.Warn("failed to read search hits", logger.Error(err))
	} else {
		stats.SearchHits = hits
	}
	if purchases, err := sr.analytics.GetPurchaseStats(ctx); err != nil {
		sr.logger.Warn("failed to read purchase stats", logger.Error(err))
	} else {
		stats.Purchases = purchases
	}
	return stats
}

// Report logs the current counters
func (sr *StatsReporter) Report(ctx context.Context) Stats {
	stats := sr.Collect(ctx)

	var hits, purchases int64
	for _, n := range stats.SearchHits {
		hits += n
	}
	for _, n := range stats.Purchases {
		purchases += n
	}

	sr.logger.Info("marketplace stats",
		logger.Int("channels", stats.Channels),
		logger.Int("slots", stats.Slots),
		logger.Int("sold_slots", stats.SoldSlots),
		logger.Int("available_slots", stats.AvailableSlots),
		logger.Int("open_channels", stats.OpenChannels),
		logger.Int64("search_hits", hits),
		logger.Int64("purchases", purchases))
	return stats
}
