package marketplace

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/telemanager/internal/directory"
	"github.com/MrSnakeDoc/telemanager/internal/domain"
	"github.com/MrSnakeDoc/telemanager/internal/latency"
	"github.com/MrSnakeDoc/telemanager/internal/logger"
)

// Analytics records marketplace activity. Failures never affect the
// operation being recorded.
type Analytics interface {
	IncrementSearchHits(ctx context.Context, usernames []string) error
	IncrementPurchases(ctx context.Context, username string) error
}

// Service searches the directory and runs the ad slot lifecycle.
type Service struct {
	store     *directory.Store
	ids       domain.IDGenerator
	analytics Analytics
	latency   *latency.Simulator
	log       logger.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithIDs sets the generator used for new slot ids.
func WithIDs(ids domain.IDGenerator) Option {
	return func(s *Service) { s.ids = ids }
}

// WithAnalytics records search hits and purchases.
func WithAnalytics(a Analytics) Option {
	return func(s *Service) { s.analytics = a }
}

// WithLatency sets the simulated round-trip delays.
func WithLatency(l *latency.Simulator) Option {
	return func(s *Service) { s.latency = l }
}

// New creates a marketplace over store.
func New(store *directory.Store, log logger.Logger, opts ...Option) *Service {
	s := &Service{
		store:   store,
		ids:     domain.UUIDGenerator{},
		latency: latency.None(),
		log:     log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search returns snapshots of the profiles matching query and filter,
// most subscribers first.
func (s *Service) Search(ctx context.Context, query string, filter domain.CategoryFilter) ([]domain.ChannelProfile, error) {
	if err := s.latency.Wait(ctx, latency.OpSearch); err != nil {
		return nil, err
	}

	results := domain.FilterProfiles(s.store.List(), query, filter)
	domain.SortBySubscribers(results)

	s.log.Debug("search",
		logger.String("query", query),
		logger.String("category", filter.String()),
		logger.Int("results", len(results)))

	if s.analytics != nil && len(results) > 0 {
		usernames := make([]string, len(results))
		for i := range results {
			usernames[i] = results[i].Username
		}
		if err := s.analytics.IncrementSearchHits(ctx, usernames); err != nil {
			s.log.Warn("failed to record search hits", logger.Error(err))
		}
	}

	return results, nil
}

// Channel returns a snapshot of one channel.
func (s *Service) Channel(_ context.Context, username string) (domain.ChannelProfile, error) {
	p, ok := s.store.Lookup(username)
	if !ok {
		return domain.ChannelProfile{}, fmt.Errorf("%w: %s", domain.ErrChannelNotFound, username)
	}
	return p, nil
}

// errUnchanged aborts a store update that found nothing to do.
var errUnchanged = errors.New("unchanged")

// Purchase sells slotID of username to buyer. An empty buyer is recorded
// as domain.DefaultBuyer. Misses and already sold slots are reported
// through the outcome, never as errors; the error is reserved for
// timeouts and cancellation, which leave the store unchanged.
func (s *Service) Purchase(ctx context.Context, username, slotID, buyer string) (domain.PurchaseOutcome, error) {
	if err := s.latency.Wait(ctx, latency.OpPurchase); err != nil {
		return "", err
	}

	var outcome domain.PurchaseOutcome
	err := s.store.Update(username, func(p *domain.ChannelProfile) error {
		slot := p.FindSlot(slotID)
		switch {
		case slot == nil:
			outcome = domain.SlotNotFound
			return errUnchanged
		case !slot.MarkSold(buyer):
			outcome = domain.AlreadySold
			return errUnchanged
		default:
			outcome = domain.Purchased
			return nil
		}
	})
	switch {
	case errors.Is(err, domain.ErrChannelNotFound):
		outcome = domain.ChannelNotFound
	case err != nil && !errors.Is(err, errUnchanged):
		return "", err
	}

	fields := []logger.Field{
		logger.String("username", username),
		logger.String("slot", slotID),
		logger.String("outcome", string(outcome)),
	}
	if !outcome.Changed() {
		s.log.Debug("purchase did not change slot", fields...)
		return outcome, nil
	}

	s.log.Info("slot purchased", fields...)
	if s.analytics != nil {
		if err := s.analytics.IncrementPurchases(ctx, username); err != nil {
			s.log.Warn("failed to record purchase", logger.Error(err))
		}
	}
	return outcome, nil
}

// CreateSlot adds an available slot built from draft to the channel and
// returns it. The channel's slots are re-sorted by date afterwards.
// Date, price and views are taken as given.
func (s *Service) CreateSlot(ctx context.Context, username string, draft domain.SlotDraft) (domain.AdSlot, error) {
	currency, err := domain.ParseCurrency(string(draft.Currency))
	if err != nil {
		return domain.AdSlot{}, err
	}

	if err := s.latency.Wait(ctx, latency.OpCreateSlot); err != nil {
		return domain.AdSlot{}, err
	}

	slot := domain.AdSlot{
		ID:             s.ids.NewSlotID(),
		Date:           draft.Date,
		Price:          draft.Price,
		Currency:       currency,
		EstimatedViews: draft.EstimatedViews,
		Status:         domain.SlotAvailable,
	}

	err = s.store.Update(username, func(p *domain.ChannelProfile) error {
		p.Slots = append(p.Slots, slot)
		return nil
	})
	if err != nil {
		return domain.AdSlot{}, err
	}

	s.log.Info("slot created",
		logger.String("username", username),
		logger.String("slot", slot.ID),
		logger.Float64("price", slot.Price))
	return slot, nil
}
