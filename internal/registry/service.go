package registry

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/telemanager/internal/directory"
	"github.com/MrSnakeDoc/telemanager/internal/domain"
	"github.com/MrSnakeDoc/telemanager/internal/latency"
	"github.com/MrSnakeDoc/telemanager/internal/logger"
)

// VerifyResult is the answer of Verify. Profile is a snapshot when the
// handle was already registered, and a fresh unregistered profile otherwise.
type VerifyResult struct {
	Outcome domain.VerifyOutcome  `json:"outcome"`
	Profile domain.ChannelProfile `json:"profile"`
}

// Service onboards channel owners: it verifies a claimed handle and
// registers the resulting profile in the directory.
type Service struct {
	store   *directory.Store
	checker IdentityChecker
	cache   VerdictCache
	latency *latency.Simulator
	log     logger.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithChecker replaces the SimulatedChecker.
func WithChecker(c IdentityChecker) Option {
	return func(s *Service) { s.checker = c }
}

// WithVerdictCache caches checker verdicts.
func WithVerdictCache(c VerdictCache) Option {
	return func(s *Service) { s.cache = c }
}

// WithLatency sets the simulated round-trip delays.
func WithLatency(l *latency.Simulator) Option {
	return func(s *Service) { s.latency = l }
}

// New creates a registry over store.
func New(store *directory.Store, log logger.Logger, opts ...Option) *Service {
	s := &Service{
		store:   store,
		checker: SimulatedChecker{},
		latency: latency.None(),
		log:     log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Verify resolves a claimed handle. A handle already in the directory
// short-circuits to OutcomeAlreadyRegistered without consulting the
// checker. A rejected handle yields domain.ErrNotFound.
func (s *Service) Verify(ctx context.Context, candidate string) (VerifyResult, error) {
	handle := domain.NormalizeHandle(candidate)

	if err := s.latency.Wait(ctx, latency.OpVerify); err != nil {
		return VerifyResult{}, err
	}

	if existing, ok := s.store.Lookup(handle); ok {
		s.log.Debug("verify hit directory", logger.String("username", existing.Username))
		return VerifyResult{Outcome: domain.OutcomeAlreadyRegistered, Profile: existing}, nil
	}

	valid, err := s.check(ctx, handle)
	if err != nil {
		return VerifyResult{}, err
	}
	if !valid {
		s.log.Debug("verify rejected handle", logger.String("candidate", candidate))
		return VerifyResult{}, fmt.Errorf("%w: %q", domain.ErrNotFound, candidate)
	}

	s.log.Info("channel verified", logger.String("username", handle))
	return VerifyResult{Outcome: domain.OutcomeVerified, Profile: freshProfile(handle)}, nil
}

// check consults the verdict cache, then the checker. Cache failures are
// logged and otherwise ignored.
func (s *Service) check(ctx context.Context, handle string) (bool, error) {
	if s.cache != nil {
		valid, found, err := s.cache.GetCachedVerdict(ctx, handle)
		switch {
		case err != nil:
			s.log.Warn("verdict cache read failed", logger.String("handle", handle), logger.Error(err))
		case found:
			return valid, nil
		}
	}

	valid, err := s.checker.Check(ctx, handle)
	if err != nil {
		return false, fmt.Errorf("identity check for %q: %w", handle, err)
	}

	if s.cache != nil {
		if err := s.cache.CacheVerdict(ctx, handle, valid); err != nil {
			s.log.Warn("verdict cache write failed", logger.String("handle", handle), logger.Error(err))
		}
	}
	return valid, nil
}

func freshProfile(handle string) domain.ChannelProfile {
	return domain.ChannelProfile{
		Username:    handle,
		Title:       handle + " Channel",
		IsVerified:  false,
		Subscribers: 0,
		Category:    domain.DefaultCategory,
		Slots:       []domain.AdSlot{},
	}
}

// Register inserts profile at the front of the directory. It is idempotent
// by username: a duplicate yields RegisterAlreadyExists and leaves the
// stored profile untouched, whatever the duplicate carries. Only profiles
// that would be inserted are validated.
func (s *Service) Register(ctx context.Context, profile domain.ChannelProfile) (domain.RegisterOutcome, error) {
	if s.store.Contains(profile.Username) {
		s.log.Debug("register skipped existing channel", logger.String("username", profile.Username))
		return domain.RegisterAlreadyExists, nil
	}

	if err := validateProfile(&profile); err != nil {
		return "", err
	}

	if err := s.latency.Wait(ctx, latency.OpRegister); err != nil {
		return "", err
	}

	if profile.Slots == nil {
		profile.Slots = []domain.AdSlot{}
	}

	// A concurrent register may have won the race during the wait
	if !s.store.InsertFront(profile) {
		s.log.Debug("register skipped existing channel", logger.String("username", profile.Username))
		return domain.RegisterAlreadyExists, nil
	}

	if s.cache != nil {
		if err := s.cache.InvalidateVerdict(ctx, profile.Username); err != nil {
			s.log.Warn("verdict cache invalidation failed",
				logger.String("username", profile.Username), logger.Error(err))
		}
	}

	s.log.Info("channel registered",
		logger.String("username", profile.Username),
		logger.String("category", string(profile.Category)))
	return domain.RegisterInserted, nil
}

func validateProfile(p *domain.ChannelProfile) error {
	if !domain.ValidHandle(p.Username) {
		return fmt.Errorf("%w: bad username %q", domain.ErrInvalidProfile, p.Username)
	}
	if !p.Category.Valid() {
		return fmt.Errorf("%w: bad category %q", domain.ErrInvalidProfile, p.Category)
	}
	if p.Subscribers < 0 {
		return fmt.Errorf("%w: negative subscribers", domain.ErrInvalidProfile)
	}
	for i := range p.Slots {
		slot := &p.Slots[i]
		if slot.Status != domain.SlotAvailable && slot.Status != domain.SlotSold {
			return fmt.Errorf("%w: slot %s has status %q", domain.ErrInvalidProfile, slot.ID, slot.Status)
		}
		if slot.Sold() != (slot.BuyerName != "") {
			return fmt.Errorf("%w: slot %s has inconsistent buyer", domain.ErrInvalidProfile, slot.ID)
		}
	}
	return nil
}

// Onboard verifies candidate and registers exactly the profile returned
// by verification.
func (s *Service) Onboard(ctx context.Context, candidate string) (VerifyResult, domain.RegisterOutcome, error) {
	res, err := s.Verify(ctx, candidate)
	if err != nil {
		return VerifyResult{}, "", err
	}

	outcome, err := s.Register(ctx, res.Profile)
	if err != nil {
		return res, "", err
	}
	return res, outcome, nil
}
