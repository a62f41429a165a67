package directory

import (
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/telemanager/internal/domain"
)

// Store is the authoritative in-memory collection of channel profiles.
// Every service reads and writes through it; nothing else holds a
// competing copy. State lives for the lifetime of the process only.
type Store struct {
	mu         sync.RWMutex
	profiles   []*domain.ChannelProfile          // most recently registered first
	byKey      map[string]*domain.ChannelProfile // lowercase username -> profile
	lastChange time.Time
	now        func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for LastChange.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a store holding the given seed profiles in order.
// Duplicate usernames after the first are dropped.
func New(seed []domain.ChannelProfile, opts ...Option) *Store {
	s := &Store{
		profiles: make([]*domain.ChannelProfile, 0, len(seed)),
		byKey:    make(map[string]*domain.ChannelProfile, len(seed)),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	for i := range seed {
		p := seed[i].Clone()
		if _, exists := s.byKey[p.Key()]; exists {
			continue
		}
		p.SortSlots()
		s.profiles = append(s.profiles, &p)
		s.byKey[p.Key()] = &p
	}
	s.lastChange = s.now()
	return s
}

// Lookup returns a snapshot of the profile with the given username,
// compared case-insensitively.
func (s *Store) Lookup(username string) (domain.ChannelProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.byKey[domain.UsernameKey(username)]
	if !ok {
		return domain.ChannelProfile{}, false
	}
	return p.Clone(), true
}

// Contains reports whether a username is already taken.
func (s *Store) Contains(username string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.byKey[domain.UsernameKey(username)]
	return ok
}

// List returns snapshots of every profile in store order.
func (s *Store) List() []domain.ChannelProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ChannelProfile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p.Clone())
	}
	return out
}

// InsertFront stores a profile at the front of the list unless its
// username is already present. It returns false, changing nothing, on a
// duplicate.
func (s *Store) InsertFront(profile domain.ChannelProfile) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := profile.Key()
	if _, exists := s.byKey[key]; exists {
		return false
	}

	p := profile.Clone()
	p.SortSlots()
	s.profiles = append([]*domain.ChannelProfile{&p}, s.profiles...)
	s.byKey[key] = &p
	s.lastChange = s.now()
	return true
}

// Update runs fn against the authoritative profile under the write lock.
// The slot collection is re-sorted after fn returns so the date-order
// invariant holds whatever fn did. fn must not change the username.
func (s *Store) Update(username string, fn func(p *domain.ChannelProfile) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := domain.UsernameKey(username)
	p, ok := s.byKey[key]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrChannelNotFound, username)
	}

	if err := fn(p); err != nil {
		return err
	}
	if p.Key() != key {
		panic(fmt.Sprintf("directory: username of %q changed during update", username))
	}
	p.SortSlots()
	s.lastChange = s.now()
	return nil
}

// Count returns the number of profiles.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.profiles)
}

// SlotStats counts slots across the whole directory.
func (s *Store) SlotStats() (total, sold int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.profiles {
		for i := range p.Slots {
			total++
			if p.Slots[i].Sold() {
				sold++
			}
		}
	}
	return total, sold
}

// LastChange returns the time of the last successful mutation.
func (s *Store) LastChange() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastChange
}
