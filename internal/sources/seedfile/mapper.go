package seedfile

import (
	"fmt"
	"strings"
	"time"

	"github.com/MrSnakeDoc/telemanager/internal/domain"
	"github.com/MrSnakeDoc/telemanager/internal/seed"
)

// Mapper converts seed file entries to domain profiles
type Mapper struct {
	factory *seed.Factory
}

// NewMapper creates a new mapper. The factory supplies slot ids and the
// generated slots of entries with generateSlots set.
func NewMapper(factory *seed.Factory) *Mapper {
	return &Mapper{factory: factory}
}

// Skipped describes an entry the mapper rejected.
type Skipped struct {
	Username string
	Reason   string
}

// MapChannels converts a Config to profiles. Invalid entries are skipped
// and reported; an error is returned only when nothing valid remains.
func (m *Mapper) MapChannels(config Config) ([]domain.ChannelProfile, []Skipped, error) {
	profiles := make([]domain.ChannelProfile, 0, len(config.Channels))
	var skipped []Skipped

	for _, entry := range config.Channels {
		profile, err := m.mapChannel(entry)
		if err != nil {
			skipped = append(skipped, Skipped{Username: entry.Username, Reason: err.Error()})
			continue
		}
		profiles = append(profiles, profile)
	}

	if len(profiles) == 0 {
		return nil, skipped, fmt.Errorf("no valid channels found in seed file")
	}

	return profiles, skipped, nil
}

func (m *Mapper) mapChannel(entry ChannelEntry) (domain.ChannelProfile, error) {
	username := domain.NormalizeHandle(entry.Username)
	if !domain.ValidHandle(username) {
		return domain.ChannelProfile{}, fmt.Errorf("invalid username %q", entry.Username)
	}

	category := domain.DefaultCategory
	if entry.Category != "" {
		c, err := domain.ParseCategory(entry.Category)
		if err != nil {
			return domain.ChannelProfile{}, err
		}
		category = c
	}

	if entry.Subscribers < 0 {
		return domain.ChannelProfile{}, fmt.Errorf("negative subscribers for %s", username)
	}

	title := strings.TrimSpace(entry.Title)
	if title == "" {
		title = username + " Channel"
	}

	profile := domain.ChannelProfile{
		Username:    username,
		Title:       title,
		AvatarURL:   entry.AvatarURL,
		IsVerified:  entry.Verified,
		Subscribers: entry.Subscribers,
		Category:    category,
		Slots:       []domain.AdSlot{},
	}

	seen := make(map[string]struct{}, len(entry.Slots))
	addSlot := func(slot domain.AdSlot) error {
		if _, dup := seen[slot.ID]; dup {
			return fmt.Errorf("%w: duplicate slot id %q", domain.ErrInvalidSlot, slot.ID)
		}
		seen[slot.ID] = struct{}{}
		profile.Slots = append(profile.Slots, slot)
		return nil
	}

	for i, s := range entry.Slots {
		slot, err := m.mapSlot(s)
		if err == nil {
			err = addSlot(slot)
		}
		if err != nil {
			return domain.ChannelProfile{}, fmt.Errorf("slot %d of %s: %w", i, username, err)
		}
	}

	if entry.GenerateSlots && m.factory != nil {
		for _, slot := range m.factory.Slots() {
			if err := addSlot(slot); err != nil {
				return domain.ChannelProfile{}, fmt.Errorf("generated slot of %s: %w", username, err)
			}
		}
	}

	profile.SortSlots()
	return profile, nil
}

func (m *Mapper) mapSlot(entry SlotEntry) (domain.AdSlot, error) {
	date, err := parseDate(entry.Date)
	if err != nil {
		return domain.AdSlot{}, err
	}

	currency, err := domain.ParseCurrency(entry.Currency)
	if err != nil {
		return domain.AdSlot{}, err
	}

	id := entry.ID
	if id == "" {
		id = m.newID()
	}

	slot := domain.AdSlot{
		ID:             id,
		Date:           date,
		Price:          entry.Price,
		Currency:       currency,
		EstimatedViews: entry.EstimatedViews,
		Status:         domain.SlotAvailable,
	}

	switch domain.SlotStatus(strings.ToLower(entry.Status)) {
	case "", domain.SlotAvailable:
	case domain.SlotSold:
		buyer := entry.Buyer
		if buyer == "" {
			buyer = seed.PlaceholderBuyer
		}
		slot.MarkSold(buyer)
	default:
		return domain.AdSlot{}, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidSlot, entry.Status)
	}

	return slot, nil
}

func (m *Mapper) newID() string {
	if m.factory != nil && m.factory.IDs != nil {
		return m.factory.IDs.NewSlotID()
	}
	return domain.UUIDGenerator{}.NewSlotID()
}

// parseDate accepts a calendar date or an RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad date %q", domain.ErrInvalidSlot, s)
	}
	return t, nil
}
