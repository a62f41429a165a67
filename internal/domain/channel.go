package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Category is the fixed topical classification of a channel.
type Category string

const (
	CategoryTech          Category = "Tech"
	CategoryCrypto        Category = "Crypto"
	CategoryNews          Category = "News"
	CategoryLifestyle     Category = "Lifestyle"
	CategoryEducation     Category = "Education"
	CategoryEntertainment Category = "Entertainment"

	// DefaultCategory is assigned to freshly verified channels.
	DefaultCategory = CategoryTech
)

// CategoryAll is a search filter value matching every category.
// It is never stored on a profile.
const CategoryAll = "All"

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryTech,
	CategoryCrypto,
	CategoryNews,
	CategoryLifestyle,
	CategoryEducation,
	CategoryEntertainment,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory resolves a category name case-insensitively.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, known := range Categories {
		if strings.EqualFold(s, string(known)) {
			return known, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

// CategoryFilter restricts a search to one category, or to none when All.
type CategoryFilter struct {
	All      bool
	Category Category
}

// AnyCategory is the filter that matches every profile.
var AnyCategory = CategoryFilter{All: true}

// OnlyCategory filters on a single category.
func OnlyCategory(c Category) CategoryFilter {
	return CategoryFilter{Category: c}
}

// ParseCategoryFilter accepts "", "All" (any case) or a category name.
func ParseCategoryFilter(s string) (CategoryFilter, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, CategoryAll) {
		return AnyCategory, nil
	}
	c, err := ParseCategory(s)
	if err != nil {
		return CategoryFilter{}, err
	}
	return OnlyCategory(c), nil
}

// Match reports whether a profile passes the filter.
func (f CategoryFilter) Match(p *ChannelProfile) bool {
	return f.All || p.Category == f.Category
}

func (f CategoryFilter) String() string {
	if f.All {
		return CategoryAll
	}
	return string(f.Category)
}

// ChannelProfile is one channel in the directory.
//
// A profile is uniquely identified by its Username, compared
// case-insensitively. The directory owns every profile exclusively; any
// profile handed out by a service is a snapshot.
type ChannelProfile struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// Username is the channel handle without the leading @.
	// Example: tech_insider
	Username string `json:"username" yaml:"username"`

	// ─────────────────────────────
	// Presentation
	// ─────────────────────────────

	// Title is the display name.
	Title string `json:"title" yaml:"title"`

	// AvatarURL is optional and rendered by the Mini-App when present.
	AvatarURL string `json:"avatarUrl,omitempty" yaml:"avatarUrl,omitempty"`

	// IsVerified is the badge set at creation. Not user-editable.
	IsVerified bool `json:"isVerified" yaml:"isVerified"`

	// Subscribers is never negative.
	Subscribers int64 `json:"subscribers" yaml:"subscribers"`

	Category Category `json:"category" yaml:"category"`

	// ─────────────────────────────
	// Marketplace
	// ─────────────────────────────

	// Slots is kept sorted ascending by date after every mutation.
	Slots []AdSlot `json:"slots" yaml:"slots"`
}

// Key returns the case-folded username used for uniqueness checks.
func (p *ChannelProfile) Key() string {
	return UsernameKey(p.Username)
}

// UsernameKey folds a username for case-insensitive comparison.
func UsernameKey(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// Clone returns a deep copy of the profile.
func (p *ChannelProfile) Clone() ChannelProfile {
	cp := *p
	cp.Slots = make([]AdSlot, len(p.Slots))
	copy(cp.Slots, p.Slots)
	return cp
}

// FindSlot returns a pointer into the profile's own slot slice.
func (p *ChannelProfile) FindSlot(id string) *AdSlot {
	for i := range p.Slots {
		if p.Slots[i].ID == id {
			return &p.Slots[i]
		}
	}
	return nil
}

// SortSlots re-sorts the whole slot collection ascending by date.
// Equal dates keep their insertion order.
func (p *ChannelProfile) SortSlots() {
	sort.SliceStable(p.Slots, func(i, j int) bool {
		return p.Slots[i].Date.Before(p.Slots[j].Date)
	})
}

// SlotsSorted reports whether the slot collection is in date order.
func (p *ChannelProfile) SlotsSorted() bool {
	return sort.SliceIsSorted(p.Slots, func(i, j int) bool {
		return p.Slots[i].Date.Before(p.Slots[j].Date)
	})
}

// AvailableSlots counts slots still for sale.
func (p *ChannelProfile) AvailableSlots() int {
	n := 0
	for _, s := range p.Slots {
		if s.Status == SlotAvailable {
			n++
		}
	}
	return n
}
