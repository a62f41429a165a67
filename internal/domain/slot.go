package domain

import (
	"fmt"
	"strings"
	"time"
)

// Currency of an ad slot price.
type Currency string

const (
	CurrencyStars Currency = "STARS"
	CurrencyUSD   Currency = "USD"
)

// ParseCurrency accepts STARS or USD in any case; empty means STARS.
func ParseCurrency(s string) (Currency, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", string(CurrencyStars):
		return CurrencyStars, nil
	case string(CurrencyUSD):
		return CurrencyUSD, nil
	default:
		return "", fmt.Errorf("%w: unknown currency %q", ErrInvalidSlot, s)
	}
}

// SlotStatus is the two-state lifecycle of an ad slot.
// available -> sold is the only legal transition.
type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotSold      SlotStatus = "sold"
)

// DefaultBuyer is recorded when a purchase does not name its buyer.
const DefaultBuyer = "You"

// AdSlot is one sellable advertising placement.
type AdSlot struct {
	// ID is unique within the owning channel.
	ID string `json:"id" yaml:"id"`

	// Date is the day the ad would run. The store does not require it to be
	// in the future.
	Date time.Time `json:"date" yaml:"date"`

	Price          float64  `json:"price" yaml:"price"`
	Currency       Currency `json:"currency" yaml:"currency"`
	EstimatedViews int64    `json:"estimatedViews" yaml:"estimatedViews"`

	Status SlotStatus `json:"status" yaml:"status"`

	// BuyerName is set if and only if Status is sold.
	BuyerName string `json:"buyerName,omitempty" yaml:"buyerName,omitempty"`
}

// Sold reports whether the slot has been purchased.
func (s *AdSlot) Sold() bool {
	return s.Status == SlotSold
}

// MarkSold performs the available -> sold transition.
// It returns false and changes nothing when the slot is already sold.
func (s *AdSlot) MarkSold(buyer string) bool {
	if s.Sold() {
		return false
	}
	if strings.TrimSpace(buyer) == "" {
		buyer = DefaultBuyer
	}
	s.Status = SlotSold
	s.BuyerName = buyer
	return true
}

// SlotDraft is what an owner submits to create a slot. Status and buyer
// are not part of it: new slots are always available.
type SlotDraft struct {
	Date           time.Time `json:"date"`
	Price          float64   `json:"price"`
	Currency       Currency  `json:"currency,omitempty"`
	EstimatedViews int64     `json:"estimatedViews"`
}
