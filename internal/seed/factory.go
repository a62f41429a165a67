package seed

import (
	"math/rand"
	"time"

	"github.com/MrSnakeDoc/telemanager/internal/domain"
)

const (
	// SlotsPerChannel is the number of demo slots generated per channel.
	SlotsPerChannel = 5

	minPrice    = 100
	priceSpread = 500 // price in [100, 600)
	minViews    = 1000
	viewsSpread = 5000 // views in [1000, 6000)
	soldRatio   = 0.3

	// PlaceholderBuyer is the buyer recorded on pre-sold demo slots.
	PlaceholderBuyer = "CryptoWhale"
)

// Factory builds demo data from an explicit random source, clock and id
// generator so that seeding is reproducible.
type Factory struct {
	Rand  *rand.Rand
	Clock func() time.Time
	IDs   domain.IDGenerator
}

// NewFactory returns a factory seeded with the given value.
func NewFactory(seedValue int64, clock func() time.Time, ids domain.IDGenerator) *Factory {
	if clock == nil {
		clock = time.Now
	}
	if ids == nil {
		ids = domain.UUIDGenerator{}
	}
	return &Factory{
		Rand:  rand.New(rand.NewSource(seedValue)),
		Clock: clock,
		IDs:   ids,
	}
}

// Slots generates SlotsPerChannel slots dated 1..5 days from now.
// Roughly 30% come out sold to PlaceholderBuyer.
func (f *Factory) Slots() []domain.AdSlot {
	today := f.Clock()
	slots := make([]domain.AdSlot, 0, SlotsPerChannel)

	for i := 1; i <= SlotsPerChannel; i++ {
		slot := domain.AdSlot{
			ID:             f.IDs.NewSlotID(),
			Date:           today.AddDate(0, 0, i),
			Price:          float64(f.Rand.Intn(priceSpread) + minPrice),
			Currency:       domain.CurrencyStars,
			EstimatedViews: int64(f.Rand.Intn(viewsSpread) + minViews),
			Status:         domain.SlotAvailable,
		}
		if f.Rand.Float64() < soldRatio {
			slot.MarkSold(PlaceholderBuyer)
		}
		slots = append(slots, slot)
	}
	return slots
}

// DefaultChannels returns the built-in demo directory.
func (f *Factory) DefaultChannels() []domain.ChannelProfile {
	channels := []domain.ChannelProfile{
		{
			Username:    "tech_insider",
			Title:       "Tech Insider Daily",
			IsVerified:  true,
			Subscribers: 154000,
			Category:    domain.CategoryTech,
		},
		{
			Username:    "crypto_signals",
			Title:       "Alpha Crypto Signals",
			IsVerified:  true,
			Subscribers: 89000,
			Category:    domain.CategoryCrypto,
		},
		{
			Username:    "meme_central",
			Title:       "Daily Memes",
			IsVerified:  false,
			Subscribers: 450000,
			Category:    domain.CategoryEntertainment,
		},
		{
			Username:    "learn_python",
			Title:       "Python Pro",
			IsVerified:  true,
			Subscribers: 22000,
			Category:    domain.CategoryEducation,
		},
		{
			Username:    "world_news",
			Title:       "Global News 24/7",
			IsVerified:  true,
			Subscribers: 210000,
			Category:    domain.CategoryNews,
		},
	}

	for i := range channels {
		channels[i].Slots = f.Slots()
	}
	return channels
}
