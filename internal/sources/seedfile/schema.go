package seedfile

// Config is the root structure of the seed YAML file.
//
//	channels:
//	  - username: my_channel
//	    title: My Channel
//	    category: Tech
//	    subscribers: 1200
//	    verified: false
//	    generateSlots: true
//	    slots:
//	      - date: 2026-10-20
//	        price: 300
type Config struct {
	Channels []ChannelEntry `yaml:"channels"`
}

// ChannelEntry describes one channel to merge into the directory.
type ChannelEntry struct {
	Username      string      `yaml:"username"`
	Title         string      `yaml:"title,omitempty"`
	AvatarURL     string      `yaml:"avatarUrl,omitempty"`
	Verified      bool        `yaml:"verified,omitempty"`
	Subscribers   int64       `yaml:"subscribers,omitempty"`
	Category      string      `yaml:"category,omitempty"`
	GenerateSlots bool        `yaml:"generateSlots,omitempty"`
	Slots         []SlotEntry `yaml:"slots,omitempty"`
}

// SlotEntry is a slot declared explicitly in the seed file.
// Date accepts 2006-01-02 or RFC 3339.
type SlotEntry struct {
	ID             string  `yaml:"id,omitempty"`
	Date           string  `yaml:"date"`
	Price          float64 `yaml:"price"`
	Currency       string  `yaml:"currency,omitempty"`
	EstimatedViews int64   `yaml:"estimatedViews,omitempty"`
	Status         string  `yaml:"status,omitempty"`
	Buyer          string  `yaml:"buyer,omitempty"`
}
