package postgen

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidConfig rejects a request before any call is made.
	ErrInvalidConfig = errors.New("invalid post config")
	// ErrGenerationFailed wraps every failure of the model call.
	ErrGenerationFailed = errors.New("failed to generate post")
)

// Creativity is the three-point randomness scale offered to users.
type Creativity string

const (
	CreativityLow    Creativity = "low"
	CreativityMedium Creativity = "medium"
	CreativityHigh   Creativity = "high"
)

var temperatures = map[Creativity]float32{
	CreativityLow:    0.3,
	CreativityMedium: 0.7,
	CreativityHigh:   0.95,
}

// Temperature returns the sampling temperature for c.
func (c Creativity) Temperature() (float32, bool) {
	t, ok := temperatures[c]
	return t, ok
}

const (
	DefaultTone     = "Professional"
	DefaultLanguage = "English"
	DefaultAudience = "General"
	DefaultContext  = "None"
)

// Config describes the post to write.
type Config struct {
	Topic          string     `json:"topic"`
	Tone           string     `json:"tone"`
	Context        string     `json:"context"`
	TargetAudience string     `json:"targetAudience"`
	PostLanguage   string     `json:"postLanguage"`
	Creativity     Creativity `json:"creativity"`
}

// Normalize trims every field and fills tone, language and creativity
// defaults. Audience and context stay empty; the prompt substitutes them.
func (c Config) Normalize() Config {
	c.Topic = strings.TrimSpace(c.Topic)
	c.Tone = strings.TrimSpace(c.Tone)
	c.Context = strings.TrimSpace(c.Context)
	c.TargetAudience = strings.TrimSpace(c.TargetAudience)
	c.PostLanguage = strings.TrimSpace(c.PostLanguage)
	c.Creativity = Creativity(strings.ToLower(strings.TrimSpace(string(c.Creativity))))

	if c.Tone == "" {
		c.Tone = DefaultTone
	}
	if c.PostLanguage == "" {
		c.PostLanguage = DefaultLanguage
	}
	if c.Creativity == "" {
		c.Creativity = CreativityMedium
	}
	return c
}

// Validate expects a normalized config.
func (c Config) Validate() error {
	if c.Topic == "" {
		return fmt.Errorf("%w: topic is required", ErrInvalidConfig)
	}
	if _, ok := c.Creativity.Temperature(); !ok {
		return fmt.Errorf("%w: unknown creativity %q", ErrInvalidConfig, c.Creativity)
	}
	return nil
}
