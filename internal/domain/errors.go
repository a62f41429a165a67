package domain

import "errors"

var (
	// ErrNotFound is returned when a claimed channel handle cannot be verified.
	ErrNotFound = errors.New("channel not found")

	ErrChannelNotFound = errors.New("channel not in directory")
	ErrSlotNotFound    = errors.New("slot not found")

	ErrInvalidProfile  = errors.New("invalid channel profile")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidSlot     = errors.New("invalid slot")

	// ErrTimeout is returned when a simulated external call exceeds its bound.
	ErrTimeout = errors.New("operation timed out")
)
