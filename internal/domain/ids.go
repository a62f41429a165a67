package domain

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// SlotIDPrefix marks every generated slot identifier.
const SlotIDPrefix = "slot-"

// IDGenerator assigns identifiers to new ad slots.
type IDGenerator interface {
	NewSlotID() string
}

// UUIDGenerator issues collision-resistant slot IDs backed by random UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) NewSlotID() string {
	return SlotIDPrefix + uuid.NewString()
}

// SequentialIDs issues slot-1, slot-2, ... and is meant for deterministic
// seeding and tests.
type SequentialIDs struct {
	n atomic.Int64
}

func (s *SequentialIDs) NewSlotID() string {
	return fmt.Sprintf("%s%d", SlotIDPrefix, s.n.Add(1))
}
