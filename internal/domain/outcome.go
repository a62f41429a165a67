package domain

// VerifyOutcome distinguishes a directory hit from a fresh verification.
type VerifyOutcome string

const (
	// OutcomeAlreadyRegistered means the handle was found in the directory
	// and the external check was skipped.
	OutcomeAlreadyRegistered VerifyOutcome = "already_registered"
	// OutcomeVerified means the external check accepted a new handle.
	OutcomeVerified VerifyOutcome = "verified"
)

// RegisterOutcome is the result of an idempotent registration.
type RegisterOutcome string

const (
	RegisterInserted      RegisterOutcome = "inserted"
	RegisterAlreadyExists RegisterOutcome = "already_exists"
)

// PurchaseOutcome is the tagged result of a purchase attempt.
type PurchaseOutcome string

const (
	Purchased       PurchaseOutcome = "purchased"
	ChannelNotFound PurchaseOutcome = "channel_not_found"
	SlotNotFound    PurchaseOutcome = "slot_not_found"
	AlreadySold     PurchaseOutcome = "already_sold"
)

// OK reports the legacy boolean: every purchase outcome counts as success,
// misses and repeated purchases included. Use the outcome itself to tell
// them apart.
func (o PurchaseOutcome) OK() bool {
	switch o {
	case Purchased, ChannelNotFound, SlotNotFound, AlreadySold:
		return true
	default:
		return false
	}
}

// Changed reports whether the purchase mutated the directory.
func (o PurchaseOutcome) Changed() bool {
	return o == Purchased
}
