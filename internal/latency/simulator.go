package latency

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/telemanager/internal/domain"
)

// Op names a simulated external call.
type Op string

const (
	OpVerify     Op = "verify"
	OpRegister   Op = "register"
	OpSearch     Op = "search"
	OpPurchase   Op = "purchase"
	OpCreateSlot Op = "create_slot"
)

// DefaultTimeout bounds every simulated wait when no timeout is configured.
const DefaultTimeout = 5 * time.Second

// Defaults mirrors the response times of the Telegram-facing backend.
func Defaults() map[Op]time.Duration {
	return map[Op]time.Duration{
		OpVerify:     1500 * time.Millisecond,
		OpRegister:   800 * time.Millisecond,
		OpSearch:     600 * time.Millisecond,
		OpPurchase:   1000 * time.Millisecond,
		OpCreateSlot: 500 * time.Millisecond,
	}
}

// Simulator delays operations to mimic network round trips.
// A zero Simulator waits for nothing.
type Simulator struct {
	delays  map[Op]time.Duration
	timeout time.Duration
}

// New builds a simulator. Ops missing from delays do not wait.
// timeout <= 0 selects DefaultTimeout.
func New(delays map[Op]time.Duration, timeout time.Duration) *Simulator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	d := make(map[Op]time.Duration, len(delays))
	for op, v := range delays {
		d[op] = v
	}
	return &Simulator{delays: d, timeout: timeout}
}

// None returns a simulator without any delay, for tests.
func None() *Simulator {
	return New(nil, 0)
}

// Delay returns the configured wait for op.
func (s *Simulator) Delay(op Op) time.Duration {
	if s == nil {
		return 0
	}
	return s.delays[op]
}

// Timeout returns the bound applied to each wait.
func (s *Simulator) Timeout() time.Duration {
	if s == nil || s.timeout <= 0 {
		return DefaultTimeout
	}
	return s.timeout
}

// Wait blocks for the delay of op. It returns domain.ErrTimeout when the
// delay exceeds the timeout, or ctx.Err() when ctx ends first.
func (s *Simulator) Wait(ctx context.Context, op Op) error {
	delay := s.Delay(op)
	if delay <= 0 {
		return ctx.Err()
	}

	bound := s.Timeout()
	wait := delay
	if wait > bound {
		wait = bound
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	if delay > bound {
		return fmt.Errorf("%w: %s exceeded %s", domain.ErrTimeout, op, bound)
	}
	return nil
}
