package registry

import (
	"context"

	"github.com/MrSnakeDoc/telemanager/internal/domain"
)

// IdentityChecker asks an external authority whether a channel handle
// exists. It returns false for an unknown handle and an error only when
// the check itself could not run.
type IdentityChecker interface {
	Check(ctx context.Context, handle string) (bool, error)
}

// SimulatedChecker accepts any well-formed handle.
type SimulatedChecker struct{}

func (SimulatedChecker) Check(ctx context.Context, handle string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return domain.ValidHandle(handle), nil
}

// VerdictCache remembers the answers of the IdentityChecker.
type VerdictCache interface {
	GetCachedVerdict(ctx context.Context, handle string) (valid, found bool, err error)
	CacheVerdict(ctx context.Context, handle string, valid bool) error
	InvalidateVerdict(ctx context.Context, handle string) error
}
