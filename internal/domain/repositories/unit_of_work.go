package repositories

import (
	"context"
)

// UnitOfWork runs a group of repository calls atomically
type UnitOfWork interface {
	// Do executes fn within a transaction; repositories called with the
	// context passed to fn join that transaction.
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	// WithLock marks ctx so the next reads inside Do take row locks
	WithLock(ctx context.Context) context.Context
}
