package ports

import "context"

// AtomicRunner executes fn as a single all-or-nothing unit: every repository
// call made with the callback context commits together or rolls back
// together. Implementations must surface transient backing-store conflicts
// as domain.ErrStorageConflict after the rollback.
type AtomicRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
