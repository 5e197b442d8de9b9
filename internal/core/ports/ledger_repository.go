package ports

import (
	"context"

	"github.com/finledger/ledger-api/internal/core/domain"
)

// LedgerRepository persists transaction rows.
type LedgerRepository interface {
	Create(ctx context.Context, t *domain.Transaction) error
	FindByID(ctx context.Context, id string) (*domain.Transaction, error)
	FindByFromUser(ctx context.Context, userID string) ([]*domain.Transaction, error)
	// FindByFromUserAndID retrieves a transaction only when it belongs to
	// userID; anything else is domain.ErrTransactionNotFound.
	FindByFromUserAndID(ctx context.Context, userID, txID string) (*domain.Transaction, error)
	// ListPaged returns one 1-indexed page plus the total row count.
	// Offset is (page-1)*pageSize; rows are ordered by creation time.
	ListPaged(ctx context.Context, page, pageSize int) ([]*domain.Transaction, int64, error)
	Delete(ctx context.Context, id string) error
}
