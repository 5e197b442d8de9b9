package ports

import (
	"context"

	"github.com/finledger/ledger-api/internal/core/domain"
)

// AccountService exposes the user-facing account reads and block operations.
type AccountService interface {
	List(ctx context.Context) ([]*domain.Account, error)
	Get(ctx context.Context, id string) (*domain.Account, error)
	// Block marks the account as blocked. Blocking is one-way.
	Block(ctx context.Context, id string) (*domain.Account, error)
}
