package ports

import (
	"context"

	"github.com/finledger/ledger-api/internal/core/domain"
)

// AccountRepository defines persistence operations for accounts. Balance
// mutations must only happen through Update inside the transaction engine's
// atomic unit.
type AccountRepository interface {
	// Create inserts a new account; returns domain.ErrEmailTaken when the
	// email is already registered.
	Create(ctx context.Context, a *domain.Account) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	// Update replaces the stored account wholesale.
	Update(ctx context.Context, a *domain.Account) (*domain.Account, error)
	List(ctx context.Context) ([]*domain.Account, error)
}
