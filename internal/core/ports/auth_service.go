package ports

import (
	"context"

	"github.com/finledger/ledger-api/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, email, password, name string) (*domain.Account, error)
	Login(ctx context.Context, email, password string) (string, *domain.Account, error)
}
