// Package seed bootstraps the initial admin account.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/finledger/ledger-api/internal/core/domain"
	"github.com/finledger/ledger-api/internal/core/ports"
)

// EnsureAdmin creates the bootstrap admin account when it does not exist
// yet. Safe to run on every startup and across concurrent instances: the
// unique email index makes the losing racer a no-op.
func EnsureAdmin(ctx context.Context, repo ports.AccountRepository, email, password string, log zerolog.Logger) error {
	if email == "" || password == "" {
		log.Warn().Msg("admin seed skipped: ADMIN_EMAIL/ADMIN_PASSWORD not set")
		return nil
	}

	_, err := repo.FindByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrAccountNotFound) {
		return fmt.Errorf("seed lookup: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed hash: %w", err)
	}

	_, err = repo.Create(ctx, &domain.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         "Admin",
		Role:         domain.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	})
	if errors.Is(err, domain.ErrEmailTaken) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("seed create: %w", err)
	}

	log.Info().Str("email", email).Msg("admin account seeded")
	return nil
}
