package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/finledger/ledger-api/internal/api/metrics"
	"github.com/finledger/ledger-api/internal/core/domain"
	"github.com/finledger/ledger-api/internal/core/ports"
)

// AccountCache abstracts the account view cache (Redis). Get returns
// (nil, nil) on a miss. Cache failures are never fatal to the caller.
type AccountCache interface {
	Get(ctx context.Context, id string) (*domain.Account, error)
	Set(ctx context.Context, a *domain.Account) error
	Invalidate(ctx context.Context, id string) error
}

// AccountService serves account reads through the cache and the one-way
// block operations.
type AccountService struct {
	repo  ports.AccountRepository
	cache AccountCache
	log   zerolog.Logger
}

func NewAccountService(repo ports.AccountRepository, cache AccountCache, log zerolog.Logger) *AccountService {
	return &AccountService{repo: repo, cache: cache, log: log}
}

func (s *AccountService) List(ctx context.Context) ([]*domain.Account, error) {
	return s.repo.List(ctx)
}

// Get reads through the cache; a cache failure degrades to a store lookup.
func (s *AccountService) Get(ctx context.Context, id string) (*domain.Account, error) {
	cached, err := s.cache.Get(ctx, id)
	if err != nil {
		s.log.Warn().Err(err).Str("account_id", id).Msg("account cache read failed, falling back to store")
	} else if cached != nil {
		metrics.AccountCacheTotal.WithLabelValues("hit").Inc()
		return cached, nil
	}
	metrics.AccountCacheTotal.WithLabelValues("miss").Inc()

	acct, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, acct); err != nil {
		s.log.Warn().Err(err).Str("account_id", id).Msg("account cache write failed")
	}
	return acct, nil
}

// Block marks the account as blocked. There is no unblock path.
func (s *AccountService) Block(ctx context.Context, id string) (*domain.Account, error) {
	acct, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	acct.Blocked = true
	updated, err := s.repo.Update(ctx, acct)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("account_id", id).Msg("account cache invalidation failed")
	}

	s.log.Info().Str("account_id", id).Msg("account blocked")
	return updated, nil
}
