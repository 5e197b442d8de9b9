package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/finledger/ledger-api/internal/core/domain"
)

const (
	accountKeyPrefix = "account:"
	accountTTL       = 5 * time.Minute
)

// AccountCache caches account views as JSON blobs keyed by account id. The
// transaction engine evicts entries after every committed balance write, so
// a stale window only exists for reads that raced the eviction within TTL.
type AccountCache struct {
	client *redis.Client
}

func NewAccountCache(client *redis.Client) *AccountCache {
	return &AccountCache{client: client}
}

// cachedAccount has its own tags because domain.Account hides the hash,
// role, and blocked flag from API serialization; the cache must keep them.
type cachedAccount struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Name         string    `json:"name,omitempty"`
	Balance      int64     `json:"balance"`
	Role         string    `json:"role"`
	Blocked      bool      `json:"blocked"`
	CreatedAt    time.Time `json:"created_at"`
}

// Get returns the cached account, or (nil, nil) on a miss.
func (c *AccountCache) Get(ctx context.Context, id string) (*domain.Account, error) {
	raw, err := c.client.Get(ctx, accountKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("account cache get: %w", err)
	}

	var ca cachedAccount
	if err := json.Unmarshal(raw, &ca); err != nil {
		return nil, fmt.Errorf("account cache decode: %w", err)
	}
	return &domain.Account{
		ID:           ca.ID,
		Email:        ca.Email,
		PasswordHash: ca.PasswordHash,
		Name:         ca.Name,
		Balance:      ca.Balance,
		Role:         ca.Role,
		Blocked:      ca.Blocked,
		CreatedAt:    ca.CreatedAt,
	}, nil
}

func (c *AccountCache) Set(ctx context.Context, a *domain.Account) error {
	raw, err := json.Marshal(cachedAccount{
		ID:           a.ID,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		Name:         a.Name,
		Balance:      a.Balance,
		Role:         a.Role,
		Blocked:      a.Blocked,
		CreatedAt:    a.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("account cache encode: %w", err)
	}
	return c.client.Set(ctx, accountKeyPrefix+a.ID, raw, accountTTL).Err()
}

func (c *AccountCache) Invalidate(ctx context.Context, id string) error {
	return c.client.Del(ctx, accountKeyPrefix+id).Err()
}
