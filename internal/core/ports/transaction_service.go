package ports

import (
	"context"

	"github.com/finledger/ledger-api/internal/core/domain"
)

// TransactionPage is one page of the admin transaction listing.
type TransactionPage struct {
	Items    []*domain.Transaction
	Total    int64
	Page     int
	PageSize int
}

// TransactionService is the transaction engine: every mutating operation
// applies its balance writes and its ledger write (or delete) atomically,
// and takes an already-authenticated acting user id.
type TransactionService interface {
	Deposit(ctx context.Context, actingUserID string, amount int64) (*domain.Transaction, error)
	Withdraw(ctx context.Context, actingUserID string, amount int64) (*domain.Transaction, error)
	Transfer(ctx context.Context, actingUserID, toUserID string, amount int64) (*domain.Transaction, error)
	// Cancel reverses a transaction's balance effects and deletes the row.
	// An empty scopeUserID is the admin path (any transaction may be
	// cancelled); otherwise the transaction must belong to scopeUserID.
	Cancel(ctx context.Context, transactionID, scopeUserID string) error
	// List is the admin-only paged read. Page defaults to 1, pageSize to 10;
	// pageSize is restricted to 5, 10, 20 or 50.
	List(ctx context.Context, page, pageSize int) (*TransactionPage, error)
	OwnedTransactions(ctx context.Context, userID string) ([]*domain.Transaction, error)
	OwnedTransaction(ctx context.Context, userID, transactionID string) (*domain.Transaction, error)
	Get(ctx context.Context, transactionID string) (*domain.Transaction, error)
}
