package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/finledger/ledger-api/internal/api/metrics"
	"github.com/finledger/ledger-api/internal/core/domain"
	"github.com/finledger/ledger-api/internal/core/ports"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
)

var allowedPageSizes = map[int]struct{}{5: {}, 10: {}, 20: {}, 50: {}}

// AuditSink receives committed operations for asynchronous audit recording.
type AuditSink interface {
	Enqueue(e ports.AuditEntry)
}

// TransactionService is the transaction engine. Every mutating operation
// runs inside the atomic runner: balance reads, balance writes, and the
// ledger write or delete commit together or not at all.
type TransactionService struct {
	atomic   ports.AtomicRunner
	accounts ports.AccountRepository
	ledger   ports.LedgerRepository
	cache    AccountCache
	audit    AuditSink
	log      zerolog.Logger
}

func NewTransactionService(
	atomic ports.AtomicRunner,
	accounts ports.AccountRepository,
	ledger ports.LedgerRepository,
	cache AccountCache,
	audit AuditSink,
	log zerolog.Logger,
) *TransactionService {
	return &TransactionService{
		atomic:   atomic,
		accounts: accounts,
		ledger:   ledger,
		cache:    cache,
		audit:    audit,
		log:      log,
	}
}

// Deposit credits the acting user's balance. Deposits never fail on funds.
func (s *TransactionService) Deposit(ctx context.Context, actingUserID string, amount int64) (*domain.Transaction, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	start := time.Now()
	var created *domain.Transaction
	err := s.atomic.WithinTx(ctx, func(ctx context.Context) error {
		acct, err := s.accounts.FindByID(ctx, actingUserID)
		if err != nil {
			return err
		}

		acct.Balance += amount
		if _, err := s.accounts.Update(ctx, acct); err != nil {
			return err
		}

		created = newTransaction(actingUserID, "", amount, domain.TypeDeposit)
		return s.ledger.Create(ctx, created)
	})
	if err != nil {
		s.recordFailure(domain.TypeDeposit, err)
		return nil, err
	}

	s.afterCommit(ctx, created, ports.AuditActionCreated, start, actingUserID)
	return created, nil
}

// Withdraw debits the acting user's balance; rejected with InsufficientFunds
// when the balance would go negative.
func (s *TransactionService) Withdraw(ctx context.Context, actingUserID string, amount int64) (*domain.Transaction, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	start := time.Now()
	var created *domain.Transaction
	err := s.atomic.WithinTx(ctx, func(ctx context.Context) error {
		acct, err := s.accounts.FindByID(ctx, actingUserID)
		if err != nil {
			return err
		}
		if acct.Balance < amount {
			return domain.ErrInsufficientFunds
		}

		acct.Balance -= amount
		if _, err := s.accounts.Update(ctx, acct); err != nil {
			return err
		}

		created = newTransaction(actingUserID, "", amount, domain.TypeWithdraw)
		return s.ledger.Create(ctx, created)
	})
	if err != nil {
		s.recordFailure(domain.TypeWithdraw, err)
		return nil, err
	}

	s.afterCommit(ctx, created, ports.AuditActionCreated, start, actingUserID)
	return created, nil
}

// Transfer moves funds from the acting user to toUserID. The receiver must
// exist and must not be blocked.
func (s *TransactionService) Transfer(ctx context.Context, actingUserID, toUserID string, amount int64) (*domain.Transaction, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if toUserID == actingUserID {
		return nil, domain.ErrSelfTransfer
	}

	start := time.Now()
	var created *domain.Transaction
	err := s.atomic.WithinTx(ctx, func(ctx context.Context) error {
		sender, err := s.accounts.FindByID(ctx, actingUserID)
		if err != nil {
			return err
		}
		if sender.Balance < amount {
			return domain.ErrInsufficientFunds
		}

		receiver, err := s.accounts.FindByID(ctx, toUserID)
		if err != nil {
			if errors.Is(err, domain.ErrAccountNotFound) {
				return domain.ErrReceiverNotFound
			}
			return err
		}
		if receiver.Blocked {
			return domain.ErrReceiverBlocked
		}

		sender.Balance -= amount
		receiver.Balance += amount
		if err := s.updateBoth(ctx, sender, receiver); err != nil {
			return err
		}

		created = newTransaction(actingUserID, toUserID, amount, domain.TypeTransfer)
		return s.ledger.Create(ctx, created)
	})
	if err != nil {
		s.recordFailure(domain.TypeTransfer, err)
		return nil, err
	}

	s.afterCommit(ctx, created, ports.AuditActionCreated, start, actingUserID, toUserID)
	return created, nil
}

// Cancel reverses a transaction's balance effects and deletes the ledger
// row. An empty scopeUserID is the admin path; otherwise the transaction
// must belong to scopeUserID.
//
// The deposit branch subtracts the deposited amount. The system this ledger
// replaces credited it back instead, minting money on every cancelled
// deposit; a genuine compensating reversal is the only behavior compatible
// with the non-negative balance invariant.
func (s *TransactionService) Cancel(ctx context.Context, transactionID, scopeUserID string) error {
	start := time.Now()
	var cancelled *domain.Transaction
	err := s.atomic.WithinTx(ctx, func(ctx context.Context) error {
		var tx *domain.Transaction
		var err error
		if scopeUserID != "" {
			tx, err = s.ledger.FindByFromUserAndID(ctx, scopeUserID, transactionID)
		} else {
			tx, err = s.ledger.FindByID(ctx, transactionID)
		}
		if err != nil {
			return err
		}

		creator, err := s.accounts.FindByID(ctx, tx.FromUser)
		if err != nil {
			return err
		}
		if creator.Blocked {
			return domain.ErrCreatorBlocked
		}

		var receiver *domain.Account
		if tx.Type == domain.TypeTransfer {
			receiver, err = s.accounts.FindByID(ctx, tx.ToUser)
			if err != nil {
				if errors.Is(err, domain.ErrAccountNotFound) {
					return domain.ErrReceiverNotFound
				}
				return err
			}
			if receiver.Blocked {
				return domain.ErrReversalBlocked
			}
		}

		switch tx.Type {
		case domain.TypeWithdraw:
			creator.Balance += tx.Amount
			if _, err := s.accounts.Update(ctx, creator); err != nil {
				return err
			}
		case domain.TypeDeposit:
			if creator.Balance < tx.Amount {
				return domain.ErrInsufficientFunds
			}
			creator.Balance -= tx.Amount
			if _, err := s.accounts.Update(ctx, creator); err != nil {
				return err
			}
		case domain.TypeTransfer:
			// The receiver may have spent the transferred funds already;
			// reversing past zero would break the balance invariant.
			if receiver.Balance < tx.Amount {
				return domain.ErrInsufficientFunds
			}
			creator.Balance += tx.Amount
			receiver.Balance -= tx.Amount
			if err := s.updateBoth(ctx, creator, receiver); err != nil {
				return err
			}
		}

		if err := s.ledger.Delete(ctx, tx.ID); err != nil {
			return err
		}
		cancelled = tx
		return nil
	})
	if err != nil {
		metrics.TransactionErrorsTotal.WithLabelValues(errorReason(err)).Inc()
		return err
	}

	involved := []string{cancelled.FromUser}
	if cancelled.ToUser != "" {
		involved = append(involved, cancelled.ToUser)
	}
	s.afterCommit(ctx, cancelled, ports.AuditActionCancelled, start, involved...)
	return nil
}

// List is the admin-only paged read over the whole ledger.
func (s *TransactionService) List(ctx context.Context, page, pageSize int) (*ports.TransactionPage, error) {
	if page == 0 {
		page = defaultPage
	}
	if pageSize == 0 {
		pageSize = defaultPageSize
	}
	if page < 1 {
		return nil, domain.ErrInvalidPage
	}
	if _, ok := allowedPageSizes[pageSize]; !ok {
		return nil, domain.ErrInvalidPageSize
	}

	items, total, err := s.ledger.ListPaged(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}
	return &ports.TransactionPage{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *TransactionService) OwnedTransactions(ctx context.Context, userID string) ([]*domain.Transaction, error) {
	return s.ledger.FindByFromUser(ctx, userID)
}

func (s *TransactionService) OwnedTransaction(ctx context.Context, userID, transactionID string) (*domain.Transaction, error) {
	return s.ledger.FindByFromUserAndID(ctx, userID, transactionID)
}

func (s *TransactionService) Get(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return s.ledger.FindByID(ctx, transactionID)
}

// updateBoth writes two accounts in ascending id order so opposing transfers
// conflict deterministically instead of deadlocking.
func (s *TransactionService) updateBoth(ctx context.Context, a, b *domain.Account) error {
	first, second := a, b
	if second.ID < first.ID {
		first, second = second, first
	}
	if _, err := s.accounts.Update(ctx, first); err != nil {
		return err
	}
	_, err := s.accounts.Update(ctx, second)
	return err
}

// afterCommit runs the non-transactional tail of a committed operation:
// cache eviction for every touched account, the async audit entry, metrics,
// and the info log line.
func (s *TransactionService) afterCommit(ctx context.Context, t *domain.Transaction, action string, start time.Time, accountIDs ...string) {
	for _, id := range accountIDs {
		if err := s.cache.Invalidate(ctx, id); err != nil {
			s.log.Warn().Err(err).Str("account_id", id).Msg("account cache invalidation failed")
		}
	}

	s.audit.Enqueue(ports.AuditEntry{
		TransactionID: t.ID,
		Type:          t.Type,
		Action:        action,
		ActorID:       t.FromUser,
		Amount:        t.Amount,
		At:            time.Now().UTC(),
	})

	if action == ports.AuditActionCancelled {
		metrics.TransactionsCancelledTotal.WithLabelValues(string(t.Type)).Inc()
	} else {
		metrics.TransactionsCreatedTotal.WithLabelValues(string(t.Type)).Inc()
	}
	metrics.TransactionDuration.WithLabelValues(string(t.Type)).Observe(time.Since(start).Seconds())

	s.log.Info().
		Str("transaction_id", t.ID).
		Str("type", string(t.Type)).
		Int64("amount", t.Amount).
		Str("from_user", t.FromUser).
		Msg("transaction " + action)
}

func (s *TransactionService) recordFailure(typ domain.TransactionType, err error) {
	metrics.TransactionErrorsTotal.WithLabelValues(errorReason(err)).Inc()
	s.log.Debug().Err(err).Str("type", string(typ)).Msg("transaction rejected")
}

func newTransaction(from, to string, amount int64, typ domain.TransactionType) *domain.Transaction {
	return &domain.Transaction{
		ID:        uuid.NewString(),
		Amount:    amount,
		FromUser:  from,
		ToUser:    to,
		Type:      typ,
		CreatedAt: time.Now().UTC(),
	}
}

// errorReason buckets an engine error into a short metrics label.
func errorReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrTransactionNotFound),
		errors.Is(err, domain.ErrReceiverNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrReceiverBlocked),
		errors.Is(err, domain.ErrCreatorBlocked),
		errors.Is(err, domain.ErrReversalBlocked):
		return "blocked"
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrSelfTransfer):
		return "invalid_input"
	case errors.Is(err, domain.ErrStorageConflict):
		return "storage_conflict"
	default:
		return "internal"
	}
}
