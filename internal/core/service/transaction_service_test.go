package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/finledger/ledger-api/internal/core/domain"
	"github.com/finledger/ledger-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory store shared by the stub repositories
// ---------------------------------------------------------------------------

type memStore struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account
	txs      map[string]*domain.Transaction

	updateErr       error // if set, account Update returns this error
	ledgerCreateErr error // if set, ledger Create returns this error
}

func newMemStore() *memStore {
	return &memStore{
		accounts: make(map[string]*domain.Account),
		txs:      make(map[string]*domain.Transaction),
	}
}

func (s *memStore) snapshot() (map[string]*domain.Account, map[string]*domain.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	accounts := make(map[string]*domain.Account, len(s.accounts))
	for k, v := range s.accounts {
		clone := *v
		accounts[k] = &clone
	}
	txs := make(map[string]*domain.Transaction, len(s.txs))
	for k, v := range s.txs {
		clone := *v
		txs[k] = &clone
	}
	return accounts, txs
}

func (s *memStore) restore(accounts map[string]*domain.Account, txs map[string]*domain.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = accounts
	s.txs = txs
}

func (s *memStore) seedAccount(id string, balance int64, blocked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[id] = &domain.Account{
		ID:      id,
		Email:   id + "@example.com",
		Balance: balance,
		Role:    domain.RoleClient,
		Blocked: blocked,
	}
}

func (s *memStore) seedTx(id, from, to string, amount int64, typ domain.TransactionType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs[id] = &domain.Transaction{
		ID:        id,
		Amount:    amount,
		FromUser:  from,
		ToUser:    to,
		Type:      typ,
		CreatedAt: time.Now().UTC(),
	}
}

func (s *memStore) balance(t *testing.T, id string) int64 {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[id]
	if !ok {
		t.Fatalf("account %s not in store", id)
	}
	return acct.Balance
}

func (s *memStore) txCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.txs)
}

// ---------------------------------------------------------------------------
// Stub repositories
// ---------------------------------------------------------------------------

type stubAccountRepo struct{ s *memStore }

func (r *stubAccountRepo) Create(_ context.Context, a *domain.Account) (*domain.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.accounts {
		if existing.Email == a.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	clone := *a
	r.s.accounts[a.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubAccountRepo) FindByID(_ context.Context, id string) (*domain.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	acct, ok := r.s.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	clone := *acct
	return &clone, nil
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, acct := range r.s.accounts {
		if acct.Email == email {
			clone := *acct
			return &clone, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) Update(_ context.Context, a *domain.Account) (*domain.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.updateErr != nil {
		return nil, r.s.updateErr
	}
	if _, ok := r.s.accounts[a.ID]; !ok {
		return nil, domain.ErrAccountNotFound
	}
	clone := *a
	r.s.accounts[a.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubAccountRepo) List(_ context.Context) ([]*domain.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*domain.Account, 0, len(r.s.accounts))
	for _, acct := range r.s.accounts {
		clone := *acct
		out = append(out, &clone)
	}
	return out, nil
}

type stubLedgerRepo struct{ s *memStore }

func (r *stubLedgerRepo) Create(_ context.Context, tx *domain.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.ledgerCreateErr != nil {
		return r.s.ledgerCreateErr
	}
	clone := *tx
	r.s.txs[tx.ID] = &clone
	return nil
}

func (r *stubLedgerRepo) FindByID(_ context.Context, id string) (*domain.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	tx, ok := r.s.txs[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	clone := *tx
	return &clone, nil
}

func (r *stubLedgerRepo) FindByFromUser(_ context.Context, userID string) ([]*domain.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.Transaction
	for _, tx := range r.s.txs {
		if tx.FromUser == userID {
			clone := *tx
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// FindByFromUserAndID enforces ownership the way the real Mongo filter does.
func (r *stubLedgerRepo) FindByFromUserAndID(_ context.Context, userID, txID string) (*domain.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	tx, ok := r.s.txs[txID]
	if !ok || tx.FromUser != userID {
		return nil, domain.ErrTransactionNotFound
	}
	clone := *tx
	return &clone, nil
}

func (r *stubLedgerRepo) ListPaged(_ context.Context, page, pageSize int) ([]*domain.Transaction, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := make([]*domain.Transaction, 0, len(r.s.txs))
	for _, tx := range r.s.txs {
		clone := *tx
		all = append(all, &clone)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})

	total := int64(len(all))
	skip := (page - 1) * pageSize
	if skip > len(all) {
		return []*domain.Transaction{}, total, nil
	}
	end := skip + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[skip:end], total, nil
}

func (r *stubLedgerRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.txs[id]; !ok {
		return domain.ErrTransactionNotFound
	}
	delete(r.s.txs, id)
	return nil
}

// stubAtomic serializes callbacks and restores a store snapshot on error,
// mirroring the commit/abort behavior of the Mongo runner.
type stubAtomic struct {
	s    *memStore
	txMu sync.Mutex
}

func (a *stubAtomic) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	a.txMu.Lock()
	defer a.txMu.Unlock()
	accounts, txs := a.s.snapshot()
	if err := fn(ctx); err != nil {
		a.s.restore(accounts, txs)
		return err
	}
	return nil
}

type stubCache struct {
	mu          sync.Mutex
	invalidated []string
}

func (c *stubCache) Get(context.Context, string) (*domain.Account, error) { return nil, nil }
func (c *stubCache) Set(context.Context, *domain.Account) error           { return nil }

func (c *stubCache) Invalidate(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, id)
	return nil
}

func (c *stubCache) invalidatedIDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.invalidated...)
}

type stubAuditSink struct {
	mu      sync.Mutex
	entries []ports.AuditEntry
}

func (a *stubAuditSink) Enqueue(e ports.AuditEntry) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, e)
}

func (a *stubAuditSink) all() []ports.AuditEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]ports.AuditEntry(nil), a.entries...)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newEngine() (*TransactionService, *memStore, *stubCache, *stubAuditSink) {
	store := newMemStore()
	cache := &stubCache{}
	audit := &stubAuditSink{}
	svc := NewTransactionService(
		&stubAtomic{s: store},
		&stubAccountRepo{s: store},
		&stubLedgerRepo{s: store},
		cache,
		audit,
		zerolog.Nop(),
	)
	return svc, store, cache, audit
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Deposit tests
// ---------------------------------------------------------------------------

func TestTransactionService_Deposit_Success(t *testing.T) {
	svc, store, cache, audit := newEngine()
	store.seedAccount("user_1", 100, false)

	tx, err := svc.Deposit(context.Background(), "user_1", 40)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tx.Type != domain.TypeDeposit {
		t.Errorf("type: want %q, got %q", domain.TypeDeposit, tx.Type)
	}
	if tx.FromUser != "user_1" || tx.ToUser != "" {
		t.Errorf("parties: want from=user_1 to=<empty>, got from=%q to=%q", tx.FromUser, tx.ToUser)
	}
	if tx.ID == "" {
		t.Error("transaction id must be generated")
	}
	if got := store.balance(t, "user_1"); got != 140 {
		t.Errorf("balance: want 140, got %d", got)
	}
	if store.txCount() != 1 {
		t.Errorf("expected 1 ledger row, got %d", store.txCount())
	}
	if !contains(cache.invalidatedIDs(), "user_1") {
		t.Error("account cache must be invalidated after commit")
	}
	entries := audit.all()
	if len(entries) != 1 || entries[0].Action != ports.AuditActionCreated {
		t.Errorf("expected one created audit entry, got %+v", entries)
	}
}

func TestTransactionService_Deposit_InvalidAmount(t *testing.T) {
	svc, store, _, _ := newEngine()
	store.seedAccount("user_1", 100, false)

	for _, amount := range []int64{0, -5} {
		if _, err := svc.Deposit(context.Background(), "user_1", amount); !errors.Is(err, domain.ErrInvalidAmount) {
			t.Errorf("amount=%d: expected ErrInvalidAmount, got %v", amount, err)
		}
	}
	if got := store.balance(t, "user_1"); got != 100 {
		t.Errorf("balance must be untouched, got %d", got)
	}
	if store.txCount() != 0 {
		t.Errorf("no ledger rows expected, got %d", store.txCount())
	}
}

func TestTransactionService_Deposit_AccountNotFound(t *testing.T) {
	svc, _, _, _ := newEngine()

	_, err := svc.Deposit(context.Background(), "ghost", 10)
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestTransactionService_Deposit_RollsBackOnLedgerFailure(t *testing.T) {
	svc, store, _, audit := newEngine()
	store.seedAccount("user_1", 100, false)
	store.ledgerCreateErr = errors.New("ledger write failed")

	_, err := svc.Deposit(context.Background(), "user_1", 40)
	if err == nil {
		t.Fatal("expected error when ledger write fails")
	}

	// The balance credit must not survive the failed ledger write.
	if got := store.balance(t, "user_1"); got != 100 {
		t.Errorf("balance after rollback: want 100, got %d", got)
	}
	if store.txCount() != 0 {
		t.Errorf("no ledger rows expected after rollback, got %d", store.txCount())
	}
	if len(audit.all()) != 0 {
		t.Error("no audit entry expected for an aborted operation")
	}
}

// ---------------------------------------------------------------------------
// Withdraw tests
// ---------------------------------------------------------------------------

func TestTransactionService_Withdraw_Success(t *testing.T) {
	svc, store, _, _ := newEngine()
	store.seedAccount("user_1", 100, false)

	tx, err := svc.Withdraw(context.Background(), "user_1", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.Type != domain.TypeWithdraw {
		t.Errorf("type: want %q, got %q", domain.TypeWithdraw, tx.Type)
	}
	if got := store.balance(t, "user_1"); got != 70 {
		t.Errorf("balance: want 70, got %d", got)
	}
}

func TestTransactionService_Withdraw_ToExactlyZero(t *testing.T) {
	svc, store, _, _ := newEngine()
	store.seedAccount("user_1", 100, false)

	if _, err := svc.Withdraw(context.Background(), "user_1", 100); err != nil {
		t.Fatalf("withdrawing the full balance must succeed: %v", err)
	}
	if got := store.balance(t, "user_1"); got != 0 {
		t.Errorf("balance: want 0, got %d", got)
	}
}

func TestTransactionService_Withdraw_InsufficientFunds(t *testing.T) {
	svc, store, _, _ := newEngine()
	store.seedAccount("user_1", 100, false)

	_, err := svc.Withdraw(context.Background(), "user_1", 101)
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if got := store.balance(t, "user_1"); got != 100 {
		t.Errorf("balance must be untouched, got %d", got)
	}
	if store.txCount() != 0 {
		t.Errorf("no ledger rows expected, got %d", store.txCount())
	}
}

// ---------------------------------------------------------------------------
// Transfer tests
// ---------------------------------------------------------------------------

func TestTransactionService_Transfer_Success(t *testing.T) {
	svc, store, cache, _ := newEngine()
	store.seedAccount("sender", 100, false)
	store.seedAccount("receiver", 20, false)

	tx, err := svc.Transfer(context.Background(), "sender", "receiver", 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tx.Type != domain.TypeTransfer {
		t.Errorf("type: want %q, got %q", domain.TypeTransfer, tx.Type)
	}
	if tx.FromUser != "sender" || tx.ToUser != "receiver" {
		t.Errorf("parties: got from=%q to=%q", tx.FromUser, tx.ToUser)
	}
	if got := store.balance(t, "sender"); got != 40 {
		t.Errorf("sender balance: want 40, got %d", got)
	}
	if got := store.balance(t, "receiver"); got != 80 {
		t.Errorf("receiver balance: want 80, got %d", got)
	}
	ids := cache.invalidatedIDs()
	if !contains(ids, "sender") || !contains(ids, "receiver") {
		t.Errorf("both parties must be invalidated, got %v", ids)
	}
}

func TestTransactionService_Transfer_SelfTransfer(t *testing.T) {
	svc, store, _, _ := newEngine()
	store.seedAccount("user_1", 100, false)

	_, err := svc.Transfer(context.Background(), "user_1", "user_1", 10)
	if !errors.Is(err, domain.ErrSelfTransfer) {
		t.Errorf("expected ErrSelfTransfer, got %v", err)
	}
}

func TestTransactionService_Transfer_InsufficientFunds(t *testing.T) {
	svc, store, _, _ := newEngine()
	store.seedAccount("sender", 50, false)
	store.seedAccount("receiver", 0, false)

	_, err := svc.Transfer(context.Background(), "sender", "receiver", 51)
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if store.balance(t, "sender") != 50 || store.balance(t, "receiver") != 0 {
		t.Error("balances must be untouched on a rejected transfer")
	}
}

func TestTransactionService_Transfer_ReceiverNotFound(t *testing.T) {
	svc, store, _, _ := newEngine()
	store.seedAccount("sender", 100, false)

	_, err := svc.Transfer(context.Background(), "sender", "ghost", 10)
	if !errors.Is(err, domain.ErrReceiverNotFound) {
		t.Fatalf("expected ErrReceiverNotFound, got %v", err)
	}
	if got := store.balance(t, "sender"); got != 100 {
		t.Errorf("sender balance must be untouched, got %d", got)
	}
}

func TestTransactionService_Transfer_ReceiverBlocked(t *testing.T) {
	svc, store, _, _ := newEngine()
	store.seedAccount("sender", 100, false)
	store.seedAccount("receiver", 0, true)

	_, err := svc.Transfer(context.Background(), "sender", "receiver", 10)
	if !errors.Is(err, domain.ErrReceiverBlocked) {
		t.Fatalf("expected ErrReceiverBlocked, got %v", err)
	}
	if store.balance(t, "sender") != 100 || store.balance(t, "receiver") != 0 {
		t.Error("balances must be untouched when the receiver is blocked")
	}
	if store.txCount() != 0 {
		t.Errorf("no ledger rows expected, got %d", store.txCount())
	}
}

// ---------------------------------------------------------------------------
// Cancel tests
// ---------------------------------------------------------------------------

func TestTransactionService_Cancel_Withdraw(t *testing.T) {
	svc, store, _, audit := newEngine()
	store.seedAccount("user_1", 70, false)
	store.seedTx("tx_1", "user_1", "", 30, domain.TypeWithdraw)

	if err := svc.Cancel(context.Background(), "tx_1", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := store.balance(t, "user_1"); got != 100 {
		t.Errorf("balance: want 100, got %d", got)
	}
	if store.txCount() != 0 {
		t.Error("cancelled row must be deleted from the ledger")
	}
	entries := audit.all()
	if len(entries) != 1 || entries[0].Action != ports.AuditActionCancelled {
		t.Errorf("expected one cancelled audit entry, got %+v", entries)
	}
}

// Cancelling a deposit must take the deposited amount back out, never credit
// it a second time.
func TestTransactionService_Cancel_Deposit_SubtractsAmount(t *testing.T) {
	svc, store, _, _ := newEngine()
	store.seedAccount("user_1", 140, false)
	store.seedTx("tx_1", "user_1", "", 40, domain.TypeDeposit)

	if err := svc.Cancel(context.Background(), "tx_1", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := store.balance(t, "user_1"); got != 100 {
		t.Errorf("balance: want 100, got %d", got)
	}
}

func TestTransactionService_Cancel_Deposit_SpentFunds(t *testing.T) {
	svc, store, _, _ := newEngine()
	// The user already spent part of the deposit; reversal would go negative.
	store.seedAccount("user_1", 25, false)
	store.seedTx("tx_1", "user_1", "", 40, domain.TypeDeposit)

	err := svc.Cancel(context.Background(), "tx_1", "")
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if got := store.balance(t, "user_1"); got != 25 {
		t.Errorf("balance must be untouched, got %d", got)
	}
	if store.txCount() != 1 {
		t.Error("ledger row must survive a rejected cancel")
	}
}

func TestTransactionService_Cancel_Transfer(t *testing.T) {
	svc, store, _, _ := newEngine()
	store.seedAccount("sender", 40, false)
	store.seedAccount("receiver", 80, false)
	store.seedTx("tx_1", "sender", "receiver", 60, domain.TypeTransfer)

	if err := svc.Cancel(context.Background(), "tx_1", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := store.balance(t, "sender"); got != 100 {
		t.Errorf("sender balance: want 100, got %d", got)
	}
	if got := store.balance(t, "receiver"); got != 20 {
		t.Errorf("receiver balance: want 20, got %d", got)
	}
	if store.txCount() != 0 {
		t.Error("cancelled row must be deleted from the ledger")
	}
}

func TestTransactionService_Cancel_Transfer_ReceiverSpentFunds(t *testing.T) {
	svc, store, _, _ := newEngine()
	store.seedAccount("sender", 40, false)
	store.seedAccount("receiver", 50, false)
	store.seedTx("tx_1", "sender", "receiver", 60, domain.TypeTransfer)

	err := svc.Cancel(context.Background(), "tx_1", "")
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if store.balance(t, "sender") != 40 || store.balance(t, "receiver") != 50 {
		t.Error("balances must be untouched on a rejected cancel")
	}
}

func TestTransactionService_Cancel_Transfer_ReceiverBlocked(t *testing.T) {
	svc, store, _, _ := newEngine()
	store.seedAccount("sender", 40, false)
	store.seedAccount("receiver", 80, true)
	store.seedTx("tx_1", "sender", "receiver", 60, domain.TypeTransfer)

	err := svc.Cancel(context.Background(), "tx_1", "")
	if !errors.Is(err, domain.ErrReversalBlocked) {
		t.Fatalf("expected ErrReversalBlocked, got %v", err)
	}
}

func TestTransactionService_Cancel_Transfer_ReceiverGone(t *testing.T) {
	svc, store, _, _ := newEngine()
	store.seedAccount("sender", 40, false)
	store.seedTx("tx_1", "sender", "receiver", 60, domain.TypeTransfer)

	err := svc.Cancel(context.Background(), "tx_1", "")
	if !errors.Is(err, domain.ErrReceiverNotFound) {
		t.Fatalf("expected ErrReceiverNotFound, got %v", err)
	}
}

func TestTransactionService_Cancel_CreatorBlocked(t *testing.T) {
	svc, store, _, _ := newEngine()
	store.seedAccount("user_1", 70, true)
	store.seedTx("tx_1", "user_1", "", 30, domain.TypeWithdraw)

	err := svc.Cancel(context.Background(), "tx_1", "")
	if !errors.Is(err, domain.ErrCreatorBlocked) {
		t.Fatalf("expected ErrCreatorBlocked, got %v", err)
	}
	if got := store.balance(t, "user_1"); got != 70 {
		t.Errorf("balance must be untouched, got %d", got)
	}
}

func TestTransactionService_Cancel_NotFound(t *testing.T) {
	svc, _, _, _ := newEngine()

	err := svc.Cancel(context.Background(), "ghost", "")
	if !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Errorf("expected ErrTransactionNotFound, got %v", err)
	}
}

func TestTransactionService_Cancel_ScopedToOwner(t *testing.T) {
	svc, store, _, _ := newEngine()
	store.seedAccount("owner", 70, false)
	store.seedTx("tx_1", "owner", "", 30, domain.TypeWithdraw)

	// Another user must not be able to cancel someone else's transaction.
	err := svc.Cancel(context.Background(), "tx_1", "intruder")
	if !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound for foreign transaction, got %v", err)
	}

	if err := svc.Cancel(context.Background(), "tx_1", "owner"); err != nil {
		t.Fatalf("owner cancel failed: %v", err)
	}
	if got := store.balance(t, "owner"); got != 100 {
		t.Errorf("balance: want 100, got %d", got)
	}
}

func TestTransactionService_Cancel_AdminScopeSeesAll(t *testing.T) {
	svc, store, _, _ := newEngine()
	store.seedAccount("owner", 70, false)
	store.seedTx("tx_1", "owner", "", 30, domain.TypeWithdraw)

	// Empty scope is the admin path: any transaction may be cancelled.
	if err := svc.Cancel(context.Background(), "tx_1", ""); err != nil {
		t.Fatalf("admin cancel failed: %v", err)
	}
}

// ---------------------------------------------------------------------------
// List / paged read tests
// ---------------------------------------------------------------------------

func seedLedger(store *memStore, n int) {
	base := time.Now().UTC()
	for i := 0; i < n; i++ {
		store.mu.Lock()
		id := string(rune('a'+i/26)) + string(rune('a'+i%26))
		store.txs[id] = &domain.Transaction{
			ID:        id,
			Amount:    int64(i + 1),
			FromUser:  "user_1",
			Type:      domain.TypeDeposit,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		store.mu.Unlock()
	}
}

func TestTransactionService_List_Pagination(t *testing.T) {
	svc, store, _, _ := newEngine()
	seedLedger(store, 25)

	page1, err := svc.List(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("page 1: %v", err)
	}
	if page1.Total != 25 {
		t.Errorf("total: want 25, got %d", page1.Total)
	}
	if len(page1.Items) != 10 {
		t.Errorf("page 1 items: want 10, got %d", len(page1.Items))
	}

	page3, err := svc.List(context.Background(), 3, 10)
	if err != nil {
		t.Fatalf("page 3: %v", err)
	}
	if len(page3.Items) != 5 {
		t.Errorf("page 3 items: want 5, got %d", len(page3.Items))
	}

	page4, err := svc.List(context.Background(), 4, 10)
	if err != nil {
		t.Fatalf("page 4: %v", err)
	}
	if len(page4.Items) != 0 {
		t.Errorf("page beyond the data must be empty, got %d items", len(page4.Items))
	}
	if page4.Total != 25 {
		t.Errorf("total on empty page: want 25, got %d", page4.Total)
	}
}

func TestTransactionService_List_Defaults(t *testing.T) {
	svc, store, _, _ := newEngine()
	seedLedger(store, 3)

	page, err := svc.List(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Page != 1 {
		t.Errorf("default page: want 1, got %d", page.Page)
	}
	if page.PageSize != 10 {
		t.Errorf("default page size: want 10, got %d", page.PageSize)
	}
}

func TestTransactionService_List_InvalidPage(t *testing.T) {
	svc, _, _, _ := newEngine()

	_, err := svc.List(context.Background(), -1, 10)
	if !errors.Is(err, domain.ErrInvalidPage) {
		t.Errorf("expected ErrInvalidPage, got %v", err)
	}
}

func TestTransactionService_List_InvalidPageSize(t *testing.T) {
	svc, _, _, _ := newEngine()

	for _, size := range []int{1, 7, 15, 100, -5} {
		_, err := svc.List(context.Background(), 1, size)
		if !errors.Is(err, domain.ErrInvalidPageSize) {
			t.Errorf("size=%d: expected ErrInvalidPageSize, got %v", size, err)
		}
	}
}

func TestTransactionService_List_AllowedPageSizes(t *testing.T) {
	svc, store, _, _ := newEngine()
	seedLedger(store, 5)

	for _, size := range []int{5, 10, 20, 50} {
		page, err := svc.List(context.Background(), 1, size)
		if err != nil {
			t.Errorf("size=%d: unexpected error %v", size, err)
			continue
		}
		if page.PageSize != size {
			t.Errorf("size=%d: echoed page size %d", size, page.PageSize)
		}
	}
}

// ---------------------------------------------------------------------------
// Owned reads
// ---------------------------------------------------------------------------

func TestTransactionService_OwnedTransaction_ForeignID(t *testing.T) {
	svc, store, _, _ := newEngine()
	store.seedTx("tx_1", "owner", "", 30, domain.TypeWithdraw)

	_, err := svc.OwnedTransaction(context.Background(), "intruder", "tx_1")
	if !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Errorf("expected ErrTransactionNotFound, got %v", err)
	}

	if _, err := svc.OwnedTransaction(context.Background(), "owner", "tx_1"); err != nil {
		t.Errorf("owner read failed: %v", err)
	}
}

func TestTransactionService_OwnedTransactions_FiltersByUser(t *testing.T) {
	svc, store, _, _ := newEngine()
	store.seedTx("tx_1", "user_1", "", 10, domain.TypeDeposit)
	store.seedTx("tx_2", "user_1", "", 20, domain.TypeWithdraw)
	store.seedTx("tx_3", "user_2", "", 30, domain.TypeDeposit)

	out, err := svc.OwnedTransactions(context.Background(), "user_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Errorf("expected 2 owned transactions, got %d", len(out))
	}
}

// ---------------------------------------------------------------------------
// Concurrency
// ---------------------------------------------------------------------------

func TestTransactionService_ConcurrentDeposits(t *testing.T) {
	svc, store, _, _ := newEngine()
	store.seedAccount("user_1", 0, false)

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			if _, err := svc.Deposit(context.Background(), "user_1", 10); err != nil {
				t.Errorf("concurrent deposit failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := store.balance(t, "user_1"); got != n*10 {
		t.Errorf("balance after %d deposits: want %d, got %d", n, n*10, got)
	}
	if store.txCount() != n {
		t.Errorf("expected %d ledger rows, got %d", n, store.txCount())
	}
}

func TestTransactionService_ConcurrentOpposingTransfers(t *testing.T) {
	svc, store, _, _ := newEngine()
	store.seedAccount("a", 100, false)
	store.seedAccount("b", 100, false)

	const rounds = 20
	var wg sync.WaitGroup
	wg.Add(2 * rounds)
	for i := 0; i < rounds; i++ {
		go func() {
			defer wg.Done()
			_, _ = svc.Transfer(context.Background(), "a", "b", 5)
		}()
		go func() {
			defer wg.Done()
			_, _ = svc.Transfer(context.Background(), "b", "a", 5)
		}()
	}
	wg.Wait()

	balA := store.balance(t, "a")
	balB := store.balance(t, "b")
	if balA+balB != 200 {
		t.Errorf("money conservation broken: a=%d b=%d sum=%d", balA, balB, balA+balB)
	}
	if balA < 0 || balB < 0 {
		t.Errorf("negative balance: a=%d b=%d", balA, balB)
	}
}
