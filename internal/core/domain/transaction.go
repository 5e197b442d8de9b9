package domain

import "time"

// TransactionType enumerates the three ledger operations.
type TransactionType string

const (
	TypeDeposit  TransactionType = "deposit"
	TypeWithdraw TransactionType = "withdraw"
	TypeTransfer TransactionType = "transfer"
)

// Transaction is a ledger row. It is written atomically together with its
// balance side effects and is never updated in place; the cancel reversal
// deletes it after compensating the balances.
type Transaction struct {
	ID        string
	Amount    int64
	FromUser  string
	ToUser    string // set for transfers only
	Type      TransactionType
	CreatedAt time.Time
}
