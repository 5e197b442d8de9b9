package domain

import "errors"

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrTransactionNotFound = errors.New("transaction not found")

	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrSelfTransfer      = errors.New("cannot transfer to own account")
	ErrReceiverNotFound  = errors.New("receiver account does not exist")
	ErrReceiverBlocked   = errors.New("cannot transact with a blocked user")
	ErrCreatorBlocked    = errors.New("transaction creator is blocked")
	ErrReversalBlocked   = errors.New("transaction receiver is blocked")

	ErrInvalidPage     = errors.New("page must be 1 or greater")
	ErrInvalidPageSize = errors.New("page size must be one of 5, 10, 20, 50")

	// ErrStorageConflict marks a transient backing-store conflict; the
	// operation rolled back completely and is safe to retry.
	ErrStorageConflict = errors.New("conflicting concurrent write, retry the operation")
)
