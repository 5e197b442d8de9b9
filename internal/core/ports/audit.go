package ports

import (
	"context"
	"time"

	"github.com/finledger/ledger-api/internal/core/domain"
)

const (
	AuditActionCreated   = "created"
	AuditActionCancelled = "cancelled"
)

// AuditEntry records a committed engine operation for the audit trail.
type AuditEntry struct {
	TransactionID string
	Type          domain.TransactionType
	Action        string
	ActorID       string
	Amount        int64
	At            time.Time
}

// AuditRecorder persists audit entries.
type AuditRecorder interface {
	Insert(ctx context.Context, e *AuditEntry) error
}
