package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/finledger/ledger-api/internal/core/ports"
)

const collectionAudit = "transaction_audit"

// AuditRepository appends committed engine operations to the audit
// collection. Entries are written off the request path by the dispatcher.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(collectionAudit)}
}

func (r *AuditRepository) Insert(ctx context.Context, e *ports.AuditEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, bson.M{
		"transaction_id": e.TransactionID,
		"type":           string(e.Type),
		"action":         e.Action,
		"actor_id":       e.ActorID,
		"amount":         e.Amount,
		"at":             e.At.UTC(),
		"recorded_at":    time.Now().UTC(),
	})
	return err
}
