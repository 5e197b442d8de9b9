package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"github.com/finledger/ledger-api/internal/core/domain"
)

// Runner implements ports.AtomicRunner on MongoDB client sessions. Every
// repository call inside the callback must use the callback context so it
// joins the session's transaction.
type Runner struct {
	client *mongo.Client
}

func NewRunner(client *mongo.Client) *Runner {
	return &Runner{client: client}
}

// WithinTx runs fn inside a multi-document transaction with snapshot reads
// and a majority commit. A write that conflicts with a concurrent
// transaction aborts the whole callback; the driver retries transient
// aborts, and exhausted retries surface as domain.ErrStorageConflict so the
// API layer can tell the caller to retry. No partial effect survives a
// failed callback.
func (r *Runner) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	sess, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	txOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	}, txOpts)
	if err != nil {
		if isTransient(err) {
			return domain.ErrStorageConflict
		}
		return err
	}
	return nil
}

func isTransient(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.HasErrorLabel("TransientTransactionError") ||
			cmdErr.HasErrorLabel("UnknownTransactionCommitResult")
	}
	return false
}
