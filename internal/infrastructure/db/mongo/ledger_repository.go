package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/finledger/ledger-api/internal/core/domain"
)

const collectionTransactions = "transactions"

type LedgerRepository struct {
	col *mongo.Collection
}

func NewLedgerRepository(db *mongo.Database) *LedgerRepository {
	return &LedgerRepository{col: db.Collection(collectionTransactions)}
}

type transactionDoc struct {
	ID        string    `bson:"_id"`
	Amount    int64     `bson:"amount"`
	FromUser  string    `bson:"from_user"`
	ToUser    string    `bson:"to_user,omitempty"`
	Type      string    `bson:"type"`
	CreatedAt time.Time `bson:"created_at"`
}

func toTransactionDoc(t *domain.Transaction) transactionDoc {
	return transactionDoc{
		ID:        t.ID,
		Amount:    t.Amount,
		FromUser:  t.FromUser,
		ToUser:    t.ToUser,
		Type:      string(t.Type),
		CreatedAt: t.CreatedAt.UTC(),
	}
}

func (d transactionDoc) toDomain() *domain.Transaction {
	return &domain.Transaction{
		ID:        d.ID,
		Amount:    d.Amount,
		FromUser:  d.FromUser,
		ToUser:    d.ToUser,
		Type:      domain.TransactionType(d.Type),
		CreatedAt: d.CreatedAt,
	}
}

func (r *LedgerRepository) Create(ctx context.Context, t *domain.Transaction) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, toTransactionDoc(t))
	return err
}

func (r *LedgerRepository) FindByID(ctx context.Context, id string) (*domain.Transaction, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *LedgerRepository) FindByFromUserAndID(ctx context.Context, userID, txID string) (*domain.Transaction, error) {
	return r.findOne(ctx, bson.M{"_id": txID, "from_user": userID})
}

func (r *LedgerRepository) findOne(ctx context.Context, filter bson.M) (*domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d transactionDoc
	if err := r.col.FindOne(ctx, filter).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return d.toDomain(), nil
}

func (r *LedgerRepository) FindByFromUser(ctx context.Context, userID string) ([]*domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"from_user": userID}, opts)
	if err != nil {
		return nil, err
	}
	return decodeAll(ctx, cur)
}

// ListPaged returns the 1-indexed page and the total row count. Rows are
// ordered by creation time so pages are stable under appends.
func (r *LedgerRepository) ListPaged(ctx context.Context, page, pageSize int) ([]*domain.Transaction, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	items, err := decodeAll(ctx, cur)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *LedgerRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

func decodeAll(ctx context.Context, cur *mongo.Cursor) ([]*domain.Transaction, error) {
	defer cur.Close(ctx)

	var out []*domain.Transaction
	for cur.Next(ctx) {
		var d transactionDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, d.toDomain())
	}
	return out, cur.Err()
}
