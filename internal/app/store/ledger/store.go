// internal/app/store/ledger/store.go
package ledger

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/clubworks/clubhub/internal/domain/models"
)

var (
	// ErrNotFound is returned when no matching transaction exists.
	ErrNotFound = errors.New("ledger transaction not found")

	errBadTrxType = errors.New(`transaction type must be "voucher" or "receipt"`)
	errNoAccount  = errors.New("account_id is required")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("ledger_transactions")}
}

// Create inserts a transaction. A UUID TransactionID is assigned here;
// callers never supply one.
func (s *Store) Create(ctx context.Context, t models.LedgerTransaction) (models.LedgerTransaction, error) {
	if !models.IsValidTrxType(t.TransactionType) {
		return models.LedgerTransaction{}, errBadTrxType
	}
	t.AccountID = strings.TrimSpace(t.AccountID)
	if t.AccountID == "" {
		return models.LedgerTransaction{}, errNoAccount
	}

	t.ID = primitive.NewObjectID()
	t.TransactionID = uuid.NewString()

	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.Date.IsZero() {
		t.Date = now
	}

	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.LedgerTransaction{}, err
	}
	return t, nil
}

// Get loads one transaction by its UUID.
func (s *Store) Get(ctx context.Context, transactionID string) (*models.LedgerTransaction, error) {
	var t models.LedgerTransaction
	err := s.c.FindOne(ctx, bson.M{"transaction_id": transactionID}).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// ListOptions filters List.
type ListOptions struct {
	AccountID       string
	TransactionType string
	From, To        time.Time
	Limit           int64
	Offset          int64
}

const defaultListLimit = 100

// List returns transactions newest first, filtered by account, type
// and date window.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]models.LedgerTransaction, error) {
	filter := bson.M{}
	if opts.AccountID != "" {
		filter["account_id"] = opts.AccountID
	}
	if opts.TransactionType != "" {
		if !models.IsValidTrxType(opts.TransactionType) {
			return nil, errBadTrxType
		}
		filter["transaction_type"] = opts.TransactionType
	}
	dateRange := bson.M{}
	if !opts.From.IsZero() {
		dateRange["$gte"] = opts.From
	}
	if !opts.To.IsZero() {
		dateRange["$lt"] = opts.To
	}
	if len(dateRange) > 0 {
		filter["date"] = dateRange
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	cur, err := s.c.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(opts.Offset).
		SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.LedgerTransaction
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update replaces the editable fields of a transaction. TransactionID
// and CreatedBy are immutable.
type Update struct {
	AccountID       string
	TransactionType string
	TrxBookNo       string
	TrxReference    string
	Amount          int64
	Description     string
	Date            time.Time
}

// UpdateByTransactionID applies an Update to one transaction.
func (s *Store) UpdateByTransactionID(ctx context.Context, transactionID string, upd Update) error {
	if !models.IsValidTrxType(upd.TransactionType) {
		return errBadTrxType
	}
	upd.AccountID = strings.TrimSpace(upd.AccountID)
	if upd.AccountID == "" {
		return errNoAccount
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"transaction_id": transactionID}, bson.M{"$set": bson.M{
		"account_id":       upd.AccountID,
		"transaction_type": upd.TransactionType,
		"trx_book_no":      upd.TrxBookNo,
		"trx_reference":    upd.TrxReference,
		"amount":           upd.Amount,
		"description":      upd.Description,
		"date":             upd.Date,
		"updated_at":       time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a transaction by its UUID.
func (s *Store) Delete(ctx context.Context, transactionID string) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"transaction_id": transactionID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AccountBalance sums amounts for an account: receipts add, vouchers
// subtract.
func (s *Store) AccountBalance(ctx context.Context, accountID string) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"account_id": accountID}}},
		{{Key: "$group", Value: bson.M{
			"_id": nil,
			"balance": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$transaction_type", models.TrxReceipt}},
				"$amount",
				bson.M{"$multiply": bson.A{"$amount", -1}},
			}}},
		}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Balance int64 `bson:"balance"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Balance, nil
}
