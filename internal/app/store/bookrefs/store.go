// internal/app/store/bookrefs/store.go
package bookrefs

import (
	"context"
	"errors"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/clubworks/clubhub/internal/domain/models"
)

var (
	// ErrNotFound is returned when no matching book reference exists.
	ErrNotFound = errors.New("book reference not found")
	// ErrDuplicate is returned when (transaction_type, trx_book_no) is
	// already registered.
	ErrDuplicate = errors.New("a book reference with this type and book number already exists")

	errBadTrxType = errors.New(`transaction type must be "voucher" or "receipt"`)
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("book_references")}
}

// Create registers a book for a transaction type.
func (s *Store) Create(ctx context.Context, ref models.BookReference) (models.BookReference, error) {
	if !models.IsValidTrxType(ref.TransactionType) {
		return models.BookReference{}, errBadTrxType
	}
	ref.TrxBookNo = strings.TrimSpace(ref.TrxBookNo)
	if ref.TrxBookNo == "" {
		return models.BookReference{}, errors.New("trx_book_no is required")
	}

	ref.ID = primitive.NewObjectID()
	ref.CreatedAt = time.Now()

	if _, err := s.c.InsertOne(ctx, ref); err != nil {
		if wafflemongo.IsDup(err) {
			return models.BookReference{}, ErrDuplicate
		}
		return models.BookReference{}, err
	}
	return ref, nil
}

// Get loads one reference by type and book number.
func (s *Store) Get(ctx context.Context, trxType, bookNo string) (*models.BookReference, error) {
	var ref models.BookReference
	err := s.c.FindOne(ctx, bson.M{
		"transaction_type": trxType,
		"trx_book_no":      strings.TrimSpace(bookNo),
	}).Decode(&ref)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ref, nil
}

// List returns references, optionally filtered by transaction type,
// newest first.
func (s *Store) List(ctx context.Context, trxType string) ([]models.BookReference, error) {
	filter := bson.M{}
	if trxType != "" {
		if !models.IsValidTrxType(trxType) {
			return nil, errBadTrxType
		}
		filter["transaction_type"] = trxType
	}
	cur, err := s.c.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.BookReference
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a reference by type and book number.
func (s *Store) Delete(ctx context.Context, trxType, bookNo string) error {
	res, err := s.c.DeleteOne(ctx, bson.M{
		"transaction_type": trxType,
		"trx_book_no":      strings.TrimSpace(bookNo),
	})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
