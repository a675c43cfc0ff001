// internal/app/store/otps/store.go
package otps

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/clubworks/clubhub/internal/domain/models"
)

const (
	// CodeLength is the length of the reset code (6 digits).
	CodeLength = 6
	// DefaultExpiry is how long a code is valid.
	DefaultExpiry = 10 * time.Minute
	// BcryptCost for hashing codes. Lower than the password cost; codes
	// are short-lived and attempt-capped.
	BcryptCost = 10
	// MaxAttempts is the maximum number of validation attempts per code.
	MaxAttempts = 5
)

var (
	// ErrNotFound is returned when no code exists for the email.
	ErrNotFound = errors.New("code not found")
	// ErrExpired is returned when the newest code for the email has
	// passed its expiry. Distinct from ErrMismatch so the handler can
	// tell the caller to request a new code.
	ErrExpired = errors.New("code expired")
	// ErrMismatch is returned when the submitted code doesn't match.
	ErrMismatch = errors.New("code mismatch")
	// ErrTooManyAttempts is returned when the attempt cap is exhausted.
	ErrTooManyAttempts = errors.New("too many attempts")
)

// Store manages one-time password-reset codes.
type Store struct {
	c      *mongo.Collection
	expiry time.Duration
}

// New creates a Store. If expiry is 0 or negative, DefaultExpiry is
// used.
func New(db *mongo.Database, expiry time.Duration) *Store {
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	return &Store{c: db.Collection("one_time_codes"), expiry: expiry}
}

// Expiry returns the configured code lifetime.
func (s *Store) Expiry() time.Duration {
	return s.expiry
}

// Create issues a fresh code for the email, replacing any prior codes
// for the same address. Returns the plain code for delivery; only the
// bcrypt hash is stored.
func (s *Store) Create(ctx context.Context, email, memberID, mobile string) (string, error) {
	code := generateCode()

	hash, err := bcrypt.GenerateFromPassword([]byte(code), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash code: %w", err)
	}

	// One live code per email; re-requesting invalidates the old one.
	if _, err := s.c.DeleteMany(ctx, bson.M{"email": email}); err != nil {
		return "", fmt.Errorf("clear prior codes: %w", err)
	}

	now := time.Now()
	doc := models.OneTimeCode{
		ID:        primitive.NewObjectID(),
		Email:     email,
		MemberID:  memberID,
		Mobile:    mobile,
		CodeHash:  string(hash),
		ExpiresAt: now.Add(s.expiry),
		CreatedAt: now,
		Attempts:  0,
	}
	if _, err := s.c.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("insert code: %w", err)
	}
	return code, nil
}

// Validate checks a submitted code against the newest code for the
// email. Expiry is checked before the match so a stale-but-correct
// code reports ErrExpired, not ErrMismatch. The record is deleted only
// on success; a mismatch leaves it in place with the attempt counted.
func (s *Store) Validate(ctx context.Context, email, code string) (*models.OneTimeCode, error) {
	var otc models.OneTimeCode
	err := s.c.FindOne(ctx, bson.M{"email": email},
		options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	).Decode(&otc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if time.Now().After(otc.ExpiresAt) {
		return nil, ErrExpired
	}
	if otc.Attempts >= MaxAttempts {
		return nil, ErrTooManyAttempts
	}

	// Count the attempt before comparing so a crash mid-validate can't
	// grant a free retry.
	if _, err := s.c.UpdateOne(ctx, bson.M{"_id": otc.ID}, bson.M{"$inc": bson.M{"attempts": 1}}); err != nil {
		return nil, fmt.Errorf("count attempt: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(otc.CodeHash), []byte(code)); err != nil {
		return nil, ErrMismatch
	}

	if _, err := s.c.DeleteOne(ctx, bson.M{"_id": otc.ID}); err != nil {
		return nil, fmt.Errorf("consume code: %w", err)
	}
	return &otc, nil
}

// DeleteByEmail removes all codes for the email.
func (s *Store) DeleteByEmail(ctx context.Context, email string) error {
	_, err := s.c.DeleteMany(ctx, bson.M{"email": email})
	return err
}

// DeleteExpired removes codes past their expiry. The TTL index does
// this in the background; the hourly sweep is a backstop.
func (s *Store) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lt": time.Now()}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// generateCode produces a random 6-digit code (100000 to 999999).
// Panics if the system's cryptographic random number generator fails.
func generateCode() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand.Read failed: " + err.Error())
	}
	n := int(b[0])<<24 | int(b[1])<<16 | int(b[2])<<8 | int(b[3])
	if n < 0 {
		n = -n
	}
	code := (n % 900000) + 100000
	return fmt.Sprintf("%06d", code)
}
