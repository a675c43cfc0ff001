package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/clubworks/clubhub/internal/domain/models"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateMember inserts an active ordinary member with the given ID and
// name. No password; pair with CreateMemberWithPassword for login tests.
func (f *Fixtures) CreateMember(ctx context.Context, memberID, firstName, lastName string) models.Member {
	f.t.Helper()
	m := f.baseMember(memberID, firstName, lastName)
	f.insert(ctx, m)
	return m
}

// CreateMemberWithPassword inserts a member with email and a bcrypt
// password hash. MinCost keeps the suite fast; production uses a
// higher cost.
func (f *Fixtures) CreateMemberWithPassword(ctx context.Context, memberID, email, plain string) models.Member {
	f.t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("hash fixture password: %v", err)
	}
	m := f.baseMember(memberID, "Test", "Member")
	m.Email = email
	m.PasswordHash = string(hash)
	f.insert(ctx, m)
	return m
}

// CreateGuest inserts an active guest member (T-series ID).
func (f *Fixtures) CreateGuest(ctx context.Context, memberID, email string) models.Member {
	f.t.Helper()
	m := f.baseMember(memberID, "Guest", "User")
	m.MemberType = models.TypeGuest
	m.Email = email
	f.insert(ctx, m)
	return m
}

// CreateInactiveMember inserts a deactivated but not deleted member.
func (f *Fixtures) CreateInactiveMember(ctx context.Context, memberID string) models.Member {
	f.t.Helper()
	m := f.baseMember(memberID, "Dormant", "Member")
	m.IsActive = false
	f.insert(ctx, m)
	return m
}

// CreateDeletedMember inserts a soft-deleted member.
func (f *Fixtures) CreateDeletedMember(ctx context.Context, memberID string) models.Member {
	f.t.Helper()
	m := f.baseMember(memberID, "Gone", "Member")
	m.IsDeleted = true
	m.IsActive = false
	f.insert(ctx, m)
	return m
}

func (f *Fixtures) baseMember(memberID, firstName, lastName string) models.Member {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return models.Member{
		ID:          primitive.NewObjectID(),
		MemberID:    memberID,
		MemberType:  models.TypeOrdinary,
		FirstName:   firstName,
		LastName:    lastName,
		FirstNameCI: text.Fold(firstName),
		LastNameCI:  text.Fold(lastName),
		MemberRole:  "member",
		JoinDate:    now,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (f *Fixtures) insert(ctx context.Context, m models.Member) {
	f.t.Helper()
	if _, err := f.db.Collection("members").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("insert fixture member: %v", err)
	}
}
