// internal/domain/models/otp.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OneTimeCode is a short-lived password-reset credential scoped to an
// email address. The code itself is stored bcrypt-hashed; the plain
// value only ever leaves the service inside the reset email.
type OneTimeCode struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Email     string             `bson:"email"`
	MemberID  string             `bson:"member_id,omitempty"`
	Mobile    string             `bson:"mobile,omitempty"`
	CodeHash  string             `bson:"code_hash"`
	ExpiresAt time.Time          `bson:"expires_at"` // TTL index field
	CreatedAt time.Time          `bson:"created_at"`
	Attempts  int                `bson:"attempts"`
}
