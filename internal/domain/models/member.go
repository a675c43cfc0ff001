// internal/domain/models/member.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Member types. Guests number in their own "T"-prefixed sequence;
// every other type shares the plain 4-digit sequence.
const (
	TypeGuest     = "guest"
	TypeOrdinary  = "ordinary"
	TypeLife      = "life"
	TypeAssociate = "associate"
	TypeHonorary  = "honorary"
	TypeOverseas  = "overseas"
)

// MemberTypes lists every accepted member type.
var MemberTypes = []string{
	TypeGuest, TypeOrdinary, TypeLife, TypeAssociate, TypeHonorary, TypeOverseas,
}

// IsValidMemberType reports whether t is one of the accepted member types.
func IsValidMemberType(t string) bool {
	for _, v := range MemberTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Member represents one club participant.
//
// MemberID is the human-readable identifier members actually use
// ("0001", "T014", ...). It is unique and immutable once assigned.
// PasswordHash is empty for accounts that authenticate only through
// Google; such accounts must never pass local login.
type Member struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MemberID   string             `bson:"member_id" json:"member_id"`
	MemberType string             `bson:"member_type" json:"member_type"`

	Title       string   `bson:"title,omitempty" json:"title,omitempty"`
	FirstName   string   `bson:"first_name" json:"first_name"`
	LastName    string   `bson:"last_name" json:"last_name"`
	FirstNameCI string   `bson:"first_name_ci" json:"-"` // lowercase, diacritics-stripped
	LastNameCI  string   `bson:"last_name_ci" json:"-"`
	Address     []string `bson:"address,omitempty" json:"address,omitempty"`
	Mobile      string   `bson:"mobile,omitempty" json:"mobile,omitempty"`
	Phone       string   `bson:"phone,omitempty" json:"phone,omitempty"`
	Email       string   `bson:"email,omitempty" json:"email,omitempty"`
	Image       []string `bson:"image,omitempty" json:"image,omitempty"`
	Notes       string   `bson:"notes,omitempty" json:"notes,omitempty"`
	InvitedBy   string   `bson:"invited_by,omitempty" json:"invited_by,omitempty"`

	JoinDate           time.Time `bson:"join_date" json:"join_date"`
	PeriodInSchoolFrom int       `bson:"period_in_school_from,omitempty" json:"period_in_school_from,omitempty"`
	PeriodInSchoolTo   int       `bson:"period_in_school_to,omitempty" json:"period_in_school_to,omitempty"`

	MemberRole   string `bson:"member_role" json:"member_role"`
	PasswordHash string `bson:"password,omitempty" json:"-"`

	IsActive  bool `bson:"is_active" json:"is_active"`
	IsDeleted bool `bson:"is_deleted" json:"is_deleted"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsFederatedOnly reports whether the account has no local password and
// therefore can only sign in through Google.
func (m *Member) IsFederatedOnly() bool {
	return m.PasswordHash == ""
}
