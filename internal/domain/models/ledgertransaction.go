// internal/domain/models/ledgertransaction.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LedgerTransaction is one entry in the club's simple ledger.
// TransactionID is a UUID assigned at creation and used in URLs;
// AccountID groups entries by ledger account.
type LedgerTransaction struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TransactionID   string             `bson:"transaction_id" json:"transaction_id"`
	AccountID       string             `bson:"account_id" json:"account_id"`
	TransactionType string             `bson:"transaction_type" json:"transaction_type"` // voucher | receipt
	TrxBookNo       string             `bson:"trx_book_no,omitempty" json:"trx_book_no,omitempty"`
	TrxReference    string             `bson:"trx_reference,omitempty" json:"trx_reference,omitempty"`
	Amount          int64              `bson:"amount" json:"amount"` // cents
	Description     string             `bson:"description,omitempty" json:"description,omitempty"`
	Date            time.Time          `bson:"date" json:"date"`
	CreatedBy       string             `bson:"created_by,omitempty" json:"created_by,omitempty"` // member_id

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
