// internal/domain/models/bookreference.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Transaction types for book references and ledger transactions.
const (
	TrxVoucher = "voucher"
	TrxReceipt = "receipt"
)

// IsValidTrxType reports whether t is "voucher" or "receipt".
func IsValidTrxType(t string) bool {
	return t == TrxVoucher || t == TrxReceipt
}

// BookReference records which physical book a voucher or receipt number
// came from. (transaction_type, trx_book_no) is unique: the same book
// number cannot be registered twice for the same transaction type.
type BookReference struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TransactionType string             `bson:"transaction_type" json:"transaction_type"`
	TrxBookNo       string             `bson:"trx_book_no" json:"trx_book_no"`
	TrxReference    string             `bson:"trx_reference" json:"trx_reference"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
}
