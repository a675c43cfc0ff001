// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Options controls index shape where observed deployments drifted.
type Options struct {
	// EnforceContactUniqueness makes email and mobile unique (sparse)
	// across members. When false the indexes are kept for lookups but
	// allow duplicates.
	EnforceContactUniqueness bool
}

// EnsureAll reconciles every collection's indexes at startup. Each
// ensure step is idempotent; errors are aggregated so a single bad
// index doesn't hide the rest and startup can fail fast.
func EnsureAll(ctx context.Context, db *mongo.Database, opts Options) error {
	var problems []string

	if err := ensureMembers(ctx, db, opts); err != nil {
		problems = append(problems, "members: "+err.Error())
	}
	if err := ensureOneTimeCodes(ctx, db); err != nil {
		problems = append(problems, "one_time_codes: "+err.Error())
	}
	if err := ensureBookReferences(ctx, db); err != nil {
		problems = append(problems, "book_references: "+err.Error())
	}
	if err := ensureLedgerTransactions(ctx, db); err != nil {
		problems = append(problems, "ledger_transactions: "+err.Error())
	}
	if err := ensureLoginRecords(ctx, db); err != nil {
		problems = append(problems, "login_records: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// ensureIndexSet creates each desired index, tolerating the
// already-exists shapes Mongo and DocumentDB report. An
// IndexOptionsConflict (same keys, different name or options) is
// resolved by dropping the existing index and recreating.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string
	for _, m := range models {
		name := ""
		if m.Options != nil && m.Options.Name != nil {
			name = *m.Options.Name
		}
		start := time.Now()

		_, err := coll.Indexes().CreateOne(ctx, m)
		if err != nil && isOptionsConflict(err) {
			if _, dropErr := coll.Indexes().DropOne(ctx, name); dropErr != nil {
				zap.L().Warn("drop conflicting index failed",
					zap.String("collection", coll.Name()),
					zap.String("name", name),
					zap.Error(dropErr))
			}
			_, err = coll.Indexes().CreateOne(ctx, m)
		}
		if err != nil {
			errs = append(errs, coll.Name()+"("+name+"): "+err.Error())
			continue
		}
		zap.L().Info("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("took", time.Since(start).String()))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func isOptionsConflict(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "IndexOptionsConflict") ||
		strings.Contains(s, "IndexKeySpecsConflict")
}

func ensureMembers(ctx context.Context, db *mongo.Database, opts Options) error {
	c := db.Collection("members")

	models := []mongo.IndexModel{
		// member_id uniqueness is the backstop for the allocator's
		// read-then-write race: concurrent registrations computing the
		// same next ID fail here and retry allocation.
		{
			Keys:    bson.D{{Key: "member_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_members_member_id"),
		},
		// List pages: non-deleted actives ordered by folded name.
		{
			Keys: bson.D{
				{Key: "is_deleted", Value: 1},
				{Key: "is_active", Value: 1},
				{Key: "last_name_ci", Value: 1},
				{Key: "_id", Value: 1},
			},
			Options: options.Index().SetName("idx_members_deleted_active_lastnameci_id"),
		},
	}

	contact := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().
				SetSparse(true).
				SetUnique(opts.EnforceContactUniqueness).
				SetName("idx_members_email"),
		},
		{
			Keys: bson.D{{Key: "mobile", Value: 1}},
			Options: options.Index().
				SetSparse(true).
				SetUnique(opts.EnforceContactUniqueness).
				SetName("idx_members_mobile"),
		},
	}

	return ensureIndexSet(ctx, c, append(models, contact...))
}

func ensureOneTimeCodes(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("one_time_codes")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Scope lookup, newest first.
		{
			Keys:    bson.D{{Key: "email", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_otps_email_created"),
		},
		// TTL cleanup. Expiry is still checked explicitly at validation
		// time; this only reaps stale documents in the background.
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0).SetName("idx_otps_expires_ttl"),
		},
	})
}

func ensureBookReferences(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("book_references")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// A voucher book number and a receipt book number may coincide;
		// within one transaction type the book number is unique.
		{
			Keys:    bson.D{{Key: "transaction_type", Value: 1}, {Key: "trx_book_no", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_bookrefs_type_bookno"),
		},
	})
}

func ensureLedgerTransactions(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("ledger_transactions")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "transaction_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_ledger_transaction_id"),
		},
		{
			Keys:    bson.D{{Key: "account_id", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index().SetName("idx_ledger_account_date"),
		},
	})
}

func ensureLoginRecords(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("login_records")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "member_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_logins_member_created"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_logins_created"),
		},
	})
}
