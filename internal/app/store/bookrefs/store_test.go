package bookrefs_test

import (
	"errors"
	"testing"

	"github.com/clubworks/clubhub/internal/app/store/bookrefs"
	"github.com/clubworks/clubhub/internal/app/system/indexes"
	"github.com/clubworks/clubhub/internal/domain/models"
	"github.com/clubworks/clubhub/internal/testutil"
)

func TestStore_Create_And_Get(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := bookrefs.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.BookReference{
		TransactionType: models.TrxVoucher,
		TrxBookNo:       " V-101 ",
		TrxReference:    "2026 voucher book",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.TrxBookNo != "V-101" {
		t.Errorf("book no not trimmed: %q", created.TrxBookNo)
	}

	got, err := store.Get(ctx, models.TrxVoucher, "V-101")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.TrxReference != "2026 voucher book" {
		t.Errorf("reference = %q", got.TrxReference)
	}

	if _, err := store.Get(ctx, models.TrxReceipt, "V-101"); !errors.Is(err, bookrefs.ErrNotFound) {
		t.Fatalf("Get other type = %v, want ErrNotFound", err)
	}
}

func TestStore_Create_RejectsBadInput(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := bookrefs.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.BookReference{TransactionType: "invoice", TrxBookNo: "1"}); err == nil {
		t.Error("expected error for bad transaction type")
	}
	if _, err := store.Create(ctx, models.BookReference{TransactionType: models.TrxVoucher}); err == nil {
		t.Error("expected error for missing book number")
	}
}

func TestStore_Create_DuplicateWithinType(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db, indexes.Options{}); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}
	store := bookrefs.New(db)

	ref := models.BookReference{TransactionType: models.TrxVoucher, TrxBookNo: "7"}
	if _, err := store.Create(ctx, ref); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if _, err := store.Create(ctx, ref); !errors.Is(err, bookrefs.ErrDuplicate) {
		t.Fatalf("second Create = %v, want ErrDuplicate", err)
	}

	// Same book number under the other type is fine.
	ref.TransactionType = models.TrxReceipt
	if _, err := store.Create(ctx, ref); err != nil {
		t.Fatalf("other-type Create: %v", err)
	}
}

func TestStore_List_FiltersByType(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := bookrefs.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, ref := range []models.BookReference{
		{TransactionType: models.TrxVoucher, TrxBookNo: "1"},
		{TransactionType: models.TrxVoucher, TrxBookNo: "2"},
		{TransactionType: models.TrxReceipt, TrxBookNo: "1"},
	} {
		if _, err := store.Create(ctx, ref); err != nil {
			t.Fatal(err)
		}
	}

	all, err := store.List(ctx, "")
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("List all = %d, want 3", len(all))
	}

	vouchers, err := store.List(ctx, models.TrxVoucher)
	if err != nil {
		t.Fatalf("List vouchers: %v", err)
	}
	if len(vouchers) != 2 {
		t.Errorf("List vouchers = %d, want 2", len(vouchers))
	}

	if _, err := store.List(ctx, "invoice"); err == nil {
		t.Error("expected error for bad type filter")
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := bookrefs.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.BookReference{TransactionType: models.TrxReceipt, TrxBookNo: "9"}); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(ctx, models.TrxReceipt, "9"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, models.TrxReceipt, "9"); !errors.Is(err, bookrefs.ErrNotFound) {
		t.Fatalf("second Delete = %v, want ErrNotFound", err)
	}
}
