package ledger_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/clubworks/clubhub/internal/app/store/ledger"
	"github.com/clubworks/clubhub/internal/domain/models"
	"github.com/clubworks/clubhub/internal/testutil"
)

func TestStore_Create_AssignsUUID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ledger.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.LedgerTransaction{
		AccountID:       "general",
		TransactionType: models.TrxReceipt,
		Amount:          150000,
		Description:     "annual dues",
		CreatedBy:       "0001",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := uuid.Parse(created.TransactionID); err != nil {
		t.Errorf("transaction_id is not a UUID: %q", created.TransactionID)
	}
	if created.Date.IsZero() {
		t.Error("date not defaulted")
	}

	got, err := store.Get(ctx, created.TransactionID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Amount != 150000 {
		t.Errorf("amount = %d", got.Amount)
	}
}

func TestStore_Create_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ledger.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.LedgerTransaction{AccountID: "general", TransactionType: "transfer"}); err == nil {
		t.Error("expected error for bad transaction type")
	}
	if _, err := store.Create(ctx, models.LedgerTransaction{TransactionType: models.TrxReceipt}); err == nil {
		t.Error("expected error for missing account")
	}
}

func TestStore_List_Filters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ledger.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	day := func(d int) time.Time {
		return time.Date(2026, 8, d, 0, 0, 0, 0, time.UTC)
	}
	seed := []models.LedgerTransaction{
		{AccountID: "general", TransactionType: models.TrxReceipt, Amount: 100, Date: day(1)},
		{AccountID: "general", TransactionType: models.TrxVoucher, Amount: 40, Date: day(10)},
		{AccountID: "building", TransactionType: models.TrxReceipt, Amount: 500, Date: day(20)},
	}
	for _, tx := range seed {
		if _, err := store.Create(ctx, tx); err != nil {
			t.Fatal(err)
		}
	}

	general, err := store.List(ctx, ledger.ListOptions{AccountID: "general"})
	if err != nil {
		t.Fatalf("List account: %v", err)
	}
	if len(general) != 2 {
		t.Fatalf("general = %d entries, want 2", len(general))
	}
	// Newest first.
	if !general[0].Date.After(general[1].Date) {
		t.Error("expected newest-first order")
	}

	receipts, err := store.List(ctx, ledger.ListOptions{TransactionType: models.TrxReceipt})
	if err != nil {
		t.Fatal(err)
	}
	if len(receipts) != 2 {
		t.Errorf("receipts = %d, want 2", len(receipts))
	}

	window, err := store.List(ctx, ledger.ListOptions{From: day(5), To: day(15)})
	if err != nil {
		t.Fatal(err)
	}
	if len(window) != 1 || window[0].Amount != 40 {
		t.Errorf("window = %d entries", len(window))
	}
}

func TestStore_Update_And_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ledger.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.LedgerTransaction{
		AccountID:       "general",
		TransactionType: models.TrxVoucher,
		Amount:          100,
	})
	if err != nil {
		t.Fatal(err)
	}

	err = store.UpdateByTransactionID(ctx, created.TransactionID, ledger.Update{
		AccountID:       "building",
		TransactionType: models.TrxVoucher,
		Amount:          250,
		Description:     "roof repair",
		Date:            created.Date,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := store.Get(ctx, created.TransactionID)
	if err != nil {
		t.Fatal(err)
	}
	if got.AccountID != "building" || got.Amount != 250 {
		t.Errorf("update not applied: %+v", got)
	}

	if err := store.UpdateByTransactionID(ctx, uuid.NewString(), ledger.Update{
		AccountID: "x", TransactionType: models.TrxVoucher,
	}); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("update absent = %v, want ErrNotFound", err)
	}

	if err := store.Delete(ctx, created.TransactionID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, created.TransactionID); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatal("deleted transaction still readable")
	}
}

func TestStore_AccountBalance(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ledger.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	seed := []models.LedgerTransaction{
		{AccountID: "general", TransactionType: models.TrxReceipt, Amount: 1000},
		{AccountID: "general", TransactionType: models.TrxVoucher, Amount: 300},
		{AccountID: "other", TransactionType: models.TrxReceipt, Amount: 99},
	}
	for _, tx := range seed {
		if _, err := store.Create(ctx, tx); err != nil {
			t.Fatal(err)
		}
	}

	bal, err := store.AccountBalance(ctx, "general")
	if err != nil {
		t.Fatalf("AccountBalance: %v", err)
	}
	if bal != 700 {
		t.Errorf("balance = %d, want 700", bal)
	}

	empty, err := store.AccountBalance(ctx, "absent")
	if err != nil {
		t.Fatal(err)
	}
	if empty != 0 {
		t.Errorf("absent account balance = %d, want 0", empty)
	}
}
