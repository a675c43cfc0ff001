package memberstore_test

import (
	"errors"
	"testing"

	memberstore "github.com/clubworks/clubhub/internal/app/store/members"
	"github.com/clubworks/clubhub/internal/app/system/indexes"
	"github.com/clubworks/clubhub/internal/app/system/memberid"
	"github.com/clubworks/clubhub/internal/domain/models"
	"github.com/clubworks/clubhub/internal/testutil"
)

func TestStore_Create_NormalizesFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Member{
		MemberID:   "0001",
		MemberType: models.TypeOrdinary,
		FirstName:  "  Jane ",
		LastName:   "Doe",
		Email:      " Jane.Doe@Example.COM ",
		Mobile:     "077-123 4567",
		MemberRole: "member",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.FirstName != "Jane" {
		t.Errorf("first name = %q, want Jane", created.FirstName)
	}
	if created.Email != "jane.doe@example.com" {
		t.Errorf("email = %q", created.Email)
	}
	if created.Mobile != "0771234567" {
		t.Errorf("mobile = %q", created.Mobile)
	}
	if created.LastNameCI != "doe" {
		t.Errorf("last_name_ci = %q", created.LastNameCI)
	}
	if created.CreatedAt.IsZero() || created.JoinDate.IsZero() {
		t.Error("timestamps not stamped")
	}
}

func TestStore_Create_RejectsBadMemberType(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Create(ctx, models.Member{
		MemberID:   "0001",
		MemberType: "platinum",
		FirstName:  "Jane",
		LastName:   "Doe",
	})
	if err == nil {
		t.Fatal("expected error for invalid member type")
	}
}

func TestStore_Create_DuplicateMemberID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db, indexes.Options{EnforceContactUniqueness: true}); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}
	store := memberstore.New(db)

	base := models.Member{
		MemberID:   "0007",
		MemberType: models.TypeOrdinary,
		FirstName:  "Jane",
		LastName:   "Doe",
		MemberRole: "member",
	}
	if _, err := store.Create(ctx, base); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	_, err := store.Create(ctx, base)
	if !errors.Is(err, memberstore.ErrDuplicateMemberID) {
		t.Fatalf("second Create = %v, want ErrDuplicateMemberID", err)
	}
}

func TestStore_Create_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db, indexes.Options{EnforceContactUniqueness: true}); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}
	store := memberstore.New(db)

	m := models.Member{
		MemberType: models.TypeOrdinary,
		FirstName:  "Jane",
		LastName:   "Doe",
		Email:      "jane@example.com",
		MemberRole: "member",
	}
	m.MemberID = "0001"
	if _, err := store.Create(ctx, m); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	m.MemberID = "0002"
	_, err := store.Create(ctx, m)
	if !errors.Is(err, memberstore.ErrDuplicateEmail) {
		t.Fatalf("second Create = %v, want ErrDuplicateEmail", err)
	}
}

func TestStore_GetByMemberID_HidesDeleted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateMember(ctx, "0010", "Jane", "Doe")
	fx.CreateDeletedMember(ctx, "0011")

	if _, err := store.GetByMemberID(ctx, "0010"); err != nil {
		t.Fatalf("GetByMemberID live: %v", err)
	}
	if _, err := store.GetByMemberID(ctx, "0011"); !errors.Is(err, memberstore.ErrNotFound) {
		t.Fatalf("GetByMemberID deleted = %v, want ErrNotFound", err)
	}
	if _, err := store.GetByMemberID(ctx, "9999"); !errors.Is(err, memberstore.ErrNotFound) {
		t.Fatalf("GetByMemberID absent = %v, want ErrNotFound", err)
	}
}

func TestStore_FindByLoginID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	m := fx.CreateMemberWithPassword(ctx, "0021", "jane@example.com", "pw")

	for _, loginID := range []string{"0021", "jane@example.com", "JANE@example.com"} {
		got, err := store.FindByLoginID(ctx, loginID)
		if err != nil {
			t.Fatalf("FindByLoginID(%q): %v", loginID, err)
		}
		if got.ID != m.ID {
			t.Errorf("FindByLoginID(%q) found wrong member", loginID)
		}
	}

	if _, err := store.FindByLoginID(ctx, "unknown"); !errors.Is(err, memberstore.ErrNotFound) {
		t.Fatalf("FindByLoginID unknown = %v, want ErrNotFound", err)
	}
}

func TestStore_List_ExcludesDeletedByDefault(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateMember(ctx, "0030", "Alice", "Adams")
	fx.CreateMember(ctx, "0031", "Bob", "Brown")
	fx.CreateDeletedMember(ctx, "0032")

	got, err := store.List(ctx, memberstore.ListOptions{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("List returned %d members, want 2", len(got))
	}
	if got[0].LastName != "Adams" || got[1].LastName != "Brown" {
		t.Errorf("List order wrong: %s, %s", got[0].LastName, got[1].LastName)
	}

	all, err := store.List(ctx, memberstore.ListOptions{IncludeDeleted: true})
	if err != nil {
		t.Fatalf("List include_deleted: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("List with deleted returned %d, want 3", len(all))
	}
}

func TestStore_List_ExcludesInactiveByDefault(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateMember(ctx, "0035", "Alice", "Adams")
	fx.CreateInactiveMember(ctx, "0036")

	got, err := store.List(ctx, memberstore.ListOptions{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].MemberID != "0035" {
		t.Fatalf("List returned %d members, want only the active one", len(got))
	}

	// The retention pathway re-admits deactivated members too.
	all, err := store.List(ctx, memberstore.ListOptions{IncludeDeleted: true})
	if err != nil {
		t.Fatalf("List include_deleted: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("List with retention returned %d, want 2", len(all))
	}
}

func TestStore_Search(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateMember(ctx, "0040", "Alice", "Adams")
	fx.CreateMember(ctx, "0041", "Bob", "Brown")

	byName, err := store.Search(ctx, "ali", memberstore.ListOptions{})
	if err != nil {
		t.Fatalf("Search by name: %v", err)
	}
	if len(byName) != 1 || byName[0].FirstName != "Alice" {
		t.Errorf("Search(ali) = %d results", len(byName))
	}

	byID, err := store.Search(ctx, "0041", memberstore.ListOptions{})
	if err != nil {
		t.Fatalf("Search by id: %v", err)
	}
	if len(byID) != 1 || byID[0].MemberID != "0041" {
		t.Errorf("Search(0041) = %d results", len(byID))
	}
}

func TestStore_Search_SubstringAndAddress(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateMember(ctx, "0045", "Joanne", "Park")
	if _, err := store.Create(ctx, models.Member{
		MemberID:   "0046",
		MemberType: models.TypeOrdinary,
		FirstName:  "Bob",
		LastName:   "Brown",
		Address:    []string{"12 Galle Road", "Colombo"},
		MemberRole: "member",
		IsActive:   true,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// A name query matches mid-string, not just as a prefix.
	got, err := store.Search(ctx, "anne", memberstore.ListOptions{})
	if err != nil {
		t.Fatalf("Search mid-string: %v", err)
	}
	if len(got) != 1 || got[0].FirstName != "Joanne" {
		t.Errorf("Search(anne) = %d results, want Joanne", len(got))
	}

	// Address lines are searchable, case-insensitively.
	got, err = store.Search(ctx, "galle", memberstore.ListOptions{})
	if err != nil {
		t.Fatalf("Search address: %v", err)
	}
	if len(got) != 1 || got[0].MemberID != "0046" {
		t.Errorf("Search(galle) = %d results, want the Galle Road member", len(got))
	}
}

func TestStore_UpdateByMemberID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	m := fx.CreateMember(ctx, "0050", "Jane", "Doe")

	err := store.UpdateByMemberID(ctx, "0050", memberstore.Update{
		MemberType: models.TypeLife,
		FirstName:  "Janet",
		LastName:   "Doe",
		Email:      "Janet@Example.com",
		MemberRole: "treasurer",
		JoinDate:   m.JoinDate,
		IsActive:   true,
	})
	if err != nil {
		t.Fatalf("UpdateByMemberID: %v", err)
	}

	got, err := store.GetByMemberID(ctx, "0050")
	if err != nil {
		t.Fatal(err)
	}
	if got.FirstName != "Janet" || got.MemberType != models.TypeLife {
		t.Errorf("update not applied: %+v", got)
	}
	if got.Email != "janet@example.com" {
		t.Errorf("email not normalized: %q", got.Email)
	}
	if got.FirstNameCI != "janet" {
		t.Errorf("first_name_ci not refreshed: %q", got.FirstNameCI)
	}

	err = store.UpdateByMemberID(ctx, "9999", memberstore.Update{
		MemberType: models.TypeOrdinary,
	})
	if !errors.Is(err, memberstore.ErrNotFound) {
		t.Fatalf("update absent = %v, want ErrNotFound", err)
	}
}

func TestStore_SetPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateMember(ctx, "0060", "Jane", "Doe")
	if err := store.SetPassword(ctx, "0060", "$2a$10$fakehash"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	got, err := store.GetByMemberID(ctx, "0060")
	if err != nil {
		t.Fatal(err)
	}
	if got.PasswordHash != "$2a$10$fakehash" {
		t.Error("password hash not stored")
	}
	if err := store.SetPassword(ctx, "9999", "x"); !errors.Is(err, memberstore.ErrNotFound) {
		t.Fatalf("SetPassword absent = %v, want ErrNotFound", err)
	}
}

func TestStore_SoftDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateMember(ctx, "0070", "Jane", "Doe")
	if err := store.SoftDelete(ctx, "0070"); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}
	if _, err := store.GetByMemberID(ctx, "0070"); !errors.Is(err, memberstore.ErrNotFound) {
		t.Fatal("deleted member still visible")
	}
	// Second delete of the same member reports not found.
	if err := store.SoftDelete(ctx, "0070"); !errors.Is(err, memberstore.ErrNotFound) {
		t.Fatalf("second SoftDelete = %v, want ErrNotFound", err)
	}
}

func TestStore_HighestMemberID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Empty sequences.
	got, err := store.HighestMemberID(ctx, memberid.Regular)
	if err != nil {
		t.Fatalf("HighestMemberID empty: %v", err)
	}
	if got != "" {
		t.Errorf("empty sequence = %q, want \"\"", got)
	}

	fx.CreateMember(ctx, "0002", "A", "A")
	fx.CreateMember(ctx, "0010", "B", "B")
	fx.CreateGuest(ctx, "T003", "g@example.com")
	// Deleted members still hold their IDs.
	fx.CreateDeletedMember(ctx, "0044")

	got, err = store.HighestMemberID(ctx, memberid.Regular)
	if err != nil {
		t.Fatal(err)
	}
	if got != "0044" {
		t.Errorf("regular highest = %q, want 0044", got)
	}

	got, err = store.HighestMemberID(ctx, memberid.Guest)
	if err != nil {
		t.Fatal(err)
	}
	if got != "T003" {
		t.Errorf("guest highest = %q, want T003", got)
	}
}

func TestStore_HighestMemberID_WidenedBeatsLexical(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateMember(ctx, "9999", "A", "A")
	fx.CreateMember(ctx, "10000", "B", "B")

	got, err := store.HighestMemberID(ctx, memberid.Regular)
	if err != nil {
		t.Fatal(err)
	}
	if got != "10000" {
		t.Errorf("highest = %q, want 10000", got)
	}
}
