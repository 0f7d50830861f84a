package userstore_test

import (
	"errors"
	"testing"

	userstore "github.com/dalemusser/rishtahub/internal/app/store/users"
	"github.com/dalemusser/rishtahub/internal/domain/models"
	"github.com/dalemusser/rishtahub/internal/testutil"
)

func testUser(email string) models.User {
	hash := "$2a$12$fakefakefakefakefakefakefakefakefakefakefakefakefakef"
	return models.User{
		FullName:     "  Imran   Ahmed  ",
		Email:        email,
		PasswordHash: &hash,
		AuthMethod:   "password",
	}
}

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.Create(ctx, testUser("  Imran@Example.COM "))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if u.FullName != "Imran Ahmed" {
		t.Errorf("full name not normalized: got %q", u.FullName)
	}
	if u.Email != "imran@example.com" {
		t.Errorf("email not normalized: got %q", u.Email)
	}
	if u.Role != "user" {
		t.Errorf("default role: got %q, want user", u.Role)
	}
	if u.Status != "active" {
		t.Errorf("default status: got %q, want active", u.Status)
	}
	if u.Paid {
		t.Error("a new user must be unpaid")
	}
}

func TestStore_Create_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, testUser("dup@example.com")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Same address in a different case still collides.
	_, err := store.Create(ctx, testUser("DUP@example.com"))
	if !errors.Is(err, userstore.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestStore_Create_BadRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := testUser("role@example.com")
	u.Role = "superuser"

	if _, err := store.Create(ctx, u); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestStore_GetByEmail_CaseInsensitive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, testUser("lookup@example.com"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.GetByEmail(ctx, "LOOKUP@Example.com")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if got.ID != created.ID {
		t.Error("case-insensitive lookup must find the user")
	}
}

func TestStore_MarkPaid_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.Create(ctx, testUser("paid@example.com"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.MarkPaid(ctx, u.ID); err != nil {
		t.Fatalf("MarkPaid failed: %v", err)
	}
	if err := store.MarkPaid(ctx, u.ID); err != nil {
		t.Fatalf("second MarkPaid failed: %v", err)
	}

	got, err := store.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !got.Paid {
		t.Error("expected paid flag to be set")
	}
}

func TestStore_ListUnpaidIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	unpaid, err := store.Create(ctx, testUser("unpaid@example.com"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	paid, err := store.Create(ctx, testUser("haspaid@example.com"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.MarkPaid(ctx, paid.ID); err != nil {
		t.Fatalf("MarkPaid failed: %v", err)
	}

	ids, err := store.ListUnpaidIDs(ctx)
	if err != nil {
		t.Fatalf("ListUnpaidIDs failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != unpaid.ID {
		t.Errorf("expected only the unpaid user, got %v", ids)
	}
}

func TestFetcher_FetchSessionUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fetcher := userstore.NewFetcher(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.Create(ctx, testUser("session@example.com"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.MarkPaid(ctx, u.ID); err != nil {
		t.Fatalf("MarkPaid failed: %v", err)
	}

	su, err := fetcher.FetchSessionUser(ctx, u.ID.Hex())
	if err != nil {
		t.Fatalf("FetchSessionUser failed: %v", err)
	}
	if su == nil {
		t.Fatal("expected a session user")
	}
	if su.ID != u.ID.Hex() {
		t.Errorf("ID: got %q", su.ID)
	}
	if !su.Paid {
		t.Error("session user must carry the fresh paid flag")
	}
}

func TestFetcher_FetchSessionUser_Disabled(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fetcher := userstore.NewFetcher(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := testUser("disabled@example.com")
	u.Status = "disabled"
	created, err := store.Create(ctx, u)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	su, err := fetcher.FetchSessionUser(ctx, created.ID.Hex())
	if err != nil {
		t.Fatalf("FetchSessionUser failed: %v", err)
	}
	if su != nil {
		t.Error("a disabled account must resolve to no session user")
	}
}

func TestFetcher_FetchSessionUser_BadID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fetcher := userstore.NewFetcher(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	su, err := fetcher.FetchSessionUser(ctx, "not-a-hex-id")
	if err != nil {
		t.Fatalf("FetchSessionUser failed: %v", err)
	}
	if su != nil {
		t.Error("a malformed ID must resolve to no session user")
	}
}
