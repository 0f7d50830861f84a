package myprofile_test

import (
	"net/http/httptest"
	"testing"

	uierrors "github.com/dalemusser/rishtahub/internal/app/features/errors"
	"github.com/dalemusser/rishtahub/internal/app/features/myprofile"
	"github.com/dalemusser/rishtahub/internal/app/system/auth"
	"github.com/dalemusser/rishtahub/internal/domain/models"
	"github.com/dalemusser/rishtahub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*myprofile.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	errLog := uierrors.NewErrorLogger(logger)
	return myprofile.NewHandler(db, nil, "/media", errLog, logger), db
}

func TestNewHandler(t *testing.T) {
	h, _ := newTestHandler(t)
	if h == nil {
		t.Fatal("NewHandler() returned nil")
	}
}

func TestServeMine_Unauthenticated(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest("GET", "/myprofile", nil)
	rec := httptest.NewRecorder()

	func() {
		defer func() {
			if r := recover(); r != nil {
			}
		}()
		handler.ServeMine(rec, req)
	}()

	if rec.Code == 200 && rec.Body.Len() == 0 {
		t.Error("unauthenticated request should not serve the profile page")
	}
}

func TestServeMine_NoProfileRedirectsToNew(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	user := fx.CreatePaidUser(ctx, "No Profile Yet", "new@example.com")

	req := httptest.NewRequest("GET", "/myprofile", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{
		ID: user.ID.Hex(), Name: user.FullName, LoginID: user.Email, Role: "user", Paid: true,
	})
	rec := httptest.NewRecorder()

	handler.ServeMine(rec, req)

	if rec.Code != 303 {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/myprofile/new" {
		t.Errorf("redirect location: got %q, want /myprofile/new", loc)
	}
}

func TestServeNewForm_UnpaidRedirectsToPayments(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	user := fx.CreateUser(ctx, "Unpaid User", "unpaid@example.com")

	req := httptest.NewRequest("GET", "/myprofile/new", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{
		ID: user.ID.Hex(), Name: user.FullName, LoginID: user.Email, Role: "user", Paid: false,
	})
	rec := httptest.NewRecorder()

	handler.ServeNewForm(rec, req)

	if rec.Code != 303 {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/payments?notice=listing_fee" {
		t.Errorf("redirect location: got %q", loc)
	}
}

func TestServeNewForm_ExistingProfileRedirectsToEdit(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	user := fx.CreatePaidUser(ctx, "Has Profile", "has@example.com")
	fx.CreateProfile(ctx, user.ID, models.StatusSubmitted)

	req := httptest.NewRequest("GET", "/myprofile/new", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{
		ID: user.ID.Hex(), Name: user.FullName, LoginID: user.Email, Role: "user", Paid: true,
	})
	rec := httptest.NewRecorder()

	handler.ServeNewForm(rec, req)

	if rec.Code != 303 {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/myprofile/edit" {
		t.Errorf("redirect location: got %q, want /myprofile/edit", loc)
	}
}
