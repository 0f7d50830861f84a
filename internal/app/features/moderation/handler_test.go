package moderation_test

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	uierrors "github.com/dalemusser/rishtahub/internal/app/features/errors"
	"github.com/dalemusser/rishtahub/internal/app/features/moderation"
	profilestore "github.com/dalemusser/rishtahub/internal/app/store/profiles"
	"github.com/dalemusser/rishtahub/internal/app/system/auditlog"
	"github.com/dalemusser/rishtahub/internal/testutil"
	"github.com/dalemusser/rishtahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*moderation.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	errLog := uierrors.NewErrorLogger(logger)
	return moderation.NewHandler(db, errLog, auditlog.NewNopLogger(), logger), db
}

func TestNewHandler(t *testing.T) {
	h, _ := newTestHandler(t)
	if h == nil {
		t.Fatal("NewHandler() returned nil")
	}
}

func TestHandleApprove_PublishesProfile(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	owner := fx.CreateUser(ctx, "Queue Owner", "owner@example.com")
	p := fx.CreateProfile(ctx, owner.ID, models.StatusSubmitted)
	admin := testutil.AdminUser()

	req := testutil.NewAuthenticatedRequest("POST", "/admin/moderation/"+p.ID.Hex()+"/approve", admin)
	req = testutil.WithChiURLParam(req, "id", p.ID.Hex())
	rec := httptest.NewRecorder()

	handler.HandleApprove(rec, req)

	if rec.Code != 303 {
		t.Fatalf("expected 303, got %d", rec.Code)
	}

	got, err := profilestore.New(db).GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if got.Status != models.StatusApproved {
		t.Errorf("status: got %q, want approved", got.Status)
	}
	if !got.Published {
		t.Error("approval must publish the profile")
	}
	if got.ReviewedByID == nil {
		t.Error("approval must record the reviewer")
	}
}

func TestHandleReject_RequiresReason(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	owner := fx.CreateUser(ctx, "Queue Owner", "owner@example.com")
	p := fx.CreateProfile(ctx, owner.ID, models.StatusSubmitted)
	admin := testutil.AdminUser()

	form := url.Values{"reason": {"   "}}
	req := httptest.NewRequest("POST", "/admin/moderation/"+p.ID.Hex()+"/reject", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = testutil.WithUser(req, admin)
	req = testutil.WithChiURLParam(req, "id", p.ID.Hex())
	rec := httptest.NewRecorder()

	func() {
		defer func() {
			if r := recover(); r != nil {
			}
		}()
		handler.HandleReject(rec, req)
	}()

	got, err := profilestore.New(db).GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if got.Status == models.StatusRejected {
		t.Error("a blank reason must not reject the profile")
	}
}

func TestHandleReject_SetsReasonAndUnpublishes(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	owner := fx.CreateUser(ctx, "Queue Owner", "owner@example.com")
	p := fx.CreateProfile(ctx, owner.ID, models.StatusApproved)
	admin := testutil.AdminUser()

	form := url.Values{"reason": {"Photos do not meet guidelines"}}
	req := httptest.NewRequest("POST", "/admin/moderation/"+p.ID.Hex()+"/reject", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = testutil.WithUser(req, admin)
	req = testutil.WithChiURLParam(req, "id", p.ID.Hex())
	rec := httptest.NewRecorder()

	handler.HandleReject(rec, req)

	if rec.Code != 303 {
		t.Fatalf("expected 303, got %d", rec.Code)
	}

	got, err := profilestore.New(db).GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if got.Status != models.StatusRejected {
		t.Errorf("status: got %q, want rejected", got.Status)
	}
	if got.Published {
		t.Error("rejection must unpublish the profile")
	}
	if got.RejectionReason != "Photos do not meet guidelines" {
		t.Errorf("reason: got %q", got.RejectionReason)
	}
}

func TestHandleTogglePublish_NotApproved(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	owner := fx.CreateUser(ctx, "Queue Owner", "owner@example.com")
	p := fx.CreateProfile(ctx, owner.ID, models.StatusSubmitted)
	admin := testutil.AdminUser()

	req := testutil.NewAuthenticatedRequest("POST", "/admin/moderation/"+p.ID.Hex()+"/publish", admin)
	req = testutil.WithChiURLParam(req, "id", p.ID.Hex())
	rec := httptest.NewRecorder()

	func() {
		defer func() {
			if r := recover(); r != nil {
			}
		}()
		handler.HandleTogglePublish(rec, req)
	}()

	got, err := profilestore.New(db).GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if got.Published {
		t.Error("publish toggle must be refused for non-approved profiles")
	}
}

func TestHandleTogglePublish_FlipsFlag(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	owner := fx.CreateUser(ctx, "Queue Owner", "owner@example.com")
	p := fx.CreateProfile(ctx, owner.ID, models.StatusApproved) // published=true
	admin := testutil.AdminUser()

	req := testutil.NewAuthenticatedRequest("POST", "/admin/moderation/"+p.ID.Hex()+"/publish", admin)
	req = testutil.WithChiURLParam(req, "id", p.ID.Hex())
	rec := httptest.NewRecorder()

	handler.HandleTogglePublish(rec, req)

	if rec.Code != 303 {
		t.Fatalf("expected 303, got %d", rec.Code)
	}

	got, err := profilestore.New(db).GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if got.Published {
		t.Error("toggle should have unpublished the profile")
	}
	if got.Status != models.StatusApproved {
		t.Errorf("status must stay approved, got %q", got.Status)
	}
}
