package browse_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/rishtahub/internal/app/features/browse"
	uierrors "github.com/dalemusser/rishtahub/internal/app/features/errors"
	profilestore "github.com/dalemusser/rishtahub/internal/app/store/profiles"
	"github.com/dalemusser/rishtahub/internal/domain/models"
	"github.com/dalemusser/rishtahub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*browse.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	errLog := uierrors.NewErrorLogger(logger)
	return browse.NewHandler(db, errLog, logger), db
}

func TestNewHandler(t *testing.T) {
	h, _ := newTestHandler(t)
	if h == nil {
		t.Fatal("NewHandler() returned nil")
	}
}

func TestServeDetail_HiddenProfileIsNotFound(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	owner := fx.CreateUser(ctx, "Hidden Owner", "hidden@example.com")
	p := fx.CreateProfile(ctx, owner.ID, models.StatusSubmitted)

	req := httptest.NewRequest("GET", "/browse/"+p.ID.Hex(), nil)
	req = testutil.WithChiURLParam(req, "id", p.ID.Hex())
	rec := httptest.NewRecorder()

	func() {
		defer func() {
			if r := recover(); r != nil {
			}
		}()
		handler.ServeDetail(rec, req)
	}()

	if rec.Code == 200 {
		t.Error("a submitted profile must not be publicly viewable")
	}
}

func TestServeDetail_IncrementsViewCount(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	owner := fx.CreateUser(ctx, "Visible Owner", "visible@example.com")
	p := fx.CreateProfile(ctx, owner.ID, models.StatusApproved)

	req := httptest.NewRequest("GET", "/browse/"+p.ID.Hex(), nil)
	req = testutil.WithChiURLParam(req, "id", p.ID.Hex())
	rec := httptest.NewRecorder()

	func() {
		defer func() {
			if r := recover(); r != nil {
			}
		}()
		handler.ServeDetail(rec, req)
	}()

	got, err := profilestore.New(db).GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if got.ViewCount != 1 {
		t.Errorf("view count: got %d, want 1", got.ViewCount)
	}
}

func TestServeDetail_BadID(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest("GET", "/browse/not-an-id", nil)
	req = testutil.WithChiURLParam(req, "id", "not-an-id")
	rec := httptest.NewRecorder()

	func() {
		defer func() {
			if r := recover(); r != nil {
			}
		}()
		handler.ServeDetail(rec, req)
	}()

	if rec.Code == 200 {
		t.Error("a malformed profile ID must not resolve")
	}
}
