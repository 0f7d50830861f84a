package payments_test

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	uierrors "github.com/dalemusser/rishtahub/internal/app/features/errors"
	"github.com/dalemusser/rishtahub/internal/app/features/payments"
	paymentstore "github.com/dalemusser/rishtahub/internal/app/store/payments"
	userstore "github.com/dalemusser/rishtahub/internal/app/store/users"
	"github.com/dalemusser/rishtahub/internal/app/system/auditlog"
	"github.com/dalemusser/rishtahub/internal/domain/models"
	"github.com/dalemusser/rishtahub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*payments.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	errLog := uierrors.NewErrorLogger(logger)
	return payments.NewHandler(db, errLog, auditlog.NewNopLogger(), logger), db
}

func asTestUser(u models.User) testutil.TestUser {
	return testutil.TestUser{
		ID:    u.ID.Hex(),
		Name:  u.FullName,
		Email: u.Email,
		Role:  u.Role,
		Paid:  u.Paid,
	}
}

func TestHandleSubmit_CreatesPendingPayment(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	user := fx.CreateUser(ctx, "Payer One", "payer@example.com")

	form := url.Values{"method": {"jazzcash"}, "reference": {"TX-20260901-001"}}
	req := httptest.NewRequest("POST", "/payments", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = testutil.WithUser(req, asTestUser(user))
	rec := httptest.NewRecorder()

	handler.HandleSubmit(rec, req)

	if rec.Code != 303 {
		t.Fatalf("expected 303, got %d", rec.Code)
	}

	list, err := paymentstore.New(db).ListByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListByUser() error: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 payment, got %d", len(list))
	}
	p := list[0]
	if p.Status != models.PaymentPending {
		t.Errorf("status: got %q, want pending", p.Status)
	}
	if p.Method != "jazzcash" {
		t.Errorf("method: got %q", p.Method)
	}
	if p.Reference != "TX-20260901-001" {
		t.Errorf("reference: got %q", p.Reference)
	}
	if p.Currency != "PKR" {
		t.Errorf("currency: got %q", p.Currency)
	}
}

func TestHandleSubmit_RejectsUnknownMethod(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	user := fx.CreateUser(ctx, "Payer Two", "payer2@example.com")

	form := url.Values{"method": {"paypal"}, "reference": {"TX-1"}}
	req := httptest.NewRequest("POST", "/payments", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = testutil.WithUser(req, asTestUser(user))
	rec := httptest.NewRecorder()

	func() {
		defer func() {
			if r := recover(); r != nil {
			}
		}()
		handler.HandleSubmit(rec, req)
	}()

	list, err := paymentstore.New(db).ListByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListByUser() error: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected no payments, got %d", len(list))
	}
}

func TestHandleCancel_PendingPayment(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	user := fx.CreateUser(ctx, "Payer Three", "payer3@example.com")
	p := fx.CreatePayment(ctx, user.ID, models.PaymentPending)

	req := testutil.NewAuthenticatedRequest("POST", "/payments/"+p.ID.Hex()+"/cancel", asTestUser(user))
	req = testutil.WithChiURLParam(req, "id", p.ID.Hex())
	rec := httptest.NewRecorder()

	handler.HandleCancel(rec, req)

	if rec.Code != 303 {
		t.Fatalf("expected 303, got %d", rec.Code)
	}

	got, err := paymentstore.New(db).GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if got.Status != models.PaymentCancelled {
		t.Errorf("status: got %q, want cancelled", got.Status)
	}
}

func TestHandleCancel_OtherUsersPayment(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	owner := fx.CreateUser(ctx, "Payment Owner", "owner@example.com")
	other := fx.CreateUser(ctx, "Other User", "other@example.com")
	p := fx.CreatePayment(ctx, owner.ID, models.PaymentPending)

	req := testutil.NewAuthenticatedRequest("POST", "/payments/"+p.ID.Hex()+"/cancel", asTestUser(other))
	req = testutil.WithChiURLParam(req, "id", p.ID.Hex())
	rec := httptest.NewRecorder()

	func() {
		defer func() {
			if r := recover(); r != nil {
			}
		}()
		handler.HandleCancel(rec, req)
	}()

	got, err := paymentstore.New(db).GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if got.Status != models.PaymentPending {
		t.Errorf("another user must not be able to cancel, status: got %q", got.Status)
	}
}

func TestHandleVerify_CompletedMarksUserPaid(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	user := fx.CreateUser(ctx, "Payer Four", "payer4@example.com")
	p := fx.CreatePayment(ctx, user.ID, models.PaymentPending)
	admin := testutil.AdminUser()

	form := url.Values{"status": {"completed"}, "notes": {"Matched bank statement"}}
	req := httptest.NewRequest("POST", "/admin/payments/"+p.ID.Hex()+"/verify", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = testutil.WithUser(req, admin)
	req = testutil.WithChiURLParam(req, "id", p.ID.Hex())
	rec := httptest.NewRecorder()

	handler.HandleVerify(rec, req)

	if rec.Code != 303 {
		t.Fatalf("expected 303, got %d", rec.Code)
	}

	got, err := paymentstore.New(db).GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if got.Status != models.PaymentCompleted {
		t.Errorf("status: got %q, want completed", got.Status)
	}
	if got.VerifiedByID == nil {
		t.Error("verification must record the admin")
	}
	if got.Notes != "Matched bank statement" {
		t.Errorf("notes: got %q", got.Notes)
	}

	u, err := userstore.New(db).GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if !u.Paid {
		t.Error("a completed payment must mark the user paid")
	}
}

func TestHandleVerify_FailedLeavesUserUnpaid(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	user := fx.CreateUser(ctx, "Payer Five", "payer5@example.com")
	p := fx.CreatePayment(ctx, user.ID, models.PaymentPending)
	admin := testutil.AdminUser()

	form := url.Values{"status": {"failed"}, "notes": {"No matching transfer"}}
	req := httptest.NewRequest("POST", "/admin/payments/"+p.ID.Hex()+"/verify", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = testutil.WithUser(req, admin)
	req = testutil.WithChiURLParam(req, "id", p.ID.Hex())
	rec := httptest.NewRecorder()

	handler.HandleVerify(rec, req)

	if rec.Code != 303 {
		t.Fatalf("expected 303, got %d", rec.Code)
	}

	u, err := userstore.New(db).GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if u.Paid {
		t.Error("a failed payment must not mark the user paid")
	}
}

func TestHandleVerify_RejectsUnknownStatus(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	user := fx.CreateUser(ctx, "Payer Six", "payer6@example.com")
	p := fx.CreatePayment(ctx, user.ID, models.PaymentPending)
	admin := testutil.AdminUser()

	form := url.Values{"status": {"refunded"}}
	req := httptest.NewRequest("POST", "/admin/payments/"+p.ID.Hex()+"/verify", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = testutil.WithUser(req, admin)
	req = testutil.WithChiURLParam(req, "id", p.ID.Hex())
	rec := httptest.NewRecorder()

	func() {
		defer func() {
			if r := recover(); r != nil {
			}
		}()
		handler.HandleVerify(rec, req)
	}()

	got, err := paymentstore.New(db).GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if got.Status != models.PaymentPending {
		t.Errorf("unknown status must not settle the payment, got %q", got.Status)
	}
}

func TestHandleVerify_AlreadySettled(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	user := fx.CreateUser(ctx, "Payer Seven", "payer7@example.com")
	p := fx.CreatePayment(ctx, user.ID, models.PaymentCompleted)
	admin := testutil.AdminUser()

	form := url.Values{"status": {"failed"}}
	req := httptest.NewRequest("POST", "/admin/payments/"+p.ID.Hex()+"/verify", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = testutil.WithUser(req, admin)
	req = testutil.WithChiURLParam(req, "id", p.ID.Hex())
	rec := httptest.NewRecorder()

	func() {
		defer func() {
			if r := recover(); r != nil {
			}
		}()
		handler.HandleVerify(rec, req)
	}()

	got, err := paymentstore.New(db).GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if got.Status != models.PaymentCompleted {
		t.Errorf("a settled payment must not change, got %q", got.Status)
	}
}
