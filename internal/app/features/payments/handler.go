// internal/app/features/payments/handler.go
package payments

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/rishtahub/internal/app/features/errors"
	paymentstore "github.com/dalemusser/rishtahub/internal/app/store/payments"
	userstore "github.com/dalemusser/rishtahub/internal/app/store/users"
	"github.com/dalemusser/rishtahub/internal/app/system/auditlog"
	"github.com/dalemusser/rishtahub/internal/app/system/authz"
	"github.com/dalemusser/rishtahub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/rishtahub/internal/app/system/inputval"
	"github.com/dalemusser/rishtahub/internal/app/system/timeouts"
	"github.com/dalemusser/rishtahub/internal/app/system/viewdata"
	"github.com/dalemusser/rishtahub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// listingFee is the flat listing fee in PKR minor units (paisa).
const listingFee int64 = 150000

// Handler serves the member payment pages: submit a listing-fee payment
// record and cancel it while still pending.
type Handler struct {
	DB       *mongo.Database
	Payments *paymentstore.Store
	Users    *userstore.Store
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Payments: paymentstore.New(db),
		Users:    userstore.New(db),
		ErrLog:   errLog,
		AuditLog: audit,
		Log:      logger,
	}
}

type paymentInput struct {
	Method    string `validate:"required,oneof=bank_transfer jazzcash easypaisa" label:"Payment method"`
	Reference string `validate:"required,max=120" label:"Transaction reference"`
}

type myPaymentsVM struct {
	viewdata.BaseVM
	Payments []models.Payment
	Methods  []string
	Error    string
	Notice   string
	IsPaid   bool
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /payments – own payment history + submit form                           |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	list, err := h.Payments.ListByUser(ctx, userID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list own payments failed", err, "A database error occurred.", "/")
		return
	}

	notice := ""
	if r.URL.Query().Get("notice") == "listing_fee" {
		notice = "Pay the listing fee to create your profile. Submit your transaction details below; an administrator will verify them."
	}

	templates.Render(w, r, "payments_mine", myPaymentsVM{
		BaseVM:   viewdata.NewBaseVM(r, "Payments", "/"),
		Payments: list,
		Methods:  inputval.PaymentMethodsList(),
		Notice:   notice,
		IsPaid:   authz.IsPaid(r),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /payments – submit a payment record (starts pending)                   |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/payments")
		return
	}

	in := paymentInput{
		Method:    strings.ToLower(strings.TrimSpace(r.FormValue("method"))),
		Reference: strings.TrimSpace(htmlsanitize.StripAll(r.FormValue("reference"))),
	}
	if res := inputval.Validate(in); res.HasErrors() {
		h.rerenderMine(w, r, userID, res.First())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.Payments.Create(ctx, models.Payment{
		UserID:    userID,
		Amount:    listingFee,
		Currency:  "PKR",
		Method:    in.Method,
		Reference: in.Reference,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create payment failed", err, "A database error occurred.", "/payments")
		return
	}

	h.Log.Info("payment submitted",
		zap.String("payment_id", created.ID.Hex()),
		zap.String("user_id", userID.Hex()),
		zap.String("method", created.Method))
	http.Redirect(w, r, "/payments", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /payments/{id}/cancel – cancel own pending payment                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.rerenderMine(w, r, userID, "That payment could not be cancelled.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, err := h.Payments.CancelOwn(ctx, id, userID)
	if errors.Is(err, paymentstore.ErrNotCancellable) {
		h.rerenderMine(w, r, userID, "That payment could not be cancelled.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "cancel payment failed", err, "A database error occurred.", "/payments")
		return
	}

	h.AuditLog.PaymentCancelled(ctx, r, userID, p.ID)
	h.Log.Info("payment cancelled by owner",
		zap.String("payment_id", p.ID.Hex()),
		zap.String("user_id", userID.Hex()))
	http.Redirect(w, r, "/payments", http.StatusSeeOther)
}

func (h *Handler) rerenderMine(w http.ResponseWriter, r *http.Request, userID primitive.ObjectID, msg string) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	list, err := h.Payments.ListByUser(ctx, userID)
	if err != nil {
		list = nil
	}

	templates.Render(w, r, "payments_mine", myPaymentsVM{
		BaseVM:   viewdata.NewBaseVM(r, "Payments", "/"),
		Payments: list,
		Methods:  inputval.PaymentMethodsList(),
		Error:    msg,
		IsPaid:   authz.IsPaid(r),
	})
}
