// internal/app/features/payments/admin.go
package payments

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/rishtahub/internal/app/features/errors"
	paymentstore "github.com/dalemusser/rishtahub/internal/app/store/payments"
	"github.com/dalemusser/rishtahub/internal/app/system/authz"
	"github.com/dalemusser/rishtahub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/rishtahub/internal/app/system/paging"
	"github.com/dalemusser/rishtahub/internal/app/system/timeouts"
	"github.com/dalemusser/rishtahub/internal/app/system/viewdata"
	"github.com/dalemusser/rishtahub/internal/app/system/workers"
	"github.com/dalemusser/rishtahub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// adminStatuses are the list filters the verification queue accepts.
var adminStatuses = map[string]bool{
	models.PaymentPending:   true,
	models.PaymentCompleted: true,
	models.PaymentFailed:    true,
	models.PaymentCancelled: true,
	"all":                   true,
}

// verifyStatuses are the terminal states an admin may assign.
var verifyStatuses = map[string]bool{
	models.PaymentCompleted: true,
	models.PaymentFailed:    true,
	models.PaymentCancelled: true,
}

type adminListVM struct {
	viewdata.BaseVM
	Payments []models.Payment
	Status   string
	Nav      paging.Nav
	Error    string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/payments – verification queue                                    |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeAdminList(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if !adminStatuses[status] {
		status = models.PaymentPending
	}
	filter := status
	if filter == "all" {
		filter = ""
	}
	page := paging.ParsePage(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	list, total, err := h.Payments.List(ctx, filter, page)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list payments failed", err, "A database error occurred.", "/admin/payments")
		return
	}

	templates.Render(w, r, "payments_admin", adminListVM{
		BaseVM:   viewdata.NewBaseVM(r, "Payment Verification", "/"),
		Payments: list,
		Status:   status,
		Nav:      paging.NewNav(page, total),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/payments/{id}/verify – settle a pending payment                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	_, _, adminID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/admin/payments")
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad payment id", err, "Invalid payment ID.", "/admin/payments")
		return
	}

	status := strings.ToLower(strings.TrimSpace(r.FormValue("status")))
	notes := strings.TrimSpace(htmlsanitize.StripAll(r.FormValue("notes")))
	if !verifyStatuses[status] {
		h.rerenderAdmin(w, r, "Choose completed, failed, or cancelled.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, err := h.Payments.Verify(ctx, id, adminID, status, notes)
	switch {
	case errors.Is(err, paymentstore.ErrBadStatus):
		h.rerenderAdmin(w, r, "Choose completed, failed, or cancelled.")
		return
	case errors.Is(err, paymentstore.ErrNotPending):
		h.rerenderAdmin(w, r, "That payment has already been settled.")
		return
	case errors.Is(err, paymentstore.ErrNotFound):
		h.rerenderAdmin(w, r, "That payment no longer exists.")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "verify payment failed", err, "A database error occurred.", "/admin/payments")
		return
	}

	if status == models.PaymentCompleted {
		if err := workers.EnsurePaid(ctx, h.Payments, h.Users, p.UserID); err != nil {
			// The reconciliation sweep repairs a missed paid flag later.
			h.Log.Warn("mark user paid after verification failed",
				zap.String("user_id", p.UserID.Hex()),
				zap.Error(err))
		}
	}

	h.AuditLog.PaymentVerified(ctx, r, adminID, p.UserID, p.ID, status)
	h.Log.Info("payment verified",
		zap.String("payment_id", p.ID.Hex()),
		zap.String("status", status),
		zap.String("admin_id", adminID.Hex()))
	http.Redirect(w, r, "/admin/payments", http.StatusSeeOther)
}

func (h *Handler) rerenderAdmin(w http.ResponseWriter, r *http.Request, msg string) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	list, total, err := h.Payments.List(ctx, models.PaymentPending, 1)
	if err != nil {
		list, total = nil, 0
	}

	templates.Render(w, r, "payments_admin", adminListVM{
		BaseVM:   viewdata.NewBaseVM(r, "Payment Verification", "/"),
		Payments: list,
		Status:   models.PaymentPending,
		Nav:      paging.NewNav(1, total),
		Error:    msg,
	})
}
