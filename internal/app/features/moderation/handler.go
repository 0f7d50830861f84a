// internal/app/features/moderation/handler.go
package moderation

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/rishtahub/internal/app/features/errors"
	profilestore "github.com/dalemusser/rishtahub/internal/app/store/profiles"
	userstore "github.com/dalemusser/rishtahub/internal/app/store/users"
	"github.com/dalemusser/rishtahub/internal/app/system/auditlog"
	"github.com/dalemusser/rishtahub/internal/app/system/authz"
	"github.com/dalemusser/rishtahub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/rishtahub/internal/app/system/paging"
	"github.com/dalemusser/rishtahub/internal/app/system/timeouts"
	"github.com/dalemusser/rishtahub/internal/app/system/viewdata"
	"github.com/dalemusser/rishtahub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the admin review queue: approve, reject, and publish
// control for profiles. Mounted behind RequireRole("admin").
type Handler struct {
	DB       *mongo.Database
	Profiles *profilestore.Store
	Users    *userstore.Store
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Profiles: profilestore.New(db),
		Users:    userstore.New(db),
		ErrLog:   errLog,
		AuditLog: audit,
		Log:      logger,
	}
}

type queueVM struct {
	viewdata.BaseVM
	Profiles []profilestore.ProfileRow
	Total    int64
	Nav      paging.Nav
	Status   string
}

type reviewVM struct {
	viewdata.BaseVM
	Profile    *models.Profile
	OwnerEmail string
	Error      string
}

// queueStatuses are the statuses the queue filter accepts. An empty or
// unknown value shows the submitted queue.
var queueStatuses = map[string]bool{
	"submitted": true,
	"approved":  true,
	"rejected":  true,
	"all":       true,
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/moderation – review queue                                        |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeQueue(w http.ResponseWriter, r *http.Request) {
	status := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("status")))
	if !queueStatuses[status] {
		status = "submitted"
	}

	params := profilestore.ListParams{}
	if status != "all" {
		params.Status = status
	}

	page := paging.ParsePage(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, total, err := h.Profiles.List(ctx, params, page)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list moderation queue failed", err, "A database error occurred.", "/")
		return
	}

	templates.Render(w, r, "moderation_queue", queueVM{
		BaseVM:   viewdata.NewBaseVM(r, "Moderation queue", "/"),
		Profiles: rows,
		Total:    total,
		Nav:      paging.NewNav(page, total),
		Status:   status,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/moderation/{id} – full profile for review                        |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeReview(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadProfile(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	ownerEmail := ""
	if owner, err := h.Users.GetByID(ctx, p.UserID); err == nil {
		ownerEmail = owner.Email
	}

	templates.Render(w, r, "moderation_review", reviewVM{
		BaseVM:     viewdata.NewBaseVM(r, "Review profile", "/admin/moderation"),
		Profile:    p,
		OwnerEmail: ownerEmail,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/moderation/{id}/approve                                         |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	_, _, adminID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}

	id, ok := h.paramID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, err := h.Profiles.Approve(ctx, id, adminID)
	if errors.Is(err, profilestore.ErrNotFound) {
		uierrors.RenderNotFound(w, r, "This profile does not exist.", "/admin/moderation")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "approve profile failed", err, "A database error occurred.", "/admin/moderation")
		return
	}

	h.AuditLog.ProfileApproved(ctx, r, adminID, p.UserID, p.ID)
	h.Log.Info("profile approved",
		zap.String("profile_id", p.ID.Hex()),
		zap.String("admin_id", adminID.Hex()))
	http.Redirect(w, r, "/admin/moderation", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/moderation/{id}/reject                                          |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	_, _, adminID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}

	id, ok := h.paramID(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/admin/moderation")
		return
	}

	reason := strings.TrimSpace(htmlsanitize.StripAll(r.FormValue("reason")))
	if reason == "" {
		h.rerenderReview(w, r, id, "A rejection reason is required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, err := h.Profiles.Reject(ctx, id, adminID, reason)
	if errors.Is(err, profilestore.ErrNotFound) {
		uierrors.RenderNotFound(w, r, "This profile does not exist.", "/admin/moderation")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "reject profile failed", err, "A database error occurred.", "/admin/moderation")
		return
	}

	h.AuditLog.ProfileRejected(ctx, r, adminID, p.UserID, p.ID, reason)
	h.Log.Info("profile rejected",
		zap.String("profile_id", p.ID.Hex()),
		zap.String("admin_id", adminID.Hex()))
	http.Redirect(w, r, "/admin/moderation", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/moderation/{id}/publish – toggle the published flag             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleTogglePublish(w http.ResponseWriter, r *http.Request) {
	_, _, adminID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}

	id, ok := h.paramID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, err := h.Profiles.TogglePublish(ctx, id)
	if errors.Is(err, profilestore.ErrNotFound) {
		uierrors.RenderNotFound(w, r, "This profile does not exist.", "/admin/moderation")
		return
	}
	if errors.Is(err, profilestore.ErrNotApproved) {
		h.rerenderReview(w, r, id, "Only approved profiles can be published or unpublished.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "toggle publish failed", err, "A database error occurred.", "/admin/moderation")
		return
	}

	h.AuditLog.PublishToggled(ctx, r, adminID, p.UserID, p.ID, p.Published)
	h.Log.Info("profile publish toggled",
		zap.String("profile_id", p.ID.Hex()),
		zap.Bool("published", p.Published),
		zap.String("admin_id", adminID.Hex()))
	http.Redirect(w, r, "/admin/moderation/"+p.ID.Hex(), http.StatusSeeOther)
}

// rerenderReview reloads the review page with an error banner.
func (h *Handler) rerenderReview(w http.ResponseWriter, r *http.Request, id primitive.ObjectID, msg string) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Profiles.GetByID(ctx, id)
	if err != nil {
		uierrors.RenderNotFound(w, r, "This profile does not exist.", "/admin/moderation")
		return
	}

	ownerEmail := ""
	if owner, err := h.Users.GetByID(ctx, p.UserID); err == nil {
		ownerEmail = owner.Email
	}

	templates.Render(w, r, "moderation_review", reviewVM{
		BaseVM:     viewdata.NewBaseVM(r, "Review profile", "/admin/moderation"),
		Profile:    p,
		OwnerEmail: ownerEmail,
		Error:      msg,
	})
}

// loadProfile parses {id} and loads the profile, rendering not-found on
// failure.
func (h *Handler) loadProfile(w http.ResponseWriter, r *http.Request) (*models.Profile, bool) {
	id, ok := h.paramID(w, r)
	if !ok {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Profiles.GetByID(ctx, id)
	if errors.Is(err, profilestore.ErrNotFound) {
		uierrors.RenderNotFound(w, r, "This profile does not exist.", "/admin/moderation")
		return nil, false
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load profile failed", err, "A database error occurred.", "/admin/moderation")
		return nil, false
	}
	return p, true
}

func (h *Handler) paramID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderNotFound(w, r, "This profile does not exist.", "/admin/moderation")
		return primitive.NilObjectID, false
	}
	return id, true
}
