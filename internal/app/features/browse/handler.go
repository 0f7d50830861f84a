// internal/app/features/browse/handler.go
package browse

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	uierrors "github.com/dalemusser/rishtahub/internal/app/features/errors"
	profilestore "github.com/dalemusser/rishtahub/internal/app/store/profiles"
	"github.com/dalemusser/rishtahub/internal/app/system/authz"
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

// Handler serves the public profile listing and detail pages. Only
// publicly visible profiles (approved and published) are reachable here.
type Handler struct {
	DB       *mongo.Database
	Profiles *profilestore.Store
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Profiles: profilestore.New(db),
		ErrLog:   errLog,
		Log:      logger,
	}
}

type listVM struct {
	viewdata.BaseVM
	Profiles []profilestore.ProfileRow
	Total    int64
	Nav      paging.Nav

	// Echoed filter values for the form.
	Gender string
	City   string
	AgeMin string
	AgeMax string
}

type detailVM struct {
	viewdata.BaseVM
	Profile *models.Profile
	IsOwner bool
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /browse – public listing with filters                                   |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := paging.ParsePage(r)

	params := profilestore.ListParams{
		Gender:     strings.TrimSpace(q.Get("gender")),
		City:       strings.TrimSpace(q.Get("city")),
		AgeMin:     parseAge(q.Get("age_min")),
		AgeMax:     parseAge(q.Get("age_max")),
		PublicOnly: true,
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, total, err := h.Profiles.List(ctx, params, page)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list profiles failed", err, "A database error occurred.", "/")
		return
	}

	templates.Render(w, r, "browse_list", listVM{
		BaseVM:   viewdata.NewBaseVM(r, "Browse profiles", "/"),
		Profiles: rows,
		Total:    total,
		Nav:      paging.NewNav(page, total),
		Gender:   params.Gender,
		City:     params.City,
		AgeMin:   q.Get("age_min"),
		AgeMax:   q.Get("age_max"),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /browse/{id} – public detail page                                       |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	idHex := chi.URLParam(r, "id")
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		uierrors.RenderNotFound(w, r, "This profile does not exist.", "/browse")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Profiles.GetByID(ctx, id)
	if errors.Is(err, profilestore.ErrNotFound) {
		uierrors.RenderNotFound(w, r, "This profile does not exist.", "/browse")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load profile failed", err, "A database error occurred.", "/browse")
		return
	}

	_, _, viewerID, signedIn := authz.UserCtx(r)
	isOwner := signedIn && viewerID == p.UserID

	// Hidden profiles 404 for everyone but the owner, so unpublished
	// listings are indistinguishable from missing ones.
	if !p.PubliclyVisible() && !isOwner {
		uierrors.RenderNotFound(w, r, "This profile does not exist.", "/browse")
		return
	}

	if !isOwner {
		if err := h.Profiles.IncrementViews(ctx, p.ID); err != nil {
			h.Log.Warn("view count increment failed",
				zap.String("profile_id", p.ID.Hex()), zap.Error(err))
		}
	}

	templates.Render(w, r, "browse_detail", detailVM{
		BaseVM:  viewdata.NewBaseVM(r, p.FullName, "/browse"),
		Profile: p,
		IsOwner: isOwner,
	})
}

func parseAge(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
