package home

import (
	"context"
	"net/http"

	profilestore "github.com/dalemusser/rishtahub/internal/app/store/profiles"
	"github.com/dalemusser/rishtahub/internal/app/system/timeouts"
	"github.com/dalemusser/rishtahub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler holds dependencies needed to serve the home page.
type Handler struct {
	DB       *mongo.Database
	Profiles *profilestore.Store
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Profiles: profilestore.New(db),
		Log:      logger,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – landing                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	// A small sample of recent listings for the landing page. Errors
	// degrade to an empty sample rather than failing the page.
	recent, _, err := h.Profiles.List(ctx, profilestore.ListParams{PublicOnly: true}, 1)
	if err != nil {
		h.Log.Warn("home: loading recent profiles failed", zap.Error(err))
		recent = nil
	}
	if len(recent) > 6 {
		recent = recent[:6]
	}

	data := struct {
		viewdata.BaseVM
		Recent []profilestore.ProfileRow
	}{
		BaseVM: viewdata.NewBaseVM(r, "Welcome", "/"),
		Recent: recent,
	}

	templates.Render(w, r, "home", data)
}
