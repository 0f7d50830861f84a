// internal/app/features/myprofile/handler.go
package myprofile

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	uierrors "github.com/dalemusser/rishtahub/internal/app/features/errors"
	profilestore "github.com/dalemusser/rishtahub/internal/app/store/profiles"
	userstore "github.com/dalemusser/rishtahub/internal/app/store/users"
	"github.com/dalemusser/rishtahub/internal/app/system/authz"
	"github.com/dalemusser/rishtahub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/rishtahub/internal/app/system/inputval"
	"github.com/dalemusser/rishtahub/internal/app/system/timeouts"
	"github.com/dalemusser/rishtahub/internal/app/system/viewdata"
	"github.com/dalemusser/rishtahub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// maxUploadBytes bounds one profile form submission including photos.
const maxUploadBytes = 32 << 20

// Handler owns the signed-in user's profile: create, edit, and photo
// management. Every operation is scoped to the current user; moderation
// lives in the moderation feature.
type Handler struct {
	DB           *mongo.Database
	Profiles     *profilestore.Store
	Users        *userstore.Store
	Storage      storage.Store
	MediaBaseURL string // prefix for stored photo keys, e.g. "/media"
	ErrLog       *uierrors.ErrorLogger
	Log          *zap.Logger
}

func NewHandler(db *mongo.Database, store storage.Store, mediaBaseURL string, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:           db,
		Profiles:     profilestore.New(db),
		Users:        userstore.New(db),
		Storage:      store,
		MediaBaseURL: strings.TrimRight(mediaBaseURL, "/"),
		ErrLog:       errLog,
		Log:          logger,
	}
}

// profileInput is the owner-editable form, validated with struct tags.
type profileInput struct {
	FullName      string `validate:"required,max=120" label:"Full name"`
	Gender        string `validate:"required,oneof=male female" label:"Gender"`
	Age           int    `validate:"gte=18,lte=99" label:"Age"`
	City          string `validate:"required,max=80" label:"City"`
	Country       string `validate:"max=80" label:"Country"`
	MaritalStatus string `validate:"max=40" label:"Marital status"`
	Religion      string `validate:"max=60" label:"Religion"`
	Caste         string `validate:"max=60" label:"Caste"`
	Education     string `validate:"max=120" label:"Education"`
	Occupation    string `validate:"max=120" label:"Occupation"`
	MonthlyIncome string `validate:"max=60" label:"Monthly income"`
	HeightCM      int    `validate:"omitempty,gte=90,lte=250" label:"Height"`
	FamilyInfo    string `validate:"max=4000" label:"Family information"`
	About         string `validate:"max=4000" label:"About"`
	PartnerPrefs  string `validate:"max=4000" label:"Partner preferences"`
}

type formVM struct {
	viewdata.BaseVM
	Error    string
	IsEdit   bool
	In       profileInput
	Photos   []models.Photo
	MaxAge   int
	MinAge   int
	Statuses []string
}

type statusVM struct {
	viewdata.BaseVM
	Profile *models.Profile
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /myprofile – own profile with moderation status                         |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Profiles.GetByUserID(ctx, userID)
	if errors.Is(err, profilestore.ErrNotFound) {
		http.Redirect(w, r, "/myprofile/new", http.StatusSeeOther)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load own profile failed", err, "A database error occurred.", "/")
		return
	}

	templates.Render(w, r, "myprofile_view", statusVM{
		BaseVM:  viewdata.NewBaseVM(r, "My profile", "/"),
		Profile: p,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /myprofile/new                                                          |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeNewForm(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}
	if !authz.IsPaid(r) {
		http.Redirect(w, r, "/payments?notice=listing_fee", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, err := h.Profiles.GetByUserID(ctx, userID); err == nil {
		http.Redirect(w, r, "/myprofile/edit", http.StatusSeeOther)
		return
	}

	templates.Render(w, r, "myprofile_form", formVM{
		BaseVM: viewdata.NewBaseVM(r, "Create your profile", "/myprofile"),
		IsEdit: false,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /myprofile/new                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}
	if !authz.IsPaid(r) {
		http.Redirect(w, r, "/payments?notice=listing_fee", http.StatusSeeOther)
		return
	}

	in, err := h.parseForm(r)
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse profile form failed", err, "Invalid form data.", "/myprofile/new")
		return
	}

	reRender := func(msg string) {
		templates.Render(w, r, "myprofile_form", formVM{
			BaseVM: viewdata.NewBaseVM(r, "Create your profile", "/myprofile"),
			Error:  msg,
			IsEdit: false,
			In:     in,
		})
	}

	if res := inputval.Validate(in); res.HasErrors() {
		reRender(res.First())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	photos, err := h.uploadPhotos(ctx, r)
	if err != nil {
		h.Log.Error("photo upload failed", zap.Error(err))
		reRender("Failed to upload photos. Please try again.")
		return
	}

	created, err := h.Profiles.Create(ctx, userID, h.content(in), photos)
	if errors.Is(err, profilestore.ErrDuplicateProfile) {
		h.cleanupPhotos(ctx, photos)
		reRender("You already have a profile. Edit it instead.")
		return
	}
	if err != nil {
		h.Log.Error("create profile failed", zap.Error(err))
		h.cleanupPhotos(ctx, photos)
		reRender("A database error occurred while saving your profile.")
		return
	}

	if err := h.Users.SetProfileCompleted(ctx, userID, true); err != nil {
		h.Log.Warn("set profile_completed failed",
			zap.String("user_id", userID.Hex()), zap.Error(err))
	}

	h.Log.Info("profile created",
		zap.String("profile_id", created.ID.Hex()),
		zap.String("user_id", userID.Hex()))
	http.Redirect(w, r, "/myprofile", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /myprofile/edit                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeEditForm(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Profiles.GetByUserID(ctx, userID)
	if errors.Is(err, profilestore.ErrNotFound) {
		http.Redirect(w, r, "/myprofile/new", http.StatusSeeOther)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load own profile failed", err, "A database error occurred.", "/myprofile")
		return
	}

	templates.Render(w, r, "myprofile_form", formVM{
		BaseVM: viewdata.NewBaseVM(r, "Edit your profile", "/myprofile"),
		IsEdit: true,
		In:     inputFromProfile(p),
		Photos: p.Photos,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /myprofile/edit                                                        |
| Any saved edit returns the profile to the review queue.                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}

	in, err := h.parseForm(r)
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse profile form failed", err, "Invalid form data.", "/myprofile/edit")
		return
	}

	reRender := func(msg string) {
		templates.Render(w, r, "myprofile_form", formVM{
			BaseVM: viewdata.NewBaseVM(r, "Edit your profile", "/myprofile"),
			Error:  msg,
			IsEdit: true,
			In:     in,
		})
	}

	if res := inputval.Validate(in); res.HasErrors() {
		reRender(res.First())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	newPhotos, err := h.uploadPhotos(ctx, r)
	if err != nil {
		h.Log.Error("photo upload failed", zap.Error(err))
		reRender("Failed to upload photos. Please try again.")
		return
	}

	updated, err := h.Profiles.SubmitEdit(ctx, userID, h.content(in), newPhotos)
	if errors.Is(err, profilestore.ErrNotFound) {
		h.cleanupPhotos(ctx, newPhotos)
		http.Redirect(w, r, "/myprofile/new", http.StatusSeeOther)
		return
	}
	if err != nil {
		h.Log.Error("submit profile edit failed", zap.Error(err))
		h.cleanupPhotos(ctx, newPhotos)
		reRender("A database error occurred while saving your profile.")
		return
	}

	h.Log.Info("profile edited and resubmitted",
		zap.String("profile_id", updated.ID.Hex()),
		zap.String("user_id", userID.Hex()))
	http.Redirect(w, r, "/myprofile", http.StatusSeeOther)
}

// parseForm reads the multipart form into a profileInput, stripping any
// markup from single-line fields and sanitizing the rich-text ones.
func (h *Handler) parseForm(r *http.Request) (profileInput, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return profileInput{}, err
	}

	strip := func(name string) string {
		return strings.TrimSpace(htmlsanitize.StripAll(r.FormValue(name)))
	}
	rich := func(name string) string {
		return strings.TrimSpace(htmlsanitize.Sanitize(r.FormValue(name)))
	}

	age, _ := strconv.Atoi(strip("age"))
	height, _ := strconv.Atoi(strip("height_cm"))

	return profileInput{
		FullName:      strip("full_name"),
		Gender:        strings.ToLower(strip("gender")),
		Age:           age,
		City:          strip("city"),
		Country:       strip("country"),
		MaritalStatus: strip("marital_status"),
		Religion:      strip("religion"),
		Caste:         strip("caste"),
		Education:     strip("education"),
		Occupation:    strip("occupation"),
		MonthlyIncome: strip("monthly_income"),
		HeightCM:      height,
		FamilyInfo:    rich("family_info"),
		About:         rich("about"),
		PartnerPrefs:  rich("partner_prefs"),
	}, nil
}

func (h *Handler) content(in profileInput) profilestore.Content {
	return profilestore.Content{
		FullName:      in.FullName,
		Gender:        in.Gender,
		Age:           in.Age,
		City:          in.City,
		Country:       in.Country,
		MaritalStatus: in.MaritalStatus,
		Religion:      in.Religion,
		Caste:         in.Caste,
		Education:     in.Education,
		Occupation:    in.Occupation,
		MonthlyIncome: in.MonthlyIncome,
		HeightCM:      in.HeightCM,
		FamilyInfo:    in.FamilyInfo,
		About:         in.About,
		PartnerPrefs:  in.PartnerPrefs,
	}
}

func inputFromProfile(p *models.Profile) profileInput {
	return profileInput{
		FullName:      p.FullName,
		Gender:        p.Gender,
		Age:           p.Age,
		City:          p.City,
		Country:       p.Country,
		MaritalStatus: p.MaritalStatus,
		Religion:      p.Religion,
		Caste:         p.Caste,
		Education:     p.Education,
		Occupation:    p.Occupation,
		MonthlyIncome: p.MonthlyIncome,
		HeightCM:      p.HeightCM,
		FamilyInfo:    p.FamilyInfo,
		About:         p.About,
		PartnerPrefs:  p.PartnerPrefs,
	}
}
