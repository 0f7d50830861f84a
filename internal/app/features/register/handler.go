// internal/app/features/register/handler.go
package register

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/rishtahub/internal/app/features/errors"
	userstore "github.com/dalemusser/rishtahub/internal/app/store/users"
	"github.com/dalemusser/rishtahub/internal/app/system/auth"
	"github.com/dalemusser/rishtahub/internal/app/system/authutil"
	"github.com/dalemusser/rishtahub/internal/app/system/inputval"
	"github.com/dalemusser/rishtahub/internal/app/system/normalize"
	"github.com/dalemusser/rishtahub/internal/app/system/timeouts"
	"github.com/dalemusser/rishtahub/internal/app/system/viewdata"
	"github.com/dalemusser/rishtahub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB         *mongo.Database
	Users      *userstore.Store
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Users:      userstore.New(db),
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		Log:        logger,
	}
}

type registerFormData struct {
	viewdata.BaseVM
	Error    string
	FullName string
	Email    string
}

// registerInput is validated with struct tags; labels surface in form
// error messages.
type registerInput struct {
	FullName string `validate:"required,max=120" label:"Full name"`
	Email    string `validate:"required,email,max=254" label:"Email"`
	Password string `validate:"required,min=8,max=72" label:"Password"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /register                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeForm(w http.ResponseWriter, r *http.Request) {
	if _, signedIn := auth.CurrentUser(r); signedIn {
		http.Redirect(w, r, "/myprofile", http.StatusSeeOther)
		return
	}

	templates.Render(w, r, "register", registerFormData{
		BaseVM: viewdata.NewBaseVM(r, "Create account", "/"),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /register                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/register")
		return
	}

	in := registerInput{
		FullName: strings.TrimSpace(r.FormValue("full_name")),
		Email:    normalize.Email(r.FormValue("email")),
		Password: r.FormValue("password"),
	}

	if res := inputval.Validate(in); res.HasErrors() {
		h.renderFormWithError(w, r, res.First(), in.FullName, in.Email)
		return
	}
	if msg := authutil.ValidatePasswordRules(in.Password); msg != "" {
		h.renderFormWithError(w, r, msg, in.FullName, in.Email)
		return
	}
	if r.FormValue("password") != r.FormValue("password_confirm") {
		h.renderFormWithError(w, r, "Passwords do not match.", in.FullName, in.Email)
		return
	}

	hash, err := authutil.HashPassword(in.Password)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "hash password failed", err, "Unable to create your account.", "/register")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.Users.Create(ctx, models.User{
		FullName:     in.FullName,
		Email:        in.Email,
		AuthMethod:   "password",
		PasswordHash: &hash,
		Role:         "user",
		Status:       "active",
	})
	if errors.Is(err, userstore.ErrDuplicateEmail) {
		h.renderFormWithError(w, r, "An account with this email already exists. Try signing in.", in.FullName, in.Email)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create user failed", err, "Unable to create your account.", "/register")
		return
	}

	if err := h.SessionMgr.SignIn(w, r, created.ID.Hex()); err != nil {
		h.Log.Error("register: sign-in after create failed", zap.Error(err))
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	h.Log.Info("user registered", zap.String("user_id", created.ID.Hex()))
	http.Redirect(w, r, "/myprofile/new", http.StatusSeeOther)
}

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, msg, fullName, email string) {
	templates.Render(w, r, "register", registerFormData{
		BaseVM:   viewdata.NewBaseVM(r, "Create account", "/"),
		Error:    msg,
		FullName: fullName,
		Email:    email,
	})
}
