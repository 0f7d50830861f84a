// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/rishtahub/internal/app/features/errors"
	userstore "github.com/dalemusser/rishtahub/internal/app/store/users"
	"github.com/dalemusser/rishtahub/internal/app/system/auditlog"
	"github.com/dalemusser/rishtahub/internal/app/system/auth"
	"github.com/dalemusser/rishtahub/internal/app/system/authutil"
	"github.com/dalemusser/rishtahub/internal/app/system/normalize"
	"github.com/dalemusser/rishtahub/internal/app/system/timeouts"
	"github.com/dalemusser/rishtahub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB            *mongo.Database
	Users         *userstore.Store
	SessionMgr    *auth.SessionManager
	ErrLog        *uierrors.ErrorLogger
	AuditLog      *auditlog.Logger
	GoogleEnabled bool
	Log           *zap.Logger
}

func NewHandler(
	db *mongo.Database,
	sessionMgr *auth.SessionManager,
	errLog *uierrors.ErrorLogger,
	audit *auditlog.Logger,
	googleEnabled bool,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		DB:            db,
		Users:         userstore.New(db),
		SessionMgr:    sessionMgr,
		ErrLog:        errLog,
		AuditLog:      audit,
		GoogleEnabled: googleEnabled,
		Log:           logger,
	}
}

type loginFormData struct {
	viewdata.BaseVM
	Error         string
	Email         string
	ReturnURL     string
	GoogleEnabled bool
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeForm(w http.ResponseWriter, r *http.Request) {
	if _, signedIn := auth.CurrentUser(r); signedIn {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	templates.Render(w, r, "login", loginFormData{
		BaseVM:        viewdata.NewBaseVM(r, "Sign in", "/"),
		ReturnURL:     safeReturnURL(r.URL.Query().Get("return")),
		GoogleEnabled: h.GoogleEnabled,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/login")
		return
	}

	email := normalize.Email(r.FormValue("email"))
	password := r.FormValue("password")
	returnURL := safeReturnURL(r.FormValue("return"))
	if email == "" || password == "" {
		h.renderFormWithError(w, r, "Enter your email and password.", email, returnURL)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		h.AuditLog.LoginFailed(ctx, r, email)
		h.renderFormWithError(w, r, "Incorrect email or password.", email, returnURL)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load user for login failed", err, "Unable to sign in right now.", "/login")
		return
	}

	if u.Status != "active" {
		h.AuditLog.LoginFailed(ctx, r, email)
		h.renderFormWithError(w, r, "This account is disabled.", email, returnURL)
		return
	}
	if u.PasswordHash == nil || !authutil.CheckPassword(password, *u.PasswordHash) {
		h.AuditLog.LoginFailed(ctx, r, email)
		h.renderFormWithError(w, r, "Incorrect email or password.", email, returnURL)
		return
	}

	if err := h.SessionMgr.SignIn(w, r, u.ID.Hex()); err != nil {
		h.ErrLog.LogServerError(w, r, "session sign-in failed", err, "Unable to sign in right now.", "/login")
		return
	}

	h.AuditLog.LoginSuccess(ctx, r, u.ID, u.AuthMethod)
	h.Log.Info("user signed in", zap.String("user_id", u.ID.Hex()))

	if returnURL == "" {
		returnURL = "/"
	}
	http.Redirect(w, r, returnURL, http.StatusSeeOther)
}

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, msg, email, returnURL string) {
	templates.Render(w, r, "login", loginFormData{
		BaseVM:        viewdata.NewBaseVM(r, "Sign in", "/"),
		Error:         msg,
		Email:         email,
		ReturnURL:     returnURL,
		GoogleEnabled: h.GoogleEnabled,
	})
}

// safeReturnURL accepts only same-site paths so the return parameter
// cannot be used as an open redirect.
func safeReturnURL(raw string) string {
	if raw == "" || raw[0] != '/' {
		return ""
	}
	if len(raw) > 1 && raw[1] == '/' {
		return ""
	}
	return raw
}
