// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"net/http"

	authgooglefeature "github.com/dalemusser/rishtahub/internal/app/features/authgoogle"
	browsefeature "github.com/dalemusser/rishtahub/internal/app/features/browse"
	errorsfeature "github.com/dalemusser/rishtahub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/rishtahub/internal/app/features/health"
	homefeature "github.com/dalemusser/rishtahub/internal/app/features/home"
	loginfeature "github.com/dalemusser/rishtahub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/rishtahub/internal/app/features/logout"
	moderationfeature "github.com/dalemusser/rishtahub/internal/app/features/moderation"
	myprofilefeature "github.com/dalemusser/rishtahub/internal/app/features/myprofile"
	paymentsfeature "github.com/dalemusser/rishtahub/internal/app/features/payments"
	registerfeature "github.com/dalemusser/rishtahub/internal/app/features/register"
	auditstore "github.com/dalemusser/rishtahub/internal/app/store/audit"
	"github.com/dalemusser/rishtahub/internal/app/store/oauthstate"
	paymentstore "github.com/dalemusser/rishtahub/internal/app/store/payments"
	userstore "github.com/dalemusser/rishtahub/internal/app/store/users"
	"github.com/dalemusser/rishtahub/internal/app/system/auditlog"
	"github.com/dalemusser/rishtahub/internal/app/system/auth"
	"github.com/dalemusser/rishtahub/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// paidReconciler is started in BuildHandler and stopped in Shutdown.
var paidReconciler *workers.PaidReconciler

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. RishtaHub initializes the template
// engine, applies session middleware, and mounts feature routers for all
// application areas: home, auth, browse, profile management, moderation,
// and payment verification.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.RishtaHubMongoDatabase

	// Create the session manager using app config.
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Set up the UserFetcher so LoadSessionUser fetches fresh user data on
	// each request. Paid-flag changes, role changes, and disabled accounts
	// take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(db))

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	// Photo storage backend (local disk or S3).
	storageBackend, mediaBaseURL, err := newStorageBackend(context.Background(), appCfg, logger)
	if err != nil {
		logger.Error("storage backend init failed", zap.Error(err))
		return nil, err
	}

	errLog := errorsfeature.NewErrorLogger(logger)

	audit := auditlog.New(auditstore.New(db), logger, auditlog.Config{
		Auth:       appCfg.AuditLogAuth,
		Moderation: appCfg.AuditLogModeration,
		Payment:    appCfg.AuditLogPayment,
	})

	googleEnabled := appCfg.GoogleClientID != ""

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	// This makes the current user available to all handlers via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.RishtaHubMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Locally stored photos are served from disk; S3 photos come from the CDN.
	if appCfg.StorageType == "local" {
		r.Handle(mediaBaseURL+"/*", fileserver.Handler(mediaBaseURL, appCfg.StorageLocalPath))
	}

	// Public pages
	homeHandler := homefeature.NewHandler(db, logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	browseHandler := browsefeature.NewHandler(db, errLog, logger)
	r.Mount("/browse", browsefeature.Routes(browseHandler))

	// Authentication
	registerHandler := registerfeature.NewHandler(db, sessionMgr, errLog, logger)
	r.Mount("/register", registerfeature.Routes(registerHandler))

	loginHandler := loginfeature.NewHandler(db, sessionMgr, errLog, audit, googleEnabled, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	if googleEnabled {
		googleHandler := authgooglefeature.NewHandler(db, sessionMgr, audit, oauthstate.New(db),
			appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, logger)
		r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))
	}

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)

	// Profile management (signed-in members)
	myProfileHandler := myprofilefeature.NewHandler(db, storageBackend, mediaBaseURL, errLog, logger)
	r.Route("/myprofile", func(pr chi.Router) {
		pr.Use(sessionMgr.RequireSignedIn)
		pr.Mount("/", myprofilefeature.Routes(myProfileHandler))
	})

	// Payments (signed-in members)
	paymentsHandler := paymentsfeature.NewHandler(db, errLog, audit, logger)
	r.Route("/payments", func(pr chi.Router) {
		pr.Use(sessionMgr.RequireSignedIn)
		pr.Mount("/", paymentsfeature.Routes(paymentsHandler))
	})

	// Admin area
	moderationHandler := moderationfeature.NewHandler(db, errLog, audit, logger)
	r.Route("/admin", func(ar chi.Router) {
		ar.Use(sessionMgr.RequireSignedIn)
		ar.Use(sessionMgr.RequireRole("admin"))
		ar.Mount("/moderation", moderationfeature.Routes(moderationHandler))
		ar.Mount("/payments", paymentsfeature.AdminRoutes(paymentsHandler))
	})

	// Background sweep that repairs paid flags missed between a payment
	// verification and the user record update.
	paidReconciler = workers.NewPaidReconciler(paymentstore.New(db), userstore.New(db), logger, appCfg.PaidReconcileSchedule)
	if err := paidReconciler.Start(); err != nil {
		logger.Error("paid reconciler start failed", zap.Error(err))
		return nil, err
	}

	return r, nil
}
