// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/dalemusser/rishtahub/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Config holds audit logging configuration. Each category is one of
// "all" (MongoDB + zap), "db", "log", or "off".
type Config struct {
	Auth       string
	Moderation string
	Payment    string
}

// Logger provides convenience methods for recording audit events to
// MongoDB (via audit.Store) and structured logs (via zap).
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates an audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{store: store, zapLog: zapLog, config: config}
}

// NewNopLogger returns a nil Logger; all methods on a nil Logger are
// no-ops, so tests can pass one without a database.
func NewNopLogger() *Logger { return nil }

// Log records an audit event based on configuration. Safe on a nil
// Logger.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryModeration:
		setting = l.config.Moderation
	case audit.CategoryPayment:
		setting = l.config.Payment
	default:
		setting = "all"
	}

	if setting == "off" {
		return
	}
	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}
	if setting == "all" || setting == "db" {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType))
		}
	}
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

// --- Moderation events ---

// ProfileApproved logs an admin approving a profile.
func (l *Logger) ProfileApproved(ctx context.Context, r *http.Request, adminID, ownerID, profileID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryModeration,
		EventType: audit.EventProfileApproved,
		ActorID:   &adminID,
		UserID:    &ownerID,
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details:   map[string]string{"profile_id": profileID.Hex()},
	})
}

// ProfileRejected logs an admin rejecting a profile with a reason.
func (l *Logger) ProfileRejected(ctx context.Context, r *http.Request, adminID, ownerID, profileID primitive.ObjectID, reason string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryModeration,
		EventType: audit.EventProfileRejected,
		ActorID:   &adminID,
		UserID:    &ownerID,
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"profile_id": profileID.Hex(),
			"reason":     reason,
		},
	})
}

// PublishToggled logs an admin flipping the published flag.
func (l *Logger) PublishToggled(ctx context.Context, r *http.Request, adminID, ownerID, profileID primitive.ObjectID, published bool) {
	detail := "unpublished"
	if published {
		detail = "published"
	}
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryModeration,
		EventType: audit.EventPublishToggled,
		ActorID:   &adminID,
		UserID:    &ownerID,
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"profile_id": profileID.Hex(),
			"result":     detail,
		},
	})
}

// --- Payment events ---

// PaymentVerified logs an admin settling a pending payment.
func (l *Logger) PaymentVerified(ctx context.Context, r *http.Request, adminID, ownerID, paymentID primitive.ObjectID, status string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryPayment,
		EventType: audit.EventPaymentVerified,
		ActorID:   &adminID,
		UserID:    &ownerID,
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"payment_id": paymentID.Hex(),
			"status":     status,
		},
	})
}

// PaymentCancelled logs a user cancelling their own pending payment.
func (l *Logger) PaymentCancelled(ctx context.Context, r *http.Request, userID, paymentID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryPayment,
		EventType: audit.EventPaymentCancelled,
		ActorID:   &userID,
		UserID:    &userID,
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details:   map[string]string{"payment_id": paymentID.Hex()},
	})
}

// --- Auth events ---

// LoginSuccess logs a successful login.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, authMethod string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		UserID:    &userID,
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details:   map[string]string{"auth_method": authMethod},
	})
}

// LoginFailed logs a failed login attempt without recording whether the
// account exists.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, attemptedLoginID string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailed,
		IP:            clientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: "invalid credentials",
		Details:       map[string]string{"attempted_login_id": attemptedLoginID},
	})
}
