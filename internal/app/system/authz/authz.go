// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/rishtahub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the user's role (lowercased), name, Mongo ObjectID, and
// a found flag. If no user is present in context or the user ID is
// malformed, it returns "visitor", "", NilObjectID, false, so callers can
// trust that ok=true means a valid, authenticated user with a valid
// ObjectID.
func UserCtx(r *http.Request) (role string, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in session - fail closed.
		return "visitor", "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), user.Name, userID, true
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == "admin"
}

// IsPaid reports whether the current request's user has a verified
// payment. Admins are always treated as paid so moderation screens work
// without a payment record.
func IsPaid(r *http.Request) bool {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return false
	}
	return user.Paid || strings.ToLower(user.Role) == "admin"
}

// HasProfile reports whether the current request's user has submitted a
// profile.
func HasProfile(r *http.Request) bool {
	user, ok := auth.CurrentUser(r)
	return ok && user.ProfileCompleted
}

// IsOwnerOrAdmin reports whether the current user is the given owner or
// an admin. Used by handlers before mutating owner-scoped documents.
func IsOwnerOrAdmin(r *http.Request, owner primitive.ObjectID) bool {
	role, _, uid, ok := UserCtx(r)
	if !ok {
		return false
	}
	return uid == owner || role == "admin"
}
