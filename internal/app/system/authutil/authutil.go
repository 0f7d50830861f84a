// internal/app/system/authutil/authutil.go
package authutil

import (
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the work factor for new password hashes.
const bcryptCost = 12

// HashPassword returns a bcrypt hash of the given password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored bcrypt hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePasswordRules checks minimum password requirements and returns
// a human-readable problem, or "" when the password is acceptable.
func ValidatePasswordRules(password string) string {
	if len(password) < 8 {
		return "Password must be at least 8 characters."
	}
	if len(password) > 72 {
		// bcrypt truncates beyond 72 bytes
		return "Password must be at most 72 characters."
	}
	return ""
}
