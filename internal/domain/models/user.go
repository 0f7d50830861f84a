// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered account: regular members and admins.
//
// NOTE:
//   - Paid is a sticky flag: it is set when any of the user's payments
//     reaches "completed" and is never re-derived on read. The paid-flag
//     reconciliation worker repairs drift between payments and this flag.
//   - ProfileCompleted mirrors whether a profile document exists for this
//     user; the profiles collection is the source of truth.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName   string             `bson:"full_name" json:"full_name"`
	FullNameCI string             `bson:"full_name_ci" json:"full_name_ci"` // lowercase, diacritics-stripped
	Email      string             `bson:"email" json:"email"`
	AuthMethod string             `bson:"auth_method,omitempty" json:"auth_method,omitempty"` // password | google

	// PasswordHash is nil for OAuth-only accounts.
	PasswordHash *string `bson:"password_hash,omitempty" json:"-"`

	Role   string `bson:"role" json:"role"` // user | admin
	Status string `bson:"status,omitempty" json:"status,omitempty"`

	Paid             bool `bson:"paid" json:"paid"`
	ProfileCompleted bool `bson:"profile_completed" json:"profile_completed"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
