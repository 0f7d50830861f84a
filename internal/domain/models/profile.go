// internal/domain/models/profile.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Profile statuses. "published" is additionally tracked as a separate
// boolean so an admin can unpublish an approved profile without losing
// its approval; a profile is publicly visible only when Status is
// StatusApproved AND Published is true.
const (
	StatusDraft     = "draft"
	StatusSubmitted = "submitted"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusPublished = "published"
)

// Photo is one uploaded profile photo. Key is the storage path used for
// deletes; URL is the public-facing location. At most one photo per
// profile has IsPrimary set.
type Photo struct {
	URL       string `bson:"url" json:"url"`
	Key       string `bson:"key" json:"key"`
	IsPrimary bool   `bson:"is_primary" json:"is_primary"`
}

// Profile is the matrimonial listing for one user (1:1 with User,
// enforced by a unique index on user_id).
type Profile struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`

	Status    string `bson:"status" json:"status"`
	Published bool   `bson:"published" json:"published"`

	// Moderation metadata. RejectionReason is present only while the
	// profile is rejected.
	ReviewedByID    *primitive.ObjectID `bson:"reviewed_by_id,omitempty" json:"reviewed_by_id,omitempty"`
	ReviewedAt      *time.Time          `bson:"reviewed_at,omitempty" json:"reviewed_at,omitempty"`
	RejectionReason string              `bson:"rejection_reason,omitempty" json:"rejection_reason,omitempty"`

	Photos []Photo `bson:"photos" json:"photos"`

	// Descriptive fields. Opaque to the lifecycle rules; validated and
	// sanitized at the edge.
	FullName      string `bson:"full_name" json:"full_name"`
	Gender        string `bson:"gender" json:"gender"` // male | female
	Age           int    `bson:"age" json:"age"`
	City          string `bson:"city" json:"city"`
	CityCI        string `bson:"city_ci" json:"city_ci"` // lowercase, diacritics-stripped
	Country       string `bson:"country,omitempty" json:"country,omitempty"`
	MaritalStatus string `bson:"marital_status,omitempty" json:"marital_status,omitempty"`
	Religion      string `bson:"religion,omitempty" json:"religion,omitempty"`
	Caste         string `bson:"caste,omitempty" json:"caste,omitempty"`
	Education     string `bson:"education,omitempty" json:"education,omitempty"`
	Occupation    string `bson:"occupation,omitempty" json:"occupation,omitempty"`
	MonthlyIncome string `bson:"monthly_income,omitempty" json:"monthly_income,omitempty"`
	HeightCM      int    `bson:"height_cm,omitempty" json:"height_cm,omitempty"`
	FamilyInfo    string `bson:"family_info,omitempty" json:"family_info,omitempty"`
	About         string `bson:"about,omitempty" json:"about,omitempty"`
	PartnerPrefs  string `bson:"partner_prefs,omitempty" json:"partner_prefs,omitempty"`

	ViewCount int64 `bson:"view_count" json:"view_count"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// PrimaryPhoto returns the primary photo, or the zero Photo and false if
// the profile has none.
func (p *Profile) PrimaryPhoto() (Photo, bool) {
	for _, ph := range p.Photos {
		if ph.IsPrimary {
			return ph, true
		}
	}
	return Photo{}, false
}

// PubliclyVisible reports whether this profile may appear in public
// browse/search results.
func (p *Profile) PubliclyVisible() bool {
	return p.Status == StatusApproved && p.Published
}
