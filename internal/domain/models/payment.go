// internal/domain/models/payment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment statuses. "pending" is the only non-terminal state; transitions
// out of it are one-way.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentCancelled = "cancelled"
)

// Payment records one listing-fee payment attempt. A user may have many.
type Payment struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`

	Amount    int64  `bson:"amount" json:"amount"` // minor units
	Currency  string `bson:"currency" json:"currency"`
	Method    string `bson:"method" json:"method"` // bank_transfer | jazzcash | easypaisa
	Reference string `bson:"reference" json:"reference"`

	Status string `bson:"status" json:"status"`

	// Verification metadata, populated on the transition out of pending.
	VerifiedByID *primitive.ObjectID `bson:"verified_by_id,omitempty" json:"verified_by_id,omitempty"`
	VerifiedAt   *time.Time          `bson:"verified_at,omitempty" json:"verified_at,omitempty"`
	Notes        string              `bson:"notes,omitempty" json:"notes,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Terminal reports whether the payment has left the pending state.
func (p *Payment) Terminal() bool {
	return p.Status != PaymentPending
}
