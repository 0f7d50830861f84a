// Package audit persists audit events for moderation and payment
// verification actions.
package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Event categories.
const (
	CategoryAuth       = "auth"
	CategoryModeration = "moderation"
	CategoryPayment    = "payment"
)

// Event types.
const (
	EventLoginSuccess     = "login_success"
	EventLoginFailed      = "login_failed"
	EventProfileApproved  = "profile_approved"
	EventProfileRejected  = "profile_rejected"
	EventPublishToggled   = "publish_toggled"
	EventPaymentVerified  = "payment_verified"
	EventPaymentCancelled = "payment_cancelled"
)

// Event is one audit record. ActorID is who performed the action;
// UserID is whose account was affected (they differ for admin actions).
type Event struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty"`
	Category      string              `bson:"category"`
	EventType     string              `bson:"event_type"`
	UserID        *primitive.ObjectID `bson:"user_id,omitempty"`
	ActorID       *primitive.ObjectID `bson:"actor_id,omitempty"`
	IP            string              `bson:"ip,omitempty"`
	UserAgent     string              `bson:"user_agent,omitempty"`
	Success       bool                `bson:"success"`
	FailureReason string              `bson:"failure_reason,omitempty"`
	Details       map[string]string   `bson:"details,omitempty"`
	CreatedAt     time.Time           `bson:"created_at"`
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("audit_events")}
}

// Log inserts the event with a server-side timestamp.
func (s *Store) Log(ctx context.Context, e Event) error {
	e.ID = primitive.NewObjectID()
	e.CreatedAt = time.Now().UTC()
	_, err := s.c.InsertOne(ctx, e)
	return err
}
