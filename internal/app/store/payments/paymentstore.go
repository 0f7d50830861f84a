// Package paymentstore owns payment documents and their one-way
// transitions out of pending. Marking the owning user paid is a separate
// write performed by the caller (or the reconciliation sweep); the two
// are not atomic across documents.
package paymentstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/rishtahub/internal/app/system/paging"
	"github.com/dalemusser/rishtahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("payments")}
}

var (
	// ErrNotFound is returned when no payment matches the query.
	ErrNotFound = errors.New("payment not found")
	// ErrBadStatus is returned when verification requests a status other
	// than completed, failed, or cancelled.
	ErrBadStatus = errors.New(`status must be "completed"|"failed"|"cancelled"`)
	// ErrNotPending is returned when a transition is attempted on a
	// payment that already left the pending state.
	ErrNotPending = errors.New("payment is no longer pending")
	// ErrNotCancellable covers both "not yours" and "not pending" on the
	// owner cancel path, so callers cannot probe for other users'
	// payment IDs.
	ErrNotCancellable = errors.New("payment not found or not cancellable")
)

// Create inserts a pending payment record for the user.
func (s *Store) Create(ctx context.Context, p models.Payment) (models.Payment, error) {
	p.ID = primitive.NewObjectID()
	p.Status = models.PaymentPending
	p.VerifiedByID = nil
	p.VerifiedAt = nil
	p.Notes = ""

	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Payment{}, err
	}
	return p, nil
}

// GetByID loads a payment by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error) {
	var p models.Payment
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Verify moves a pending payment to completed, failed, or cancelled and
// records the verifying admin, timestamp, and notes. Any other requested
// status is ErrBadStatus; a payment already out of pending is
// ErrNotPending. The caller is responsible for marking the user paid
// when the new status is completed.
func (s *Store) Verify(ctx context.Context, id, adminID primitive.ObjectID, status, notes string) (*models.Payment, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	switch status {
	case models.PaymentCompleted, models.PaymentFailed, models.PaymentCancelled:
		// ok
	default:
		return nil, ErrBadStatus
	}

	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status != models.PaymentPending {
		return nil, ErrNotPending
	}

	now := time.Now().UTC()
	p.Status = status
	p.VerifiedByID = &adminID
	p.VerifiedAt = &now
	p.Notes = notes
	p.UpdatedAt = now

	res, err := s.c.ReplaceOne(ctx, bson.M{"_id": p.ID, "status": models.PaymentPending}, p)
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		// Lost a race with another verifier.
		return nil, ErrNotPending
	}
	return p, nil
}

// CancelOwn cancels the caller's own pending payment. Someone else's
// payment, an unknown ID, and a payment already out of pending all
// return ErrNotCancellable without distinguishing which.
func (s *Store) CancelOwn(ctx context.Context, id, userID primitive.ObjectID) (*models.Payment, error) {
	var p models.Payment
	err := s.c.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotCancellable
		}
		return nil, err
	}
	if p.Status != models.PaymentPending {
		return nil, ErrNotCancellable
	}

	now := time.Now().UTC()
	p.Status = models.PaymentCancelled
	p.UpdatedAt = now

	res, err := s.c.ReplaceOne(ctx, bson.M{"_id": p.ID, "status": models.PaymentPending}, p)
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotCancellable
	}
	return &p, nil
}

// HasCompleted reports whether the user has at least one completed
// payment. This is the authoritative form of the paid flag.
func (s *Store) HasCompleted(ctx context.Context, userID primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx,
		bson.M{"user_id": userID, "status": models.PaymentCompleted},
		options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListByUser returns the user's payments, newest first.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Payment, error) {
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Payment
	for cur.Next(ctx) {
		var p models.Payment
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, cur.Err()
}

// List returns one page of payments for the admin screen, optionally
// filtered by status, newest first, plus the total match count.
func (s *Store) List(ctx context.Context, status string, page int) ([]models.Payment, int64, error) {
	filter := bson.M{}
	if status = strings.ToLower(strings.TrimSpace(status)); status != "" {
		filter["status"] = status
	}

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	cur, err := s.c.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(paging.Skip(page)).
		SetLimit(paging.Limit()))
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var out []models.Payment
	for cur.Next(ctx) {
		var p models.Payment
		if err := cur.Decode(&p); err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, cur.Err()
}
