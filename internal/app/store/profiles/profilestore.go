// Package profilestore owns the profile document and its lifecycle:
// status transitions, the published flag, moderation metadata, and the
// photo collection. Handlers decide who may call an operation; this
// package decides whether the transition is legal and what side effects
// it carries.
package profilestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/rishtahub/internal/app/system/normalize"
	"github.com/dalemusser/rishtahub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("profiles")}
}

var (
	// ErrNotFound is returned when no profile matches the query.
	ErrNotFound = errors.New("profile not found")
	// ErrDuplicateProfile is returned when a user who already has a
	// profile tries to create another.
	ErrDuplicateProfile = errors.New("a profile already exists for this user")
	// ErrNotApproved is returned when the publish toggle is attempted on
	// a profile whose status is not "approved".
	ErrNotApproved = errors.New("profile must be approved before publishing")
	// ErrPhotoNotFound is returned when a photo key is not in the
	// profile's photo collection.
	ErrPhotoNotFound = errors.New("photo not found")
)

// Content holds the owner-editable descriptive fields. The lifecycle
// engine copies these opaquely; validation and sanitizing happen at the
// edge.
type Content struct {
	FullName      string
	Gender        string
	Age           int
	City          string
	Country       string
	MaritalStatus string
	Religion      string
	Caste         string
	Education     string
	Occupation    string
	MonthlyIncome string
	HeightCM      int
	FamilyInfo    string
	About         string
	PartnerPrefs  string
}

func (s *Store) apply(p *models.Profile, c Content) {
	p.FullName = normalize.Name(c.FullName)
	p.Gender = c.Gender
	p.Age = c.Age
	p.City = normalize.City(c.City)
	p.CityCI = text.Fold(p.City)
	p.Country = c.Country
	p.MaritalStatus = c.MaritalStatus
	p.Religion = c.Religion
	p.Caste = c.Caste
	p.Education = c.Education
	p.Occupation = c.Occupation
	p.MonthlyIncome = c.MonthlyIncome
	p.HeightCM = c.HeightCM
	p.FamilyInfo = c.FamilyInfo
	p.About = c.About
	p.PartnerPrefs = c.PartnerPrefs
}

// Create inserts the user's profile in the submitted state. The unique
// index on user_id makes a second create fail with ErrDuplicateProfile.
func (s *Store) Create(ctx context.Context, userID primitive.ObjectID, c Content, photos []models.Photo) (models.Profile, error) {
	p := models.Profile{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Status:    models.StatusSubmitted,
		Published: false,
		Photos:    markFirstPrimary(photos),
	}
	s.apply(&p, c)

	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Profile{}, ErrDuplicateProfile
		}
		return models.Profile{}, err
	}
	return p, nil
}

// GetByID loads a profile by its ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Profile, error) {
	var p models.Profile
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetByUserID loads the profile owned by the given user.
func (s *Store) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Profile, error) {
	var p models.Profile
	if err := s.c.FindOne(ctx, bson.M{"user_id": userID}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// SubmitEdit overwrites the owner-editable content, appends any new
// photos, and resets the profile to submitted/unpublished regardless of
// its prior status. Every owner edit goes back through review.
func (s *Store) SubmitEdit(ctx context.Context, userID primitive.ObjectID, c Content, newPhotos []models.Photo) (*models.Profile, error) {
	p, err := s.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.apply(p, c)
	p.Photos = appendPhotos(p.Photos, newPhotos)
	p.Status = models.StatusSubmitted
	p.Published = false
	p.ReviewedByID = nil
	p.ReviewedAt = nil
	p.RejectionReason = ""
	p.UpdatedAt = time.Now().UTC()

	return p, s.save(ctx, p)
}

// Approve moves the profile to approved and publishes it, recording the
// reviewer. Applied idempotently from any status: re-approving an
// approved profile refreshes the reviewer and timestamp.
func (s *Store) Approve(ctx context.Context, id, reviewerID primitive.ObjectID) (*models.Profile, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p.Status = models.StatusApproved
	p.Published = true
	p.ReviewedByID = &reviewerID
	p.ReviewedAt = &now
	p.RejectionReason = ""
	p.UpdatedAt = now

	return p, s.save(ctx, p)
}

// Reject moves the profile to rejected and unpublishes it, recording the
// reviewer and the reason shown to the owner. Idempotent like Approve.
func (s *Store) Reject(ctx context.Context, id, reviewerID primitive.ObjectID, reason string) (*models.Profile, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p.Status = models.StatusRejected
	p.Published = false
	p.ReviewedByID = &reviewerID
	p.ReviewedAt = &now
	p.RejectionReason = reason
	p.UpdatedAt = now

	return p, s.save(ctx, p)
}

// TogglePublish flips the published flag without touching status. Only
// approved profiles may be toggled; anything else returns ErrNotApproved
// and leaves the document unchanged.
func (s *Store) TogglePublish(ctx context.Context, id primitive.ObjectID) (*models.Profile, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status != models.StatusApproved {
		return nil, ErrNotApproved
	}

	p.Published = !p.Published
	p.UpdatedAt = time.Now().UTC()

	return p, s.save(ctx, p)
}

// IncrementViews bumps the public view counter. Not a lifecycle
// operation; failures are the caller's to ignore.
func (s *Store) IncrementViews(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"view_count": 1}})
	return err
}

// save replaces the full document by ID.
func (s *Store) save(ctx context.Context, p *models.Profile) error {
	res, err := s.c.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
