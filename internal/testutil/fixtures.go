package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/rishtahub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a test user account with the given email.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.insertUser(ctx, fullName, email, "user", false)
}

// CreateAdmin inserts a test admin account.
func (f *Fixtures) CreateAdmin(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.insertUser(ctx, fullName, email, "admin", true)
}

// CreatePaidUser inserts a test user whose listing fee is already
// verified.
func (f *Fixtures) CreatePaidUser(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.insertUser(ctx, fullName, email, "user", true)
}

func (f *Fixtures) insertUser(ctx context.Context, fullName, email, role string, paid bool) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	hash := "$2a$10$testhashNotARealBcryptHashButLongEnough1234567890ab"
	u := models.User{
		ID:           primitive.NewObjectID(),
		FullName:     fullName,
		FullNameCI:   text.Fold(fullName),
		Email:        email,
		AuthMethod:   "password",
		PasswordHash: &hash,
		Role:         role,
		Status:       "active",
		Paid:         paid,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateProfile inserts a test profile for the given user in the given
// status. Approved profiles are published, matching the effect of an
// admin approval.
func (f *Fixtures) CreateProfile(ctx context.Context, userID primitive.ObjectID, status string) models.Profile {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Profile{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Status:    status,
		Published: status == models.StatusApproved,
		FullName:  "Test Person",
		Gender:    "female",
		Age:       27,
		City:      "Lahore",
		CityCI:    text.Fold("Lahore"),
		Photos:    []models.Photo{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("profiles").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test profile: %v", err)
	}
	return p
}

// CreatePayment inserts a test payment in the given status.
func (f *Fixtures) CreatePayment(ctx context.Context, userID primitive.ObjectID, status string) models.Payment {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Payment{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Amount:    150000,
		Currency:  "PKR",
		Method:    "bank_transfer",
		Reference: "TEST-" + primitive.NewObjectID().Hex()[:8],
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("payments").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test payment: %v", err)
	}
	return p
}
