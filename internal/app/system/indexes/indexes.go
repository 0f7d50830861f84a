// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"

	"github.com/dalemusser/rishtahub/internal/app/store/oauthstate"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// EnsureAll creates every index the application relies on. CreateMany is
// idempotent for indexes with matching definitions, so this is safe to
// run on every startup.
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	sets := []struct {
		collection string
		models     []mongo.IndexModel
	}{
		{
			collection: "users",
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "email", Value: 1}},
					Options: options.Index().SetUnique(true).SetName("idx_users_email"),
				},
				{
					Keys:    bson.D{{Key: "paid", Value: 1}, {Key: "status", Value: 1}},
					Options: options.Index().SetName("idx_users_paid_status"),
				},
			},
		},
		{
			collection: "profiles",
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "user_id", Value: 1}},
					Options: options.Index().SetUnique(true).SetName("idx_profiles_user"),
				},
				// Public browse: status+published predicate, newest first.
				{
					Keys: bson.D{
						{Key: "status", Value: 1},
						{Key: "published", Value: 1},
						{Key: "created_at", Value: -1},
					},
					Options: options.Index().SetName("idx_profiles_visibility"),
				},
				{
					Keys:    bson.D{{Key: "gender", Value: 1}},
					Options: options.Index().SetName("idx_profiles_gender"),
				},
				{
					Keys:    bson.D{{Key: "city_ci", Value: 1}},
					Options: options.Index().SetName("idx_profiles_city"),
				},
				{
					Keys:    bson.D{{Key: "age", Value: 1}},
					Options: options.Index().SetName("idx_profiles_age"),
				},
			},
		},
		{
			collection: "payments",
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "status", Value: 1}},
					Options: options.Index().SetName("idx_payments_user_status"),
				},
				{
					Keys:    bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
					Options: options.Index().SetName("idx_payments_queue"),
				},
			},
		},
		{
			collection: "audit_events",
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "category", Value: 1}, {Key: "created_at", Value: -1}},
					Options: options.Index().SetName("idx_audit_category"),
				},
				{
					Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
					Options: options.Index().SetName("idx_audit_user"),
				},
			},
		},
	}

	for _, set := range sets {
		if _, err := db.Collection(set.collection).Indexes().CreateMany(ctx, set.models); err != nil {
			logger.Error("failed to create indexes",
				zap.String("collection", set.collection), zap.Error(err))
			return err
		}
	}

	if err := oauthstate.New(db).EnsureIndexes(ctx); err != nil {
		logger.Error("failed to create oauth state indexes", zap.Error(err))
		return err
	}

	logger.Info("database indexes ensured")
	return nil
}
