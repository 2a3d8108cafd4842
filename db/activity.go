package db

import (
	"context"
	"fmt"
	"time"

	"cognigenx/models"
	"cognigenx/services"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// maxIncrementAttempts bounds the retries after losing an upsert race on the userId index
const maxIncrementAttempts = 3

// ActivityRepository is the Mongo-backed services.ActivityStore
type ActivityRepository struct {
	collection *mongo.Collection
}

func NewActivityRepository(database *mongo.Database) *ActivityRepository {
	return &ActivityRepository{collection: database.Collection(ActivityCollection)}
}

// IncrementCategory never reads the record: an existing entry is bumped in place with
// $inc, a missing one is pushed with an upsert guarded by $not/$elemMatch.
func (r *ActivityRepository) IncrementCategory(ctx context.Context, userID primitive.ObjectID, category, domain string, at time.Time) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	pair := bson.M{"category": category, "domain": domain}

	var lastErr error
	for attempt := 0; attempt < maxIncrementAttempts; attempt++ {
		result, err := r.collection.UpdateOne(ctx,
			bson.M{"userId": userID, "categories": bson.M{"$elemMatch": pair}},
			bson.M{
				"$inc": bson.M{"categories.$.count": 1},
				"$set": bson.M{"categories.$.lastPlayed": at},
			},
		)
		if err != nil {
			return fmt.Errorf("failed to increment activity: %w", err)
		}
		if result.MatchedCount > 0 {
			return nil
		}

		_, err = r.collection.UpdateOne(ctx,
			bson.M{"userId": userID, "categories": bson.M{"$not": bson.M{"$elemMatch": pair}}},
			bson.M{"$push": bson.M{"categories": models.CategoryCount{
				Category:   category,
				Domain:     domain,
				Count:      1,
				LastPlayed: at,
			}}},
			options.Update().SetUpsert(true),
		)
		if err == nil {
			return nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("failed to append activity: %w", err)
		}
		// another request created the record or the entry first
		lastErr = err
	}
	return fmt.Errorf("failed to log activity after %d attempts: %w", maxIncrementAttempts, lastErr)
}

func (r *ActivityRepository) FindActivity(ctx context.Context, userID primitive.ObjectID) (*models.UserActivity, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var activity models.UserActivity
	if err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&activity); err != nil {
		if isNoDocuments(err) {
			return nil, services.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find activity: %w", err)
	}
	return &activity, nil
}

func (r *ActivityRepository) DeleteActivity(ctx context.Context, userID primitive.ObjectID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if _, err := r.collection.DeleteMany(ctx, bson.M{"userId": userID}); err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	return nil
}
