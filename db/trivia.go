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

// TriviaRepository is the Mongo-backed services.TriviaStore
type TriviaRepository struct {
	collection *mongo.Collection
}

func NewTriviaRepository(database *mongo.Database) *TriviaRepository {
	return &TriviaRepository{collection: database.Collection(TriviaCollection)}
}

// AppendQuestions pushes onto the (category, domain) bucket, creating it on first use.
func (r *TriviaRepository) AppendQuestions(ctx context.Context, category, domain string, questions []models.Question) (*models.TriviaCategory, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	filter := bson.M{"category": category, "domain": domain}
	update := bson.M{
		"$push":        bson.M{"questions": bson.M{"$each": questions}},
		"$setOnInsert": bson.M{"createdAt": time.Now()},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var bucket models.TriviaCategory
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&bucket)
	if mongo.IsDuplicateKeyError(err) {
		// lost the race to create the bucket; it exists now
		err = r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&bucket)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to append questions: %w", err)
	}
	return &bucket, nil
}

func (r *TriviaRepository) FindBucket(ctx context.Context, category, domain string) (*models.TriviaCategory, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var bucket models.TriviaCategory
	err := r.collection.FindOne(ctx, bson.M{"category": category, "domain": domain}).Decode(&bucket)
	if err != nil {
		if isNoDocuments(err) {
			return nil, services.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find trivia bucket: %w", err)
	}
	return &bucket, nil
}

func (r *TriviaRepository) FindBucketsByCategory(ctx context.Context, categories []string) ([]models.TriviaCategory, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"category": bson.M{"$in": categories}})
	if err != nil {
		return nil, fmt.Errorf("failed to find trivia buckets: %w", err)
	}
	defer cursor.Close(ctx)

	buckets := []models.TriviaCategory{}
	if err := cursor.All(ctx, &buckets); err != nil {
		return nil, fmt.Errorf("failed to decode trivia buckets: %w", err)
	}
	return buckets, nil
}

func (r *TriviaRepository) FindQuestionByID(ctx context.Context, id primitive.ObjectID) (*models.Question, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	opts := options.FindOne().SetProjection(bson.M{"questions.$": 1})
	var bucket models.TriviaCategory
	if err := r.collection.FindOne(ctx, bson.M{"questions._id": id}, opts).Decode(&bucket); err != nil {
		if isNoDocuments(err) {
			return nil, services.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find question: %w", err)
	}
	if len(bucket.Questions) == 0 {
		return nil, services.ErrNotFound
	}
	return &bucket.Questions[0], nil
}

func (r *TriviaRepository) SetExplanation(ctx context.Context, id primitive.ObjectID, explanation string, at time.Time) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"questions._id": id},
		bson.M{"$set": bson.M{
			"questions.$.explanation":            explanation,
			"questions.$.explanationGeneratedAt": at,
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to cache explanation: %w", err)
	}
	if result.MatchedCount == 0 {
		return services.ErrNotFound
	}
	return nil
}
