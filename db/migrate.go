package db

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MigrationResult reports what CopyTrivia found and wrote
type MigrationResult struct {
	Found    int
	Inserted int
	Skipped  int
}

// CopyTrivia copies every trivia bucket document from source into target unchanged.
// Buckets whose (category, domain) already exist in target are skipped.
func CopyTrivia(ctx context.Context, source, target *mongo.Database, dryRun bool) (*MigrationResult, error) {
	cursor, err := source.Collection(TriviaCollection).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to read source buckets: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode source buckets: %w", err)
	}

	result := &MigrationResult{Found: len(docs)}
	if len(docs) == 0 || dryRun {
		return result, nil
	}

	batch := make([]interface{}, len(docs))
	for i, doc := range docs {
		batch[i] = doc
	}
	res, err := target.Collection(TriviaCollection).InsertMany(ctx, batch, options.InsertMany().SetOrdered(false))
	if res != nil {
		result.Inserted = len(res.InsertedIDs)
	}
	var bulkErr mongo.BulkWriteException
	if errors.As(err, &bulkErr) && onlyDuplicateKeys(bulkErr) {
		result.Skipped = len(bulkErr.WriteErrors)
		result.Inserted = len(docs) - result.Skipped
		return result, nil
	}
	if err != nil {
		return result, fmt.Errorf("failed to insert buckets: %w", err)
	}
	return result, nil
}

func onlyDuplicateKeys(err mongo.BulkWriteException) bool {
	if err.WriteConcernError != nil {
		return false
	}
	for _, we := range err.WriteErrors {
		if !mongo.IsDuplicateKeyError(we) {
			return false
		}
	}
	return true
}
