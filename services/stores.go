package services

import (
	"context"
	"time"

	"cognigenx/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserStore persists user accounts. Lookups that match nothing return ErrNotFound;
// CreateUser returns ErrDuplicateEmail when the email is taken.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	// FindUserBySessionHash matches the stored session hash. When activeAt is non-nil
	// only sessions without expiry or expiring after activeAt match.
	FindUserBySessionHash(ctx context.Context, hash string, activeAt *time.Time) (*models.User, error)
	FindUserByResetHash(ctx context.Context, hash string, now time.Time) (*models.User, error)
	UpdateSession(ctx context.Context, id primitive.ObjectID, hash string, expiresAt time.Time) error
	SetResetToken(ctx context.Context, id primitive.ObjectID, hash string, expiresAt time.Time) error
	// CompletePasswordReset stores the new password hash and clears reset and session fields.
	CompletePasswordReset(ctx context.Context, id primitive.ObjectID, passwordHash string) error
	DeleteUser(ctx context.Context, id primitive.ObjectID) error
	ListUsers(ctx context.Context) ([]models.User, error)
}

// ActivityStore persists per-user play counts
type ActivityStore interface {
	// IncrementCategory atomically bumps the (category, domain) counter, creating the
	// record or the entry when missing.
	IncrementCategory(ctx context.Context, userID primitive.ObjectID, category, domain string, at time.Time) error
	FindActivity(ctx context.Context, userID primitive.ObjectID) (*models.UserActivity, error)
	DeleteActivity(ctx context.Context, userID primitive.ObjectID) error
}

// TriviaStore persists question buckets keyed by (category, domain)
type TriviaStore interface {
	AppendQuestions(ctx context.Context, category, domain string, questions []models.Question) (*models.TriviaCategory, error)
	FindBucket(ctx context.Context, category, domain string) (*models.TriviaCategory, error)
	FindBucketsByCategory(ctx context.Context, categories []string) ([]models.TriviaCategory, error)
	FindQuestionByID(ctx context.Context, id primitive.ObjectID) (*models.Question, error)
	SetExplanation(ctx context.Context, id primitive.ObjectID, explanation string, at time.Time) error
}
