// Package memstore keeps users, activity and trivia in process memory. It backs the
// server when no MongoDB URI is configured and is used by the service and handler tests.
package memstore

import (
	"context"
	"sync"
	"time"

	"cognigenx/models"
	"cognigenx/services"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type bucketKey struct {
	category string
	domain   string
}

// Store implements services.UserStore, services.ActivityStore and services.TriviaStore
type Store struct {
	mu       sync.RWMutex
	users    map[primitive.ObjectID]models.User
	activity map[primitive.ObjectID]models.UserActivity
	buckets  map[bucketKey]models.TriviaCategory
	order    []bucketKey
}

func New() *Store {
	return &Store{
		users:    make(map[primitive.ObjectID]models.User),
		activity: make(map[primitive.ObjectID]models.UserActivity),
		buckets:  make(map[bucketKey]models.TriviaCategory),
	}
}

var (
	_ services.UserStore     = (*Store)(nil)
	_ services.ActivityStore = (*Store)(nil)
	_ services.TriviaStore   = (*Store)(nil)
)

// users

func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email {
			return services.ErrDuplicateEmail
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	s.users[user.ID] = *user
	return nil
}

func (s *Store) findUser(match func(u models.User) bool) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if match(u) {
			found := u
			return &found, nil
		}
	}
	return nil, services.ErrNotFound
}

func (s *Store) FindUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.findUser(func(u models.User) bool { return u.ID == id })
}

func (s *Store) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	return s.findUser(func(u models.User) bool { return u.Email == email })
}

func (s *Store) FindUserBySessionHash(_ context.Context, hash string, activeAt *time.Time) (*models.User, error) {
	return s.findUser(func(u models.User) bool {
		if hash == "" || u.SessionTokenHash != hash {
			return false
		}
		return activeAt == nil || u.SessionActive(*activeAt)
	})
}

func (s *Store) FindUserByResetHash(_ context.Context, hash string, now time.Time) (*models.User, error) {
	return s.findUser(func(u models.User) bool {
		return hash != "" && u.ResetPasswordToken == hash &&
			u.ResetPasswordExpires != nil && u.ResetPasswordExpires.After(now)
	})
}

func (s *Store) updateUser(id primitive.ObjectID, mutate func(u *models.User)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return services.ErrNotFound
	}
	mutate(&u)
	s.users[id] = u
	return nil
}

func (s *Store) UpdateSession(_ context.Context, id primitive.ObjectID, hash string, expiresAt time.Time) error {
	return s.updateUser(id, func(u *models.User) {
		u.SessionTokenHash = hash
		u.TokenExpiresAt = &expiresAt
	})
}

func (s *Store) SetResetToken(_ context.Context, id primitive.ObjectID, hash string, expiresAt time.Time) error {
	return s.updateUser(id, func(u *models.User) {
		u.ResetPasswordToken = hash
		u.ResetPasswordExpires = &expiresAt
	})
}

func (s *Store) CompletePasswordReset(_ context.Context, id primitive.ObjectID, passwordHash string) error {
	return s.updateUser(id, func(u *models.User) {
		u.Password = passwordHash
		u.ResetPasswordToken = ""
		u.ResetPasswordExpires = nil
		u.SessionTokenHash = ""
		u.TokenExpiresAt = nil
	})
}

func (s *Store) DeleteUser(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
	return nil
}

func (s *Store) ListUsers(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	return users, nil
}

// activity

func (s *Store) IncrementCategory(_ context.Context, userID primitive.ObjectID, category, domain string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.activity[userID]
	if !ok {
		record = models.UserActivity{ID: primitive.NewObjectID(), UserID: userID}
	}
	categories := append([]models.CategoryCount(nil), record.Categories...)
	found := false
	for i := range categories {
		if categories[i].Category == category && categories[i].Domain == domain {
			categories[i].Count++
			categories[i].LastPlayed = at
			found = true
			break
		}
	}
	if !found {
		categories = append(categories, models.CategoryCount{
			Category:   category,
			Domain:     domain,
			Count:      1,
			LastPlayed: at,
		})
	}
	record.Categories = categories
	s.activity[userID] = record
	return nil
}

func (s *Store) FindActivity(_ context.Context, userID primitive.ObjectID) (*models.UserActivity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.activity[userID]
	if !ok {
		return nil, services.ErrNotFound
	}
	record.Categories = append([]models.CategoryCount(nil), record.Categories...)
	return &record, nil
}

func (s *Store) DeleteActivity(_ context.Context, userID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.activity, userID)
	return nil
}

// trivia

func copyBucket(b models.TriviaCategory) *models.TriviaCategory {
	b.Questions = append([]models.Question(nil), b.Questions...)
	return &b
}

func (s *Store) AppendQuestions(_ context.Context, category, domain string, questions []models.Question) (*models.TriviaCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := bucketKey{category, domain}
	bucket, ok := s.buckets[key]
	if !ok {
		bucket = models.TriviaCategory{
			ID:        primitive.NewObjectID(),
			Category:  category,
			Domain:    domain,
			CreatedAt: time.Now(),
		}
		s.order = append(s.order, key)
	}
	bucket.Questions = append(append([]models.Question(nil), bucket.Questions...), questions...)
	s.buckets[key] = bucket
	return copyBucket(bucket), nil
}

func (s *Store) FindBucket(_ context.Context, category, domain string) (*models.TriviaCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bucket, ok := s.buckets[bucketKey{category, domain}]
	if !ok {
		return nil, services.ErrNotFound
	}
	return copyBucket(bucket), nil
}

func (s *Store) FindBucketsByCategory(_ context.Context, categories []string) ([]models.TriviaCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[string]bool, len(categories))
	for _, c := range categories {
		wanted[c] = true
	}
	buckets := []models.TriviaCategory{}
	for _, key := range s.order {
		if wanted[key.category] {
			buckets = append(buckets, *copyBucket(s.buckets[key]))
		}
	}
	return buckets, nil
}

func (s *Store) FindQuestionByID(_ context.Context, id primitive.ObjectID) (*models.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, bucket := range s.buckets {
		for _, q := range bucket.Questions {
			if q.ID == id {
				found := q
				return &found, nil
			}
		}
	}
	return nil, services.ErrNotFound
}

func (s *Store) SetExplanation(_ context.Context, id primitive.ObjectID, explanation string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, bucket := range s.buckets {
		for i := range bucket.Questions {
			if bucket.Questions[i].ID != id {
				continue
			}
			questions := append([]models.Question(nil), bucket.Questions...)
			questions[i].Explanation = explanation
			questions[i].ExplanationGeneratedAt = &at
			bucket.Questions = questions
			s.buckets[key] = bucket
			return nil
		}
	}
	return services.ErrNotFound
}
