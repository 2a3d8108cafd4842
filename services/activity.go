package services

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"cognigenx/models"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityService records plays and ranks a user's favourite categories
type ActivityService struct {
	store ActivityStore
	now   func() time.Time
}

func NewActivityService(store ActivityStore) *ActivityService {
	return &ActivityService{store: store, now: time.Now}
}

// LogActivity counts one play of (category, domain) for the user
func (s *ActivityService) LogActivity(ctx context.Context, userID primitive.ObjectID, category, domain string) error {
	category = strings.TrimSpace(category)
	domain = strings.TrimSpace(domain)
	if category == "" || domain == "" {
		return validationErr("Both category and domain are required.")
	}
	return s.store.IncrementCategory(ctx, userID, category, domain, s.now())
}

// GetPreferences ranks the user's categories by play count, most played first.
// Equal counts go to the most recently played, then by category and subdomain name.
func (s *ActivityService) GetPreferences(ctx context.Context, userID primitive.ObjectID) ([]models.Preference, error) {
	activity, err := s.store.FindActivity(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return []models.Preference{}, nil
	}
	if err != nil {
		return nil, err
	}
	return RankPreferences(activity.Categories), nil
}

// RankPreferences sorts a copy of the counts into preference order
func RankPreferences(counts []models.CategoryCount) []models.Preference {
	prefs := lo.Map(counts, func(c models.CategoryCount, _ int) models.Preference {
		return models.Preference{
			Category:   c.Category,
			SubDomain:  c.Domain,
			Count:      c.Count,
			LastPlayed: c.LastPlayed,
		}
	})
	slices.SortFunc(prefs, func(a, b models.Preference) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		if c := b.LastPlayed.Compare(a.LastPlayed); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Category, b.Category); c != 0 {
			return c
		}
		return cmp.Compare(a.SubDomain, b.SubDomain)
	})
	return prefs
}
