package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CategoryCount tracks how often a user played one (category, domain) pair
type CategoryCount struct {
	Category   string    `bson:"category" json:"category"`
	Domain     string    `bson:"domain" json:"domain"`
	Count      int       `bson:"count" json:"count"`
	LastPlayed time.Time `bson:"lastPlayed" json:"lastPlayed"`
}

// UserActivity is the per-user activity record
type UserActivity struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	Categories []CategoryCount    `bson:"categories" json:"categories"`
}

// Preference is one ranked entry returned by the preferences endpoint
type Preference struct {
	Category   string    `json:"category"`
	SubDomain  string    `json:"subDomain"`
	Count      int       `json:"count"`
	LastPlayed time.Time `json:"lastPlayed"`
}
