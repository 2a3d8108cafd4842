package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User defines a user account. Credentials and token hashes never leave the server.
type User struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name                 string             `bson:"name" json:"name"`
	Email                string             `bson:"email" json:"email"`
	Password             string             `bson:"password" json:"-"`
	SessionTokenHash     string             `bson:"sessionTokenHash,omitempty" json:"-"`
	TokenExpiresAt       *time.Time         `bson:"tokenExpiresAt,omitempty" json:"-"`
	ResetPasswordToken   string             `bson:"resetPasswordToken,omitempty" json:"-"`
	ResetPasswordExpires *time.Time         `bson:"resetPasswordExpires,omitempty" json:"-"`
	CreatedAt            time.Time          `bson:"createdAt" json:"createdAt"`
}

// SessionActive reports whether the stored session token is usable at now.
// A missing expiry marks a legacy token that never expires.
func (u *User) SessionActive(now time.Time) bool {
	return u.TokenExpiresAt == nil || u.TokenExpiresAt.After(now)
}

// UserView is the public shape of a user with its activity history attached.
type UserView struct {
	ID         primitive.ObjectID `json:"_id"`
	Name       string             `json:"name"`
	Email      string             `json:"email"`
	CreatedAt  time.Time          `json:"createdAt"`
	Activities []CategoryCount    `json:"activities"`
}

// NewUserView composes a user with its activity record. activity may be nil.
func NewUserView(user User, activity *UserActivity) UserView {
	view := UserView{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		CreatedAt:  user.CreatedAt,
		Activities: []CategoryCount{},
	}
	if activity != nil && len(activity.Categories) > 0 {
		view.Activities = append(view.Activities, activity.Categories...)
	}
	return view
}
