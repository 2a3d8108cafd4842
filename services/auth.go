package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"
	"unicode"

	"cognigenx/models"
	"cognigenx/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	sessionTokenBytes = 64
	resetTokenBytes   = 32
	maxPasswordLength = 128
)

// Mailer delivers password reset links
type Mailer interface {
	SendPasswordReset(ctx context.Context, email, link string) error
}

// PasswordPolicy is the configurable password rule set
type PasswordPolicy struct {
	MinLength    int
	RequireMixed bool // at least one lower case letter, one upper case letter and one digit
}

// Validate returns a ValidationError describing the first broken rule
func (p PasswordPolicy) Validate(password string) error {
	minLength := p.MinLength
	if minLength <= 0 {
		minLength = 8
	}
	if len(password) < minLength {
		return validationErr("password must be at least %d characters long", minLength)
	}
	if len(password) > maxPasswordLength {
		return validationErr("password must be at most %d characters long", maxPasswordLength)
	}
	if !p.RequireMixed {
		return nil
	}
	var lower, upper, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !lower || !upper || !digit {
		return validationErr("password must contain a lower case letter, an upper case letter and a digit")
	}
	return nil
}

type AuthOptions struct {
	SessionTTL time.Duration
	ResetTTL   time.Duration
	ResetURL   string
	Policy     PasswordPolicy
	Now        func() time.Time
}

// Session is a freshly issued session token. Token is only ever returned here.
type Session struct {
	UserID    primitive.ObjectID
	Token     string
	ExpiresAt time.Time
}

// AuthService owns signup, login, session validation, password reset and account deletion
type AuthService struct {
	users    UserStore
	activity ActivityStore
	mailer   Mailer
	opts     AuthOptions
	now      func() time.Time
}

func NewAuthService(users UserStore, activity ActivityStore, mailer Mailer, opts AuthOptions) *AuthService {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 7 * 24 * time.Hour
	}
	if opts.ResetTTL <= 0 {
		opts.ResetTTL = time.Hour
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &AuthService{
		users:    users,
		activity: activity,
		mailer:   mailer,
		opts:     opts,
		now:      now,
	}
}

// dummyHash keeps login timing the same whether or not the email exists
var dummyHash, _ = utils.HashPassword("not-a-real-password-0")

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) issueSession(ctx context.Context, userID primitive.ObjectID) (*Session, error) {
	token, err := utils.GenerateRandomToken(sessionTokenBytes)
	if err != nil {
		return nil, err
	}
	expiresAt := s.now().Add(s.opts.SessionTTL)
	if err := s.users.UpdateSession(ctx, userID, utils.HashToken(token), expiresAt); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	return &Session{UserID: userID, Token: token, ExpiresAt: expiresAt}, nil
}

// Signup creates the account and its first session
func (s *AuthService) Signup(ctx context.Context, name, email, password string) (*Session, error) {
	if err := s.opts.Policy.Validate(password); err != nil {
		return nil, err
	}
	email = normalizeEmail(email)

	if _, err := s.users.FindUserByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	token, err := utils.GenerateRandomToken(sessionTokenBytes)
	if err != nil {
		return nil, err
	}
	now := s.now()
	expiresAt := now.Add(s.opts.SessionTTL)

	user := &models.User{
		Name:             strings.TrimSpace(name),
		Email:            email,
		Password:         hashed,
		SessionTokenHash: utils.HashToken(token),
		TokenExpiresAt:   &expiresAt,
		CreatedAt:        now,
	}
	// the unique email index catches a concurrent signup that passed the check above
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	log.Printf("User created: %s", user.ID.Hex())
	return &Session{UserID: user.ID, Token: token, ExpiresAt: expiresAt}, nil
}

// Login verifies credentials and rotates the session token
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.FindUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, ErrNotFound) {
		utils.CheckPasswordHash(password, dummyHash)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	return s.issueSession(ctx, user.ID)
}

// ValidateSession resolves a raw bearer token to its user
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*models.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMissingCredential
	}
	hash := utils.HashToken(token)
	now := s.now()

	user, err := s.users.FindUserBySessionHash(ctx, hash, &now)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if _, err := s.users.FindUserBySessionHash(ctx, hash, nil); err == nil {
		return nil, ErrExpiredCredential
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return nil, ErrInvalidCredential
}

// RequestPasswordReset stores a hashed reset token and mails the raw one. Unknown
// emails and mail failures are indistinguishable to the caller.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	user, err := s.users.FindUserByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	raw, err := utils.GenerateRandomToken(resetTokenBytes)
	if err != nil {
		return err
	}
	expiresAt := s.now().Add(s.opts.ResetTTL)
	if err := s.users.SetResetToken(ctx, user.ID, utils.HashToken(raw), expiresAt); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	if s.mailer == nil {
		return nil
	}
	if err := s.mailer.SendPasswordReset(ctx, user.Email, s.resetLink(raw, user.Email)); err != nil {
		log.Printf("Password reset email failed for user %s: %v", user.ID.Hex(), err)
	}
	return nil
}

func (s *AuthService) resetLink(token, email string) string {
	q := url.Values{}
	q.Set("token", token)
	q.Set("email", email)
	sep := "?"
	if strings.Contains(s.opts.ResetURL, "?") {
		sep = "&"
	}
	return s.opts.ResetURL + sep + q.Encode()
}

// ResetPassword consumes a reset token, sets the new password and ends the current session
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrInvalidOrExpiredToken
	}
	user, err := s.users.FindUserByResetHash(ctx, utils.HashToken(token), s.now())
	if errors.Is(err, ErrNotFound) {
		return ErrInvalidOrExpiredToken
	}
	if err != nil {
		return err
	}
	if err := s.opts.Policy.Validate(newPassword); err != nil {
		return err
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.CompletePasswordReset(ctx, user.ID, hashed); err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}
	log.Printf("Password reset completed for user %s", user.ID.Hex())
	return nil
}

// DeleteAccount removes the activity record first, then the user
func (s *AuthService) DeleteAccount(ctx context.Context, userID primitive.ObjectID) error {
	if err := s.activity.DeleteActivity(ctx, userID); err != nil {
		return err
	}
	if err := s.users.DeleteUser(ctx, userID); err != nil {
		return err
	}
	log.Printf("Account deleted: %s", userID.Hex())
	return nil
}

// GetUser returns one user with its activity attached
func (s *AuthService) GetUser(ctx context.Context, userID primitive.ObjectID) (*models.UserView, error) {
	user, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	activity, err := s.activity.FindActivity(ctx, userID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	view := models.NewUserView(*user, activity)
	return &view, nil
}

// ListUsers returns all users; credential fields are excluded from their JSON form
func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.ListUsers(ctx)
}
