package middlewares

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"cognigenx/models"
	"cognigenx/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	UserKey   = "user"
	UserIDKey = "userID"
)

// SessionValidator resolves a raw bearer token to its user
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (*models.User, error)
}

// AuthMiddleware validates the bearer session token and stores the user in the context
func AuthMiddleware(sessions SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Unauthorized: Missing Authorization header")
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" {
			abortUnauthorized(c, "Unauthorized: Missing session token")
			return
		}

		user, err := sessions.ValidateSession(c.Request.Context(), token)
		switch {
		case err == nil:
		case errors.Is(err, services.ErrExpiredCredential):
			abortUnauthorized(c, "Unauthorized: Session token has expired")
			return
		case errors.Is(err, services.ErrInvalidCredential), errors.Is(err, services.ErrMissingCredential):
			abortUnauthorized(c, "Unauthorized: Invalid session token")
			return
		default:
			log.Printf("[%s] Session validation failed: %v", RequestID(c), err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Internal Server Error"})
			return
		}

		c.Set(UserKey, user)
		c.Set(UserIDKey, user.ID)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "error", "message": message})
}

// CurrentUser returns the user stored by AuthMiddleware
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(UserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}

// CurrentUserID returns the id of the user stored by AuthMiddleware
func CurrentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, ok := v.(primitive.ObjectID)
	return id, ok && !id.IsZero()
}
