package controllers

import (
	"errors"
	"log"
	"net/http"

	"cognigenx/middlewares"
	"cognigenx/models"
	"cognigenx/services"
	"cognigenx/structs"

	"github.com/gin-gonic/gin"
)

func errorBody(message string) gin.H {
	return gin.H{"status": "error", "message": message}
}

// respondBindError answers a request body that failed to bind or validate
func respondBindError(c *gin.Context, err error) {
	body := errorBody("Invalid request body")
	if details := structs.FieldErrors(err); len(details) > 0 {
		body["message"] = "Validation error"
		body["details"] = details
	}
	c.JSON(http.StatusBadRequest, body)
}

// respondError maps service errors onto HTTP statuses
func respondError(c *gin.Context, err error) {
	var validation *services.ValidationError
	var generation *services.GenerationError

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, errorBody(validation.Msg))
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, errorBody("Invalid credentials"))
	case errors.Is(err, services.ErrExpiredCredential):
		c.JSON(http.StatusUnauthorized, errorBody("Unauthorized: Session token has expired"))
	case errors.Is(err, services.ErrMissingCredential), errors.Is(err, services.ErrInvalidCredential):
		c.JSON(http.StatusUnauthorized, errorBody("Unauthorized: Invalid session token"))
	case errors.Is(err, services.ErrDuplicateEmail):
		c.JSON(http.StatusConflict, errorBody("Email already in use"))
	case errors.Is(err, services.ErrInvalidOrExpiredToken):
		c.JSON(http.StatusBadRequest, errorBody("Invalid or expired token"))
	case errors.Is(err, services.ErrNoQuestionsAvailable):
		c.JSON(http.StatusNotFound, errorBody("No questions available for the selected categories."))
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, errorBody("Resource not found"))
	case errors.As(err, &generation):
		log.Printf("[%s] Generation failed: %v", middlewares.RequestID(c), err)
		c.JSON(http.StatusInternalServerError, errorBody(generation.UserMessage()))
	default:
		log.Printf("[%s] %s %s failed: %v", middlewares.RequestID(c), c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, errorBody("Internal Server Error"))
	}
}

// currentUser reads the user set by AuthMiddleware; routes without it answer 401
func currentUser(c *gin.Context) (*models.User, bool) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorBody("Unauthorized"))
		return nil, false
	}
	return user, true
}
