package controllers

import (
	"net/http"

	"cognigenx/services"
	"cognigenx/structs"

	"github.com/gin-gonic/gin"
)

const resetRequestedMessage = "If an account with that email exists, a password reset link has been sent."

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

func (a *AuthController) SignUp(c *gin.Context) {
	var request structs.SignUpRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respondBindError(c, err)
		return
	}

	session, err := a.auth.Signup(c.Request.Context(), request.Name, request.Email, request.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":       "success",
		"sessionToken": session.Token,
		"expiresAt":    session.ExpiresAt,
		"message":      "Account created successfully",
	})
}

func (a *AuthController) Login(c *gin.Context) {
	var request structs.LoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respondBindError(c, err)
		return
	}

	session, err := a.auth.Login(c.Request.Context(), request.Email, request.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":       "success",
		"sessionToken": session.Token,
		"expiresAt":    session.ExpiresAt,
		"message":      "Login successful",
	})
}

func (a *AuthController) GetUserID(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"userId": user.ID.Hex()})
}

func (a *AuthController) RequestPasswordReset(c *gin.Context) {
	var request structs.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respondBindError(c, err)
		return
	}

	if err := a.auth.RequestPasswordReset(c.Request.Context(), request.Email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": resetRequestedMessage})
}

func (a *AuthController) ResetPassword(c *gin.Context) {
	var request structs.ResetPasswordRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respondBindError(c, err)
		return
	}
	if request.Secret() == "" {
		c.JSON(http.StatusBadRequest, errorBody("Token and new password are required"))
		return
	}

	if err := a.auth.ResetPassword(c.Request.Context(), request.Token, request.Secret()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Password has been reset. Please log in again."})
}

func (a *AuthController) DeleteAccount(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if err := a.auth.DeleteAccount(c.Request.Context(), user.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Account deleted successfully"})
}
