package structs

type SignUpRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=50,alphaspace"`
	Email    string `json:"email" binding:"required,email,max=100"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=100"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

// ResetPasswordRequest accepts the new password as "password" or "newPassword"
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	Password    string `json:"password"`
	NewPassword string `json:"newPassword"`
}

func (r ResetPasswordRequest) Secret() string {
	if r.Password != "" {
		return r.Password
	}
	return r.NewPassword
}
