package models

// Login represents the credentials submitted for user login.
type Login struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

// Identity is what a signed token says about its bearer. User and admin logins
// produce the same shape.
type Identity struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	IsAdmin bool   `json:"isAdmin"`
	Role    string `json:"role"`
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type LoginResponse struct {
	Token string   `json:"token"`
	User  Identity `json:"user"`
}
