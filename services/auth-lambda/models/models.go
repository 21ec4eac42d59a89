package models

import "time"

// User is an account document in the Users collection.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"` // bcrypt digest, never serialized
	Disabled  bool      `json:"disabled"`
	Scopes    []string  `json:"scopes"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginRequest is the payload for POST /auth/token.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest is the payload for user and moderator registration.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// AssignModeratorRequest promotes an existing user to moderator.
type AssignModeratorRequest struct {
	Username string `json:"username"`
}

// ForgotPasswordRequest starts the OTP reset flow.
type ForgotPasswordRequest struct {
	Username string `json:"username"`
}

// VerifyOTPRequest completes the OTP reset flow. The target account comes
// from the caller's bearer token, never from the body.
type VerifyOTPRequest struct {
	OTP         string `json:"otp"`
	NewPassword string `json:"new_password"`
}

// AuthResponse carries an issued bearer token.
type AuthResponse struct {
	Token     string `json:"access_token"`
	TokenType string `json:"token_type"`
}

// UserTypeResponse reports the caller's effective role.
type UserTypeResponse struct {
	Username string `json:"username"`
	UserType string `json:"user_type"`
}
