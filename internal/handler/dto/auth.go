package dto

import "github.com/taskforge/taskforge/internal/model"

// RegisterRequest represents the request body for user registration.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// GenerateTokenRequest represents the request body for token issuance.
// Same shape and constraints as registration.
type GenerateTokenRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// UserResponse represents a user in API responses.
// The password hash is structurally absent, not merely omitted.
type UserResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// RegisterResponse is the 201 body for successful registration.
type RegisterResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// TokenResponse is the 200 body for successful token issuance.
type TokenResponse struct {
	Token string `json:"token"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ValidationErrorResponse is the 400 body for input validation
// failures, keyed by field name.
type ValidationErrorResponse struct {
	Errors map[string][]string `json:"errors"`
}

// ToUserResponse converts a User model to UserResponse DTO.
func ToUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:    user.ID,
		Email: user.Email,
	}
}
