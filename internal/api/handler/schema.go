package handler

import (
	"time"

	"github.com/gabchak/weather-auth/internal/core/domain"
	"github.com/gabchak/weather-auth/internal/core/ports"
)

const dateLayout = "2006-01-02"

type registerRequest struct {
	Email     string `json:"email"     validate:"required,email,max=254"`
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName"  validate:"max=100"`
	Password  string `json:"password"  validate:"required,maxbytes=72"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type subscribeRequest struct {
	Email string `json:"email" validate:"omitempty,email"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required,maxbytes=72"`
}

type authResponse struct {
	Token     string   `json:"token"`
	Email     string   `json:"email"`
	Roles     []string `json:"roles"`
	ExpiresAt string   `json:"expiresAt"`
}

type subscriptionResponse struct {
	PaidBeforeDate string `json:"paidBeforeDate"`
}

type subscriptionStatusResponse struct {
	PaidBeforeDate *string `json:"paidBeforeDate"`
	Active         bool    `json:"active"`
}

type userResponse struct {
	ID             string   `json:"id"`
	Email          string   `json:"email"`
	FirstName      string   `json:"firstName"`
	LastName       string   `json:"lastName"`
	Roles          []string `json:"roles"`
	PaidBeforeDate *string  `json:"paidBeforeDate"`
}

// errorResponse documents the error envelope for swag.
type errorResponse struct {
	Error string `json:"error"`
}

func toAuthResponse(res *ports.AuthResult) authResponse {
	return authResponse{
		Token:     res.Token,
		Email:     res.Email,
		Roles:     res.Roles.Authorities(),
		ExpiresAt: res.ExpiresAt.UTC().Format(time.RFC3339),
	}
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:             u.ID,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Roles:          u.Roles.Authorities(),
		PaidBeforeDate: formatDate(u.PaidBeforeDate),
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}
