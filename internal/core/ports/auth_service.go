package ports

import (
	"context"
	"time"

	"github.com/gabchak/weather-auth/internal/core/domain"
)

// AuthResult is returned on successful login or registration.
type AuthResult struct {
	Token     string
	Email     string
	Roles     domain.RoleSet
	ExpiresAt time.Time
}

// AuthService is the façade used by the transport layer.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Logout(ctx context.Context, identity *domain.Identity) error
}
