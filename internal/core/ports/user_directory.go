package ports

import (
	"context"

	"github.com/gabchak/weather-auth/internal/core/domain"
)

// RegisterInput carries the data needed to create an account.
type RegisterInput struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
}

// UserDirectory maps registration and login requests to user records.
type UserDirectory interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	VerifyCredentials(ctx context.Context, email, password string) (*domain.User, error)
	ChangePassword(ctx context.Context, email, current, next string) error
}
