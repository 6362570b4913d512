package ports

import (
	"context"
	"time"

	"github.com/gabchak/weather-auth/internal/core/domain"
)

// SubscriptionUpdate is a conditional write of a user's subscription state.
// It applies only while the stored paid-before date still equals
// ExpectedPaidBefore (nil matches a user who never subscribed).
type SubscriptionUpdate struct {
	UserID             string
	ExpectedPaidBefore *time.Time
	PaidBefore         time.Time
	Roles              domain.RoleSet
	UpdatedAt          time.Time
}

// CredentialStore defines persistence for user records.
type CredentialStore interface {
	// Create inserts a new user. Returns domain.ErrDuplicateEmail when the
	// normalized email is already taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// FindByEmail performs a case-insensitive lookup.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// UpdateSubscription returns domain.ErrConcurrentUpdate when the
	// precondition does not hold.
	UpdateSubscription(ctx context.Context, upd SubscriptionUpdate) error
	UpdatePassword(ctx context.Context, userID, passwordHash string, updatedAt time.Time) error
}
