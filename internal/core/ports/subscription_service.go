package ports

import (
	"context"
	"time"
)

// SubscriptionStatus describes a user's paid period.
type SubscriptionStatus struct {
	PaidBeforeDate *time.Time
	Active         bool
}

// SubscriptionService extends and inspects paid periods.
type SubscriptionService interface {
	Extend(ctx context.Context, email string) (time.Time, error)
	Status(ctx context.Context, email string) (*SubscriptionStatus, error)
}
