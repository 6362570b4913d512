package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/gabchak/weather-auth/internal/core/domain"
	"github.com/gabchak/weather-auth/internal/core/ports"
	"github.com/gabchak/weather-auth/internal/pkg/metrics"
)

// maxExtendAttempts bounds the read-modify-write loop when concurrent
// extensions of the same user keep invalidating the precondition.
const maxExtendAttempts = 3

// SubscriptionService manages paid-before dates.
type SubscriptionService struct {
	store ports.CredentialStore
	log   zerolog.Logger
	now   func() time.Time
}

func NewSubscriptionService(store ports.CredentialStore, log zerolog.Logger) *SubscriptionService {
	return &SubscriptionService{store: store, log: log, now: time.Now}
}

// Extend grants one more month from today unless the current paid period
// already reaches that far. It returns the effective paid-before date.
func (s *SubscriptionService) Extend(ctx context.Context, email string) (time.Time, error) {
	for attempt := 1; attempt <= maxExtendAttempts; attempt++ {
		user, err := s.store.FindByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				metrics.SubscriptionExtensionsTotal.WithLabelValues("not_found").Inc()
				return time.Time{}, domain.ErrUserNotFound
			}
			metrics.SubscriptionExtensionsTotal.WithLabelValues("error").Inc()
			return time.Time{}, fmt.Errorf("extend subscription: lookup: %w", err)
		}

		now := s.now().UTC()
		candidate := domain.SubscriptionCandidate(now)
		if !domain.NeedsExtension(user.PaidBeforeDate, candidate) {
			metrics.SubscriptionExtensionsTotal.WithLabelValues("unchanged").Inc()
			return domain.DateOf(*user.PaidBeforeDate), nil
		}

		err = s.store.UpdateSubscription(ctx, ports.SubscriptionUpdate{
			UserID:             user.ID,
			ExpectedPaidBefore: user.PaidBeforeDate,
			PaidBefore:         candidate,
			Roles:              user.Roles.With(domain.RolePaidUser),
			UpdatedAt:          now,
		})
		if err == nil {
			metrics.SubscriptionExtensionsTotal.WithLabelValues("extended").Inc()
			s.log.Info().
				Str("user_id", user.ID).
				Time("paid_before", candidate).
				Msg("subscription extended")
			return candidate, nil
		}
		if !errors.Is(err, domain.ErrConcurrentUpdate) {
			metrics.SubscriptionExtensionsTotal.WithLabelValues("error").Inc()
			return time.Time{}, fmt.Errorf("extend subscription: update: %w", err)
		}

		metrics.SubscriptionConflictsTotal.Inc()
		s.log.Debug().Str("user_id", user.ID).Int("attempt", attempt).Msg("subscription update lost a race, re-reading")
	}

	metrics.SubscriptionExtensionsTotal.WithLabelValues("conflict").Inc()
	return time.Time{}, domain.ErrConcurrentUpdate
}

// Status reports the paid-before date and whether it still covers today.
func (s *SubscriptionService) Status(ctx context.Context, email string) (*ports.SubscriptionStatus, error) {
	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("subscription status: %w", err)
	}

	st := &ports.SubscriptionStatus{Active: domain.SubscriptionActive(user.PaidBeforeDate, s.now())}
	if user.PaidBeforeDate != nil {
		d := domain.DateOf(*user.PaidBeforeDate)
		st.PaidBeforeDate = &d
	}
	return st, nil
}
