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

// AuthService composes the user directory and the token issuer into the
// login and registration flows.
type AuthService struct {
	users    ports.UserDirectory
	tokens   ports.TokenIssuer
	denylist ports.TokenDenylist
	log      zerolog.Logger
	now      func() time.Time
}

// NewAuthService wires the façade. denylist may be nil, in which case
// Logout is a no-op and tokens live until they expire.
func NewAuthService(users ports.UserDirectory, tokens ports.TokenIssuer, denylist ports.TokenDenylist, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, denylist: denylist, log: log, now: time.Now}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	user, err := s.users.Register(ctx, in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateEmail):
			metrics.RegistrationsTotal.WithLabelValues("duplicate_email").Inc()
		default:
			metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	res, err := s.issue(user)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	return res, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	user, err := s.users.VerifyCredentials(ctx, email, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			s.log.Debug().Msg("login rejected")
		} else {
			metrics.LoginsTotal.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	res, err := s.issue(user)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return res, nil
}

// Logout revokes the presented token until its expiry.
func (s *AuthService) Logout(ctx context.Context, identity *domain.Identity) error {
	if s.denylist == nil {
		s.log.Warn().Msg("logout requested but token revocation is not configured")
		return nil
	}
	if identity == nil || identity.TokenID == "" {
		return domain.ErrTokenMalformed
	}

	ttl := identity.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.denylist.Revoke(ctx, identity.TokenID, ttl); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.log.Info().Str("user_id", identity.UserID).Msg("token revoked")
	return nil
}

func (s *AuthService) issue(user *domain.User) (*ports.AuthResult, error) {
	token, identity, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{
		Token:     token,
		Email:     user.Email,
		Roles:     user.Roles.Clone(),
		ExpiresAt: identity.ExpiresAt,
	}, nil
}
