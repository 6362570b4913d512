package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/gabchak/weather-auth/internal/core/domain"
	"github.com/gabchak/weather-auth/internal/core/ports"
	"github.com/gabchak/weather-auth/internal/pkg/metrics"
)

// Authenticator validates bearer tokens for protected routes.
type Authenticator struct {
	tokens   ports.TokenValidator
	denylist ports.TokenDenylist
	log      zerolog.Logger
}

// NewAuthenticator builds an Authenticator. denylist may be nil.
func NewAuthenticator(tokens ports.TokenValidator, denylist ports.TokenDenylist, log zerolog.Logger) *Authenticator {
	return &Authenticator{tokens: tokens, denylist: denylist, log: log}
}

// Authenticate returns the identity carried by token. A denylist outage
// does not lock users out: the check fails open and is logged.
func (a *Authenticator) Authenticate(ctx context.Context, token string) (*domain.Identity, error) {
	identity, err := a.tokens.Validate(token)
	if err != nil {
		metrics.TokenValidationsTotal.WithLabelValues(tokenFailureLabel(err)).Inc()
		return nil, err
	}

	if a.denylist != nil && identity.TokenID != "" {
		revoked, err := a.denylist.IsRevoked(ctx, identity.TokenID)
		switch {
		case err != nil:
			a.log.Warn().Err(err).Msg("token denylist check failed, accepting token")
		case revoked:
			metrics.TokenValidationsTotal.WithLabelValues("revoked").Inc()
			return nil, domain.ErrTokenRevoked
		}
	}

	metrics.TokenValidationsTotal.WithLabelValues("valid").Inc()
	return identity, nil
}

func tokenFailureLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenSignatureInvalid):
		return "signature_invalid"
	default:
		return "malformed"
	}
}
