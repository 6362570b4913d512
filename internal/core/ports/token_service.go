package ports

import (
	"context"
	"time"

	"github.com/gabchak/weather-auth/internal/core/domain"
)

// TokenIssuer signs identities for authenticated users.
type TokenIssuer interface {
	Issue(user *domain.User) (string, *domain.Identity, error)
}

// TokenValidator verifies a token and decodes its identity. Implementations
// perform no I/O.
type TokenValidator interface {
	Validate(token string) (*domain.Identity, error)
}

// TokenDenylist records revoked token ids until their natural expiry.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Authenticator resolves a bearer token into an identity, honouring
// revocations.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Identity, error)
}
