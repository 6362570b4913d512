package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabchak/weather-auth/internal/core/domain"
)

func TestAuthenticator_Valid(t *testing.T) {
	tokens := newTestTokens(t)
	a := NewAuthenticator(tokens, newStubDenylist(), discardLogger)

	token, _, err := tokens.Issue(testUser())
	require.NoError(t, err)

	identity, err := a.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", identity.Email)
}

func TestAuthenticator_Revoked(t *testing.T) {
	tokens := newTestTokens(t)
	denylist := newStubDenylist()
	a := NewAuthenticator(tokens, denylist, discardLogger)

	token, identity, err := tokens.Issue(testUser())
	require.NoError(t, err)
	denylist.revoked[identity.TokenID] = time.Minute

	_, err = a.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrTokenRevoked)
	assert.True(t, domain.IsTokenError(err))
}

func TestAuthenticator_DenylistOutageFailsOpen(t *testing.T) {
	tokens := newTestTokens(t)
	denylist := newStubDenylist()
	denylist.err = errors.New("redis down")
	a := NewAuthenticator(tokens, denylist, discardLogger)

	token, _, err := tokens.Issue(testUser())
	require.NoError(t, err)

	_, err = a.Authenticate(context.Background(), token)
	assert.NoError(t, err)
}

func TestAuthenticator_InvalidToken(t *testing.T) {
	a := NewAuthenticator(newTestTokens(t), nil, discardLogger)

	_, err := a.Authenticate(context.Background(), "garbage")
	assert.ErrorIs(t, err, domain.ErrTokenMalformed)
	assert.True(t, domain.IsTokenError(err))
}
