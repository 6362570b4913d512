package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabchak/weather-auth/internal/core/domain"
)

func testUser() *domain.User {
	return &domain.User{
		ID:    "user-1",
		Email: "a@b.com",
		Roles: domain.NewRoleSet(domain.RoleFreeUser, domain.RolePaidUser),
	}
}

func TestNewTokenService_RequiresSecret(t *testing.T) {
	_, err := NewTokenService(TokenConfig{})
	assert.ErrorIs(t, err, ErrMissingSigningKey)
}

func TestNewTokenService_DefaultTTL(t *testing.T) {
	svc, err := NewTokenService(TokenConfig{Secret: []byte("k")})
	require.NoError(t, err)
	assert.Equal(t, time.Hour, svc.TTL())
}

func TestTokenService_RoundTrip(t *testing.T) {
	svc := newTestTokens(t)
	user := testUser()

	token, issued, err := svc.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	identity, err := svc.Validate(token)
	require.NoError(t, err)

	assert.Equal(t, user.ID, identity.UserID)
	assert.Equal(t, user.Email, identity.Email)
	assert.Equal(t, user.Roles, identity.Roles)
	assert.Equal(t, issued.TokenID, identity.TokenID)
	assert.Equal(t, issued.ExpiresAt, identity.ExpiresAt)
	assert.Equal(t, time.Hour, identity.ExpiresAt.Sub(identity.IssuedAt))
}

func TestTokenService_TokensAreUnique(t *testing.T) {
	svc := newTestTokens(t)
	svc.now = fixedClock(time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC))

	t1, _, err := svc.Issue(testUser())
	require.NoError(t, err)
	t2, _, err := svc.Issue(testUser())
	require.NoError(t, err)

	assert.NotEqual(t, t1, t2)
}

func TestTokenService_Expired(t *testing.T) {
	svc := newTestTokens(t)
	issuedAt := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	svc.now = fixedClock(issuedAt)

	token, _, err := svc.Issue(testUser())
	require.NoError(t, err)

	svc.now = fixedClock(issuedAt.Add(time.Hour - time.Second))
	_, err = svc.Validate(token)
	require.NoError(t, err, "token must be valid just before expiry")

	svc.now = fixedClock(issuedAt.Add(time.Hour))
	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)

	svc.now = fixedClock(issuedAt.Add(48 * time.Hour))
	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestTokenService_SignatureInvalid(t *testing.T) {
	svc := newTestTokens(t)
	other, err := NewTokenService(TokenConfig{Secret: []byte("another-key"), Issuer: "weather-auth"})
	require.NoError(t, err)

	token, _, err := other.Issue(testUser())
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, domain.ErrTokenSignatureInvalid)
}

func TestTokenService_ForgedExpiredTokenReportsSignature(t *testing.T) {
	issuedAt := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	other, err := NewTokenService(TokenConfig{Secret: []byte("another-key"), Issuer: "weather-auth"})
	require.NoError(t, err)
	other.now = fixedClock(issuedAt)

	token, _, err := other.Issue(testUser())
	require.NoError(t, err)

	svc := newTestTokens(t)
	svc.now = fixedClock(issuedAt.Add(48 * time.Hour))
	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, domain.ErrTokenSignatureInvalid)
	assert.NotErrorIs(t, err, domain.ErrTokenExpired)
}

func TestTokenService_RejectsOtherAlgorithms(t *testing.T) {
	svc := newTestTokens(t)
	claims := jwt.MapClaims{
		"sub":   "user-1",
		"email": "a@b.com",
		"iss":   "weather-auth",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, domain.ErrTokenSignatureInvalid)
}

func TestTokenService_Malformed(t *testing.T) {
	svc := newTestTokens(t)

	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		_, err := svc.Validate(raw)
		assert.ErrorIs(t, err, domain.ErrTokenMalformed, raw)
	}
}

func TestTokenService_MissingClaims(t *testing.T) {
	svc := newTestTokens(t)
	claims := jwt.MapClaims{
		"iss": "weather-auth",
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, domain.ErrTokenMalformed)
}

func TestTokenService_MissingExpiry(t *testing.T) {
	svc := newTestTokens(t)
	claims := jwt.MapClaims{"sub": "user-1", "email": "a@b.com", "iss": "weather-auth"}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, domain.ErrTokenMalformed)
}

func TestTokenService_WrongIssuer(t *testing.T) {
	svc := newTestTokens(t)
	other, err := NewTokenService(TokenConfig{Secret: []byte(testSecret), Issuer: "someone-else"})
	require.NoError(t, err)

	token, _, err := other.Issue(testUser())
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, domain.ErrTokenMalformed)
}
