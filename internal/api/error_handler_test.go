package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabchak/weather-auth/internal/core/domain"
)

func render(t *testing.T, log zerolog.Logger, err error) (int, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/x", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(log)(err, c)

	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body.Error
}

func TestHTTPErrorHandler_DomainMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
		msg  string
	}{
		{domain.ErrDuplicateEmail, http.StatusConflict, "email already registered"},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{domain.ErrUserNotFound, http.StatusNotFound, "user not found"},
		{fmt.Errorf("wrap: %w", domain.ErrTokenExpired), http.StatusUnauthorized, "unauthenticated"},
		{domain.ErrTokenSignatureInvalid, http.StatusUnauthorized, "unauthenticated"},
		{domain.ErrTokenMalformed, http.StatusUnauthorized, "unauthenticated"},
		{domain.ErrTokenRevoked, http.StatusUnauthorized, "unauthenticated"},
		{domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
		{domain.ErrConcurrentUpdate, http.StatusConflict, "concurrent update, retry the request"},
		{domain.ErrPasswordUnchanged, http.StatusUnprocessableEntity, domain.ErrPasswordUnchanged.Error()},
		{domain.InvalidInput("email is required"), http.StatusUnprocessableEntity, "invalid input: email is required"},
		{echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), http.StatusBadRequest, "invalid payload"},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			code, msg := render(t, zerolog.Nop(), tc.err)
			assert.Equal(t, tc.code, code)
			assert.Equal(t, tc.msg, msg)
		})
	}
}

func TestHTTPErrorHandler_UnexpectedErrorIsLoggedNotLeaked(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	code, msg := render(t, log, errors.New("mongo: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "internal server error", msg)
	assert.Contains(t, buf.String(), "mongo: connection refused")
}
