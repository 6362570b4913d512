package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabchak/weather-auth/internal/core/domain"
)

func TestUserHandler_Me(t *testing.T) {
	pb := time.Date(2026, 11, 15, 0, 0, 0, 0, time.UTC)
	stub := &stubUsers{
		findByIDFn: func(_ context.Context, id string) (*domain.User, error) {
			assert.Equal(t, "u-1", id)
			return &domain.User{
				ID:             "u-1",
				Email:          "a@b.com",
				FirstName:      "A",
				LastName:       "B",
				PasswordHash:   "$2a$10$secret",
				Roles:          domain.NewRoleSet(domain.RoleFreeUser, domain.RolePaidUser),
				PaidBeforeDate: &pb,
			}, nil
		},
	}
	c, rec := newContext(http.MethodGet, "", caller)

	require.NoError(t, NewUserHandler(stub).Me(c))

	var resp userResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "u-1", resp.ID)
	assert.ElementsMatch(t, []string{"ROLE_FREE_USER", "ROLE_PAID_USER"}, resp.Roles)
	require.NotNil(t, resp.PaidBeforeDate)
	assert.Equal(t, "2026-11-15", *resp.PaidBeforeDate)
	assert.NotContains(t, rec.Body.String(), "$2a$10$secret")
}

func TestUserHandler_Me_DeletedAccount(t *testing.T) {
	stub := &stubUsers{
		findByIDFn: func(context.Context, string) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}
	c, _ := newContext(http.MethodGet, "", caller)

	assert.ErrorIs(t, NewUserHandler(stub).Me(c), domain.ErrUserNotFound)
}

func TestUserHandler_ChangePassword(t *testing.T) {
	stub := &stubUsers{
		changeFn: func(_ context.Context, email, current, next string) error {
			assert.Equal(t, "a@b.com", email)
			assert.Equal(t, "old", current)
			assert.Equal(t, "new-secret", next)
			return nil
		},
	}
	c, rec := newContext(http.MethodPut, `{"currentPassword":"old","newPassword":"new-secret"}`, caller)

	require.NoError(t, NewUserHandler(stub).ChangePassword(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestUserHandler_ChangePassword_Errors(t *testing.T) {
	stub := &stubUsers{
		changeFn: func(context.Context, string, string, string) error {
			return domain.ErrPasswordUnchanged
		},
	}
	c, _ := newContext(http.MethodPut, `{"currentPassword":"same","newPassword":"same"}`, caller)
	assert.ErrorIs(t, NewUserHandler(stub).ChangePassword(c), domain.ErrPasswordUnchanged)

	c, _ = newContext(http.MethodPut, `{"currentPassword":"old"}`, caller)
	assert.ErrorIs(t, NewUserHandler(stub).ChangePassword(c), domain.ErrInvalidInput)
}
