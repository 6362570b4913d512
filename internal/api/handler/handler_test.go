package handler

import (
	"context"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gabchak/weather-auth/internal/api/middleware"
	"github.com/gabchak/weather-auth/internal/core/domain"
	"github.com/gabchak/weather-auth/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error)
	loginFn    func(ctx context.Context, email, password string) (*ports.AuthResult, error)
	logoutFn   func(ctx context.Context, identity *domain.Identity) error
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Logout(ctx context.Context, identity *domain.Identity) error {
	return s.logoutFn(ctx, identity)
}

type stubSubscriptions struct {
	extendFn func(ctx context.Context, email string) (time.Time, error)
	statusFn func(ctx context.Context, email string) (*ports.SubscriptionStatus, error)
}

func (s *stubSubscriptions) Extend(ctx context.Context, email string) (time.Time, error) {
	return s.extendFn(ctx, email)
}

func (s *stubSubscriptions) Status(ctx context.Context, email string) (*ports.SubscriptionStatus, error) {
	return s.statusFn(ctx, email)
}

type stubUsers struct {
	ports.UserDirectory
	findByIDFn func(ctx context.Context, id string) (*domain.User, error)
	changeFn   func(ctx context.Context, email, current, next string) error
}

func (s *stubUsers) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return s.findByIDFn(ctx, id)
}

func (s *stubUsers) ChangePassword(ctx context.Context, email, current, next string) error {
	return s.changeFn(ctx, email, current, next)
}

var caller = &domain.Identity{
	UserID:  "u-1",
	Email:   "a@b.com",
	Roles:   domain.NewRoleSet(domain.RoleFreeUser),
	TokenID: "jti-1",
}

// newContext builds an echo context for method and body. A non-nil
// identity is injected the way the Auth middleware would.
func newContext(method, body string, identity *domain.Identity) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if identity != nil {
		c.Set(middleware.IdentityKey, identity)
	}
	return c, rec
}
