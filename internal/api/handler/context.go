package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gabchak/weather-auth/internal/api/middleware"
	"github.com/gabchak/weather-auth/internal/core/domain"
)

// ctxIdentity returns the identity injected by the Auth middleware. A
// missing identity means the route was mounted without the middleware.
func ctxIdentity(c echo.Context) (*domain.Identity, error) {
	identity, _ := c.Get(middleware.IdentityKey).(*domain.Identity)
	if identity == nil || identity.Email == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}
	return identity, nil
}

// bindAndValidate decodes the body into req and runs the registered
// validator. Undecodable bodies are a 400; rule violations surface as
// domain.ErrInvalidInput.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return domain.InvalidInput(err.Error())
	}
	return nil
}
