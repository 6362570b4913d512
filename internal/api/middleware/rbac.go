package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gabchak/weather-auth/internal/core/domain"
)

// RBAC admits callers holding at least one of the allowed roles. It must
// run after Auth.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, _ := c.Get(IdentityKey).(*domain.Identity)
			if identity == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
			}
			if !identity.Roles.HasAny(allowedRoles...) {
				return echo.NewHTTPError(http.StatusForbidden, "access forbidden")
			}
			return next(c)
		}
	}
}
