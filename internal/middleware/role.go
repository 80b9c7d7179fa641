package middleware

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// RoleSource yields the current role of an identity. *repository.UserRepo
// satisfies it directly; CachedRoleSource adds a bounded-staleness cache.
type RoleSource interface {
	RoleByID(ctx context.Context, id uint64) (string, error)
}

// RoleGate returns the authorization gate. It runs after the authentication
// gate and only decides routes that declare a required-role set; public and
// authenticated-only routes pass through untouched.
//
// The decision is made against the identity's role as currently persisted,
// not the role claim inside the token: demoting or promoting a user must
// take effect on their next request, not when their token happens to expire.
// A vanished identity and a role outside the set produce the same generic
// 403 so the response never leaks whether the account still exists.
func RoleGate(meta *MetaRegistry, roles RoleSource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			m := meta.Lookup(c.Request().Method, c.Path())
			if m.Public || len(m.Roles) == 0 {
				return next(c)
			}
			// The auth gate must have run and attached an identity. If it
			// did not, deny rather than trust the absent upstream stage.
			uid, ok := UserID(c)
			if !ok {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			role, err := roles.RoleByID(c.Request().Context(), uid)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
				}
				return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "temporarily unavailable"})
			}
			if !m.Allows(role) {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
