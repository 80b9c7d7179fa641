package middleware // middleware contains the request gates and shared HTTP middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/minafarid/academic-records-api/internal/utils"
)

// Context keys set by the authentication gate for downstream stages.
const (
	CtxUserID     = "user_id"          // uint64 subject of the verified token
	CtxEmail      = "email"            // email claim
	CtxRole       = "role"             // role claim (informational; authorization re-reads the store)
	CtxRefreshRaw = "refresh_raw"      // raw refresh token, set only on refresh-gated routes
)

// AuthGate returns the authentication gate. It is registered globally and
// runs first in the chain: every route is protected unless its metadata says
// otherwise. Per request it either bypasses (public route), rejects with 401
// (missing or invalid bearer), or attaches the decoded identity to the
// context and continues.
//
// Routes flagged Refresh are verified against the refresh secret rather than
// the access secret; the raw token is kept in context because the refresh
// handler still has to match it against the stored hash.
func AuthGate(meta *MetaRegistry, issuer utils.Issuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			m := meta.Lookup(c.Request().Method, c.Path())
			if m.Public {
				return next(c)
			}

			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			var (
				claims *utils.Claims
				err    error
			)
			if m.Refresh {
				claims, err = issuer.VerifyRefresh(raw)
			} else {
				claims, err = issuer.VerifyAccess(raw)
			}
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			uid, err := claims.UserID()
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			c.Set(CtxUserID, uid)
			c.Set(CtxEmail, claims.Email)
			c.Set(CtxRole, claims.Role)
			if m.Refresh {
				c.Set(CtxRefreshRaw, raw)
			}
			return next(c)
		}
	}
}

// UserID extracts the authenticated subject from context. The second return
// is false on public routes or when the gate did not run.
func UserID(c echo.Context) (uint64, bool) {
	v, ok := c.Get(CtxUserID).(uint64)
	return v, ok
}
