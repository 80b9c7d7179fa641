package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/minafarid/academic-records-api/internal/auth"
	"github.com/minafarid/academic-records-api/internal/middleware"
	"github.com/minafarid/academic-records-api/internal/utils"
)

// AuthHandler exposes the session lifecycle over HTTP. All decisions live in
// the auth service; this layer binds, validates shape, and maps classified
// errors onto statuses.
type AuthHandler struct {
	Svc *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler { return &AuthHandler{Svc: svc} }

type signInReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenPairResp struct {
	AccessToken  string    `json:"accessToken"`
	AccessExp    time.Time `json:"accessTokenExpires"`
	RefreshToken string    `json:"refreshToken"`
	RefreshExp   time.Time `json:"refreshTokenExpires"`
}

func pairResp(p utils.TokenPair) tokenPairResp {
	return tokenPairResp{
		AccessToken:  p.AccessToken,
		AccessExp:    p.AccessExp,
		RefreshToken: p.RefreshToken,
		RefreshExp:   p.RefreshExp,
	}
}

// SignIn handles POST /v1/auth/signin (public). Unknown email and wrong
// password produce the same body; the response never says which one it was.
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signInReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	pair, err := h.Svc.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return authError(c, err)
	}
	return c.JSON(http.StatusOK, pairResp(pair))
}

// SignOut handles GET /v1/auth/signout/:id (authenticated, no role set).
// Clearing an already-cleared session succeeds; only an unknown identity is
// a 404.
func (h *AuthHandler) SignOut(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Svc.SignOut(ctx, id); err != nil {
		return authError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "signed out"})
}

// Refresh handles GET /v1/auth/refresh?id=. The gate has already verified
// the bearer against the refresh secret; here the id parameter must match
// the token subject, and the raw token must still hash to the stored value
// before the pair is rotated.
func (h *AuthHandler) Refresh(c echo.Context) error {
	id, err := strconv.ParseUint(c.QueryParam("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	uid, ok := middleware.UserID(c)
	if !ok || uid != id {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	raw, _ := c.Get(middleware.CtxRefreshRaw).(string)
	if raw == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	pair, err := h.Svc.Refresh(ctx, id, raw)
	if err != nil {
		return authError(c, err)
	}
	return c.JSON(http.StatusOK, pairResp(pair))
}

// authError maps the service error taxonomy onto HTTP statuses.
func authError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	case errors.Is(err, auth.ErrInvalidToken):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	case errors.Is(err, auth.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, auth.ErrUnavailable):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "temporarily unavailable"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
