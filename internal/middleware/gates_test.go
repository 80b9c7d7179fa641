package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/minafarid/academic-records-api/internal/utils"
)

// fakeRoles is an in-memory RoleSource whose entries can be mutated between
// requests to model administrative role changes.
type fakeRoles struct {
	roles map[uint64]string
	calls int
}

func (f *fakeRoles) RoleByID(_ context.Context, id uint64) (string, error) {
	f.calls++
	role, ok := f.roles[id]
	if !ok {
		return "", sql.ErrNoRows
	}
	return role, nil
}

func gateIssuer() utils.Issuer {
	return utils.Issuer{
		AccessSecret:   "gate-access",
		RefreshSecret:  "gate-refresh",
		AccessTTLMin:   15,
		RefreshTTLDays: 7,
	}
}

// newGatedServer builds an Echo instance with both gates installed and a
// small route table: a public route, an authenticated-only route, an
// admin-only route, a student-readable route and a refresh-gated route.
func newGatedServer(roles *fakeRoles) (*echo.Echo, utils.Issuer) {
	iss := gateIssuer()
	meta := NewMetaRegistry()

	e := echo.New()
	e.Use(AuthGate(meta, iss))
	e.Use(RoleGate(meta, roles))

	ok := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	whoami := func(c echo.Context) error {
		uid, _ := UserID(c)
		return c.JSON(http.StatusOK, echo.Map{"user_id": uid})
	}

	e.GET("/open", ok)
	meta.Public(http.MethodGet, "/open")

	e.GET("/me", whoami)
	meta.Require(http.MethodGet, "/me")

	e.GET("/admin", ok)
	meta.Require(http.MethodGet, "/admin", "ADMIN", "FACULTY")

	e.GET("/courses/:id", ok)
	meta.Require(http.MethodGet, "/courses/:id", "ADMIN", "FACULTY", "STUDENT")

	e.GET("/refresh", whoami)
	meta.RefreshRoute(http.MethodGet, "/refresh")

	return e, iss
}

func doGet(e *echo.Echo, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestPublicRouteNeedsNoCredentials(t *testing.T) {
	e, _ := newGatedServer(&fakeRoles{roles: map[uint64]string{}})
	if rec := doGet(e, "/open", ""); rec.Code != http.StatusOK {
		t.Errorf("public route: status = %d, want 200", rec.Code)
	}
}

func TestMissingBearerRejected(t *testing.T) {
	e, _ := newGatedServer(&fakeRoles{roles: map[uint64]string{}})
	if rec := doGet(e, "/me", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("no header: status = %d, want 401", rec.Code)
	}
}

func TestInvalidTokenRejected(t *testing.T) {
	e, _ := newGatedServer(&fakeRoles{roles: map[uint64]string{}})
	if rec := doGet(e, "/me", "garbage"); rec.Code != http.StatusUnauthorized {
		t.Errorf("garbage token: status = %d, want 401", rec.Code)
	}
}

func TestAuthenticatedOnlyRouteAcceptsAnyRole(t *testing.T) {
	roles := &fakeRoles{roles: map[uint64]string{1: "GUEST"}}
	e, iss := newGatedServer(roles)
	pair, err := iss.IssuePair(1, "a@x.com", "GUEST")
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}
	if rec := doGet(e, "/me", pair.AccessToken); rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	// No role set declared, so the store must not have been consulted.
	if roles.calls != 0 {
		t.Errorf("role lookups = %d, want 0", roles.calls)
	}
}

func TestRoleMembershipDecides(t *testing.T) {
	roles := &fakeRoles{roles: map[uint64]string{1: "STUDENT", 2: "ADMIN"}}
	e, iss := newGatedServer(roles)

	student, _ := iss.IssuePair(1, "s@x.com", "STUDENT")
	admin, _ := iss.IssuePair(2, "a@x.com", "ADMIN")

	if rec := doGet(e, "/admin", student.AccessToken); rec.Code != http.StatusForbidden {
		t.Errorf("student on admin route: status = %d, want 403", rec.Code)
	}
	if rec := doGet(e, "/admin", admin.AccessToken); rec.Code != http.StatusOK {
		t.Errorf("admin on admin route: status = %d, want 200", rec.Code)
	}
	if rec := doGet(e, "/courses/1", student.AccessToken); rec.Code != http.StatusOK {
		t.Errorf("student on course route: status = %d, want 200", rec.Code)
	}
}

func TestRoleIsReadFreshNotFromToken(t *testing.T) {
	roles := &fakeRoles{roles: map[uint64]string{1: "STUDENT"}}
	e, iss := newGatedServer(roles)

	// Token minted while the user was still a STUDENT.
	pair, err := iss.IssuePair(1, "a@x.com", "STUDENT")
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}
	if rec := doGet(e, "/admin", pair.AccessToken); rec.Code != http.StatusForbidden {
		t.Fatalf("pre-promotion: status = %d, want 403", rec.Code)
	}

	// Promote in the store without reissuing the token: the very next
	// request must be authorized as ADMIN.
	roles.roles[1] = "ADMIN"
	if rec := doGet(e, "/admin", pair.AccessToken); rec.Code != http.StatusOK {
		t.Errorf("post-promotion: status = %d, want 200", rec.Code)
	}
}

func TestVanishedIdentityDeniedGenerically(t *testing.T) {
	roles := &fakeRoles{roles: map[uint64]string{}}
	e, iss := newGatedServer(roles)
	pair, _ := iss.IssuePair(404, "gone@x.com", "ADMIN")
	rec := doGet(e, "/admin", pair.AccessToken)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestRefreshRouteUsesRefreshSecret(t *testing.T) {
	e, iss := newGatedServer(&fakeRoles{roles: map[uint64]string{}})
	pair, err := iss.IssuePair(5, "r@x.com", "STUDENT")
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}
	// The access token does not verify under the refresh secret.
	if rec := doGet(e, "/refresh", pair.AccessToken); rec.Code != http.StatusUnauthorized {
		t.Errorf("access token on refresh route: status = %d, want 401", rec.Code)
	}
	if rec := doGet(e, "/refresh", pair.RefreshToken); rec.Code != http.StatusOK {
		t.Errorf("refresh token on refresh route: status = %d, want 200", rec.Code)
	}
	// And the refresh token is useless on access-gated routes.
	if rec := doGet(e, "/me", pair.RefreshToken); rec.Code != http.StatusUnauthorized {
		t.Errorf("refresh token on access route: status = %d, want 401", rec.Code)
	}
}
