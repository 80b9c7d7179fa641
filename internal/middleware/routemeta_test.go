package middleware

import (
	"net/http"
	"testing"
)

func TestLookupDefaultsToDeny(t *testing.T) {
	reg := NewMetaRegistry()
	m := reg.Lookup(http.MethodGet, "/v1/unregistered")
	if m.Public {
		t.Error("unregistered route is public")
	}
	if m.Refresh {
		t.Error("unregistered route is refresh-gated")
	}
	if len(m.Roles) != 0 {
		t.Errorf("unregistered route has roles %v", m.Roles)
	}
}

func TestLookupIsKeyedByMethodAndPath(t *testing.T) {
	reg := NewMetaRegistry()
	reg.Public(http.MethodPost, "/v1/profiles")
	reg.Require(http.MethodGet, "/v1/profiles", "ADMIN")

	if !reg.Lookup(http.MethodPost, "/v1/profiles").Public {
		t.Error("POST /v1/profiles should be public")
	}
	m := reg.Lookup(http.MethodGet, "/v1/profiles")
	if m.Public {
		t.Error("GET /v1/profiles should not be public")
	}
	if len(m.Roles) != 1 || m.Roles[0] != "ADMIN" {
		t.Errorf("GET roles = %v, want [ADMIN]", m.Roles)
	}
}

func TestAllows(t *testing.T) {
	m := RouteMeta{Roles: []string{"ADMIN", "FACULTY"}}
	if !m.Allows("FACULTY") {
		t.Error("FACULTY should be allowed")
	}
	if m.Allows("STUDENT") {
		t.Error("STUDENT should not be allowed")
	}
	if (RouteMeta{}).Allows("ADMIN") {
		t.Error("empty set Allows() must be false; the gate short-circuits before membership")
	}
}
