package middleware

// routemeta.go implements the declarative route-attribute map read by the
// authentication and authorization gates. Attributes are declared at
// route-registration time and looked up at dispatch time by method plus the
// registered route path (echo.Context.Path), so "/v1/courses/:id" is one
// entry regardless of the concrete id.

import "strings"

// RouteMeta carries the per-route gate attributes. Public bypasses
// authentication entirely and takes precedence over Roles. Refresh marks the
// one route whose bearer token is verified against the refresh secret
// instead of the access secret. An empty Roles set means any authenticated
// identity may proceed.
type RouteMeta struct {
	Public  bool
	Refresh bool
	Roles   []string
}

// Allows reports whether the given role is in the route's required set.
func (m RouteMeta) Allows(role string) bool {
	for _, r := range m.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// MetaRegistry is a side-table of route attributes. It is populated once
// during route registration, before the server accepts traffic, and is
// read-only afterwards, so no locking.
type MetaRegistry struct {
	byRoute map[string]RouteMeta
}

func NewMetaRegistry() *MetaRegistry {
	return &MetaRegistry{byRoute: make(map[string]RouteMeta)}
}

func routeKey(method, path string) string {
	return strings.ToUpper(method) + " " + path
}

// Public marks a route as reachable with no credentials at all.
func (r *MetaRegistry) Public(method, path string) {
	r.byRoute[routeKey(method, path)] = RouteMeta{Public: true}
}

// RefreshRoute marks a route as gated by the refresh secret.
func (r *MetaRegistry) RefreshRoute(method, path string) {
	r.byRoute[routeKey(method, path)] = RouteMeta{Refresh: true}
}

// Require restricts a route to the given roles. Calling it with no roles
// registers the route as authenticated-only.
func (r *MetaRegistry) Require(method, path string, roles ...string) {
	r.byRoute[routeKey(method, path)] = RouteMeta{Roles: roles}
}

// Lookup returns the attributes for a dispatched route. Unregistered routes
// return the zero RouteMeta: not public, no role set, so authentication is
// required and any role accepted. Deny-by-default is therefore structural; a
// route escapes the gates only by being explicitly marked public.
func (r *MetaRegistry) Lookup(method, path string) RouteMeta {
	return r.byRoute[routeKey(method, path)]
}
