// Package repository contains data access logic separated from HTTP
// handlers. This file defines sentinel errors shared across repositories so
// that higher layers can map failure scenarios to HTTP responses without
// inspecting driver error strings.
package repository

import "errors"

// ErrConflict is returned when an insert or delete cannot proceed because of
// conflicting state, such as enrolling a student twice in the same course or
// deleting a department that still owns courses. Handlers translate this
// into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is returned when a unique email constraint is violated.
var ErrEmailExists = errors.New("email already exists")
