// Package auth implements the session lifecycle: sign-in, sign-out and
// refresh-token rotation. It is the sole writer of the stored refresh-token
// hash on the identity record.
package auth

import "errors"

// Classified failures returned by the Service. Handlers map these onto HTTP
// statuses; none of them ever carries a password hash or token hash.
var (
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password. The two cases are deliberately indistinguishable so a
	// sign-in failure never reveals whether the account exists.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken means the presented refresh token does not hash to the
	// stored value: it was superseded by a later sign-in or refresh, or
	// already spent. Signature and expiry were valid; revocation is decided
	// by the stored hash, not the signature.
	ErrInvalidToken = errors.New("invalid refresh token")

	// ErrNotFound means the identity (or, for refresh, its stored hash) does
	// not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable wraps persistence failures. The service does not retry;
	// callers surface it as a transient error.
	ErrUnavailable = errors.New("store unavailable")
)
