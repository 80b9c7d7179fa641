package utils // package utils provides token issuing, verification and hashing helpers

import (
	"crypto/sha256" // SHA-256 hashing for refresh tokens at rest
	"encoding/hex"  // hex encoding of digests
	"errors"        // sentinel error for rejected tokens
	"fmt"           // subject formatting
	"strconv"       // subject parsing
	"time"          // expiry arithmetic

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// ErrInvalidToken is returned for any token that fails verification:
// malformed, expired, mis-signed, or signed with an unexpected method.
// Callers treat all of these uniformly as an unauthenticated request.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload carried by both token flavors: subject (user id),
// email and role, plus the registered expiry/issued-at fields. Access and
// refresh tokens are structurally identical; only the signing secret and
// the expiry horizon differ.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim back into a numeric identifier.
func (c *Claims) UserID() (uint64, error) {
	return strconv.ParseUint(c.Subject, 10, 64)
}

// TokenPair bundles a signed access token and a signed refresh token along
// with their expiry times.
type TokenPair struct {
	AccessToken  string
	AccessExp    time.Time
	RefreshToken string
	RefreshExp   time.Time
}

// Issuer creates and verifies the two token flavors. Secrets and lifetimes
// are supplied by configuration at startup.
type Issuer struct {
	AccessSecret   string
	RefreshSecret  string
	AccessTTLMin   int
	RefreshTTLDays int
}

type signed struct {
	token string
	exp   time.Time
	err   error
}

// IssuePair builds and signs the access and refresh tokens for a user. The
// two signatures share no state and use disjoint secrets, so they are
// computed concurrently; the pair is returned once both complete. An error
// from either side fails the whole pair.
func (i Issuer) IssuePair(userID uint64, email, role string) (TokenPair, error) {
	now := time.Now().UTC()
	accessCh := make(chan signed, 1)
	refreshCh := make(chan signed, 1)

	go func() {
		t, exp, err := sign(i.AccessSecret, userID, email, role, now,
			time.Duration(i.AccessTTLMin)*time.Minute)
		accessCh <- signed{t, exp, err}
	}()
	go func() {
		t, exp, err := sign(i.RefreshSecret, userID, email, role, now,
			time.Duration(i.RefreshTTLDays)*24*time.Hour)
		refreshCh <- signed{t, exp, err}
	}()

	access, refresh := <-accessCh, <-refreshCh
	if access.err != nil {
		return TokenPair{}, access.err
	}
	if refresh.err != nil {
		return TokenPair{}, refresh.err
	}
	return TokenPair{
		AccessToken:  access.token,
		AccessExp:    access.exp,
		RefreshToken: refresh.token,
		RefreshExp:   refresh.exp,
	}, nil
}

// VerifyAccess validates a token against the access secret.
func (i Issuer) VerifyAccess(raw string) (*Claims, error) {
	return verify(i.AccessSecret, raw)
}

// VerifyRefresh validates a token against the refresh secret. The two
// secrets form independent trust boundaries: a token that verifies under
// one never verifies under the other.
func (i Issuer) VerifyRefresh(raw string) (*Claims, error) {
	return verify(i.RefreshSecret, raw)
}

func sign(secret string, userID uint64, email, role string, now time.Time, ttl time.Duration) (string, time.Time, error) {
	exp := now.Add(ttl)
	claims := &Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", userID),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return s, exp, nil
}

func verify(secret, raw string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything but HMAC; otherwise a crafted
		// "none" or asymmetric token could slip through.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := tok.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// HashRefreshRaw returns the SHA-256 hash of a refresh token as a hex
// string. Only the hash is persisted, so stolen database rows cannot be
// replayed as live sessions. SHA-256 rather than bcrypt: bcrypt reads at
// most 72 bytes of input and a compact JWT is far longer.
func HashRefreshRaw(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
