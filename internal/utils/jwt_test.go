package utils

import (
	"strings"
	"testing"
	"time"
)

func testIssuer() Issuer {
	return Issuer{
		AccessSecret:   "access-secret",
		RefreshSecret:  "refresh-secret",
		AccessTTLMin:   15,
		RefreshTTLDays: 7,
	}
}

func TestIssuePairRoundTrip(t *testing.T) {
	iss := testIssuer()
	pair, err := iss.IssuePair(42, "a@x.com", "STUDENT")
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected both tokens to be issued")
	}
	if pair.AccessToken == pair.RefreshToken {
		t.Error("access and refresh tokens must differ")
	}

	claims, err := iss.VerifyAccess(pair.AccessToken)
	if err != nil {
		t.Fatalf("VerifyAccess: %v", err)
	}
	uid, err := claims.UserID()
	if err != nil {
		t.Fatalf("UserID: %v", err)
	}
	if uid != 42 {
		t.Errorf("sub = %d, want 42", uid)
	}
	if claims.Email != "a@x.com" {
		t.Errorf("email = %q, want %q", claims.Email, "a@x.com")
	}
	if claims.Role != "STUDENT" {
		t.Errorf("role = %q, want %q", claims.Role, "STUDENT")
	}

	rc, err := iss.VerifyRefresh(pair.RefreshToken)
	if err != nil {
		t.Fatalf("VerifyRefresh: %v", err)
	}
	if rc.Subject != claims.Subject {
		t.Errorf("refresh sub = %q, access sub = %q", rc.Subject, claims.Subject)
	}
}

func TestExpiryHorizons(t *testing.T) {
	iss := testIssuer()
	pair, err := iss.IssuePair(1, "a@x.com", "ADMIN")
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}
	if !pair.RefreshExp.After(pair.AccessExp) {
		t.Errorf("refresh expiry %v not after access expiry %v", pair.RefreshExp, pair.AccessExp)
	}
	if d := time.Until(pair.AccessExp); d > 16*time.Minute {
		t.Errorf("access TTL %v, want about 15m", d)
	}
}

func TestCrossSecretRejected(t *testing.T) {
	iss := testIssuer()
	pair, err := iss.IssuePair(7, "b@x.com", "FACULTY")
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}
	// The secrets are independent trust boundaries.
	if _, err := iss.VerifyAccess(pair.RefreshToken); err == nil {
		t.Error("refresh token verified under access secret")
	}
	if _, err := iss.VerifyRefresh(pair.AccessToken); err == nil {
		t.Error("access token verified under refresh secret")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	iss := testIssuer()
	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := iss.VerifyAccess(raw); err == nil {
			t.Errorf("VerifyAccess(%q) succeeded, want error", raw)
		}
	}
}

func TestVerifyRejectsTampered(t *testing.T) {
	iss := testIssuer()
	pair, err := iss.IssuePair(9, "c@x.com", "STUDENT")
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}
	tampered := pair.AccessToken[:len(pair.AccessToken)-2] + "xx"
	if _, err := iss.VerifyAccess(tampered); err == nil {
		t.Error("tampered token verified")
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	iss := testIssuer()
	iss.AccessTTLMin = -1
	pair, err := iss.IssuePair(3, "d@x.com", "GUEST")
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}
	if _, err := iss.VerifyAccess(pair.AccessToken); err == nil {
		t.Error("expired token verified")
	}
}

func TestHashRefreshRaw(t *testing.T) {
	h1 := HashRefreshRaw("token-a")
	h2 := HashRefreshRaw("token-a")
	h3 := HashRefreshRaw("token-b")
	if h1 != h2 {
		t.Error("same input must hash identically")
	}
	if h1 == h3 {
		t.Error("different inputs must hash differently")
	}
	if len(h1) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(h1))
	}
	if strings.Contains(h1, "token") {
		t.Error("hash leaks input")
	}
}
