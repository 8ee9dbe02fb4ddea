package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const day = 24 * time.Hour

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestIssuer_IssueAndDecode(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	iss := NewIssuer("test-secret", 7*day).WithClock(fixedClock(now))

	token, expiresAt, err := iss.Issue("user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if !expiresAt.Equal(now.Add(7 * day)) {
		t.Fatalf("expiresAt = %v, want %v", expiresAt, now.Add(7*day))
	}

	userID, ok := iss.Decode(token)
	if !ok || userID != "user-1" {
		t.Fatalf("decode = %q, %v", userID, ok)
	}
}

func TestIssuer_TokensAreUnique(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	iss := NewIssuer("test-secret", 7*day).WithClock(fixedClock(now))

	a, _, err := iss.Issue("user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	b, _, err := iss.Issue("user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if a == b {
		t.Fatalf("two tokens for the same user at the same instant must differ")
	}
}

func TestIssuer_ExpiryWindow(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	iss := NewIssuer("test-secret", 7*day).WithClock(fixedClock(issuedAt))

	token, _, err := iss.Issue("user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, ok := iss.WithClock(fixedClock(issuedAt.Add(6 * day))).Decode(token); !ok {
		t.Fatalf("token should still be valid after 6 days")
	}

	if _, ok := iss.WithClock(fixedClock(issuedAt.Add(8 * day))).Decode(token); ok {
		t.Fatalf("token should be expired after 8 days")
	}
}

func TestIssuer_DecodeRejects(t *testing.T) {
	now := time.Now()
	iss := NewIssuer("test-secret", 7*day)

	good, _, err := iss.Issue("user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	otherSecret, _, err := NewIssuer("other-secret", 7*day).Issue("user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(now.Add(day)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(day)),
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "user-1",
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	parts := strings.Split(good, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	tests := map[string]string{
		"empty":        "",
		"garbage":      "not.a.token",
		"wrong secret": otherSecret,
		"alg none":     none,
		"no subject":   noSubject,
		"no expiry":    noExpiry,
		"tampered":     tampered,
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			if userID, ok := iss.Decode(token); ok {
				t.Fatalf("decode accepted %s token (user %q)", name, userID)
			}
		})
	}
}
