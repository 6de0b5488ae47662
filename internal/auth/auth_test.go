package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthenticator(t *testing.T, opts ...Option) *JWTAuthenticator {
	t.Helper()
	opts = append([]Option{WithBcryptCost(bcrypt.MinCost)}, opts...)
	a, err := NewJWTAuthenticator("test-secret", time.Hour, "workout-tracker", opts...)
	if err != nil {
		t.Fatalf("NewJWTAuthenticator: %v", err)
	}
	return a
}

func TestNewJWTAuthenticatorRequiresSecret(t *testing.T) {
	if _, err := NewJWTAuthenticator("", time.Hour, ""); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}

func TestHashAndVerify(t *testing.T) {
	a := newTestAuthenticator(t)
	hash, err := a.Hash("correct horse")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "correct horse" {
		t.Fatalf("hash must not equal the password")
	}
	if !a.Verify("correct horse", hash) {
		t.Fatalf("expected password to verify")
	}
	if a.Verify("battery staple", hash) {
		t.Fatalf("expected wrong password to fail")
	}
}

func TestIssueAndParseToken(t *testing.T) {
	a := newTestAuthenticator(t)
	token, expiresAt, err := a.IssueToken(42)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatalf("expected expiry in the future, got %s", expiresAt)
	}
	userID, err := a.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if userID != 42 {
		t.Fatalf("expected user 42, got %d", userID)
	}
}

func TestParseTokenExpired(t *testing.T) {
	past := time.Now().Add(-3 * time.Hour)
	a := newTestAuthenticator(t, WithClock(func() time.Time { return past }))
	token, _, err := a.IssueToken(7)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if _, err := a.ParseToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestParseTokenRejectsForeignSignature(t *testing.T) {
	a := newTestAuthenticator(t)
	other, err := NewJWTAuthenticator("other-secret", time.Hour, "")
	if err != nil {
		t.Fatalf("NewJWTAuthenticator: %v", err)
	}
	token, _, err := other.IssueToken(1)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if _, err := a.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseTokenRejectsNoneAlgorithm(t *testing.T) {
	a := newTestAuthenticator(t)
	claims := jwtClaims{UserID: 1, RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := a.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
