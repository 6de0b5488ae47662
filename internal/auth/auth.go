// Package auth hashes credentials and issues the bearer tokens the API
// accepts.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token has expired")
)

// Authenticator is the credential capability consumed by the account services.
type Authenticator interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
	IssueToken(userID uint) (token string, expiresAt time.Time, err error)
	ParseToken(token string) (userID uint, err error)
}

// jwtClaims defines the structure of the JWT payload.
type jwtClaims struct {
	UserID uint `json:"uid"`
	jwt.RegisteredClaims
}

// JWTAuthenticator signs HS256 tokens and hashes passwords with bcrypt.
type JWTAuthenticator struct {
	secret     []byte
	expiration time.Duration
	issuer     string
	cost       int
	now        func() time.Time
}

// Option customises a JWTAuthenticator.
type Option func(*JWTAuthenticator)

// WithBcryptCost overrides the hashing cost; tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(a *JWTAuthenticator) { a.cost = cost }
}

// WithClock overrides the time source used when issuing tokens.
func WithClock(now func() time.Time) Option {
	return func(a *JWTAuthenticator) { a.now = now }
}

// NewJWTAuthenticator creates an authenticator. The secret must not be empty.
func NewJWTAuthenticator(secret string, expiration time.Duration, issuer string, opts ...Option) (*JWTAuthenticator, error) {
	if secret == "" {
		return nil, errors.New("auth: jwt secret cannot be empty")
	}
	if expiration <= 0 {
		expiration = time.Hour
	}
	a := &JWTAuthenticator{
		secret:     []byte(secret),
		expiration: expiration,
		issuer:     issuer,
		cost:       bcrypt.DefaultCost,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

func (a *JWTAuthenticator) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

func (a *JWTAuthenticator) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IssueToken creates a signed token whose subject is the user id.
func (a *JWTAuthenticator) IssueToken(userID uint) (string, time.Time, error) {
	now := a.now()
	expiresAt := now.Add(a.expiration)
	claims := &jwtClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    a.issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ParseToken validates signature, algorithm and expiry and returns the user id.
func (a *JWTAuthenticator) ParseToken(tokenString string) (uint, error) {
	claims := &jwtClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return a.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrTokenExpired
		}
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == 0 {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}
