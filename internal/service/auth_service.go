package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"alcyxob/workout-tracker/internal/auth"
	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
)

// AuthService authenticates users by credentials or bearer token.
type AuthService interface {
	Login(ctx context.Context, email, password string) (token string, expiresAt time.Time, user *domain.User, err error)
	// Authenticate resolves a bearer token to an active user.
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// authService implements the AuthService interface.
type authService struct {
	users         repository.UserRepository
	authenticator auth.Authenticator
}

// NewAuthService creates a new instance of authService.
func NewAuthService(users repository.UserRepository, authenticator auth.Authenticator) AuthService {
	return &authService{
		users:         users,
		authenticator: authenticator,
	}
}

// Login checks email and password and issues a token for active users.
func (s *authService) Login(ctx context.Context, email, password string) (string, time.Time, *domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", time.Time{}, nil, ErrAuthenticationFailed
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", time.Time{}, nil, ErrAuthenticationFailed
		}
		return "", time.Time{}, nil, fmt.Errorf("login: %w", err)
	}
	if !s.authenticator.Verify(password, user.PasswordHash) {
		return "", time.Time{}, nil, ErrAuthenticationFailed
	}
	if !user.CanSignIn() {
		return "", time.Time{}, nil, ErrUserInactive
	}

	token, expiresAt, err := s.authenticator.IssueToken(user.ID)
	if err != nil {
		return "", time.Time{}, nil, fmt.Errorf("login: %w", err)
	}
	return token, expiresAt, user, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	userID, err := s.authenticator.ParseToken(token)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// The account was deleted after the token was issued.
			return nil, auth.ErrInvalidToken
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if !user.CanSignIn() {
		return nil, ErrUserInactive
	}
	return user, nil
}
