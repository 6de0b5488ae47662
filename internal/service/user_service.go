package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"

	"alcyxob/workout-tracker/internal/auth"
	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
)

// CreateUserInput describes an account provisioned by an admin.
type CreateUserInput struct {
	Email    string
	Username string
	Password string
	FullName string
	IsActive bool
	IsAdmin  bool
}

// UserService manages accounts. Only admins reach Create, Update, List and
// Delete; UpdateMe is self-service.
type UserService interface {
	Create(ctx context.Context, in CreateUserInput) (*domain.User, error)
	Get(ctx context.Context, id uint) (*domain.User, error)
	List(ctx context.Context, skip, limit int) ([]domain.User, error)
	Update(ctx context.Context, id uint, update domain.UserUpdate) (*domain.User, error)
	// UpdateMe ignores the IsActive and IsAdmin fields.
	UpdateMe(ctx context.Context, userID uint, update domain.UserUpdate) (*domain.User, error)
	// Delete removes the account and everything it owns.
	Delete(ctx context.Context, actorID, id uint) error
}

type userService struct {
	store         repository.Store
	authenticator auth.Authenticator
}

// NewUserService creates a new instance of userService.
func NewUserService(store repository.Store, authenticator auth.Authenticator) UserService {
	return &userService{store: store, authenticator: authenticator}
}

var validate = validator.New()

// normalizeEmail accepts only a bare address and returns it lower-cased, so
// the uniqueness pre-check sees one spelling per mailbox.
func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validate.Var(email, "required,email"); err != nil {
		return "", ErrInvalidEmail
	}
	return email, nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return ErrPasswordTooWeak
	}
	return nil
}

// ensureAvailable runs the email and username pre-checks. excludeID skips the
// account being updated.
func ensureAvailable(ctx context.Context, users repository.UserRepository, email, username string, excludeID uint) error {
	if email != "" {
		existing, err := users.GetByEmail(ctx, email)
		if err == nil && existing.ID != excludeID {
			return ErrEmailTaken
		}
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("check email: %w", err)
		}
	}
	if username != "" {
		existing, err := users.GetByUsername(ctx, username)
		if err == nil && existing.ID != excludeID {
			return ErrUsernameTaken
		}
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("check username: %w", err)
		}
	}
	return nil
}

func (s *userService) Create(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	in.Email = email
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" {
		return nil, ErrUsernameInvalid
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}

	hash, err := s.authenticator.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		Email:        in.Email,
		Username:     in.Username,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(in.FullName),
		IsActive:     in.IsActive,
		IsAdmin:      in.IsAdmin,
	}

	errTx := s.store.WithinTx(ctx, func(tx repository.Store) error {
		if errCheck := ensureAvailable(ctx, tx.Users(), user.Email, user.Username, 0); errCheck != nil {
			return errCheck
		}
		return tx.Users().Create(ctx, user)
	})
	if errTx != nil {
		if errors.Is(errTx, repository.ErrDuplicate) {
			return nil, ErrAccountExists
		}
		return nil, errTx
	}
	log.WithFields(log.Fields{"user_id": user.ID, "admin": user.IsAdmin}).Info("user created")
	return user, nil
}

func (s *userService) Get(ctx context.Context, id uint) (*domain.User, error) {
	user, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, skip, limit int) ([]domain.User, error) {
	return s.store.Users().List(ctx, normalizePage(skip, limit))
}

func (s *userService) Update(ctx context.Context, id uint, update domain.UserUpdate) (*domain.User, error) {
	return s.update(ctx, id, update)
}

func (s *userService) UpdateMe(ctx context.Context, userID uint, update domain.UserUpdate) (*domain.User, error) {
	update.IsActive = nil
	update.IsAdmin = nil
	return s.update(ctx, userID, update)
}

func (s *userService) update(ctx context.Context, id uint, update domain.UserUpdate) (*domain.User, error) {
	var newHash string
	if update.Password != nil {
		if err := validatePassword(*update.Password); err != nil {
			return nil, err
		}
		hash, err := s.authenticator.Hash(*update.Password)
		if err != nil {
			return nil, err
		}
		newHash = hash
	}

	var user *domain.User
	errTx := s.store.WithinTx(ctx, func(tx repository.Store) error {
		current, errFind := tx.Users().GetByID(ctx, id)
		if errFind != nil {
			return notFoundAs(errFind, ErrUserNotFound)
		}

		var emailCheck, usernameCheck string
		if update.Email != nil {
			email, errValid := normalizeEmail(*update.Email)
			if errValid != nil {
				return errValid
			}
			if email != current.Email {
				emailCheck = email
			}
			current.Email = email
		}
		if update.Username != nil {
			username := strings.TrimSpace(*update.Username)
			if username == "" {
				return ErrUsernameInvalid
			}
			if username != current.Username {
				usernameCheck = username
			}
			current.Username = username
		}
		if errCheck := ensureAvailable(ctx, tx.Users(), emailCheck, usernameCheck, current.ID); errCheck != nil {
			return errCheck
		}

		if update.FullName != nil {
			current.FullName = strings.TrimSpace(*update.FullName)
		}
		if update.IsActive != nil {
			current.IsActive = *update.IsActive
		}
		if update.IsAdmin != nil {
			current.IsAdmin = *update.IsAdmin
		}
		if newHash != "" {
			current.PasswordHash = newHash
		}
		if errUpdate := tx.Users().Update(ctx, current); errUpdate != nil {
			return errUpdate
		}
		user = current
		return nil
	})
	if errTx != nil {
		if errors.Is(errTx, repository.ErrDuplicate) {
			return nil, ErrAccountExists
		}
		return nil, errTx
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, actorID, id uint) error {
	if actorID == id {
		return ErrCannotDeleteSelf
	}
	if err := s.store.Users().DeleteCascade(ctx, id); err != nil {
		return notFoundAs(err, ErrUserNotFound)
	}
	log.WithFields(log.Fields{"user_id": id, "actor_id": actorID}).Info("user deleted")
	return nil
}
