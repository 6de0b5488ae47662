package gormstore

import (
	"context"
	"time"

	"gorm.io/gorm"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
)

// userRepository implements repository.UserRepository.
type userRepository struct {
	db *gorm.DB
}

// Create inserts a new user. Unique email/username violations surface as
// repository.ErrDuplicate.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, page repository.Page) ([]domain.User, error) {
	var users []domain.User
	q := pageOf(r.db.WithContext(ctx).Order("id ASC"), page)
	if err := q.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Update writes every mutable column, including false booleans.
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	user.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&domain.User{ID: user.ID}).
		Select("email", "username", "password_hash", "full_name", "is_active", "is_admin", "updated_at").
		Updates(user)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *userRepository) DeleteCascade(ctx context.Context, id uint) error {
	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		return purgeUser(tx, id)
	})
}
