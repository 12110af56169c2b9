package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/vladimiradmaev/diatrack/internal/database"
	apperrors "github.com/vladimiradmaev/diatrack/internal/errors"
	"gorm.io/gorm"
)

// UserRepository handles user data operations
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser stores a new user. Emails are stored lower-cased.
func (r *UserRepository) CreateUser(ctx context.Context, email, name, passwordHash string) (*database.User, error) {
	user := database.User{
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Name:         name,
		PasswordHash: passwordHash,
	}

	if err := r.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.New(apperrors.ErrorTypeValidation, "EMAIL_TAKEN", "Email already registered")
		}
		return nil, apperrors.NewDatabaseError(err)
	}

	return &user, nil
}

// GetUserByEmail looks a user up by email, case-insensitively.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*database.User, error) {
	var user database.User
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return &user, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id uint) (*database.User, error) {
	var user database.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return &user, nil
}
