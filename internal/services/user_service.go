package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/vladimiradmaev/diatrack/internal/database"
	apperrors "github.com/vladimiradmaev/diatrack/internal/errors"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

var errInvalidCredentials = apperrors.New(apperrors.ErrorTypePermission, "INVALID_CREDENTIALS", "Invalid email or password")

type UserStore interface {
	CreateUser(ctx context.Context, email, name, passwordHash string) (*database.User, error)
	GetUserByEmail(ctx context.Context, email string) (*database.User, error)
	GetUserByID(ctx context.Context, id uint) (*database.User, error)
}

type UserService struct {
	store UserStore
	cost  int
}

func NewUserService(store UserStore) *UserService {
	return &UserService{store: store, cost: bcrypt.DefaultCost}
}

func (s *UserService) Register(ctx context.Context, email, password, name string) (*database.User, error) {
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperrors.NewValidationError("a valid email is required")
	}
	if len(password) < minPasswordLength {
		return nil, apperrors.NewValidationError("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	return s.store.CreateUser(ctx, email, strings.TrimSpace(name), string(hash))
}

// Authenticate checks email and password. Unknown email and wrong password
// fail the same way.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*database.User, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errInvalidCredentials
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*database.User, error) {
	return s.store.GetUserByID(ctx, id)
}
