package service

import (
	"context"
	"strings"

	"smartchecklist/internal/models"
	"smartchecklist/internal/repository"
	"smartchecklist/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	store    repository.Store
	hashCost int
}

func NewUserService(store repository.Store) *UserService {
	return &UserService{store: store, hashCost: bcrypt.DefaultCost}
}

func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if err := validation.ValidateUsername(username); err != nil {
		return nil, validationError(err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, validationError(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{Username: username, Password: string(hash)}
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		existing, err := tx.Users().GetByUsername(ctx, username)
		if err != nil {
			return err
		}
		if existing != nil {
			return models.NewConflictError("Username already exists")
		}
		return tx.Users().Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks credentials. Unknown users and wrong passwords produce
// the same error.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	invalid := models.NewUnauthorizedError("Invalid username or password")

	user, err := s.store.Users().GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, invalid
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, invalid
	}
	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.store.Users().GetByID(ctx, id)
}
