package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"questboard/internal/model"
	"questboard/internal/repository"
)

// UserService manages accounts. Balances are read here but only ever
// written through the ledger.
type UserService struct {
	users *repository.UserRepository
}

func NewUserService(users *repository.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) Register(ctx context.Context, name, email string) (*model.User, error) {
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email are required", ErrInvalidInput)
	}
	user := model.User{Name: name, Email: email}
	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: email already registered", ErrInvalidInput)
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) GetUser(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.users.ListAll(ctx)
}
