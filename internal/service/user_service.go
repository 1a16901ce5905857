package service

import (
	"context"

	"jharkhand-tourism/internal/model"
)

type UserDirectory interface {
	GetByID(ctx context.Context, id int) (*model.User, error)
	SetBlocked(ctx context.Context, userID int, blocked bool) error
	List(ctx context.Context) ([]model.User, error)
}

// UserService backs the admin user management screens.
type UserService struct {
	userRepo UserDirectory
}

func NewUserService(userRepo UserDirectory) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetByID(ctx context.Context, id int) (*model.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.userRepo.List(ctx)
}

// SetBlocked blocks or unblocks a user; blocked users cannot log in.
func (s *UserService) SetBlocked(ctx context.Context, id int, blocked bool) (*model.User, error) {
	if err := s.userRepo.SetBlocked(ctx, id, blocked); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, id)
}
