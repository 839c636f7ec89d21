package service

import (
	"context"

	"biblioteca-backend/internal/domain"
	"biblioteca-backend/internal/repository"
)

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) ListUsers(ctx context.Context, page, limit int32) ([]domain.User, domain.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	users, total, err := s.userRepo.List(ctx, page, limit)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return users, domain.NewPagination(page, limit, total), nil
}
