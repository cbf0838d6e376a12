package services

import (
	"context"
	"time"

	"github.com/gocool94/innnov-prod/internal/models"
	"github.com/gocool94/innnov-prod/internal/repository"
)

type UserService struct {
	repo         *repository.Repository
	storeTimeout time.Duration
}

func NewUserService(repo *repository.Repository, storeTimeout time.Duration) *UserService {
	return &UserService{
		repo:         repo,
		storeTimeout: storeTimeout,
	}
}

// GetUserByID retrieves a user by ID
func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	return s.repo.GetUserByID(ctx, id)
}

// GetUserByEmail retrieves a user by email
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	return s.repo.GetUserByEmail(ctx, email)
}

// ListUsers retrieves all users in creation order
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	return s.repo.ListUsers(ctx)
}
