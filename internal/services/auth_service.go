package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gocool94/innnov-prod/internal/apperrors"
	"github.com/gocool94/innnov-prod/internal/auth"
	"github.com/gocool94/innnov-prod/internal/models"
	"github.com/gocool94/innnov-prod/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	repo         *repository.Repository
	storeTimeout time.Duration
}

func NewAuthService(repo *repository.Repository, storeTimeout time.Duration) *AuthService {
	return &AuthService{
		repo:         repo,
		storeTimeout: storeTimeout,
	}
}

// Login verifies credentials and returns the user with a signed token.
// Unknown accounts and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return nil, "", apperrors.Authorizationf("invalid email or password")
		}
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", apperrors.Authorizationf("invalid email or password")
	}

	token, err := auth.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	log.Printf("User %s logged in", user.Email)
	return user, token, nil
}

// CreateUser provisions a new account with a bcrypt password hash
func (s *AuthService) CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	if _, err := s.repo.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.Validationf("user %s already exists", req.Email)
	} else if !apperrors.IsKind(err, apperrors.KindNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:          req.Email,
		Name:           req.Name,
		PasswordHash:   string(hash),
		IsReviewer:     req.IsReviewer,
		IsAdmin:        req.IsAdmin,
		SubmittedIdeas: models.StringList{},
		ReviewIdeas:    models.StringList{},
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("Created user %s (reviewer=%v admin=%v)", user.Email, user.IsReviewer, user.IsAdmin)
	return user, nil
}
