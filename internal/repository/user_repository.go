package repository

import (
	"context"
	"errors"

	"github.com/gocool94/innnov-prod/internal/models"

	"gorm.io/gorm"
)

// CreateUser creates a new user
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error, "user", user.Email)
}

// GetUserByEmail retrieves a user by email
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, translate(err, "user", email)
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID
func (r *Repository) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, translate(err, "user", id)
	}
	return &user, nil
}

// ListUsers retrieves all users in creation order. The stable order matters:
// leaderboard ties break by earliest account first.
func (r *Repository) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&users).Error
	if err != nil {
		return nil, translate(err, "users", "")
	}
	return users, nil
}

// ListReviewers retrieves all users with the reviewer capability
func (r *Repository) ListReviewers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("is_reviewer = ?", true).
		Order("created_at ASC, id ASC").
		Find(&users).Error
	if err != nil {
		return nil, translate(err, "reviewers", "")
	}
	return users, nil
}

// SaveUser persists all fields of a user
func (r *Repository) SaveUser(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Save(user).Error, "user", user.Email)
}

// CountUsers returns the total number of users
func (r *Repository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error
	if err != nil {
		return 0, translate(err, "user count", "")
	}
	return count, nil
}

// CountReviewers returns the number of users with the reviewer capability
func (r *Repository) CountReviewers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("is_reviewer = ?", true).
		Count(&count).Error
	if err != nil {
		return 0, translate(err, "reviewer count", "")
	}
	return count, nil
}

// UpsertPortalStats creates or replaces the stats snapshot for a date
func (r *Repository) UpsertPortalStats(ctx context.Context, stats *models.PortalStats) error {
	var existing models.PortalStats
	err := r.db.WithContext(ctx).Where("date = ?", stats.Date).First(&existing).Error
	if err == nil {
		stats.ID = existing.ID
		return translate(r.db.WithContext(ctx).Save(stats).Error, "portal stats", stats.Date)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return translate(err, "portal stats", stats.Date)
	}
	return translate(r.db.WithContext(ctx).Create(stats).Error, "portal stats", stats.Date)
}

// LatestPortalStats returns the most recent stats snapshot
func (r *Repository) LatestPortalStats(ctx context.Context) (*models.PortalStats, error) {
	var stats models.PortalStats
	err := r.db.WithContext(ctx).Order("date DESC").First(&stats).Error
	if err != nil {
		return nil, translate(err, "portal stats", "latest")
	}
	return &stats, nil
}
