package repository

import (
	"context"

	"github.com/gocool94/innnov-prod/internal/models"

	"github.com/google/uuid"
)

// CreateIdea creates a new idea
func (r *Repository) CreateIdea(ctx context.Context, idea *models.Idea) error {
	return translate(r.db.WithContext(ctx).Create(idea).Error, "idea", idea.ID)
}

// GetIdeaByID retrieves an idea by ID
func (r *Repository) GetIdeaByID(ctx context.Context, id uuid.UUID) (*models.Idea, error) {
	var idea models.Idea
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&idea).Error
	if err != nil {
		return nil, translate(err, "idea", id)
	}
	return &idea, nil
}

// ListIdeas retrieves all ideas, newest first
func (r *Repository) ListIdeas(ctx context.Context) ([]models.Idea, error) {
	var ideas []models.Idea
	err := r.db.WithContext(ctx).Order("date_submitted DESC").Find(&ideas).Error
	if err != nil {
		return nil, translate(err, "ideas", "")
	}
	return ideas, nil
}

// ListIdeasBySubmitter retrieves all ideas authored by the given email
func (r *Repository) ListIdeasBySubmitter(ctx context.Context, email string) ([]models.Idea, error) {
	var ideas []models.Idea
	err := r.db.WithContext(ctx).
		Where("submitter_email = ?", email).
		Order("date_submitted DESC").
		Find(&ideas).Error
	if err != nil {
		return nil, translate(err, "ideas for", email)
	}
	return ideas, nil
}

// ListIdeasByIDs retrieves the ideas matching the given ids. Missing ids are
// skipped, not reported.
func (r *Repository) ListIdeasByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Idea, error) {
	var ideas []models.Idea
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&ideas).Error
	if err != nil {
		return nil, translate(err, "ideas", ids)
	}
	return ideas, nil
}

// SaveIdea persists all fields of an idea
func (r *Repository) SaveIdea(ctx context.Context, idea *models.Idea) error {
	return translate(r.db.WithContext(ctx).Save(idea).Error, "idea", idea.ID)
}

// CountIdeasByStatus returns the number of ideas in the given status
func (r *Repository) CountIdeasByStatus(ctx context.Context, status models.IdeaStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Idea{}).
		Where("status = ?", status).
		Count(&count).Error
	if err != nil {
		return 0, translate(err, "idea count for", status)
	}
	return count, nil
}

// CountIdeas returns the total number of ideas
func (r *Repository) CountIdeas(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Idea{}).Count(&count).Error
	if err != nil {
		return 0, translate(err, "idea count", "")
	}
	return count, nil
}

// SumBeansAwarded returns the total beans awarded across all ideas
func (r *Repository) SumBeansAwarded(ctx context.Context) (int64, error) {
	var total int64
	row := r.db.WithContext(ctx).Model(&models.Idea{}).
		Select("COALESCE(SUM(beans_awarded), 0)").Row()
	if err := row.Scan(&total); err != nil {
		return 0, translate(err, "beans total", "")
	}
	return total, nil
}
