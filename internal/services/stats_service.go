package services

import (
	"context"
	"fmt"
	"time"

	"github.com/gocool94/innnov-prod/internal/models"
	"github.com/gocool94/innnov-prod/internal/repository"
)

// StatsService builds the daily platform totals shown on the admin dashboard.
type StatsService struct {
	repo *repository.Repository
}

func NewStatsService(repo *repository.Repository) *StatsService {
	return &StatsService{repo: repo}
}

// Snapshot records today's platform totals, replacing an earlier snapshot for
// the same day.
func (s *StatsService) Snapshot(ctx context.Context) (*models.PortalStats, error) {
	totalUsers, err := s.repo.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	totalReviewers, err := s.repo.CountReviewers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count reviewers: %w", err)
	}

	totalIdeas, err := s.repo.CountIdeas(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count ideas: %w", err)
	}

	totalBeans, err := s.repo.SumBeansAwarded(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sum beans: %w", err)
	}

	now := time.Now()
	stats := &models.PortalStats{
		Date:              time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
		TotalUsers:        int(totalUsers),
		TotalReviewers:    int(totalReviewers),
		TotalIdeas:        int(totalIdeas),
		TotalBeansAwarded: int(totalBeans),
	}

	statusCounts := []struct {
		status models.IdeaStatus
		target *int
	}{
		{models.StatusSubmitted, &stats.IdeasSubmitted},
		{models.StatusPendingApproval, &stats.IdeasPendingReview},
		{models.StatusApproved, &stats.IdeasApproved},
		{models.StatusRejected, &stats.IdeasRejected},
		{models.StatusDone, &stats.IdeasDone},
	}
	for _, sc := range statusCounts {
		count, err := s.repo.CountIdeasByStatus(ctx, sc.status)
		if err != nil {
			return nil, fmt.Errorf("failed to count %q ideas: %w", sc.status, err)
		}
		*sc.target = int(count)
	}

	if err := s.repo.UpsertPortalStats(ctx, stats); err != nil {
		return nil, fmt.Errorf("failed to store stats snapshot: %w", err)
	}

	return stats, nil
}

// Latest returns the most recent snapshot.
func (s *StatsService) Latest(ctx context.Context) (*models.PortalStats, error) {
	return s.repo.LatestPortalStats(ctx)
}
