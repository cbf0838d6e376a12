package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gocool94/innnov-prod/internal/models"
	"github.com/gocool94/innnov-prod/internal/repository"
)

// DefaultLeaderboardSize is how many submitters the dashboard shows.
const DefaultLeaderboardSize = 5

// SummaryService derives dashboard counters and the leaderboard from
// snapshots of the idea and user collections. Everything here is read-only.
type SummaryService struct {
	repo         *repository.Repository
	storeTimeout time.Duration
}

func NewSummaryService(repo *repository.Repository, storeTimeout time.Duration) *SummaryService {
	return &SummaryService{
		repo:         repo,
		storeTimeout: storeTimeout,
	}
}

// Summarize computes the status-card counters for one user from a snapshot of
// their ideas. IdeasTried counts authored ideas that ran the full lifecycle
// (reached Done), whatever the review outcome.
func Summarize(user *models.User, ideas []models.Idea) models.UserSummary {
	summary := models.UserSummary{
		BeansEarned:   user.Beans,
		IdeasShared:   len(user.SubmittedIdeas),
		ReviewPending: len(user.ReviewIdeas),
	}

	for _, idea := range ideas {
		if idea.SubmitterEmail != user.Email {
			continue
		}
		if idea.Status == models.StatusApproved {
			summary.IdeasAccepted++
		}
		if idea.Status == models.StatusDone {
			summary.IdeasTried++
		}
	}

	return summary
}

// TopSubmitters ranks users by beans, descending. Ties keep the input order,
// so callers passing users in creation order get earliest-first ties.
func TopSubmitters(users []models.User, n int) []models.SubmitterRank {
	ranked := make([]models.User, len(users))
	copy(ranked, users)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Beans > ranked[j].Beans
	})

	if n < len(ranked) {
		ranked = ranked[:n]
	}

	result := make([]models.SubmitterRank, 0, len(ranked))
	for _, u := range ranked {
		result = append(result, models.SubmitterRank{Name: u.Name, Beans: u.Beans})
	}
	return result
}

// TruncateAtFirstSentence returns text up to and including the first period,
// or the whole text when it has none.
func TruncateAtFirstSentence(text string) string {
	if i := strings.Index(text, "."); i >= 0 {
		return text[:i+1]
	}
	return text
}

// SummarizeUser fetches a point-in-time view of the user and their ideas and
// computes the dashboard counters.
func (s *SummaryService) SummarizeUser(ctx context.Context, email string) (*models.UserSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	ideas, err := s.repo.ListIdeasBySubmitter(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to list ideas for %s: %w", email, err)
	}

	summary := Summarize(user, ideas)
	return &summary, nil
}

// TopSubmitterRanks returns the current leaderboard.
func (s *SummaryService) TopSubmitterRanks(ctx context.Context, n int) ([]models.SubmitterRank, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return TopSubmitters(users, n), nil
}
