package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gocool94/innnov-prod/internal/apperrors"
	"github.com/gocool94/innnov-prod/internal/models"
	"github.com/gocool94/innnov-prod/internal/repository"
	"github.com/gocool94/innnov-prod/internal/utils"

	"github.com/google/uuid"
)

// AssignmentService matches ideas to reviewers. It keeps Idea.AssignedReviewer
// and User.ReviewIdeas in lockstep: every call either commits both sides or
// neither.
type AssignmentService struct {
	repo         *repository.Repository
	locks        *EntityLocks
	storeTimeout time.Duration
}

func NewAssignmentService(repo *repository.Repository, locks *EntityLocks, storeTimeout time.Duration) *AssignmentService {
	return &AssignmentService{
		repo:         repo,
		locks:        locks,
		storeTimeout: storeTimeout,
	}
}

// Assign binds a reviewer to an idea. A previously assigned reviewer is
// swapped out in the same transaction so no two users ever hold the idea in
// their review lists. Assigning an idea still in Submitted moves it to
// Pending approval.
func (s *AssignmentService) Assign(ctx context.Context, ideaID uuid.UUID, reviewerEmail string) (*models.Idea, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	unlockIdea := s.locks.Lock(ideaKey(ideaID))
	defer unlockIdea()

	// The idea lock pins the current reviewer; read it to know which user
	// rows this assignment touches.
	current, err := s.repo.GetIdeaByID(ctx, ideaID)
	if err != nil {
		return nil, err
	}

	userKeys := []string{userKey(reviewerEmail)}
	if current.AssignedReviewerEmail != nil {
		userKeys = append(userKeys, userKey(*current.AssignedReviewerEmail))
	}
	unlockUsers := s.locks.Lock(userKeys...)
	defer unlockUsers()

	var updated *models.Idea
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		reviewer, err := tx.GetUserByEmail(ctx, reviewerEmail)
		if err != nil {
			return err
		}
		if !reviewer.IsReviewer {
			return apperrors.NotFoundf("no reviewer with email %s", reviewerEmail)
		}

		idea, err := tx.GetIdeaByID(ctx, ideaID)
		if err != nil {
			return err
		}

		// Reassigning to the same reviewer is a no-op.
		if idea.AssignedReviewerEmail != nil && *idea.AssignedReviewerEmail == reviewerEmail {
			updated = idea
			return nil
		}

		// Swap out the previous reviewer first.
		if idea.AssignedReviewerEmail != nil {
			prior, err := tx.GetUserByEmail(ctx, *idea.AssignedReviewerEmail)
			if err != nil {
				return err
			}
			prior.ReviewIdeas = prior.ReviewIdeas.Without(idea.ID.String())
			if err := tx.SaveUser(ctx, prior); err != nil {
				return err
			}
		}

		if !reviewer.ReviewIdeas.Contains(idea.ID.String()) {
			reviewer.ReviewIdeas = append(reviewer.ReviewIdeas, idea.ID.String())
		}
		reviewer.ReviewCount++
		if err := tx.SaveUser(ctx, reviewer); err != nil {
			return err
		}

		idea.AssignedReviewerEmail = &reviewer.Email
		if idea.Status == models.StatusSubmitted {
			idea.Status = models.StatusPendingApproval
		}
		if err := tx.SaveIdea(ctx, idea); err != nil {
			return err
		}

		updated = idea
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to assign reviewer: %w", err)
	}

	log.Printf("Idea %s assigned to reviewer %s", ideaID, reviewerEmail)
	return updated, nil
}

// Unassign removes the reviewer from an idea. A no-op when nothing is
// assigned. Ideas past Pending approval keep their reviewer on record, so
// unassigning them is rejected.
func (s *AssignmentService) Unassign(ctx context.Context, ideaID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	unlockIdea := s.locks.Lock(ideaKey(ideaID))
	defer unlockIdea()

	current, err := s.repo.GetIdeaByID(ctx, ideaID)
	if err != nil {
		return err
	}
	if current.AssignedReviewerEmail == nil {
		return nil
	}

	unlockUsers := s.locks.Lock(userKey(*current.AssignedReviewerEmail))
	defer unlockUsers()

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		idea, err := tx.GetIdeaByID(ctx, ideaID)
		if err != nil {
			return err
		}

		if idea.AssignedReviewerEmail == nil {
			return nil
		}

		if idea.Status != models.StatusSubmitted && idea.Status != models.StatusPendingApproval {
			return apperrors.IllegalTransitionf(
				"cannot unassign reviewer from idea in status %q", idea.Status)
		}

		reviewer, err := tx.GetUserByEmail(ctx, *idea.AssignedReviewerEmail)
		if err != nil {
			return err
		}
		reviewer.ReviewIdeas = reviewer.ReviewIdeas.Without(idea.ID.String())
		if err := tx.SaveUser(ctx, reviewer); err != nil {
			return err
		}

		idea.AssignedReviewerEmail = nil
		if idea.Status == models.StatusPendingApproval {
			idea.Status = models.StatusSubmitted
		}
		return tx.SaveIdea(ctx, idea)
	})
	if err != nil {
		return fmt.Errorf("failed to unassign reviewer: %w", err)
	}

	log.Printf("Idea %s unassigned", ideaID)
	return nil
}

// AssignRandom picks a random reviewer for the idea, used at submission time.
func (s *AssignmentService) AssignRandom(ctx context.Context, ideaID uuid.UUID) (*models.Idea, error) {
	listCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	reviewers, err := s.repo.ListReviewers(listCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviewers: %w", err)
	}
	if len(reviewers) == 0 {
		return nil, apperrors.NotFoundf("no reviewers available")
	}

	idx, err := utils.RandomIndex(len(reviewers))
	if err != nil {
		return nil, fmt.Errorf("failed to pick reviewer: %w", err)
	}

	return s.Assign(ctx, ideaID, reviewers[idx].Email)
}
