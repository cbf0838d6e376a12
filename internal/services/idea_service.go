package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gocool94/innnov-prod/internal/apperrors"
	"github.com/gocool94/innnov-prod/internal/models"
	"github.com/gocool94/innnov-prod/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// nextStatuses defines the legal lifecycle moves. Every transition must land
// on the stage immediately following the current one; Rejected ideas do not
// re-enter review.
var nextStatuses = map[models.IdeaStatus][]models.IdeaStatus{
	models.StatusSubmitted:       {models.StatusPendingApproval},
	models.StatusPendingApproval: {models.StatusApproved, models.StatusRejected},
	models.StatusApproved:        {models.StatusDone},
	models.StatusRejected:        {models.StatusDone},
	models.StatusDone:            {},
}

func canTransition(from, to models.IdeaStatus) bool {
	for _, next := range nextStatuses[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IdeaService owns the idea lifecycle: submission, stage transitions and
// stage-scoped edits.
type IdeaService struct {
	repo             *repository.Repository
	locks            *EntityLocks
	assignments      *AssignmentService
	acceptMultiplier decimal.Decimal
	autoAssign       bool
	storeTimeout     time.Duration
}

func NewIdeaService(
	repo *repository.Repository,
	locks *EntityLocks,
	assignments *AssignmentService,
	acceptMultiplier decimal.Decimal,
	autoAssign bool,
	storeTimeout time.Duration,
) *IdeaService {
	return &IdeaService{
		repo:             repo,
		locks:            locks,
		assignments:      assignments,
		acceptMultiplier: acceptMultiplier,
		autoAssign:       autoAssign,
		storeTimeout:     storeTimeout,
	}
}

// Submit creates a new idea in Submitted for the acting user, grants the
// submission bean bonus and optionally hands the idea to a random reviewer.
func (s *IdeaService) Submit(ctx context.Context, actorEmail string, req *models.SubmitIdeaRequest) (*models.Idea, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, apperrors.Validationf("idea title must not be empty")
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, apperrors.Validationf("idea description must not be empty")
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	// The submitter's bean total and idea list are read-then-written here, so
	// the user lock is held until the transaction commits. It is released
	// before auto-assignment, which takes idea locks of its own.
	unlock := s.locks.Lock(userKey(actorEmail))

	var idea *models.Idea
	err := s.repo.Transaction(storeCtx, func(tx *repository.Repository) error {
		submitter, err := tx.GetUserByEmail(storeCtx, actorEmail)
		if err != nil {
			if apperrors.IsKind(err, apperrors.KindNotFound) {
				return apperrors.Wrap(apperrors.KindValidation, err,
					"submitter %s is not a known user", actorEmail)
			}
			return fmt.Errorf("failed to resolve submitter: %w", err)
		}

		idea = &models.Idea{
			ID:                   uuid.New(),
			SubmitterName:        submitter.Name,
			SubmitterEmail:       submitter.Email,
			Title:                req.Title,
			Description:          req.Description,
			ValueAdd:             req.ValueAdd,
			Categories:           models.StringList(req.Categories),
			ToolsTechnologies:    models.StringList(req.ToolsTechnologies),
			PrimaryBeneficiaries: models.StringList(req.PrimaryBeneficiaries),
			Contributors:         models.StringList(req.Contributors),
			Complexity:           req.Complexity,
			ResourceLink:         req.ResourceLink,
			Status:               models.StatusSubmitted,
			BeansAwarded:         models.SubmissionBeans,
			DateSubmitted:        time.Now(),
		}

		if err := tx.CreateIdea(storeCtx, idea); err != nil {
			return err
		}
		submitter.SubmittedIdeas = append(submitter.SubmittedIdeas, idea.ID.String())
		submitter.Beans += idea.BeansAwarded
		return tx.SaveUser(storeCtx, submitter)
	})
	unlock()
	if err != nil {
		if apperrors.KindOf(err) != apperrors.KindUnknown {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create idea: %w", err)
	}

	log.Printf("Idea %s submitted by %s", idea.ID, actorEmail)

	// Submission succeeds even when no reviewer can be picked; the admin
	// assigns one later.
	if s.autoAssign {
		assigned, err := s.assignments.AssignRandom(ctx, idea.ID)
		if err != nil {
			log.Printf("Auto-assignment for idea %s skipped: %v", idea.ID, err)
		} else {
			idea = assigned
		}
	}

	return idea, nil
}

// Transition moves an idea to the next lifecycle stage. Only the assigned
// reviewer (or an admin) may move an idea past Submitted. Approval recomputes
// the bean award by the configured multiplier and credits the submitter with
// the difference.
func (s *IdeaService) Transition(ctx context.Context, actorEmail string, ideaID uuid.UUID, req *models.TransitionRequest) (*models.Idea, error) {
	if !req.TargetStatus.IsValid() {
		return nil, apperrors.Validationf("unknown status %q", req.TargetStatus)
	}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	actor, err := s.repo.GetUserByEmail(ctx, actorEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve actor: %w", err)
	}

	unlockIdea := s.locks.Lock(ideaKey(ideaID))
	defer unlockIdea()

	// Approval credits the submitter and resolution trims the reviewer's
	// queue, so both user rows are locked for the duration.
	current, err := s.repo.GetIdeaByID(ctx, ideaID)
	if err != nil {
		return nil, err
	}

	userKeys := []string{userKey(current.SubmitterEmail)}
	if current.AssignedReviewerEmail != nil {
		userKeys = append(userKeys, userKey(*current.AssignedReviewerEmail))
	}
	unlockUsers := s.locks.Lock(userKeys...)
	defer unlockUsers()

	var updated *models.Idea
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		idea, err := tx.GetIdeaByID(ctx, ideaID)
		if err != nil {
			return err
		}

		if !canTransition(idea.Status, req.TargetStatus) {
			return apperrors.IllegalTransitionf(
				"cannot move idea from %q to %q", idea.Status, req.TargetStatus)
		}

		if idea.AssignedReviewerEmail == nil {
			return apperrors.IllegalTransitionf(
				"idea %s has no assigned reviewer", idea.ID)
		}

		if !actor.IsAdmin && *idea.AssignedReviewerEmail != actor.Email {
			return apperrors.Authorizationf(
				"%s is not the assigned reviewer for idea %s", actor.Email, idea.ID)
		}

		if req.GradingScore != nil {
			idea.GradingScore = req.GradingScore
		}
		if req.Comments != nil {
			idea.Comments = *req.Comments
		}

		if req.TargetStatus == models.StatusApproved {
			newAward := int(decimal.NewFromInt(int64(idea.BeansAwarded)).
				Mul(s.acceptMultiplier).
				Round(0).
				IntPart())
			if newAward != idea.BeansAwarded {
				submitter, err := tx.GetUserByEmail(ctx, idea.SubmitterEmail)
				if err != nil {
					return err
				}
				submitter.Beans += newAward - idea.BeansAwarded
				if err := tx.SaveUser(ctx, submitter); err != nil {
					return err
				}
				idea.BeansAwarded = newAward
			}
		}

		// Review is over once the idea resolves; release the reviewer's
		// pending queue but keep the reviewer on record.
		if req.TargetStatus.IsResolved() {
			reviewer, err := tx.GetUserByEmail(ctx, *idea.AssignedReviewerEmail)
			if err != nil {
				return err
			}
			reviewer.ReviewIdeas = reviewer.ReviewIdeas.Without(idea.ID.String())
			if err := tx.SaveUser(ctx, reviewer); err != nil {
				return err
			}
		}

		idea.Status = req.TargetStatus
		if err := tx.SaveIdea(ctx, idea); err != nil {
			return err
		}

		updated = idea
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to transition idea: %w", err)
	}

	log.Printf("Idea %s moved to %q by %s", ideaID, updated.Status, actorEmail)
	return updated, nil
}

// Update applies allow-listed edits. The submitter may edit content while the
// idea is still Submitted; afterwards only the assigned reviewer or an admin
// may change it. Grading fields are reviewer territory and stay empty until
// review starts.
func (s *IdeaService) Update(ctx context.Context, actorEmail string, ideaID uuid.UUID, req *models.UpdateIdeaRequest) (*models.Idea, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	actor, err := s.repo.GetUserByEmail(ctx, actorEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve actor: %w", err)
	}

	unlock := s.locks.Lock(ideaKey(ideaID))
	defer unlock()

	idea, err := s.repo.GetIdeaByID(ctx, ideaID)
	if err != nil {
		return nil, err
	}

	if idea.Status == models.StatusSubmitted {
		if !actor.IsAdmin && actor.Email != idea.SubmitterEmail {
			return nil, apperrors.Authorizationf(
				"only the submitter may edit idea %s while it is %q", idea.ID, idea.Status)
		}
		if req.GradingScore != nil || req.Comments != nil {
			return nil, apperrors.Validationf(
				"grading fields cannot be set before review starts")
		}
	} else {
		isReviewer := idea.AssignedReviewerEmail != nil && *idea.AssignedReviewerEmail == actor.Email
		if !actor.IsAdmin && !isReviewer {
			return nil, apperrors.Authorizationf(
				"%s may not edit idea %s in status %q", actor.Email, idea.ID, idea.Status)
		}
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, apperrors.Validationf("idea title must not be empty")
		}
		idea.Title = *req.Title
	}
	if req.Description != nil {
		if strings.TrimSpace(*req.Description) == "" {
			return nil, apperrors.Validationf("idea description must not be empty")
		}
		idea.Description = *req.Description
	}
	if req.ValueAdd != nil {
		idea.ValueAdd = *req.ValueAdd
	}
	if req.Categories != nil {
		idea.Categories = models.StringList(*req.Categories)
	}
	if req.ToolsTechnologies != nil {
		idea.ToolsTechnologies = models.StringList(*req.ToolsTechnologies)
	}
	if req.PrimaryBeneficiaries != nil {
		idea.PrimaryBeneficiaries = models.StringList(*req.PrimaryBeneficiaries)
	}
	if req.Contributors != nil {
		idea.Contributors = models.StringList(*req.Contributors)
	}
	if req.Complexity != nil {
		idea.Complexity = *req.Complexity
	}
	if req.ResourceLink != nil {
		idea.ResourceLink = *req.ResourceLink
	}
	if req.GradingScore != nil {
		idea.GradingScore = req.GradingScore
	}
	if req.Comments != nil {
		idea.Comments = *req.Comments
	}

	if err := s.repo.SaveIdea(ctx, idea); err != nil {
		return nil, fmt.Errorf("failed to update idea: %w", err)
	}

	return idea, nil
}

// Get retrieves a single idea
func (s *IdeaService) Get(ctx context.Context, ideaID uuid.UUID) (*models.Idea, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	return s.repo.GetIdeaByID(ctx, ideaID)
}

// List retrieves all ideas, newest first
func (s *IdeaService) List(ctx context.Context) ([]models.Idea, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	return s.repo.ListIdeas(ctx)
}

// ListBySubmitter retrieves the ideas authored by the given user
func (s *IdeaService) ListBySubmitter(ctx context.Context, email string) ([]models.Idea, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	return s.repo.ListIdeasBySubmitter(ctx, email)
}

// ListByIDs retrieves the ideas for a reviewer's pending queue. Unknown ids
// are skipped; an entirely unknown set is NotFound.
func (s *IdeaService) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Idea, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	ideas, err := s.repo.ListIdeasByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(ids) > 0 && len(ideas) == 0 {
		return nil, apperrors.NotFoundf("no ideas found")
	}
	return ideas, nil
}
