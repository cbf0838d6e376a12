package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gocool94/innnov-prod/internal/apperrors"
	"github.com/gocool94/innnov-prod/internal/models"
	"github.com/gocool94/innnov-prod/internal/repository"
)

const testTimeout = 5 * time.Second

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Idea{},
		&models.PortalStats{},
	)
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	// Clean all tables; the shared memory DB persists across tests
	db.Exec("DELETE FROM ideas")
	db.Exec("DELETE FROM users")
	db.Exec("DELETE FROM portal_stats")

	return db
}

func newTestServices(t *testing.T, multiplier decimal.Decimal, autoAssign bool) (*repository.Repository, *IdeaService, *AssignmentService) {
	repo := repository.NewRepository(setupTestDB(t))
	locks := NewEntityLocks()
	assignments := NewAssignmentService(repo, locks, testTimeout)
	ideas := NewIdeaService(repo, locks, assignments, multiplier, autoAssign, testTimeout)
	return repo, ideas, assignments
}

func createTestUser(t *testing.T, repo *repository.Repository, email, name string, reviewer, admin bool) *models.User {
	user := &models.User{
		Email:          email,
		Name:           name,
		PasswordHash:   "not-a-real-hash",
		IsReviewer:     reviewer,
		IsAdmin:        admin,
		SubmittedIdeas: models.StringList{},
		ReviewIdeas:    models.StringList{},
	}
	if err := repo.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create user %s: %v", email, err)
	}
	return user
}

func TestSubmitIdea(t *testing.T) {
	repo, ideas, _ := newTestServices(t, decimal.NewFromInt(1), false)
	createTestUser(t, repo, "alice@example.com", "Alice", false, false)

	idea, err := ideas.Submit(context.Background(), "alice@example.com", &models.SubmitIdeaRequest{
		Title:       "Automated onboarding",
		Description: "Cut new-hire setup from days to hours.",
		Categories:  []string{"Process"},
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if idea.Status != models.StatusSubmitted {
		t.Errorf("expected status %q, got %q", models.StatusSubmitted, idea.Status)
	}
	if idea.BeansAwarded != models.SubmissionBeans {
		t.Errorf("expected %d beans awarded, got %d", models.SubmissionBeans, idea.BeansAwarded)
	}

	submitter, err := repo.GetUserByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("failed to reload submitter: %v", err)
	}
	if submitter.Beans != models.SubmissionBeans {
		t.Errorf("expected submitter to hold %d beans, got %d", models.SubmissionBeans, submitter.Beans)
	}
	if !submitter.SubmittedIdeas.Contains(idea.ID.String()) {
		t.Errorf("expected submitted_ideas to contain %s", idea.ID)
	}
}

func TestSubmitIdeaValidation(t *testing.T) {
	repo, ideas, _ := newTestServices(t, decimal.NewFromInt(1), false)
	createTestUser(t, repo, "alice@example.com", "Alice", false, false)

	_, err := ideas.Submit(context.Background(), "alice@example.com", &models.SubmitIdeaRequest{
		Title:       "   ",
		Description: "Some description",
	})
	if !apperrors.IsKind(err, apperrors.KindValidation) {
		t.Errorf("expected validation error for blank title, got %v", err)
	}

	_, err = ideas.Submit(context.Background(), "nobody@example.com", &models.SubmitIdeaRequest{
		Title:       "Real title",
		Description: "Real description",
	})
	if !apperrors.IsKind(err, apperrors.KindValidation) {
		t.Errorf("expected validation error for unknown submitter, got %v", err)
	}
}

func TestSubmitIdeaAutoAssign(t *testing.T) {
	repo, ideas, _ := newTestServices(t, decimal.NewFromInt(1), true)
	createTestUser(t, repo, "alice@example.com", "Alice", false, false)
	createTestUser(t, repo, "rita@example.com", "Rita", true, false)

	idea, err := ideas.Submit(context.Background(), "alice@example.com", &models.SubmitIdeaRequest{
		Title:       "Self-serve reports",
		Description: "Let teams pull their own numbers.",
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if idea.Status != models.StatusPendingApproval {
		t.Errorf("expected auto-assigned idea in %q, got %q", models.StatusPendingApproval, idea.Status)
	}
	if idea.AssignedReviewerEmail == nil || *idea.AssignedReviewerEmail != "rita@example.com" {
		t.Errorf("expected reviewer rita@example.com, got %v", idea.AssignedReviewerEmail)
	}

	reviewer, err := repo.GetUserByEmail(context.Background(), "rita@example.com")
	if err != nil {
		t.Fatalf("failed to reload reviewer: %v", err)
	}
	if !reviewer.ReviewIdeas.Contains(idea.ID.String()) {
		t.Errorf("expected review_ideas to contain %s", idea.ID)
	}
	if reviewer.ReviewCount != 1 {
		t.Errorf("expected review count 1, got %d", reviewer.ReviewCount)
	}
}

func TestSubmitIdeaSucceedsWithoutReviewers(t *testing.T) {
	repo, ideas, _ := newTestServices(t, decimal.NewFromInt(1), true)
	createTestUser(t, repo, "alice@example.com", "Alice", false, false)

	idea, err := ideas.Submit(context.Background(), "alice@example.com", &models.SubmitIdeaRequest{
		Title:       "Idea with nobody to review it",
		Description: "Still worth recording.",
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if idea.Status != models.StatusSubmitted {
		t.Errorf("expected status %q when no reviewer exists, got %q", models.StatusSubmitted, idea.Status)
	}
	if idea.AssignedReviewerEmail != nil {
		t.Errorf("expected no assigned reviewer, got %v", *idea.AssignedReviewerEmail)
	}
}

func TestTransitionRejectsSkippedStages(t *testing.T) {
	repo, ideas, _ := newTestServices(t, decimal.NewFromInt(1), false)
	createTestUser(t, repo, "alice@example.com", "Alice", false, false)
	createTestUser(t, repo, "root@example.com", "Root", false, true)

	idea, err := ideas.Submit(context.Background(), "alice@example.com", &models.SubmitIdeaRequest{
		Title:       "Jump the queue",
		Description: "Tries to go straight to Done.",
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	_, err = ideas.Transition(context.Background(), "root@example.com", idea.ID, &models.TransitionRequest{
		TargetStatus: models.StatusDone,
	})
	if !apperrors.IsKind(err, apperrors.KindIllegalTransition) {
		t.Errorf("expected illegal transition for Submitted -> Done, got %v", err)
	}
}

func TestTransitionRequiresAssignedReviewer(t *testing.T) {
	repo, ideas, assignments := newTestServices(t, decimal.NewFromInt(1), false)
	createTestUser(t, repo, "alice@example.com", "Alice", false, false)
	createTestUser(t, repo, "rita@example.com", "Rita", true, false)
	createTestUser(t, repo, "sam@example.com", "Sam", true, false)

	idea, err := ideas.Submit(context.Background(), "alice@example.com", &models.SubmitIdeaRequest{
		Title:       "Review rights",
		Description: "Only the assigned reviewer may act.",
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if _, err := assignments.Assign(context.Background(), idea.ID, "rita@example.com"); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}

	_, err = ideas.Transition(context.Background(), "sam@example.com", idea.ID, &models.TransitionRequest{
		TargetStatus: models.StatusApproved,
	})
	if !apperrors.IsKind(err, apperrors.KindAuthorization) {
		t.Errorf("expected authorization error for non-assigned reviewer, got %v", err)
	}

	// The assigned reviewer can move it.
	updated, err := ideas.Transition(context.Background(), "rita@example.com", idea.ID, &models.TransitionRequest{
		TargetStatus: models.StatusApproved,
	})
	if err != nil {
		t.Fatalf("Transition by assigned reviewer failed: %v", err)
	}
	if updated.Status != models.StatusApproved {
		t.Errorf("expected status %q, got %q", models.StatusApproved, updated.Status)
	}
}

func TestApprovalRecomputesBeans(t *testing.T) {
	repo, ideas, assignments := newTestServices(t, decimal.NewFromFloat(1.5), false)
	createTestUser(t, repo, "alice@example.com", "Alice", false, false)
	createTestUser(t, repo, "rita@example.com", "Rita", true, false)

	idea, err := ideas.Submit(context.Background(), "alice@example.com", &models.SubmitIdeaRequest{
		Title:       "Bonus on approval",
		Description: "Award grows when accepted.",
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if _, err := assignments.Assign(context.Background(), idea.ID, "rita@example.com"); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}

	score := 8
	updated, err := ideas.Transition(context.Background(), "rita@example.com", idea.ID, &models.TransitionRequest{
		TargetStatus: models.StatusApproved,
		GradingScore: &score,
	})
	if err != nil {
		t.Fatalf("Transition failed: %v", err)
	}

	if updated.BeansAwarded != 150 {
		t.Errorf("expected 150 beans after approval, got %d", updated.BeansAwarded)
	}
	if updated.GradingScore == nil || *updated.GradingScore != 8 {
		t.Errorf("expected grading score 8, got %v", updated.GradingScore)
	}

	submitter, err := repo.GetUserByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("failed to reload submitter: %v", err)
	}
	if submitter.Beans != 150 {
		t.Errorf("expected submitter to hold 150 beans, got %d", submitter.Beans)
	}

	// Resolution clears the reviewer's pending queue but keeps the record.
	reviewer, err := repo.GetUserByEmail(context.Background(), "rita@example.com")
	if err != nil {
		t.Fatalf("failed to reload reviewer: %v", err)
	}
	if reviewer.ReviewIdeas.Contains(idea.ID.String()) {
		t.Errorf("expected review_ideas to no longer contain %s", idea.ID)
	}
	if updated.AssignedReviewerEmail == nil {
		t.Error("expected reviewer to stay on record after approval")
	}
}

func TestFullLifecycleProgress(t *testing.T) {
	repo, ideas, assignments := newTestServices(t, decimal.NewFromInt(1), false)
	createTestUser(t, repo, "alice@example.com", "Alice", false, false)
	createTestUser(t, repo, "rita@example.com", "Rita", true, false)

	idea, err := ideas.Submit(context.Background(), "alice@example.com", &models.SubmitIdeaRequest{
		Title:       "End to end",
		Description: "Walks every stage.",
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	lastStep := models.ProgressStep(idea.Status)
	if lastStep != 1 {
		t.Errorf("expected progress step 1, got %d", lastStep)
	}

	assigned, err := assignments.Assign(context.Background(), idea.ID, "rita@example.com")
	if err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	for _, target := range []models.IdeaStatus{models.StatusRejected, models.StatusDone} {
		updated, err := ideas.Transition(context.Background(), "rita@example.com", assigned.ID, &models.TransitionRequest{
			TargetStatus: target,
		})
		if err != nil {
			t.Fatalf("Transition to %q failed: %v", target, err)
		}
		step := models.ProgressStep(updated.Status)
		if step <= lastStep {
			t.Errorf("progress step went from %d to %d at %q", lastStep, step, target)
		}
		lastStep = step
	}

	// Done is terminal.
	_, err = ideas.Transition(context.Background(), "rita@example.com", idea.ID, &models.TransitionRequest{
		TargetStatus: models.StatusApproved,
	})
	if !apperrors.IsKind(err, apperrors.KindIllegalTransition) {
		t.Errorf("expected illegal transition out of Done, got %v", err)
	}
}

func TestConcurrentTransitionsOnlyOneWins(t *testing.T) {
	repo, ideas, assignments := newTestServices(t, decimal.NewFromInt(1), false)
	createTestUser(t, repo, "alice@example.com", "Alice", false, false)
	createTestUser(t, repo, "rita@example.com", "Rita", true, false)

	idea, err := ideas.Submit(context.Background(), "alice@example.com", &models.SubmitIdeaRequest{
		Title:       "Race to resolve",
		Description: "Two reviewers click at once.",
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if _, err := assignments.Assign(context.Background(), idea.ID, "rita@example.com"); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}

	targets := []models.IdeaStatus{models.StatusApproved, models.StatusRejected}
	results := make([]error, len(targets))

	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func(i int, target models.IdeaStatus) {
			defer wg.Done()
			_, results[i] = ideas.Transition(context.Background(), "rita@example.com", idea.ID, &models.TransitionRequest{
				TargetStatus: target,
			})
		}(i, target)
	}
	wg.Wait()

	succeeded := 0
	for i, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		if !apperrors.IsKind(err, apperrors.KindIllegalTransition) {
			t.Errorf("transition to %q: expected illegal transition, got %v", targets[i], err)
		}
	}
	if succeeded != 1 {
		t.Errorf("expected exactly one transition to win, got %d", succeeded)
	}

	final, err := repo.GetIdeaByID(context.Background(), idea.ID)
	if err != nil {
		t.Fatalf("failed to reload idea: %v", err)
	}
	if !final.Status.IsResolved() {
		t.Errorf("expected a resolved status, got %q", final.Status)
	}
}

func TestConcurrentSubmissionsByOneUser(t *testing.T) {
	repo, ideas, _ := newTestServices(t, decimal.NewFromInt(1), false)
	createTestUser(t, repo, "alice@example.com", "Alice", false, false)

	// Both submissions append to the same user row; neither may be lost.
	requests := []*models.SubmitIdeaRequest{
		{Title: "Parallel one", Description: "Submitted at the same time."},
		{Title: "Parallel two", Description: "Submitted at the same time."},
	}
	results := make([]error, len(requests))

	var wg sync.WaitGroup
	for i, req := range requests {
		wg.Add(1)
		go func(i int, req *models.SubmitIdeaRequest) {
			defer wg.Done()
			_, results[i] = ideas.Submit(context.Background(), "alice@example.com", req)
		}(i, req)
	}
	wg.Wait()

	for i, err := range results {
		if err != nil {
			t.Fatalf("Submit %q failed: %v", requests[i].Title, err)
		}
	}

	submitter, err := repo.GetUserByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("failed to reload submitter: %v", err)
	}
	if len(submitter.SubmittedIdeas) != 2 {
		t.Errorf("expected 2 submitted ideas on record, got %v", submitter.SubmittedIdeas)
	}
	if submitter.Beans != 2*models.SubmissionBeans {
		t.Errorf("expected %d beans, got %d", 2*models.SubmissionBeans, submitter.Beans)
	}
}

func TestExpiredContextSurfacesTimeout(t *testing.T) {
	repo, ideas, _ := newTestServices(t, decimal.NewFromInt(1), false)
	createTestUser(t, repo, "alice@example.com", "Alice", false, false)

	idea, err := ideas.Submit(context.Background(), "alice@example.com", &models.SubmitIdeaRequest{
		Title:       "Read later",
		Description: "Fetched with a dead deadline.",
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err = ideas.Get(ctx, idea.ID)
	if !apperrors.IsKind(err, apperrors.KindTimeout) {
		t.Errorf("expected timeout error for expired deadline, got %v", err)
	}
}

func TestUpdateIdeaStageRules(t *testing.T) {
	repo, ideas, assignments := newTestServices(t, decimal.NewFromInt(1), false)
	createTestUser(t, repo, "alice@example.com", "Alice", false, false)
	createTestUser(t, repo, "bob@example.com", "Bob", false, false)
	createTestUser(t, repo, "rita@example.com", "Rita", true, false)

	idea, err := ideas.Submit(context.Background(), "alice@example.com", &models.SubmitIdeaRequest{
		Title:       "Editable while fresh",
		Description: "Submitter can fix typos.",
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	// Submitter edits content while the idea is still Submitted.
	newTitle := "Editable while fresh, v2"
	updated, err := ideas.Update(context.Background(), "alice@example.com", idea.ID, &models.UpdateIdeaRequest{
		Title: &newTitle,
	})
	if err != nil {
		t.Fatalf("Update by submitter failed: %v", err)
	}
	if updated.Title != newTitle {
		t.Errorf("expected title %q, got %q", newTitle, updated.Title)
	}

	// Grading fields stay closed until review starts.
	score := 5
	_, err = ideas.Update(context.Background(), "alice@example.com", idea.ID, &models.UpdateIdeaRequest{
		GradingScore: &score,
	})
	if !apperrors.IsKind(err, apperrors.KindValidation) {
		t.Errorf("expected validation error for early grading, got %v", err)
	}

	// Other users cannot edit someone else's submission.
	_, err = ideas.Update(context.Background(), "bob@example.com", idea.ID, &models.UpdateIdeaRequest{
		Title: &newTitle,
	})
	if !apperrors.IsKind(err, apperrors.KindAuthorization) {
		t.Errorf("expected authorization error for stranger edit, got %v", err)
	}

	if _, err := assignments.Assign(context.Background(), idea.ID, "rita@example.com"); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}

	// Once review starts, the submitter loses edit rights.
	_, err = ideas.Update(context.Background(), "alice@example.com", idea.ID, &models.UpdateIdeaRequest{
		Title: &newTitle,
	})
	if !apperrors.IsKind(err, apperrors.KindAuthorization) {
		t.Errorf("expected authorization error for submitter edit in review, got %v", err)
	}

	// The assigned reviewer may grade.
	comments := "Solid plan. Needs an owner."
	updated, err = ideas.Update(context.Background(), "rita@example.com", idea.ID, &models.UpdateIdeaRequest{
		GradingScore: &score,
		Comments:     &comments,
	})
	if err != nil {
		t.Fatalf("Update by reviewer failed: %v", err)
	}
	if updated.GradingScore == nil || *updated.GradingScore != score {
		t.Errorf("expected grading score %d, got %v", score, updated.GradingScore)
	}
}

func TestListByIDs(t *testing.T) {
	repo, ideas, _ := newTestServices(t, decimal.NewFromInt(1), false)
	createTestUser(t, repo, "alice@example.com", "Alice", false, false)

	first, err := ideas.Submit(context.Background(), "alice@example.com", &models.SubmitIdeaRequest{
		Title:       "First",
		Description: "One of two.",
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	// Unknown ids are skipped as long as something matches.
	found, err := ideas.ListByIDs(context.Background(), []uuid.UUID{first.ID, uuid.New()})
	if err != nil {
		t.Fatalf("ListByIDs failed: %v", err)
	}
	if len(found) != 1 {
		t.Errorf("expected 1 idea, got %d", len(found))
	}

	// An entirely unknown set is NotFound.
	_, err = ideas.ListByIDs(context.Background(), []uuid.UUID{uuid.New()})
	if !apperrors.IsKind(err, apperrors.KindNotFound) {
		t.Errorf("expected not found for unknown ids, got %v", err)
	}
}
