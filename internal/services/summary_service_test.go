package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/gocool94/innnov-prod/internal/models"
)

func TestSummarize(t *testing.T) {
	user := &models.User{
		Email:          "alice@example.com",
		Beans:          250,
		SubmittedIdeas: models.StringList{"a", "b", "c"},
		ReviewIdeas:    models.StringList{"x"},
	}
	ideas := []models.Idea{
		{SubmitterEmail: "alice@example.com", Status: models.StatusApproved},
		{SubmitterEmail: "alice@example.com", Status: models.StatusDone},
		{SubmitterEmail: "alice@example.com", Status: models.StatusSubmitted},
		{SubmitterEmail: "someone-else@example.com", Status: models.StatusApproved},
	}

	summary := Summarize(user, ideas)

	if summary.BeansEarned != 250 {
		t.Errorf("expected 250 beans earned, got %d", summary.BeansEarned)
	}
	if summary.IdeasShared != 3 {
		t.Errorf("expected 3 ideas shared, got %d", summary.IdeasShared)
	}
	if summary.IdeasAccepted != 1 {
		t.Errorf("expected 1 idea accepted, got %d", summary.IdeasAccepted)
	}
	if summary.IdeasTried != 1 {
		t.Errorf("expected 1 idea tried, got %d", summary.IdeasTried)
	}
	if summary.ReviewPending != 1 {
		t.Errorf("expected 1 review pending, got %d", summary.ReviewPending)
	}
}

func TestTopSubmitters(t *testing.T) {
	users := []models.User{
		{Name: "A", Beans: 10},
		{Name: "B", Beans: 30},
		{Name: "C", Beans: 20},
		{Name: "B2", Beans: 30},
	}

	ranked := TopSubmitters(users, 2)

	if len(ranked) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(ranked))
	}
	// Ties keep input order: B before B2.
	if ranked[0].Name != "B" || ranked[1].Name != "B2" {
		t.Errorf("expected [B B2], got [%s %s]", ranked[0].Name, ranked[1].Name)
	}

	// Asking for more than exists returns everyone.
	all := TopSubmitters(users, 10)
	if len(all) != len(users) {
		t.Errorf("expected %d entries, got %d", len(users), len(all))
	}
	if all[len(all)-1].Name != "A" {
		t.Errorf("expected A last, got %s", all[len(all)-1].Name)
	}

	// The input slice is left untouched.
	if users[0].Name != "A" {
		t.Errorf("input order changed: got %s first", users[0].Name)
	}
}

func TestTruncateAtFirstSentence(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Ships fast. Really.", "Ships fast."},
		{"No terminator here", "No terminator here"},
		{"", ""},
		{".", "."},
	}

	for _, c := range cases {
		if got := TruncateAtFirstSentence(c.in); got != c.want {
			t.Errorf("TruncateAtFirstSentence(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSummarizeUserFromStore(t *testing.T) {
	repo, ideas, assignments := newTestServices(t, decimal.NewFromInt(1), false)
	createTestUser(t, repo, "alice@example.com", "Alice", false, false)
	createTestUser(t, repo, "rita@example.com", "Rita", true, false)
	summaries := NewSummaryService(repo, testTimeout)

	first, err := ideas.Submit(context.Background(), "alice@example.com", &models.SubmitIdeaRequest{
		Title:       "First idea",
		Description: "Gets approved.",
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if _, err := ideas.Submit(context.Background(), "alice@example.com", &models.SubmitIdeaRequest{
		Title:       "Second idea",
		Description: "Stays submitted.",
	}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if _, err := assignments.Assign(context.Background(), first.ID, "rita@example.com"); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	if _, err := ideas.Transition(context.Background(), "rita@example.com", first.ID, &models.TransitionRequest{
		TargetStatus: models.StatusApproved,
	}); err != nil {
		t.Fatalf("Transition failed: %v", err)
	}

	summary, err := summaries.SummarizeUser(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("SummarizeUser failed: %v", err)
	}

	if summary.IdeasShared != 2 {
		t.Errorf("expected 2 ideas shared, got %d", summary.IdeasShared)
	}
	if summary.IdeasAccepted != 1 {
		t.Errorf("expected 1 idea accepted, got %d", summary.IdeasAccepted)
	}
	if summary.BeansEarned != 2*models.SubmissionBeans {
		t.Errorf("expected %d beans, got %d", 2*models.SubmissionBeans, summary.BeansEarned)
	}
}

func TestTopSubmitterRanksFromStore(t *testing.T) {
	repo, ideas, _ := newTestServices(t, decimal.NewFromInt(1), false)
	createTestUser(t, repo, "alice@example.com", "Alice", false, false)
	createTestUser(t, repo, "bob@example.com", "Bob", false, false)
	summaries := NewSummaryService(repo, testTimeout)

	for i := 0; i < 2; i++ {
		if _, err := ideas.Submit(context.Background(), "bob@example.com", &models.SubmitIdeaRequest{
			Title:       "Bob's idea",
			Description: "One of several.",
		}); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
	}
	if _, err := ideas.Submit(context.Background(), "alice@example.com", &models.SubmitIdeaRequest{
		Title:       "Alice's idea",
		Description: "Just the one.",
	}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	ranks, err := summaries.TopSubmitterRanks(context.Background(), DefaultLeaderboardSize)
	if err != nil {
		t.Fatalf("TopSubmitterRanks failed: %v", err)
	}

	if len(ranks) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(ranks))
	}
	if ranks[0].Name != "Bob" {
		t.Errorf("expected Bob first, got %s", ranks[0].Name)
	}
	if ranks[0].Beans != 2*models.SubmissionBeans {
		t.Errorf("expected %d beans for Bob, got %d", 2*models.SubmissionBeans, ranks[0].Beans)
	}
}
