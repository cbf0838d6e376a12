package main

import (
	"testing"

	"github.com/gocool94/innnov-prod/internal/models"
)

func TestImportStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want models.IdeaStatus
	}{
		{"", models.StatusSubmitted},
		{"Approved", models.StatusApproved},
		{"In progress - Q3", models.IdeaStatus("In progress - Q3")},
	}

	for _, c := range cases {
		if got := importStatus(c.raw); got != c.want {
			t.Errorf("importStatus(%q) = %q, want %q", c.raw, got, c.want)
		}
	}
}

func TestListJSON(t *testing.T) {
	got, err := listJSON("Snowflake")
	if err != nil {
		t.Fatalf("listJSON failed: %v", err)
	}
	if got != `["Snowflake"]` {
		t.Errorf("listJSON(Snowflake) = %s", got)
	}

	got, err = listJSON("")
	if err != nil {
		t.Fatalf("listJSON failed: %v", err)
	}
	if got != "[]" {
		t.Errorf("listJSON of blank cell = %s", got)
	}
}

func TestDisplayName(t *testing.T) {
	cases := []struct {
		email string
		want  string
	}{
		{"alice@example.com", "Alice"},
		{"bob.smith@example.com", "Bob.smith"},
		{"noatsign", "Noatsign"},
	}

	for _, c := range cases {
		if got := displayName(c.email); got != c.want {
			t.Errorf("displayName(%q) = %q, want %q", c.email, got, c.want)
		}
	}
}
