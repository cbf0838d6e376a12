package models

import "testing"

func TestProgressStep(t *testing.T) {
	cases := []struct {
		status IdeaStatus
		want   int
	}{
		{StatusSubmitted, 1},
		{StatusPendingApproval, 2},
		{StatusApproved, 3},
		{StatusRejected, 3},
		{StatusDone, 4},
		{IdeaStatus("In progress - Q3"), 1}, // imported free-form status
	}

	for _, c := range cases {
		if got := ProgressStep(c.status); got != c.want {
			t.Errorf("ProgressStep(%q) = %d, want %d", c.status, got, c.want)
		}
	}
}

func TestStatusPredicates(t *testing.T) {
	if !StatusApproved.IsResolved() || !StatusRejected.IsResolved() {
		t.Error("Approved and Rejected should be resolved")
	}
	if StatusDone.IsResolved() {
		t.Error("Done is terminal, not a review outcome")
	}
	if IdeaStatus("bogus").IsValid() {
		t.Error("unknown status should not be valid")
	}
	if !StatusPendingApproval.IsValid() {
		t.Error("Pending approval should be valid")
	}
}

func TestStringListRoundTrip(t *testing.T) {
	list := StringList{"a", "b"}

	value, err := list.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}

	var decoded StringList
	if err := decoded.Scan(value); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(decoded) != 2 || decoded[0] != "a" || decoded[1] != "b" {
		t.Errorf("round trip produced %v", decoded)
	}

	var empty StringList
	value, err = empty.Value()
	if err != nil {
		t.Fatalf("Value on nil list failed: %v", err)
	}
	if value != "[]" {
		t.Errorf("expected empty JSON list, got %v", value)
	}
}

func TestStringListWithout(t *testing.T) {
	list := StringList{"a", "b", "a"}

	trimmed := list.Without("a")
	if len(trimmed) != 1 || trimmed[0] != "b" {
		t.Errorf("Without(a) = %v", trimmed)
	}
	if !list.Contains("a") {
		t.Error("original list should be untouched")
	}
	if trimmed.Contains("a") {
		t.Error("trimmed list should not contain a")
	}
}
