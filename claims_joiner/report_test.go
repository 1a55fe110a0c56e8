package main

import "testing"

func TestCategoryCounts(t *testing.T) {
	joined := joinedFixture(t)
	counts := make(map[string]int)
	for _, cc := range categoryCounts(joined) {
		counts[cc.Name] = cc.Count
	}

	// Two list columns per clinical fact kind
	if counts["Clinical"] != 6 {
		t.Errorf("Clinical = %d, want 6", counts["Clinical"])
	}

	for _, cat := range []string{
		"Transaction", "Claim", "Encounter", "Patient",
		"Provider", "Organization", "Payer",
	} {
		if counts[cat] == 0 {
			t.Errorf("category %s has no columns", cat)
		}
	}
}
