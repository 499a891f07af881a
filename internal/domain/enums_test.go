package domain

import "testing"

func TestParseRole(t *testing.T) {
	cases := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"", RoleCustomer, true},
		{"customer", RoleCustomer, true},
		{" Helper ", RoleHelper, true},
		{"admin", "admin", false},
	}
	for _, c := range cases {
		got, ok := ParseRole(c.in)
		if got != c.want || ok != c.ok {
			t.Fatalf("ParseRole(%q) = %q,%v; want %q,%v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestParseUrgency(t *testing.T) {
	if u, ok := ParseUrgency(""); !ok || u != UrgencyToday {
		t.Fatalf("empty urgency should default to today, got %q", u)
	}
	if u, ok := ParseUrgency("EMERGENCY"); !ok || u != UrgencyEmergency {
		t.Fatalf("case-insensitive parse failed: %q", u)
	}
	if _, ok := ParseUrgency("someday"); ok {
		t.Fatalf("unknown urgency accepted")
	}
}

func TestTaskStatus_CanTransitionTo(t *testing.T) {
	all := []TaskStatus{StatusOpen, StatusAssigned, StatusCompleted}
	legal := map[[2]TaskStatus]bool{
		{StatusOpen, StatusAssigned}:      true,
		{StatusAssigned, StatusCompleted}: true,
	}
	for _, from := range all {
		for _, to := range all {
			if got := from.CanTransitionTo(to); got != legal[[2]TaskStatus{from, to}] {
				t.Fatalf("%s -> %s = %v", from, to, got)
			}
		}
	}
}
