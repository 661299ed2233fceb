package models

import "testing"

func TestClassifyRound(t *testing.T) {
	cases := map[string]RoundKind{
		"League Round 1":  RoundLeague,
		"League Round 14": RoundLeague,
		"Group A Round 2": RoundGroup,
		"Group AB Round 1": RoundGroup,
		"Swiss Round 3":   RoundSwiss,
		"Round of 16":     RoundKnockout,
		"Quarter-finals":  RoundKnockout,
		"Semi-finals":     RoundKnockout,
		"Final":           RoundKnockout,
		"something else":  RoundLeague,
	}
	for label, want := range cases {
		if got := ClassifyRound(label); got != want {
			t.Errorf("ClassifyRound(%q) = %s, want %s", label, got, want)
		}
	}
}

func TestGroupName(t *testing.T) {
	cases := map[string]string{
		"Group A Round 2":  "A",
		"Group AB Round 1": "AB",
		"League Round 1":   "",
		"Final":            "",
	}
	for label, want := range cases {
		m := Match{RoundLabel: label}
		if got := m.GroupName(); got != want {
			t.Errorf("GroupName(%q) = %q, want %q", label, got, want)
		}
	}
}

func TestMatchReportAccessors(t *testing.T) {
	home := MatchReport{TeamID: 10, HomeScore: 1}
	m := Match{HomeTeamID: 10, AwayTeamID: 20, HomePrimaryReport: &home}

	if !m.Involves(10) || !m.Involves(20) || m.Involves(30) {
		t.Error("Involves misclassifies participants")
	}
	if m.PrimaryReport(10) != &home {
		t.Error("PrimaryReport should return the home report")
	}
	if m.PrimaryReport(20) != nil || m.PrimaryReport(30) != nil {
		t.Error("PrimaryReport should be nil for unreported or outside teams")
	}
	if m.HasBothPrimaryReports() {
		t.Error("one report should not count as both")
	}
}
