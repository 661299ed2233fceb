package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/khaleegram/earena/models"
)

func approvedMatch(home, away, hs, as int, label string) models.Match {
	return models.Match{
		TournamentID: 1,
		HomeTeamID:   home,
		AwayTeamID:   away,
		HomeScore:    &hs,
		AwayScore:    &as,
		RoundLabel:   label,
		Status:       models.MatchApproved,
	}
}

func scheduledMatch(home, away int, label string) models.Match {
	return models.Match{
		TournamentID: 1,
		HomeTeamID:   home,
		AwayTeamID:   away,
		RoundLabel:   label,
		Status:       models.MatchScheduled,
	}
}

// completedGroupStage plays out two groups of two so winners and runners-up
// are unambiguous: 1 and 2 top group A, 5 and 6 top group B.
func completedGroupStage() []models.Match {
	return []models.Match{
		approvedMatch(1, 2, 2, 0, "Group A Round 1"),
		approvedMatch(3, 4, 1, 1, "Group A Round 2"),
		approvedMatch(1, 3, 3, 0, "Group A Round 3"),
		approvedMatch(2, 4, 2, 0, "Group A Round 3"),
		approvedMatch(1, 4, 1, 0, "Group A Round 1"),
		approvedMatch(2, 3, 1, 0, "Group A Round 2"),
		approvedMatch(5, 6, 2, 0, "Group B Round 1"),
		approvedMatch(7, 8, 0, 0, "Group B Round 2"),
		approvedMatch(5, 7, 3, 0, "Group B Round 3"),
		approvedMatch(6, 8, 2, 0, "Group B Round 3"),
		approvedMatch(5, 8, 1, 0, "Group B Round 1"),
		approvedMatch(6, 7, 1, 0, "Group B Round 2"),
	}
}

func cupTournament() *models.Tournament {
	return &models.Tournament{ID: 1, Format: models.FormatCup, Status: models.StatusInProgress, TeamCount: 8}
}

func TestPlanNextStageSeedsKnockoutFromGroups(t *testing.T) {
	plan, err := planNextStage(cupTournament(), completedGroupStage())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.RoundLabel != "Semi-finals" {
		t.Errorf("round label = %q, want Semi-finals", plan.RoundLabel)
	}
	if len(plan.Fixtures) != 2 {
		t.Fatalf("got %d fixtures, want 2", len(plan.Fixtures))
	}
	// A1 meets B2, B1 meets A2.
	if plan.Fixtures[0].HomeTeamID != 1 || plan.Fixtures[0].AwayTeamID != 6 {
		t.Errorf("first semi = %+v, want 1 vs 6", plan.Fixtures[0])
	}
	if plan.Fixtures[1].HomeTeamID != 5 || plan.Fixtures[1].AwayTeamID != 2 {
		t.Errorf("second semi = %+v, want 5 vs 2", plan.Fixtures[1])
	}
}

func TestPlanNextStageIncompleteGroupsBlocks(t *testing.T) {
	matches := completedGroupStage()
	matches[3].Status = models.MatchDisputed

	_, err := planNextStage(cupTournament(), matches)
	if !errors.Is(err, ErrStageNotComplete) {
		t.Errorf("got %v, want ErrStageNotComplete", err)
	}
}

func TestPlanNextStageIsIdempotentAfterProgression(t *testing.T) {
	matches := append(completedGroupStage(),
		scheduledMatch(1, 6, "Semi-finals"),
		scheduledMatch(5, 2, "Semi-finals"),
	)

	_, err := planNextStage(cupTournament(), matches)
	if !errors.Is(err, ErrStageAlreadyProgressed) {
		t.Errorf("got %v, want ErrStageAlreadyProgressed", err)
	}
}

func TestPlanNextStageAdvancesKnockoutWinners(t *testing.T) {
	matches := append(completedGroupStage(),
		approvedMatch(1, 6, 2, 0, "Semi-finals"),
		approvedMatch(5, 2, 1, 3, "Semi-finals"),
	)

	plan, err := planNextStage(cupTournament(), matches)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.RoundLabel != "Final" {
		t.Errorf("round label = %q, want Final", plan.RoundLabel)
	}
	if len(plan.Fixtures) != 1 {
		t.Fatalf("got %d fixtures, want 1", len(plan.Fixtures))
	}
	f := plan.Fixtures[0]
	if f.HomeTeamID != 1 || f.AwayTeamID != 2 {
		t.Errorf("final = %d vs %d, want 1 vs 2", f.HomeTeamID, f.AwayTeamID)
	}
}

func TestPlanNextStageFinalApprovedEndsTournament(t *testing.T) {
	matches := append(completedGroupStage(),
		approvedMatch(1, 6, 2, 0, "Semi-finals"),
		approvedMatch(5, 2, 1, 3, "Semi-finals"),
		approvedMatch(1, 2, 1, 0, "Final"),
	)

	_, err := planNextStage(cupTournament(), matches)
	if !errors.Is(err, ErrNoFurtherStages) {
		t.Errorf("got %v, want ErrNoFurtherStages", err)
	}
}

func TestPlanNextStageLeagueHasNoStages(t *testing.T) {
	tournament := &models.Tournament{ID: 1, Format: models.FormatLeague, Status: models.StatusInProgress, TeamCount: 4}
	matches := []models.Match{approvedMatch(1, 2, 1, 0, "League Round 1")}

	_, err := planNextStage(tournament, matches)
	if !errors.Is(err, ErrNoFurtherStages) {
		t.Errorf("got %v, want ErrNoFurtherStages", err)
	}
}

func TestPlanNextStageSwissPairsNextRound(t *testing.T) {
	tournament := &models.Tournament{ID: 1, Format: models.FormatSwiss, Status: models.StatusInProgress, TeamCount: 4}
	matches := []models.Match{
		approvedMatch(1, 2, 2, 0, "Swiss Round 1"),
		approvedMatch(3, 4, 1, 0, "Swiss Round 1"),
	}

	plan, err := planNextStage(tournament, matches)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.RoundLabel != "Swiss Round 2" {
		t.Errorf("round label = %q, want Swiss Round 2", plan.RoundLabel)
	}
	if len(plan.Fixtures) != 2 {
		t.Fatalf("got %d fixtures, want 2", len(plan.Fixtures))
	}
	// Round-one winners meet, losers meet; no rematch of round one.
	for _, f := range plan.Fixtures {
		if (f.HomeTeamID == 1 && f.AwayTeamID == 2) || (f.HomeTeamID == 2 && f.AwayTeamID == 1) ||
			(f.HomeTeamID == 3 && f.AwayTeamID == 4) || (f.HomeTeamID == 4 && f.AwayTeamID == 3) {
			t.Errorf("round 2 repeats a round 1 pairing: %+v", f)
		}
	}
}

func TestPlanNextStageSwissEntersKnockoutAfterCap(t *testing.T) {
	tournament := &models.Tournament{ID: 1, Format: models.FormatSwiss, Status: models.StatusInProgress, TeamCount: 4}

	// 4 teams cap at 3 Swiss rounds; fabricate three approved rounds where
	// team 1 wins out, 2 finishes second.
	var matches []models.Match
	pairings := [][4]int{
		{1, 2, 3, 4},
		{1, 3, 2, 4},
		{1, 4, 2, 3},
	}
	for round, p := range pairings {
		label := fmt.Sprintf("Swiss Round %d", round+1)
		matches = append(matches,
			approvedMatch(p[0], p[1], 1, 0, label),
			approvedMatch(p[2], p[3], 1, 0, label),
		)
	}

	plan, err := planNextStage(tournament, matches)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.RoundLabel != "Semi-finals" {
		t.Errorf("round label = %q, want Semi-finals", plan.RoundLabel)
	}
	if len(plan.Fixtures) != 2 {
		t.Fatalf("got %d fixtures, want 2", len(plan.Fixtures))
	}
	// Seeded best against worst.
	f := plan.Fixtures[0]
	if f.HomeTeamID != 1 {
		t.Errorf("top seed %d should host the opening semi", f.HomeTeamID)
	}
}
