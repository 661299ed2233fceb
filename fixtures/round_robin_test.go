package fixtures

import (
	"errors"
	"fmt"
	"testing"
)

func pairCounts(t *testing.T, fxs []Fixture) map[[2]int]int {
	t.Helper()
	counts := make(map[[2]int]int)
	for _, f := range fxs {
		if f.HomeTeamID == f.AwayTeamID {
			t.Fatalf("fixture pairs team %d with itself", f.HomeTeamID)
		}
		counts[pairKey(f.HomeTeamID, f.AwayTeamID)]++
	}
	return counts
}

func TestGenerateLeagueFixturesSingleLeg(t *testing.T) {
	for _, teamCount := range []int{2, 4, 6, 8, 16} {
		teams := make([]int, teamCount)
		for i := range teams {
			teams[i] = i + 1
		}

		fxs, err := GenerateLeagueFixtures(teams, false)
		if err != nil {
			t.Fatalf("teamCount=%d: unexpected error: %v", teamCount, err)
		}

		wantMatches := teamCount * (teamCount - 1) / 2
		if len(fxs) != wantMatches {
			t.Fatalf("teamCount=%d: got %d fixtures, want %d", teamCount, len(fxs), wantMatches)
		}

		counts := pairCounts(t, fxs)
		for i := 0; i < teamCount; i++ {
			for j := i + 1; j < teamCount; j++ {
				if counts[pairKey(teams[i], teams[j])] != 1 {
					t.Errorf("teamCount=%d: pair (%d,%d) met %d times, want 1",
						teamCount, teams[i], teams[j], counts[pairKey(teams[i], teams[j])])
				}
			}
		}

		// Each round uses every team exactly once.
		perRound := make(map[string]map[int]bool)
		for _, f := range fxs {
			if perRound[f.RoundLabel] == nil {
				perRound[f.RoundLabel] = make(map[int]bool)
			}
			for _, id := range []int{f.HomeTeamID, f.AwayTeamID} {
				if perRound[f.RoundLabel][id] {
					t.Fatalf("team %d plays twice in %s", id, f.RoundLabel)
				}
				perRound[f.RoundLabel][id] = true
			}
		}
		if len(perRound) != teamCount-1 {
			t.Errorf("teamCount=%d: got %d rounds, want %d", teamCount, len(perRound), teamCount-1)
		}
	}
}

func TestGenerateLeagueFixturesOddFieldGetsByes(t *testing.T) {
	teams := []int{10, 20, 30, 40, 50}
	fxs, err := GenerateLeagueFixtures(teams, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 5 teams -> 10 pairings spread over 5 rounds of 2 matches.
	if len(fxs) != 10 {
		t.Fatalf("got %d fixtures, want 10", len(fxs))
	}
	for _, f := range fxs {
		if f.HomeTeamID == byeMarker || f.AwayTeamID == byeMarker {
			t.Fatalf("bye marker leaked into output: %+v", f)
		}
	}

	counts := pairCounts(t, fxs)
	for k, c := range counts {
		if c != 1 {
			t.Errorf("pair %v met %d times, want 1", k, c)
		}
	}
}

func TestGenerateLeagueFixturesDoubleLeg(t *testing.T) {
	teams := []int{1, 2, 3, 4}
	fxs, err := GenerateLeagueFixtures(teams, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fxs) != 12 {
		t.Fatalf("got %d fixtures, want 12", len(fxs))
	}

	// Every ordered pairing appears exactly once: the return leg swaps
	// hosts.
	ordered := make(map[[2]int]int)
	for _, f := range fxs {
		ordered[[2]int{f.HomeTeamID, f.AwayTeamID}]++
	}
	for i := range teams {
		for j := range teams {
			if i == j {
				continue
			}
			key := [2]int{teams[i], teams[j]}
			if ordered[key] != 1 {
				t.Errorf("ordered pairing %v appears %d times, want 1", key, ordered[key])
			}
		}
	}

	// Second-leg rounds continue the numbering past the first leg.
	rounds := make(map[string]bool)
	for _, f := range fxs {
		rounds[f.RoundLabel] = true
	}
	for r := 1; r <= 6; r++ {
		label := fmt.Sprintf("League Round %d", r)
		if !rounds[label] {
			t.Errorf("missing %s", label)
		}
	}
}

func TestGenerateLeagueFixturesRejectsBadInput(t *testing.T) {
	if _, err := GenerateLeagueFixtures([]int{7}, false); !errors.Is(err, ErrNotEnoughTeams) {
		t.Errorf("single team: got %v, want ErrNotEnoughTeams", err)
	}
	if _, err := GenerateLeagueFixtures([]int{1, 2, 2}, false); !errors.Is(err, ErrDuplicateTeam) {
		t.Errorf("duplicate team: got %v, want ErrDuplicateTeam", err)
	}
}
