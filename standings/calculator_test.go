package standings

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/khaleegram/earena/models"
)

func approved(tournamentID, home, away, hs, as int, label string) models.Match {
	return models.Match{
		TournamentID: tournamentID,
		HomeTeamID:   home,
		AwayTeamID:   away,
		HomeScore:    &hs,
		AwayScore:    &as,
		RoundLabel:   label,
		Status:       models.MatchApproved,
	}
}

func TestComputeAggregatesResults(t *testing.T) {
	matches := []models.Match{
		approved(1, 10, 20, 2, 1, "League Round 1"),
		approved(1, 30, 10, 0, 0, "League Round 1"),
		approved(1, 20, 30, 1, 3, "League Round 2"),
	}

	table := Compute(matches)
	if len(table) != 3 {
		t.Fatalf("got %d rows, want 3", len(table))
	}

	byTeam := make(map[int]models.TournamentStanding)
	for _, row := range table {
		byTeam[row.TeamID] = row
	}

	team10 := byTeam[10]
	if team10.Points != 4 || team10.Wins != 1 || team10.Draws != 1 || team10.GoalsFor != 2 || team10.GoalsAgainst != 1 {
		t.Errorf("team 10 row = %+v", team10)
	}
	team30 := byTeam[30]
	if team30.Points != 4 || team30.CleanSheets != 1 || team30.GoalsFor != 3 {
		t.Errorf("team 30 row = %+v", team30)
	}
	team20 := byTeam[20]
	if team20.Points != 0 || team20.Losses != 2 {
		t.Errorf("team 20 row = %+v", team20)
	}

	// Teams 10 and 30 are level on points; goal difference (+2 vs +1)
	// decides in favor of 30.
	if table[0].TeamID != 30 || table[1].TeamID != 10 || table[2].TeamID != 20 {
		t.Errorf("order = %d, %d, %d; want 30, 10, 20", table[0].TeamID, table[1].TeamID, table[2].TeamID)
	}
	for i, row := range table {
		if row.Rank != i+1 {
			t.Errorf("row %d has rank %d", i, row.Rank)
		}
	}
}

func TestComputeIgnoresUnapprovedMatches(t *testing.T) {
	pending := approved(1, 10, 20, 5, 0, "League Round 1")
	pending.Status = models.MatchAwaitingConfirmation

	table := Compute([]models.Match{pending})
	if len(table) != 2 {
		t.Fatalf("got %d rows, want 2", len(table))
	}
	for _, row := range table {
		if row.Played != 0 || row.Points != 0 || row.GoalsFor != 0 {
			t.Errorf("unapproved match contributed to row %+v", row)
		}
	}
}

func TestComputeIsDeterministicUnderInputOrder(t *testing.T) {
	base := []models.Match{
		approved(1, 1, 2, 1, 0, "League Round 1"),
		approved(1, 3, 4, 2, 2, "League Round 1"),
		approved(1, 1, 3, 0, 0, "League Round 2"),
		approved(1, 2, 4, 4, 1, "League Round 2"),
		approved(1, 1, 4, 1, 2, "League Round 3"),
		approved(1, 2, 3, 0, 3, "League Round 3"),
	}
	want := Compute(base)

	rng := rand.New(rand.NewSource(99))
	for trial := 0; trial < 20; trial++ {
		shuffled := make([]models.Match, len(base))
		copy(shuffled, base)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		if got := Compute(shuffled); !reflect.DeepEqual(got, want) {
			t.Fatalf("trial %d: table differs under shuffled input\ngot:  %+v\nwant: %+v", trial, got, want)
		}
	}
}

func TestComputeGroupScopesAndStamps(t *testing.T) {
	matches := []models.Match{
		approved(1, 1, 2, 1, 0, "Group A Round 1"),
		approved(1, 3, 4, 2, 0, "Group B Round 1"),
	}

	table := ComputeGroup(matches, "A")
	if len(table) != 2 {
		t.Fatalf("got %d rows, want 2", len(table))
	}
	for _, row := range table {
		if row.GroupName != "A" {
			t.Errorf("row %+v missing group stamp", row)
		}
		if row.TeamID == 3 || row.TeamID == 4 {
			t.Errorf("group B team %d leaked into group A table", row.TeamID)
		}
	}
	if table[0].TeamID != 1 {
		t.Errorf("group winner = %d, want 1", table[0].TeamID)
	}
}
