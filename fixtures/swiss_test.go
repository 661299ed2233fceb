package fixtures

import (
	"errors"
	"math/rand"
	"testing"
)

func TestPairSwissRoundOnePairsEveryone(t *testing.T) {
	teams := []int{1, 2, 3, 4, 5, 6, 7, 8}
	fxs, err := PairSwissRound(SwissState{Round: 1, Teams: teams}, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fxs) != 4 {
		t.Fatalf("got %d fixtures, want 4", len(fxs))
	}
	seen := make(map[int]bool)
	for _, f := range fxs {
		if f.RoundLabel != "Swiss Round 1" {
			t.Errorf("label = %q, want Swiss Round 1", f.RoundLabel)
		}
		seen[f.HomeTeamID] = true
		seen[f.AwayTeamID] = true
	}
	if len(seen) != len(teams) {
		t.Errorf("round covers %d teams, want %d", len(seen), len(teams))
	}
}

func TestPairSwissRoundOneRequiresRandomness(t *testing.T) {
	if _, err := PairSwissRound(SwissState{Round: 1, Teams: []int{1, 2}}, nil); err == nil {
		t.Error("expected error for round 1 without rng")
	}
}

func TestPairSwissRoundAvoidsRematches(t *testing.T) {
	// Round-one winners ranked above losers; the nearest-rank opponent of
	// each leader is fresh, so no pairing may repeat round one.
	state := SwissState{
		Round: 2,
		Teams: []int{1, 3, 5, 2, 4, 6},
		History: [][2]int{
			{1, 2}, {3, 4}, {5, 6},
		},
	}
	fxs, err := PairSwissRound(state, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fxs) != 3 {
		t.Fatalf("got %d fixtures, want 3", len(fxs))
	}

	played := make(map[[2]int]bool)
	for _, h := range state.History {
		played[pairKey(h[0], h[1])] = true
	}
	for _, f := range fxs {
		if played[pairKey(f.HomeTeamID, f.AwayTeamID)] {
			t.Errorf("rematch generated: %d vs %d", f.HomeTeamID, f.AwayTeamID)
		}
	}
}

func TestPairSwissRoundRematchFallback(t *testing.T) {
	// Two teams that already met are the only ones left; a rematch beats
	// failing the round.
	state := SwissState{
		Round:   2,
		Teams:   []int{1, 2},
		History: [][2]int{{1, 2}},
	}
	fxs, err := PairSwissRound(state, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fxs) != 1 {
		t.Fatalf("got %d fixtures, want 1", len(fxs))
	}
}

func TestPairSwissRoundRejectsOddField(t *testing.T) {
	if _, err := PairSwissRound(SwissState{Round: 2, Teams: []int{1, 2, 3}}, nil); !errors.Is(err, ErrOddSwissField) {
		t.Errorf("got %v, want ErrOddSwissField", err)
	}
}

func TestMaxSwissRounds(t *testing.T) {
	cases := map[int]int{
		4:  3,
		8:  7,
		9:  8,
		16: 8,
		64: 8,
	}
	for teams, want := range cases {
		if got := MaxSwissRounds(teams); got != want {
			t.Errorf("MaxSwissRounds(%d) = %d, want %d", teams, got, want)
		}
	}
}

func TestPairSwissRoundRejectsRoundPastCap(t *testing.T) {
	state := SwissState{Round: 4, Teams: []int{1, 2, 3, 4}}
	if _, err := PairSwissRound(state, nil); err == nil {
		t.Error("expected error for round past cap")
	}
}
