package fixtures

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"
)

func TestGenerateKnockoutRoundKeepsSeededOrder(t *testing.T) {
	fxs, err := GenerateKnockoutRound([]int{1, 8, 2, 7}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Fixture{
		{HomeTeamID: 1, AwayTeamID: 8, RoundLabel: "Semi-finals"},
		{HomeTeamID: 2, AwayTeamID: 7, RoundLabel: "Semi-finals"},
	}
	if !reflect.DeepEqual(fxs, want) {
		t.Errorf("got %+v, want %+v", fxs, want)
	}
}

func TestGenerateKnockoutRoundShuffledFieldStillValid(t *testing.T) {
	teams := []int{1, 2, 3, 4, 5, 6, 7, 8}
	fxs, err := GenerateKnockoutRound(teams, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fxs) != 4 {
		t.Fatalf("got %d fixtures, want 4", len(fxs))
	}

	seen := make(map[int]bool)
	for _, f := range fxs {
		if f.RoundLabel != "Quarter-finals" {
			t.Errorf("label = %q, want Quarter-finals", f.RoundLabel)
		}
		for _, id := range []int{f.HomeTeamID, f.AwayTeamID} {
			if seen[id] {
				t.Errorf("team %d appears twice in the round", id)
			}
			seen[id] = true
		}
	}
	if len(seen) != len(teams) {
		t.Errorf("round uses %d teams, want %d", len(seen), len(teams))
	}
}

func TestGenerateKnockoutRoundRejectsOddField(t *testing.T) {
	if _, err := GenerateKnockoutRound([]int{1, 2, 3}, nil); !errors.Is(err, ErrOddKnockoutField) {
		t.Errorf("got %v, want ErrOddKnockoutField", err)
	}
}

func TestKnockoutRoundLabel(t *testing.T) {
	cases := map[int]string{
		2:  "Final",
		4:  "Semi-finals",
		8:  "Quarter-finals",
		16: "Round of 16",
		32: "Round of 32",
	}
	for teams, want := range cases {
		if got := KnockoutRoundLabel(teams); got != want {
			t.Errorf("KnockoutRoundLabel(%d) = %q, want %q", teams, got, want)
		}
	}
}
