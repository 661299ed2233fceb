package fixtures

import (
	"errors"
	"reflect"
	"testing"
)

func TestCreateGroupsBoustrophedon(t *testing.T) {
	// Seeded 1..8 into two groups of 4: the serpentine second pass keeps
	// the top seeds apart.
	teams := []int{1, 2, 3, 4, 5, 6, 7, 8}
	groups, err := CreateGroups(teams, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	wantA := []int{1, 4, 5, 8}
	wantB := []int{2, 3, 6, 7}
	if groups[0].Name != "A" || !reflect.DeepEqual(groups[0].TeamIDs, wantA) {
		t.Errorf("group A = %v, want %v", groups[0].TeamIDs, wantA)
	}
	if groups[1].Name != "B" || !reflect.DeepEqual(groups[1].TeamIDs, wantB) {
		t.Errorf("group B = %v, want %v", groups[1].TeamIDs, wantB)
	}
}

func TestCreateGroupsEveryTeamPlacedOnce(t *testing.T) {
	teams := make([]int, 16)
	for i := range teams {
		teams[i] = 100 + i
	}
	groups, err := CreateGroups(teams, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seen := make(map[int]string)
	for _, g := range groups {
		if len(g.TeamIDs) != 4 {
			t.Errorf("group %s has %d teams, want 4", g.Name, len(g.TeamIDs))
		}
		for _, id := range g.TeamIDs {
			if prev, dup := seen[id]; dup {
				t.Errorf("team %d placed in both %s and %s", id, prev, g.Name)
			}
			seen[id] = g.Name
		}
	}
	if len(seen) != 16 {
		t.Errorf("placed %d teams, want 16", len(seen))
	}
}

func TestCreateGroupsRejectsUnevenFields(t *testing.T) {
	if _, err := CreateGroups([]int{1, 2, 3, 4, 5, 6}, 4); !errors.Is(err, ErrGroupSizeInvalid) {
		t.Errorf("6 teams into groups of 4: got %v, want ErrGroupSizeInvalid", err)
	}
	// Divides into groups of 4 but cannot feed a power-of-two bracket.
	if _, err := CreateGroups([]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, 4); !errors.Is(err, ErrGroupSizeInvalid) {
		t.Errorf("12 teams into groups of 4: got %v, want ErrGroupSizeInvalid", err)
	}
}

func TestGenerateGroupFixturesLabels(t *testing.T) {
	g := Group{Name: "C", TeamIDs: []int{1, 2, 3, 4}}
	fxs, err := GenerateGroupFixtures(g, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fxs) != 6 {
		t.Fatalf("got %d fixtures, want 6", len(fxs))
	}
	wantLabels := map[string]bool{
		"Group C Round 1": true,
		"Group C Round 2": true,
		"Group C Round 3": true,
	}
	for _, f := range fxs {
		if !wantLabels[f.RoundLabel] {
			t.Errorf("unexpected round label %q", f.RoundLabel)
		}
	}
}

func TestSeedKnockoutFromGroupsCrossPairs(t *testing.T) {
	rankings := []GroupRanking{
		{Group: "A", TeamIDs: []int{1, 2, 3, 4}},
		{Group: "B", TeamIDs: []int{5, 6, 7, 8}},
		{Group: "C", TeamIDs: []int{9, 10, 11, 12}},
		{Group: "D", TeamIDs: []int{13, 14, 15, 16}},
	}
	fxs, err := SeedKnockoutFromGroups(rankings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Fixture{
		{HomeTeamID: 1, AwayTeamID: 6, RoundLabel: "Quarter-finals"},
		{HomeTeamID: 5, AwayTeamID: 2, RoundLabel: "Quarter-finals"},
		{HomeTeamID: 9, AwayTeamID: 14, RoundLabel: "Quarter-finals"},
		{HomeTeamID: 13, AwayTeamID: 10, RoundLabel: "Quarter-finals"},
	}
	if !reflect.DeepEqual(fxs, want) {
		t.Errorf("seeding = %+v, want %+v", fxs, want)
	}

	// Winner and runner-up of the same group never meet in the opening
	// round.
	groupOf := make(map[int]string)
	for _, r := range rankings {
		for _, id := range r.TeamIDs {
			groupOf[id] = r.Group
		}
	}
	for _, f := range fxs {
		if groupOf[f.HomeTeamID] == groupOf[f.AwayTeamID] {
			t.Errorf("fixture %+v pairs teams from group %s", f, groupOf[f.HomeTeamID])
		}
	}
}

func TestSeedKnockoutFromGroupsRejectsOddGroupCount(t *testing.T) {
	rankings := []GroupRanking{
		{Group: "A", TeamIDs: []int{1, 2}},
		{Group: "B", TeamIDs: []int{3, 4}},
		{Group: "C", TeamIDs: []int{5, 6}},
	}
	if _, err := SeedKnockoutFromGroups(rankings); !errors.Is(err, ErrOddGroupCount) {
		t.Errorf("got %v, want ErrOddGroupCount", err)
	}
}
