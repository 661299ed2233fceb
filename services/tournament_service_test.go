package services

import (
	"sync"
	"testing"

	"github.com/khaleegram/earena/models"
)

func TestOpeningFixturesSwissPairsWholeField(t *testing.T) {
	s := &tournamentService{}
	tournament := &models.Tournament{Format: models.FormatSwiss}

	fxs, err := s.openingFixtures(tournament, []int{1, 2, 3, 4, 5, 6, 7, 8})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fxs) != 4 {
		t.Fatalf("got %d fixtures, want 4", len(fxs))
	}
	seen := make(map[int]bool)
	for _, f := range fxs {
		if seen[f.HomeTeamID] || seen[f.AwayTeamID] {
			t.Fatalf("team paired twice in %+v", fxs)
		}
		seen[f.HomeTeamID] = true
		seen[f.AwayTeamID] = true
	}
}

func TestOpeningFixturesSwissSafeForConcurrentUse(t *testing.T) {
	s := &tournamentService{}
	tournament := &models.Tournament{Format: models.FormatSwiss}
	teams := []int{1, 2, 3, 4, 5, 6, 7, 8}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.openingFixtures(tournament, teams); err != nil {
				t.Errorf("concurrent generation failed: %v", err)
			}
		}()
	}
	wg.Wait()
}
