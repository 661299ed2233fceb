package fixtures

import (
	"errors"
	"fmt"
	"math/rand"
)

// SwissRoundCap limits how many Swiss rounds a tournament may run.
const SwissRoundCap = 8

var ErrOddSwissField = errors.New("swiss round requires an even number of teams")

// SwissState is the input for pairing one Swiss round.
type SwissState struct {
	// Round is the 1-based round being generated.
	Round int
	// Teams holds every team id. For Round > 1 it must already be ranked
	// best-first by current standing; for Round 1 order is irrelevant.
	Teams []int
	// History lists every pairing from prior Swiss rounds.
	History [][2]int
}

// MaxSwissRounds caps the round count at min(SwissRoundCap, teamCount-1),
// never demanding more unique opponents than exist.
func MaxSwissRounds(teamCount int) int {
	if teamCount-1 < SwissRoundCap {
		return teamCount - 1
	}
	return SwissRoundCap
}

func pairKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

// PairSwissRound produces one Swiss round. Round 1 is a random pairing of
// the whole field (rng required). Later rounds greedily pop the
// highest-ranked remaining team and pair it with the closest-ranked team it
// has not yet played; when a tie cluster leaves no fresh opponent, a rematch
// is allowed rather than failing the round. Hosting alternates by fixture
// position within the round to spread lobby-host advantage.
func PairSwissRound(state SwissState, rng *rand.Rand) ([]Fixture, error) {
	if err := validateTeams(state.Teams); err != nil {
		return nil, err
	}
	if len(state.Teams)%2 != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrOddSwissField, len(state.Teams))
	}
	if state.Round < 1 {
		return nil, fmt.Errorf("invalid swiss round %d", state.Round)
	}
	if cap := MaxSwissRounds(len(state.Teams)); state.Round > cap {
		return nil, fmt.Errorf("swiss round %d exceeds cap of %d for %d teams", state.Round, cap, len(state.Teams))
	}

	pool := make([]int, len(state.Teams))
	copy(pool, state.Teams)

	if state.Round == 1 {
		if rng == nil {
			return nil, errors.New("round 1 swiss pairing requires a randomness source")
		}
		rng.Shuffle(len(pool), func(i, j int) {
			pool[i], pool[j] = pool[j], pool[i]
		})
	}

	played := make(map[[2]int]bool, len(state.History))
	for _, h := range state.History {
		played[pairKey(h[0], h[1])] = true
	}

	label := fmt.Sprintf("Swiss Round %d", state.Round)
	out := make([]Fixture, 0, len(pool)/2)
	for len(pool) > 0 {
		top := pool[0]
		pool = pool[1:]

		opponentIdx := 0
		found := false
		for i, candidate := range pool {
			if !played[pairKey(top, candidate)] {
				opponentIdx = i
				found = true
				break
			}
		}
		// Rematch fallback: take the closest-ranked opponent regardless.
		if !found {
			opponentIdx = 0
		}
		opponent := pool[opponentIdx]
		pool = append(pool[:opponentIdx], pool[opponentIdx+1:]...)

		home, away := top, opponent
		if len(out)%2 == 1 {
			home, away = opponent, top
		}
		out = append(out, Fixture{HomeTeamID: home, AwayTeamID: away, RoundLabel: label})
	}
	return out, nil
}
