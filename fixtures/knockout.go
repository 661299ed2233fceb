package fixtures

import (
	"fmt"
	"math/rand"
)

// GenerateKnockoutRound pairs an even list of advancing teams sequentially
// into bracket matches. When rng is non-nil the field is shuffled first
// (unseeded rounds); rounds seeded directly out of groups come through
// SeedKnockoutFromGroups instead and pass nil to keep their order.
func GenerateKnockoutRound(teamIDs []int, rng *rand.Rand) ([]Fixture, error) {
	if err := validateTeams(teamIDs); err != nil {
		return nil, err
	}
	if len(teamIDs)%2 != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrOddKnockoutField, len(teamIDs))
	}

	field := make([]int, len(teamIDs))
	copy(field, teamIDs)
	if rng != nil {
		rng.Shuffle(len(field), func(i, j int) {
			field[i], field[j] = field[j], field[i]
		})
	}

	label := KnockoutRoundLabel(len(field))
	out := make([]Fixture, 0, len(field)/2)
	for i := 0; i+1 < len(field); i += 2 {
		out = append(out, Fixture{
			HomeTeamID: field[i],
			AwayTeamID: field[i+1],
			RoundLabel: label,
		})
	}
	return out, nil
}
