// Package fixtures produces match pairings for league, group, knockout and
// Swiss stages. Everything in this package is a pure computation over team
// identifiers; persistence and scheduling belong to the service layer.
package fixtures

import (
	"errors"
	"fmt"
)

// Fixture is an unscheduled pairing. The home team hosts the lobby unless
// the organizer reassigns it.
type Fixture struct {
	HomeTeamID int    `json:"home_team_id"`
	AwayTeamID int    `json:"away_team_id"`
	RoundLabel string `json:"round_label"`
}

var (
	ErrNotEnoughTeams   = errors.New("not enough teams to generate fixtures (minimum 2 required)")
	ErrOddKnockoutField = errors.New("knockout round requires an even number of teams")
	ErrGroupSizeInvalid = errors.New("team count is not divisible into equal groups")
	ErrOddGroupCount    = errors.New("knockout seeding requires an even number of groups")
	ErrGroupTooShallow  = errors.New("each group needs at least two ranked teams for knockout seeding")
	ErrDuplicateTeam    = errors.New("duplicate team id in input")
)

// KnockoutRoundLabel derives the bracket label from the field size.
func KnockoutRoundLabel(teamCount int) string {
	switch teamCount {
	case 2:
		return "Final"
	case 4:
		return "Semi-finals"
	case 8:
		return "Quarter-finals"
	default:
		return fmt.Sprintf("Round of %d", teamCount)
	}
}

func validateTeams(teamIDs []int) error {
	if len(teamIDs) < 2 {
		return fmt.Errorf("%w: found %d", ErrNotEnoughTeams, len(teamIDs))
	}
	seen := make(map[int]struct{}, len(teamIDs))
	for _, id := range teamIDs {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: team %d", ErrDuplicateTeam, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
