package fixtures

import "fmt"

// DefaultGroupSize is the group size used by cup and champions-league
// formats unless the organizer overrides it.
const DefaultGroupSize = 4

// Group is a named subset of teams playing a round-robin among themselves.
type Group struct {
	Name    string `json:"name"`
	TeamIDs []int  `json:"team_ids"`
}

// GroupRanking is a group's final table reduced to ranked team ids,
// best first. Input to SeedKnockoutFromGroups.
type GroupRanking struct {
	Group   string `json:"group"`
	TeamIDs []int  `json:"team_ids"`
}

func groupName(index int) string {
	// A, B, ... Z, AA, AB, ...
	name := ""
	for index >= 0 {
		name = string(rune('A'+index%26)) + name
		index = index/26 - 1
	}
	return name
}

// CreateGroups splits an ordered (seeded) team list into equal groups using
// a boustrophedon distribution: the first pass deals teams to groups left to
// right, the second right to left, alternating, so seeded order does not
// stack the strongest teams into one group.
//
// The team count must divide evenly by groupSize. For groupSize 4 it must
// additionally divide by 8 so that top-2-per-group yields a power-of-two
// knockout field.
func CreateGroups(teamIDs []int, groupSize int) ([]Group, error) {
	if err := validateTeams(teamIDs); err != nil {
		return nil, err
	}
	if groupSize < 2 {
		return nil, fmt.Errorf("%w: group size %d", ErrGroupSizeInvalid, groupSize)
	}
	if len(teamIDs)%groupSize != 0 {
		return nil, fmt.Errorf("%w: %d teams cannot form groups of %d", ErrGroupSizeInvalid, len(teamIDs), groupSize)
	}
	if groupSize == DefaultGroupSize && len(teamIDs)%8 != 0 {
		return nil, fmt.Errorf("%w: %d teams with groups of 4 must be divisible by 8 for a valid knockout field", ErrGroupSizeInvalid, len(teamIDs))
	}

	groupCount := len(teamIDs) / groupSize
	groups := make([]Group, groupCount)
	for i := range groups {
		groups[i] = Group{Name: groupName(i), TeamIDs: make([]int, 0, groupSize)}
	}

	for pass := 0; pass*groupCount < len(teamIDs); pass++ {
		for g := 0; g < groupCount; g++ {
			target := g
			if pass%2 == 1 {
				target = groupCount - 1 - g
			}
			groups[target].TeamIDs = append(groups[target].TeamIDs, teamIDs[pass*groupCount+g])
		}
	}
	return groups, nil
}

// GenerateGroupFixtures produces the round-robin schedule inside one group.
// doubleLeg plays every pairing home and away (champions-league variant).
// Round labels are namespaced by group so group rounds can be told apart.
func GenerateGroupFixtures(g Group, doubleLeg bool) ([]Fixture, error) {
	base, err := GenerateLeagueFixtures(g.TeamIDs, doubleLeg)
	if err != nil {
		return nil, fmt.Errorf("group %s: %w", g.Name, err)
	}
	out := make([]Fixture, len(base))
	for i, f := range base {
		var round int
		if _, err := fmt.Sscanf(f.RoundLabel, "League Round %d", &round); err != nil {
			return nil, fmt.Errorf("group %s: malformed round label %q", g.Name, f.RoundLabel)
		}
		f.RoundLabel = fmt.Sprintf("Group %s Round %d", g.Name, round)
		out[i] = f
	}
	return out, nil
}

// SeedKnockoutFromGroups builds the first knockout round from final group
// tables: taking groups in pairs, each group's winner meets the paired
// group's runner-up (A1 vs B2, B1 vs A2, then C/D, and so on). Cross-seeding
// keeps teams from the same group apart in the opening round.
func SeedKnockoutFromGroups(rankings []GroupRanking) ([]Fixture, error) {
	if len(rankings) == 0 || len(rankings)%2 != 0 {
		return nil, fmt.Errorf("%w: got %d groups", ErrOddGroupCount, len(rankings))
	}
	for _, r := range rankings {
		if len(r.TeamIDs) < 2 {
			return nil, fmt.Errorf("%w: group %s has %d", ErrGroupTooShallow, r.Group, len(r.TeamIDs))
		}
	}

	label := KnockoutRoundLabel(len(rankings) * 2)
	out := make([]Fixture, 0, len(rankings))
	for i := 0; i+1 < len(rankings); i += 2 {
		a, b := rankings[i], rankings[i+1]
		out = append(out,
			Fixture{HomeTeamID: a.TeamIDs[0], AwayTeamID: b.TeamIDs[1], RoundLabel: label},
			Fixture{HomeTeamID: b.TeamIDs[0], AwayTeamID: a.TeamIDs[1], RoundLabel: label},
		)
	}
	return out, nil
}
