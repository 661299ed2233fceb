package fixtures

import "fmt"

// byeMarker is the dummy slot used by the circle method for odd team counts.
// Fixtures involving it are dropped after rotation.
const byeMarker = -1

// GenerateLeagueFixtures builds a full round-robin schedule with the circle
// method: one team stays fixed while the rest rotate each round, giving
// n-1 rounds of n/2 matches. Odd team counts get a bye slot that is removed
// from the output. With homeAndAway a mirrored second leg is appended, its
// round numbers offset past the first leg.
func GenerateLeagueFixtures(teamIDs []int, homeAndAway bool) ([]Fixture, error) {
	if err := validateTeams(teamIDs); err != nil {
		return nil, err
	}

	ring := make([]int, len(teamIDs))
	copy(ring, teamIDs)
	if len(ring)%2 != 0 {
		ring = append(ring, byeMarker)
	}

	n := len(ring)
	rounds := n - 1
	perRound := n / 2

	firstLeg := make([]Fixture, 0, rounds*perRound)
	for round := 1; round <= rounds; round++ {
		for i := 0; i < perRound; i++ {
			home := ring[i]
			away := ring[n-1-i]
			if home == byeMarker || away == byeMarker {
				continue
			}
			// Alternate hosting for the fixed seat so the first team
			// does not host every single round.
			if i == 0 && round%2 == 0 {
				home, away = away, home
			}
			firstLeg = append(firstLeg, Fixture{
				HomeTeamID: home,
				AwayTeamID: away,
				RoundLabel: fmt.Sprintf("League Round %d", round),
			})
		}
		// Rotate everything except the fixed first seat.
		last := ring[n-1]
		copy(ring[2:], ring[1:n-1])
		ring[1] = last
	}

	if !homeAndAway {
		return firstLeg, nil
	}

	all := make([]Fixture, 0, 2*len(firstLeg))
	all = append(all, firstLeg...)
	for _, f := range firstLeg {
		var legOneRound int
		if _, err := fmt.Sscanf(f.RoundLabel, "League Round %d", &legOneRound); err != nil {
			return nil, fmt.Errorf("malformed round label %q: %w", f.RoundLabel, err)
		}
		all = append(all, Fixture{
			HomeTeamID: f.AwayTeamID,
			AwayTeamID: f.HomeTeamID,
			RoundLabel: fmt.Sprintf("League Round %d", legOneRound+rounds),
		})
	}
	return all, nil
}
