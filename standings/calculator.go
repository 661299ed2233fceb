// Package standings turns a set of matches into ranked league tables.
// Computation is always a full pass over the approved-match set so tables
// can never drift from it, even after reversals or replays.
package standings

import (
	"sort"

	"github.com/khaleegram/earena/models"
)

// Points awarded per result.
const (
	PointsWin  = 3
	PointsDraw = 1
	PointsLoss = 0
)

// Compute aggregates matches into a ranked table. Every team appearing in
// the match set gets a row, so teams with nothing approved yet still show
// with zeros. Only approved matches with recorded scores contribute.
//
// Ordering is total and deterministic: points desc, goal difference desc,
// goals-for desc, team id asc. The same ordering is used for tournament
// and group tables.
func Compute(matches []models.Match) []models.TournamentStanding {
	rows := make(map[int]*models.TournamentStanding)
	ensure := func(teamID int) *models.TournamentStanding {
		if row, ok := rows[teamID]; ok {
			return row
		}
		row := &models.TournamentStanding{TeamID: teamID}
		rows[teamID] = row
		return row
	}

	for _, m := range matches {
		home := ensure(m.HomeTeamID)
		away := ensure(m.AwayTeamID)
		home.TournamentID = m.TournamentID
		away.TournamentID = m.TournamentID

		if m.Status != models.MatchApproved || m.HomeScore == nil || m.AwayScore == nil {
			continue
		}
		hs, as := *m.HomeScore, *m.AwayScore

		home.Played++
		away.Played++
		home.GoalsFor += hs
		home.GoalsAgainst += as
		away.GoalsFor += as
		away.GoalsAgainst += hs
		if as == 0 {
			home.CleanSheets++
		}
		if hs == 0 {
			away.CleanSheets++
		}

		switch {
		case hs > as:
			home.Wins++
			home.Points += PointsWin
			away.Losses++
		case hs < as:
			away.Wins++
			away.Points += PointsWin
			home.Losses++
		default:
			home.Draws++
			away.Draws++
			home.Points += PointsDraw
			away.Points += PointsDraw
		}
	}

	table := make([]models.TournamentStanding, 0, len(rows))
	for _, row := range rows {
		table = append(table, *row)
	}
	sort.Slice(table, func(i, j int) bool {
		a, b := table[i], table[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference() != b.GoalDifference() {
			return a.GoalDifference() > b.GoalDifference()
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		return a.TeamID < b.TeamID
	})
	for i := range table {
		table[i].Rank = i + 1
	}
	return table
}

// ComputeGroup scopes the table to one group's matches and stamps rows with
// the group name.
func ComputeGroup(matches []models.Match, group string) []models.TournamentStanding {
	scoped := make([]models.Match, 0, len(matches))
	for _, m := range matches {
		if m.GroupName() == group {
			scoped = append(scoped, m)
		}
	}
	table := Compute(scoped)
	for i := range table {
		table[i].GroupName = group
	}
	return table
}
