package models

import "time"

// TournamentStanding is a derived per-team aggregate. It is recomputed in
// full from the approved-match set on every approval, reversal or replay,
// never patched incrementally.
type TournamentStanding struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	TeamID       int       `json:"team_id" db:"team_id"`
	GroupName    string    `json:"group_name,omitempty" db:"group_name"`
	Played       int       `json:"played" db:"played"`
	Wins         int       `json:"wins" db:"wins"`
	Draws        int       `json:"draws" db:"draws"`
	Losses       int       `json:"losses" db:"losses"`
	GoalsFor     int       `json:"goals_for" db:"goals_for"`
	GoalsAgainst int       `json:"goals_against" db:"goals_against"`
	CleanSheets  int       `json:"clean_sheets" db:"clean_sheets"`
	Points       int       `json:"points" db:"points"`
	Rank         int       `json:"rank" db:"rank"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// GoalDifference is GoalsFor minus GoalsAgainst.
func (s *TournamentStanding) GoalDifference() int {
	return s.GoalsFor - s.GoalsAgainst
}
