package models

import "time"

// CaptainStats are a captain's cumulative competitive aggregates across all
// approved matches. Per-stat fields (shots, passes, pass accuracy, tackles)
// only accumulate when the match carried extracted statistics and no
// stats penalty; wins/losses/goals always count.
type CaptainStats struct {
	UserID         int       `json:"user_id" db:"user_id"`
	MatchesPlayed  int       `json:"matches_played" db:"matches_played"`
	Wins           int       `json:"wins" db:"wins"`
	Draws          int       `json:"draws" db:"draws"`
	Losses         int       `json:"losses" db:"losses"`
	GoalsScored    int       `json:"goals_scored" db:"goals_scored"`
	GoalsConceded  int       `json:"goals_conceded" db:"goals_conceded"`
	CleanSheets    int       `json:"clean_sheets" db:"clean_sheets"`
	StatMatches    int       `json:"stat_matches" db:"stat_matches"`
	TotalShots     int       `json:"total_shots" db:"total_shots"`
	TotalPasses    int       `json:"total_passes" db:"total_passes"`
	TotalTackles   int       `json:"total_tackles" db:"total_tackles"`
	PassAccuracySum float64  `json:"pass_accuracy_sum" db:"pass_accuracy_sum"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// AveragePassAccuracy is the mean pass accuracy over matches that carried
// extracted statistics. Zero when no such match exists.
func (s *CaptainStats) AveragePassAccuracy() float64 {
	if s.StatMatches == 0 {
		return 0
	}
	return s.PassAccuracySum / float64(s.StatMatches)
}
