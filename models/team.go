package models

import "time"

type Player struct {
	UserID    int    `json:"user_id" db:"user_id"`
	Gamertag  string `json:"gamertag" db:"gamertag"`
	IsCaptain bool   `json:"is_captain" db:"is_captain"`
}

type Team struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	Name         string    `json:"name" db:"name"`
	CaptainID    int       `json:"captain_id" db:"captain_id"`
	Approved     bool      `json:"approved" db:"approved"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	Roster []Player `json:"roster,omitempty" db:"-"`
}
