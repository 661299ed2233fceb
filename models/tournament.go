package models

import "time"

// TournamentFormat matches the format ENUM in the DB.
type TournamentFormat string

const (
	FormatLeague          TournamentFormat = "league"
	FormatCup             TournamentFormat = "cup"
	FormatChampionsLeague TournamentFormat = "champions-league"
	FormatSwiss           TournamentFormat = "swiss"
)

// TournamentStatus matches the status ENUM in the DB.
type TournamentStatus string

const (
	StatusPending            TournamentStatus = "pending"
	StatusRegistration       TournamentStatus = "open-for-registration"
	StatusGeneratingFixtures TournamentStatus = "generating-fixtures"
	StatusReadyToStart       TournamentStatus = "ready-to-start"
	StatusInProgress         TournamentStatus = "in-progress"
	StatusCompleted          TournamentStatus = "completed"
)

// RuleFlags are per-tournament toggles that change how matches are resolved.
type RuleFlags struct {
	HomeAndAway bool `json:"home_and_away"`
	Penalties   bool `json:"penalties"`
	ExtraTime   bool `json:"extra_time"`
}

type Tournament struct {
	ID           int              `json:"id" db:"id"`
	Name         string           `json:"name" db:"name"`
	Game         string           `json:"game" db:"game"`
	Format       TournamentFormat `json:"format" db:"format"`
	OrganizerID  int              `json:"organizer_id" db:"organizer_id"`
	MaxTeams     int              `json:"max_teams" db:"max_teams"`
	TeamCount    int              `json:"team_count" db:"team_count"`
	GroupSize    int              `json:"group_size" db:"group_size"`
	RegDate      time.Time        `json:"reg_date" db:"reg_date"`
	StartDate    time.Time        `json:"start_date" db:"start_date"`
	EndDate      time.Time        `json:"end_date" db:"end_date"`
	Rules        RuleFlags        `json:"rules" db:"-"`
	Status       TournamentStatus `json:"status" db:"status"`
	WinnerTeamID *int             `json:"winner_team_id,omitempty" db:"winner_team_id"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`

	// Optional linked entities, populated by services.
	Teams   []Team  `json:"teams,omitempty" db:"-"`
	Matches []Match `json:"matches,omitempty" db:"-"`
}

// SupportsGroups reports whether the format opens with a group stage.
func (f TournamentFormat) SupportsGroups() bool {
	return f == FormatCup || f == FormatChampionsLeague
}
