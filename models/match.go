package models

import (
	"strings"
	"time"
)

// MatchStatus matches the status ENUM in the DB.
type MatchStatus string

const (
	MatchScheduled              MatchStatus = "scheduled"
	MatchAwaitingConfirmation   MatchStatus = "awaiting_confirmation"
	MatchNeedsSecondaryEvidence MatchStatus = "needs_secondary_evidence"
	MatchDisputed               MatchStatus = "disputed"
	MatchApproved               MatchStatus = "approved"
)

// RoundKind is the semantic class of a free-text round label.
type RoundKind string

const (
	RoundLeague   RoundKind = "league"
	RoundGroup    RoundKind = "group"
	RoundSwiss    RoundKind = "swiss"
	RoundKnockout RoundKind = "knockout"
)

// EvidenceKind tags what a submitted screenshot shows.
type EvidenceKind string

const (
	EvidenceMatchStats   EvidenceKind = "match_stats"
	EvidenceMatchHistory EvidenceKind = "match_history"
)

type EvidenceItem struct {
	Kind        EvidenceKind `json:"kind"`
	ImageKey    string       `json:"image_key"`
	Fingerprint string       `json:"fingerprint,omitempty"`
	TeamName    string       `json:"team_name"`
}

// MatchReport is one captain's account of the result.
type MatchReport struct {
	TeamID      int            `json:"team_id"`
	HomeScore   int            `json:"home_score"`
	AwayScore   int            `json:"away_score"`
	Evidence    []EvidenceItem `json:"evidence"`
	SubmittedAt time.Time      `json:"submitted_at"`
}

// TeamMatchStats are the per-team statistics the adjudicator extracts
// from a match_stats screenshot.
type TeamMatchStats struct {
	Shots        int     `json:"shots"`
	Possession   int     `json:"possession"`
	Passes       int     `json:"passes"`
	PassAccuracy float64 `json:"pass_accuracy"`
	Tackles      int     `json:"tackles"`
}

type ReplayRequest struct {
	ID                string     `json:"id"`
	RequestedByTeamID int        `json:"requested_by_team_id"`
	Reason            string     `json:"reason"`
	OpponentAccepted  *bool      `json:"opponent_accepted,omitempty"`
	OrganizerApproved *bool      `json:"organizer_approved,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	ResolvedAt        *time.Time `json:"resolved_at,omitempty"`
}

type Match struct {
	ID           int         `json:"id" db:"id"`
	TournamentID int         `json:"tournament_id" db:"tournament_id"`
	HomeTeamID   int         `json:"home_team_id" db:"home_team_id"`
	AwayTeamID   int         `json:"away_team_id" db:"away_team_id"`
	RoundLabel   string      `json:"round_label" db:"round_label"`
	ScheduledDay time.Time   `json:"scheduled_day" db:"scheduled_day"`
	Deadline     time.Time   `json:"deadline" db:"deadline"`
	Status       MatchStatus `json:"status" db:"status"`

	HomeScore     *int `json:"home_score,omitempty" db:"home_score"`
	AwayScore     *int `json:"away_score,omitempty" db:"away_score"`
	HomePenalties *int `json:"home_penalties,omitempty" db:"home_penalties"`
	AwayPenalties *int `json:"away_penalties,omitempty" db:"away_penalties"`

	HomePrimaryReport   *MatchReport `json:"home_primary_report,omitempty" db:"-"`
	AwayPrimaryReport   *MatchReport `json:"away_primary_report,omitempty" db:"-"`
	HomeSecondaryReport *MatchReport `json:"home_secondary_report,omitempty" db:"-"`
	AwaySecondaryReport *MatchReport `json:"away_secondary_report,omitempty" db:"-"`

	HomeStats *TeamMatchStats `json:"home_stats,omitempty" db:"-"`
	AwayStats *TeamMatchStats `json:"away_stats,omitempty" db:"-"`

	ResolutionNote    *string        `json:"resolution_note,omitempty" db:"resolution_note"`
	ForfeitedByTeamID *int           `json:"forfeited_by_team_id,omitempty" db:"forfeited_by_team_id"`
	HomeStatsPenalty  bool           `json:"home_stats_penalty" db:"home_stats_penalty"`
	AwayStatsPenalty  bool           `json:"away_stats_penalty" db:"away_stats_penalty"`
	IsReplay          bool           `json:"is_replay" db:"is_replay"`
	ReplayRequest     *ReplayRequest `json:"replay_request,omitempty" db:"-"`
	RoomCodeIssuedAt  *time.Time     `json:"room_code_issued_at,omitempty" db:"room_code_issued_at"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ClassifyRound maps a free-text round label onto its semantic kind.
// Knockout labels are the ones fixture generation produces for bracket
// rounds; everything unrecognized is treated as a league round.
func ClassifyRound(label string) RoundKind {
	switch {
	case strings.HasPrefix(label, "Group "):
		return RoundGroup
	case strings.HasPrefix(label, "Swiss Round "):
		return RoundSwiss
	case label == "Final" || label == "Semi-finals" || label == "Quarter-finals" || strings.HasPrefix(label, "Round of "):
		return RoundKnockout
	default:
		return RoundLeague
	}
}

// RoundKind classifies this match's round label.
func (m *Match) RoundKind() RoundKind {
	return ClassifyRound(m.RoundLabel)
}

// GroupName extracts the group name from a group-round label
// ("Group A Round 2" -> "A"). Empty for non-group rounds.
func (m *Match) GroupName() string {
	if m.RoundKind() != RoundGroup {
		return ""
	}
	rest := strings.TrimPrefix(m.RoundLabel, "Group ")
	if i := strings.Index(rest, " "); i > 0 {
		return rest[:i]
	}
	return rest
}

// Involves reports whether teamID plays in this match.
func (m *Match) Involves(teamID int) bool {
	return m.HomeTeamID == teamID || m.AwayTeamID == teamID
}

// PrimaryReport returns the primary report submitted by teamID, nil if none.
func (m *Match) PrimaryReport(teamID int) *MatchReport {
	switch teamID {
	case m.HomeTeamID:
		return m.HomePrimaryReport
	case m.AwayTeamID:
		return m.AwayPrimaryReport
	}
	return nil
}

// SecondaryReport returns the secondary report submitted by teamID, nil if none.
func (m *Match) SecondaryReport(teamID int) *MatchReport {
	switch teamID {
	case m.HomeTeamID:
		return m.HomeSecondaryReport
	case m.AwayTeamID:
		return m.AwaySecondaryReport
	}
	return nil
}

// HasBothPrimaryReports reports whether both captains have filed primaries.
func (m *Match) HasBothPrimaryReports() bool {
	return m.HomePrimaryReport != nil && m.AwayPrimaryReport != nil
}

// HasBothSecondaryReports reports whether both captains have filed secondaries.
func (m *Match) HasBothSecondaryReports() bool {
	return m.HomeSecondaryReport != nil && m.AwaySecondaryReport != nil
}
