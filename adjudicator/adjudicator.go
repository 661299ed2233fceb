// Package adjudicator defines the contract with the external
// evidence-verification service that turns two captains' screenshots into a
// verdict. The engine only ever talks to the Adjudicator interface so the
// real HTTP client can be swapped for a fake in tests.
package adjudicator

import (
	"context"
	"errors"
	"time"

	"github.com/khaleegram/earena/models"
)

// Verdict is the adjudicator's decision on a pair of reports.
type Verdict string

const (
	VerdictVerified               Verdict = "verified"
	VerdictNeedsSecondaryEvidence Verdict = "needs_secondary_evidence"
	VerdictReplayRequired         Verdict = "replay_required"
	VerdictDisputed               Verdict = "disputed"
)

var ErrUnavailable = errors.New("adjudicator unavailable")

type Request struct {
	HomeTeamName     string                `json:"home_team_name"`
	AwayTeamName     string                `json:"away_team_name"`
	ScheduledDate    time.Time             `json:"scheduled_date"`
	RoomCodeIssuedAt *time.Time            `json:"room_code_issued_at,omitempty"`
	Evidence         []models.EvidenceItem `json:"evidence"`
}

type Result struct {
	Verdict   Verdict                `json:"verdict"`
	HomeScore *int                   `json:"home_score,omitempty"`
	AwayScore *int                   `json:"away_score,omitempty"`
	HomeStats *models.TeamMatchStats `json:"home_stats,omitempty"`
	AwayStats *models.TeamMatchStats `json:"away_stats,omitempty"`
	Reasoning string                 `json:"reasoning,omitempty"`
	// SuspectedFalsifier names a team whose evidence looks doctored.
	// The caller translates this into a reputation warning; it never
	// changes the match outcome by itself.
	SuspectedFalsifier string `json:"suspected_falsifier,omitempty"`
}

// HasScores reports whether the verdict carries a usable scoreline.
func (r *Result) HasScores() bool {
	return r.HomeScore != nil && r.AwayScore != nil
}

// HasStats reports whether per-team statistics were extracted for both sides.
func (r *Result) HasStats() bool {
	return r.HomeStats != nil && r.AwayStats != nil
}

type Adjudicator interface {
	Adjudicate(ctx context.Context, req Request) (*Result, error)
}
