package services

import (
	"fmt"

	"github.com/khaleegram/earena/adjudicator"
	"github.com/khaleegram/earena/models"
)

// This file holds the pure transition rules of the match state machine.
// Everything here mutates in-memory structs only; the service methods wrap
// these in a transaction around "lock match -> apply rule -> write match".

// matchOutcome reads the decided result off an approved match. winner is 0
// on a draw. Penalty scores break a level scoreline when present.
func matchOutcome(m *models.Match) (winner int, draw bool) {
	if m.HomeScore == nil || m.AwayScore == nil {
		return 0, false
	}
	hs, as := *m.HomeScore, *m.AwayScore
	switch {
	case hs > as:
		return m.HomeTeamID, false
	case hs < as:
		return m.AwayTeamID, false
	}
	if m.HomePenalties != nil && m.AwayPenalties != nil {
		if *m.HomePenalties > *m.AwayPenalties {
			return m.HomeTeamID, false
		}
		if *m.HomePenalties < *m.AwayPenalties {
			return m.AwayTeamID, false
		}
	}
	return 0, true
}

// verifyCaptain gates the captain-only operations: the acting user must be
// the captain of the team the request claims to act for.
func verifyCaptain(team *models.Team, userID int) error {
	if team == nil || team.CaptainID != userID {
		return ErrNotTeamCaptain
	}
	return nil
}

// mergeReport validates and attaches a captain's report to the match,
// advancing the status on the first primary. It reports whether the match
// now has a complete report pair ready for adjudication.
func mergeReport(m *models.Match, report models.MatchReport, secondary bool) (readyForAdjudication bool, err error) {
	if !m.Involves(report.TeamID) {
		return false, ErrNotMatchParticipant
	}
	if m.Status == models.MatchApproved {
		return false, ErrMatchAlreadyApproved
	}

	if secondary {
		if m.Status != models.MatchNeedsSecondaryEvidence {
			return false, ErrSecondaryNotRequested
		}
		if m.SecondaryReport(report.TeamID) != nil {
			return false, ErrReportAlreadySubmitted
		}
		if report.TeamID == m.HomeTeamID {
			m.HomeSecondaryReport = &report
		} else {
			m.AwaySecondaryReport = &report
		}
		return m.HasBothSecondaryReports(), nil
	}

	if m.Status != models.MatchScheduled && m.Status != models.MatchAwaitingConfirmation {
		return false, ErrMatchNotReportable
	}
	if m.PrimaryReport(report.TeamID) != nil {
		return false, ErrReportAlreadySubmitted
	}
	if report.TeamID == m.HomeTeamID {
		m.HomePrimaryReport = &report
	} else {
		m.AwayPrimaryReport = &report
	}
	if m.Status == models.MatchScheduled {
		m.Status = models.MatchAwaitingConfirmation
	}
	return m.HasBothPrimaryReports(), nil
}

// applyVerdict maps an adjudicator result onto the match. It returns true
// when the verdict approved the match, meaning the approval side-effects
// must run in the same transaction as the match write.
func applyVerdict(m *models.Match, res *adjudicator.Result, penaltiesEnabled bool) (approved bool) {
	switch res.Verdict {
	case adjudicator.VerdictVerified:
		if !res.HasScores() {
			setNote(m, "adjudicator returned a verified verdict without scores")
			m.Status = models.MatchDisputed
			return false
		}
		if *res.HomeScore == *res.AwayScore && m.RoundKind() == models.RoundKnockout && !penaltiesEnabled {
			setNote(m, "verified scoreline is a draw; knockout match requires a winner and penalties are disabled")
			m.Status = models.MatchDisputed
			return false
		}
		m.HomeScore = res.HomeScore
		m.AwayScore = res.AwayScore
		if res.HasStats() {
			m.HomeStats = res.HomeStats
			m.AwayStats = res.AwayStats
		} else {
			// Result stands but neither captain gets detailed stat credit.
			m.HomeStatsPenalty = true
			m.AwayStatsPenalty = true
		}
		if res.Reasoning != "" {
			setNote(m, res.Reasoning)
		}
		m.Status = models.MatchApproved
		return true

	case adjudicator.VerdictNeedsSecondaryEvidence:
		if res.Reasoning != "" {
			setNote(m, res.Reasoning)
		}
		m.Status = models.MatchNeedsSecondaryEvidence
		return false

	case adjudicator.VerdictReplayRequired:
		resetForReplay(m)
		if res.Reasoning != "" {
			setNote(m, res.Reasoning)
		}
		return false

	default:
		if res.Reasoning != "" {
			setNote(m, res.Reasoning)
		} else {
			setNote(m, "adjudicator could not resolve the conflicting reports")
		}
		m.Status = models.MatchDisputed
		return false
	}
}

// resetForReplay wipes every report and provisional result and returns the
// match to scheduled, flagged as a replay.
func resetForReplay(m *models.Match) {
	m.HomeScore = nil
	m.AwayScore = nil
	m.HomePenalties = nil
	m.AwayPenalties = nil
	m.HomePrimaryReport = nil
	m.AwayPrimaryReport = nil
	m.HomeSecondaryReport = nil
	m.AwaySecondaryReport = nil
	m.HomeStats = nil
	m.AwayStats = nil
	m.HomeStatsPenalty = false
	m.AwayStatsPenalty = false
	m.ForfeitedByTeamID = nil
	m.ResolutionNote = nil
	m.Status = models.MatchScheduled
	m.IsReplay = true
}

// applyForfeit scores the match 3-0 against the forfeiting side and
// approves it. Only the forfeiting captain takes the stats penalty.
func applyForfeit(m *models.Match, forfeitingTeamID int) error {
	if !m.Involves(forfeitingTeamID) {
		return ErrNotMatchParticipant
	}
	if m.Status == models.MatchApproved {
		return ErrMatchAlreadyApproved
	}

	winScore, loseScore := 3, 0
	if forfeitingTeamID == m.HomeTeamID {
		m.HomeScore = &loseScore
		m.AwayScore = &winScore
		m.HomeStatsPenalty = true
	} else {
		m.HomeScore = &winScore
		m.AwayScore = &loseScore
		m.AwayStatsPenalty = true
	}
	m.HomePenalties = nil
	m.AwayPenalties = nil
	m.ForfeitedByTeamID = &forfeitingTeamID
	setNote(m, fmt.Sprintf("forfeited by team %d", forfeitingTeamID))
	m.Status = models.MatchApproved
	return nil
}

func setNote(m *models.Match, note string) {
	m.ResolutionNote = &note
}

// sideStats returns the given team's extracted stats and penalty flag from
// the match's frozen result.
func sideStats(m *models.Match, teamID int) (*models.TeamMatchStats, bool) {
	if teamID == m.HomeTeamID {
		return m.HomeStats, m.HomeStatsPenalty
	}
	return m.AwayStats, m.AwayStatsPenalty
}

func sideScores(m *models.Match, teamID int) (scored, conceded int) {
	if teamID == m.HomeTeamID {
		return *m.HomeScore, *m.AwayScore
	}
	return *m.AwayScore, *m.HomeScore
}

// applyMatchToCaptainStats adds one approved match's contribution to a
// captain's cumulative record. Win/loss/goal tallies always count; the
// detailed per-stat aggregates are skipped under a stats penalty.
func applyMatchToCaptainStats(stats *models.CaptainStats, m *models.Match, teamID int) {
	scored, conceded := sideScores(m, teamID)
	winner, draw := matchOutcome(m)

	stats.MatchesPlayed++
	stats.GoalsScored += scored
	stats.GoalsConceded += conceded
	if conceded == 0 {
		stats.CleanSheets++
	}
	switch {
	case draw:
		stats.Draws++
	case winner == teamID:
		stats.Wins++
	default:
		stats.Losses++
	}

	extracted, penalized := sideStats(m, teamID)
	if extracted != nil && !penalized {
		stats.StatMatches++
		stats.TotalShots += extracted.Shots
		stats.TotalPasses += extracted.Passes
		stats.TotalTackles += extracted.Tackles
		stats.PassAccuracySum += extracted.PassAccuracy
	}
}

// reverseMatchFromCaptainStats is the exact inverse of
// applyMatchToCaptainStats, computed from the match's frozen score and
// stats rather than current aggregate state, so applying then reversing is
// always a no-op.
func reverseMatchFromCaptainStats(stats *models.CaptainStats, m *models.Match, teamID int) {
	scored, conceded := sideScores(m, teamID)
	winner, draw := matchOutcome(m)

	stats.MatchesPlayed--
	stats.GoalsScored -= scored
	stats.GoalsConceded -= conceded
	if conceded == 0 {
		stats.CleanSheets--
	}
	switch {
	case draw:
		stats.Draws--
	case winner == teamID:
		stats.Wins--
	default:
		stats.Losses--
	}

	extracted, penalized := sideStats(m, teamID)
	if extracted != nil && !penalized {
		stats.StatMatches--
		stats.TotalShots -= extracted.Shots
		stats.TotalPasses -= extracted.Passes
		stats.TotalTackles -= extracted.Tackles
		stats.PassAccuracySum -= extracted.PassAccuracy
	}
}
