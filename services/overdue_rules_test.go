package services

import (
	"errors"
	"testing"

	"github.com/khaleegram/earena/models"
)

func leagueTournament() *models.Tournament {
	return &models.Tournament{ID: 1, Format: models.FormatLeague}
}

func TestOverdueBothPrimariesGoBackToAdjudication(t *testing.T) {
	s := &matchLifecycleService{}
	m := newScheduledMatch()
	m.Status = models.MatchAwaitingConfirmation
	home := report(10, 2, 1)
	away := report(20, 1, 2)
	m.HomePrimaryReport = &home
	m.AwayPrimaryReport = &away

	approved, adjudicate := s.applyOverdueRule(m, leagueTournament())
	if approved || !adjudicate {
		t.Fatalf("approved=%v adjudicate=%v, want the pair re-adjudicated", approved, adjudicate)
	}
	if m.Status != models.MatchAwaitingConfirmation || m.HomeScore != nil {
		t.Errorf("match headed back to adjudication must be untouched, got %+v", m)
	}
}

func TestOverdueBothSecondariesGoBackToAdjudication(t *testing.T) {
	s := &matchLifecycleService{}
	m := newScheduledMatch()
	m.Status = models.MatchNeedsSecondaryEvidence
	home := report(10, 2, 1)
	away := report(20, 2, 1)
	m.HomeSecondaryReport = &home
	m.AwaySecondaryReport = &away

	approved, adjudicate := s.applyOverdueRule(m, leagueTournament())
	if approved || !adjudicate {
		t.Fatalf("approved=%v adjudicate=%v, want the pair re-adjudicated", approved, adjudicate)
	}
	if m.Status != models.MatchNeedsSecondaryEvidence {
		t.Errorf("status = %s, want needs_secondary_evidence", m.Status)
	}
}

func TestOverdueLoneReportStandsWithPenalty(t *testing.T) {
	s := &matchLifecycleService{}
	m := newScheduledMatch()
	m.Status = models.MatchAwaitingConfirmation
	home := report(10, 2, 1)
	m.HomePrimaryReport = &home

	approved, adjudicate := s.applyOverdueRule(m, leagueTournament())
	if !approved || adjudicate {
		t.Fatalf("approved=%v adjudicate=%v, want lone report approved", approved, adjudicate)
	}
	if *m.HomeScore != 2 || *m.AwayScore != 1 {
		t.Errorf("score = %d-%d, want the reporter's 2-1", *m.HomeScore, *m.AwayScore)
	}
	if m.HomeStatsPenalty || !m.AwayStatsPenalty {
		t.Error("only the silent side takes the stats penalty")
	}
	if m.Status != models.MatchApproved {
		t.Errorf("status = %s, want approved", m.Status)
	}
}

func TestOverdueLoneDrawnReportKnockoutReschedules(t *testing.T) {
	s := &matchLifecycleService{}
	m := newScheduledMatch()
	m.RoundLabel = "Semi-finals"
	m.Status = models.MatchAwaitingConfirmation
	home := report(10, 1, 1)
	m.HomePrimaryReport = &home

	approved, adjudicate := s.applyOverdueRule(m, leagueTournament())
	if approved || adjudicate {
		t.Fatalf("approved=%v adjudicate=%v, want a reschedule", approved, adjudicate)
	}
	if m.Status != models.MatchScheduled || !m.IsReplay {
		t.Errorf("drawn knockout breach should reschedule, got %+v", m)
	}
}

func TestOverdueNoReportsGoallessDraw(t *testing.T) {
	s := &matchLifecycleService{}
	m := newScheduledMatch()

	approved, adjudicate := s.applyOverdueRule(m, leagueTournament())
	if !approved || adjudicate {
		t.Fatalf("approved=%v adjudicate=%v, want a forced draw", approved, adjudicate)
	}
	if *m.HomeScore != 0 || *m.AwayScore != 0 {
		t.Errorf("score = %d-%d, want 0-0", *m.HomeScore, *m.AwayScore)
	}
	if !m.HomeStatsPenalty || !m.AwayStatsPenalty {
		t.Error("both silent sides take the stats penalty")
	}
}

func TestOverdueNoReportsKnockoutDisputes(t *testing.T) {
	s := &matchLifecycleService{}
	m := newScheduledMatch()
	m.RoundLabel = "Final"

	approved, adjudicate := s.applyOverdueRule(m, leagueTournament())
	if approved || adjudicate {
		t.Fatalf("approved=%v adjudicate=%v, want a dispute", approved, adjudicate)
	}
	if m.Status != models.MatchDisputed {
		t.Errorf("status = %s, want disputed", m.Status)
	}
}

func TestOverdueSecondaryNothingSubmittedDisputes(t *testing.T) {
	s := &matchLifecycleService{}
	m := newScheduledMatch()
	m.Status = models.MatchNeedsSecondaryEvidence

	approved, adjudicate := s.applyOverdueRule(m, leagueTournament())
	if approved || adjudicate {
		t.Fatalf("approved=%v adjudicate=%v, want a dispute", approved, adjudicate)
	}
	if m.Status != models.MatchDisputed {
		t.Errorf("status = %s, want disputed", m.Status)
	}
}

func TestVerifyCaptainGatesActors(t *testing.T) {
	team := &models.Team{ID: 10, CaptainID: 7}

	if err := verifyCaptain(team, 7); err != nil {
		t.Errorf("captain rejected: %v", err)
	}
	if err := verifyCaptain(team, 8); !errors.Is(err, ErrNotTeamCaptain) {
		t.Errorf("non-captain: got %v, want ErrNotTeamCaptain", err)
	}
	if err := verifyCaptain(nil, 7); !errors.Is(err, ErrNotTeamCaptain) {
		t.Errorf("missing team: got %v, want ErrNotTeamCaptain", err)
	}
}
