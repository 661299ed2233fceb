package services

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/khaleegram/earena/adjudicator"
	"github.com/khaleegram/earena/models"
)

func newScheduledMatch() *models.Match {
	return &models.Match{
		ID:           1,
		TournamentID: 1,
		HomeTeamID:   10,
		AwayTeamID:   20,
		RoundLabel:   "League Round 1",
		Status:       models.MatchScheduled,
	}
}

func report(teamID, hs, as int) models.MatchReport {
	return models.MatchReport{
		TeamID:      teamID,
		HomeScore:   hs,
		AwayScore:   as,
		Evidence:    []models.EvidenceItem{{Kind: models.EvidenceMatchStats, ImageKey: "k"}},
		SubmittedAt: time.Now(),
	}
}

func intPtr(v int) *int { return &v }

func TestMergeReportPrimaryFlow(t *testing.T) {
	m := newScheduledMatch()

	ready, err := mergeReport(m, report(10, 2, 1), false)
	if err != nil {
		t.Fatalf("first report: unexpected error: %v", err)
	}
	if ready {
		t.Error("one report should not be ready for adjudication")
	}
	if m.Status != models.MatchAwaitingConfirmation {
		t.Errorf("status = %s, want awaiting_confirmation", m.Status)
	}

	if _, err := mergeReport(m, report(10, 2, 1), false); !errors.Is(err, ErrReportAlreadySubmitted) {
		t.Errorf("duplicate report: got %v, want ErrReportAlreadySubmitted", err)
	}
	if _, err := mergeReport(m, report(99, 2, 1), false); !errors.Is(err, ErrNotMatchParticipant) {
		t.Errorf("outsider report: got %v, want ErrNotMatchParticipant", err)
	}

	ready, err = mergeReport(m, report(20, 2, 1), false)
	if err != nil {
		t.Fatalf("second report: unexpected error: %v", err)
	}
	if !ready {
		t.Error("both primaries in, expected ready for adjudication")
	}
}

func TestMergeReportSecondaryRequiresRequest(t *testing.T) {
	m := newScheduledMatch()
	if _, err := mergeReport(m, report(10, 1, 0), true); !errors.Is(err, ErrSecondaryNotRequested) {
		t.Errorf("got %v, want ErrSecondaryNotRequested", err)
	}

	m.Status = models.MatchNeedsSecondaryEvidence
	ready, err := mergeReport(m, report(10, 1, 0), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ready {
		t.Error("single secondary should not be ready")
	}
	ready, err = mergeReport(m, report(20, 1, 0), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ready {
		t.Error("both secondaries in, expected ready")
	}
}

func TestApplyVerdictVerifiedApproves(t *testing.T) {
	m := newScheduledMatch()
	m.Status = models.MatchAwaitingConfirmation

	res := &adjudicator.Result{
		Verdict:   adjudicator.VerdictVerified,
		HomeScore: intPtr(2),
		AwayScore: intPtr(1),
		HomeStats: &models.TeamMatchStats{Shots: 9, Passes: 200, PassAccuracy: 81.5, Tackles: 12},
		AwayStats: &models.TeamMatchStats{Shots: 4, Passes: 150, PassAccuracy: 74.0, Tackles: 18},
	}
	if approved := applyVerdict(m, res, false); !approved {
		t.Fatal("verified verdict with scores should approve")
	}
	if m.Status != models.MatchApproved || *m.HomeScore != 2 || *m.AwayScore != 1 {
		t.Errorf("match after verdict = %+v", m)
	}
	if m.HomeStats == nil || m.AwayStats == nil || m.HomeStatsPenalty || m.AwayStatsPenalty {
		t.Error("extracted stats should be kept without penalties")
	}
}

func TestApplyVerdictVerifiedWithoutStatsPenalizesBothSides(t *testing.T) {
	m := newScheduledMatch()
	m.Status = models.MatchAwaitingConfirmation

	res := &adjudicator.Result{
		Verdict:   adjudicator.VerdictVerified,
		HomeScore: intPtr(1),
		AwayScore: intPtr(0),
	}
	if approved := applyVerdict(m, res, false); !approved {
		t.Fatal("expected approval")
	}
	if !m.HomeStatsPenalty || !m.AwayStatsPenalty {
		t.Error("missing stats should set both penalty flags")
	}
}

func TestApplyVerdictKnockoutDrawWithoutPenaltiesDisputes(t *testing.T) {
	m := newScheduledMatch()
	m.RoundLabel = "Semi-finals"
	m.Status = models.MatchAwaitingConfirmation

	res := &adjudicator.Result{
		Verdict:   adjudicator.VerdictVerified,
		HomeScore: intPtr(1),
		AwayScore: intPtr(1),
	}
	if approved := applyVerdict(m, res, false); approved {
		t.Fatal("drawn knockout verdict must not approve")
	}
	if m.Status != models.MatchDisputed {
		t.Errorf("status = %s, want disputed", m.Status)
	}
}

func TestApplyVerdictReplayRequiredResetsMatch(t *testing.T) {
	m := newScheduledMatch()
	m.Status = models.MatchAwaitingConfirmation
	r := report(10, 2, 1)
	m.HomePrimaryReport = &r

	applyVerdict(m, &adjudicator.Result{Verdict: adjudicator.VerdictReplayRequired}, false)
	if m.Status != models.MatchScheduled || !m.IsReplay {
		t.Errorf("match after replay verdict = %+v", m)
	}
	if m.HomePrimaryReport != nil || m.HomeScore != nil {
		t.Error("replay reset should wipe reports and scores")
	}
}

func TestMatchOutcomePenaltiesBreakDraw(t *testing.T) {
	m := newScheduledMatch()
	m.HomeScore = intPtr(1)
	m.AwayScore = intPtr(1)

	if winner, draw := matchOutcome(m); !draw || winner != 0 {
		t.Errorf("level scores without penalties: winner=%d draw=%v", winner, draw)
	}

	m.HomePenalties = intPtr(3)
	m.AwayPenalties = intPtr(4)
	if winner, draw := matchOutcome(m); draw || winner != m.AwayTeamID {
		t.Errorf("penalty shootout: winner=%d draw=%v, want away win", winner, draw)
	}
}

func TestApplyForfeitScoresAgainstForfeiter(t *testing.T) {
	m := newScheduledMatch()
	if err := applyForfeit(m, 20); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Status != models.MatchApproved {
		t.Errorf("status = %s, want approved", m.Status)
	}
	if *m.HomeScore != 3 || *m.AwayScore != 0 {
		t.Errorf("score = %d-%d, want 3-0", *m.HomeScore, *m.AwayScore)
	}
	if m.HomeStatsPenalty || !m.AwayStatsPenalty {
		t.Error("only the forfeiting side takes the stats penalty")
	}
	if m.ForfeitedByTeamID == nil || *m.ForfeitedByTeamID != 20 {
		t.Error("forfeiting team not recorded")
	}

	if err := applyForfeit(m, 10); !errors.Is(err, ErrMatchAlreadyApproved) {
		t.Errorf("forfeit on approved match: got %v, want ErrMatchAlreadyApproved", err)
	}
}

func TestCaptainStatsApplyThenReverseIsNoOp(t *testing.T) {
	m := newScheduledMatch()
	m.Status = models.MatchApproved
	m.HomeScore = intPtr(3)
	m.AwayScore = intPtr(0)
	m.HomeStats = &models.TeamMatchStats{Shots: 11, Passes: 240, PassAccuracy: 85.5, Tackles: 9}
	m.AwayStats = &models.TeamMatchStats{Shots: 2, Passes: 180, PassAccuracy: 70.25, Tackles: 15}

	before := models.CaptainStats{
		UserID: 7, MatchesPlayed: 4, Wins: 2, Draws: 1, Losses: 1,
		GoalsScored: 6, GoalsConceded: 4, CleanSheets: 1,
		StatMatches: 3, TotalShots: 20, TotalPasses: 600, TotalTackles: 30,
		PassAccuracySum: 230.5,
	}

	for _, teamID := range []int{m.HomeTeamID, m.AwayTeamID} {
		stats := before
		applyMatchToCaptainStats(&stats, m, teamID)
		if stats.MatchesPlayed != before.MatchesPlayed+1 {
			t.Errorf("team %d: matches played not incremented", teamID)
		}
		reverseMatchFromCaptainStats(&stats, m, teamID)
		if !reflect.DeepEqual(stats, before) {
			t.Errorf("team %d: apply+reverse changed stats\ngot:  %+v\nwant: %+v", teamID, stats, before)
		}
	}
}

func TestCaptainStatsPenaltySkipsDetailedAggregates(t *testing.T) {
	m := newScheduledMatch()
	m.Status = models.MatchApproved
	m.HomeScore = intPtr(2)
	m.AwayScore = intPtr(2)
	m.HomeStats = &models.TeamMatchStats{Shots: 8, Passes: 100, PassAccuracy: 80, Tackles: 5}
	m.AwayStats = &models.TeamMatchStats{Shots: 8, Passes: 100, PassAccuracy: 80, Tackles: 5}
	m.AwayStatsPenalty = true

	var home, away models.CaptainStats
	applyMatchToCaptainStats(&home, m, m.HomeTeamID)
	applyMatchToCaptainStats(&away, m, m.AwayTeamID)

	if home.StatMatches != 1 || home.TotalShots != 8 {
		t.Errorf("home aggregates = %+v", home)
	}
	if away.StatMatches != 0 || away.TotalShots != 0 {
		t.Errorf("penalized side got stat credit: %+v", away)
	}
	if home.Draws != 1 || away.Draws != 1 {
		t.Error("result tallies must count regardless of penalty")
	}
}
