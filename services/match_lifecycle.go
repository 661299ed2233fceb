package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/khaleegram/earena/adjudicator"
	"github.com/khaleegram/earena/live"
	"github.com/khaleegram/earena/models"
	"github.com/khaleegram/earena/repositories"
	"github.com/khaleegram/earena/standings"
)

// replayReportWindow is how long captains get to report a rescheduled match.
const replayReportWindow = 48 * time.Hour

type SubmitReportInput struct {
	TeamID      int                   `json:"team_id"`
	ActorUserID int                   `json:"-"`
	HomeScore   int                   `json:"home_score"`
	AwayScore   int                   `json:"away_score"`
	Secondary   bool                  `json:"secondary"`
	Evidence    []models.EvidenceItem `json:"evidence"`
}

type OverrideResultInput struct {
	HomeScore     int    `json:"home_score"`
	AwayScore     int    `json:"away_score"`
	HomePenalties *int   `json:"home_penalties,omitempty"`
	AwayPenalties *int   `json:"away_penalties,omitempty"`
	Note          string `json:"note"`
}

type MatchLifecycleService interface {
	GetMatch(ctx context.Context, matchID int) (*models.Match, error)
	SubmitReport(ctx context.Context, matchID int, input SubmitReportInput) (*models.Match, error)
	Forfeit(ctx context.Context, matchID, forfeitingTeamID, actorUserID int) (*models.Match, error)
	OverrideResult(ctx context.Context, matchID int, input OverrideResultInput) (*models.Match, error)
	ForceReplay(ctx context.Context, matchID int) (*models.Match, error)
	RequestReplay(ctx context.Context, matchID, teamID, actorUserID int, reason string) (*models.Match, error)
	RespondReplay(ctx context.Context, matchID, teamID, actorUserID int, accept bool) (*models.Match, error)
	ApproveReplay(ctx context.Context, matchID int, approve bool) (*models.Match, error)
	ResolveOverdue(ctx context.Context, matchID int, now time.Time) (*models.Match, error)
}

type matchLifecycleService struct {
	db               *sql.DB
	matchRepo        repositories.MatchRepository
	tournamentRepo   repositories.TournamentRepository
	teamRepo         repositories.TeamRepository
	standingRepo     repositories.StandingRepository
	captainStatsRepo repositories.CaptainStatsRepository
	adjudicator      adjudicator.Adjudicator
	notifier         Notifier
	hub              *live.Hub
	logger           *slog.Logger
}

func NewMatchLifecycleService(
	db *sql.DB,
	matchRepo repositories.MatchRepository,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	standingRepo repositories.StandingRepository,
	captainStatsRepo repositories.CaptainStatsRepository,
	adj adjudicator.Adjudicator,
	notifier Notifier,
	hub *live.Hub,
	logger *slog.Logger,
) MatchLifecycleService {
	return &matchLifecycleService{
		db:               db,
		matchRepo:        matchRepo,
		tournamentRepo:   tournamentRepo,
		teamRepo:         teamRepo,
		standingRepo:     standingRepo,
		captainStatsRepo: captainStatsRepo,
		adjudicator:      adj,
		notifier:         notifier,
		hub:              hub,
		logger:           logger,
	}
}

func (s *matchLifecycleService) GetMatch(ctx context.Context, matchID int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to load match %d: %w", matchID, err)
	}
	return match, nil
}

// SubmitReport merges one captain's report into the match. The merge is a
// transactional read-modify-write keyed on the match row, so two captains
// reporting at the same moment cannot clobber each other. When the merge
// completes a report pair, the adjudicator is consulted outside any
// transaction and its verdict applied in a second transaction that re-reads
// the match first.
func (s *matchLifecycleService) SubmitReport(ctx context.Context, matchID int, input SubmitReportInput) (*models.Match, error) {
	if input.HomeScore < 0 || input.AwayScore < 0 {
		return nil, fmt.Errorf("%w: scores cannot be negative", ErrValidationFailed)
	}
	if len(input.Evidence) == 0 {
		return nil, ErrEvidenceRequired
	}
	if _, err := s.requireCaptain(ctx, input.TeamID, input.ActorUserID); err != nil {
		return nil, err
	}

	report := models.MatchReport{
		TeamID:      input.TeamID,
		HomeScore:   input.HomeScore,
		AwayScore:   input.AwayScore,
		Evidence:    input.Evidence,
		SubmittedAt: time.Now(),
	}

	var merged *models.Match
	var ready bool
	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		match, err := s.matchRepo.GetByIDForUpdate(ctx, tx, matchID)
		if err != nil {
			if errors.Is(err, repositories.ErrMatchNotFound) {
				return ErrMatchNotFound
			}
			return err
		}
		ready, err = mergeReport(match, report, input.Secondary)
		if err != nil {
			return err
		}
		if err := s.matchRepo.Update(ctx, tx, match); err != nil {
			return err
		}
		merged = match
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hub.Publish(live.Event{Type: live.EventMatchUpdated, TournamentID: merged.TournamentID, Payload: merged})

	if !ready {
		return merged, nil
	}
	return s.adjudicateAndApply(ctx, merged, input.Secondary)
}

// adjudicateAndApply consults the adjudicator with the completed report pair
// and applies the verdict in a fresh transaction. An unreachable or
// malformed adjudicator downgrades the match to disputed rather than leaving
// it pending forever.
func (s *matchLifecycleService) adjudicateAndApply(ctx context.Context, match *models.Match, secondary bool) (*models.Match, error) {
	tournament, homeTeam, awayTeam, err := s.loadMatchContext(ctx, match)
	if err != nil {
		return nil, err
	}

	req := adjudicator.Request{
		HomeTeamName:     homeTeam.Name,
		AwayTeamName:     awayTeam.Name,
		ScheduledDate:    match.ScheduledDay,
		RoomCodeIssuedAt: match.RoomCodeIssuedAt,
	}
	if secondary {
		req.Evidence = append(req.Evidence, match.HomeSecondaryReport.Evidence...)
		req.Evidence = append(req.Evidence, match.AwaySecondaryReport.Evidence...)
	} else {
		req.Evidence = append(req.Evidence, match.HomePrimaryReport.Evidence...)
		req.Evidence = append(req.Evidence, match.AwayPrimaryReport.Evidence...)
	}

	result, adjErr := s.adjudicator.Adjudicate(ctx, req)
	if adjErr != nil {
		s.logger.Error("adjudication failed, marking match disputed",
			slog.Int("match_id", match.ID), slog.Any("error", adjErr))
		result = &adjudicator.Result{
			Verdict:   adjudicator.VerdictDisputed,
			Reasoning: "automatic adjudication was unavailable; an organizer must resolve this match",
		}
	}

	var updated *models.Match
	var completion *completionEffect
	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		fresh, err := s.matchRepo.GetByIDForUpdate(ctx, tx, match.ID)
		if err != nil {
			return err
		}
		// Someone else may have resolved the match while the adjudicator
		// was thinking (organizer override, sweeper). Their outcome wins.
		if fresh.Status != match.Status {
			updated = fresh
			return nil
		}

		approved := applyVerdict(fresh, result, tournament.Rules.Penalties)
		if fresh.Status == models.MatchScheduled && fresh.IsReplay {
			fresh.Deadline = time.Now().Add(replayReportWindow)
		}
		if err := s.matchRepo.Update(ctx, tx, fresh); err != nil {
			return err
		}
		if approved {
			completion, err = s.applyApprovalSideEffects(ctx, tx, fresh, tournament, homeTeam, awayTeam)
			if err != nil {
				return err
			}
		}
		updated = fresh
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishResolution(ctx, updated, tournament, homeTeam, awayTeam, completion, result)
	return updated, nil
}

// completionEffect carries what the approval decided beyond the match row,
// for post-commit notification.
type completionEffect struct {
	tournamentCompleted bool
	winnerTeamID        int
}

// applyApprovalSideEffects runs every write that must land atomically with
// an approval: captain aggregates, full standings recomputation, and the
// tournament-completion check. Caller has already written the match row in
// the same transaction.
func (s *matchLifecycleService) applyApprovalSideEffects(
	ctx context.Context,
	tx *sql.Tx,
	match *models.Match,
	tournament *models.Tournament,
	homeTeam, awayTeam *models.Team,
) (*completionEffect, error) {
	for _, side := range []struct {
		team *models.Team
	}{{homeTeam}, {awayTeam}} {
		stats, err := s.captainStatsRepo.GetOrCreateForUpdate(ctx, tx, side.team.CaptainID)
		if err != nil {
			return nil, err
		}
		applyMatchToCaptainStats(stats, match, side.team.ID)
		if err := s.captainStatsRepo.Update(ctx, tx, stats); err != nil {
			return nil, err
		}
	}

	allMatches, err := s.recomputeStandings(ctx, tx, tournament)
	if err != nil {
		return nil, err
	}

	effect := &completionEffect{}
	if decided, winner := s.decisiveResult(tournament, match, allMatches); decided {
		if err := s.tournamentRepo.UpdateStatus(ctx, tx, tournament.ID, models.StatusCompleted); err != nil {
			return nil, err
		}
		if winner != 0 {
			if err := s.tournamentRepo.SetWinner(ctx, tx, tournament.ID, winner); err != nil {
				return nil, err
			}
		}
		effect.tournamentCompleted = true
		effect.winnerTeamID = winner
	}
	return effect, nil
}

// recomputeStandings rebuilds the persisted tables from scratch: one
// overall table, plus a per-group table for every group that has fixtures.
func (s *matchLifecycleService) recomputeStandings(ctx context.Context, tx *sql.Tx, tournament *models.Tournament) ([]models.Match, error) {
	matchPtrs, err := s.matchRepo.ListByTournament(ctx, tx, tournament.ID, repositories.ListMatchesFilter{})
	if err != nil {
		return nil, err
	}
	all := make([]models.Match, len(matchPtrs))
	groups := make(map[string]struct{})
	for i, m := range matchPtrs {
		all[i] = *m
		if g := m.GroupName(); g != "" {
			groups[g] = struct{}{}
		}
	}

	rows := standings.Compute(all)
	for g := range groups {
		rows = append(rows, standings.ComputeGroup(all, g)...)
	}
	if err := s.standingRepo.ReplaceForTournament(ctx, tx, tournament.ID, rows); err != nil {
		return nil, err
	}
	return all, nil
}

// decisiveResult decides whether this approval finished the tournament and
// who won it.
func (s *matchLifecycleService) decisiveResult(tournament *models.Tournament, match *models.Match, all []models.Match) (bool, int) {
	if match.RoundKind() == models.RoundKnockout && match.RoundLabel == "Final" {
		winner, _ := matchOutcome(match)
		return true, winner
	}
	if tournament.Format != models.FormatLeague {
		return false, 0
	}
	for _, m := range all {
		if m.Status != models.MatchApproved {
			return false, 0
		}
	}
	table := standings.Compute(all)
	if len(table) == 0 {
		return true, 0
	}
	return true, table[0].TeamID
}

// publishResolution emits the post-commit collaborator calls. None of them
// can roll back the approval; failures are logged and dropped.
func (s *matchLifecycleService) publishResolution(
	ctx context.Context,
	match *models.Match,
	tournament *models.Tournament,
	homeTeam, awayTeam *models.Team,
	completion *completionEffect,
	result *adjudicator.Result,
) {
	s.hub.Publish(live.Event{Type: live.EventMatchUpdated, TournamentID: match.TournamentID, Payload: match})

	if result != nil && result.SuspectedFalsifier != "" {
		if err := s.notifier.ReputationWarning(ctx, result.SuspectedFalsifier, result.Reasoning); err != nil {
			s.logger.Error("reputation warning delivery failed", slog.Any("error", err))
		}
	}

	if match.Status != models.MatchApproved {
		return
	}
	s.hub.Publish(live.Event{Type: live.EventMatchApproved, TournamentID: match.TournamentID, Payload: match})
	s.hub.Publish(live.Event{Type: live.EventStandingsUpdated, TournamentID: match.TournamentID})

	for _, team := range []*models.Team{homeTeam, awayTeam} {
		if err := s.notifier.SendNotification(ctx, team.CaptainID, "Match result approved",
			fmt.Sprintf("result for %s approved in tournament %q", match.RoundLabel, tournament.Name)); err != nil {
			s.logger.Error("approval notification failed", slog.Any("error", err))
		}
		if err := s.notifier.CheckAchievements(ctx, team.CaptainID); err != nil {
			s.logger.Error("achievement check failed", slog.Any("error", err))
		}
	}

	if completion != nil && completion.tournamentCompleted {
		s.hub.Publish(live.Event{Type: live.EventTournamentCompleted, TournamentID: tournament.ID, Payload: completion.winnerTeamID})
		winner := homeTeam
		if completion.winnerTeamID == awayTeam.ID {
			winner = awayTeam
		}
		if completion.winnerTeamID != 0 {
			if err := s.notifier.AwardBadge(ctx, winner.CaptainID, "tournament-champion"); err != nil {
				s.logger.Error("badge award failed", slog.Any("error", err))
			}
		}
	}
}

func (s *matchLifecycleService) loadMatchContext(ctx context.Context, match *models.Match) (*models.Tournament, *models.Team, *models.Team, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, match.TournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, nil, nil, ErrTournamentNotFound
		}
		return nil, nil, nil, err
	}
	homeTeam, err := s.teamRepo.GetByID(ctx, nil, match.HomeTeamID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load home team %d: %w", match.HomeTeamID, err)
	}
	awayTeam, err := s.teamRepo.GetByID(ctx, nil, match.AwayTeamID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load away team %d: %w", match.AwayTeamID, err)
	}
	return tournament, homeTeam, awayTeam, nil
}

// requireCaptain loads the team a request claims to act for and checks the
// acting user captains it. Captain-only operations call this before any
// write.
func (s *matchLifecycleService) requireCaptain(ctx context.Context, teamID, userID int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, nil, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to load team %d: %w", teamID, err)
	}
	if err := verifyCaptain(team, userID); err != nil {
		return nil, err
	}
	return team, nil
}

// Forfeit approves the match 3-0 against the forfeiting side. Only that
// side's captain can concede.
func (s *matchLifecycleService) Forfeit(ctx context.Context, matchID, forfeitingTeamID, actorUserID int) (*models.Match, error) {
	if _, err := s.requireCaptain(ctx, forfeitingTeamID, actorUserID); err != nil {
		return nil, err
	}
	return s.resolveDirect(ctx, matchID, func(m *models.Match) error {
		return applyForfeit(m, forfeitingTeamID)
	})
}

// OverrideResult lets an organizer set the final score directly, bypassing
// adjudication. Knockout matches still need a winner.
func (s *matchLifecycleService) OverrideResult(ctx context.Context, matchID int, input OverrideResultInput) (*models.Match, error) {
	if input.HomeScore < 0 || input.AwayScore < 0 {
		return nil, fmt.Errorf("%w: scores cannot be negative", ErrValidationFailed)
	}
	return s.resolveDirect(ctx, matchID, func(m *models.Match) error {
		if m.Status == models.MatchApproved {
			return ErrMatchAlreadyApproved
		}
		m.HomeScore = &input.HomeScore
		m.AwayScore = &input.AwayScore
		m.HomePenalties = input.HomePenalties
		m.AwayPenalties = input.AwayPenalties
		if _, draw := matchOutcome(m); draw && m.RoundKind() == models.RoundKnockout {
			return ErrKnockoutDrawNotAllowed
		}
		// Organizer overrides carry no extracted statistics.
		m.HomeStatsPenalty = true
		m.AwayStatsPenalty = true
		if input.Note != "" {
			setNote(m, "organizer override: "+input.Note)
		} else {
			setNote(m, "organizer override")
		}
		m.Status = models.MatchApproved
		return nil
	})
}

// resolveDirect applies a mutation that ends in approval, with the full set
// of side-effects in the same transaction.
func (s *matchLifecycleService) resolveDirect(ctx context.Context, matchID int, mutate func(*models.Match) error) (*models.Match, error) {
	current, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	tournament, homeTeam, awayTeam, err := s.loadMatchContext(ctx, current)
	if err != nil {
		return nil, err
	}

	var updated *models.Match
	var completion *completionEffect
	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		match, err := s.matchRepo.GetByIDForUpdate(ctx, tx, matchID)
		if err != nil {
			if errors.Is(err, repositories.ErrMatchNotFound) {
				return ErrMatchNotFound
			}
			return err
		}
		if err := mutate(match); err != nil {
			return err
		}
		if err := s.matchRepo.Update(ctx, tx, match); err != nil {
			return err
		}
		if match.Status == models.MatchApproved {
			completion, err = s.applyApprovalSideEffects(ctx, tx, match, tournament, homeTeam, awayTeam)
			if err != nil {
				return err
			}
		}
		updated = match
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishResolution(ctx, updated, tournament, homeTeam, awayTeam, completion, nil)
	return updated, nil
}

// ForceReplay reverts an approved match's contributions and reschedules it.
// The reversal is computed from the stored match's frozen score and stats,
// never from current aggregates, so forcing twice cannot double-subtract.
func (s *matchLifecycleService) ForceReplay(ctx context.Context, matchID int) (*models.Match, error) {
	current, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	tournament, homeTeam, awayTeam, err := s.loadMatchContext(ctx, current)
	if err != nil {
		return nil, err
	}

	var updated *models.Match
	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		match, err := s.matchRepo.GetByIDForUpdate(ctx, tx, matchID)
		if err != nil {
			return err
		}
		if match.Status == models.MatchApproved {
			for _, side := range []struct{ team *models.Team }{{homeTeam}, {awayTeam}} {
				stats, err := s.captainStatsRepo.GetOrCreateForUpdate(ctx, tx, side.team.CaptainID)
				if err != nil {
					return err
				}
				reverseMatchFromCaptainStats(stats, match, side.team.ID)
				if err := s.captainStatsRepo.Update(ctx, tx, stats); err != nil {
					return err
				}
			}
		}
		resetForReplay(match)
		match.Deadline = time.Now().Add(replayReportWindow)
		if err := s.matchRepo.Update(ctx, tx, match); err != nil {
			return err
		}
		if _, err := s.recomputeStandings(ctx, tx, tournament); err != nil {
			return err
		}
		updated = match
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hub.Publish(live.Event{Type: live.EventMatchUpdated, TournamentID: updated.TournamentID, Payload: updated})
	s.hub.Publish(live.Event{Type: live.EventStandingsUpdated, TournamentID: updated.TournamentID})
	return updated, nil
}

// RequestReplay starts the cooperative replay handshake: requester
// proposes, the opponent answers, the organizer has the final word.
func (s *matchLifecycleService) RequestReplay(ctx context.Context, matchID, teamID, actorUserID int, reason string) (*models.Match, error) {
	if _, err := s.requireCaptain(ctx, teamID, actorUserID); err != nil {
		return nil, err
	}
	return s.mutateMatch(ctx, matchID, func(m *models.Match) error {
		if !m.Involves(teamID) {
			return ErrNotMatchParticipant
		}
		if m.Status == models.MatchApproved {
			return ErrMatchAlreadyApproved
		}
		if m.ReplayRequest != nil && m.ReplayRequest.ResolvedAt == nil {
			return ErrReplayAlreadyRequested
		}
		m.ReplayRequest = &models.ReplayRequest{
			ID:                uuid.NewString(),
			RequestedByTeamID: teamID,
			Reason:            reason,
			CreatedAt:         time.Now(),
		}
		return nil
	})
}

func (s *matchLifecycleService) RespondReplay(ctx context.Context, matchID, teamID, actorUserID int, accept bool) (*models.Match, error) {
	if _, err := s.requireCaptain(ctx, teamID, actorUserID); err != nil {
		return nil, err
	}
	return s.mutateMatch(ctx, matchID, func(m *models.Match) error {
		if !m.Involves(teamID) {
			return ErrNotMatchParticipant
		}
		req := m.ReplayRequest
		if req == nil || req.ResolvedAt != nil {
			return ErrReplayNotRequested
		}
		if req.RequestedByTeamID == teamID {
			return fmt.Errorf("%w: requester cannot answer its own request", ErrForbiddenOperation)
		}
		req.OpponentAccepted = &accept
		if !accept {
			now := time.Now()
			req.ResolvedAt = &now
		}
		return nil
	})
}

// ApproveReplay is the organizer's final step of the handshake. Approval
// reschedules the match; rejection leaves it untouched.
func (s *matchLifecycleService) ApproveReplay(ctx context.Context, matchID int, approve bool) (*models.Match, error) {
	return s.mutateMatch(ctx, matchID, func(m *models.Match) error {
		req := m.ReplayRequest
		if req == nil || req.ResolvedAt != nil {
			return ErrReplayNotRequested
		}
		if req.OpponentAccepted == nil || !*req.OpponentAccepted {
			return ErrReplayNotAccepted
		}
		now := time.Now()
		req.OrganizerApproved = &approve
		req.ResolvedAt = &now
		if approve {
			saved := *req
			resetForReplay(m)
			m.ReplayRequest = &saved
			m.Deadline = now.Add(replayReportWindow)
		}
		return nil
	})
}

// mutateMatch runs a plain locked read-modify-write with no approval
// side-effects.
func (s *matchLifecycleService) mutateMatch(ctx context.Context, matchID int, mutate func(*models.Match) error) (*models.Match, error) {
	var updated *models.Match
	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		match, err := s.matchRepo.GetByIDForUpdate(ctx, tx, matchID)
		if err != nil {
			if errors.Is(err, repositories.ErrMatchNotFound) {
				return ErrMatchNotFound
			}
			return err
		}
		if err := mutate(match); err != nil {
			return err
		}
		if err := s.matchRepo.Update(ctx, tx, match); err != nil {
			return err
		}
		updated = match
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.hub.Publish(live.Event{Type: live.EventMatchUpdated, TournamentID: updated.TournamentID, Payload: updated})
	return updated, nil
}

// ResolveOverdue forces the appropriate transition on a match whose
// deadline has passed. It re-checks status and deadline under the row lock,
// so overlapping sweeper runs converge instead of double-penalizing.
func (s *matchLifecycleService) ResolveOverdue(ctx context.Context, matchID int, now time.Time) (*models.Match, error) {
	current, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	tournament, homeTeam, awayTeam, err := s.loadMatchContext(ctx, current)
	if err != nil {
		return nil, err
	}

	var updated *models.Match
	var completion *completionEffect
	var adjudicate bool
	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		match, err := s.matchRepo.GetByIDForUpdate(ctx, tx, matchID)
		if err != nil {
			return err
		}
		if match.Status == models.MatchApproved || match.Status == models.MatchDisputed || !match.Deadline.Before(now) {
			// Already resolved, or the deadline moved. Nothing to force.
			updated = match
			return nil
		}

		var approved bool
		approved, adjudicate = s.applyOverdueRule(match, tournament)
		updated = match
		if adjudicate {
			// Nothing written; the report pair goes back through the
			// adjudicator after this lock is released.
			return nil
		}
		if err := s.matchRepo.Update(ctx, tx, match); err != nil {
			return err
		}
		if approved {
			completion, err = s.applyApprovalSideEffects(ctx, tx, match, tournament, homeTeam, awayTeam)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if adjudicate {
		return s.adjudicateAndApply(ctx, updated, updated.Status == models.MatchNeedsSecondaryEvidence)
	}

	s.publishResolution(ctx, updated, tournament, homeTeam, awayTeam, completion, nil)
	return updated, nil
}

// applyOverdueRule picks the forced transition for a deadline breach: a
// complete report pair goes back to the adjudicator, a lone report stands
// with the silent side penalized, no reports become a goalless draw outside
// knockout rounds, and anything an automatic rule cannot decide goes to the
// organizer as disputed. adjudicate means the match was left untouched and
// the caller must re-run adjudication.
func (s *matchLifecycleService) applyOverdueRule(m *models.Match, tournament *models.Tournament) (approved, adjudicate bool) {
	adopt := func(r *models.MatchReport, silentTeamID int) {
		m.HomeScore = &r.HomeScore
		m.AwayScore = &r.AwayScore
		if silentTeamID == m.HomeTeamID {
			m.HomeStatsPenalty = true
		} else {
			m.AwayStatsPenalty = true
		}
	}

	switch m.Status {
	case models.MatchAwaitingConfirmation:
		if m.HasBothPrimaryReports() {
			// A complete pair past the deadline means a previous
			// adjudication never landed a verdict. Re-run it.
			return false, true
		}
		if r := m.HomePrimaryReport; r != nil {
			adopt(r, m.AwayTeamID)
		} else if r := m.AwayPrimaryReport; r != nil {
			adopt(r, m.HomeTeamID)
		} else {
			setNote(m, "deadline passed with no usable reports; organizer resolution required")
			m.Status = models.MatchDisputed
			return false, false
		}
		if _, draw := matchOutcome(m); draw && m.RoundKind() == models.RoundKnockout && !tournament.Rules.Penalties {
			resetForReplay(m)
			setNote(m, "deadline passed with a drawn one-sided report; knockout match rescheduled")
			return false, false
		}
		setNote(m, "deadline passed with a single report; result stands with the silent side penalized")
		m.Status = models.MatchApproved
		return true, false

	case models.MatchNeedsSecondaryEvidence:
		if m.HasBothSecondaryReports() {
			return false, true
		}
		if r := m.HomeSecondaryReport; r != nil {
			adopt(r, m.AwayTeamID)
		} else if r := m.AwaySecondaryReport; r != nil {
			adopt(r, m.HomeTeamID)
		} else {
			setNote(m, "secondary evidence deadline passed with no submissions; organizer resolution required")
			m.Status = models.MatchDisputed
			return false, false
		}
		if _, draw := matchOutcome(m); draw && m.RoundKind() == models.RoundKnockout && !tournament.Rules.Penalties {
			setNote(m, "deadline passed with a drawn secondary report on a knockout match; organizer resolution required")
			m.Status = models.MatchDisputed
			return false, false
		}
		setNote(m, "secondary deadline passed with a single report; result stands with the silent side penalized")
		m.Status = models.MatchApproved
		return true, false

	default: // scheduled, nobody reported
		if m.RoundKind() == models.RoundKnockout {
			setNote(m, "deadline passed with no reports on a knockout match; organizer resolution required")
			m.Status = models.MatchDisputed
			return false, false
		}
		zero := 0
		m.HomeScore = &zero
		m.AwayScore = &zero
		m.HomeStatsPenalty = true
		m.AwayStatsPenalty = true
		setNote(m, "deadline passed with no reports; recorded as a goalless draw")
		m.Status = models.MatchApproved
		return true, false
	}
}
