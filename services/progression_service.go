package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/khaleegram/earena/fixtures"
	"github.com/khaleegram/earena/live"
	"github.com/khaleegram/earena/models"
	"github.com/khaleegram/earena/repositories"
	"github.com/khaleegram/earena/standings"
)

const (
	// stageScheduleLead is how far ahead newly generated stage matches are
	// scheduled.
	stageScheduleLead = 24 * time.Hour
	// stageReportWindow is how long captains get to report a stage match
	// after its scheduled day.
	stageReportWindow = 48 * time.Hour
	// swissKnockoutField is how many teams advance from a finished Swiss
	// phase into the bracket, capacity permitting.
	swissKnockoutField = 8
)

// stagePlan is the outcome of the pure progression decision: which fixtures
// to create next, labeled by the round they open.
type stagePlan struct {
	RoundLabel string
	Fixtures   []fixtures.Fixture
}

type StageProgressionService interface {
	// Advance generates the next stage of the tournament once the current
	// one is fully approved. Calling it again before any new result lands
	// fails with ErrStageAlreadyProgressed instead of duplicating fixtures.
	Advance(ctx context.Context, tournamentID int) ([]*models.Match, error)
}

type stageProgressionService struct {
	db             *sql.DB
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	hub            *live.Hub
	logger         *slog.Logger
}

func NewStageProgressionService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	hub *live.Hub,
	logger *slog.Logger,
) StageProgressionService {
	return &stageProgressionService{
		db:             db,
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		hub:            hub,
		logger:         logger,
	}
}

func (s *stageProgressionService) Advance(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	var created []*models.Match
	var label string

	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		tournament, err := s.tournamentRepo.GetByIDForUpdate(ctx, tx, tournamentID)
		if err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				return ErrTournamentNotFound
			}
			return err
		}
		if tournament.Status != models.StatusInProgress {
			return ErrTournamentNotInProgress
		}

		matchPtrs, err := s.matchRepo.ListByTournament(ctx, tx, tournamentID, repositories.ListMatchesFilter{})
		if err != nil {
			return err
		}
		all := make([]models.Match, len(matchPtrs))
		for i, m := range matchPtrs {
			all[i] = *m
		}

		plan, err := planNextStage(tournament, all)
		if err != nil {
			return err
		}

		scheduled := time.Now().Add(stageScheduleLead)
		created = matchesFromFixtures(tournamentID, plan.Fixtures, scheduled)
		label = plan.RoundLabel
		return s.matchRepo.BatchCreate(ctx, tx, created)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stage progressed",
		slog.Int("tournament_id", tournamentID),
		slog.String("round", label),
		slog.Int("matches", len(created)))
	s.hub.Publish(live.Event{Type: live.EventStageProgressed, TournamentID: tournamentID, Payload: map[string]interface{}{
		"round":   label,
		"matches": created,
	}})
	return created, nil
}

// matchesFromFixtures turns generated fixtures into schedulable match rows.
func matchesFromFixtures(tournamentID int, fxs []fixtures.Fixture, scheduled time.Time) []*models.Match {
	out := make([]*models.Match, len(fxs))
	for i, f := range fxs {
		out[i] = &models.Match{
			TournamentID: tournamentID,
			HomeTeamID:   f.HomeTeamID,
			AwayTeamID:   f.AwayTeamID,
			RoundLabel:   f.RoundLabel,
			ScheduledDay: scheduled,
			Deadline:     scheduled.Add(stageReportWindow),
			Status:       models.MatchScheduled,
		}
	}
	return out
}

// planNextStage is the whole progression decision as a pure function over
// the tournament's current matches.
func planNextStage(t *models.Tournament, all []models.Match) (*stagePlan, error) {
	if len(all) == 0 {
		return nil, ErrStageNotComplete
	}

	byKind := make(map[models.RoundKind][]models.Match)
	for _, m := range all {
		k := m.RoundKind()
		byKind[k] = append(byKind[k], m)
	}

	if knockout := byKind[models.RoundKnockout]; len(knockout) > 0 {
		hadEarlierStage := len(knockout) < len(all)
		return planKnockoutStage(knockout, hadEarlierStage)
	}

	switch {
	case t.Format.SupportsGroups():
		return planGroupExit(byKind[models.RoundGroup])
	case t.Format == models.FormatSwiss:
		return planSwissStage(byKind[models.RoundSwiss], t.TeamCount)
	default:
		// League rounds are generated up front; completion is handled by
		// match approval, never by stage progression.
		return nil, ErrNoFurtherStages
	}
}

// stageGate maps an unfinished stage onto the right caller error: a stage
// whose matches are all untouched was just generated by a previous Advance.
func stageGate(stage []models.Match, isOpeningStage bool) error {
	untouched := true
	for _, m := range stage {
		if m.Status != models.MatchScheduled || m.HomePrimaryReport != nil || m.AwayPrimaryReport != nil {
			untouched = false
			break
		}
	}
	if untouched && !isOpeningStage {
		return ErrStageAlreadyProgressed
	}
	return ErrStageNotComplete
}

func allApproved(stage []models.Match) bool {
	for _, m := range stage {
		if m.Status != models.MatchApproved {
			return false
		}
	}
	return true
}

// planGroupExit seeds the opening knockout round from completed group
// tables.
func planGroupExit(groupMatches []models.Match) (*stagePlan, error) {
	if len(groupMatches) == 0 {
		return nil, ErrStageNotComplete
	}
	if !allApproved(groupMatches) {
		return nil, stageGate(groupMatches, true)
	}

	seen := make(map[string]bool)
	var order []string
	for _, m := range groupMatches {
		if g := m.GroupName(); g != "" && !seen[g] {
			seen[g] = true
			order = append(order, g)
		}
	}

	rankings := make([]fixtures.GroupRanking, 0, len(order))
	for _, g := range order {
		table := standings.ComputeGroup(groupMatches, g)
		ids := make([]int, len(table))
		for i, row := range table {
			ids[i] = row.TeamID
		}
		rankings = append(rankings, fixtures.GroupRanking{Group: g, TeamIDs: ids})
	}

	fxs, err := fixtures.SeedKnockoutFromGroups(rankings)
	if err != nil {
		return nil, fmt.Errorf("failed to seed knockout from groups: %w", err)
	}
	return &stagePlan{RoundLabel: fxs[0].RoundLabel, Fixtures: fxs}, nil
}

// planSwissStage pairs the next Swiss round, or seeds the bracket once the
// Swiss phase has run its full round count.
func planSwissStage(swissMatches []models.Match, teamCount int) (*stagePlan, error) {
	if len(swissMatches) == 0 {
		return nil, ErrStageNotComplete
	}

	currentRound := 0
	for _, m := range swissMatches {
		var n int
		if _, err := fmt.Sscanf(m.RoundLabel, "Swiss Round %d", &n); err == nil && n > currentRound {
			currentRound = n
		}
	}
	var current []models.Match
	currentLabel := fmt.Sprintf("Swiss Round %d", currentRound)
	for _, m := range swissMatches {
		if m.RoundLabel == currentLabel {
			current = append(current, m)
		}
	}
	if !allApproved(current) {
		return nil, stageGate(current, currentRound == 1)
	}

	table := standings.Compute(swissMatches)
	ranked := make([]int, len(table))
	for i, row := range table {
		ranked[i] = row.TeamID
	}

	if teamCount == 0 {
		teamCount = len(ranked)
	}
	if currentRound < fixtures.MaxSwissRounds(teamCount) {
		history := make([][2]int, len(swissMatches))
		for i, m := range swissMatches {
			history[i] = [2]int{m.HomeTeamID, m.AwayTeamID}
		}
		fxs, err := fixtures.PairSwissRound(fixtures.SwissState{
			Round:   currentRound + 1,
			Teams:   ranked,
			History: history,
		}, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to pair swiss round %d: %w", currentRound+1, err)
		}
		return &stagePlan{RoundLabel: fxs[0].RoundLabel, Fixtures: fxs}, nil
	}

	// Swiss phase done. The top of the table enters a seeded bracket,
	// best against worst of the qualifiers.
	field := swissKnockoutField
	if len(ranked) < field {
		field = largestPowerOfTwo(len(ranked))
	}
	if field < 2 {
		return nil, ErrNoFurtherStages
	}
	qualifiers := ranked[:field]
	seeded := make([]int, 0, field)
	for i := 0; i < field/2; i++ {
		seeded = append(seeded, qualifiers[i], qualifiers[field-1-i])
	}
	fxs, err := fixtures.GenerateKnockoutRound(seeded, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to seed knockout from swiss table: %w", err)
	}
	return &stagePlan{RoundLabel: fxs[0].RoundLabel, Fixtures: fxs}, nil
}

// planKnockoutStage advances the bracket: winners of the smallest existing
// round meet in the next one, keeping bracket order so paths cannot cross.
func planKnockoutStage(knockout []models.Match, hadEarlierStage bool) (*stagePlan, error) {
	byLabel := make(map[string][]models.Match)
	for _, m := range knockout {
		byLabel[m.RoundLabel] = append(byLabel[m.RoundLabel], m)
	}

	// The current round is the one with the fewest matches; every bracket
	// round halves the field.
	var currentLabel string
	for label, ms := range byLabel {
		if currentLabel == "" || len(ms) < len(byLabel[currentLabel]) {
			currentLabel = label
		}
	}
	current := byLabel[currentLabel]

	if currentLabel == "Final" {
		if allApproved(current) {
			return nil, ErrNoFurtherStages
		}
		return nil, stageGate(current, false)
	}
	if !allApproved(current) {
		isOpening := !hadEarlierStage && len(byLabel) == 1
		return nil, stageGate(current, isOpening)
	}

	winners := make([]int, 0, len(current))
	for _, m := range current {
		w, draw := matchOutcome(&m)
		if draw || w == 0 {
			return nil, fmt.Errorf("approved knockout match %d has no winner", m.ID)
		}
		winners = append(winners, w)
	}

	fxs, err := fixtures.GenerateKnockoutRound(winners, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to pair next knockout round: %w", err)
	}
	return &stagePlan{RoundLabel: fxs[0].RoundLabel, Fixtures: fxs}, nil
}

func largestPowerOfTwo(n int) int {
	p := 1
	for p*2 <= n {
		p *= 2
	}
	return p
}
