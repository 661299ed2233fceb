package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/khaleegram/earena/fixtures"
	"github.com/khaleegram/earena/models"
	"github.com/khaleegram/earena/repositories"
)

type CreateTournamentInput struct {
	Name        string                  `json:"name"`
	Game        string                  `json:"game"`
	Format      models.TournamentFormat `json:"format"`
	OrganizerID int                     `json:"-"`
	MaxTeams    int                     `json:"max_teams"`
	GroupSize   int                     `json:"group_size"`
	RegDate     time.Time               `json:"reg_date"`
	StartDate   time.Time               `json:"start_date"`
	EndDate     time.Time               `json:"end_date"`
	Rules       models.RuleFlags        `json:"rules"`
}

// TournamentOverview bundles everything a tournament page renders.
type TournamentOverview struct {
	Tournament *models.Tournament          `json:"tournament"`
	Teams      []*models.Team              `json:"teams"`
	Matches    []*models.Match             `json:"matches"`
	Standings  []models.TournamentStanding `json:"standings"`
}

type TournamentService interface {
	Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	Get(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error)
	GetOverview(ctx context.Context, id int) (*TournamentOverview, error)
	// Standings returns the persisted table, optionally narrowed to one
	// group.
	Standings(ctx context.Context, id int, group string) ([]models.TournamentStanding, error)
	OpenRegistration(ctx context.Context, organizerID, id int) error
	// GenerateFixtures builds the opening stage for the registered field
	// and leaves the tournament ready to start.
	GenerateFixtures(ctx context.Context, organizerID, id int) ([]*models.Match, error)
	Start(ctx context.Context, organizerID, id int) error
	Delete(ctx context.Context, organizerID, id int) error
}

type tournamentService struct {
	db             *sql.DB
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	standingRepo   repositories.StandingRepository
	logger         *slog.Logger
}

func NewTournamentService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	standingRepo repositories.StandingRepository,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		db:             db,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		standingRepo:   standingRepo,
		logger:         logger,
	}
}

func validFormat(f models.TournamentFormat) bool {
	switch f {
	case models.FormatLeague, models.FormatCup, models.FormatChampionsLeague, models.FormatSwiss:
		return true
	}
	return false
}

func (s *tournamentService) Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	if input.Name == "" {
		return nil, ErrTournamentNameRequired
	}
	if !validFormat(input.Format) {
		return nil, ErrTournamentInvalidFormat
	}
	if input.MaxTeams < 2 {
		return nil, ErrTournamentInvalidCapacity
	}
	if !input.RegDate.Before(input.StartDate) {
		return nil, ErrTournamentInvalidRegDate
	}
	if !input.StartDate.Before(input.EndDate) {
		return nil, ErrTournamentInvalidDateRange
	}

	groupSize := input.GroupSize
	if input.Format.SupportsGroups() && groupSize == 0 {
		groupSize = fixtures.DefaultGroupSize
	}

	tournament := &models.Tournament{
		Name:        input.Name,
		Game:        input.Game,
		Format:      input.Format,
		OrganizerID: input.OrganizerID,
		MaxTeams:    input.MaxTeams,
		GroupSize:   groupSize,
		RegDate:     input.RegDate,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Rules:       input.Rules,
		Status:      models.StatusPending,
	}
	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentNameConflict) {
			return nil, fmt.Errorf("%w: name %q already in use", ErrValidationFailed, input.Name)
		}
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}
	s.logger.Info("tournament created",
		slog.Int("tournament_id", tournament.ID),
		slog.String("format", string(tournament.Format)))
	return tournament, nil
}

func (s *tournamentService) Get(ctx context.Context, id int) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *tournamentService) List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	return s.tournamentRepo.List(ctx, filter)
}

// GetOverview loads the tournament page payload, fanning the independent
// reads out concurrently.
func (s *tournamentService) GetOverview(ctx context.Context, id int) (*TournamentOverview, error) {
	overview := &TournamentOverview{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		t, err := s.tournamentRepo.GetByID(gctx, nil, id)
		if err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				return ErrTournamentNotFound
			}
			return err
		}
		overview.Tournament = t
		return nil
	})
	g.Go(func() error {
		teams, err := s.teamRepo.ListByTournament(gctx, nil, id, false)
		if err != nil {
			return err
		}
		overview.Teams = teams
		return nil
	})
	g.Go(func() error {
		matches, err := s.matchRepo.ListByTournament(gctx, nil, id, repositories.ListMatchesFilter{})
		if err != nil {
			return err
		}
		overview.Matches = matches
		return nil
	})
	g.Go(func() error {
		table, err := s.standingRepo.ListByTournament(gctx, nil, id)
		if err != nil {
			return err
		}
		overview.Standings = table
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return overview, nil
}

func (s *tournamentService) Standings(ctx context.Context, id int, group string) ([]models.TournamentStanding, error) {
	if group != "" {
		return s.standingRepo.ListByGroup(ctx, nil, id, group)
	}
	return s.standingRepo.ListByTournament(ctx, nil, id)
}

// requireOrganizer loads the tournament and checks the caller owns it.
func (s *tournamentService) requireOrganizer(ctx context.Context, exec repositories.SQLExecutor, organizerID, id int) (*models.Tournament, error) {
	var t *models.Tournament
	var err error
	if exec != nil {
		t, err = s.tournamentRepo.GetByIDForUpdate(ctx, exec, id)
	} else {
		t, err = s.tournamentRepo.GetByID(ctx, nil, id)
	}
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	if t.OrganizerID != organizerID {
		return nil, ErrOrganizerOnly
	}
	return t, nil
}

func (s *tournamentService) OpenRegistration(ctx context.Context, organizerID, id int) error {
	t, err := s.requireOrganizer(ctx, nil, organizerID, id)
	if err != nil {
		return err
	}
	if t.Status != models.StatusPending {
		return fmt.Errorf("%w: cannot open registration from status %q", ErrValidationFailed, t.Status)
	}
	return s.tournamentRepo.UpdateStatus(ctx, nil, id, models.StatusRegistration)
}

func (s *tournamentService) GenerateFixtures(ctx context.Context, organizerID, id int) ([]*models.Match, error) {
	var created []*models.Match

	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		tournament, err := s.requireOrganizer(ctx, tx, organizerID, id)
		if err != nil {
			return err
		}
		switch tournament.Status {
		case models.StatusRegistration:
		case models.StatusReadyToStart, models.StatusInProgress, models.StatusCompleted:
			return ErrFixturesAlreadyExist
		default:
			return fmt.Errorf("%w: cannot generate fixtures from status %q", ErrValidationFailed, tournament.Status)
		}

		existing, err := s.matchRepo.ListByTournament(ctx, tx, id, repositories.ListMatchesFilter{})
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return ErrFixturesAlreadyExist
		}

		teams, err := s.teamRepo.ListByTournament(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if len(teams) < 2 {
			return ErrNotEnoughApprovedTeams
		}
		teamIDs := make([]int, len(teams))
		for i, team := range teams {
			teamIDs[i] = team.ID
		}

		if err := s.tournamentRepo.UpdateStatus(ctx, tx, id, models.StatusGeneratingFixtures); err != nil {
			return err
		}

		fxs, err := s.openingFixtures(tournament, teamIDs)
		if err != nil {
			return err
		}

		created = matchesFromFixtures(id, fxs, tournament.StartDate)
		if err := s.matchRepo.BatchCreate(ctx, tx, created); err != nil {
			return err
		}
		return s.tournamentRepo.UpdateStatus(ctx, tx, id, models.StatusReadyToStart)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("fixtures generated",
		slog.Int("tournament_id", id), slog.Int("matches", len(created)))
	return created, nil
}

// openingFixtures builds the first stage of the tournament for its format.
func (s *tournamentService) openingFixtures(t *models.Tournament, teamIDs []int) ([]fixtures.Fixture, error) {
	switch t.Format {
	case models.FormatLeague:
		fxs, err := fixtures.GenerateLeagueFixtures(teamIDs, t.Rules.HomeAndAway)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
		}
		return fxs, nil

	case models.FormatCup, models.FormatChampionsLeague:
		groupSize := t.GroupSize
		if groupSize == 0 {
			groupSize = fixtures.DefaultGroupSize
		}
		groups, err := fixtures.CreateGroups(teamIDs, groupSize)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
		}
		doubleLeg := t.Format == models.FormatChampionsLeague
		var all []fixtures.Fixture
		for _, g := range groups {
			fxs, err := fixtures.GenerateGroupFixtures(g, doubleLeg)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
			}
			all = append(all, fxs...)
		}
		return all, nil

	case models.FormatSwiss:
		// rand.Rand is not safe for concurrent use; each generation gets
		// its own source instead of sharing one across request goroutines.
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		fxs, err := fixtures.PairSwissRound(fixtures.SwissState{Round: 1, Teams: teamIDs}, rng)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
		}
		return fxs, nil

	default:
		return nil, ErrTournamentInvalidFormat
	}
}

func (s *tournamentService) Start(ctx context.Context, organizerID, id int) error {
	t, err := s.requireOrganizer(ctx, nil, organizerID, id)
	if err != nil {
		return err
	}
	if t.Status != models.StatusReadyToStart {
		return fmt.Errorf("%w: cannot start from status %q", ErrValidationFailed, t.Status)
	}
	if err := s.tournamentRepo.UpdateStatus(ctx, nil, id, models.StatusInProgress); err != nil {
		return err
	}
	s.logger.Info("tournament started", slog.Int("tournament_id", id))
	return nil
}

func (s *tournamentService) Delete(ctx context.Context, organizerID, id int) error {
	return runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := s.requireOrganizer(ctx, tx, organizerID, id); err != nil {
			return err
		}
		return s.tournamentRepo.Delete(ctx, tx, id)
	})
}
