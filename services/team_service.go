package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/khaleegram/earena/models"
	"github.com/khaleegram/earena/repositories"
)

type RegisterTeamInput struct {
	TournamentID int             `json:"tournament_id"`
	Name         string          `json:"name"`
	CaptainID    int             `json:"-"`
	Roster       []models.Player `json:"roster"`
}

type TeamService interface {
	// RegisterTeam enrolls a team while registration is open. The capacity
	// check and the team insert share a transaction, so a full tournament
	// can never over-admit under concurrent registrations.
	RegisterTeam(ctx context.Context, input RegisterTeamInput) (*models.Team, error)
	GetTeam(ctx context.Context, id int) (*models.Team, error)
	ListTeams(ctx context.Context, tournamentID int, approvedOnly bool) ([]*models.Team, error)
	ApproveTeam(ctx context.Context, organizerID, teamID int) error
	WithdrawTeam(ctx context.Context, organizerID, teamID int) error
}

type teamService struct {
	db             *sql.DB
	teamRepo       repositories.TeamRepository
	tournamentRepo repositories.TournamentRepository
	logger         *slog.Logger
}

func NewTeamService(
	db *sql.DB,
	teamRepo repositories.TeamRepository,
	tournamentRepo repositories.TournamentRepository,
	logger *slog.Logger,
) TeamService {
	return &teamService{
		db:             db,
		teamRepo:       teamRepo,
		tournamentRepo: tournamentRepo,
		logger:         logger,
	}
}

func (s *teamService) RegisterTeam(ctx context.Context, input RegisterTeamInput) (*models.Team, error) {
	if input.Name == "" {
		return nil, ErrTeamNameRequired
	}
	if len(input.Roster) == 0 {
		return nil, ErrRosterEmpty
	}
	hasCaptain := false
	for _, p := range input.Roster {
		if p.UserID == input.CaptainID {
			hasCaptain = true
			break
		}
	}
	if !hasCaptain {
		return nil, fmt.Errorf("%w: roster must include the captain", ErrValidationFailed)
	}

	team := &models.Team{
		TournamentID: input.TournamentID,
		Name:         input.Name,
		CaptainID:    input.CaptainID,
		Roster:       input.Roster,
	}

	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		tournament, err := s.tournamentRepo.GetByID(ctx, tx, input.TournamentID)
		if err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				return ErrTournamentNotFound
			}
			return err
		}
		if tournament.Status != models.StatusRegistration {
			return ErrRegistrationNotOpen
		}

		// The guarded counter update is the admission gate; it fails once
		// team_count reaches max_teams no matter how many registrations
		// race.
		if err := s.tournamentRepo.IncrementTeamCount(ctx, tx, input.TournamentID); err != nil {
			if errors.Is(err, repositories.ErrTournamentFull) {
				return ErrTournamentFull
			}
			return err
		}
		return s.teamRepo.Create(ctx, tx, team)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("team registered",
		slog.Int("tournament_id", input.TournamentID),
		slog.Int("team_id", team.ID))
	return team, nil
}

func (s *teamService) GetTeam(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}

func (s *teamService) ListTeams(ctx context.Context, tournamentID int, approvedOnly bool) ([]*models.Team, error) {
	return s.teamRepo.ListByTournament(ctx, nil, tournamentID, approvedOnly)
}

// requireTeamOrganizer loads the team and checks the caller organizes its
// tournament.
func (s *teamService) requireTeamOrganizer(ctx context.Context, exec repositories.SQLExecutor, organizerID, teamID int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, exec, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	tournament, err := s.tournamentRepo.GetByID(ctx, exec, team.TournamentID)
	if err != nil {
		return nil, err
	}
	if tournament.OrganizerID != organizerID {
		return nil, ErrOrganizerOnly
	}
	return team, nil
}

func (s *teamService) ApproveTeam(ctx context.Context, organizerID, teamID int) error {
	team, err := s.requireTeamOrganizer(ctx, nil, organizerID, teamID)
	if err != nil {
		return err
	}
	if team.Approved {
		return nil
	}
	if err := s.teamRepo.SetApproved(ctx, nil, teamID, true); err != nil {
		return err
	}
	s.logger.Info("team approved", slog.Int("team_id", teamID))
	return nil
}

// WithdrawTeam removes an unstarted registration and frees its slot.
func (s *teamService) WithdrawTeam(ctx context.Context, organizerID, teamID int) error {
	return runInTx(ctx, s.db, func(tx *sql.Tx) error {
		team, err := s.requireTeamOrganizer(ctx, tx, organizerID, teamID)
		if err != nil {
			return err
		}
		tournament, err := s.tournamentRepo.GetByIDForUpdate(ctx, tx, team.TournamentID)
		if err != nil {
			return err
		}
		switch tournament.Status {
		case models.StatusRegistration, models.StatusPending:
		default:
			return fmt.Errorf("%w: cannot withdraw after fixtures exist", ErrValidationFailed)
		}
		if err := s.teamRepo.Delete(ctx, tx, teamID); err != nil {
			return err
		}
		return s.tournamentRepo.DecrementTeamCount(ctx, tx, team.TournamentID)
	})
}
