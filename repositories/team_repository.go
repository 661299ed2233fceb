package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/khaleegram/earena/models"
	"github.com/lib/pq"
)

var (
	ErrTeamNotFound          = errors.New("team not found")
	ErrTeamNameConflict      = errors.New("team name already taken in this tournament")
	ErrTeamTournamentInvalid = errors.New("team tournament reference invalid")
)

type TeamRepository interface {
	Create(ctx context.Context, exec SQLExecutor, team *models.Team) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Team, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, approvedOnly bool) ([]*models.Team, error)
	SetApproved(ctx context.Context, exec SQLExecutor, id int, approved bool) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTeamRepository) Create(ctx context.Context, exec SQLExecutor, team *models.Team) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO teams (tournament_id, name, captain_id, approved)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	err := executor.QueryRowContext(ctx, query,
		team.TournamentID, team.Name, team.CaptainID, team.Approved,
	).Scan(&team.ID, &team.CreatedAt)
	if err != nil {
		return r.handleTeamError(err)
	}

	for _, p := range team.Roster {
		_, err = executor.ExecContext(ctx, `
			INSERT INTO team_players (team_id, user_id, gamertag, is_captain)
			VALUES ($1, $2, $3, $4)`,
			team.ID, p.UserID, p.Gamertag, p.IsCaptain)
		if err != nil {
			return fmt.Errorf("failed to insert roster for team %d: %w", team.ID, err)
		}
	}
	return nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Team, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, tournament_id, name, captain_id, approved, created_at
		FROM teams WHERE id = $1`
	var t models.Team
	err := executor.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.TournamentID, &t.Name, &t.CaptainID, &t.Approved, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to scan team %d: %w", id, err)
	}

	rows, err := executor.QueryContext(ctx, `
		SELECT user_id, gamertag, is_captain
		FROM team_players WHERE team_id = $1 ORDER BY is_captain DESC, user_id ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query roster for team %d: %w", id, err)
	}
	defer rows.Close()
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.UserID, &p.Gamertag, &p.IsCaptain); err != nil {
			return nil, fmt.Errorf("failed to scan roster row: %w", err)
		}
		t.Roster = append(t.Roster, p)
	}
	return &t, rows.Err()
}

func (r *postgresTeamRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, approvedOnly bool) ([]*models.Team, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, tournament_id, name, captain_id, approved, created_at
		FROM teams WHERE tournament_id = $1`
	if approvedOnly {
		query += ` AND approved = TRUE`
	}
	query += ` ORDER BY id ASC`

	rows, err := executor.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		var t models.Team
		if err := rows.Scan(&t.ID, &t.TournamentID, &t.Name, &t.CaptainID, &t.Approved, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", err)
		}
		teams = append(teams, &t)
	}
	return teams, rows.Err()
}

func (r *postgresTeamRepository) SetApproved(ctx context.Context, exec SQLExecutor, id int, approved bool) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `UPDATE teams SET approved = $1 WHERE id = $2`, approved, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	if _, err := executor.ExecContext(ctx, `DELETE FROM team_players WHERE team_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete roster for team %d: %w", id, err)
	}
	result, err := executor.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) handleTeamError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "teams_tournament_id_name_key":
			return ErrTeamNameConflict
		case "teams_tournament_id_fkey":
			return ErrTeamTournamentInvalid
		}
	}
	return err
}
