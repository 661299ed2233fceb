package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/khaleegram/earena/models"
)

var ErrStandingNotFound = errors.New("tournament standing not found")

type StandingRepository interface {
	// ReplaceForTournament swaps the whole persisted table for a fresh
	// computation, inside the caller's transaction. Standings are derived
	// data; replacing wholesale is what keeps them from drifting.
	ReplaceForTournament(ctx context.Context, exec SQLExecutor, tournamentID int, rows []models.TournamentStanding) error
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.TournamentStanding, error)
	ListByGroup(ctx context.Context, exec SQLExecutor, tournamentID int, group string) ([]models.TournamentStanding, error)
}

type postgresStandingRepository struct {
	db *sql.DB
}

func NewPostgresStandingRepository(db *sql.DB) StandingRepository {
	return &postgresStandingRepository{db: db}
}

func (r *postgresStandingRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresStandingRepository) ReplaceForTournament(ctx context.Context, exec SQLExecutor, tournamentID int, rows []models.TournamentStanding) error {
	executor := r.getExecutor(exec)

	if _, err := executor.ExecContext(ctx,
		`DELETE FROM tournament_standings WHERE tournament_id = $1`, tournamentID); err != nil {
		return fmt.Errorf("failed to clear standings for tournament %d: %w", tournamentID, err)
	}

	query := `
		INSERT INTO tournament_standings
			(tournament_id, team_id, group_name, played, wins, draws, losses,
			 goals_for, goals_against, clean_sheets, points, rank, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	now := time.Now()
	for _, row := range rows {
		if _, err := executor.ExecContext(ctx, query,
			tournamentID, row.TeamID, row.GroupName, row.Played, row.Wins, row.Draws, row.Losses,
			row.GoalsFor, row.GoalsAgainst, row.CleanSheets, row.Points, row.Rank, now,
		); err != nil {
			return fmt.Errorf("failed to insert standing for team %d: %w", row.TeamID, err)
		}
	}
	return nil
}

func (r *postgresStandingRepository) list(ctx context.Context, executor SQLExecutor, query string, args ...interface{}) ([]models.TournamentStanding, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	standings := make([]models.TournamentStanding, 0)
	for rows.Next() {
		var s models.TournamentStanding
		if err := rows.Scan(
			&s.ID, &s.TournamentID, &s.TeamID, &s.GroupName, &s.Played, &s.Wins, &s.Draws, &s.Losses,
			&s.GoalsFor, &s.GoalsAgainst, &s.CleanSheets, &s.Points, &s.Rank, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan standing row: %w", err)
		}
		standings = append(standings, s)
	}
	return standings, rows.Err()
}

const standingColumns = `
	id, tournament_id, team_id, group_name, played, wins, draws, losses,
	goals_for, goals_against, clean_sheets, points, rank, updated_at`

func (r *postgresStandingRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.TournamentStanding, error) {
	executor := r.getExecutor(exec)
	query := `SELECT` + standingColumns + `
		FROM tournament_standings WHERE tournament_id = $1
		ORDER BY group_name ASC, rank ASC`
	return r.list(ctx, executor, query, tournamentID)
}

func (r *postgresStandingRepository) ListByGroup(ctx context.Context, exec SQLExecutor, tournamentID int, group string) ([]models.TournamentStanding, error) {
	executor := r.getExecutor(exec)
	query := `SELECT` + standingColumns + `
		FROM tournament_standings WHERE tournament_id = $1 AND group_name = $2
		ORDER BY rank ASC`
	return r.list(ctx, executor, query, tournamentID, group)
}
