package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/khaleegram/earena/models"
)

var ErrCaptainStatsNotFound = errors.New("captain stats not found")

type CaptainStatsRepository interface {
	// GetOrCreateForUpdate returns the captain's aggregate row locked for
	// the caller's transaction, creating a zero row if none exists yet.
	GetOrCreateForUpdate(ctx context.Context, exec SQLExecutor, userID int) (*models.CaptainStats, error)
	Get(ctx context.Context, exec SQLExecutor, userID int) (*models.CaptainStats, error)
	Update(ctx context.Context, exec SQLExecutor, stats *models.CaptainStats) error
}

type postgresCaptainStatsRepository struct {
	db *sql.DB
}

func NewPostgresCaptainStatsRepository(db *sql.DB) CaptainStatsRepository {
	return &postgresCaptainStatsRepository{db: db}
}

func (r *postgresCaptainStatsRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const captainStatsColumns = `
	user_id, matches_played, wins, draws, losses, goals_scored, goals_conceded,
	clean_sheets, stat_matches, total_shots, total_passes, total_tackles,
	pass_accuracy_sum, updated_at`

func (r *postgresCaptainStatsRepository) scan(rowScanner interface{ Scan(...interface{}) error }) (*models.CaptainStats, error) {
	var s models.CaptainStats
	err := rowScanner.Scan(
		&s.UserID, &s.MatchesPlayed, &s.Wins, &s.Draws, &s.Losses, &s.GoalsScored, &s.GoalsConceded,
		&s.CleanSheets, &s.StatMatches, &s.TotalShots, &s.TotalPasses, &s.TotalTackles,
		&s.PassAccuracySum, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCaptainStatsNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *postgresCaptainStatsRepository) Get(ctx context.Context, exec SQLExecutor, userID int) (*models.CaptainStats, error) {
	executor := r.getExecutor(exec)
	query := `SELECT` + captainStatsColumns + ` FROM captain_stats WHERE user_id = $1`
	return r.scan(executor.QueryRowContext(ctx, query, userID))
}

func (r *postgresCaptainStatsRepository) GetOrCreateForUpdate(ctx context.Context, exec SQLExecutor, userID int) (*models.CaptainStats, error) {
	executor := r.getExecutor(exec)

	// Upsert the zero row first so the subsequent FOR UPDATE always finds
	// something to lock, even for a captain's first ever match.
	if _, err := executor.ExecContext(ctx, `
		INSERT INTO captain_stats (user_id, updated_at) VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING`, userID, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to ensure captain stats row for user %d: %w", userID, err)
	}

	query := `SELECT` + captainStatsColumns + ` FROM captain_stats WHERE user_id = $1 FOR UPDATE`
	stats, err := r.scan(executor.QueryRowContext(ctx, query, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to lock captain stats for user %d: %w", userID, err)
	}
	return stats, nil
}

func (r *postgresCaptainStatsRepository) Update(ctx context.Context, exec SQLExecutor, stats *models.CaptainStats) error {
	executor := r.getExecutor(exec)
	stats.UpdatedAt = time.Now()
	query := `
		UPDATE captain_stats SET
			matches_played = $1, wins = $2, draws = $3, losses = $4,
			goals_scored = $5, goals_conceded = $6, clean_sheets = $7,
			stat_matches = $8, total_shots = $9, total_passes = $10, total_tackles = $11,
			pass_accuracy_sum = $12, updated_at = $13
		WHERE user_id = $14`
	result, err := executor.ExecContext(ctx, query,
		stats.MatchesPlayed, stats.Wins, stats.Draws, stats.Losses,
		stats.GoalsScored, stats.GoalsConceded, stats.CleanSheets,
		stats.StatMatches, stats.TotalShots, stats.TotalPasses, stats.TotalTackles,
		stats.PassAccuracySum, stats.UpdatedAt, stats.UserID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrCaptainStatsNotFound)
}
