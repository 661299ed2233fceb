package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/khaleegram/earena/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound          = errors.New("match not found")
	ErrMatchTeamInvalid       = errors.New("match team reference invalid")
	ErrMatchTournamentInvalid = errors.New("match tournament reference invalid")
)

type ListMatchesFilter struct {
	RoundLabel *string
	Status     *models.MatchStatus
}

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	BatchCreate(ctx context.Context, exec SQLExecutor, matches []*models.Match) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, filter ListMatchesFilter) ([]*models.Match, error)
	Update(ctx context.Context, exec SQLExecutor, match *models.Match) error
	ListOverdue(ctx context.Context, limit int) ([]*models.Match, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `
	id, tournament_id, home_team_id, away_team_id, round_label, scheduled_day, deadline, status,
	home_score, away_score, home_penalties, away_penalties,
	home_primary_report, away_primary_report, home_secondary_report, away_secondary_report,
	home_stats, away_stats,
	resolution_note, forfeited_by_team_id, home_stats_penalty, away_stats_penalty,
	is_replay, replay_request, room_code_issued_at, created_at`

const matchInsertQuery = `
	INSERT INTO matches (
		tournament_id, home_team_id, away_team_id, round_label, scheduled_day, deadline, status,
		home_score, away_score, home_penalties, away_penalties,
		home_primary_report, away_primary_report, home_secondary_report, away_secondary_report,
		home_stats, away_stats,
		resolution_note, forfeited_by_team_id, home_stats_penalty, away_stats_penalty,
		is_replay, replay_request, room_code_issued_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
	RETURNING id, created_at`

func (r *postgresMatchRepository) insertArgs(m *models.Match) ([]interface{}, error) {
	jsonFields := make([]interface{}, 0, 7)
	for _, v := range []interface{}{
		m.HomePrimaryReport, m.AwayPrimaryReport, m.HomeSecondaryReport, m.AwaySecondaryReport,
		m.HomeStats, m.AwayStats, m.ReplayRequest,
	} {
		encoded, err := encodeNullableJSON(v)
		if err != nil {
			return nil, err
		}
		jsonFields = append(jsonFields, encoded)
	}

	return []interface{}{
		m.TournamentID, m.HomeTeamID, m.AwayTeamID, m.RoundLabel, m.ScheduledDay, m.Deadline, m.Status,
		m.HomeScore, m.AwayScore, m.HomePenalties, m.AwayPenalties,
		jsonFields[0], jsonFields[1], jsonFields[2], jsonFields[3],
		jsonFields[4], jsonFields[5],
		m.ResolutionNote, m.ForfeitedByTeamID, m.HomeStatsPenalty, m.AwayStatsPenalty,
		m.IsReplay, jsonFields[6], m.RoomCodeIssuedAt,
	}, nil
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	executor := r.getExecutor(exec)
	args, err := r.insertArgs(match)
	if err != nil {
		return err
	}
	err = executor.QueryRowContext(ctx, matchInsertQuery, args...).Scan(&match.ID, &match.CreatedAt)
	return r.handleMatchError(err)
}

// BatchCreate writes a whole round's fixtures as one unit inside the
// caller's transaction.
func (r *postgresMatchRepository) BatchCreate(ctx context.Context, exec SQLExecutor, matches []*models.Match) error {
	executor := r.getExecutor(exec)
	for _, m := range matches {
		args, err := r.insertArgs(m)
		if err != nil {
			return err
		}
		if err := executor.QueryRowContext(ctx, matchInsertQuery, args...).Scan(&m.ID, &m.CreatedAt); err != nil {
			return fmt.Errorf("batch create failed for fixture %s (%d vs %d): %w",
				m.RoundLabel, m.HomeTeamID, m.AwayTeamID, r.handleMatchError(err))
		}
	}
	return nil
}

func (r *postgresMatchRepository) scanMatch(rowScanner interface{ Scan(...interface{}) error }) (*models.Match, error) {
	var m models.Match
	var homePrimary, awayPrimary, homeSecondary, awaySecondary []byte
	var homeStats, awayStats, replayRequest []byte

	err := rowScanner.Scan(
		&m.ID, &m.TournamentID, &m.HomeTeamID, &m.AwayTeamID, &m.RoundLabel, &m.ScheduledDay, &m.Deadline, &m.Status,
		&m.HomeScore, &m.AwayScore, &m.HomePenalties, &m.AwayPenalties,
		&homePrimary, &awayPrimary, &homeSecondary, &awaySecondary,
		&homeStats, &awayStats,
		&m.ResolutionNote, &m.ForfeitedByTeamID, &m.HomeStatsPenalty, &m.AwayStatsPenalty,
		&m.IsReplay, &replayRequest, &m.RoomCodeIssuedAt, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}

	if len(homePrimary) > 0 {
		m.HomePrimaryReport = new(models.MatchReport)
		if err := unmarshalJSONField(homePrimary, m.HomePrimaryReport); err != nil {
			return nil, err
		}
	}
	if len(awayPrimary) > 0 {
		m.AwayPrimaryReport = new(models.MatchReport)
		if err := unmarshalJSONField(awayPrimary, m.AwayPrimaryReport); err != nil {
			return nil, err
		}
	}
	if len(homeSecondary) > 0 {
		m.HomeSecondaryReport = new(models.MatchReport)
		if err := unmarshalJSONField(homeSecondary, m.HomeSecondaryReport); err != nil {
			return nil, err
		}
	}
	if len(awaySecondary) > 0 {
		m.AwaySecondaryReport = new(models.MatchReport)
		if err := unmarshalJSONField(awaySecondary, m.AwaySecondaryReport); err != nil {
			return nil, err
		}
	}
	if len(homeStats) > 0 {
		m.HomeStats = new(models.TeamMatchStats)
		if err := unmarshalJSONField(homeStats, m.HomeStats); err != nil {
			return nil, err
		}
	}
	if len(awayStats) > 0 {
		m.AwayStats = new(models.TeamMatchStats)
		if err := unmarshalJSONField(awayStats, m.AwayStats); err != nil {
			return nil, err
		}
	}
	if len(replayRequest) > 0 {
		m.ReplayRequest = new(models.ReplayRequest)
		if err := unmarshalJSONField(replayRequest, m.ReplayRequest); err != nil {
			return nil, err
		}
	}
	return &m, nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	return r.scanMatch(executor.QueryRowContext(ctx, query, id))
}

// GetByIDForUpdate locks the row for the duration of the caller's
// transaction. Every report merge, forced resolution and sweep goes through
// this so the second writer observes the first writer's state.
func (r *postgresMatchRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1 FOR UPDATE`
	return r.scanMatch(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, filter ListMatchesFilter) ([]*models.Match, error) {
	executor := r.getExecutor(exec)
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1`)

	args := []interface{}{tournamentID}
	if filter.RoundLabel != nil {
		args = append(args, *filter.RoundLabel)
		queryBuilder.WriteString(" AND round_label = $" + strconv.Itoa(len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		queryBuilder.WriteString(" AND status = $" + strconv.Itoa(len(args)))
	}
	queryBuilder.WriteString(" ORDER BY scheduled_day ASC, id ASC")

	rows, err := executor.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, scanErr := r.scanMatch(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (r *postgresMatchRepository) Update(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	executor := r.getExecutor(exec)
	jsonFields := make([]interface{}, 0, 7)
	for _, v := range []interface{}{
		m.HomePrimaryReport, m.AwayPrimaryReport, m.HomeSecondaryReport, m.AwaySecondaryReport,
		m.HomeStats, m.AwayStats, m.ReplayRequest,
	} {
		encoded, err := encodeNullableJSON(v)
		if err != nil {
			return err
		}
		jsonFields = append(jsonFields, encoded)
	}

	query := `
		UPDATE matches SET
			status = $1, home_score = $2, away_score = $3, home_penalties = $4, away_penalties = $5,
			home_primary_report = $6, away_primary_report = $7,
			home_secondary_report = $8, away_secondary_report = $9,
			home_stats = $10, away_stats = $11,
			resolution_note = $12, forfeited_by_team_id = $13,
			home_stats_penalty = $14, away_stats_penalty = $15,
			is_replay = $16, replay_request = $17, room_code_issued_at = $18, deadline = $19
		WHERE id = $20`

	result, err := executor.ExecContext(ctx, query,
		m.Status, m.HomeScore, m.AwayScore, m.HomePenalties, m.AwayPenalties,
		jsonFields[0], jsonFields[1], jsonFields[2], jsonFields[3],
		jsonFields[4], jsonFields[5],
		m.ResolutionNote, m.ForfeitedByTeamID,
		m.HomeStatsPenalty, m.AwayStatsPenalty,
		m.IsReplay, jsonFields[6], m.RoomCodeIssuedAt, m.Deadline,
		m.ID,
	)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

// ListOverdue returns matches past their deadline that still await
// resolution. The sweeper re-checks each one under a row lock before acting,
// so this listing can be stale without harm.
func (r *postgresMatchRepository) ListOverdue(ctx context.Context, limit int) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches
		WHERE deadline < NOW()
		  AND status = ANY($1)
		ORDER BY deadline ASC`
	args := []interface{}{pq.Array([]string{
		string(models.MatchScheduled),
		string(models.MatchAwaitingConfirmation),
		string(models.MatchNeedsSecondaryEvidence),
	})}
	if limit > 0 {
		args = append(args, limit)
		query += " LIMIT $2"
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query overdue matches: %w", err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, scanErr := r.scanMatch(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "matches_tournament_id_fkey":
			return ErrMatchTournamentInvalid
		case "matches_home_team_id_fkey", "matches_away_team_id_fkey":
			return ErrMatchTeamInvalid
		}
	}
	return err
}
