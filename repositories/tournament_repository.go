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
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrTournamentNameConflict = errors.New("tournament name conflict for this organizer")
	ErrTournamentFull         = errors.New("tournament team capacity reached")
)

type ListTournamentsFilter struct {
	Format      *models.TournamentFormat
	OrganizerID *int
	Status      *models.TournamentStatus
	Limit       int
	Offset      int
}

type TournamentRepository interface {
	Create(ctx context.Context, t *models.Tournament) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error)
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error)
	List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error
	SetWinner(ctx context.Context, exec SQLExecutor, id int, winnerTeamID int) error
	IncrementTeamCount(ctx context.Context, exec SQLExecutor, id int) error
	DecrementTeamCount(ctx context.Context, exec SQLExecutor, id int) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const tournamentColumns = `
	id, name, game, format, organizer_id, max_teams, team_count, group_size,
	reg_date, start_date, end_date, home_and_away, penalties, extra_time,
	status, winner_team_id, created_at`

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments (
			name, game, format, organizer_id, max_teams, group_size,
			reg_date, start_date, end_date, home_and_away, penalties, extra_time, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, team_count, created_at`

	err := r.db.QueryRowContext(ctx, query,
		t.Name, t.Game, t.Format, t.OrganizerID, t.MaxTeams, t.GroupSize,
		t.RegDate, t.StartDate, t.EndDate,
		t.Rules.HomeAndAway, t.Rules.Penalties, t.Rules.ExtraTime, t.Status,
	).Scan(&t.ID, &t.TeamCount, &t.CreatedAt)

	return r.handleTournamentError(err)
}

func (r *postgresTournamentRepository) scanTournament(rowScanner interface{ Scan(...interface{}) error }) (*models.Tournament, error) {
	var t models.Tournament
	err := rowScanner.Scan(
		&t.ID, &t.Name, &t.Game, &t.Format, &t.OrganizerID, &t.MaxTeams, &t.TeamCount, &t.GroupSize,
		&t.RegDate, &t.StartDate, &t.EndDate,
		&t.Rules.HomeAndAway, &t.Rules.Penalties, &t.Rules.ExtraTime,
		&t.Status, &t.WinnerTeamID, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1`
	return r.scanTournament(executor.QueryRowContext(ctx, query, id))
}

// GetByIDForUpdate takes a row lock so progression and completion checks can
// re-read status inside their transaction without racing a concurrent caller.
func (r *postgresTournamentRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1 FOR UPDATE`
	return r.scanTournament(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresTournamentRepository) List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE 1=1`
	args := make([]interface{}, 0, 5)

	if filter.Format != nil {
		args = append(args, *filter.Format)
		query += fmt.Sprintf(" AND format = $%d", len(args))
	}
	if filter.OrganizerID != nil {
		args = append(args, *filter.OrganizerID)
		query += fmt.Sprintf(" AND organizer_id = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY created_at DESC, id DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		t, scanErr := r.scanTournament(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		tournaments = append(tournaments, *t)
	}
	return tournaments, rows.Err()
}

func (r *postgresTournamentRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `UPDATE tournaments SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) SetWinner(ctx context.Context, exec SQLExecutor, id int, winnerTeamID int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE tournaments SET winner_team_id = $1 WHERE id = $2`, winnerTeamID, id)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

// IncrementTeamCount bumps the shared counter atomically in SQL, guarded by
// capacity, so two concurrent registrations can never overfill a tournament.
func (r *postgresTournamentRepository) IncrementTeamCount(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `
		UPDATE tournaments SET team_count = team_count + 1
		WHERE id = $1 AND team_count < max_teams`, id)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentFull)
}

func (r *postgresTournamentRepository) DecrementTeamCount(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `
		UPDATE tournaments SET team_count = team_count - 1
		WHERE id = $1 AND team_count > 0`, id)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

// Delete removes the tournament together with all subordinate records. The
// caller supplies the transaction; matches, teams and standings go first so
// the foreign keys never dangle mid-delete.
func (r *postgresTournamentRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	statements := []string{
		`DELETE FROM tournament_standings WHERE tournament_id = $1`,
		`DELETE FROM matches WHERE tournament_id = $1`,
		`DELETE FROM team_players WHERE team_id IN (SELECT id FROM teams WHERE tournament_id = $1)`,
		`DELETE FROM teams WHERE tournament_id = $1`,
	}
	for _, stmt := range statements {
		if _, err := executor.ExecContext(ctx, stmt, id); err != nil {
			return fmt.Errorf("failed cascading delete for tournament %d: %w", id, err)
		}
	}
	result, err := executor.ExecContext(ctx, `DELETE FROM tournaments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) handleTournamentError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "tournaments_organizer_name_key":
			return ErrTournamentNameConflict
		}
	}
	return err
}
