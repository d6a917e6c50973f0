package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Dosada05/club-manager/models"
	"github.com/lib/pq"
)

var (
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrTournamentNameConflict = errors.New("tournament name already in use")
)

type ListTournamentsFilter struct {
	OrganizerID *int
	Status      *models.TournamentStatus
	Limit       int
	Offset      int
}

type TournamentRepository interface {
	Create(ctx context.Context, t *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, filter ListTournamentsFilter) ([]*models.Tournament, error)
	UpdateStatus(ctx context.Context, id int, status models.TournamentStatus) error
	SetParticipantsLocked(ctx context.Context, exec SQLExecutor, id int, locked bool) error
	UpdateLogoKey(ctx context.Context, id int, logoKey *string) error
	Delete(ctx context.Context, id int) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

const tournamentColumns = `id, name, description, organizer_id, status, participants_locked,
       max_participants, reg_date, start_date, end_date, logo_key, created_at`

func scanTournament(row interface{ Scan(...interface{}) error }, t *models.Tournament) error {
	return row.Scan(
		&t.ID,
		&t.Name,
		&t.Description,
		&t.OrganizerID,
		&t.Status,
		&t.ParticipantsLocked,
		&t.MaxParticipants,
		&t.RegDate,
		&t.StartDate,
		&t.EndDate,
		&t.LogoKey,
		&t.CreatedAt,
	)
}

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments
			(name, description, organizer_id, status, participants_locked,
			 max_participants, reg_date, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		t.Name,
		t.Description,
		t.OrganizerID,
		t.Status,
		t.ParticipantsLocked,
		t.MaxParticipants,
		t.RegDate,
		t.StartDate,
		t.EndDate,
	).Scan(&t.ID, &t.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			if pqErr.Constraint == "tournaments_name_key" {
				return ErrTournamentNameConflict
			}
		}
		return fmt.Errorf("failed to create tournament: %w", err)
	}
	return nil
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1`

	t := &models.Tournament{}
	if err := scanTournament(r.db.QueryRowContext(ctx, query, id), t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to scan tournament %d: %w", id, err)
	}
	return t, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context, filter ListTournamentsFilter) ([]*models.Tournament, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + tournamentColumns + ` FROM tournaments WHERE 1=1`)

	args := []interface{}{}
	placeholder := 1

	if filter.OrganizerID != nil {
		queryBuilder.WriteString(" AND organizer_id = $" + strconv.Itoa(placeholder))
		args = append(args, *filter.OrganizerID)
		placeholder++
	}
	if filter.Status != nil {
		queryBuilder.WriteString(" AND status = $" + strconv.Itoa(placeholder))
		args = append(args, *filter.Status)
		placeholder++
	}

	queryBuilder.WriteString(" ORDER BY start_date DESC, id DESC")
	if filter.Limit > 0 {
		queryBuilder.WriteString(" LIMIT $" + strconv.Itoa(placeholder))
		args = append(args, filter.Limit)
		placeholder++
	}
	if filter.Offset > 0 {
		queryBuilder.WriteString(" OFFSET $" + strconv.Itoa(placeholder))
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := make([]*models.Tournament, 0)
	for rows.Next() {
		t := &models.Tournament{}
		if err := scanTournament(rows, t); err != nil {
			return nil, fmt.Errorf("failed to scan tournament row: %w", err)
		}
		tournaments = append(tournaments, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during tournament rows iteration: %w", err)
	}
	return tournaments, nil
}

func (r *postgresTournamentRepository) UpdateStatus(ctx context.Context, id int, status models.TournamentStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE tournaments SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update tournament %d status: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) SetParticipantsLocked(ctx context.Context, exec SQLExecutor, id int, locked bool) error {
	result, err := exec.ExecContext(ctx, `UPDATE tournaments SET participants_locked = $1 WHERE id = $2`, locked, id)
	if err != nil {
		return fmt.Errorf("failed to update tournament %d lock: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateLogoKey(ctx context.Context, id int, logoKey *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE tournaments SET logo_key = $1 WHERE id = $2`, logoKey, id)
	if err != nil {
		return fmt.Errorf("failed to update tournament %d logo: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tournaments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}
