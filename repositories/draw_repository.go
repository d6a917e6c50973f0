package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/club-manager/models"
)

var ErrDrawNotFound = errors.New("draw not found")

type DrawRepository interface {
	Create(ctx context.Context, exec SQLExecutor, d *models.Draw) error
	GetByPublicID(ctx context.Context, publicID string) (*models.Draw, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Draw, error)
	MarkApplied(ctx context.Context, exec SQLExecutor, id int, resultJSON string, appliedAt time.Time) error
	MarkCanceled(ctx context.Context, id int) error
}

type postgresDrawRepository struct {
	db *sql.DB
}

func NewPostgresDrawRepository(db *sql.DB) DrawRepository {
	return &postgresDrawRepository{db: db}
}

const drawColumns = `id, public_id, tournament_id, stage, status, input_json, result_json, created_at, applied_at`

func scanDraw(row interface{ Scan(...interface{}) error }, d *models.Draw) error {
	return row.Scan(
		&d.ID,
		&d.PublicID,
		&d.TournamentID,
		&d.Stage,
		&d.Status,
		&d.InputJSON,
		&d.ResultJSON,
		&d.CreatedAt,
		&d.AppliedAt,
	)
}

func (r *postgresDrawRepository) Create(ctx context.Context, exec SQLExecutor, d *models.Draw) error {
	query := `
		INSERT INTO draws (public_id, tournament_id, stage, status, input_json, result_json, applied_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		d.PublicID,
		d.TournamentID,
		d.Stage,
		d.Status,
		d.InputJSON,
		d.ResultJSON,
		d.AppliedAt,
	).Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create draw: %w", err)
	}
	return nil
}

func (r *postgresDrawRepository) GetByPublicID(ctx context.Context, publicID string) (*models.Draw, error) {
	query := `SELECT ` + drawColumns + ` FROM draws WHERE public_id = $1`

	d := &models.Draw{}
	if err := scanDraw(r.db.QueryRowContext(ctx, query, publicID), d); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDrawNotFound
		}
		return nil, fmt.Errorf("failed to scan draw %s: %w", publicID, err)
	}
	return d, nil
}

func (r *postgresDrawRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Draw, error) {
	query := `SELECT ` + drawColumns + ` FROM draws WHERE tournament_id = $1 ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query draws for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	draws := make([]*models.Draw, 0)
	for rows.Next() {
		d := &models.Draw{}
		if err := scanDraw(rows, d); err != nil {
			return nil, fmt.Errorf("failed to scan draw row: %w", err)
		}
		draws = append(draws, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during draw rows iteration: %w", err)
	}
	return draws, nil
}

func (r *postgresDrawRepository) MarkApplied(ctx context.Context, exec SQLExecutor, id int, resultJSON string, appliedAt time.Time) error {
	query := `
		UPDATE draws
		SET status = $1, result_json = $2, applied_at = $3
		WHERE id = $4 AND status = $5`

	result, err := exec.ExecContext(ctx, query,
		models.DrawApplied, resultJSON, appliedAt, id, models.DrawDraft)
	if err != nil {
		return fmt.Errorf("failed to mark draw %d applied: %w", id, err)
	}
	return checkAffectedRows(result, ErrDrawNotFound)
}

func (r *postgresDrawRepository) MarkCanceled(ctx context.Context, id int) error {
	query := `UPDATE draws SET status = $1 WHERE id = $2 AND status = $3`
	result, err := r.db.ExecContext(ctx, query, models.DrawCanceled, id, models.DrawDraft)
	if err != nil {
		return fmt.Errorf("failed to cancel draw %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrDrawNotFound)
}
