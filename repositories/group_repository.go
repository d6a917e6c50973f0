package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/club-manager/models"
	"github.com/lib/pq"
)

var (
	ErrGroupNotFound          = errors.New("group not found")
	ErrGroupTournamentInvalid = errors.New("group tournament conflict or invalid")
)

type GroupRepository interface {
	Create(ctx context.Context, exec SQLExecutor, g *models.Group) error
	FindByID(ctx context.Context, id int) (*models.Group, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Group, error)
	CountByTournament(ctx context.Context, tournamentID int) (int, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.GroupStatus) error
}

type postgresGroupRepository struct {
	db *sql.DB
}

func NewPostgresGroupRepository(db *sql.DB) GroupRepository {
	return &postgresGroupRepository{db: db}
}

const groupColumns = `id, tournament_id, name, position, participants_per_group,
       participants_advancing, status, created_at`

func scanGroup(row interface{ Scan(...interface{}) error }, g *models.Group) error {
	return row.Scan(
		&g.ID,
		&g.TournamentID,
		&g.Name,
		&g.Position,
		&g.ParticipantsPerGroup,
		&g.ParticipantsAdvancing,
		&g.Status,
		&g.CreatedAt,
	)
}

func (r *postgresGroupRepository) Create(ctx context.Context, exec SQLExecutor, g *models.Group) error {
	query := `
		INSERT INTO groups
			(tournament_id, name, position, participants_per_group, participants_advancing, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		g.TournamentID,
		g.Name,
		g.Position,
		g.ParticipantsPerGroup,
		g.ParticipantsAdvancing,
		g.Status,
	).Scan(&g.ID, &g.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			if pqErr.Constraint == "groups_tournament_id_fkey" {
				return ErrGroupTournamentInvalid
			}
		}
		return fmt.Errorf("failed to create group: %w", err)
	}
	return nil
}

func (r *postgresGroupRepository) FindByID(ctx context.Context, id int) (*models.Group, error) {
	query := `SELECT ` + groupColumns + ` FROM groups WHERE id = $1`

	g := &models.Group{}
	if err := scanGroup(r.db.QueryRowContext(ctx, query, id), g); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to scan group %d: %w", id, err)
	}
	return g, nil
}

func (r *postgresGroupRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Group, error) {
	query := `SELECT ` + groupColumns + ` FROM groups WHERE tournament_id = $1 ORDER BY position ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	groups := make([]*models.Group, 0)
	for rows.Next() {
		g := &models.Group{}
		if err := scanGroup(rows, g); err != nil {
			return nil, fmt.Errorf("failed to scan group row: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during group rows iteration: %w", err)
	}
	return groups, nil
}

func (r *postgresGroupRepository) CountByTournament(ctx context.Context, tournamentID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM groups WHERE tournament_id = $1`, tournamentID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count groups for tournament %d: %w", tournamentID, err)
	}
	return count, nil
}

func (r *postgresGroupRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.GroupStatus) error {
	result, err := exec.ExecContext(ctx, `UPDATE groups SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update group %d status: %w", id, err)
	}
	return checkAffectedRows(result, ErrGroupNotFound)
}
