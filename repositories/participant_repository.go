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
	ErrParticipantNotFound          = errors.New("participant not found")
	ErrParticipantConflict          = errors.New("participant already registered for this tournament")
	ErrParticipantTournamentInvalid = errors.New("participant tournament conflict or invalid")
	ErrParticipantGroupInvalid      = errors.New("participant group conflict or invalid")
)

type ParticipantRepository interface {
	Create(ctx context.Context, exec SQLExecutor, p *models.Participant) error
	FindByID(ctx context.Context, id int) (*models.Participant, error)
	ListByTournament(ctx context.Context, tournamentID int, statusFilter *models.ParticipantStatus, includeVirtual bool) ([]*models.Participant, error)
	ListVirtualByTournament(ctx context.Context, tournamentID int) ([]*models.Participant, error)
	ListByGroup(ctx context.Context, groupID int) ([]*models.Participant, error)
	UpdateStatus(ctx context.Context, id int, status models.ParticipantStatus) error
	UpdateSeed(ctx context.Context, exec SQLExecutor, id int, seed int) error
	UpdateGroup(ctx context.Context, exec SQLExecutor, id int, groupID *int) error
	MarkResolved(ctx context.Context, exec SQLExecutor, virtualID, realID int) error
	CountByTournament(ctx context.Context, tournamentID int) (int, error)
}

type postgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

const participantColumns = `id, tournament_id, user_id, team_id, display_name, seed, rating,
       status, group_id, is_virtual, advancing_source, substituted_by_participant_id, created_at`

func scanParticipant(row interface{ Scan(...interface{}) error }, p *models.Participant) error {
	return row.Scan(
		&p.ID,
		&p.TournamentID,
		&p.UserID,
		&p.TeamID,
		&p.DisplayName,
		&p.Seed,
		&p.Rating,
		&p.Status,
		&p.GroupID,
		&p.IsVirtual,
		&p.AdvancingSource,
		&p.SubstitutedByID,
		&p.CreatedAt,
	)
}

func (r *postgresParticipantRepository) Create(ctx context.Context, exec SQLExecutor, p *models.Participant) error {
	query := `
		INSERT INTO participants
			(tournament_id, user_id, team_id, display_name, seed, rating, status,
			 group_id, is_virtual, advancing_source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		p.TournamentID,
		p.UserID,
		p.TeamID,
		p.DisplayName,
		p.Seed,
		p.Rating,
		p.Status,
		p.GroupID,
		p.IsVirtual,
		p.AdvancingSource,
	).Scan(&p.ID, &p.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				if pqErr.Constraint == "participants_user_id_tournament_id_key" {
					return ErrParticipantConflict
				}
			case "23503":
				switch pqErr.Constraint {
				case "participants_tournament_id_fkey":
					return ErrParticipantTournamentInvalid
				case "participants_group_id_fkey":
					return ErrParticipantGroupInvalid
				}
			}
		}
		return fmt.Errorf("failed to create participant: %w", err)
	}
	return nil
}

func (r *postgresParticipantRepository) FindByID(ctx context.Context, id int) (*models.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE id = $1`

	p := &models.Participant{}
	if err := scanParticipant(r.db.QueryRowContext(ctx, query, id), p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to scan participant %d: %w", id, err)
	}
	return p, nil
}

func (r *postgresParticipantRepository) ListByTournament(ctx context.Context, tournamentID int, statusFilter *models.ParticipantStatus, includeVirtual bool) ([]*models.Participant, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + participantColumns + ` FROM participants WHERE tournament_id = $1`)

	args := []interface{}{tournamentID}
	placeholder := 2

	if !includeVirtual {
		queryBuilder.WriteString(" AND is_virtual = FALSE")
	}
	if statusFilter != nil {
		queryBuilder.WriteString(" AND status = $" + strconv.Itoa(placeholder))
		args = append(args, *statusFilter)
	}

	queryBuilder.WriteString(" ORDER BY seed ASC NULLS LAST, id ASC")

	return r.queryParticipants(ctx, queryBuilder.String(), args...)
}

func (r *postgresParticipantRepository) ListVirtualByTournament(ctx context.Context, tournamentID int) ([]*models.Participant, error) {
	query := `SELECT ` + participantColumns + `
		FROM participants
		WHERE tournament_id = $1 AND is_virtual = TRUE
		ORDER BY id ASC`
	return r.queryParticipants(ctx, query, tournamentID)
}

func (r *postgresParticipantRepository) ListByGroup(ctx context.Context, groupID int) ([]*models.Participant, error) {
	query := `SELECT ` + participantColumns + `
		FROM participants
		WHERE group_id = $1 AND is_virtual = FALSE
		ORDER BY seed ASC NULLS LAST, id ASC`
	return r.queryParticipants(ctx, query, groupID)
}

func (r *postgresParticipantRepository) queryParticipants(ctx context.Context, query string, args ...interface{}) ([]*models.Participant, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	defer rows.Close()

	participants := make([]*models.Participant, 0)
	for rows.Next() {
		p := &models.Participant{}
		if err := scanParticipant(rows, p); err != nil {
			return nil, fmt.Errorf("failed to scan participant row: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during participant rows iteration: %w", err)
	}
	return participants, nil
}

func (r *postgresParticipantRepository) UpdateStatus(ctx context.Context, id int, status models.ParticipantStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE participants SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update participant %d status: %w", id, err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) UpdateSeed(ctx context.Context, exec SQLExecutor, id int, seed int) error {
	result, err := exec.ExecContext(ctx, `UPDATE participants SET seed = $1 WHERE id = $2`, seed, id)
	if err != nil {
		return fmt.Errorf("failed to update participant %d seed: %w", id, err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) UpdateGroup(ctx context.Context, exec SQLExecutor, id int, groupID *int) error {
	result, err := exec.ExecContext(ctx, `UPDATE participants SET group_id = $1 WHERE id = $2`, groupID, id)
	if err != nil {
		return fmt.Errorf("failed to assign participant %d to group: %w", id, err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) MarkResolved(ctx context.Context, exec SQLExecutor, virtualID, realID int) error {
	query := `
		UPDATE participants
		SET substituted_by_participant_id = $1
		WHERE id = $2 AND is_virtual = TRUE AND substituted_by_participant_id IS NULL`

	result, err := exec.ExecContext(ctx, query, realID, virtualID)
	if err != nil {
		return fmt.Errorf("failed to mark participant %d resolved: %w", virtualID, err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) CountByTournament(ctx context.Context, tournamentID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM participants WHERE tournament_id = $1 AND is_virtual = FALSE`,
		tournamentID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count participants for tournament %d: %w", tournamentID, err)
	}
	return count, nil
}
