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
	ErrMatchNotFound           = errors.New("match not found")
	ErrMatchParticipantInvalid = errors.New("match participant conflict or invalid")
	ErrMatchBracketUIDConflict = errors.New("bracket position already occupied")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, m *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int, stage *models.MatchStage, round *int) ([]*models.Match, error)
	ListByGroup(ctx context.Context, groupID int) ([]*models.Match, error)
	ListBySide(ctx context.Context, participantID int) ([]*models.Match, error)
	CountByGroup(ctx context.Context, groupID int) (int, error)
	CountByTournamentAndStage(ctx context.Context, tournamentID int, stage models.MatchStage) (int, error)
	UpdateSide(ctx context.Context, exec SQLExecutor, matchID, slot int, participantID *int) error
	UpdateWinner(ctx context.Context, exec SQLExecutor, matchID int, winnerID *int) error
	UpdateScoreStatusWinner(ctx context.Context, id int, m *models.Match) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `id, tournament_id, stage, group_id, round, match_number, bracket_uid,
       third_place, p1_participant_id, p2_participant_id, p1_games, p2_games,
       p1_points, p2_points, status, winner_participant_id, match_time, created_at`

func scanMatch(row interface{ Scan(...interface{}) error }, m *models.Match) error {
	return row.Scan(
		&m.ID,
		&m.TournamentID,
		&m.Stage,
		&m.GroupID,
		&m.Round,
		&m.MatchNumber,
		&m.BracketUID,
		&m.ThirdPlace,
		&m.P1ID,
		&m.P2ID,
		&m.P1Games,
		&m.P2Games,
		&m.P1Points,
		&m.P2Points,
		&m.Status,
		&m.WinnerID,
		&m.MatchTime,
		&m.CreatedAt,
	)
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	query := `
		INSERT INTO matches
			(tournament_id, stage, group_id, round, match_number, bracket_uid, third_place,
			 p1_participant_id, p2_participant_id, p1_games, p2_games, p1_points, p2_points,
			 status, winner_participant_id, match_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		m.TournamentID,
		m.Stage,
		m.GroupID,
		m.Round,
		m.MatchNumber,
		m.BracketUID,
		m.ThirdPlace,
		m.P1ID,
		m.P2ID,
		m.P1Games,
		m.P2Games,
		m.P1Points,
		m.P2Points,
		m.Status,
		m.WinnerID,
		m.MatchTime,
	).Scan(&m.ID, &m.CreatedAt)

	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	m := &models.Match{}
	if err := scanMatch(r.db.QueryRowContext(ctx, query, id), m); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match %d: %w", id, err)
	}
	return m, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID int, stage *models.MatchStage, round *int) ([]*models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1`)

	args := []interface{}{tournamentID}
	placeholder := 2

	if stage != nil {
		queryBuilder.WriteString(" AND stage = $" + strconv.Itoa(placeholder))
		args = append(args, *stage)
		placeholder++
	}
	if round != nil {
		queryBuilder.WriteString(" AND round = $" + strconv.Itoa(placeholder))
		args = append(args, *round)
	}

	queryBuilder.WriteString(" ORDER BY round ASC, match_number ASC, id ASC")

	return r.queryMatches(ctx, queryBuilder.String(), args...)
}

func (r *postgresMatchRepository) ListByGroup(ctx context.Context, groupID int) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE group_id = $1 ORDER BY round ASC, match_number ASC, id ASC`
	return r.queryMatches(ctx, query, groupID)
}

func (r *postgresMatchRepository) ListBySide(ctx context.Context, participantID int) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + `
		FROM matches
		WHERE p1_participant_id = $1 OR p2_participant_id = $1
		ORDER BY round ASC, match_number ASC, id ASC`
	return r.queryMatches(ctx, query, participantID)
}

func (r *postgresMatchRepository) queryMatches(ctx context.Context, query string, args ...interface{}) ([]*models.Match, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m := &models.Match{}
		if err := scanMatch(rows, m); err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) CountByGroup(ctx context.Context, groupID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM matches WHERE group_id = $1`, groupID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count matches for group %d: %w", groupID, err)
	}
	return count, nil
}

func (r *postgresMatchRepository) CountByTournamentAndStage(ctx context.Context, tournamentID int, stage models.MatchStage) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM matches WHERE tournament_id = $1 AND stage = $2`,
		tournamentID, stage,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s matches for tournament %d: %w", stage, tournamentID, err)
	}
	return count, nil
}

// UpdateSide rewrites one side of a match. Slot is 1 or 2. This is the only
// mutation path for advancement: matches are never re-created.
func (r *postgresMatchRepository) UpdateSide(ctx context.Context, exec SQLExecutor, matchID, slot int, participantID *int) error {
	var query string
	switch slot {
	case 1:
		query = `UPDATE matches SET p1_participant_id = $1 WHERE id = $2`
	case 2:
		query = `UPDATE matches SET p2_participant_id = $1 WHERE id = $2`
	default:
		return fmt.Errorf("invalid match slot %d", slot)
	}

	result, err := exec.ExecContext(ctx, query, participantID, matchID)
	if err != nil {
		return fmt.Errorf("failed to update side %d of match %d: %w", slot, matchID, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateWinner(ctx context.Context, exec SQLExecutor, matchID int, winnerID *int) error {
	result, err := exec.ExecContext(ctx,
		`UPDATE matches SET winner_participant_id = $1 WHERE id = $2`, winnerID, matchID)
	if err != nil {
		return fmt.Errorf("failed to update winner of match %d: %w", matchID, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateScoreStatusWinner(ctx context.Context, id int, m *models.Match) error {
	query := `
		UPDATE matches
		SET p1_games = $1, p2_games = $2, p1_points = $3, p2_points = $4,
		    status = $5, winner_participant_id = $6
		WHERE id = $7`

	result, err := r.db.ExecContext(ctx, query,
		m.P1Games, m.P2Games, m.P1Points, m.P2Points, m.Status, m.WinnerID, id)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "matches_p1_participant_id_fkey", "matches_p2_participant_id_fkey",
			"matches_winner_participant_id_fkey":
			return ErrMatchParticipantInvalid
		case "matches_tournament_stage_bracket_uid_key":
			return ErrMatchBracketUIDConflict
		}
	}
	return err
}
