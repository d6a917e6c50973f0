package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/club-manager/models"
)

var ErrStageRuleNotFound = errors.New("stage rule not found")

type StageRuleRepository interface {
	Upsert(ctx context.Context, rule *models.StageRule) error
	GetByTournamentAndStage(ctx context.Context, tournamentID int, stage models.MatchStage) (*models.StageRule, error)
}

type postgresStageRuleRepository struct {
	db *sql.DB
}

func NewPostgresStageRuleRepository(db *sql.DB) StageRuleRepository {
	return &postgresStageRuleRepository{db: db}
}

func (r *postgresStageRuleRepository) Upsert(ctx context.Context, rule *models.StageRule) error {
	query := `
		INSERT INTO stage_rules (tournament_id, stage, name, settings_json)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (tournament_id, stage)
		DO UPDATE SET name = EXCLUDED.name, settings_json = EXCLUDED.settings_json
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		rule.TournamentID,
		rule.Stage,
		rule.Name,
		rule.SettingsJSON,
	).Scan(&rule.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert stage rule: %w", err)
	}
	return nil
}

func (r *postgresStageRuleRepository) GetByTournamentAndStage(ctx context.Context, tournamentID int, stage models.MatchStage) (*models.StageRule, error) {
	query := `
		SELECT id, tournament_id, stage, name, settings_json
		FROM stage_rules
		WHERE tournament_id = $1 AND stage = $2`

	rule := &models.StageRule{}
	err := r.db.QueryRowContext(ctx, query, tournamentID, stage).Scan(
		&rule.ID,
		&rule.TournamentID,
		&rule.Stage,
		&rule.Name,
		&rule.SettingsJSON,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStageRuleNotFound
		}
		return nil, fmt.Errorf("failed to scan stage rule for tournament %d: %w", tournamentID, err)
	}
	return rule, nil
}
