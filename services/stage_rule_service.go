package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Dosada05/club-manager/models"
	"github.com/Dosada05/club-manager/repositories"
)

type UpsertStageRuleInput struct {
	Stage    models.MatchStage        `json:"stage"`
	Name     string                   `json:"name"`
	Settings models.StageRuleSettings `json:"settings"`
}

type StageRuleService interface {
	Upsert(ctx context.Context, tournamentID int, input UpsertStageRuleInput) (*models.StageRule, error)

	// Get returns the configured rule for a stage, or the default preset when
	// none has been stored.
	Get(ctx context.Context, tournamentID int, stage models.MatchStage) (*models.StageRule, error)
}

type stageRuleService struct {
	stageRuleRepo  repositories.StageRuleRepository
	tournamentRepo repositories.TournamentRepository
}

func NewStageRuleService(
	stageRuleRepo repositories.StageRuleRepository,
	tournamentRepo repositories.TournamentRepository,
) StageRuleService {
	return &stageRuleService{
		stageRuleRepo:  stageRuleRepo,
		tournamentRepo: tournamentRepo,
	}
}

func (s *stageRuleService) Upsert(ctx context.Context, tournamentID int, input UpsertStageRuleInput) (*models.StageRule, error) {
	if input.Stage != models.StageGroup && input.Stage != models.StageFinal {
		return nil, ErrValidationFailed
	}
	for _, rule := range input.Settings.TieBreakOrder {
		switch rule {
		case models.TieBreakWinsVsTied, models.TieBreakGameDifference,
			models.TieBreakPointDifference, models.TieBreakGamesWon,
			models.TieBreakPointsScored:
		default:
			return nil, ErrValidationFailed
		}
	}
	if input.Settings.WinsVsTiedMode == "" {
		input.Settings.WinsVsTiedMode = models.HeadToHeadMiniTable
	}

	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	raw, err := json.Marshal(input.Settings)
	if err != nil {
		return nil, fmt.Errorf("failed to encode stage rule settings: %w", err)
	}
	settingsJSON := string(raw)

	rule := &models.StageRule{
		TournamentID: tournamentID,
		Stage:        input.Stage,
		Name:         input.Name,
		SettingsJSON: &settingsJSON,
		Settings:     &input.Settings,
	}
	if err := s.stageRuleRepo.Upsert(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *stageRuleService) Get(ctx context.Context, tournamentID int, stage models.MatchStage) (*models.StageRule, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	rule, err := s.stageRuleRepo.GetByTournamentAndStage(ctx, tournamentID, stage)
	if err != nil {
		if errors.Is(err, repositories.ErrStageRuleNotFound) {
			settings := models.DefaultStageRuleSettings()
			return &models.StageRule{
				TournamentID: tournamentID,
				Stage:        stage,
				Name:         "default",
				Settings:     &settings,
			}, nil
		}
		return nil, err
	}
	if _, err := rule.ParseSettings(); err != nil {
		return nil, err
	}
	return rule, nil
}
