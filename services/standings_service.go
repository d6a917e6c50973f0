package services

import (
	"context"
	"errors"
	"time"

	"github.com/Dosada05/club-manager/brackets"
	"github.com/Dosada05/club-manager/models"
	"github.com/Dosada05/club-manager/repositories"
)

type StandingsService interface {
	GetStandings(ctx context.Context, tournamentID, groupID int) (*models.GroupStandings, error)
}

type standingsService struct {
	groupRepo       repositories.GroupRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
	stageRuleRepo   repositories.StageRuleRepository
}

func NewStandingsService(
	groupRepo repositories.GroupRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
	stageRuleRepo repositories.StageRuleRepository,
) StandingsService {
	return &standingsService{
		groupRepo:       groupRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		stageRuleRepo:   stageRuleRepo,
	}
}

// GetStandings recomputes the table from stored match results on every call;
// nothing is cached, so it is always consistent with what the matches say.
func (s *standingsService) GetStandings(ctx context.Context, tournamentID, groupID int) (*models.GroupStandings, error) {
	group, err := s.groupRepo.FindByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, repositories.ErrGroupNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	if group.TournamentID != tournamentID {
		return nil, ErrGroupNotFound
	}

	members, err := s.participantRepo.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	matches, err := s.matchRepo.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	settings, err := s.groupStageSettings(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	entries, err := brackets.ComputeStandings(group, members, matches, settings)
	if err != nil {
		return nil, err
	}

	return &models.GroupStandings{
		GroupID:    groupID,
		Entries:    entries,
		ComputedAt: time.Now(),
	}, nil
}

func (s *standingsService) groupStageSettings(ctx context.Context, tournamentID int) (*models.StageRuleSettings, error) {
	rule, err := s.stageRuleRepo.GetByTournamentAndStage(ctx, tournamentID, models.StageGroup)
	if err != nil {
		if errors.Is(err, repositories.ErrStageRuleNotFound) {
			settings := models.DefaultStageRuleSettings()
			return &settings, nil
		}
		return nil, err
	}
	return rule.ParseSettings()
}
