package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Dosada05/club-manager/brackets"
	"github.com/Dosada05/club-manager/models"
	"github.com/Dosada05/club-manager/repositories"
)

type RecordResultInput struct {
	P1Games  int                `json:"p1_games"`
	P2Games  int                `json:"p2_games"`
	P1Points int                `json:"p1_points"`
	P2Points int                `json:"p2_points"`
	Status   models.MatchStatus `json:"status"`
	WinnerID *int               `json:"winner_participant_id,omitempty"`
}

type MatchService interface {
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int, stage *models.MatchStage, round *int) ([]*models.Match, error)

	// RecordResult stores score and outcome. Completing a bracket match also
	// resolves the placeholders fed by it, winner and loser alike.
	RecordResult(ctx context.Context, matchID int, input RecordResultInput) (*models.Match, error)
}

type matchService struct {
	matchRepo       repositories.MatchRepository
	participantRepo repositories.ParticipantRepository
	advancement     AdvancementService
	hub             *brackets.Hub
	logger          *slog.Logger
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	participantRepo repositories.ParticipantRepository,
	advancement AdvancementService,
	hub *brackets.Hub,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		matchRepo:       matchRepo,
		participantRepo: participantRepo,
		advancement:     advancement,
		hub:             hub,
		logger:          logger,
	}
}

func (s *matchService) GetByID(ctx context.Context, id int) (*models.Match, error) {
	m, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return m, nil
}

func (s *matchService) ListByTournament(ctx context.Context, tournamentID int, stage *models.MatchStage, round *int) ([]*models.Match, error) {
	return s.matchRepo.ListByTournament(ctx, tournamentID, stage, round)
}

func (s *matchService) RecordResult(ctx context.Context, matchID int, input RecordResultInput) (*models.Match, error) {
	match, err := s.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.Status.Terminal() {
		return nil, ErrMatchAlreadyFinal
	}

	switch input.Status {
	case models.MatchStatusScheduled, models.MatchStatusInProgress,
		models.MatchStatusCompleted, models.MatchStatusCanceled:
	default:
		return nil, ErrValidationFailed
	}

	if input.WinnerID != nil {
		if !match.References(*input.WinnerID) {
			return nil, ErrWinnerNotInMatch
		}
		winner, err := s.participantRepo.FindByID(ctx, *input.WinnerID)
		if err != nil {
			if errors.Is(err, repositories.ErrParticipantNotFound) {
				return nil, ErrParticipantNotFound
			}
			return nil, err
		}
		if winner.IsVirtual {
			return nil, ErrVirtualCannotAdvance
		}
	}
	if input.Status == models.MatchStatusCompleted &&
		(match.P1ID == nil || match.P2ID == nil) {
		return nil, ErrValidationFailed
	}
	// Elimination matches cannot end in a draw; without a winner the
	// downstream placeholders would never resolve.
	if input.Status == models.MatchStatusCompleted &&
		match.Stage == models.StageFinal && input.WinnerID == nil {
		return nil, ErrValidationFailed
	}

	match.P1Games = input.P1Games
	match.P2Games = input.P2Games
	match.P1Points = input.P1Points
	match.P2Points = input.P2Points
	match.Status = input.Status
	match.WinnerID = input.WinnerID

	if err := s.matchRepo.UpdateScoreStatusWinner(ctx, matchID, match); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}

	if s.hub != nil {
		s.hub.BroadcastToRoom(brackets.TournamentRoom(match.TournamentID), brackets.Event{
			Type:    brackets.EventMatchUpdated,
			Payload: match,
		})
	}

	if match.Stage == models.StageFinal && match.Status == models.MatchStatusCompleted {
		s.advanceFromMatch(ctx, match)
	}

	return match, nil
}

// advanceFromMatch pushes the decided sides into the placeholders fed by this
// match. Final and third-place matches feed nothing, so a missing source is
// not an error; resolution failures are logged, the recorded result stands.
func (s *matchService) advanceFromMatch(ctx context.Context, match *models.Match) {
	if match.WinnerID != nil {
		s.tryAdvance(ctx, *match.WinnerID, models.MatchSource(match.ID, models.SlotWinner))
	}
	if loserID := match.LoserID(); loserID != nil {
		s.tryAdvance(ctx, *loserID, models.MatchSource(match.ID, models.SlotLoser))
	}
}

func (s *matchService) tryAdvance(ctx context.Context, participantID int, source *models.AdvancingSource) {
	_, err := s.advancement.Advance(ctx, participantID, source)
	if err == nil || errors.Is(err, ErrNoMatchingSource) || errors.Is(err, ErrAlreadyResolved) {
		return
	}
	s.logger.Error("failed to advance participant from match",
		slog.Int("participant_id", participantID),
		slog.String("source", source.Describe()),
		slog.String("error", err.Error()))
}
