package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Dosada05/club-manager/models"
	"github.com/Dosada05/club-manager/repositories"
)

type RegisterParticipantInput struct {
	UserID      *int   `json:"user_id,omitempty"`
	TeamID      *int   `json:"team_id,omitempty"`
	DisplayName string `json:"display_name"`
	Rating      *int   `json:"rating,omitempty"`
}

type ParticipantService interface {
	Register(ctx context.Context, tournamentID int, input RegisterParticipantInput) (*models.Participant, error)
	GetByID(ctx context.Context, id int) (*models.Participant, error)
	ListByTournament(ctx context.Context, tournamentID int, includeVirtual bool) ([]*models.Participant, error)
	CheckIn(ctx context.Context, id int) (*models.Participant, error)
	Withdraw(ctx context.Context, id int) (*models.Participant, error)
}

type participantService struct {
	txRunner        repositories.TxRunner
	participantRepo repositories.ParticipantRepository
	tournamentRepo  repositories.TournamentRepository
	logger          *slog.Logger
}

func NewParticipantService(
	txRunner repositories.TxRunner,
	participantRepo repositories.ParticipantRepository,
	tournamentRepo repositories.TournamentRepository,
	logger *slog.Logger,
) ParticipantService {
	return &participantService{
		txRunner:        txRunner,
		participantRepo: participantRepo,
		tournamentRepo:  tournamentRepo,
		logger:          logger,
	}
}

func (s *participantService) Register(ctx context.Context, tournamentID int, input RegisterParticipantInput) (*models.Participant, error) {
	if input.DisplayName == "" {
		return nil, ErrDisplayNameRequired
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	if tournament.Status != models.StatusRegistration {
		return nil, ErrRegistrationNotOpen
	}
	if tournament.ParticipantsLocked {
		return nil, ErrParticipantsLocked
	}

	count, err := s.participantRepo.CountByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if count >= tournament.MaxParticipants {
		return nil, ErrTournamentFull
	}

	p := &models.Participant{
		TournamentID: tournamentID,
		UserID:       input.UserID,
		TeamID:       input.TeamID,
		DisplayName:  input.DisplayName,
		Rating:       input.Rating,
		Status:       models.ParticipantRegistered,
	}
	err = s.txRunner.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.participantRepo.Create(ctx, exec, p)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantConflict) {
			return nil, err
		}
		return nil, err
	}

	s.logger.Info("participant registered",
		slog.Int("tournament_id", tournamentID),
		slog.Int("participant_id", p.ID))
	return p, nil
}

func (s *participantService) GetByID(ctx context.Context, id int) (*models.Participant, error) {
	p, err := s.participantRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *participantService) ListByTournament(ctx context.Context, tournamentID int, includeVirtual bool) ([]*models.Participant, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return s.participantRepo.ListByTournament(ctx, tournamentID, nil, includeVirtual)
}

func (s *participantService) CheckIn(ctx context.Context, id int) (*models.Participant, error) {
	return s.setStatus(ctx, id, models.ParticipantCheckedIn, func(p *models.Participant) error {
		if p.Status != models.ParticipantRegistered {
			return ErrValidationFailed
		}
		return nil
	})
}

// Withdraw takes a participant out of the tournament. After the lock the
// list itself must not shrink, so withdrawal is refused; substitutions go
// through the advancement resolver instead.
func (s *participantService) Withdraw(ctx context.Context, id int) (*models.Participant, error) {
	return s.setStatus(ctx, id, models.ParticipantWithdrawn, func(p *models.Participant) error {
		if !p.Status.IsActive() {
			return ErrValidationFailed
		}
		return nil
	})
}

func (s *participantService) setStatus(ctx context.Context, id int, status models.ParticipantStatus, check func(p *models.Participant) error) (*models.Participant, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.IsVirtual {
		return nil, ErrValidationFailed
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, p.TournamentID)
	if err != nil {
		return nil, err
	}
	if tournament.ParticipantsLocked {
		return nil, ErrParticipantsLocked
	}

	if err := check(p); err != nil {
		return nil, err
	}
	if err := s.participantRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	p.Status = status

	s.logger.Info("participant status changed",
		slog.Int("participant_id", id),
		slog.String("status", string(status)))
	return p, nil
}
