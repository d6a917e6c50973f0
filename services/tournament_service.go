package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Dosada05/club-manager/models"
	"github.com/Dosada05/club-manager/repositories"
	"github.com/Dosada05/club-manager/storage"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type CreateTournamentInput struct {
	Name            string    `json:"name"`
	Description     *string   `json:"description,omitempty"`
	MaxParticipants int       `json:"max_participants"`
	RegDate         time.Time `json:"reg_date"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
}

type TournamentService interface {
	Create(ctx context.Context, organizerID int, input CreateTournamentInput) (*models.Tournament, error)
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	GetWithDetails(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]*models.Tournament, error)
	UpdateStatus(ctx context.Context, id int, status models.TournamentStatus) (*models.Tournament, error)
	SetParticipantsLocked(ctx context.Context, id int, locked bool) (*models.Tournament, error)
	UploadLogo(ctx context.Context, id int, contentType string, file io.Reader) (*models.Tournament, error)
	Delete(ctx context.Context, id int) error
	AutoUpdateStatusesByDates(ctx context.Context) error
}

// Allowed status transitions. Completed and canceled are terminal.
var validStatusTransitions = map[models.TournamentStatus][]models.TournamentStatus{
	models.StatusSoon:         {models.StatusRegistration, models.StatusCanceled},
	models.StatusRegistration: {models.StatusActive, models.StatusCanceled},
	models.StatusActive:       {models.StatusCompleted, models.StatusCanceled},
}

type tournamentService struct {
	txRunner        repositories.TxRunner
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	groupRepo       repositories.GroupRepository
	matchRepo       repositories.MatchRepository
	uploader        storage.FileUploader
	logger          *slog.Logger
}

func NewTournamentService(
	txRunner repositories.TxRunner,
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	groupRepo repositories.GroupRepository,
	matchRepo repositories.MatchRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		txRunner:        txRunner,
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		groupRepo:       groupRepo,
		matchRepo:       matchRepo,
		uploader:        uploader,
		logger:          logger,
	}
}

func (s *tournamentService) Create(ctx context.Context, organizerID int, input CreateTournamentInput) (*models.Tournament, error) {
	if input.Name == "" {
		return nil, ErrTournamentNameRequired
	}
	if input.MaxParticipants <= 0 {
		return nil, ErrTournamentInvalidCap
	}
	if !input.EndDate.After(input.StartDate) || !input.StartDate.After(input.RegDate) {
		return nil, ErrTournamentInvalidDates
	}

	t := &models.Tournament{
		Name:            input.Name,
		Description:     input.Description,
		OrganizerID:     organizerID,
		Status:          models.StatusSoon,
		MaxParticipants: input.MaxParticipants,
		RegDate:         input.RegDate,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
	}
	if err := s.tournamentRepo.Create(ctx, t); err != nil {
		if errors.Is(err, repositories.ErrTournamentNameConflict) {
			return nil, err
		}
		return nil, err
	}

	s.logger.Info("tournament created",
		slog.Int("tournament_id", t.ID),
		slog.Int("organizer_id", organizerID))
	return t, nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	s.attachLogoURL(t)
	return t, nil
}

// GetWithDetails loads the tournament with its participants, groups and
// matches fetched in parallel.
func (s *tournamentService) GetWithDetails(ctx context.Context, id int) (*models.Tournament, error) {
	t, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		participants, err := s.participantRepo.ListByTournament(gCtx, id, nil, true)
		if err != nil {
			return err
		}
		t.Participants = make([]models.Participant, 0, len(participants))
		for _, p := range participants {
			t.Participants = append(t.Participants, *p)
		}
		return nil
	})
	g.Go(func() error {
		groups, err := s.groupRepo.ListByTournament(gCtx, id)
		if err != nil {
			return err
		}
		t.Groups = make([]models.Group, 0, len(groups))
		for _, gr := range groups {
			t.Groups = append(t.Groups, *gr)
		}
		return nil
	})
	g.Go(func() error {
		matches, err := s.matchRepo.ListByTournament(gCtx, id, nil, nil)
		if err != nil {
			return err
		}
		t.Matches = make([]models.Match, 0, len(matches))
		for _, m := range matches {
			t.Matches = append(t.Matches, *m)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *tournamentService) List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]*models.Tournament, error) {
	tournaments, err := s.tournamentRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for _, t := range tournaments {
		s.attachLogoURL(t)
	}
	return tournaments, nil
}

func (s *tournamentService) UpdateStatus(ctx context.Context, id int, status models.TournamentStatus) (*models.Tournament, error) {
	switch status {
	case models.StatusSoon, models.StatusRegistration, models.StatusActive,
		models.StatusCompleted, models.StatusCanceled:
	default:
		return nil, ErrTournamentInvalidStatus
	}

	t, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !transitionAllowed(t.Status, status) {
		return nil, ErrInvalidStatusTransition
	}

	if err := s.tournamentRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	t.Status = status

	s.logger.Info("tournament status changed",
		slog.Int("tournament_id", id),
		slog.String("status", string(status)))
	return t, nil
}

// SetParticipantsLocked toggles the generation gate. Unlocking is refused
// once any match exists; the participant list underneath an applied draw must
// stay immutable.
func (s *tournamentService) SetParticipantsLocked(ctx context.Context, id int, locked bool) (*models.Tournament, error) {
	t, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.ParticipantsLocked == locked {
		return t, nil
	}

	if !locked {
		for _, stage := range []models.MatchStage{models.StageGroup, models.StageFinal} {
			count, err := s.matchRepo.CountByTournamentAndStage(ctx, id, stage)
			if err != nil {
				return nil, err
			}
			if count > 0 {
				return nil, ErrCannotUnlockAfterDraw
			}
		}
	}

	err = s.txRunner.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.tournamentRepo.SetParticipantsLocked(ctx, exec, id, locked)
	})
	if err != nil {
		return nil, err
	}
	t.ParticipantsLocked = locked

	s.logger.Info("participants lock changed",
		slog.Int("tournament_id", id),
		slog.Bool("locked", locked))
	return t, nil
}

func (s *tournamentService) UploadLogo(ctx context.Context, id int, contentType string, file io.Reader) (*models.Tournament, error) {
	if s.uploader == nil {
		return nil, ErrStorageNotConfigured
	}
	if contentType != "image/png" && contentType != "image/jpeg" {
		return nil, ErrUnsupportedLogoType
	}

	t, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ext := "png"
	if contentType == "image/jpeg" {
		ext = "jpg"
	}
	key := fmt.Sprintf("tournaments/%d/logo_%s.%s", id, uuid.NewString(), ext)

	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload tournament logo: %w", err)
	}

	oldKey := t.LogoKey
	if err := s.tournamentRepo.UpdateLogoKey(ctx, id, &result.Key); err != nil {
		return nil, err
	}
	if oldKey != nil && *oldKey != result.Key {
		if err := s.uploader.Delete(ctx, *oldKey); err != nil {
			s.logger.Warn("failed to delete previous logo",
				slog.Int("tournament_id", id),
				slog.String("key", *oldKey),
				slog.String("error", err.Error()))
		}
	}

	t.LogoKey = &result.Key
	s.attachLogoURL(t)
	return t, nil
}

func (s *tournamentService) Delete(ctx context.Context, id int) error {
	if err := s.tournamentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return err
	}
	s.logger.Info("tournament deleted", slog.Int("tournament_id", id))
	return nil
}

// AutoUpdateStatusesByDates moves tournaments along the date-driven part of
// the lifecycle: soon opens registration at RegDate, registration goes active
// at StartDate, active completes at EndDate. Called periodically by the
// scheduler in main.
func (s *tournamentService) AutoUpdateStatusesByDates(ctx context.Context) error {
	now := time.Now()
	steps := []struct {
		from models.TournamentStatus
		to   models.TournamentStatus
		due  func(t *models.Tournament) bool
	}{
		{models.StatusSoon, models.StatusRegistration, func(t *models.Tournament) bool { return !t.RegDate.After(now) }},
		{models.StatusRegistration, models.StatusActive, func(t *models.Tournament) bool { return !t.StartDate.After(now) }},
		{models.StatusActive, models.StatusCompleted, func(t *models.Tournament) bool { return !t.EndDate.After(now) }},
	}

	for _, step := range steps {
		from := step.from
		tournaments, err := s.tournamentRepo.List(ctx, repositories.ListTournamentsFilter{Status: &from})
		if err != nil {
			return err
		}
		for _, t := range tournaments {
			if !step.due(t) {
				continue
			}
			if err := s.tournamentRepo.UpdateStatus(ctx, t.ID, step.to); err != nil {
				s.logger.Error("failed to auto-update tournament status",
					slog.Int("tournament_id", t.ID),
					slog.String("to", string(step.to)),
					slog.String("error", err.Error()))
				continue
			}
			s.logger.Info("tournament status auto-updated",
				slog.Int("tournament_id", t.ID),
				slog.String("from", string(step.from)),
				slog.String("to", string(step.to)))
		}
	}
	return nil
}

func (s *tournamentService) attachLogoURL(t *models.Tournament) {
	if t.LogoKey == nil || s.uploader == nil {
		return
	}
	url := s.uploader.GetPublicURL(*t.LogoKey)
	if url != "" {
		t.LogoURL = &url
	}
}

func transitionAllowed(from, to models.TournamentStatus) bool {
	for _, allowed := range validStatusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
