package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/Dosada05/club-manager/brackets"
	"github.com/Dosada05/club-manager/models"
	"github.com/Dosada05/club-manager/repositories"
)

// AdvanceResult reports which placeholders were resolved and which matches
// had a side rewritten as a consequence.
type AdvanceResult struct {
	ResolvedVirtualIDs []int `json:"resolved_virtual_ids"`
	UpdatedMatchIDs    []int `json:"updated_match_ids"`
}

type AdvancementService interface {
	// Replace substitutes a real participant into one virtual placeholder and
	// rewrites every match side referencing it. Returns the updated match ids.
	Replace(ctx context.Context, virtualID, realID int) ([]int, error)

	// Advance finds the virtual placeholder(s) matching the given source and
	// resolves them with the real participant. A nil source falls back to the
	// participant's own group and current standings rank.
	Advance(ctx context.Context, realID int, source *models.AdvancingSource) (*AdvanceResult, error)
}

type advancementService struct {
	txRunner        repositories.TxRunner
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
	standings       StandingsService
	hub             *brackets.Hub
	logger          *slog.Logger

	// One mutex per tournament serializes concurrent resolutions; two
	// advancements racing for the same placeholder must not both win.
	mu              sync.Mutex
	tournamentLocks map[int]*sync.Mutex
}

func NewAdvancementService(
	txRunner repositories.TxRunner,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
	standings StandingsService,
	hub *brackets.Hub,
	logger *slog.Logger,
) AdvancementService {
	return &advancementService{
		txRunner:        txRunner,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		standings:       standings,
		hub:             hub,
		logger:          logger,
		tournamentLocks: make(map[int]*sync.Mutex),
	}
}

func (s *advancementService) lockTournament(tournamentID int) func() {
	s.mu.Lock()
	l, ok := s.tournamentLocks[tournamentID]
	if !ok {
		l = &sync.Mutex{}
		s.tournamentLocks[tournamentID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func (s *advancementService) Replace(ctx context.Context, virtualID, realID int) ([]int, error) {
	virtual, err := s.getParticipant(ctx, virtualID)
	if err != nil {
		return nil, err
	}
	if !virtual.IsVirtual {
		return nil, ErrNotVirtualParticipant
	}

	unlock := s.lockTournament(virtual.TournamentID)
	defer unlock()

	return s.replaceLocked(ctx, virtualID, realID)
}

// replaceLocked does the actual substitution. The tournament lock must be
// held by the caller.
func (s *advancementService) replaceLocked(ctx context.Context, virtualID, realID int) ([]int, error) {
	// Re-read under the lock so a resolution that just committed is visible.
	virtual, err := s.getParticipant(ctx, virtualID)
	if err != nil {
		return nil, err
	}
	if !virtual.IsVirtual {
		return nil, ErrNotVirtualParticipant
	}
	if virtual.Resolved() {
		return nil, ErrAlreadyResolved
	}

	real, err := s.getParticipant(ctx, realID)
	if err != nil {
		return nil, err
	}
	if real.IsVirtual {
		return nil, ErrVirtualCannotAdvance
	}
	if real.TournamentID != virtual.TournamentID {
		return nil, ErrParticipantNotFound
	}
	if !real.Status.IsActive() {
		return nil, ErrParticipantInactive
	}

	affected, err := s.matchRepo.ListBySide(ctx, virtualID)
	if err != nil {
		return nil, err
	}

	updated := make([]int, 0, len(affected))
	err = s.txRunner.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		for _, m := range affected {
			otherSide := func(side *int) bool {
				return side != nil && *side == realID
			}

			if m.P1ID != nil && *m.P1ID == virtualID {
				if otherSide(m.P2ID) {
					return ErrMatchSelfPlay
				}
				if err := s.matchRepo.UpdateSide(ctx, exec, m.ID, 1, &realID); err != nil {
					return err
				}
			}
			if m.P2ID != nil && *m.P2ID == virtualID {
				if otherSide(m.P1ID) {
					return ErrMatchSelfPlay
				}
				if err := s.matchRepo.UpdateSide(ctx, exec, m.ID, 2, &realID); err != nil {
					return err
				}
			}

			// A walkover fixture occupied by the placeholder now has a known
			// winner.
			if m.Status == models.MatchStatusWalkover &&
				(m.WinnerID == nil || *m.WinnerID == virtualID) {
				if err := s.matchRepo.UpdateWinner(ctx, exec, m.ID, &realID); err != nil {
					return err
				}
			}

			updated = append(updated, m.ID)
		}

		if err := s.participantRepo.MarkResolved(ctx, exec, virtualID, realID); err != nil {
			if errors.Is(err, repositories.ErrParticipantNotFound) {
				return ErrAlreadyResolved
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("virtual participant resolved",
		slog.Int("tournament_id", virtual.TournamentID),
		slog.Int("virtual_id", virtualID),
		slog.Int("real_id", realID),
		slog.Int("matches_updated", len(updated)))
	s.broadcast(virtual.TournamentID, map[string]interface{}{
		"virtual_participant_id": virtualID,
		"real_participant_id":    realID,
		"updated_match_ids":      updated,
	})

	return updated, nil
}

func (s *advancementService) Advance(ctx context.Context, realID int, source *models.AdvancingSource) (*AdvanceResult, error) {
	real, err := s.getParticipant(ctx, realID)
	if err != nil {
		return nil, err
	}
	if real.IsVirtual {
		return nil, ErrVirtualCannotAdvance
	}

	unlock := s.lockTournament(real.TournamentID)
	defer unlock()

	if source == nil {
		source, err = s.groupSourceOf(ctx, real)
		if err != nil {
			return nil, err
		}
	} else if err := source.Validate(); err != nil {
		return nil, err
	}

	virtuals, err := s.participantRepo.ListVirtualByTournament(ctx, real.TournamentID)
	if err != nil {
		return nil, err
	}

	var (
		pending         []*models.Participant
		resolvedMatched bool
	)
	for _, v := range virtuals {
		if !s.sourceMatches(v.AdvancingSource, source) {
			continue
		}
		if v.Resolved() {
			resolvedMatched = true
			continue
		}
		pending = append(pending, v)
	}

	if len(pending) == 0 {
		if resolvedMatched {
			return nil, ErrAlreadyResolved
		}
		return nil, ErrNoMatchingSource
	}

	result := &AdvanceResult{}
	for _, v := range pending {
		updated, err := s.replaceLocked(ctx, v.ID, realID)
		if err != nil {
			return nil, err
		}
		result.ResolvedVirtualIDs = append(result.ResolvedVirtualIDs, v.ID)
		result.UpdatedMatchIDs = append(result.UpdatedMatchIDs, updated...)
	}
	return result, nil
}

// groupSourceOf derives the advancing source from the participant's own group
// and its current standings rank.
func (s *advancementService) groupSourceOf(ctx context.Context, real *models.Participant) (*models.AdvancingSource, error) {
	if real.GroupID == nil {
		return nil, ErrNoMatchingSource
	}

	standings, err := s.standings.GetStandings(ctx, real.TournamentID, *real.GroupID)
	if err != nil {
		return nil, err
	}
	for _, entry := range standings.Entries {
		if entry.ParticipantID == real.ID {
			return models.GroupSource(*real.GroupID, entry.Rank), nil
		}
	}
	return nil, ErrNoMatchingSource
}

func (s *advancementService) sourceMatches(candidate, source *models.AdvancingSource) bool {
	if candidate == nil || source == nil {
		return false
	}
	switch source.Kind {
	case models.SourceKindMatch:
		return candidate.RefersToMatch(*source.MatchID, *source.Position)
	case models.SourceKindGroup:
		return candidate.RefersToGroup(*source.GroupID, *source.Rank)
	}
	return false
}

func (s *advancementService) getParticipant(ctx context.Context, id int) (*models.Participant, error) {
	p, err := s.participantRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *advancementService) broadcast(tournamentID int, payload interface{}) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastToRoom(brackets.TournamentRoom(tournamentID), brackets.Event{
		Type:    brackets.EventParticipantAdvanced,
		Payload: payload,
	})
}
