package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/Dosada05/club-manager/brackets"
	"github.com/Dosada05/club-manager/models"
	"github.com/Dosada05/club-manager/repositories"
	"github.com/google/uuid"
)

// AutoGenerateGroupsInput configures group assignment. Exactly one of
// NumberOfGroups and ParticipantsPerGroup must be set.
type AutoGenerateGroupsInput struct {
	NumberOfGroups        *int                 `json:"number_of_groups,omitempty"`
	ParticipantsPerGroup  *int                 `json:"participants_per_group,omitempty"`
	ParticipantsAdvancing int                  `json:"participants_advancing,omitempty"`
	GroupNamePrefix       string               `json:"group_name_prefix,omitempty"`
	SeedingMethod         models.SeedingMethod `json:"seeding_method,omitempty"`
	RandomSeed            *int64               `json:"random_seed,omitempty"`
	Preview               bool                 `json:"preview,omitempty"`
}

type GenerateGroupMatchesInput struct {
	MatchupsPerPair int `json:"matchups_per_pair,omitempty"`
}

type GenerateBracketInput struct {
	SourceType             models.BracketSourceType `json:"source_type"`
	SeedingMethod          models.SeedingMethod     `json:"seeding_method,omitempty"`
	IncludeThirdPlaceMatch bool                     `json:"include_third_place_match,omitempty"`
	Order                  brackets.SeedOrder       `json:"order,omitempty"`
	RandomSeed             *int64                   `json:"random_seed,omitempty"`
	Preview                bool                     `json:"preview,omitempty"`
}

// GroupsResult is the outcome of a group generation call. On preview the
// groups carry no database ids; on apply they are fully persisted.
type GroupsResult struct {
	Draw   *models.Draw    `json:"draw"`
	Groups []*models.Group `json:"groups"`
}

// BracketResult is the outcome of a bracket generation call. Preview returns
// the raw plan; apply returns the persisted matches and the virtual
// participants created for undetermined slots.
type BracketResult struct {
	Draw                *models.Draw             `json:"draw"`
	TotalRounds         int                      `json:"total_rounds"`
	TotalMatches        int                      `json:"total_matches"`
	Matches             []*models.Match          `json:"matches,omitempty"`
	Plan                []*brackets.PlannedMatch `json:"plan,omitempty"`
	VirtualParticipants []*models.Participant    `json:"virtual_participants,omitempty"`
}

type DrawService interface {
	AutoGenerateGroups(ctx context.Context, tournamentID int, input AutoGenerateGroupsInput) (*GroupsResult, error)
	GenerateGroupMatches(ctx context.Context, tournamentID, groupID int, input GenerateGroupMatchesInput) ([]*models.Match, error)
	GenerateBracket(ctx context.Context, tournamentID int, input GenerateBracketInput) (*BracketResult, error)
	ApplyDraw(ctx context.Context, publicID string) (*models.Draw, error)
	CancelDraw(ctx context.Context, publicID string) (*models.Draw, error)
	ListDraws(ctx context.Context, tournamentID int) ([]*models.Draw, error)
}

type drawService struct {
	txRunner        repositories.TxRunner
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	groupRepo       repositories.GroupRepository
	matchRepo       repositories.MatchRepository
	drawRepo        repositories.DrawRepository
	hub             *brackets.Hub
	logger          *slog.Logger
}

func NewDrawService(
	txRunner repositories.TxRunner,
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	groupRepo repositories.GroupRepository,
	matchRepo repositories.MatchRepository,
	drawRepo repositories.DrawRepository,
	hub *brackets.Hub,
	logger *slog.Logger,
) DrawService {
	return &drawService{
		txRunner:        txRunner,
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		groupRepo:       groupRepo,
		matchRepo:       matchRepo,
		drawRepo:        drawRepo,
		hub:             hub,
		logger:          logger,
	}
}

func (s *drawService) AutoGenerateGroups(ctx context.Context, tournamentID int, input AutoGenerateGroupsInput) (*GroupsResult, error) {
	tournament, err := s.getTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	plan, seeded, err := s.planGroups(ctx, tournament, &input)
	if err != nil {
		return nil, err
	}

	draw, err := s.newDraw(tournamentID, models.StageGroup, input)
	if err != nil {
		return nil, err
	}

	if input.Preview {
		if err := s.persistDraftDraw(ctx, draw); err != nil {
			return nil, err
		}
		return &GroupsResult{Draw: draw, Groups: plan}, nil
	}

	result, err := s.applyGroupsPlan(ctx, tournament, draw, plan, seeded)
	if err != nil {
		return nil, err
	}

	s.broadcast(tournamentID, brackets.EventGroupsGenerated, result)
	return result, nil
}

// planGroups validates the request and distributes the seeded participants
// over groups in seed order, wrapping: seeds 1..k open groups 1..k, seed k+1
// goes back to group 1. Nothing is persisted.
func (s *drawService) planGroups(ctx context.Context, tournament *models.Tournament, input *AutoGenerateGroupsInput) ([]*models.Group, []*models.Participant, error) {
	if !tournament.ParticipantsLocked {
		return nil, nil, ErrParticipantsNotLocked
	}

	existing, err := s.groupRepo.CountByTournament(ctx, tournament.ID)
	if err != nil {
		return nil, nil, err
	}
	if existing > 0 {
		return nil, nil, ErrGroupsAlreadyExist
	}

	if (input.NumberOfGroups == nil) == (input.ParticipantsPerGroup == nil) {
		return nil, nil, ErrGroupSizeOptionRequired
	}

	if input.ParticipantsAdvancing == 0 {
		input.ParticipantsAdvancing = 1
	}
	if input.ParticipantsAdvancing < 1 {
		return nil, nil, ErrInvalidAdvancingCount
	}
	if input.GroupNamePrefix == "" {
		input.GroupNamePrefix = "Group"
	}
	if input.SeedingMethod == "" {
		input.SeedingMethod = models.SeedingListOrder
	}

	active, err := s.listActiveParticipants(ctx, tournament.ID)
	if err != nil {
		return nil, nil, err
	}
	if len(active) < 2 {
		return nil, nil, ErrNotEnoughParticipants
	}

	rng, err := s.randomSource(input.SeedingMethod, &input.RandomSeed)
	if err != nil {
		return nil, nil, err
	}
	seeded, err := brackets.SeedParticipants(active, input.SeedingMethod, rng)
	if err != nil {
		return nil, nil, mapGeneratorError(err)
	}

	n := len(seeded)
	var numGroups int
	if input.NumberOfGroups != nil {
		numGroups = *input.NumberOfGroups
		if numGroups < 1 || numGroups > n/2 {
			return nil, nil, ErrInvalidGroupCount
		}
	} else {
		perGroup := *input.ParticipantsPerGroup
		if perGroup < 2 {
			return nil, nil, ErrInvalidGroupCount
		}
		numGroups = (n + perGroup - 1) / perGroup
	}

	if input.ParticipantsAdvancing > n/numGroups {
		return nil, nil, ErrInvalidAdvancingCount
	}

	plan := make([]*models.Group, numGroups)
	for i := range plan {
		plan[i] = &models.Group{
			TournamentID:          tournament.ID,
			Name:                  fmt.Sprintf("%s %c", input.GroupNamePrefix, rune('A'+i)),
			Position:              i + 1,
			ParticipantsAdvancing: input.ParticipantsAdvancing,
			Status:                models.GroupPending,
		}
	}

	for i, p := range seeded {
		seed := i + 1
		p.Seed = &seed
		g := plan[i%numGroups]
		g.Participants = append(g.Participants, *p)
	}
	for _, g := range plan {
		g.ParticipantsPerGroup = len(g.Participants)
	}

	return plan, seeded, nil
}

func (s *drawService) applyGroupsPlan(ctx context.Context, tournament *models.Tournament, draw *models.Draw, plan []*models.Group, seeded []*models.Participant) (*GroupsResult, error) {
	err := s.txRunner.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if draw.ID == 0 {
			if err := s.drawRepo.Create(ctx, exec, draw); err != nil {
				return err
			}
		}

		for _, g := range plan {
			if err := s.groupRepo.Create(ctx, exec, g); err != nil {
				return err
			}
			for i := range g.Participants {
				member := &g.Participants[i]
				member.GroupID = &g.ID
				if err := s.participantRepo.UpdateGroup(ctx, exec, member.ID, &g.ID); err != nil {
					return err
				}
			}
		}

		for _, p := range seeded {
			if err := s.participantRepo.UpdateSeed(ctx, exec, p.ID, *p.Seed); err != nil {
				return err
			}
		}

		resultJSON, err := marshalGroupsResult(plan)
		if err != nil {
			return err
		}
		return s.markApplied(ctx, exec, draw, resultJSON)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("groups generated",
		slog.Int("tournament_id", tournament.ID),
		slog.Int("groups", len(plan)),
		slog.String("draw", draw.PublicID))

	return &GroupsResult{Draw: draw, Groups: plan}, nil
}

func (s *drawService) GenerateGroupMatches(ctx context.Context, tournamentID, groupID int, input GenerateGroupMatchesInput) ([]*models.Match, error) {
	tournament, err := s.getTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if !tournament.ParticipantsLocked {
		return nil, ErrParticipantsNotLocked
	}

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

	scheduled, err := s.matchRepo.CountByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if scheduled > 0 {
		return nil, ErrGroupAlreadyScheduled
	}

	members, err := s.participantRepo.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	memberIDs := make([]int, 0, len(members))
	for _, m := range members {
		if m.Status.IsActive() {
			memberIDs = append(memberIDs, m.ID)
		}
	}
	if len(memberIDs) < 2 {
		return nil, ErrGroupTooSmall
	}

	if input.MatchupsPerPair == 0 {
		input.MatchupsPerPair = 1
	}
	plan, err := brackets.GenerateRoundRobin(memberIDs, input.MatchupsPerPair)
	if err != nil {
		return nil, mapGeneratorError(err)
	}

	created := make([]*models.Match, 0, len(plan))
	err = s.txRunner.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		for _, pm := range plan {
			m := &models.Match{
				TournamentID: tournamentID,
				Stage:        models.StageGroup,
				GroupID:      &groupID,
				Round:        pm.Round,
				MatchNumber:  pm.OrderInRound,
				P1ID:         pm.P1.ParticipantID,
				P2ID:         pm.P2.ParticipantID,
				Status:       models.MatchStatusScheduled,
				MatchTime:    tournament.StartDate,
			}
			if err := s.matchRepo.Create(ctx, exec, m); err != nil {
				return err
			}
			created = append(created, m)
		}
		return s.groupRepo.UpdateStatus(ctx, exec, groupID, models.GroupInProgress)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("group matches scheduled",
		slog.Int("tournament_id", tournamentID),
		slog.Int("group_id", groupID),
		slog.Int("matches", len(created)))
	s.broadcast(tournamentID, brackets.EventMatchesScheduled, map[string]interface{}{
		"group_id": groupID,
		"matches":  created,
	})

	return created, nil
}

func (s *drawService) GenerateBracket(ctx context.Context, tournamentID int, input GenerateBracketInput) (*BracketResult, error) {
	tournament, err := s.getTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	plan, seeded, err := s.planBracket(ctx, tournament, &input)
	if err != nil {
		return nil, err
	}

	draw, err := s.newDraw(tournamentID, models.StageFinal, input)
	if err != nil {
		return nil, err
	}

	if input.Preview {
		if err := s.persistDraftDraw(ctx, draw); err != nil {
			return nil, err
		}
		return &BracketResult{
			Draw:         draw,
			TotalRounds:  plan.TotalRounds,
			TotalMatches: plan.TotalMatches,
			Plan:         plan.Matches,
		}, nil
	}

	result, err := s.applyBracketPlan(ctx, tournament, draw, plan, seeded)
	if err != nil {
		return nil, err
	}

	s.broadcast(tournamentID, brackets.EventDrawApplied, result)
	return result, nil
}

// planBracket validates the request and builds the full elimination plan.
// Nothing is persisted; the returned seeded slice (nil for GROUP_RANK) is the
// participant order whose positions become stored seeds on apply.
func (s *drawService) planBracket(ctx context.Context, tournament *models.Tournament, input *GenerateBracketInput) (*brackets.BracketPlan, []*models.Participant, error) {
	if !tournament.ParticipantsLocked {
		return nil, nil, ErrParticipantsNotLocked
	}

	existing, err := s.matchRepo.CountByTournamentAndStage(ctx, tournament.ID, models.StageFinal)
	if err != nil {
		return nil, nil, err
	}
	if existing > 0 {
		return nil, nil, ErrBracketAlreadyExists
	}

	if input.SourceType == "" {
		input.SourceType = models.BracketSourceCustom
	}
	if input.Order == "" {
		input.Order = brackets.OrderStandard
	}

	var (
		slots  []brackets.Slot
		seeded []*models.Participant
	)

	switch input.SourceType {
	case models.BracketSourceGroupRank:
		slots, err = s.qualifierSlots(ctx, tournament.ID)
		if err != nil {
			return nil, nil, err
		}

	case models.BracketSourceCustom, models.BracketSourceRandom:
		method := input.SeedingMethod
		if input.SourceType == models.BracketSourceRandom {
			method = models.SeedingRandom
		} else if method == "" {
			method = models.SeedingListOrder
		}
		input.SeedingMethod = method

		active, err := s.listActiveParticipants(ctx, tournament.ID)
		if err != nil {
			return nil, nil, err
		}
		if len(active) < 2 {
			return nil, nil, ErrNotEnoughParticipants
		}

		rng, err := s.randomSource(method, &input.RandomSeed)
		if err != nil {
			return nil, nil, err
		}
		seeded, err = brackets.SeedParticipants(active, method, rng)
		if err != nil {
			return nil, nil, mapGeneratorError(err)
		}
		slots = make([]brackets.Slot, 0, len(seeded))
		for _, p := range seeded {
			slots = append(slots, brackets.ParticipantSlot(p.ID))
		}

	default:
		return nil, nil, ErrUnknownBracketSource
	}

	plan, err := brackets.GenerateSingleElimination(slots, brackets.BracketOptions{
		IncludeThirdPlaceMatch: input.IncludeThirdPlaceMatch,
		Order:                  input.Order,
	})
	if err != nil {
		return nil, nil, mapGeneratorError(err)
	}
	return plan, seeded, nil
}

// qualifierSlots builds GROUP_RANK entrants interleaved by rank across groups
// (A1, B1, ..., A2, B2, ...), so standard seeding pairs group winners against
// runners-up of other groups in the early rounds.
func (s *drawService) qualifierSlots(ctx context.Context, tournamentID int) ([]brackets.Slot, error) {
	groups, err := s.groupRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return nil, ErrGroupsNotGenerated
	}

	maxAdvancing := 0
	for _, g := range groups {
		if g.ParticipantsAdvancing > maxAdvancing {
			maxAdvancing = g.ParticipantsAdvancing
		}
	}

	slots := make([]brackets.Slot, 0, len(groups)*maxAdvancing)
	for rank := 1; rank <= maxAdvancing; rank++ {
		for _, g := range groups {
			if rank <= g.ParticipantsAdvancing {
				slots = append(slots, brackets.QualifierSlot(models.GroupSource(g.ID, rank)))
			}
		}
	}
	if len(slots) < 2 {
		return nil, ErrNotEnoughParticipants
	}
	return slots, nil
}

// applyBracketPlan persists a plan in one transaction using two passes.
// Matches are created first so their database ids exist, then every side that
// is still undetermined gets a virtual participant whose advancing source
// points either at a created match or at a group rank.
func (s *drawService) applyBracketPlan(ctx context.Context, tournament *models.Tournament, draw *models.Draw, plan *brackets.BracketPlan, seeded []*models.Participant) (*BracketResult, error) {
	created := make([]*models.Match, 0, plan.TotalMatches)
	virtuals := make([]*models.Participant, 0)

	err := s.txRunner.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if draw.ID == 0 {
			if err := s.drawRepo.Create(ctx, exec, draw); err != nil {
				return err
			}
		}

		uidToMatch := make(map[string]*models.Match, plan.TotalMatches)
		for _, pm := range plan.Matches {
			uid := pm.UID
			m := &models.Match{
				TournamentID: tournament.ID,
				Stage:        models.StageFinal,
				Round:        pm.Round,
				MatchNumber:  pm.OrderInRound,
				BracketUID:   &uid,
				ThirdPlace:   pm.ThirdPlace,
				P1ID:         pm.P1.ParticipantID,
				P2ID:         pm.P2.ParticipantID,
				Status:       models.MatchStatusScheduled,
				MatchTime:    tournament.StartDate,
			}
			if pm.Walkover {
				m.Status = models.MatchStatusWalkover
				m.WinnerID = pm.Winner
			}
			if err := s.matchRepo.Create(ctx, exec, m); err != nil {
				return err
			}
			uidToMatch[pm.UID] = m
			created = append(created, m)
		}

		for _, pm := range plan.Matches {
			m := uidToMatch[pm.UID]
			for slot, side := range [2]brackets.Slot{pm.P1, pm.P2} {
				if side.ParticipantID != nil || side.Empty() {
					continue
				}

				source := side.Source
				if side.SourceMatchUID != nil {
					feeder, ok := uidToMatch[*side.SourceMatchUID]
					if !ok {
						return fmt.Errorf("plan references unknown match %s", *side.SourceMatchUID)
					}
					source = models.MatchSource(feeder.ID, side.SourcePosition)
				}

				vp := &models.Participant{
					TournamentID:    tournament.ID,
					DisplayName:     source.Describe(),
					Status:          models.ParticipantRegistered,
					IsVirtual:       true,
					AdvancingSource: source,
				}
				if err := s.participantRepo.Create(ctx, exec, vp); err != nil {
					return err
				}
				if err := s.matchRepo.UpdateSide(ctx, exec, m.ID, slot+1, &vp.ID); err != nil {
					return err
				}
				if slot == 0 {
					m.P1ID = &vp.ID
				} else {
					m.P2ID = &vp.ID
				}
				virtuals = append(virtuals, vp)
			}
		}

		for i, p := range seeded {
			if err := s.participantRepo.UpdateSeed(ctx, exec, p.ID, i+1); err != nil {
				return err
			}
		}

		resultJSON, err := marshalBracketResult(plan, created)
		if err != nil {
			return err
		}
		return s.markApplied(ctx, exec, draw, resultJSON)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("bracket generated",
		slog.Int("tournament_id", tournament.ID),
		slog.Int("rounds", plan.TotalRounds),
		slog.Int("matches", len(created)),
		slog.Int("virtual_participants", len(virtuals)),
		slog.String("draw", draw.PublicID))

	return &BracketResult{
		Draw:                draw,
		TotalRounds:         plan.TotalRounds,
		TotalMatches:        plan.TotalMatches,
		Matches:             created,
		VirtualParticipants: virtuals,
	}, nil
}

// ApplyDraw replays a draft draw from its stored input inside a single
// transaction. The preconditions of the original call are re-checked, so a
// draft made stale by another applied draw fails instead of double-writing.
func (s *drawService) ApplyDraw(ctx context.Context, publicID string) (*models.Draw, error) {
	draw, err := s.getDraw(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if draw.Status != models.DrawDraft {
		return nil, ErrDrawNotDraft
	}

	tournament, err := s.getTournament(ctx, draw.TournamentID)
	if err != nil {
		return nil, err
	}

	switch draw.Stage {
	case models.StageGroup:
		var input AutoGenerateGroupsInput
		if err := json.Unmarshal([]byte(draw.InputJSON), &input); err != nil {
			return nil, fmt.Errorf("failed to decode stored draw input: %w", err)
		}
		input.Preview = false

		plan, seeded, err := s.planGroups(ctx, tournament, &input)
		if err != nil {
			return nil, err
		}
		result, err := s.applyGroupsPlan(ctx, tournament, draw, plan, seeded)
		if err != nil {
			return nil, err
		}
		s.broadcast(tournament.ID, brackets.EventGroupsGenerated, result)

	case models.StageFinal:
		var input GenerateBracketInput
		if err := json.Unmarshal([]byte(draw.InputJSON), &input); err != nil {
			return nil, fmt.Errorf("failed to decode stored draw input: %w", err)
		}
		input.Preview = false

		plan, seeded, err := s.planBracket(ctx, tournament, &input)
		if err != nil {
			return nil, err
		}
		result, err := s.applyBracketPlan(ctx, tournament, draw, plan, seeded)
		if err != nil {
			return nil, err
		}
		s.broadcast(tournament.ID, brackets.EventDrawApplied, result)

	default:
		return nil, fmt.Errorf("draw %s has unknown stage %q", publicID, draw.Stage)
	}

	return draw, nil
}

func (s *drawService) CancelDraw(ctx context.Context, publicID string) (*models.Draw, error) {
	draw, err := s.getDraw(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if draw.Status != models.DrawDraft {
		return nil, ErrDrawNotDraft
	}

	if err := s.drawRepo.MarkCanceled(ctx, draw.ID); err != nil {
		if errors.Is(err, repositories.ErrDrawNotFound) {
			return nil, ErrDrawNotDraft
		}
		return nil, err
	}
	draw.Status = models.DrawCanceled
	return draw, nil
}

func (s *drawService) ListDraws(ctx context.Context, tournamentID int) ([]*models.Draw, error) {
	if _, err := s.getTournament(ctx, tournamentID); err != nil {
		return nil, err
	}
	return s.drawRepo.ListByTournament(ctx, tournamentID)
}

func (s *drawService) getTournament(ctx context.Context, id int) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *drawService) getDraw(ctx context.Context, publicID string) (*models.Draw, error) {
	draw, err := s.drawRepo.GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, repositories.ErrDrawNotFound) {
			return nil, ErrDrawNotFound
		}
		return nil, err
	}
	return draw, nil
}

func (s *drawService) listActiveParticipants(ctx context.Context, tournamentID int) ([]*models.Participant, error) {
	all, err := s.participantRepo.ListByTournament(ctx, tournamentID, nil, false)
	if err != nil {
		return nil, err
	}
	active := make([]*models.Participant, 0, len(all))
	for _, p := range all {
		if p.Status.IsActive() {
			active = append(active, p)
		}
	}
	return active, nil
}

// randomSource fixes the seed value into the input before building the
// source, so a previewed random draw replays to the identical order on apply.
func (s *drawService) randomSource(method models.SeedingMethod, seed **int64) (*rand.Rand, error) {
	if method != models.SeedingRandom {
		return nil, nil
	}
	if *seed == nil {
		v := time.Now().UnixNano()
		*seed = &v
	}
	return rand.New(rand.NewSource(**seed)), nil
}

func (s *drawService) newDraw(tournamentID int, stage models.MatchStage, input interface{}) (*models.Draw, error) {
	inputJSON, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to encode draw input: %w", err)
	}
	return &models.Draw{
		PublicID:     uuid.NewString(),
		TournamentID: tournamentID,
		Stage:        stage,
		Status:       models.DrawDraft,
		InputJSON:    string(inputJSON),
	}, nil
}

func (s *drawService) persistDraftDraw(ctx context.Context, draw *models.Draw) error {
	return s.txRunner.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.drawRepo.Create(ctx, exec, draw)
	})
}

func (s *drawService) markApplied(ctx context.Context, exec repositories.SQLExecutor, draw *models.Draw, resultJSON string) error {
	now := time.Now()
	if err := s.drawRepo.MarkApplied(ctx, exec, draw.ID, resultJSON, now); err != nil {
		return err
	}
	draw.Status = models.DrawApplied
	draw.ResultJSON = &resultJSON
	draw.AppliedAt = &now
	return nil
}

func (s *drawService) broadcast(tournamentID int, eventType string, payload interface{}) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastToRoom(brackets.TournamentRoom(tournamentID), brackets.Event{
		Type:    eventType,
		Payload: payload,
	})
}

func marshalGroupsResult(plan []*models.Group) (string, error) {
	type assignment struct {
		GroupID      int    `json:"group_id"`
		Name         string `json:"name"`
		Participants []int  `json:"participant_ids"`
	}
	assignments := make([]assignment, 0, len(plan))
	for _, g := range plan {
		a := assignment{GroupID: g.ID, Name: g.Name}
		for _, p := range g.Participants {
			a.Participants = append(a.Participants, p.ID)
		}
		assignments = append(assignments, a)
	}
	raw, err := json.Marshal(assignments)
	if err != nil {
		return "", fmt.Errorf("failed to encode draw result: %w", err)
	}
	return string(raw), nil
}

func marshalBracketResult(plan *brackets.BracketPlan, created []*models.Match) (string, error) {
	ids := make([]int, 0, len(created))
	for _, m := range created {
		ids = append(ids, m.ID)
	}
	raw, err := json.Marshal(map[string]interface{}{
		"total_rounds":  plan.TotalRounds,
		"total_matches": plan.TotalMatches,
		"match_ids":     ids,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode draw result: %w", err)
	}
	return string(raw), nil
}

func mapGeneratorError(err error) error {
	switch {
	case errors.Is(err, brackets.ErrNotEnoughParticipants):
		return ErrNotEnoughParticipants
	case errors.Is(err, brackets.ErrRatingRequired):
		return ErrRatingRequired
	case errors.Is(err, brackets.ErrUnknownSeedingMethod):
		return ErrUnknownSeedingMethod
	case errors.Is(err, brackets.ErrInvalidMatchupsPerPair):
		return ErrInvalidMatchupsPerPair
	default:
		return err
	}
}
