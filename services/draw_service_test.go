package services

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/Dosada05/club-manager/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type drawEnv struct {
	tx           *fakeTxRunner
	tournaments  *fakeTournamentRepo
	participants *fakeParticipantRepo
	groups       *fakeGroupRepo
	matches      *fakeMatchRepo
	draws        *fakeDrawRepo
	svc          DrawService
}

func newDrawEnv() *drawEnv {
	env := &drawEnv{
		tx:           &fakeTxRunner{},
		tournaments:  newFakeTournamentRepo(),
		participants: newFakeParticipantRepo(),
		groups:       newFakeGroupRepo(),
		matches:      newFakeMatchRepo(),
		draws:        newFakeDrawRepo(),
	}
	env.svc = NewDrawService(
		env.tx,
		env.tournaments,
		env.participants,
		env.groups,
		env.matches,
		env.draws,
		nil,
		testLogger(),
	)
	return env
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (e *drawEnv) seedTournament(locked bool, participantCount int) *models.Tournament {
	t := e.tournaments.add(&models.Tournament{
		Name:               "Spring Open",
		OrganizerID:        1,
		Status:             models.StatusActive,
		ParticipantsLocked: locked,
		MaxParticipants:    64,
		StartDate:          time.Now().Add(24 * time.Hour),
		EndDate:            time.Now().Add(48 * time.Hour),
	})
	for i := 0; i < participantCount; i++ {
		e.participants.add(&models.Participant{
			TournamentID: t.ID,
			DisplayName:  "Player " + string(rune('A'+i)),
			Status:       models.ParticipantRegistered,
		})
	}
	return t
}

func intPtr(v int) *int { return &v }

func TestAutoGenerateGroupsDistributesBySeedOrder(t *testing.T) {
	env := newDrawEnv()
	tournament := env.seedTournament(true, 8)

	result, err := env.svc.AutoGenerateGroups(context.Background(), tournament.ID, AutoGenerateGroupsInput{
		NumberOfGroups:        intPtr(2),
		ParticipantsAdvancing: 2,
	})
	require.NoError(t, err)
	require.Len(t, result.Groups, 2)

	assert.Equal(t, models.DrawApplied, result.Draw.Status)
	assert.Equal(t, models.StageGroup, result.Draw.Stage)
	assert.NotEmpty(t, result.Draw.PublicID)

	groupA, groupB := result.Groups[0], result.Groups[1]
	assert.Equal(t, "Group A", groupA.Name)
	assert.Equal(t, "Group B", groupB.Name)
	assert.Equal(t, models.GroupPending, groupA.Status)
	assert.Equal(t, 2, groupA.ParticipantsAdvancing)
	assert.Equal(t, 4, groupA.ParticipantsPerGroup)

	// Seed order wraps over the groups: 1,3,5,7 vs 2,4,6,8.
	idsOf := func(g *models.Group) []int {
		ids := make([]int, 0, len(g.Participants))
		for _, p := range g.Participants {
			ids = append(ids, p.ID)
		}
		return ids
	}
	assert.Equal(t, []int{1, 3, 5, 7}, idsOf(groupA))
	assert.Equal(t, []int{2, 4, 6, 8}, idsOf(groupB))

	for id := 1; id <= 8; id++ {
		p, err := env.participants.FindByID(context.Background(), id)
		require.NoError(t, err)
		require.NotNil(t, p.GroupID)
		require.NotNil(t, p.Seed)
		assert.Equal(t, id, *p.Seed)
	}
}

func TestAutoGenerateGroupsValidation(t *testing.T) {
	tests := []struct {
		name    string
		locked  bool
		players int
		input   AutoGenerateGroupsInput
		wantErr error
	}{
		{
			name:    "participants not locked",
			locked:  false,
			players: 8,
			input:   AutoGenerateGroupsInput{NumberOfGroups: intPtr(2)},
			wantErr: ErrParticipantsNotLocked,
		},
		{
			name:    "both size options set",
			locked:  true,
			players: 8,
			input:   AutoGenerateGroupsInput{NumberOfGroups: intPtr(2), ParticipantsPerGroup: intPtr(4)},
			wantErr: ErrGroupSizeOptionRequired,
		},
		{
			name:    "no size option set",
			locked:  true,
			players: 8,
			input:   AutoGenerateGroupsInput{},
			wantErr: ErrGroupSizeOptionRequired,
		},
		{
			name:    "too many groups",
			locked:  true,
			players: 6,
			input:   AutoGenerateGroupsInput{NumberOfGroups: intPtr(4)},
			wantErr: ErrInvalidGroupCount,
		},
		{
			name:    "advancing exceeds smallest group",
			locked:  true,
			players: 6,
			input:   AutoGenerateGroupsInput{NumberOfGroups: intPtr(3), ParticipantsAdvancing: 3},
			wantErr: ErrInvalidAdvancingCount,
		},
		{
			name:    "not enough participants",
			locked:  true,
			players: 1,
			input:   AutoGenerateGroupsInput{NumberOfGroups: intPtr(1)},
			wantErr: ErrNotEnoughParticipants,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newDrawEnv()
			tournament := env.seedTournament(tt.locked, tt.players)

			_, err := env.svc.AutoGenerateGroups(context.Background(), tournament.ID, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)

			count, _ := env.groups.CountByTournament(context.Background(), tournament.ID)
			assert.Zero(t, count)
		})
	}
}

func TestAutoGenerateGroupsRejectsSecondGeneration(t *testing.T) {
	env := newDrawEnv()
	tournament := env.seedTournament(true, 8)

	_, err := env.svc.AutoGenerateGroups(context.Background(), tournament.ID, AutoGenerateGroupsInput{
		NumberOfGroups: intPtr(2),
	})
	require.NoError(t, err)

	_, err = env.svc.AutoGenerateGroups(context.Background(), tournament.ID, AutoGenerateGroupsInput{
		NumberOfGroups: intPtr(2),
	})
	assert.ErrorIs(t, err, ErrGroupsAlreadyExist)
}

func TestAutoGenerateGroupsPreviewPersistsOnlyDraft(t *testing.T) {
	env := newDrawEnv()
	tournament := env.seedTournament(true, 6)

	result, err := env.svc.AutoGenerateGroups(context.Background(), tournament.ID, AutoGenerateGroupsInput{
		NumberOfGroups: intPtr(2),
		Preview:        true,
	})
	require.NoError(t, err)

	assert.Equal(t, models.DrawDraft, result.Draw.Status)
	assert.Len(t, result.Groups, 2)

	count, _ := env.groups.CountByTournament(context.Background(), tournament.ID)
	assert.Zero(t, count, "preview must not create groups")
	for id := 1; id <= 6; id++ {
		p, _ := env.participants.FindByID(context.Background(), id)
		assert.Nil(t, p.GroupID)
	}
}

func TestApplyDrawReplaysGroupDraft(t *testing.T) {
	env := newDrawEnv()
	tournament := env.seedTournament(true, 6)

	preview, err := env.svc.AutoGenerateGroups(context.Background(), tournament.ID, AutoGenerateGroupsInput{
		NumberOfGroups: intPtr(2),
		Preview:        true,
	})
	require.NoError(t, err)

	draw, err := env.svc.ApplyDraw(context.Background(), preview.Draw.PublicID)
	require.NoError(t, err)
	assert.Equal(t, models.DrawApplied, draw.Status)
	require.NotNil(t, draw.AppliedAt)

	count, _ := env.groups.CountByTournament(context.Background(), tournament.ID)
	assert.Equal(t, 2, count)

	_, err = env.svc.ApplyDraw(context.Background(), preview.Draw.PublicID)
	assert.ErrorIs(t, err, ErrDrawNotDraft)
}

func TestCancelDraw(t *testing.T) {
	env := newDrawEnv()
	tournament := env.seedTournament(true, 6)

	preview, err := env.svc.AutoGenerateGroups(context.Background(), tournament.ID, AutoGenerateGroupsInput{
		NumberOfGroups: intPtr(2),
		Preview:        true,
	})
	require.NoError(t, err)

	canceled, err := env.svc.CancelDraw(context.Background(), preview.Draw.PublicID)
	require.NoError(t, err)
	assert.Equal(t, models.DrawCanceled, canceled.Status)

	_, err = env.svc.ApplyDraw(context.Background(), preview.Draw.PublicID)
	assert.ErrorIs(t, err, ErrDrawNotDraft)

	_, err = env.svc.CancelDraw(context.Background(), "no-such-draw")
	assert.ErrorIs(t, err, ErrDrawNotFound)
}

func TestGenerateGroupMatchesSchedulesRoundRobin(t *testing.T) {
	env := newDrawEnv()
	tournament := env.seedTournament(true, 8)

	_, err := env.svc.AutoGenerateGroups(context.Background(), tournament.ID, AutoGenerateGroupsInput{
		NumberOfGroups: intPtr(2),
	})
	require.NoError(t, err)

	created, err := env.svc.GenerateGroupMatches(context.Background(), tournament.ID, 1, GenerateGroupMatchesInput{})
	require.NoError(t, err)
	assert.Len(t, created, 6, "4 members play C(4,2) fixtures")

	for _, m := range created {
		assert.Equal(t, models.StageGroup, m.Stage)
		require.NotNil(t, m.GroupID)
		assert.Equal(t, 1, *m.GroupID)
		assert.Equal(t, models.MatchStatusScheduled, m.Status)
		require.NotNil(t, m.P1ID)
		require.NotNil(t, m.P2ID)
	}

	group, err := env.groups.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.GroupInProgress, group.Status)

	_, err = env.svc.GenerateGroupMatches(context.Background(), tournament.ID, 1, GenerateGroupMatchesInput{})
	assert.ErrorIs(t, err, ErrGroupAlreadyScheduled)
}

func TestGenerateGroupMatchesTooSmall(t *testing.T) {
	env := newDrawEnv()
	tournament := env.seedTournament(true, 4)
	env.groups.Create(context.Background(), nil, &models.Group{
		TournamentID: tournament.ID, Name: "Group A", Position: 1, ParticipantsAdvancing: 1,
	})
	env.participants.UpdateGroup(context.Background(), nil, 1, intPtr(1))

	_, err := env.svc.GenerateGroupMatches(context.Background(), tournament.ID, 1, GenerateGroupMatchesInput{})
	assert.ErrorIs(t, err, ErrGroupTooSmall)
}

func TestGenerateBracketSixParticipants(t *testing.T) {
	env := newDrawEnv()
	tournament := env.seedTournament(true, 6)

	result, err := env.svc.GenerateBracket(context.Background(), tournament.ID, GenerateBracketInput{
		SourceType: models.BracketSourceCustom,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalRounds)
	require.Len(t, result.Matches, 7)
	assert.Equal(t, models.DrawApplied, result.Draw.Status)

	byUID := make(map[string]*models.Match, len(result.Matches))
	for _, m := range result.Matches {
		require.NotNil(t, m.BracketUID)
		byUID[*m.BracketUID] = m
		assert.Equal(t, models.StageFinal, m.Stage)
	}

	// Seeds 1 and 2 receive byes as walkover fixtures with a known winner.
	for _, uid := range []string{"R1M1", "R1M3"} {
		m := byUID[uid]
		assert.Equal(t, models.MatchStatusWalkover, m.Status, uid)
		require.NotNil(t, m.WinnerID, uid)
	}
	assert.Equal(t, 1, *byUID["R1M1"].WinnerID)
	assert.Equal(t, 2, *byUID["R1M3"].WinnerID)

	// Bye winners carry straight into the semifinals as real sides.
	require.NotNil(t, byUID["R2M1"].P1ID)
	assert.Equal(t, 1, *byUID["R2M1"].P1ID)
	require.NotNil(t, byUID["R2M2"].P1ID)
	assert.Equal(t, 2, *byUID["R2M2"].P1ID)

	// The remaining undetermined sides are virtual placeholders whose sources
	// reference the feeding matches by database id.
	require.Len(t, result.VirtualParticipants, 4)
	semiP2, err := env.participants.FindByID(context.Background(), *byUID["R2M1"].P2ID)
	require.NoError(t, err)
	require.True(t, semiP2.IsVirtual)
	require.NotNil(t, semiP2.AdvancingSource)
	assert.True(t, semiP2.AdvancingSource.RefersToMatch(byUID["R1M2"].ID, models.SlotWinner))

	finalP1, err := env.participants.FindByID(context.Background(), *byUID["R3M1"].P1ID)
	require.NoError(t, err)
	assert.True(t, finalP1.AdvancingSource.RefersToMatch(byUID["R2M1"].ID, models.SlotWinner))

	// Entrant seeds are stamped in draw order.
	for id := 1; id <= 6; id++ {
		p, _ := env.participants.FindByID(context.Background(), id)
		require.NotNil(t, p.Seed)
		assert.Equal(t, id, *p.Seed)
	}
}

func TestGenerateBracketPreconditions(t *testing.T) {
	t.Run("participants not locked", func(t *testing.T) {
		env := newDrawEnv()
		tournament := env.seedTournament(false, 4)
		_, err := env.svc.GenerateBracket(context.Background(), tournament.ID, GenerateBracketInput{})
		assert.ErrorIs(t, err, ErrParticipantsNotLocked)
	})

	t.Run("bracket already exists", func(t *testing.T) {
		env := newDrawEnv()
		tournament := env.seedTournament(true, 4)
		env.matches.add(&models.Match{TournamentID: tournament.ID, Stage: models.StageFinal, Round: 1, MatchNumber: 1})

		_, err := env.svc.GenerateBracket(context.Background(), tournament.ID, GenerateBracketInput{})
		assert.ErrorIs(t, err, ErrBracketAlreadyExists)
	})

	t.Run("unknown source type", func(t *testing.T) {
		env := newDrawEnv()
		tournament := env.seedTournament(true, 4)
		_, err := env.svc.GenerateBracket(context.Background(), tournament.ID, GenerateBracketInput{
			SourceType: "LADDER",
		})
		assert.ErrorIs(t, err, ErrUnknownBracketSource)
	})

	t.Run("tournament not found", func(t *testing.T) {
		env := newDrawEnv()
		_, err := env.svc.GenerateBracket(context.Background(), 42, GenerateBracketInput{})
		assert.ErrorIs(t, err, ErrTournamentNotFound)
	})
}

func TestGenerateBracketFromGroupRanks(t *testing.T) {
	env := newDrawEnv()
	tournament := env.seedTournament(true, 8)

	_, err := env.svc.AutoGenerateGroups(context.Background(), tournament.ID, AutoGenerateGroupsInput{
		NumberOfGroups:        intPtr(2),
		ParticipantsAdvancing: 2,
	})
	require.NoError(t, err)

	result, err := env.svc.GenerateBracket(context.Background(), tournament.ID, GenerateBracketInput{
		SourceType: models.BracketSourceGroupRank,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalRounds)
	require.Len(t, result.Matches, 3)
	// Every slot is a qualifier, so each match side plus the final feeds get
	// placeholders: 4 in round 1, 2 in the final.
	assert.Len(t, result.VirtualParticipants, 6)

	byUID := make(map[string]*models.Match)
	for _, m := range result.Matches {
		byUID[*m.BracketUID] = m
	}

	// Interleaved ranks with standard seeding cross the groups: winners meet
	// the other group's runner-up.
	sourceOf := func(participantID int) *models.AdvancingSource {
		p, err := env.participants.FindByID(context.Background(), participantID)
		require.NoError(t, err)
		require.True(t, p.IsVirtual)
		return p.AdvancingSource
	}
	assert.True(t, sourceOf(*byUID["R1M1"].P1ID).RefersToGroup(1, 1))
	assert.True(t, sourceOf(*byUID["R1M1"].P2ID).RefersToGroup(2, 2))
	assert.True(t, sourceOf(*byUID["R1M2"].P1ID).RefersToGroup(2, 1))
	assert.True(t, sourceOf(*byUID["R1M2"].P2ID).RefersToGroup(1, 2))
}

func TestGenerateBracketGroupRankRequiresGroups(t *testing.T) {
	env := newDrawEnv()
	tournament := env.seedTournament(true, 8)

	_, err := env.svc.GenerateBracket(context.Background(), tournament.ID, GenerateBracketInput{
		SourceType: models.BracketSourceGroupRank,
	})
	assert.ErrorIs(t, err, ErrGroupsNotGenerated)
}

func TestGenerateBracketPreviewThenApply(t *testing.T) {
	env := newDrawEnv()
	tournament := env.seedTournament(true, 4)

	preview, err := env.svc.GenerateBracket(context.Background(), tournament.ID, GenerateBracketInput{
		SourceType: models.BracketSourceCustom,
		Preview:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, models.DrawDraft, preview.Draw.Status)
	assert.Len(t, preview.Plan, 3)
	assert.Empty(t, preview.Matches)

	count, _ := env.matches.CountByTournamentAndStage(context.Background(), tournament.ID, models.StageFinal)
	assert.Zero(t, count, "preview must not create matches")

	draw, err := env.svc.ApplyDraw(context.Background(), preview.Draw.PublicID)
	require.NoError(t, err)
	assert.Equal(t, models.DrawApplied, draw.Status)

	count, _ = env.matches.CountByTournamentAndStage(context.Background(), tournament.ID, models.StageFinal)
	assert.Equal(t, 3, count)
}

func TestGenerateBracketRandomStoresSeedForReplay(t *testing.T) {
	env := newDrawEnv()
	tournament := env.seedTournament(true, 4)

	preview, err := env.svc.GenerateBracket(context.Background(), tournament.ID, GenerateBracketInput{
		SourceType: models.BracketSourceRandom,
		Preview:    true,
	})
	require.NoError(t, err)

	stored, err := env.draws.GetByPublicID(context.Background(), preview.Draw.PublicID)
	require.NoError(t, err)
	assert.True(t, strings.Contains(stored.InputJSON, "random_seed"),
		"the chosen seed must be stored so apply replays the same order")
}
