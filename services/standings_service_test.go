package services

import (
	"context"
	"testing"

	"github.com/Dosada05/club-manager/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStandingsComputesFromMatches(t *testing.T) {
	env := newAdvancementEnv()
	tournament := env.seedTournament()

	env.groups.Create(context.Background(), nil, &models.Group{
		TournamentID: tournament.ID, Name: "Group A", Position: 1,
		ParticipantsPerGroup: 3, ParticipantsAdvancing: 1, Status: models.GroupInProgress,
	})
	groupID := 1

	var ids []int
	for _, name := range []string{"Alice", "Bob", "Carol"} {
		p := env.addReal(tournament.ID, name)
		env.participants.UpdateGroup(context.Background(), nil, p.ID, &groupID)
		ids = append(ids, p.ID)
	}

	// Alice beats Bob and Carol; Bob beats Carol.
	addResult := func(p1, p2, winner int) {
		env.matches.add(&models.Match{
			TournamentID: tournament.ID, Stage: models.StageGroup, GroupID: &groupID,
			Round: 1, MatchNumber: 1, P1ID: &p1, P2ID: &p2,
			Status: models.MatchStatusCompleted, WinnerID: &winner,
		})
	}
	addResult(ids[0], ids[1], ids[0])
	addResult(ids[0], ids[2], ids[0])
	addResult(ids[1], ids[2], ids[1])

	standings, err := env.standings.GetStandings(context.Background(), tournament.ID, groupID)
	require.NoError(t, err)
	require.Len(t, standings.Entries, 3)
	assert.Equal(t, groupID, standings.GroupID)
	assert.False(t, standings.ComputedAt.IsZero())

	assert.Equal(t, ids[0], standings.Entries[0].ParticipantID)
	assert.Equal(t, 6, standings.Entries[0].MatchPoints)
	assert.True(t, standings.Entries[0].IsAdvancing)
	assert.Equal(t, ids[1], standings.Entries[1].ParticipantID)
	assert.False(t, standings.Entries[1].IsAdvancing)
	assert.Equal(t, ids[2], standings.Entries[2].ParticipantID)
}

func TestGetStandingsUnknownGroup(t *testing.T) {
	env := newAdvancementEnv()
	tournament := env.seedTournament()

	_, err := env.standings.GetStandings(context.Background(), tournament.ID, 99)
	assert.ErrorIs(t, err, ErrGroupNotFound)

	// A group of another tournament is invisible too.
	other := env.tournaments.add(&models.Tournament{Name: "Other", Status: models.StatusActive})
	env.groups.Create(context.Background(), nil, &models.Group{
		TournamentID: other.ID, Name: "Group A", Position: 1, ParticipantsAdvancing: 1,
	})
	_, err = env.standings.GetStandings(context.Background(), tournament.ID, 1)
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestGetStandingsUsesConfiguredStageRule(t *testing.T) {
	env := newAdvancementEnv()
	tournament := env.seedTournament()

	// Two points per win instead of the default three.
	settingsJSON := `{"win_points":2,"draw_points":1,"loss_points":0,"bye_points":2,` +
		`"count_walkover_as_played":true,"wins_vs_tied_mode":"MINI_TABLE",` +
		`"tie_break_order":["GAME_SET_DIFFERENCE"]}`
	env.stageRules.Upsert(context.Background(), &models.StageRule{
		TournamentID: tournament.ID, Stage: models.StageGroup,
		Name: "two-point wins", SettingsJSON: &settingsJSON,
	})

	env.groups.Create(context.Background(), nil, &models.Group{
		TournamentID: tournament.ID, Name: "Group A", Position: 1,
		ParticipantsPerGroup: 2, ParticipantsAdvancing: 1,
	})
	groupID := 1
	alice := env.addReal(tournament.ID, "Alice")
	bob := env.addReal(tournament.ID, "Bob")
	env.participants.UpdateGroup(context.Background(), nil, alice.ID, &groupID)
	env.participants.UpdateGroup(context.Background(), nil, bob.ID, &groupID)

	env.matches.add(&models.Match{
		TournamentID: tournament.ID, Stage: models.StageGroup, GroupID: &groupID,
		Round: 1, MatchNumber: 1, P1ID: &alice.ID, P2ID: &bob.ID,
		Status: models.MatchStatusCompleted, WinnerID: &alice.ID,
	})

	standings, err := env.standings.GetStandings(context.Background(), tournament.ID, groupID)
	require.NoError(t, err)
	assert.Equal(t, 2, standings.Entries[0].MatchPoints)
}
