package brackets

import (
	"fmt"
	"testing"

	"github.com/Dosada05/club-manager/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func participantSlots(n int) []Slot {
	slots := make([]Slot, n)
	for i := range slots {
		slots[i] = ParticipantSlot(i + 1)
	}
	return slots
}

func matchesByRound(plan *BracketPlan, round int) []*PlannedMatch {
	var out []*PlannedMatch
	for _, m := range plan.Matches {
		if m.Round == round && !m.ThirdPlace {
			out = append(out, m)
		}
	}
	return out
}

func TestSeedPlacement(t *testing.T) {
	testCases := []struct {
		size int
		want []int
	}{
		{size: 2, want: []int{1, 2}},
		{size: 4, want: []int{1, 4, 2, 3}},
		{size: 8, want: []int{1, 8, 4, 5, 2, 7, 3, 6}},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("size %d", tc.size), func(t *testing.T) {
			assert.Equal(t, tc.want, seedPlacement(tc.size))
		})
	}
}

func TestGenerateSingleEliminationBracketSize(t *testing.T) {
	testCases := []struct {
		participants int
		wantRounds   int
		wantRound1   int
	}{
		{participants: 2, wantRounds: 1, wantRound1: 1},
		{participants: 3, wantRounds: 2, wantRound1: 2},
		{participants: 4, wantRounds: 2, wantRound1: 2},
		{participants: 6, wantRounds: 3, wantRound1: 4},
		{participants: 9, wantRounds: 4, wantRound1: 8},
		{participants: 16, wantRounds: 4, wantRound1: 8},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%d participants", tc.participants), func(t *testing.T) {
			plan, err := GenerateSingleElimination(participantSlots(tc.participants), BracketOptions{})
			require.NoError(t, err)
			assert.Equal(t, tc.wantRounds, plan.TotalRounds)
			assert.Len(t, matchesByRound(plan, 1), tc.wantRound1, "round 1 must hold bracketSize/2 matches")
		})
	}
}

// Six entrants land in a bracket of eight: two byes resolve immediately as
// walkovers, the two other round-1 fixtures are real, and the semifinals mix
// propagated bye winners with winner-of-match references.
func TestGenerateSingleEliminationSixParticipants(t *testing.T) {
	plan, err := GenerateSingleElimination(participantSlots(6), BracketOptions{})
	require.NoError(t, err)

	round1 := matchesByRound(plan, 1)
	require.Len(t, round1, 4)

	walkovers := 0
	played := 0
	for _, m := range round1 {
		if m.Walkover {
			walkovers++
			require.NotNil(t, m.Winner, "bye against a real participant resolves immediately")
			assert.True(t, m.P2.Empty())
		} else {
			played++
			require.NotNil(t, m.P1.ParticipantID)
			require.NotNil(t, m.P2.ParticipantID)
			assert.NotEqual(t, *m.P1.ParticipantID, *m.P2.ParticipantID)
		}
	}
	assert.Equal(t, 2, walkovers)
	assert.Equal(t, 2, played)

	// Standard placement for size 8 gives byes to seeds 1 and 2.
	assert.True(t, round1[0].Walkover)
	assert.Equal(t, 1, *round1[0].Winner)
	assert.True(t, round1[2].Walkover)
	assert.Equal(t, 2, *round1[2].Winner)

	semis := matchesByRound(plan, 2)
	require.Len(t, semis, 2)
	for _, m := range semis {
		// One side is a propagated bye winner, the other references the
		// winner of a round-1 match.
		require.NotNil(t, m.P1.ParticipantID)
		require.NotNil(t, m.P2.SourceMatchUID)
		assert.Equal(t, models.SlotWinner, m.P2.SourcePosition)
	}
	assert.Equal(t, 1, *semis[0].P1.ParticipantID)
	assert.Equal(t, "R1M2", *semis[0].P2.SourceMatchUID)
	assert.Equal(t, 2, *semis[1].P1.ParticipantID)
	assert.Equal(t, "R1M4", *semis[1].P2.SourceMatchUID)

	final := matchesByRound(plan, 3)
	require.Len(t, final, 1)
	assert.Equal(t, "R2M1", *final[0].P1.SourceMatchUID)
	assert.Equal(t, "R2M2", *final[0].P2.SourceMatchUID)
}

func TestGenerateSingleEliminationThirdPlaceMatch(t *testing.T) {
	plan, err := GenerateSingleElimination(participantSlots(8), BracketOptions{IncludeThirdPlaceMatch: true})
	require.NoError(t, err)
	assert.Equal(t, 8, plan.TotalMatches) // 7 bracket matches + third place

	var third *PlannedMatch
	for _, m := range plan.Matches {
		if m.ThirdPlace {
			third = m
		}
	}
	require.NotNil(t, third)
	assert.Equal(t, plan.TotalRounds, third.Round)
	assert.Equal(t, "R2M1", *third.P1.SourceMatchUID)
	assert.Equal(t, "R2M2", *third.P2.SourceMatchUID)
	assert.Equal(t, models.SlotLoser, third.P1.SourcePosition)
	assert.Equal(t, models.SlotLoser, third.P2.SourcePosition)
}

func TestGenerateSingleEliminationReverseOrder(t *testing.T) {
	standard, err := GenerateSingleElimination(participantSlots(4), BracketOptions{Order: OrderStandard})
	require.NoError(t, err)
	reversed, err := GenerateSingleElimination(participantSlots(4), BracketOptions{Order: OrderReverse})
	require.NoError(t, err)

	assert.Equal(t, 1, *standard.Matches[0].P1.ParticipantID)
	assert.Equal(t, 4, *standard.Matches[0].P2.ParticipantID)
	assert.Equal(t, 2, *reversed.Matches[0].P1.ParticipantID)
	assert.Equal(t, 3, *reversed.Matches[0].P2.ParticipantID)
}

// A bracket fed by group qualifiers carries the group sources through
// planning; a bye against a qualifier cannot name a winner yet.
func TestGenerateSingleEliminationGroupQualifiers(t *testing.T) {
	slots := []Slot{
		QualifierSlot(models.GroupSource(10, 1)),
		QualifierSlot(models.GroupSource(11, 1)),
		QualifierSlot(models.GroupSource(10, 2)),
		QualifierSlot(models.GroupSource(11, 2)),
		QualifierSlot(models.GroupSource(12, 1)),
	}

	plan, err := GenerateSingleElimination(slots, BracketOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, plan.TotalRounds)

	round1 := matchesByRound(plan, 1)
	require.Len(t, round1, 4)
	for _, m := range round1 {
		if m.Walkover {
			assert.Nil(t, m.Winner, "qualifier occupant is unknown, walkover has no winner yet")
			require.NotNil(t, m.P1.Source)
		} else if m.P1.Source != nil && m.P2.Source != nil {
			assert.NoError(t, m.P1.Source.Validate())
			assert.NoError(t, m.P2.Source.Validate())
		}
	}
}

func TestGenerateSingleEliminationErrors(t *testing.T) {
	_, err := GenerateSingleElimination(participantSlots(1), BracketOptions{})
	assert.ErrorIs(t, err, ErrNotEnoughParticipants)

	_, err = GenerateSingleElimination([]Slot{{}, ParticipantSlot(1)}, BracketOptions{})
	assert.ErrorIs(t, err, ErrInvalidSlot)
}
