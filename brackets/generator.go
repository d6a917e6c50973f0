package brackets

import (
	"errors"

	"github.com/Dosada05/club-manager/models"
)

var (
	ErrNotEnoughParticipants  = errors.New("not enough participants (minimum 2 required)")
	ErrRatingRequired         = errors.New("rating-based seeding requires a rating on every participant")
	ErrRandomSourceRequired   = errors.New("random seeding requires an explicit random source")
	ErrUnknownSeedingMethod   = errors.New("unknown seeding method")
	ErrInvalidMatchupsPerPair = errors.New("matchups per pair must be at least 1")
	ErrInvalidSlot            = errors.New("slot must carry either a participant or an advancing source")
)

// Slot is one entry fed into a bracket. Either ParticipantID is set (a real,
// already-known entrant) or the slot is a qualifier to be determined later:
// Source for group-sourced qualifiers known at plan time, SourceMatchUID for
// slots fed by an earlier match of the same plan (DB match ids do not exist
// yet while planning, so matches are referenced by UID).
type Slot struct {
	ParticipantID  *int
	Source         *models.AdvancingSource
	SourceMatchUID *string
	SourcePosition models.MatchSlot
}

func (s Slot) Empty() bool {
	return s.ParticipantID == nil && s.Source == nil && s.SourceMatchUID == nil
}

func (s Slot) valid() bool {
	set := 0
	if s.ParticipantID != nil {
		set++
	}
	if s.Source != nil {
		set++
	}
	if s.SourceMatchUID != nil {
		set++
	}
	return set == 1
}

func ParticipantSlot(participantID int) Slot {
	return Slot{ParticipantID: &participantID}
}

func QualifierSlot(source *models.AdvancingSource) Slot {
	return Slot{Source: source}
}

func matchSlot(uid string, position models.MatchSlot) Slot {
	return Slot{SourceMatchUID: &uid, SourcePosition: position}
}

// PlannedMatch is one fixture of a generated plan, not yet persisted. UIDs
// are unique within the plan and are the linkage keys between rounds.
type PlannedMatch struct {
	UID          string
	Round        int
	OrderInRound int
	ThirdPlace   bool

	P1 Slot
	P2 Slot

	// Walkover marks a bye fixture: P2 is empty, the sole occupant advances
	// without playing. Winner is set when the occupant is a real participant.
	Walkover bool
	Winner   *int
}

type BracketPlan struct {
	TotalRounds  int
	TotalMatches int
	Matches      []*PlannedMatch
}
