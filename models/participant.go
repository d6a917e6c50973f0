package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type ParticipantStatus string

const (
	ParticipantRegistered   ParticipantStatus = "registered"
	ParticipantCheckedIn    ParticipantStatus = "checked_in"
	ParticipantWithdrawn    ParticipantStatus = "withdrawn"
	ParticipantDisqualified ParticipantStatus = "disqualified"
)

// IsActive reports whether the participant still takes part in draws.
func (s ParticipantStatus) IsActive() bool {
	return s == ParticipantRegistered || s == ParticipantCheckedIn
}

type SeedingMethod string

const (
	SeedingListOrder SeedingMethod = "LIST_ORDER"
	SeedingRandom    SeedingMethod = "RANDOM"
	SeedingByRating  SeedingMethod = "SEEDED_BY_RATING"
)

// Participant is a tournament entry. A virtual participant is a placeholder
// slot in a bracket whose real occupant is not known yet; its AdvancingSource
// describes how the occupant will be determined. Once resolved, the virtual
// row keeps SubstitutedByID pointing at the real participant so match history
// stays intact.
type Participant struct {
	ID              int               `json:"id" db:"id"`
	TournamentID    int               `json:"tournament_id" db:"tournament_id"`
	UserID          *int              `json:"user_id,omitempty" db:"user_id"`
	TeamID          *int              `json:"team_id,omitempty" db:"team_id"`
	DisplayName     string            `json:"display_name" db:"display_name"`
	Seed            *int              `json:"seed,omitempty" db:"seed"`
	Rating          *int              `json:"rating,omitempty" db:"rating"`
	Status          ParticipantStatus `json:"status" db:"status"`
	GroupID         *int              `json:"group_id,omitempty" db:"group_id"`
	IsVirtual       bool              `json:"is_virtual" db:"is_virtual"`
	AdvancingSource *AdvancingSource  `json:"advancing_source,omitempty" db:"advancing_source"`
	SubstitutedByID *int              `json:"substituted_by_id,omitempty" db:"substituted_by_participant_id"`
	CreatedAt       time.Time         `json:"created_at" db:"created_at"`
}

// Resolved reports whether a virtual participant has already been replaced.
func (p *Participant) Resolved() bool {
	return p.IsVirtual && p.SubstitutedByID != nil
}

type AdvancingSourceKind string

const (
	SourceKindMatch AdvancingSourceKind = "match"
	SourceKindGroup AdvancingSourceKind = "group"
)

type MatchSlot string

const (
	SlotWinner MatchSlot = "winner"
	SlotLoser  MatchSlot = "loser"
)

var (
	ErrSourceKindInvalid  = errors.New("advancing source kind must be 'match' or 'group'")
	ErrSourceMatchInvalid = errors.New("match advancing source requires match_id and a winner/loser position")
	ErrSourceGroupInvalid = errors.New("group advancing source requires group_id and a positive rank")
)

// AdvancingSource is a tagged union validated at construction time. Exactly
// one of the two variants is populated:
//
//	{kind:"match", match_id, position}  — winner or loser of a match
//	{kind:"group", group_id, rank}      — finisher of a group at a given rank
type AdvancingSource struct {
	Kind     AdvancingSourceKind `json:"kind"`
	MatchID  *int                `json:"match_id,omitempty"`
	Position *MatchSlot          `json:"position,omitempty"`
	GroupID  *int                `json:"group_id,omitempty"`
	Rank     *int                `json:"rank,omitempty"`
}

func MatchSource(matchID int, position MatchSlot) *AdvancingSource {
	return &AdvancingSource{Kind: SourceKindMatch, MatchID: &matchID, Position: &position}
}

func GroupSource(groupID, rank int) *AdvancingSource {
	return &AdvancingSource{Kind: SourceKindGroup, GroupID: &groupID, Rank: &rank}
}

func (s *AdvancingSource) Validate() error {
	switch s.Kind {
	case SourceKindMatch:
		if s.MatchID == nil || s.Position == nil || (*s.Position != SlotWinner && *s.Position != SlotLoser) {
			return ErrSourceMatchInvalid
		}
		if s.GroupID != nil || s.Rank != nil {
			return ErrSourceMatchInvalid
		}
	case SourceKindGroup:
		if s.GroupID == nil || s.Rank == nil || *s.Rank < 1 {
			return ErrSourceGroupInvalid
		}
		if s.MatchID != nil || s.Position != nil {
			return ErrSourceGroupInvalid
		}
	default:
		return ErrSourceKindInvalid
	}
	return nil
}

func (s *AdvancingSource) RefersToMatch(matchID int, position MatchSlot) bool {
	return s != nil && s.Kind == SourceKindMatch &&
		s.MatchID != nil && *s.MatchID == matchID &&
		s.Position != nil && *s.Position == position
}

func (s *AdvancingSource) RefersToGroup(groupID, rank int) bool {
	return s != nil && s.Kind == SourceKindGroup &&
		s.GroupID != nil && *s.GroupID == groupID &&
		s.Rank != nil && *s.Rank == rank
}

func (s *AdvancingSource) Describe() string {
	if s == nil {
		return ""
	}
	if s.Kind == SourceKindMatch && s.MatchID != nil && s.Position != nil {
		return fmt.Sprintf("%s of match %d", *s.Position, *s.MatchID)
	}
	if s.Kind == SourceKindGroup && s.GroupID != nil && s.Rank != nil {
		return fmt.Sprintf("rank %d of group %d", *s.Rank, *s.GroupID)
	}
	return "unknown source"
}

// Value / Scan store the source as a jsonb column.

func (s AdvancingSource) Value() (driver.Value, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(s)
}

func (s *AdvancingSource) Scan(src interface{}) error {
	if src == nil {
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan advancing source from %T", src)
	}
	if err := json.Unmarshal(raw, s); err != nil {
		return fmt.Errorf("failed to unmarshal advancing source: %w", err)
	}
	return s.Validate()
}
