package models

import "time"

type GroupStatus string

const (
	GroupPending    GroupStatus = "pending"
	GroupInProgress GroupStatus = "in_progress"
	GroupCompleted  GroupStatus = "completed"
)

// Group is one pool of a round-robin stage. Member count never exceeds
// ParticipantsPerGroup and ParticipantsAdvancing never exceeds member count;
// both are enforced by the draw service at generation time.
type Group struct {
	ID                    int         `json:"id" db:"id"`
	TournamentID          int         `json:"tournament_id" db:"tournament_id"`
	Name                  string      `json:"name" db:"name"`
	Position              int         `json:"position" db:"position"`
	ParticipantsPerGroup  int         `json:"participants_per_group" db:"participants_per_group"`
	ParticipantsAdvancing int         `json:"participants_advancing" db:"participants_advancing"`
	Status                GroupStatus `json:"status" db:"status"`
	CreatedAt             time.Time   `json:"created_at" db:"created_at"`

	// Populated by services, not mapped directly.
	Participants []Participant `json:"participants,omitempty" db:"-"`
}
