package models

import "time"

// TournamentStatus mirrors the ENUM in the database.
type TournamentStatus string

const (
	StatusSoon         TournamentStatus = "soon"
	StatusRegistration TournamentStatus = "registration"
	StatusActive       TournamentStatus = "active"
	StatusCompleted    TournamentStatus = "completed"
	StatusCanceled     TournamentStatus = "canceled"
)

type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleOrganizer UserRole = "organizer"
	RolePlayer    UserRole = "player"
)

// Tournament is the aggregate root. ParticipantsLocked is the coarse-grained
// lock checked by every generation operation: once set, the participant list
// must not change and draws may be generated.
type Tournament struct {
	ID                 int              `json:"id" db:"id"`
	Name               string           `json:"name" db:"name"`
	Description        *string          `json:"description,omitempty" db:"description"`
	OrganizerID        int              `json:"organizer_id" db:"organizer_id"`
	Status             TournamentStatus `json:"status" db:"status"`
	ParticipantsLocked bool             `json:"participants_locked" db:"participants_locked"`
	MaxParticipants    int              `json:"max_participants" db:"max_participants"`
	RegDate            time.Time        `json:"reg_date" db:"reg_date"`
	StartDate          time.Time        `json:"start_date" db:"start_date"`
	EndDate            time.Time        `json:"end_date" db:"end_date"`
	LogoKey            *string          `json:"-" db:"logo_key"`
	LogoURL            *string          `json:"logo_url,omitempty" db:"-"`
	CreatedAt          time.Time        `json:"created_at" db:"created_at"`

	// Optional linked entities, populated by services.
	Participants []Participant `json:"participants,omitempty" db:"-"`
	Groups       []Group       `json:"groups,omitempty" db:"-"`
	Matches      []Match       `json:"matches,omitempty" db:"-"`
}
