package models

import "time"

// BracketSourceType selects where bracket entrants come from.
type BracketSourceType string

const (
	// BracketSourceCustom takes the registered participants in their current
	// seed order (or re-seeds them by rating).
	BracketSourceCustom BracketSourceType = "CUSTOM"
	// BracketSourceRandom shuffles the registered participants.
	BracketSourceRandom BracketSourceType = "RANDOM"
	// BracketSourceGroupRank fills the bracket with qualifier placeholders
	// taken from group final ranks.
	BracketSourceGroupRank BracketSourceType = "GROUP_RANK"
)

type DrawStatus string

const (
	DrawDraft    DrawStatus = "draft"
	DrawApplied  DrawStatus = "applied"
	DrawCanceled DrawStatus = "canceled"
)

// Draw is the audit record of one generation event. A draft draw captures the
// generation input and the computed result without touching groups or
// matches, so an organizer can preview a bracket before committing it.
// Applying a draft replays the stored input inside a single transaction.
type Draw struct {
	ID           int        `json:"id" db:"id"`
	PublicID     string     `json:"public_id" db:"public_id"`
	TournamentID int        `json:"tournament_id" db:"tournament_id"`
	Stage        MatchStage `json:"stage" db:"stage"`
	Status       DrawStatus `json:"status" db:"status"`
	InputJSON    string     `json:"-" db:"input_json"`
	ResultJSON   *string    `json:"-" db:"result_json"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	AppliedAt    *time.Time `json:"applied_at,omitempty" db:"applied_at"`
}
