package models

import "time"

type MatchStage string

const (
	StageGroup MatchStage = "group"
	StageFinal MatchStage = "final"
)

type MatchStatus string

const (
	MatchStatusDraft      MatchStatus = "draft"
	MatchStatusScheduled  MatchStatus = "scheduled"
	MatchStatusInProgress MatchStatus = "in_progress"
	MatchStatusCompleted  MatchStatus = "completed"
	MatchStatusWalkover   MatchStatus = "walkover"
	MatchStatusCanceled   MatchStatus = "canceled"
)

// Terminal reports whether the match can no longer change its outcome.
func (s MatchStatus) Terminal() bool {
	return s == MatchStatusCompleted || s == MatchStatusWalkover || s == MatchStatusCanceled
}

// Match is a fixture of either the group stage or the final bracket. Sides
// reference participants which may be virtual placeholders; the advancement
// resolver rewrites the side foreign keys in place, matches are never
// re-created. BracketUID is the generator-assigned position key ("R2M1"),
// unique per tournament and stage.
type Match struct {
	ID           int         `json:"id" db:"id"`
	TournamentID int         `json:"tournament_id" db:"tournament_id"`
	Stage        MatchStage  `json:"stage" db:"stage"`
	GroupID      *int        `json:"group_id,omitempty" db:"group_id"`
	Round        int         `json:"round" db:"round"`
	MatchNumber  int         `json:"match_number" db:"match_number"`
	BracketUID   *string     `json:"bracket_uid,omitempty" db:"bracket_uid"`
	ThirdPlace   bool        `json:"third_place" db:"third_place"`
	P1ID         *int        `json:"p1_participant_id,omitempty" db:"p1_participant_id"`
	P2ID         *int        `json:"p2_participant_id,omitempty" db:"p2_participant_id"`
	P1Games      int         `json:"p1_games" db:"p1_games"`
	P2Games      int         `json:"p2_games" db:"p2_games"`
	P1Points     int         `json:"p1_points" db:"p1_points"`
	P2Points     int         `json:"p2_points" db:"p2_points"`
	Status       MatchStatus `json:"status" db:"status"`
	WinnerID     *int        `json:"winner_participant_id,omitempty" db:"winner_participant_id"`
	MatchTime    time.Time   `json:"match_time" db:"match_time"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
}

// References reports whether either side of the match points at the
// given participant.
func (m *Match) References(participantID int) bool {
	return (m.P1ID != nil && *m.P1ID == participantID) ||
		(m.P2ID != nil && *m.P2ID == participantID)
}

// LoserID returns the non-winning side of a decided match, nil for draws,
// walkovers and undecided matches.
func (m *Match) LoserID() *int {
	if m.WinnerID == nil || m.P1ID == nil || m.P2ID == nil {
		return nil
	}
	if *m.WinnerID == *m.P1ID {
		return m.P2ID
	}
	return m.P1ID
}
