package models

import "time"

// StandingEntry is one row of a computed group table. It is never persisted;
// standings are recomputed from completed matches on demand.
type StandingEntry struct {
	ParticipantID    int          `json:"participant_id"`
	Played           int          `json:"played"`
	Wins             int          `json:"wins"`
	Draws            int          `json:"draws"`
	Losses           int          `json:"losses"`
	Byes             int          `json:"byes"`
	MatchPoints      int          `json:"match_points"`
	GamesWon         int          `json:"games_won"`
	GamesLost        int          `json:"games_lost"`
	GameDifference   int          `json:"game_difference"`
	PointsFor        int          `json:"points_for"`
	PointsAgainst    int          `json:"points_against"`
	PointsDifference int          `json:"points_difference"`
	Rank             int          `json:"rank"`
	IsAdvancing      bool         `json:"is_advancing"`
	TieBreak         TieBreakRule `json:"tie_break,omitempty"`
}

type GroupStandings struct {
	GroupID    int              `json:"group_id"`
	Entries    []*StandingEntry `json:"entries"`
	ComputedAt time.Time        `json:"computed_at"`
}
