package models

import (
	"encoding/json"
	"fmt"
)

type TieBreakRule string

const (
	TieBreakWinsVsTied      TieBreakRule = "WINS_VS_TIED"
	TieBreakGameDifference  TieBreakRule = "GAME_SET_DIFFERENCE"
	TieBreakPointDifference TieBreakRule = "POINTS_DIFFERENCE"
	TieBreakGamesWon        TieBreakRule = "GAMES_WON"
	TieBreakPointsScored    TieBreakRule = "POINTS_SCORED"
)

type HeadToHeadMode string

const (
	// HeadToHeadMiniTable re-computes a sub-standings table restricted to the
	// tied participants before falling through to the next rule.
	HeadToHeadMiniTable HeadToHeadMode = "MINI_TABLE"
	// HeadToHeadDirect compares raw win counts in matches between the tied
	// participants only.
	HeadToHeadDirect HeadToHeadMode = "DIRECT"
)

// StageRuleSettings is the configurable scoring and tie-break preset for a
// stage. TieBreakOrder is applied in sequence; an exhausted chain falls back
// to seed order.
type StageRuleSettings struct {
	WinPoints             int            `json:"win_points"`
	DrawPoints            int            `json:"draw_points"`
	LossPoints            int            `json:"loss_points"`
	ByePoints             int            `json:"bye_points"`
	CountWalkoverAsPlayed bool           `json:"count_walkover_as_played"`
	WinsVsTiedMode        HeadToHeadMode `json:"wins_vs_tied_mode"`
	TieBreakOrder         []TieBreakRule `json:"tie_break_order"`
}

func DefaultStageRuleSettings() StageRuleSettings {
	return StageRuleSettings{
		WinPoints:             3,
		DrawPoints:            1,
		LossPoints:            0,
		ByePoints:             3,
		CountWalkoverAsPlayed: true,
		WinsVsTiedMode:        HeadToHeadMiniTable,
		TieBreakOrder: []TieBreakRule{
			TieBreakWinsVsTied,
			TieBreakGameDifference,
			TieBreakPointDifference,
		},
	}
}

// StageRule binds a settings preset to one stage of a tournament. Settings
// are stored as a raw JSON column and parsed on demand.
type StageRule struct {
	ID           int        `json:"id" db:"id"`
	TournamentID int        `json:"tournament_id" db:"tournament_id"`
	Stage        MatchStage `json:"stage" db:"stage"`
	Name         string     `json:"name" db:"name"`
	SettingsJSON *string    `json:"-" db:"settings_json"`

	// Parsed settings, populated by ParseSettings, not stored.
	Settings *StageRuleSettings `json:"settings,omitempty" db:"-"`
}

// ParseSettings unmarshals SettingsJSON, falling back to the default preset
// when the column is empty. Unknown tie-break rule names are rejected.
func (r *StageRule) ParseSettings() (*StageRuleSettings, error) {
	if r.SettingsJSON == nil || *r.SettingsJSON == "" {
		settings := DefaultStageRuleSettings()
		r.Settings = &settings
		return r.Settings, nil
	}
	var settings StageRuleSettings
	if err := json.Unmarshal([]byte(*r.SettingsJSON), &settings); err != nil {
		return nil, fmt.Errorf("failed to parse stage rule %d settings: %w", r.ID, err)
	}
	for _, rule := range settings.TieBreakOrder {
		switch rule {
		case TieBreakWinsVsTied, TieBreakGameDifference, TieBreakPointDifference,
			TieBreakGamesWon, TieBreakPointsScored:
		default:
			return nil, fmt.Errorf("stage rule %d references unknown tie-break rule %q", r.ID, rule)
		}
	}
	if settings.WinsVsTiedMode == "" {
		settings.WinsVsTiedMode = HeadToHeadMiniTable
	}
	r.Settings = &settings
	return r.Settings, nil
}
