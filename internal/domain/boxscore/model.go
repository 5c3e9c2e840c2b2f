package boxscore

import (
	"fmt"
	"time"
)

// StatType is a canonical per-game stat category. Binary categories carry a
// 0/1 value per game instead of a magnitude.
type StatType string

const (
	StatPoints       StatType = "points"
	StatRebounds     StatType = "rebounds"
	StatAssists      StatType = "assists"
	StatThrees       StatType = "threes"
	StatBlocks       StatType = "blocks"
	StatSteals       StatType = "steals"
	StatTurnovers    StatType = "turnovers"
	StatDoubleDouble StatType = "double_double"
	StatTripleDouble StatType = "triple_double"
)

var AllStatTypes = []StatType{
	StatPoints,
	StatRebounds,
	StatAssists,
	StatThrees,
	StatBlocks,
	StatSteals,
	StatTurnovers,
	StatDoubleDouble,
	StatTripleDouble,
}

// IsBinary reports whether the category is a boolean outcome rather than a
// counted magnitude.
func (s StatType) IsBinary() bool {
	return s == StatDoubleDouble || s == StatTripleDouble
}

func (s StatType) Valid() bool {
	for _, known := range AllStatTypes {
		if s == known {
			return true
		}
	}
	return false
}

// PlayerGameStat is one observed stat line, unique per
// (player_id, game_id, stat_type).
type PlayerGameStat struct {
	PlayerID      string
	GameID        string
	TeamID        string
	StatType      StatType
	Value         float64
	MinutesPlayed float64
	GameDate      time.Time
}

func (s PlayerGameStat) Validate() error {
	if s.PlayerID == "" {
		return fmt.Errorf("stat player id is required")
	}
	if s.GameID == "" {
		return fmt.Errorf("stat game id is required")
	}
	if s.TeamID == "" {
		return fmt.Errorf("stat team id is required")
	}
	if !s.StatType.Valid() {
		return fmt.Errorf("invalid stat type: %s", s.StatType)
	}
	if s.MinutesPlayed < 0 {
		return fmt.Errorf("minutes played cannot be negative")
	}

	return nil
}

// Played reports whether the stat line counts as an appearance. The canonical
// definition across every stage is minutes_played > 0.
func (s PlayerGameStat) Played() bool {
	return s.MinutesPlayed > 0
}
