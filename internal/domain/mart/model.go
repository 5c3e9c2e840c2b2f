package mart

import (
	"time"

	"github.com/courtsight/featuremart/internal/domain/boxscore"
	"github.com/courtsight/featuremart/internal/domain/injury"
)

// LeaderboardEntry ranks one player inside a (team, stat_type) group from
// trailing averages. Ranks form a gap-free 1..N permutation per group.
// TeamStdDev is nil when the group has fewer than two ranked players.
type LeaderboardEntry struct {
	TeamID      string
	StatType    boxscore.StatType
	PlayerID    string
	Rank        int
	AvgValue    float64
	GamesPlayed int
	TeamAvg     float64
	TeamStdDev  *float64
}

// SubstitutionInsight describes the best-available backup for an unavailable
// leader. The averages are nil (not zero) when no qualifying games exist.
type SubstitutionInsight struct {
	TeamID          string
	StatType        boxscore.StatType
	LeaderID        string
	LeaderStatus    injury.Status
	BackupID        string
	BackupRank      int
	AvgWhenLeaderOut *float64
	GamesAnalyzed   int
	AvgNormal       *float64
	TotalGames      int
}

// PlayerRating is the bounded star rating derived from a leaderboard entry.
type PlayerRating struct {
	PlayerID    string
	TeamID      string
	StatType    boxscore.StatType
	ZScore      float64
	RatingStars int
}

// Window identifies a rolling-window grouping: a fixed trailing size
// ("last_5", "last_10", "last_30") or an externally supplied non-overlapping
// bucket label.
type Window string

const (
	WindowLast5  Window = "last_5"
	WindowLast10 Window = "last_10"
	WindowLast30 Window = "last_30"
)

// RollingWindowSummary is the hit rate of a player's classified games inside
// one window. PctOver is nil when no classified games fall in the window.
type RollingWindowSummary struct {
	PlayerID   string
	StatType   boxscore.StatType
	Window     Window
	OverCount  int
	TotalCount int
	PctOver    *int
}

// PlayerFeatureRow is the wide consumer-facing mart row keyed by
// (player_id, stat_type). Every upstream feature degrades to nil when its
// branch produced nothing for the player; the row itself is never dropped.
type PlayerFeatureRow struct {
	PlayerID   string
	PlayerName string
	TeamID     string
	StatType   boxscore.StatType

	Rank        *int
	AvgValue    *float64
	TeamAvg     *float64
	TeamStdDev  *float64
	ZScore      *float64
	RatingStars *int

	InjuryStatus *injury.Status

	BackupID         *string
	AvgWhenLeaderOut *float64
	GamesAnalyzed    *int
	AvgNormal        *float64
	TotalGames       *int

	Line         *float64
	LineBookmaker *string

	PctOverLast5  *int
	PctOverLast10 *int
	PctOverLast30 *int

	NextGameID     *string
	NextOpponentID *string
	IsBackToBack   *bool

	ComputedAt time.Time
}
