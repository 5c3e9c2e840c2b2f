package mart

import (
	"context"

	"github.com/courtsight/featuremart/internal/domain/boxscore"
)

// LeaderboardRepository persists derived leaderboard entries
// (full-rebuild materialization).
type LeaderboardRepository interface {
	Replace(ctx context.Context, items []LeaderboardEntry) error
	List(ctx context.Context) ([]LeaderboardEntry, error)
	ListByTeam(ctx context.Context, teamID string, statType boxscore.StatType) ([]LeaderboardEntry, error)
}

// InsightRepository persists derived substitution insights.
type InsightRepository interface {
	Replace(ctx context.Context, items []SubstitutionInsight) error
	List(ctx context.Context) ([]SubstitutionInsight, error)
	ListByTeam(ctx context.Context, teamID string) ([]SubstitutionInsight, error)
}

// RatingRepository persists derived player ratings.
type RatingRepository interface {
	Replace(ctx context.Context, items []PlayerRating) error
	List(ctx context.Context) ([]PlayerRating, error)
}

// RollingWindowRepository persists derived rolling-window summaries.
type RollingWindowRepository interface {
	Replace(ctx context.Context, items []RollingWindowSummary) error
	List(ctx context.Context) ([]RollingWindowSummary, error)
}

// FeatureRowRepository persists the assembled wide rows and serves the
// read-only downstream contract.
type FeatureRowRepository interface {
	Replace(ctx context.Context, items []PlayerFeatureRow) error
	ListByPlayer(ctx context.Context, playerID string) ([]PlayerFeatureRow, error)
	ListByTeam(ctx context.Context, teamID string) ([]PlayerFeatureRow, error)
	ListByStatType(ctx context.Context, statType boxscore.StatType) ([]PlayerFeatureRow, error)
}
