package odds

import (
	"context"
	"time"

	"github.com/courtsight/featuremart/internal/domain/boxscore"
)

// SnapshotRepository reads the odds snapshot stream delivered by
// normalization.
type SnapshotRepository interface {
	List(ctx context.Context) ([]Snapshot, error)
}

// CurrentLineRepository persists the derived freshest line per
// (player, market) (full-rebuild materialization).
type CurrentLineRepository interface {
	Replace(ctx context.Context, items []CurrentLine) error
	List(ctx context.Context) ([]CurrentLine, error)
}

// ClassificationRepository persists per-game line classifications. The set is
// high-volume and fact-like: incremental runs upsert by natural key
// (player_id, game_id, stat_type) above a game-date watermark.
type ClassificationRepository interface {
	Upsert(ctx context.Context, items []Classification) error
	Replace(ctx context.Context, items []Classification) error
	List(ctx context.Context) ([]Classification, error)
	ListByPlayer(ctx context.Context, playerID string, statType boxscore.StatType) ([]Classification, error)
	Watermark(ctx context.Context) (time.Time, bool, error)
}
