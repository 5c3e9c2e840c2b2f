package cache

import (
	"context"

	"github.com/courtsight/featuremart/internal/domain/boxscore"
	"github.com/courtsight/featuremart/internal/domain/mart"
	basecache "github.com/courtsight/featuremart/internal/platform/cache"
)

// FeatureRowRepository caches mart reads in front of the persistent store.
// Replace invalidates everything; feature rows only change when a pipeline
// run lands.
type FeatureRowRepository struct {
	next  mart.FeatureRowRepository
	cache *basecache.Store
}

func NewFeatureRowRepository(next mart.FeatureRowRepository, cache *basecache.Store) *FeatureRowRepository {
	return &FeatureRowRepository{next: next, cache: cache}
}

func (r *FeatureRowRepository) Replace(ctx context.Context, items []mart.PlayerFeatureRow) error {
	if err := r.next.Replace(ctx, items); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "feature-row:")
	return nil
}

func (r *FeatureRowRepository) ListByPlayer(ctx context.Context, playerID string) ([]mart.PlayerFeatureRow, error) {
	key := "feature-row:player:" + playerID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByPlayer(ctx, playerID)
		if err != nil {
			return nil, err
		}
		return append([]mart.PlayerFeatureRow(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]mart.PlayerFeatureRow)
	return append([]mart.PlayerFeatureRow(nil), items...), nil
}

func (r *FeatureRowRepository) ListByTeam(ctx context.Context, teamID string) ([]mart.PlayerFeatureRow, error) {
	key := "feature-row:team:" + teamID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByTeam(ctx, teamID)
		if err != nil {
			return nil, err
		}
		return append([]mart.PlayerFeatureRow(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]mart.PlayerFeatureRow)
	return append([]mart.PlayerFeatureRow(nil), items...), nil
}

func (r *FeatureRowRepository) ListByStatType(ctx context.Context, statType boxscore.StatType) ([]mart.PlayerFeatureRow, error) {
	key := "feature-row:stat:" + string(statType)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByStatType(ctx, statType)
		if err != nil {
			return nil, err
		}
		return append([]mart.PlayerFeatureRow(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]mart.PlayerFeatureRow)
	return append([]mart.PlayerFeatureRow(nil), items...), nil
}

// LeaderboardRepository caches leaderboard reads for the API surface.
type LeaderboardRepository struct {
	next  mart.LeaderboardRepository
	cache *basecache.Store
}

func NewLeaderboardRepository(next mart.LeaderboardRepository, cache *basecache.Store) *LeaderboardRepository {
	return &LeaderboardRepository{next: next, cache: cache}
}

func (r *LeaderboardRepository) Replace(ctx context.Context, items []mart.LeaderboardEntry) error {
	if err := r.next.Replace(ctx, items); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "leaderboard:")
	return nil
}

func (r *LeaderboardRepository) List(ctx context.Context) ([]mart.LeaderboardEntry, error) {
	v, err := r.cache.GetOrLoad(ctx, "leaderboard:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]mart.LeaderboardEntry(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]mart.LeaderboardEntry)
	return append([]mart.LeaderboardEntry(nil), items...), nil
}

func (r *LeaderboardRepository) ListByTeam(ctx context.Context, teamID string, statType boxscore.StatType) ([]mart.LeaderboardEntry, error) {
	key := "leaderboard:team:" + teamID + ":" + string(statType)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByTeam(ctx, teamID, statType)
		if err != nil {
			return nil, err
		}
		return append([]mart.LeaderboardEntry(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]mart.LeaderboardEntry)
	return append([]mart.LeaderboardEntry(nil), items...), nil
}

// InsightRepository caches substitution insight reads.
type InsightRepository struct {
	next  mart.InsightRepository
	cache *basecache.Store
}

func NewInsightRepository(next mart.InsightRepository, cache *basecache.Store) *InsightRepository {
	return &InsightRepository{next: next, cache: cache}
}

func (r *InsightRepository) Replace(ctx context.Context, items []mart.SubstitutionInsight) error {
	if err := r.next.Replace(ctx, items); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "insight:")
	return nil
}

func (r *InsightRepository) List(ctx context.Context) ([]mart.SubstitutionInsight, error) {
	v, err := r.cache.GetOrLoad(ctx, "insight:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]mart.SubstitutionInsight(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]mart.SubstitutionInsight)
	return append([]mart.SubstitutionInsight(nil), items...), nil
}

func (r *InsightRepository) ListByTeam(ctx context.Context, teamID string) ([]mart.SubstitutionInsight, error) {
	key := "insight:team:" + teamID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByTeam(ctx, teamID)
		if err != nil {
			return nil, err
		}
		return append([]mart.SubstitutionInsight(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]mart.SubstitutionInsight)
	return append([]mart.SubstitutionInsight(nil), items...), nil
}
