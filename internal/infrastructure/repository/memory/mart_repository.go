package memory

import (
	"context"
	"sync"

	"github.com/courtsight/featuremart/internal/domain/boxscore"
	"github.com/courtsight/featuremart/internal/domain/mart"
)

type LeaderboardRepository struct {
	mu    sync.RWMutex
	items []mart.LeaderboardEntry
}

func NewLeaderboardRepository() *LeaderboardRepository {
	return &LeaderboardRepository{}
}

func (r *LeaderboardRepository) Replace(_ context.Context, items []mart.LeaderboardEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append([]mart.LeaderboardEntry(nil), items...)
	return nil
}

func (r *LeaderboardRepository) List(_ context.Context) ([]mart.LeaderboardEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]mart.LeaderboardEntry(nil), r.items...), nil
}

func (r *LeaderboardRepository) ListByTeam(_ context.Context, teamID string, statType boxscore.StatType) ([]mart.LeaderboardEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]mart.LeaderboardEntry, 0)
	for _, e := range r.items {
		if e.TeamID == teamID && e.StatType == statType {
			out = append(out, e)
		}
	}
	return out, nil
}

type InsightRepository struct {
	mu    sync.RWMutex
	items []mart.SubstitutionInsight
}

func NewInsightRepository() *InsightRepository {
	return &InsightRepository{}
}

func (r *InsightRepository) Replace(_ context.Context, items []mart.SubstitutionInsight) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append([]mart.SubstitutionInsight(nil), items...)
	return nil
}

func (r *InsightRepository) List(_ context.Context) ([]mart.SubstitutionInsight, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]mart.SubstitutionInsight(nil), r.items...), nil
}

func (r *InsightRepository) ListByTeam(_ context.Context, teamID string) ([]mart.SubstitutionInsight, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]mart.SubstitutionInsight, 0)
	for _, ins := range r.items {
		if ins.TeamID == teamID {
			out = append(out, ins)
		}
	}
	return out, nil
}

type RatingRepository struct {
	mu    sync.RWMutex
	items []mart.PlayerRating
}

func NewRatingRepository() *RatingRepository {
	return &RatingRepository{}
}

func (r *RatingRepository) Replace(_ context.Context, items []mart.PlayerRating) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append([]mart.PlayerRating(nil), items...)
	return nil
}

func (r *RatingRepository) List(_ context.Context) ([]mart.PlayerRating, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]mart.PlayerRating(nil), r.items...), nil
}

type RollingWindowRepository struct {
	mu    sync.RWMutex
	items []mart.RollingWindowSummary
}

func NewRollingWindowRepository() *RollingWindowRepository {
	return &RollingWindowRepository{}
}

func (r *RollingWindowRepository) Replace(_ context.Context, items []mart.RollingWindowSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append([]mart.RollingWindowSummary(nil), items...)
	return nil
}

func (r *RollingWindowRepository) List(_ context.Context) ([]mart.RollingWindowSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]mart.RollingWindowSummary(nil), r.items...), nil
}

type FeatureRowRepository struct {
	mu    sync.RWMutex
	items []mart.PlayerFeatureRow
}

func NewFeatureRowRepository() *FeatureRowRepository {
	return &FeatureRowRepository{}
}

func (r *FeatureRowRepository) Replace(_ context.Context, items []mart.PlayerFeatureRow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append([]mart.PlayerFeatureRow(nil), items...)
	return nil
}

func (r *FeatureRowRepository) ListByPlayer(_ context.Context, playerID string) ([]mart.PlayerFeatureRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]mart.PlayerFeatureRow, 0)
	for _, row := range r.items {
		if row.PlayerID == playerID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *FeatureRowRepository) ListByTeam(_ context.Context, teamID string) ([]mart.PlayerFeatureRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]mart.PlayerFeatureRow, 0)
	for _, row := range r.items {
		if row.TeamID == teamID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *FeatureRowRepository) ListByStatType(_ context.Context, statType boxscore.StatType) ([]mart.PlayerFeatureRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]mart.PlayerFeatureRow, 0)
	for _, row := range r.items {
		if row.StatType == statType {
			out = append(out, row)
		}
	}
	return out, nil
}
