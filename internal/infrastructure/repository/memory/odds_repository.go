package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/courtsight/featuremart/internal/domain/boxscore"
	"github.com/courtsight/featuremart/internal/domain/odds"
)

type CurrentLineRepository struct {
	mu    sync.RWMutex
	items []odds.CurrentLine
}

func NewCurrentLineRepository() *CurrentLineRepository {
	return &CurrentLineRepository{}
}

func (r *CurrentLineRepository) Replace(_ context.Context, items []odds.CurrentLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append([]odds.CurrentLine(nil), items...)
	return nil
}

func (r *CurrentLineRepository) List(_ context.Context) ([]odds.CurrentLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]odds.CurrentLine(nil), r.items...), nil
}

// ClassificationRepository keys rows by (player_id, game_id, stat_type) and
// tracks the max game date as the incremental watermark.
type ClassificationRepository struct {
	mu    sync.RWMutex
	items map[classificationKey]odds.Classification
}

type classificationKey struct {
	playerID string
	gameID   string
	statType boxscore.StatType
}

func NewClassificationRepository() *ClassificationRepository {
	return &ClassificationRepository{items: make(map[classificationKey]odds.Classification)}
}

func (r *ClassificationRepository) Upsert(_ context.Context, items []odds.Classification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range items {
		r.items[classificationKey{playerID: c.PlayerID, gameID: c.GameID, statType: c.StatType}] = c
	}
	return nil
}

func (r *ClassificationRepository) Replace(_ context.Context, items []odds.Classification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = make(map[classificationKey]odds.Classification, len(items))
	for _, c := range items {
		r.items[classificationKey{playerID: c.PlayerID, gameID: c.GameID, statType: c.StatType}] = c
	}
	return nil
}

func (r *ClassificationRepository) List(_ context.Context) ([]odds.Classification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]odds.Classification, 0, len(r.items))
	for _, c := range r.items {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PlayerID != out[j].PlayerID {
			return out[i].PlayerID < out[j].PlayerID
		}
		if out[i].StatType != out[j].StatType {
			return out[i].StatType < out[j].StatType
		}
		return out[i].GameID < out[j].GameID
	})
	return out, nil
}

func (r *ClassificationRepository) ListByPlayer(_ context.Context, playerID string, statType boxscore.StatType) ([]odds.Classification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]odds.Classification, 0)
	for _, c := range r.items {
		if c.PlayerID == playerID && c.StatType == statType {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GameID < out[j].GameID })
	return out, nil
}

func (r *ClassificationRepository) Watermark(_ context.Context) (time.Time, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var max time.Time
	found := false
	for _, c := range r.items {
		if !found || c.GameDate.After(max) {
			max = c.GameDate
			found = true
		}
	}
	return max, found, nil
}
