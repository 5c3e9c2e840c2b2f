package memory

import (
	"context"
	"sync"

	"github.com/courtsight/featuremart/internal/domain/rawdata"
)

type RawDataRepository struct {
	mu    sync.RWMutex
	items map[string]rawdata.Payload
}

func NewRawDataRepository() *RawDataRepository {
	return &RawDataRepository{items: make(map[string]rawdata.Payload)}
}

func (r *RawDataRepository) UpsertMany(_ context.Context, items []rawdata.Payload) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range items {
		r.items[p.EntityType+"|"+p.EntityKey] = p
	}
	return nil
}

// Len reports how many distinct payloads have been recorded.
func (r *RawDataRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
