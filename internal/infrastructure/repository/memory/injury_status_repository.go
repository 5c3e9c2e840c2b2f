package memory

import (
	"context"
	"sync"

	"github.com/courtsight/featuremart/internal/domain/injury"
)

type InjuryStatusRepository struct {
	mu    sync.RWMutex
	items []injury.PlayerStatus
}

func NewInjuryStatusRepository() *InjuryStatusRepository {
	return &InjuryStatusRepository{}
}

func (r *InjuryStatusRepository) Replace(_ context.Context, items []injury.PlayerStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append([]injury.PlayerStatus(nil), items...)
	return nil
}

func (r *InjuryStatusRepository) List(_ context.Context) ([]injury.PlayerStatus, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]injury.PlayerStatus(nil), r.items...), nil
}

func (r *InjuryStatusRepository) GetByPlayer(_ context.Context, playerID string) (injury.PlayerStatus, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, status := range r.items {
		if status.PlayerID == playerID {
			return status, true, nil
		}
	}
	return injury.PlayerStatus{}, false, nil
}
