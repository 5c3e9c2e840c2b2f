package memory

import (
	"context"
	"sync"

	"github.com/courtsight/featuremart/internal/domain/schedule"
)

type TeamGameRepository struct {
	mu    sync.RWMutex
	items []schedule.TeamGame
}

func NewTeamGameRepository() *TeamGameRepository {
	return &TeamGameRepository{}
}

func (r *TeamGameRepository) Replace(_ context.Context, items []schedule.TeamGame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append([]schedule.TeamGame(nil), items...)
	return nil
}

func (r *TeamGameRepository) ListByTeam(_ context.Context, teamID string) ([]schedule.TeamGame, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]schedule.TeamGame, 0)
	for _, tg := range r.items {
		if tg.TeamID == teamID {
			out = append(out, tg)
		}
	}
	return out, nil
}

func (r *TeamGameRepository) NextGame(_ context.Context, teamID string) (schedule.TeamGame, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, tg := range r.items {
		if tg.TeamID == teamID && tg.IsNextGame {
			return tg, true, nil
		}
	}
	return schedule.TeamGame{}, false, nil
}
