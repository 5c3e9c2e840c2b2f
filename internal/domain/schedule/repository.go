package schedule

import (
	"context"
	"time"
)

// GameRepository reads the game snapshot delivered by normalization.
type GameRepository interface {
	List(ctx context.Context) ([]Game, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]Game, error)
}

// TeamGameRepository persists the derived per-team schedule rows. Replace
// swaps the whole derived set for the run (full-rebuild materialization).
type TeamGameRepository interface {
	Replace(ctx context.Context, items []TeamGame) error
	ListByTeam(ctx context.Context, teamID string) ([]TeamGame, error)
	NextGame(ctx context.Context, teamID string) (TeamGame, bool, error)
}
