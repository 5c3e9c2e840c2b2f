package boxscore

import (
	"context"
	"time"
)

// Repository reads the player-game stat snapshot delivered by normalization.
type Repository interface {
	List(ctx context.Context) ([]PlayerGameStat, error)
	ListByStatType(ctx context.Context, statType StatType) ([]PlayerGameStat, error)
	ListBetween(ctx context.Context, statType StatType, from, to time.Time) ([]PlayerGameStat, error)
	ListByPlayer(ctx context.Context, playerID string, statType StatType) ([]PlayerGameStat, error)
}
