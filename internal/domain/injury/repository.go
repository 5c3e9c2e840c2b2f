package injury

import "context"

// ReportRepository reads the injury-report snapshot delivered by
// normalization.
type ReportRepository interface {
	List(ctx context.Context) ([]Report, error)
}

// StatusRepository persists the derived per-player current status
// (full-rebuild materialization).
type StatusRepository interface {
	Replace(ctx context.Context, items []PlayerStatus) error
	List(ctx context.Context) ([]PlayerStatus, error)
	GetByPlayer(ctx context.Context, playerID string) (PlayerStatus, bool, error)
}
