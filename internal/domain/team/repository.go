package team

import "context"

// Repository describes team snapshot reads needed by pipeline stages.
type Repository interface {
	List(ctx context.Context) ([]Team, error)
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
}
