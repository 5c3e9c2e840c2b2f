package identity

import "context"

// Repository reads the confidence-scored mapping snapshot produced by the
// upstream de-para matching job.
type Repository interface {
	ListBySource(ctx context.Context, source Source) ([]Mapping, error)
}
