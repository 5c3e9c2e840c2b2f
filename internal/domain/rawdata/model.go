package rawdata

import "time"

// Payload records the provenance of one raw provider record as it crossed the
// normalization boundary.
type Payload struct {
	Source          string
	EntityType      string
	EntityKey       string
	PayloadJSON     string
	PayloadHash     string
	SourceUpdatedAt *time.Time
}
