package identity

import (
	"fmt"
	"time"
)

// Source identifies the provider whose names a mapping resolves.
type Source string

const (
	SourceInjuryReport Source = "injury_report"
	SourceOdds         Source = "odds"
)

// Mapping links a provider-reported player name to a canonical player id with
// a fuzzy-match confidence score on a 0..100 scale.
type Mapping struct {
	SourceSystem      Source
	SourceName        string
	CanonicalPlayerID string
	ConfidenceScore   int
	UpdatedAt         time.Time
}

func (m Mapping) Validate() error {
	switch m.SourceSystem {
	case SourceInjuryReport, SourceOdds:
	default:
		return fmt.Errorf("invalid mapping source: %s", m.SourceSystem)
	}
	if m.SourceName == "" {
		return fmt.Errorf("mapping source name is required")
	}
	if m.CanonicalPlayerID == "" {
		return fmt.Errorf("mapping canonical player id is required")
	}
	if m.ConfidenceScore < 0 || m.ConfidenceScore > 100 {
		return fmt.Errorf("mapping confidence must be in [0, 100], got %d", m.ConfidenceScore)
	}

	return nil
}
