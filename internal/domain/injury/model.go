package injury

import (
	"fmt"
	"strings"
	"time"
)

// Status is an NBA injury-report designation.
type Status string

const (
	StatusOut          Status = "Out"
	StatusDoubtful     Status = "Doubtful"
	StatusQuestionable Status = "Questionable"
)

// ParseStatus normalizes a provider-reported status string.
func ParseStatus(v string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "out":
		return StatusOut, nil
	case "doubtful":
		return StatusDoubtful, nil
	case "questionable":
		return StatusQuestionable, nil
	default:
		return "", fmt.Errorf("unknown injury status %q", v)
	}
}

// Report is one line of an official injury report, keyed by the provider's
// player name. IngestedAt orders duplicates sharing a report timestamp.
type Report struct {
	PlayerName string
	Status     Status
	ReportDate time.Time
	ReportTime string
	IngestedAt time.Time
}

func (r Report) Validate() error {
	if r.PlayerName == "" {
		return fmt.Errorf("injury report player name is required")
	}
	switch r.Status {
	case StatusOut, StatusDoubtful, StatusQuestionable:
	default:
		return fmt.Errorf("invalid injury status: %s", r.Status)
	}
	if r.ReportDate.IsZero() {
		return fmt.Errorf("injury report date is required")
	}

	return nil
}

// PlayerStatus is the derived current status per canonical player. Status is
// nil when no qualifying report exists; the row is still emitted so downstream
// joins never lose roster players.
type PlayerStatus struct {
	PlayerID   string
	Status     *Status
	ReportDate *time.Time
}

// Unavailable reports whether the player currently carries any injury
// designation.
func (p PlayerStatus) Unavailable() bool {
	return p.Status != nil
}
