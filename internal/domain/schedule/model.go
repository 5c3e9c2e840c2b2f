package schedule

import (
	"fmt"
	"time"
)

// Game is one scheduled or completed game between two teams.
type Game struct {
	ID         string
	Date       time.Time
	HomeTeamID string
	AwayTeamID string
	HomeScore  *int
	AwayScore  *int
}

func (g Game) Validate() error {
	if g.ID == "" {
		return fmt.Errorf("game id is required")
	}
	if g.Date.IsZero() {
		return fmt.Errorf("game date is required")
	}
	if g.HomeTeamID == "" || g.AwayTeamID == "" {
		return fmt.Errorf("game team ids are required")
	}
	if g.HomeTeamID == g.AwayTeamID {
		return fmt.Errorf("game teams must differ")
	}

	return nil
}

// OpponentID returns the other side of the game for teamID, or "" when the
// team is not part of the game.
func (g Game) OpponentID(teamID string) string {
	switch teamID {
	case g.HomeTeamID:
		return g.AwayTeamID
	case g.AwayTeamID:
		return g.HomeTeamID
	default:
		return ""
	}
}

// TeamGame is the derived per-(team, game) schedule row. PreviousGameID and
// DaysSincePrevious are nil for a team's first observed game.
type TeamGame struct {
	TeamID            string
	GameID            string
	Date              time.Time
	OpponentID        string
	IsHome            bool
	PreviousGameID    *string
	DaysSincePrevious *int
	IsBackToBack      bool
	IsNextGame        bool
}
