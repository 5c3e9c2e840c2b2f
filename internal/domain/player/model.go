package player

import "fmt"

// Position represents NBA position groups as reported by the stats provider.
type Position string

const (
	PositionGuard         Position = "G"
	PositionForward       Position = "F"
	PositionCenter        Position = "C"
	PositionGuardForward  Position = "G-F"
	PositionForwardCenter Position = "F-C"
)

var AllPositions = map[Position]struct{}{
	PositionGuard:         {},
	PositionForward:       {},
	PositionCenter:        {},
	PositionGuardForward:  {},
	PositionForwardCenter: {},
}

// Player is an active roster player keyed by the canonical stats-provider id.
type Player struct {
	ID       string
	Name     string
	TeamID   string
	Position Position
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}
	if p.TeamID == "" {
		return fmt.Errorf("player team id is required")
	}
	if p.Position != "" {
		if _, ok := AllPositions[p.Position]; !ok {
			return fmt.Errorf("invalid player position: %s", p.Position)
		}
	}

	return nil
}
