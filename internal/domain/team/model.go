package team

import "fmt"

// Team is an NBA franchise as delivered by the normalization boundary.
type Team struct {
	ID           string
	Name         string
	Abbreviation string
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	if t.Abbreviation == "" {
		return fmt.Errorf("team abbreviation is required")
	}

	return nil
}
