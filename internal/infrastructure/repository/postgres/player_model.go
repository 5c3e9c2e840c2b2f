package postgres

import "time"

type playerTableModel struct {
	ID        int64      `db:"id"`
	PlayerID  string     `db:"player_id"`
	Name      string     `db:"name"`
	TeamID    string     `db:"team_id"`
	Position  string     `db:"position"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type playerInsertModel struct {
	PlayerID string `db:"player_id"`
	Name     string `db:"name"`
	TeamID   string `db:"team_id"`
	Position string `db:"position"`
}
