package postgres

import "time"

type teamTableModel struct {
	ID           int64      `db:"id"`
	TeamID       string     `db:"team_id"`
	Name         string     `db:"name"`
	Abbreviation string     `db:"abbreviation"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at"`
}

type teamInsertModel struct {
	TeamID       string `db:"team_id"`
	Name         string `db:"name"`
	Abbreviation string `db:"abbreviation"`
}
