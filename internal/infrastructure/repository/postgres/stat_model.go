package postgres

import "time"

type playerGameStatTableModel struct {
	ID            int64      `db:"id"`
	PlayerID      string     `db:"player_id"`
	GameID        string     `db:"game_id"`
	TeamID        string     `db:"team_id"`
	StatType      string     `db:"stat_type"`
	Value         float64    `db:"value"`
	MinutesPlayed float64    `db:"minutes_played"`
	GameDate      time.Time  `db:"game_date"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
	DeletedAt     *time.Time `db:"deleted_at"`
}

type playerGameStatInsertModel struct {
	PlayerID      string    `db:"player_id"`
	GameID        string    `db:"game_id"`
	TeamID        string    `db:"team_id"`
	StatType      string    `db:"stat_type"`
	Value         float64   `db:"value"`
	MinutesPlayed float64   `db:"minutes_played"`
	GameDate      time.Time `db:"game_date"`
}
