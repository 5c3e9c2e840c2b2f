package postgres

import "time"

type teamGameTableModel struct {
	ID                int64      `db:"id"`
	TeamID            string     `db:"team_id"`
	GameID            string     `db:"game_id"`
	GameDate          time.Time  `db:"game_date"`
	OpponentID        string     `db:"opponent_id"`
	IsHome            bool       `db:"is_home"`
	PreviousGameID    *string    `db:"previous_game_id"`
	DaysSincePrevious *int       `db:"days_since_previous"`
	IsBackToBack      bool       `db:"is_back_to_back"`
	IsNextGame        bool       `db:"is_next_game"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at"`
	DeletedAt         *time.Time `db:"deleted_at"`
}

type teamGameInsertModel struct {
	TeamID            string    `db:"team_id"`
	GameID            string    `db:"game_id"`
	GameDate          time.Time `db:"game_date"`
	OpponentID        string    `db:"opponent_id"`
	IsHome            bool      `db:"is_home"`
	PreviousGameID    *string   `db:"previous_game_id"`
	DaysSincePrevious *int      `db:"days_since_previous"`
	IsBackToBack      bool      `db:"is_back_to_back"`
	IsNextGame        bool      `db:"is_next_game"`
}
