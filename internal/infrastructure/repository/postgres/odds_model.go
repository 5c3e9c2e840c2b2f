package postgres

import "time"

type oddsSnapshotTableModel struct {
	ID           int64      `db:"id"`
	PlayerName   string     `db:"player_name"`
	Market       string     `db:"market"`
	Line         float64    `db:"line"`
	Price        int        `db:"price"`
	Side         string     `db:"side"`
	SnapshotTime time.Time  `db:"snapshot_time"`
	Bookmaker    string     `db:"bookmaker"`
	IngestedAt   time.Time  `db:"ingested_at"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at"`
}

type oddsSnapshotInsertModel struct {
	PlayerName   string    `db:"player_name"`
	Market       string    `db:"market"`
	Line         float64   `db:"line"`
	Price        int       `db:"price"`
	Side         string    `db:"side"`
	SnapshotTime time.Time `db:"snapshot_time"`
	Bookmaker    string    `db:"bookmaker"`
	IngestedAt   time.Time `db:"ingested_at"`
}

type currentLineTableModel struct {
	ID           int64      `db:"id"`
	PlayerID     string     `db:"player_id"`
	Market       string     `db:"market"`
	StatType     string     `db:"stat_type"`
	Line         float64    `db:"line"`
	Price        int        `db:"price"`
	Bookmaker    string     `db:"bookmaker"`
	SnapshotTime time.Time  `db:"snapshot_time"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at"`
}

type currentLineInsertModel struct {
	PlayerID     string    `db:"player_id"`
	Market       string    `db:"market"`
	StatType     string    `db:"stat_type"`
	Line         float64   `db:"line"`
	Price        int       `db:"price"`
	Bookmaker    string    `db:"bookmaker"`
	SnapshotTime time.Time `db:"snapshot_time"`
}

type classificationTableModel struct {
	ID        int64      `db:"id"`
	PlayerID  string     `db:"player_id"`
	GameID    string     `db:"game_id"`
	StatType  string     `db:"stat_type"`
	GameDate  time.Time  `db:"game_date"`
	Value     float64    `db:"value"`
	Line      *float64   `db:"line"`
	VsLine    *string    `db:"vs_line"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type classificationInsertModel struct {
	PlayerID string    `db:"player_id"`
	GameID   string    `db:"game_id"`
	StatType string    `db:"stat_type"`
	GameDate time.Time `db:"game_date"`
	Value    float64   `db:"value"`
	Line     *float64  `db:"line"`
	VsLine   *string   `db:"vs_line"`
}
