package postgres

import "time"

type gameTableModel struct {
	ID         int64      `db:"id"`
	GameID     string     `db:"game_id"`
	GameDate   time.Time  `db:"game_date"`
	HomeTeamID string     `db:"home_team_id"`
	AwayTeamID string     `db:"away_team_id"`
	HomeScore  *int       `db:"home_score"`
	AwayScore  *int       `db:"away_score"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
	DeletedAt  *time.Time `db:"deleted_at"`
}

type gameInsertModel struct {
	GameID     string    `db:"game_id"`
	GameDate   time.Time `db:"game_date"`
	HomeTeamID string    `db:"home_team_id"`
	AwayTeamID string    `db:"away_team_id"`
	HomeScore  *int      `db:"home_score"`
	AwayScore  *int      `db:"away_score"`
}
