package postgres

import "time"

type leaderboardEntryTableModel struct {
	ID          int64      `db:"id"`
	TeamID      string     `db:"team_id"`
	StatType    string     `db:"stat_type"`
	PlayerID    string     `db:"player_id"`
	Rank        int        `db:"rank"`
	AvgValue    float64    `db:"avg_value"`
	GamesPlayed int        `db:"games_played"`
	TeamAvg     float64    `db:"team_avg"`
	TeamStdDev  *float64   `db:"team_stddev"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at"`
}

type leaderboardEntryInsertModel struct {
	TeamID      string   `db:"team_id"`
	StatType    string   `db:"stat_type"`
	PlayerID    string   `db:"player_id"`
	Rank        int      `db:"rank"`
	AvgValue    float64  `db:"avg_value"`
	GamesPlayed int      `db:"games_played"`
	TeamAvg     float64  `db:"team_avg"`
	TeamStdDev  *float64 `db:"team_stddev"`
}

type substitutionInsightTableModel struct {
	ID               int64      `db:"id"`
	TeamID           string     `db:"team_id"`
	StatType         string     `db:"stat_type"`
	LeaderID         string     `db:"leader_id"`
	LeaderStatus     string     `db:"leader_status"`
	BackupID         string     `db:"backup_id"`
	BackupRank       int        `db:"backup_rank"`
	AvgWhenLeaderOut *float64   `db:"avg_when_leader_out"`
	GamesAnalyzed    int        `db:"games_analyzed"`
	AvgNormal        *float64   `db:"avg_normal"`
	TotalGames       int        `db:"total_games"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
	DeletedAt        *time.Time `db:"deleted_at"`
}

type substitutionInsightInsertModel struct {
	TeamID           string   `db:"team_id"`
	StatType         string   `db:"stat_type"`
	LeaderID         string   `db:"leader_id"`
	LeaderStatus     string   `db:"leader_status"`
	BackupID         string   `db:"backup_id"`
	BackupRank       int      `db:"backup_rank"`
	AvgWhenLeaderOut *float64 `db:"avg_when_leader_out"`
	GamesAnalyzed    int      `db:"games_analyzed"`
	AvgNormal        *float64 `db:"avg_normal"`
	TotalGames       int      `db:"total_games"`
}

type playerRatingTableModel struct {
	ID          int64      `db:"id"`
	PlayerID    string     `db:"player_id"`
	TeamID      string     `db:"team_id"`
	StatType    string     `db:"stat_type"`
	ZScore      float64    `db:"z_score"`
	RatingStars int        `db:"rating_stars"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at"`
}

type playerRatingInsertModel struct {
	PlayerID    string  `db:"player_id"`
	TeamID      string  `db:"team_id"`
	StatType    string  `db:"stat_type"`
	ZScore      float64 `db:"z_score"`
	RatingStars int     `db:"rating_stars"`
}

type rollingWindowTableModel struct {
	ID          int64      `db:"id"`
	PlayerID    string     `db:"player_id"`
	StatType    string     `db:"stat_type"`
	WindowLabel string     `db:"window_label"`
	OverCount   int        `db:"over_count"`
	TotalCount  int        `db:"total_count"`
	PctOver     *int       `db:"pct_over"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at"`
}

type rollingWindowInsertModel struct {
	PlayerID    string `db:"player_id"`
	StatType    string `db:"stat_type"`
	WindowLabel string `db:"window_label"`
	OverCount   int    `db:"over_count"`
	TotalCount  int    `db:"total_count"`
	PctOver     *int   `db:"pct_over"`
}

type featureRowTableModel struct {
	ID         int64  `db:"id"`
	PlayerID   string `db:"player_id"`
	PlayerName string `db:"player_name"`
	TeamID     string `db:"team_id"`
	StatType   string `db:"stat_type"`

	Rank        *int     `db:"rank"`
	AvgValue    *float64 `db:"avg_value"`
	TeamAvg     *float64 `db:"team_avg"`
	TeamStdDev  *float64 `db:"team_stddev"`
	ZScore      *float64 `db:"z_score"`
	RatingStars *int     `db:"rating_stars"`

	InjuryStatus *string `db:"injury_status"`

	BackupID         *string  `db:"backup_id"`
	AvgWhenLeaderOut *float64 `db:"avg_when_leader_out"`
	GamesAnalyzed    *int     `db:"games_analyzed"`
	AvgNormal        *float64 `db:"avg_normal"`
	TotalGames       *int     `db:"total_games"`

	Line          *float64 `db:"line"`
	LineBookmaker *string  `db:"line_bookmaker"`

	PctOverLast5  *int `db:"pct_over_last_5"`
	PctOverLast10 *int `db:"pct_over_last_10"`
	PctOverLast30 *int `db:"pct_over_last_30"`

	NextGameID     *string `db:"next_game_id"`
	NextOpponentID *string `db:"next_opponent_id"`
	IsBackToBack   *bool   `db:"is_back_to_back"`

	ComputedAt time.Time  `db:"computed_at"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
	DeletedAt  *time.Time `db:"deleted_at"`
}

type featureRowInsertModel struct {
	PlayerID   string `db:"player_id"`
	PlayerName string `db:"player_name"`
	TeamID     string `db:"team_id"`
	StatType   string `db:"stat_type"`

	Rank        *int     `db:"rank"`
	AvgValue    *float64 `db:"avg_value"`
	TeamAvg     *float64 `db:"team_avg"`
	TeamStdDev  *float64 `db:"team_stddev"`
	ZScore      *float64 `db:"z_score"`
	RatingStars *int     `db:"rating_stars"`

	InjuryStatus *string `db:"injury_status"`

	BackupID         *string  `db:"backup_id"`
	AvgWhenLeaderOut *float64 `db:"avg_when_leader_out"`
	GamesAnalyzed    *int     `db:"games_analyzed"`
	AvgNormal        *float64 `db:"avg_normal"`
	TotalGames       *int     `db:"total_games"`

	Line          *float64 `db:"line"`
	LineBookmaker *string  `db:"line_bookmaker"`

	PctOverLast5  *int `db:"pct_over_last_5"`
	PctOverLast10 *int `db:"pct_over_last_10"`
	PctOverLast30 *int `db:"pct_over_last_30"`

	NextGameID     *string `db:"next_game_id"`
	NextOpponentID *string `db:"next_opponent_id"`
	IsBackToBack   *bool   `db:"is_back_to_back"`

	ComputedAt time.Time `db:"computed_at"`
}
