package postgres

import "time"

type injuryReportTableModel struct {
	ID         int64      `db:"id"`
	PlayerName string     `db:"player_name"`
	Status     string     `db:"status"`
	ReportDate time.Time  `db:"report_date"`
	ReportTime string     `db:"report_time"`
	IngestedAt time.Time  `db:"ingested_at"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
	DeletedAt  *time.Time `db:"deleted_at"`
}

type injuryReportInsertModel struct {
	PlayerName string    `db:"player_name"`
	Status     string    `db:"status"`
	ReportDate time.Time `db:"report_date"`
	ReportTime string    `db:"report_time"`
	IngestedAt time.Time `db:"ingested_at"`
}

type playerStatusTableModel struct {
	ID         int64      `db:"id"`
	PlayerID   string     `db:"player_id"`
	Status     *string    `db:"status"`
	ReportDate *time.Time `db:"report_date"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
	DeletedAt  *time.Time `db:"deleted_at"`
}

type playerStatusInsertModel struct {
	PlayerID   string     `db:"player_id"`
	Status     *string    `db:"status"`
	ReportDate *time.Time `db:"report_date"`
}
