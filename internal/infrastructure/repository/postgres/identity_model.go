package postgres

import "time"

type identityMappingTableModel struct {
	ID                int64      `db:"id"`
	SourceSystem      string     `db:"source_system"`
	SourceName        string     `db:"source_name"`
	CanonicalPlayerID string     `db:"canonical_player_id"`
	ConfidenceScore   int        `db:"confidence_score"`
	SourceUpdatedAt   time.Time  `db:"source_updated_at"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at"`
	DeletedAt         *time.Time `db:"deleted_at"`
}

type identityMappingInsertModel struct {
	SourceSystem      string    `db:"source_system"`
	SourceName        string    `db:"source_name"`
	CanonicalPlayerID string    `db:"canonical_player_id"`
	ConfidenceScore   int       `db:"confidence_score"`
	SourceUpdatedAt   time.Time `db:"source_updated_at"`
}
