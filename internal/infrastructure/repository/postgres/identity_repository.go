package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/courtsight/featuremart/internal/domain/identity"
	qb "github.com/courtsight/featuremart/internal/platform/querybuilder"
)

type IdentityMappingRepository struct {
	db *sqlx.DB
}

func NewIdentityMappingRepository(db *sqlx.DB) *IdentityMappingRepository {
	return &IdentityMappingRepository{db: db}
}

func (r *IdentityMappingRepository) ListBySource(ctx context.Context, source identity.Source) ([]identity.Mapping, error) {
	query, args, err := qb.Select("*").From("identity_mappings").
		Where(
			qb.Eq("source_system", string(source)),
			qb.IsNull("deleted_at"),
		).
		OrderBy("source_name", "canonical_player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list identity mappings query: %w", err)
	}

	var rows []identityMappingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list identity mappings: %w", err)
	}

	out := make([]identity.Mapping, 0, len(rows))
	for _, row := range rows {
		out = append(out, identity.Mapping{
			SourceSystem:      identity.Source(row.SourceSystem),
			SourceName:        row.SourceName,
			CanonicalPlayerID: row.CanonicalPlayerID,
			ConfidenceScore:   row.ConfidenceScore,
			UpdatedAt:         row.SourceUpdatedAt,
		})
	}

	return out, nil
}

// Replace keeps every (source, name, canonical id) candidate. Ambiguous names
// legitimately carry multiple live rows; resolution happens downstream.
func (r *IdentityMappingRepository) Replace(ctx context.Context, items []identity.Mapping) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace identity mappings: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := clearLiveRows(ctx, tx, "identity_mappings"); err != nil {
		return err
	}

	for _, item := range items {
		insertModel := identityMappingInsertModel{
			SourceSystem:      string(item.SourceSystem),
			SourceName:        item.SourceName,
			CanonicalPlayerID: item.CanonicalPlayerID,
			ConfidenceScore:   item.ConfidenceScore,
			SourceUpdatedAt:   item.UpdatedAt,
		}
		query, args, err := qb.InsertModel("identity_mappings", insertModel, `ON CONFLICT (source_system, source_name, canonical_player_id) WHERE deleted_at IS NULL
DO UPDATE SET
    confidence_score = EXCLUDED.confidence_score,
    source_updated_at = EXCLUDED.source_updated_at,
    updated_at = NOW(),
    deleted_at = NULL`)
		if err != nil {
			return fmt.Errorf("build upsert identity mapping query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert identity mapping source=%s name=%s: %w", item.SourceSystem, item.SourceName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace identity mappings tx: %w", err)
	}
	return nil
}
