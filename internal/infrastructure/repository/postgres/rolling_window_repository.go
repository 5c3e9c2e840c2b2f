package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/courtsight/featuremart/internal/domain/boxscore"
	"github.com/courtsight/featuremart/internal/domain/mart"
	qb "github.com/courtsight/featuremart/internal/platform/querybuilder"
)

type RollingWindowRepository struct {
	db *sqlx.DB
}

func NewRollingWindowRepository(db *sqlx.DB) *RollingWindowRepository {
	return &RollingWindowRepository{db: db}
}

func (r *RollingWindowRepository) Replace(ctx context.Context, items []mart.RollingWindowSummary) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace rolling window summaries: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := clearLiveRows(ctx, tx, "rolling_window_summaries"); err != nil {
		return err
	}

	for _, item := range items {
		insertModel := rollingWindowInsertModel{
			PlayerID:    item.PlayerID,
			StatType:    string(item.StatType),
			WindowLabel: string(item.Window),
			OverCount:   item.OverCount,
			TotalCount:  item.TotalCount,
			PctOver:     item.PctOver,
		}
		query, args, err := qb.InsertModel("rolling_window_summaries", insertModel, `ON CONFLICT (player_id, stat_type, window_label) WHERE deleted_at IS NULL
DO UPDATE SET
    over_count = EXCLUDED.over_count,
    total_count = EXCLUDED.total_count,
    pct_over = EXCLUDED.pct_over,
    updated_at = NOW(),
    deleted_at = NULL`)
		if err != nil {
			return fmt.Errorf("build upsert rolling window summary query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert rolling window summary player=%s stat=%s window=%s: %w", item.PlayerID, item.StatType, item.Window, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace rolling window summaries tx: %w", err)
	}
	return nil
}

func (r *RollingWindowRepository) List(ctx context.Context) ([]mart.RollingWindowSummary, error) {
	query, args, err := qb.Select("*").From("rolling_window_summaries").
		Where(qb.IsNull("deleted_at")).
		OrderBy("player_id", "stat_type", "window_label").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list rolling window summaries query: %w", err)
	}

	var rows []rollingWindowTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list rolling window summaries: %w", err)
	}

	out := make([]mart.RollingWindowSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, mart.RollingWindowSummary{
			PlayerID:   row.PlayerID,
			StatType:   boxscore.StatType(row.StatType),
			Window:     mart.Window(row.WindowLabel),
			OverCount:  row.OverCount,
			TotalCount: row.TotalCount,
			PctOver:    row.PctOver,
		})
	}

	return out, nil
}
