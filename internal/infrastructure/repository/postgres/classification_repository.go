package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/courtsight/featuremart/internal/domain/boxscore"
	"github.com/courtsight/featuremart/internal/domain/odds"
	qb "github.com/courtsight/featuremart/internal/platform/querybuilder"
)

// ClassificationRepository stores per-game line classifications. The table is
// fact-like: incremental runs upsert by natural key instead of clearing.
type ClassificationRepository struct {
	db *sqlx.DB
}

func NewClassificationRepository(db *sqlx.DB) *ClassificationRepository {
	return &ClassificationRepository{db: db}
}

func (r *ClassificationRepository) Upsert(ctx context.Context, items []odds.Classification) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert classifications: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := upsertClassifications(ctx, tx, items); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert classifications tx: %w", err)
	}
	return nil
}

func (r *ClassificationRepository) Replace(ctx context.Context, items []odds.Classification) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace classifications: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := clearLiveRows(ctx, tx, "prop_line_classifications"); err != nil {
		return err
	}
	if err := upsertClassifications(ctx, tx, items); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace classifications tx: %w", err)
	}
	return nil
}

func (r *ClassificationRepository) List(ctx context.Context) ([]odds.Classification, error) {
	return r.list(ctx, nil)
}

func (r *ClassificationRepository) ListByPlayer(ctx context.Context, playerID string, statType boxscore.StatType) ([]odds.Classification, error) {
	return r.list(ctx, []qb.Condition{
		qb.Eq("player_id", playerID),
		qb.Eq("stat_type", string(statType)),
	})
}

// Watermark returns the newest classified game date, or found=false on an
// empty table.
func (r *ClassificationRepository) Watermark(ctx context.Context) (time.Time, bool, error) {
	var watermark sql.NullTime
	query := `SELECT MAX(game_date) FROM prop_line_classifications WHERE deleted_at IS NULL`
	if err := r.db.GetContext(ctx, &watermark, query); err != nil {
		return time.Time{}, false, fmt.Errorf("read classification watermark: %w", err)
	}
	if !watermark.Valid {
		return time.Time{}, false, nil
	}
	return watermark.Time, true, nil
}

func (r *ClassificationRepository) list(ctx context.Context, conditions []qb.Condition) ([]odds.Classification, error) {
	builder := qb.Select("*").From("prop_line_classifications").
		Where(qb.IsNull("deleted_at")).
		OrderBy("player_id", "stat_type", "game_date", "game_id")
	if len(conditions) > 0 {
		builder = builder.Where(conditions...)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list classifications query: %w", err)
	}

	var rows []classificationTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list classifications: %w", err)
	}

	out := make([]odds.Classification, 0, len(rows))
	for _, row := range rows {
		item := odds.Classification{
			PlayerID: row.PlayerID,
			GameID:   row.GameID,
			StatType: boxscore.StatType(row.StatType),
			GameDate: row.GameDate,
			Value:    row.Value,
			Line:     row.Line,
		}
		if row.VsLine != nil {
			vsLine := odds.VsLine(*row.VsLine)
			item.VsLine = &vsLine
		}
		out = append(out, item)
	}

	return out, nil
}

func upsertClassifications(ctx context.Context, tx *sqlx.Tx, items []odds.Classification) error {
	for _, item := range items {
		insertModel := classificationInsertModel{
			PlayerID: item.PlayerID,
			GameID:   item.GameID,
			StatType: string(item.StatType),
			GameDate: item.GameDate,
			Value:    item.Value,
			Line:     item.Line,
			VsLine:   vsLineToString(item.VsLine),
		}
		query, args, err := qb.InsertModel("prop_line_classifications", insertModel, `ON CONFLICT (player_id, game_id, stat_type) WHERE deleted_at IS NULL
DO UPDATE SET
    game_date = EXCLUDED.game_date,
    value = EXCLUDED.value,
    line = EXCLUDED.line,
    vs_line = EXCLUDED.vs_line,
    updated_at = NOW(),
    deleted_at = NULL`)
		if err != nil {
			return fmt.Errorf("build upsert classification query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert classification player=%s game=%s stat=%s: %w", item.PlayerID, item.GameID, item.StatType, err)
		}
	}
	return nil
}

func vsLineToString(vsLine *odds.VsLine) *string {
	if vsLine == nil {
		return nil
	}
	value := string(*vsLine)
	return &value
}
