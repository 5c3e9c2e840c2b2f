package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/courtsight/featuremart/internal/domain/boxscore"
	"github.com/courtsight/featuremart/internal/domain/odds"
	qb "github.com/courtsight/featuremart/internal/platform/querybuilder"
)

type OddsSnapshotRepository struct {
	db *sqlx.DB
}

func NewOddsSnapshotRepository(db *sqlx.DB) *OddsSnapshotRepository {
	return &OddsSnapshotRepository{db: db}
}

func (r *OddsSnapshotRepository) List(ctx context.Context) ([]odds.Snapshot, error) {
	query, args, err := qb.Select("*").From("odds_snapshots").
		Where(qb.IsNull("deleted_at")).
		OrderBy("player_name", "market", "snapshot_time", "ingested_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list odds snapshots query: %w", err)
	}

	var rows []oddsSnapshotTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list odds snapshots: %w", err)
	}

	out := make([]odds.Snapshot, 0, len(rows))
	for _, row := range rows {
		out = append(out, odds.Snapshot{
			PlayerName:   row.PlayerName,
			Market:       odds.Market(row.Market),
			Line:         row.Line,
			Price:        row.Price,
			Side:         odds.Side(row.Side),
			SnapshotTime: row.SnapshotTime,
			Bookmaker:    row.Bookmaker,
			IngestedAt:   row.IngestedAt,
		})
	}

	return out, nil
}

func (r *OddsSnapshotRepository) Replace(ctx context.Context, items []odds.Snapshot) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace odds snapshots: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := clearLiveRows(ctx, tx, "odds_snapshots"); err != nil {
		return err
	}

	for _, item := range items {
		insertModel := oddsSnapshotInsertModel{
			PlayerName:   item.PlayerName,
			Market:       string(item.Market),
			Line:         item.Line,
			Price:        item.Price,
			Side:         string(item.Side),
			SnapshotTime: item.SnapshotTime,
			Bookmaker:    item.Bookmaker,
			IngestedAt:   item.IngestedAt,
		}
		query, args, err := qb.InsertModel("odds_snapshots", insertModel, `ON CONFLICT (player_name, market, bookmaker, snapshot_time) WHERE deleted_at IS NULL
DO UPDATE SET
    line = EXCLUDED.line,
    price = EXCLUDED.price,
    side = EXCLUDED.side,
    ingested_at = EXCLUDED.ingested_at,
    updated_at = NOW(),
    deleted_at = NULL`)
		if err != nil {
			return fmt.Errorf("build upsert odds snapshot query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert odds snapshot name=%s market=%s: %w", item.PlayerName, item.Market, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace odds snapshots tx: %w", err)
	}
	return nil
}

type CurrentLineRepository struct {
	db *sqlx.DB
}

func NewCurrentLineRepository(db *sqlx.DB) *CurrentLineRepository {
	return &CurrentLineRepository{db: db}
}

func (r *CurrentLineRepository) Replace(ctx context.Context, items []odds.CurrentLine) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace current lines: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := clearLiveRows(ctx, tx, "current_lines"); err != nil {
		return err
	}

	for _, item := range items {
		insertModel := currentLineInsertModel{
			PlayerID:     item.PlayerID,
			Market:       string(item.Market),
			StatType:     string(item.StatType),
			Line:         item.Line,
			Price:        item.Price,
			Bookmaker:    item.Bookmaker,
			SnapshotTime: item.SnapshotTime,
		}
		query, args, err := qb.InsertModel("current_lines", insertModel, `ON CONFLICT (player_id, market) WHERE deleted_at IS NULL
DO UPDATE SET
    stat_type = EXCLUDED.stat_type,
    line = EXCLUDED.line,
    price = EXCLUDED.price,
    bookmaker = EXCLUDED.bookmaker,
    snapshot_time = EXCLUDED.snapshot_time,
    updated_at = NOW(),
    deleted_at = NULL`)
		if err != nil {
			return fmt.Errorf("build upsert current line query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert current line player=%s market=%s: %w", item.PlayerID, item.Market, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace current lines tx: %w", err)
	}
	return nil
}

func (r *CurrentLineRepository) List(ctx context.Context) ([]odds.CurrentLine, error) {
	query, args, err := qb.Select("*").From("current_lines").
		Where(qb.IsNull("deleted_at")).
		OrderBy("player_id", "market").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list current lines query: %w", err)
	}

	var rows []currentLineTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list current lines: %w", err)
	}

	out := make([]odds.CurrentLine, 0, len(rows))
	for _, row := range rows {
		out = append(out, odds.CurrentLine{
			PlayerID:     row.PlayerID,
			Market:       odds.Market(row.Market),
			StatType:     boxscore.StatType(row.StatType),
			Line:         row.Line,
			Price:        row.Price,
			Bookmaker:    row.Bookmaker,
			SnapshotTime: row.SnapshotTime,
		})
	}

	return out, nil
}
