package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/courtsight/featuremart/internal/domain/injury"
	qb "github.com/courtsight/featuremart/internal/platform/querybuilder"
)

type InjuryReportRepository struct {
	db *sqlx.DB
}

func NewInjuryReportRepository(db *sqlx.DB) *InjuryReportRepository {
	return &InjuryReportRepository{db: db}
}

func (r *InjuryReportRepository) List(ctx context.Context) ([]injury.Report, error) {
	query, args, err := qb.Select("*").From("injury_reports").
		Where(qb.IsNull("deleted_at")).
		OrderBy("report_date", "player_name", "ingested_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list injury reports query: %w", err)
	}

	var rows []injuryReportTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list injury reports: %w", err)
	}

	out := make([]injury.Report, 0, len(rows))
	for _, row := range rows {
		out = append(out, injury.Report{
			PlayerName: row.PlayerName,
			Status:     injury.Status(row.Status),
			ReportDate: row.ReportDate,
			ReportTime: row.ReportTime,
			IngestedAt: row.IngestedAt,
		})
	}

	return out, nil
}

func (r *InjuryReportRepository) Replace(ctx context.Context, items []injury.Report) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace injury reports: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := clearLiveRows(ctx, tx, "injury_reports"); err != nil {
		return err
	}

	for _, item := range items {
		insertModel := injuryReportInsertModel{
			PlayerName: item.PlayerName,
			Status:     string(item.Status),
			ReportDate: item.ReportDate,
			ReportTime: item.ReportTime,
			IngestedAt: item.IngestedAt,
		}
		query, args, err := qb.InsertModel("injury_reports", insertModel, `ON CONFLICT (player_name, report_date, report_time) WHERE deleted_at IS NULL
DO UPDATE SET
    status = EXCLUDED.status,
    ingested_at = EXCLUDED.ingested_at,
    updated_at = NOW(),
    deleted_at = NULL`)
		if err != nil {
			return fmt.Errorf("build upsert injury report query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert injury report name=%s: %w", item.PlayerName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace injury reports tx: %w", err)
	}
	return nil
}

type PlayerStatusRepository struct {
	db *sqlx.DB
}

func NewPlayerStatusRepository(db *sqlx.DB) *PlayerStatusRepository {
	return &PlayerStatusRepository{db: db}
}

func (r *PlayerStatusRepository) Replace(ctx context.Context, items []injury.PlayerStatus) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace player statuses: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := clearLiveRows(ctx, tx, "player_injury_statuses"); err != nil {
		return err
	}

	for _, item := range items {
		insertModel := playerStatusInsertModel{
			PlayerID:   item.PlayerID,
			Status:     statusToString(item.Status),
			ReportDate: item.ReportDate,
		}
		query, args, err := qb.InsertModel("player_injury_statuses", insertModel, `ON CONFLICT (player_id) WHERE deleted_at IS NULL
DO UPDATE SET
    status = EXCLUDED.status,
    report_date = EXCLUDED.report_date,
    updated_at = NOW(),
    deleted_at = NULL`)
		if err != nil {
			return fmt.Errorf("build upsert player status query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert player status player=%s: %w", item.PlayerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace player statuses tx: %w", err)
	}
	return nil
}

func (r *PlayerStatusRepository) List(ctx context.Context) ([]injury.PlayerStatus, error) {
	query, args, err := qb.Select("*").From("player_injury_statuses").
		Where(qb.IsNull("deleted_at")).
		OrderBy("player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list player statuses query: %w", err)
	}

	var rows []playerStatusTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list player statuses: %w", err)
	}

	out := make([]injury.PlayerStatus, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerStatusFromTableModel(row))
	}

	return out, nil
}

func (r *PlayerStatusRepository) GetByPlayer(ctx context.Context, playerID string) (injury.PlayerStatus, bool, error) {
	query, args, err := qb.Select("*").From("player_injury_statuses").
		Where(
			qb.Eq("player_id", playerID),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return injury.PlayerStatus{}, false, fmt.Errorf("build get player status query: %w", err)
	}

	var row playerStatusTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return injury.PlayerStatus{}, false, nil
		}
		return injury.PlayerStatus{}, false, fmt.Errorf("get player status %s: %w", playerID, err)
	}

	return playerStatusFromTableModel(row), true, nil
}

func playerStatusFromTableModel(row playerStatusTableModel) injury.PlayerStatus {
	out := injury.PlayerStatus{PlayerID: row.PlayerID, ReportDate: row.ReportDate}
	if row.Status != nil {
		status := injury.Status(*row.Status)
		out.Status = &status
	}
	return out
}

func statusToString(status *injury.Status) *string {
	if status == nil {
		return nil
	}
	value := string(*status)
	return &value
}
