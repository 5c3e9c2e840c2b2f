package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/courtsight/featuremart/internal/domain/boxscore"
	"github.com/courtsight/featuremart/internal/domain/injury"
	"github.com/courtsight/featuremart/internal/domain/mart"
	qb "github.com/courtsight/featuremart/internal/platform/querybuilder"
)

type InsightRepository struct {
	db *sqlx.DB
}

func NewInsightRepository(db *sqlx.DB) *InsightRepository {
	return &InsightRepository{db: db}
}

func (r *InsightRepository) Replace(ctx context.Context, items []mart.SubstitutionInsight) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace substitution insights: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := clearLiveRows(ctx, tx, "substitution_insights"); err != nil {
		return err
	}

	for _, item := range items {
		insertModel := substitutionInsightInsertModel{
			TeamID:           item.TeamID,
			StatType:         string(item.StatType),
			LeaderID:         item.LeaderID,
			LeaderStatus:     string(item.LeaderStatus),
			BackupID:         item.BackupID,
			BackupRank:       item.BackupRank,
			AvgWhenLeaderOut: item.AvgWhenLeaderOut,
			GamesAnalyzed:    item.GamesAnalyzed,
			AvgNormal:        item.AvgNormal,
			TotalGames:       item.TotalGames,
		}
		query, args, err := qb.InsertModel("substitution_insights", insertModel, `ON CONFLICT (team_id, stat_type) WHERE deleted_at IS NULL
DO UPDATE SET
    leader_id = EXCLUDED.leader_id,
    leader_status = EXCLUDED.leader_status,
    backup_id = EXCLUDED.backup_id,
    backup_rank = EXCLUDED.backup_rank,
    avg_when_leader_out = EXCLUDED.avg_when_leader_out,
    games_analyzed = EXCLUDED.games_analyzed,
    avg_normal = EXCLUDED.avg_normal,
    total_games = EXCLUDED.total_games,
    updated_at = NOW(),
    deleted_at = NULL`)
		if err != nil {
			return fmt.Errorf("build upsert substitution insight query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert substitution insight team=%s stat=%s: %w", item.TeamID, item.StatType, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace substitution insights tx: %w", err)
	}
	return nil
}

func (r *InsightRepository) List(ctx context.Context) ([]mart.SubstitutionInsight, error) {
	return r.list(ctx, nil)
}

func (r *InsightRepository) ListByTeam(ctx context.Context, teamID string) ([]mart.SubstitutionInsight, error) {
	return r.list(ctx, []qb.Condition{qb.Eq("team_id", teamID)})
}

func (r *InsightRepository) list(ctx context.Context, conditions []qb.Condition) ([]mart.SubstitutionInsight, error) {
	builder := qb.Select("*").From("substitution_insights").
		Where(qb.IsNull("deleted_at")).
		OrderBy("team_id", "stat_type")
	if len(conditions) > 0 {
		builder = builder.Where(conditions...)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list substitution insights query: %w", err)
	}

	var rows []substitutionInsightTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list substitution insights: %w", err)
	}

	out := make([]mart.SubstitutionInsight, 0, len(rows))
	for _, row := range rows {
		out = append(out, mart.SubstitutionInsight{
			TeamID:           row.TeamID,
			StatType:         boxscore.StatType(row.StatType),
			LeaderID:         row.LeaderID,
			LeaderStatus:     injury.Status(row.LeaderStatus),
			BackupID:         row.BackupID,
			BackupRank:       row.BackupRank,
			AvgWhenLeaderOut: row.AvgWhenLeaderOut,
			GamesAnalyzed:    row.GamesAnalyzed,
			AvgNormal:        row.AvgNormal,
			TotalGames:       row.TotalGames,
		})
	}

	return out, nil
}
