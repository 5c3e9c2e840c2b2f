package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/courtsight/featuremart/internal/domain/boxscore"
	"github.com/courtsight/featuremart/internal/domain/mart"
	qb "github.com/courtsight/featuremart/internal/platform/querybuilder"
)

type LeaderboardRepository struct {
	db *sqlx.DB
}

func NewLeaderboardRepository(db *sqlx.DB) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

func (r *LeaderboardRepository) Replace(ctx context.Context, items []mart.LeaderboardEntry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace leaderboard entries: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := clearLiveRows(ctx, tx, "leaderboard_entries"); err != nil {
		return err
	}

	for _, item := range items {
		insertModel := leaderboardEntryInsertModel{
			TeamID:      item.TeamID,
			StatType:    string(item.StatType),
			PlayerID:    item.PlayerID,
			Rank:        item.Rank,
			AvgValue:    item.AvgValue,
			GamesPlayed: item.GamesPlayed,
			TeamAvg:     item.TeamAvg,
			TeamStdDev:  item.TeamStdDev,
		}
		query, args, err := qb.InsertModel("leaderboard_entries", insertModel, `ON CONFLICT (team_id, stat_type, player_id) WHERE deleted_at IS NULL
DO UPDATE SET
    rank = EXCLUDED.rank,
    avg_value = EXCLUDED.avg_value,
    games_played = EXCLUDED.games_played,
    team_avg = EXCLUDED.team_avg,
    team_stddev = EXCLUDED.team_stddev,
    updated_at = NOW(),
    deleted_at = NULL`)
		if err != nil {
			return fmt.Errorf("build upsert leaderboard entry query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert leaderboard entry team=%s stat=%s player=%s: %w", item.TeamID, item.StatType, item.PlayerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace leaderboard entries tx: %w", err)
	}
	return nil
}

func (r *LeaderboardRepository) List(ctx context.Context) ([]mart.LeaderboardEntry, error) {
	return r.list(ctx, nil)
}

func (r *LeaderboardRepository) ListByTeam(ctx context.Context, teamID string, statType boxscore.StatType) ([]mart.LeaderboardEntry, error) {
	return r.list(ctx, []qb.Condition{
		qb.Eq("team_id", teamID),
		qb.Eq("stat_type", string(statType)),
	})
}

func (r *LeaderboardRepository) list(ctx context.Context, conditions []qb.Condition) ([]mart.LeaderboardEntry, error) {
	builder := qb.Select("*").From("leaderboard_entries").
		Where(qb.IsNull("deleted_at")).
		OrderBy("team_id", "stat_type", "rank")
	if len(conditions) > 0 {
		builder = builder.Where(conditions...)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list leaderboard entries query: %w", err)
	}

	var rows []leaderboardEntryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list leaderboard entries: %w", err)
	}

	out := make([]mart.LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, mart.LeaderboardEntry{
			TeamID:      row.TeamID,
			StatType:    boxscore.StatType(row.StatType),
			PlayerID:    row.PlayerID,
			Rank:        row.Rank,
			AvgValue:    row.AvgValue,
			GamesPlayed: row.GamesPlayed,
			TeamAvg:     row.TeamAvg,
			TeamStdDev:  row.TeamStdDev,
		})
	}

	return out, nil
}
