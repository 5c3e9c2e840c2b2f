package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/courtsight/featuremart/internal/domain/boxscore"
	qb "github.com/courtsight/featuremart/internal/platform/querybuilder"
)

type PlayerGameStatRepository struct {
	db *sqlx.DB
}

func NewPlayerGameStatRepository(db *sqlx.DB) *PlayerGameStatRepository {
	return &PlayerGameStatRepository{db: db}
}

func (r *PlayerGameStatRepository) List(ctx context.Context) ([]boxscore.PlayerGameStat, error) {
	return r.list(ctx, nil)
}

func (r *PlayerGameStatRepository) ListByStatType(ctx context.Context, statType boxscore.StatType) ([]boxscore.PlayerGameStat, error) {
	return r.list(ctx, []qb.Condition{qb.Eq("stat_type", string(statType))})
}

func (r *PlayerGameStatRepository) ListBetween(ctx context.Context, statType boxscore.StatType, from, to time.Time) ([]boxscore.PlayerGameStat, error) {
	return r.list(ctx, []qb.Condition{
		qb.Eq("stat_type", string(statType)),
		qb.Expr("game_date >= ?", from),
		qb.Expr("game_date <= ?", to),
	})
}

func (r *PlayerGameStatRepository) ListByPlayer(ctx context.Context, playerID string, statType boxscore.StatType) ([]boxscore.PlayerGameStat, error) {
	return r.list(ctx, []qb.Condition{
		qb.Eq("player_id", playerID),
		qb.Eq("stat_type", string(statType)),
	})
}

func (r *PlayerGameStatRepository) Replace(ctx context.Context, items []boxscore.PlayerGameStat) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace player game stats: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := clearLiveRows(ctx, tx, "player_game_stats"); err != nil {
		return err
	}

	for _, item := range items {
		insertModel := playerGameStatInsertModel{
			PlayerID:      item.PlayerID,
			GameID:        item.GameID,
			TeamID:        item.TeamID,
			StatType:      string(item.StatType),
			Value:         item.Value,
			MinutesPlayed: item.MinutesPlayed,
			GameDate:      item.GameDate,
		}
		query, args, err := qb.InsertModel("player_game_stats", insertModel, `ON CONFLICT (player_id, game_id, stat_type) WHERE deleted_at IS NULL
DO UPDATE SET
    team_id = EXCLUDED.team_id,
    value = EXCLUDED.value,
    minutes_played = EXCLUDED.minutes_played,
    game_date = EXCLUDED.game_date,
    updated_at = NOW(),
    deleted_at = NULL`)
		if err != nil {
			return fmt.Errorf("build upsert player game stat query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert player game stat player=%s game=%s stat=%s: %w", item.PlayerID, item.GameID, item.StatType, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace player game stats tx: %w", err)
	}
	return nil
}

func (r *PlayerGameStatRepository) list(ctx context.Context, conditions []qb.Condition) ([]boxscore.PlayerGameStat, error) {
	builder := qb.Select("*").From("player_game_stats").
		Where(qb.IsNull("deleted_at")).
		OrderBy("game_date", "game_id", "player_id", "stat_type")
	if len(conditions) > 0 {
		builder = builder.Where(conditions...)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list player game stats query: %w", err)
	}

	var rows []playerGameStatTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list player game stats: %w", err)
	}

	out := make([]boxscore.PlayerGameStat, 0, len(rows))
	for _, row := range rows {
		out = append(out, boxscore.PlayerGameStat{
			PlayerID:      row.PlayerID,
			GameID:        row.GameID,
			TeamID:        row.TeamID,
			StatType:      boxscore.StatType(row.StatType),
			Value:         row.Value,
			MinutesPlayed: row.MinutesPlayed,
			GameDate:      row.GameDate,
		})
	}

	return out, nil
}
