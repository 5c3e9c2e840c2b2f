package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/courtsight/featuremart/internal/domain/schedule"
	qb "github.com/courtsight/featuremart/internal/platform/querybuilder"
)

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) List(ctx context.Context) ([]schedule.Game, error) {
	return r.list(ctx, nil)
}

func (r *GameRepository) ListBetween(ctx context.Context, from, to time.Time) ([]schedule.Game, error) {
	return r.list(ctx, []qb.Condition{
		qb.Expr("game_date >= ?", from),
		qb.Expr("game_date <= ?", to),
	})
}

func (r *GameRepository) Replace(ctx context.Context, items []schedule.Game) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace games: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := clearLiveRows(ctx, tx, "games"); err != nil {
		return err
	}

	for _, item := range items {
		insertModel := gameInsertModel{
			GameID:     item.ID,
			GameDate:   item.Date,
			HomeTeamID: item.HomeTeamID,
			AwayTeamID: item.AwayTeamID,
			HomeScore:  item.HomeScore,
			AwayScore:  item.AwayScore,
		}
		query, args, err := qb.InsertModel("games", insertModel, `ON CONFLICT (game_id) WHERE deleted_at IS NULL
DO UPDATE SET
    game_date = EXCLUDED.game_date,
    home_team_id = EXCLUDED.home_team_id,
    away_team_id = EXCLUDED.away_team_id,
    home_score = EXCLUDED.home_score,
    away_score = EXCLUDED.away_score,
    updated_at = NOW(),
    deleted_at = NULL`)
		if err != nil {
			return fmt.Errorf("build upsert game query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert game %s: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace games tx: %w", err)
	}
	return nil
}

func (r *GameRepository) list(ctx context.Context, conditions []qb.Condition) ([]schedule.Game, error) {
	builder := qb.Select("*").From("games").
		Where(qb.IsNull("deleted_at")).
		OrderBy("game_date", "game_id")
	if len(conditions) > 0 {
		builder = builder.Where(conditions...)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list games query: %w", err)
	}

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}

	out := make([]schedule.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, schedule.Game{
			ID:         row.GameID,
			Date:       row.GameDate,
			HomeTeamID: row.HomeTeamID,
			AwayTeamID: row.AwayTeamID,
			HomeScore:  row.HomeScore,
			AwayScore:  row.AwayScore,
		})
	}

	return out, nil
}
