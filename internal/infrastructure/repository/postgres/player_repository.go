package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/courtsight/featuremart/internal/domain/player"
	qb "github.com/courtsight/featuremart/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	return r.list(ctx, nil)
}

func (r *PlayerRepository) ListByTeam(ctx context.Context, teamID string) ([]player.Player, error) {
	return r.list(ctx, []qb.Condition{qb.Eq("team_id", teamID)})
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	query, args, err := qb.Select("*").From("players").
		Where(
			qb.Eq("player_id", playerID),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build get player query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player %s: %w", playerID, err)
	}

	return playerFromTableModel(row), true, nil
}

func (r *PlayerRepository) Replace(ctx context.Context, items []player.Player) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace players: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := clearLiveRows(ctx, tx, "players"); err != nil {
		return err
	}

	for _, item := range items {
		insertModel := playerInsertModel{
			PlayerID: item.ID,
			Name:     item.Name,
			TeamID:   item.TeamID,
			Position: string(item.Position),
		}
		query, args, err := qb.InsertModel("players", insertModel, `ON CONFLICT (player_id) WHERE deleted_at IS NULL
DO UPDATE SET
    name = EXCLUDED.name,
    team_id = EXCLUDED.team_id,
    position = EXCLUDED.position,
    updated_at = NOW(),
    deleted_at = NULL`)
		if err != nil {
			return fmt.Errorf("build upsert player query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert player %s: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace players tx: %w", err)
	}
	return nil
}

func (r *PlayerRepository) list(ctx context.Context, conditions []qb.Condition) ([]player.Player, error) {
	builder := qb.Select("*").From("players").
		Where(qb.IsNull("deleted_at")).
		OrderBy("player_id")
	if len(conditions) > 0 {
		builder = builder.Where(conditions...)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerFromTableModel(row))
	}

	return out, nil
}

func playerFromTableModel(row playerTableModel) player.Player {
	return player.Player{
		ID:       row.PlayerID,
		Name:     row.Name,
		TeamID:   row.TeamID,
		Position: player.Position(row.Position),
	}
}
