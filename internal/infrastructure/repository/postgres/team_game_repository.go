package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/courtsight/featuremart/internal/domain/schedule"
	qb "github.com/courtsight/featuremart/internal/platform/querybuilder"
)

type TeamGameRepository struct {
	db *sqlx.DB
}

func NewTeamGameRepository(db *sqlx.DB) *TeamGameRepository {
	return &TeamGameRepository{db: db}
}

func (r *TeamGameRepository) Replace(ctx context.Context, items []schedule.TeamGame) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace team games: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := clearLiveRows(ctx, tx, "team_games"); err != nil {
		return err
	}

	for _, item := range items {
		insertModel := teamGameInsertModel{
			TeamID:            item.TeamID,
			GameID:            item.GameID,
			GameDate:          item.Date,
			OpponentID:        item.OpponentID,
			IsHome:            item.IsHome,
			PreviousGameID:    item.PreviousGameID,
			DaysSincePrevious: item.DaysSincePrevious,
			IsBackToBack:      item.IsBackToBack,
			IsNextGame:        item.IsNextGame,
		}
		query, args, err := qb.InsertModel("team_games", insertModel, `ON CONFLICT (team_id, game_id) WHERE deleted_at IS NULL
DO UPDATE SET
    game_date = EXCLUDED.game_date,
    opponent_id = EXCLUDED.opponent_id,
    is_home = EXCLUDED.is_home,
    previous_game_id = EXCLUDED.previous_game_id,
    days_since_previous = EXCLUDED.days_since_previous,
    is_back_to_back = EXCLUDED.is_back_to_back,
    is_next_game = EXCLUDED.is_next_game,
    updated_at = NOW(),
    deleted_at = NULL`)
		if err != nil {
			return fmt.Errorf("build upsert team game query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert team game team=%s game=%s: %w", item.TeamID, item.GameID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace team games tx: %w", err)
	}
	return nil
}

func (r *TeamGameRepository) ListByTeam(ctx context.Context, teamID string) ([]schedule.TeamGame, error) {
	query, args, err := qb.Select("*").From("team_games").
		Where(
			qb.Eq("team_id", teamID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("game_date", "game_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list team games query: %w", err)
	}

	var rows []teamGameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list team games: %w", err)
	}

	out := make([]schedule.TeamGame, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamGameFromTableModel(row))
	}

	return out, nil
}

func (r *TeamGameRepository) NextGame(ctx context.Context, teamID string) (schedule.TeamGame, bool, error) {
	query, args, err := qb.Select("*").From("team_games").
		Where(
			qb.Eq("team_id", teamID),
			qb.Eq("is_next_game", true),
			qb.IsNull("deleted_at"),
		).
		OrderBy("game_date", "game_id").
		Limit(1).
		ToSQL()
	if err != nil {
		return schedule.TeamGame{}, false, fmt.Errorf("build next team game query: %w", err)
	}

	var row teamGameTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return schedule.TeamGame{}, false, nil
		}
		return schedule.TeamGame{}, false, fmt.Errorf("get next team game %s: %w", teamID, err)
	}

	return teamGameFromTableModel(row), true, nil
}

func teamGameFromTableModel(row teamGameTableModel) schedule.TeamGame {
	return schedule.TeamGame{
		TeamID:            row.TeamID,
		GameID:            row.GameID,
		Date:              row.GameDate,
		OpponentID:        row.OpponentID,
		IsHome:            row.IsHome,
		PreviousGameID:    row.PreviousGameID,
		DaysSincePrevious: row.DaysSincePrevious,
		IsBackToBack:      row.IsBackToBack,
		IsNextGame:        row.IsNextGame,
	}
}
