package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/courtsight/featuremart/internal/domain/boxscore"
	"github.com/courtsight/featuremart/internal/domain/mart"
	qb "github.com/courtsight/featuremart/internal/platform/querybuilder"
)

type RatingRepository struct {
	db *sqlx.DB
}

func NewRatingRepository(db *sqlx.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

func (r *RatingRepository) Replace(ctx context.Context, items []mart.PlayerRating) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace player ratings: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := clearLiveRows(ctx, tx, "player_ratings"); err != nil {
		return err
	}

	for _, item := range items {
		insertModel := playerRatingInsertModel{
			PlayerID:    item.PlayerID,
			TeamID:      item.TeamID,
			StatType:    string(item.StatType),
			ZScore:      item.ZScore,
			RatingStars: item.RatingStars,
		}
		query, args, err := qb.InsertModel("player_ratings", insertModel, `ON CONFLICT (player_id, stat_type) WHERE deleted_at IS NULL
DO UPDATE SET
    team_id = EXCLUDED.team_id,
    z_score = EXCLUDED.z_score,
    rating_stars = EXCLUDED.rating_stars,
    updated_at = NOW(),
    deleted_at = NULL`)
		if err != nil {
			return fmt.Errorf("build upsert player rating query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert player rating player=%s stat=%s: %w", item.PlayerID, item.StatType, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace player ratings tx: %w", err)
	}
	return nil
}

func (r *RatingRepository) List(ctx context.Context) ([]mart.PlayerRating, error) {
	query, args, err := qb.Select("*").From("player_ratings").
		Where(qb.IsNull("deleted_at")).
		OrderBy("team_id", "stat_type", "player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list player ratings query: %w", err)
	}

	var rows []playerRatingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list player ratings: %w", err)
	}

	out := make([]mart.PlayerRating, 0, len(rows))
	for _, row := range rows {
		out = append(out, mart.PlayerRating{
			PlayerID:    row.PlayerID,
			TeamID:      row.TeamID,
			StatType:    boxscore.StatType(row.StatType),
			ZScore:      row.ZScore,
			RatingStars: row.RatingStars,
		})
	}

	return out, nil
}
