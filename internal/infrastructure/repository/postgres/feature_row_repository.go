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

// FeatureRowRepository stores the wide mart rows served to downstream
// consumers.
type FeatureRowRepository struct {
	db *sqlx.DB
}

func NewFeatureRowRepository(db *sqlx.DB) *FeatureRowRepository {
	return &FeatureRowRepository{db: db}
}

func (r *FeatureRowRepository) Replace(ctx context.Context, items []mart.PlayerFeatureRow) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace feature rows: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := clearLiveRows(ctx, tx, "player_feature_rows"); err != nil {
		return err
	}

	for _, item := range items {
		insertModel := featureRowInsertModel{
			PlayerID:   item.PlayerID,
			PlayerName: item.PlayerName,
			TeamID:     item.TeamID,
			StatType:   string(item.StatType),

			Rank:        item.Rank,
			AvgValue:    item.AvgValue,
			TeamAvg:     item.TeamAvg,
			TeamStdDev:  item.TeamStdDev,
			ZScore:      item.ZScore,
			RatingStars: item.RatingStars,

			InjuryStatus: statusToString(item.InjuryStatus),

			BackupID:         item.BackupID,
			AvgWhenLeaderOut: item.AvgWhenLeaderOut,
			GamesAnalyzed:    item.GamesAnalyzed,
			AvgNormal:        item.AvgNormal,
			TotalGames:       item.TotalGames,

			Line:          item.Line,
			LineBookmaker: item.LineBookmaker,

			PctOverLast5:  item.PctOverLast5,
			PctOverLast10: item.PctOverLast10,
			PctOverLast30: item.PctOverLast30,

			NextGameID:     item.NextGameID,
			NextOpponentID: item.NextOpponentID,
			IsBackToBack:   item.IsBackToBack,

			ComputedAt: item.ComputedAt,
		}
		query, args, err := qb.InsertModel("player_feature_rows", insertModel, `ON CONFLICT (player_id, stat_type) WHERE deleted_at IS NULL
DO UPDATE SET
    player_name = EXCLUDED.player_name,
    team_id = EXCLUDED.team_id,
    rank = EXCLUDED.rank,
    avg_value = EXCLUDED.avg_value,
    team_avg = EXCLUDED.team_avg,
    team_stddev = EXCLUDED.team_stddev,
    z_score = EXCLUDED.z_score,
    rating_stars = EXCLUDED.rating_stars,
    injury_status = EXCLUDED.injury_status,
    backup_id = EXCLUDED.backup_id,
    avg_when_leader_out = EXCLUDED.avg_when_leader_out,
    games_analyzed = EXCLUDED.games_analyzed,
    avg_normal = EXCLUDED.avg_normal,
    total_games = EXCLUDED.total_games,
    line = EXCLUDED.line,
    line_bookmaker = EXCLUDED.line_bookmaker,
    pct_over_last_5 = EXCLUDED.pct_over_last_5,
    pct_over_last_10 = EXCLUDED.pct_over_last_10,
    pct_over_last_30 = EXCLUDED.pct_over_last_30,
    next_game_id = EXCLUDED.next_game_id,
    next_opponent_id = EXCLUDED.next_opponent_id,
    is_back_to_back = EXCLUDED.is_back_to_back,
    computed_at = EXCLUDED.computed_at,
    updated_at = NOW(),
    deleted_at = NULL`)
		if err != nil {
			return fmt.Errorf("build upsert feature row query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert feature row player=%s stat=%s: %w", item.PlayerID, item.StatType, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace feature rows tx: %w", err)
	}
	return nil
}

func (r *FeatureRowRepository) ListByPlayer(ctx context.Context, playerID string) ([]mart.PlayerFeatureRow, error) {
	return r.list(ctx, []qb.Condition{qb.Eq("player_id", playerID)})
}

func (r *FeatureRowRepository) ListByTeam(ctx context.Context, teamID string) ([]mart.PlayerFeatureRow, error) {
	return r.list(ctx, []qb.Condition{qb.Eq("team_id", teamID)})
}

func (r *FeatureRowRepository) ListByStatType(ctx context.Context, statType boxscore.StatType) ([]mart.PlayerFeatureRow, error) {
	return r.list(ctx, []qb.Condition{qb.Eq("stat_type", string(statType))})
}

func (r *FeatureRowRepository) list(ctx context.Context, conditions []qb.Condition) ([]mart.PlayerFeatureRow, error) {
	builder := qb.Select("*").From("player_feature_rows").
		Where(qb.IsNull("deleted_at")).
		OrderBy("player_id", "stat_type")
	if len(conditions) > 0 {
		builder = builder.Where(conditions...)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list feature rows query: %w", err)
	}

	var rows []featureRowTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list feature rows: %w", err)
	}

	out := make([]mart.PlayerFeatureRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, featureRowFromTableModel(row))
	}

	return out, nil
}

func featureRowFromTableModel(row featureRowTableModel) mart.PlayerFeatureRow {
	out := mart.PlayerFeatureRow{
		PlayerID:   row.PlayerID,
		PlayerName: row.PlayerName,
		TeamID:     row.TeamID,
		StatType:   boxscore.StatType(row.StatType),

		Rank:        row.Rank,
		AvgValue:    row.AvgValue,
		TeamAvg:     row.TeamAvg,
		TeamStdDev:  row.TeamStdDev,
		ZScore:      row.ZScore,
		RatingStars: row.RatingStars,

		BackupID:         row.BackupID,
		AvgWhenLeaderOut: row.AvgWhenLeaderOut,
		GamesAnalyzed:    row.GamesAnalyzed,
		AvgNormal:        row.AvgNormal,
		TotalGames:       row.TotalGames,

		Line:          row.Line,
		LineBookmaker: row.LineBookmaker,

		PctOverLast5:  row.PctOverLast5,
		PctOverLast10: row.PctOverLast10,
		PctOverLast30: row.PctOverLast30,

		NextGameID:     row.NextGameID,
		NextOpponentID: row.NextOpponentID,
		IsBackToBack:   row.IsBackToBack,

		ComputedAt: row.ComputedAt,
	}
	if row.InjuryStatus != nil {
		status := injury.Status(*row.InjuryStatus)
		out.InjuryStatus = &status
	}
	return out
}
