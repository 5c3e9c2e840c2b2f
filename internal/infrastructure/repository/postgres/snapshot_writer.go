package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/courtsight/featuremart/internal/domain/boxscore"
	"github.com/courtsight/featuremart/internal/domain/identity"
	"github.com/courtsight/featuremart/internal/domain/injury"
	"github.com/courtsight/featuremart/internal/domain/odds"
	"github.com/courtsight/featuremart/internal/domain/player"
	"github.com/courtsight/featuremart/internal/domain/schedule"
	"github.com/courtsight/featuremart/internal/domain/team"
)

// SnapshotWriter fans the normalized snapshot out to the per-entity tables.
type SnapshotWriter struct {
	teams     *TeamRepository
	players   *PlayerRepository
	games     *GameRepository
	stats     *PlayerGameStatRepository
	reports   *InjuryReportRepository
	snapshots *OddsSnapshotRepository
	mappings  *IdentityMappingRepository
}

func NewSnapshotWriter(db *sqlx.DB) *SnapshotWriter {
	return &SnapshotWriter{
		teams:     NewTeamRepository(db),
		players:   NewPlayerRepository(db),
		games:     NewGameRepository(db),
		stats:     NewPlayerGameStatRepository(db),
		reports:   NewInjuryReportRepository(db),
		snapshots: NewOddsSnapshotRepository(db),
		mappings:  NewIdentityMappingRepository(db),
	}
}

func (w *SnapshotWriter) ReplaceTeams(ctx context.Context, items []team.Team) error {
	return w.teams.Replace(ctx, items)
}

func (w *SnapshotWriter) ReplacePlayers(ctx context.Context, items []player.Player) error {
	return w.players.Replace(ctx, items)
}

func (w *SnapshotWriter) ReplaceGames(ctx context.Context, items []schedule.Game) error {
	return w.games.Replace(ctx, items)
}

func (w *SnapshotWriter) ReplacePlayerGameStats(ctx context.Context, items []boxscore.PlayerGameStat) error {
	return w.stats.Replace(ctx, items)
}

func (w *SnapshotWriter) ReplaceInjuryReports(ctx context.Context, items []injury.Report) error {
	return w.reports.Replace(ctx, items)
}

func (w *SnapshotWriter) ReplaceOddsSnapshots(ctx context.Context, items []odds.Snapshot) error {
	return w.snapshots.Replace(ctx, items)
}

func (w *SnapshotWriter) ReplaceIdentityMappings(ctx context.Context, items []identity.Mapping) error {
	return w.mappings.Replace(ctx, items)
}
