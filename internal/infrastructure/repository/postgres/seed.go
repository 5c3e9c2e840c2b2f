package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/courtsight/featuremart/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the demo snapshot into an empty database so a dev
// environment can run the pipeline without a landing feed.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM teams WHERE deleted_at IS NULL`); err != nil {
		return fmt.Errorf("count teams for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	writer := NewSnapshotWriter(db)
	if err := writer.ReplaceTeams(ctx, memory.SeedTeams()); err != nil {
		return fmt.Errorf("seed teams: %w", err)
	}
	if err := writer.ReplacePlayers(ctx, memory.SeedPlayers()); err != nil {
		return fmt.Errorf("seed players: %w", err)
	}
	if err := writer.ReplaceGames(ctx, memory.SeedGames()); err != nil {
		return fmt.Errorf("seed games: %w", err)
	}
	if err := writer.ReplacePlayerGameStats(ctx, memory.SeedPlayerGameStats()); err != nil {
		return fmt.Errorf("seed player game stats: %w", err)
	}
	if err := writer.ReplaceInjuryReports(ctx, memory.SeedInjuryReports()); err != nil {
		return fmt.Errorf("seed injury reports: %w", err)
	}
	if err := writer.ReplaceOddsSnapshots(ctx, memory.SeedOddsSnapshots()); err != nil {
		return fmt.Errorf("seed odds snapshots: %w", err)
	}
	if err := writer.ReplaceIdentityMappings(ctx, memory.SeedIdentityMappings()); err != nil {
		return fmt.Errorf("seed identity mappings: %w", err)
	}

	return nil
}
