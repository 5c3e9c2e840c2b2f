package usecase

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/courtsight/featuremart/internal/domain/boxscore"
	"github.com/courtsight/featuremart/internal/domain/injury"
	"github.com/courtsight/featuremart/internal/domain/mart"
	"github.com/courtsight/featuremart/internal/infrastructure/repository/memory"
)

func statusOut(playerID string) injury.PlayerStatus {
	status := injury.StatusOut
	return injury.PlayerStatus{PlayerID: playerID, Status: &status}
}

// Leader L is Out; backup B averaged 18 across the 3 games L sat out and 14
// across 40 games overall.
func TestSubstitutionService_LeaderOutBackupBaselines(t *testing.T) {
	ctx := context.Background()

	// 3 leader-out games at 18 points, 37 normal games summing so the
	// overall 40-game average lands on 14.
	const normalValue = 506.0 / 37.0
	var stats []boxscore.PlayerGameStat
	for i := 0; i < 40; i++ {
		gameID := fmt.Sprintf("g%03d", i)
		leaderMinutes, backupValue := 36.0, normalValue
		if i < 3 {
			leaderMinutes, backupValue = 0, 18
		}
		stats = append(stats,
			boxscore.PlayerGameStat{PlayerID: "L", GameID: gameID, TeamID: "bos", StatType: boxscore.StatPoints, Value: 0, MinutesPlayed: leaderMinutes, GameDate: day(2025, 1, 1)},
			boxscore.PlayerGameStat{PlayerID: "B", GameID: gameID, TeamID: "bos", StatType: boxscore.StatPoints, Value: backupValue, MinutesPlayed: 30, GameDate: day(2025, 1, 1)},
		)
	}

	store := memory.NewSnapshotStore()
	if err := store.ReplacePlayerGameStats(ctx, stats); err != nil {
		t.Fatalf("seed stats: %v", err)
	}

	lbRepo := memory.NewLeaderboardRepository()
	if err := lbRepo.Replace(ctx, []mart.LeaderboardEntry{
		{TeamID: "bos", StatType: boxscore.StatPoints, PlayerID: "L", Rank: 1, AvgValue: 30},
		{TeamID: "bos", StatType: boxscore.StatPoints, PlayerID: "B", Rank: 2, AvgValue: 14},
	}); err != nil {
		t.Fatalf("seed leaderboard: %v", err)
	}

	statusRepo := memory.NewInjuryStatusRepository()
	if err := statusRepo.Replace(ctx, []injury.PlayerStatus{
		statusOut("L"),
		{PlayerID: "B"},
	}); err != nil {
		t.Fatalf("seed statuses: %v", err)
	}

	insightRepo := memory.NewInsightRepository()
	svc := NewSubstitutionService(lbRepo, statusRepo, store.Stats(), insightRepo, nil)

	insights, err := svc.Rebuild(ctx)
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if len(insights) != 1 {
		t.Fatalf("unexpected insight count: got=%d want=1", len(insights))
	}

	got := insights[0]
	if got.LeaderID != "L" || got.BackupID != "B" || got.BackupRank != 2 {
		t.Fatalf("unexpected pairing: %+v", got)
	}
	if got.AvgWhenLeaderOut == nil || *got.AvgWhenLeaderOut != 18 || got.GamesAnalyzed != 3 {
		t.Fatalf("unexpected leader-out baseline: %+v", got)
	}
	if got.AvgNormal == nil || math.Abs(*got.AvgNormal-14) > 1e-9 || got.TotalGames != 40 {
		t.Fatalf("unexpected normal baseline: %+v", got)
	}
	if got.LeaderStatus != injury.StatusOut {
		t.Fatalf("unexpected leader status: %s", got.LeaderStatus)
	}
}

func TestPickLeaderAndBackup(t *testing.T) {
	group := []mart.LeaderboardEntry{
		{TeamID: "bos", PlayerID: "L", Rank: 1},
		{TeamID: "bos", PlayerID: "B1", Rank: 2},
		{TeamID: "bos", PlayerID: "B2", Rank: 3},
	}

	// Healthy leader: no insight.
	if _, _, ok := pickLeaderAndBackup(group, map[string]injury.PlayerStatus{}); ok {
		t.Fatalf("healthy leader must suppress the insight row")
	}

	// Leader out, rank 2 also out: rank 3 is the backup.
	statuses := map[string]injury.PlayerStatus{
		"L":  statusOut("L"),
		"B1": statusOut("B1"),
	}
	leader, backup, ok := pickLeaderAndBackup(group, statuses)
	if !ok || leader.PlayerID != "L" || backup.PlayerID != "B2" {
		t.Fatalf("expected minimal-rank healthy backup: ok=%v leader=%s backup=%s", ok, leader.PlayerID, backup.PlayerID)
	}

	// Everyone unavailable: no insight.
	statuses["B2"] = statusOut("B2")
	if _, _, ok := pickLeaderAndBackup(group, statuses); ok {
		t.Fatalf("no healthy backup must suppress the insight row")
	}
}

func TestBuildInsight_NilNotZeroWhenNoQualifyingGames(t *testing.T) {
	leader := mart.LeaderboardEntry{TeamID: "bos", StatType: boxscore.StatPoints, PlayerID: "L", Rank: 1}
	backup := mart.LeaderboardEntry{TeamID: "bos", StatType: boxscore.StatPoints, PlayerID: "B", Rank: 2}

	leaderLines := []boxscore.PlayerGameStat{
		{PlayerID: "L", GameID: "g1", MinutesPlayed: 35, Value: 30},
	}
	insight := BuildInsight(leader, backup, leaderLines, nil)

	if insight.AvgWhenLeaderOut != nil || insight.AvgNormal != nil {
		t.Fatalf("zero qualifying games must produce nil, not 0: %+v", insight)
	}
	if insight.GamesAnalyzed != 0 || insight.TotalGames != 0 {
		t.Fatalf("unexpected counters: %+v", insight)
	}
}
