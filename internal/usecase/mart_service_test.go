package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/courtsight/featuremart/internal/domain/boxscore"
	"github.com/courtsight/featuremart/internal/domain/injury"
	"github.com/courtsight/featuremart/internal/domain/mart"
	"github.com/courtsight/featuremart/internal/domain/odds"
	"github.com/courtsight/featuremart/internal/domain/player"
	"github.com/courtsight/featuremart/internal/domain/schedule"
	"github.com/courtsight/featuremart/internal/domain/team"
	"github.com/courtsight/featuremart/internal/infrastructure/repository/memory"
)

func TestAssembleFeatureRows_LeftJoinNeverDropsRows(t *testing.T) {
	players := []player.Player{
		{ID: "p1", Name: "Jayson Tatum", TeamID: "bos"},
		{ID: "p2", Name: "Bench Guy", TeamID: "bos"},
	}
	outStatus := injury.StatusOut
	statuses := []injury.PlayerStatus{{PlayerID: "p1", Status: &outStatus}}
	entries := []mart.LeaderboardEntry{
		{TeamID: "bos", StatType: boxscore.StatPoints, PlayerID: "p1", Rank: 1, AvgValue: 30, TeamAvg: 20, TeamStdDev: fl(5)},
	}
	lines := []odds.CurrentLine{
		{PlayerID: "p1", Market: odds.MarketPoints, StatType: boxscore.StatPoints, Line: 29.5, Bookmaker: "draftkings"},
	}

	rows := AssembleFeatureRows(players, nil, statuses, lines, entries, nil, nil, nil, day(2025, 1, 15))

	if len(rows) != 2*len(boxscore.AllStatTypes) {
		t.Fatalf("every (player, stat) pair gets a row: got=%d want=%d", len(rows), 2*len(boxscore.AllStatTypes))
	}

	byKey := make(map[string]mart.PlayerFeatureRow)
	for _, row := range rows {
		byKey[row.PlayerID+"|"+string(row.StatType)] = row
	}

	p1 := byKey["p1|points"]
	if p1.Rank == nil || *p1.Rank != 1 || p1.Line == nil || *p1.Line != 29.5 {
		t.Fatalf("joined features missing: %+v", p1)
	}
	if p1.InjuryStatus == nil || *p1.InjuryStatus != injury.StatusOut {
		t.Fatalf("injury status missing: %+v", p1.InjuryStatus)
	}

	// A player with no upstream features still has a complete row of nulls.
	p2 := byKey["p2|points"]
	if p2.PlayerName != "Bench Guy" {
		t.Fatalf("row base must come from the roster: %+v", p2)
	}
	if p2.Rank != nil || p2.Line != nil || p2.InjuryStatus != nil || p2.ZScore != nil {
		t.Fatalf("absent features must degrade to nil: %+v", p2)
	}

	p1Rebounds := byKey["p1|rebounds"]
	if p1Rebounds.Rank != nil || p1Rebounds.Line != nil {
		t.Fatalf("features must not leak across stat types: %+v", p1Rebounds)
	}
}

func TestAssembleFeatureRows_NextGameContext(t *testing.T) {
	players := []player.Player{{ID: "p1", Name: "Jayson Tatum", TeamID: "bos"}}
	nextGames := map[string]schedule.TeamGame{
		"bos": {TeamID: "bos", GameID: "g9", OpponentID: "lal", IsBackToBack: true, IsNextGame: true},
	}

	rows := AssembleFeatureRows(players, nextGames, nil, nil, nil, nil, nil, nil, day(2025, 1, 15))

	row := rows[0]
	if row.NextGameID == nil || *row.NextGameID != "g9" {
		t.Fatalf("next game missing: %+v", row)
	}
	if row.NextOpponentID == nil || *row.NextOpponentID != "lal" {
		t.Fatalf("next opponent missing: %+v", row)
	}
	if row.IsBackToBack == nil || !*row.IsBackToBack {
		t.Fatalf("back-to-back flag missing: %+v", row)
	}
}

func TestMartService_RebuildPersistsQueryableRows(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSnapshotStore()
	if err := store.ReplaceTeams(ctx, []team.Team{{ID: "bos", Name: "Boston Celtics", Abbreviation: "BOS"}}); err != nil {
		t.Fatalf("seed teams: %v", err)
	}
	if err := store.ReplacePlayers(ctx, []player.Player{{ID: "p1", Name: "Jayson Tatum", TeamID: "bos"}}); err != nil {
		t.Fatalf("seed players: %v", err)
	}

	rowRepo := memory.NewFeatureRowRepository()
	svc := NewMartService(
		store.Teams(), store.Players(), memory.NewTeamGameRepository(),
		memory.NewInjuryStatusRepository(), memory.NewCurrentLineRepository(),
		memory.NewLeaderboardRepository(), memory.NewInsightRepository(),
		memory.NewRatingRepository(), memory.NewRollingWindowRepository(),
		rowRepo, nil,
	)
	svc.now = func() time.Time { return day(2025, 1, 15) }

	rows, err := svc.Rebuild(ctx)
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if len(rows) != len(boxscore.AllStatTypes) {
		t.Fatalf("unexpected row count: got=%d", len(rows))
	}

	byPlayer, err := rowRepo.ListByPlayer(ctx, "p1")
	if err != nil || len(byPlayer) != len(boxscore.AllStatTypes) {
		t.Fatalf("rows must be queryable by player: n=%d err=%v", len(byPlayer), err)
	}
	if !byPlayer[0].ComputedAt.Equal(day(2025, 1, 15)) {
		t.Fatalf("unexpected computed-at: %v", byPlayer[0].ComputedAt)
	}
}
