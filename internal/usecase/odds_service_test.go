package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/courtsight/featuremart/internal/domain/boxscore"
	"github.com/courtsight/featuremart/internal/domain/odds"
	"github.com/courtsight/featuremart/internal/infrastructure/repository/memory"
)

func TestCurrentLines_FreshestPerPlayerMarket(t *testing.T) {
	at := func(hour int) time.Time { return day(2025, 1, 14).Add(time.Duration(hour) * time.Hour) }
	snapshots := []odds.Snapshot{
		{PlayerName: "Jayson Tatum", Market: odds.MarketPoints, Line: 28.5, SnapshotTime: at(6), IngestedAt: at(6), Bookmaker: "draftkings"},
		{PlayerName: "Jayson Tatum", Market: odds.MarketPoints, Line: 29.5, SnapshotTime: at(9), IngestedAt: at(9), Bookmaker: "fanduel"},
		{PlayerName: "No Mapping", Market: odds.MarketPoints, Line: 10.5, SnapshotTime: at(9), IngestedAt: at(9), Bookmaker: "fanduel"},
	}
	resolved := map[string]string{"Jayson Tatum": "bos-01"}

	dq := NewDataQuality()
	lines := CurrentLines(snapshots, resolved, dq)

	if len(lines) != 1 {
		t.Fatalf("unexpected line count: got=%d want=1", len(lines))
	}
	if lines[0].Line != 29.5 || lines[0].Bookmaker != "fanduel" {
		t.Fatalf("max snapshot_time must win: %+v", lines[0])
	}
	if lines[0].StatType != boxscore.StatPoints {
		t.Fatalf("unexpected stat type: %s", lines[0].StatType)
	}
	if got := dq.Counts()[DQUnresolvedOddsName]; got != 1 {
		t.Fatalf("unexpected unresolved-name count: got=%d want=1", got)
	}
}

func TestCurrentLines_DuplicateSnapshotLatestIngestionWins(t *testing.T) {
	at := day(2025, 1, 14).Add(9 * time.Hour)
	snapshots := []odds.Snapshot{
		{PlayerName: "Jayson Tatum", Market: odds.MarketPoints, Line: 28.5, SnapshotTime: at, IngestedAt: at, Bookmaker: "draftkings"},
		{PlayerName: "Jayson Tatum", Market: odds.MarketPoints, Line: 29.5, SnapshotTime: at, IngestedAt: at.Add(time.Minute), Bookmaker: "draftkings"},
	}

	dq := NewDataQuality()
	lines := CurrentLines(snapshots, map[string]string{"Jayson Tatum": "bos-01"}, dq)

	if len(lines) != 1 || lines[0].Line != 29.5 {
		t.Fatalf("latest ingestion must win the duplicate: %+v", lines)
	}
	if got := dq.Counts()[DQDuplicateSnapshot]; got != 1 {
		t.Fatalf("unexpected duplicate count: got=%d want=1", got)
	}
}

func TestCurrentLines_BinaryMarketForcesFixedLine(t *testing.T) {
	snapshots := []odds.Snapshot{
		{PlayerName: "Nikola Jokic", Market: odds.MarketTripleDouble, Line: 0.5, SnapshotTime: day(2025, 1, 14), IngestedAt: day(2025, 1, 14)},
	}

	lines := CurrentLines(snapshots, map[string]string{"Nikola Jokic": "den-01"}, nil)
	if len(lines) != 1 || lines[0].Line != odds.BinaryLine {
		t.Fatalf("binary market must settle against a line of 1: %+v", lines)
	}
}

func TestClassifyStats(t *testing.T) {
	lines := []odds.CurrentLine{
		{PlayerID: "bos-01", StatType: boxscore.StatPoints, Line: 29.5},
		{PlayerID: "den-01", StatType: boxscore.StatTripleDouble, Line: odds.BinaryLine},
	}
	stats := []boxscore.PlayerGameStat{
		{PlayerID: "bos-01", GameID: "g1", StatType: boxscore.StatPoints, Value: 34, MinutesPlayed: 36, GameDate: day(2025, 1, 10)},
		{PlayerID: "bos-01", GameID: "g2", StatType: boxscore.StatPoints, Value: 29.5, MinutesPlayed: 37, GameDate: day(2025, 1, 13)},
		{PlayerID: "bos-01", GameID: "g3", StatType: boxscore.StatPoints, Value: 12, MinutesPlayed: 20, GameDate: day(2025, 1, 14)},
		{PlayerID: "bos-01", GameID: "g4", StatType: boxscore.StatPoints, Value: 0, MinutesPlayed: 0, GameDate: day(2025, 1, 15)},
		{PlayerID: "den-01", GameID: "g1", StatType: boxscore.StatTripleDouble, Value: 1, MinutesPlayed: 36, GameDate: day(2025, 1, 10)},
		{PlayerID: "gsw-01", GameID: "g1", StatType: boxscore.StatPoints, Value: 20, MinutesPlayed: 30, GameDate: day(2025, 1, 10)},
	}

	out := ClassifyStats(stats, lines, nil)

	if len(out) != 5 {
		t.Fatalf("zero-minute games must be excluded: got=%d want=5", len(out))
	}

	byKey := make(map[string]odds.Classification)
	for _, c := range out {
		byKey[c.PlayerID+"|"+c.GameID] = c
	}

	if got := *byKey["bos-01|g1"].VsLine; got != odds.VsOver {
		t.Fatalf("34 vs 29.5 must be over, got=%s", got)
	}
	if got := *byKey["bos-01|g2"].VsLine; got != odds.VsOver {
		t.Fatalf("value equal to line must be over, got=%s", got)
	}
	if got := *byKey["bos-01|g3"].VsLine; got != odds.VsUnder {
		t.Fatalf("12 vs 29.5 must be under, got=%s", got)
	}
	if got := *byKey["den-01|g1"].VsLine; got != odds.VsOver {
		t.Fatalf("achieved triple-double must be over, got=%s", got)
	}

	noLine := byKey["gsw-01|g1"]
	if noLine.Line != nil || noLine.VsLine != nil {
		t.Fatalf("no-line game must classify as nil: %+v", noLine)
	}
}

func TestOddsService_ClassifyIncrementalUsesWatermark(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSnapshotStore()
	if err := store.ReplacePlayerGameStats(ctx, []boxscore.PlayerGameStat{
		{PlayerID: "bos-01", GameID: "g1", TeamID: "bos", StatType: boxscore.StatPoints, Value: 30, MinutesPlayed: 35, GameDate: day(2025, 1, 10)},
		{PlayerID: "bos-01", GameID: "g2", TeamID: "bos", StatType: boxscore.StatPoints, Value: 25, MinutesPlayed: 35, GameDate: day(2025, 1, 12)},
	}); err != nil {
		t.Fatalf("seed stats: %v", err)
	}

	lineRepo := memory.NewCurrentLineRepository()
	if err := lineRepo.Replace(ctx, []odds.CurrentLine{
		{PlayerID: "bos-01", Market: odds.MarketPoints, StatType: boxscore.StatPoints, Line: 27.5},
	}); err != nil {
		t.Fatalf("seed lines: %v", err)
	}

	classRepo := memory.NewClassificationRepository()
	svc := NewOddsService(store.OddsSnapshots(), store.IdentityMappings(), lineRepo, classRepo, store.Stats(), 80, nil)

	if _, err := svc.Classify(ctx, false, nil); err != nil {
		t.Fatalf("full classify: %v", err)
	}
	all, err := classRepo.List(ctx)
	if err != nil || len(all) != 2 {
		t.Fatalf("unexpected full classify result: n=%d err=%v", len(all), err)
	}

	// A later game lands; the incremental pass only touches rows past the
	// stored watermark.
	if err := store.ReplacePlayerGameStats(ctx, []boxscore.PlayerGameStat{
		{PlayerID: "bos-01", GameID: "g1", TeamID: "bos", StatType: boxscore.StatPoints, Value: 30, MinutesPlayed: 35, GameDate: day(2025, 1, 10)},
		{PlayerID: "bos-01", GameID: "g2", TeamID: "bos", StatType: boxscore.StatPoints, Value: 25, MinutesPlayed: 35, GameDate: day(2025, 1, 12)},
		{PlayerID: "bos-01", GameID: "g3", TeamID: "bos", StatType: boxscore.StatPoints, Value: 31, MinutesPlayed: 35, GameDate: day(2025, 1, 14)},
	}); err != nil {
		t.Fatalf("reseed stats: %v", err)
	}

	appended, err := svc.Classify(ctx, true, nil)
	if err != nil {
		t.Fatalf("incremental classify: %v", err)
	}
	if len(appended) != 1 || appended[0].GameID != "g3" {
		t.Fatalf("incremental run must only recompute past the watermark: %+v", appended)
	}

	all, err = classRepo.List(ctx)
	if err != nil || len(all) != 3 {
		t.Fatalf("unexpected total after incremental: n=%d err=%v", len(all), err)
	}

	mark, ok, err := classRepo.Watermark(ctx)
	if err != nil || !ok || !mark.Equal(day(2025, 1, 14)) {
		t.Fatalf("unexpected watermark: %v ok=%v err=%v", mark, ok, err)
	}
}
