package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/courtsight/featuremart/internal/domain/identity"
	"github.com/courtsight/featuremart/internal/domain/injury"
	"github.com/courtsight/featuremart/internal/domain/player"
	"github.com/courtsight/featuremart/internal/infrastructure/repository/memory"
)

func TestResolveMappings_ThresholdAndAmbiguity(t *testing.T) {
	mappings := []identity.Mapping{
		{SourceSystem: identity.SourceInjuryReport, SourceName: "J. Tatum", CanonicalPlayerID: "bos-01", ConfidenceScore: 91, UpdatedAt: day(2025, 1, 10)},
		{SourceSystem: identity.SourceInjuryReport, SourceName: "J. Tatum", CanonicalPlayerID: "bos-99", ConfidenceScore: 85, UpdatedAt: day(2025, 1, 12)},
		{SourceSystem: identity.SourceInjuryReport, SourceName: "T. Low", CanonicalPlayerID: "lal-07", ConfidenceScore: 60, UpdatedAt: day(2025, 1, 12)},
	}

	dq := NewDataQuality()
	resolved := ResolveMappings(context.Background(), mappings, 80, dq, nil)

	if got := resolved["J. Tatum"]; got != "bos-01" {
		t.Fatalf("highest confidence must win: got=%s want=bos-01", got)
	}
	if _, ok := resolved["T. Low"]; ok {
		t.Fatalf("below-threshold mapping must be excluded")
	}
	if got := dq.Counts()[DQAmbiguousMapping]; got != 1 {
		t.Fatalf("unexpected ambiguity count: got=%d want=1", got)
	}
}

func TestResolveMappings_TieBreaksAreDeterministic(t *testing.T) {
	mappings := []identity.Mapping{
		{SourceName: "A. Player", CanonicalPlayerID: "t2", ConfidenceScore: 90, UpdatedAt: day(2025, 1, 10)},
		{SourceName: "A. Player", CanonicalPlayerID: "t1", ConfidenceScore: 90, UpdatedAt: day(2025, 1, 10)},
	}

	for range 20 {
		resolved := ResolveMappings(context.Background(), mappings, 80, nil, nil)
		if got := resolved["A. Player"]; got != "t1" {
			t.Fatalf("equal confidence and recency must pick smallest id: got=%s", got)
		}
	}
}

func TestLatestReportByName(t *testing.T) {
	reports := []injury.Report{
		{PlayerName: "J. Tatum", Status: injury.StatusQuestionable, ReportDate: day(2025, 1, 12), IngestedAt: day(2025, 1, 12).Add(8 * time.Hour)},
		{PlayerName: "J. Tatum", Status: injury.StatusOut, ReportDate: day(2025, 1, 14), IngestedAt: day(2025, 1, 14).Add(8 * time.Hour)},
		{PlayerName: "J. Tatum", Status: injury.StatusDoubtful, ReportDate: day(2025, 1, 14), IngestedAt: day(2025, 1, 14).Add(6 * time.Hour)},
	}

	latest := LatestReportByName(reports)
	if got := latest["J. Tatum"].Status; got != injury.StatusOut {
		t.Fatalf("latest report must win: got=%s want=%s", got, injury.StatusOut)
	}
}

func TestInjuryService_RebuildLeftJoinsFullRoster(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSnapshotStore()

	if err := store.ReplacePlayers(ctx, []player.Player{
		{ID: "bos-01", Name: "Jayson Tatum", TeamID: "bos"},
		{ID: "bos-02", Name: "Jaylen Brown", TeamID: "bos"},
	}); err != nil {
		t.Fatalf("seed players: %v", err)
	}
	if err := store.ReplaceInjuryReports(ctx, []injury.Report{
		{PlayerName: "J. Tatum", Status: injury.StatusOut, ReportDate: day(2025, 1, 14), IngestedAt: day(2025, 1, 14)},
		{PlayerName: "Jayson Tatum", Status: injury.StatusQuestionable, ReportDate: day(2025, 1, 12), IngestedAt: day(2025, 1, 12)},
		{PlayerName: "Unknown Guy", Status: injury.StatusOut, ReportDate: day(2025, 1, 14), IngestedAt: day(2025, 1, 14)},
	}); err != nil {
		t.Fatalf("seed reports: %v", err)
	}
	if err := store.ReplaceIdentityMappings(ctx, []identity.Mapping{
		{SourceSystem: identity.SourceInjuryReport, SourceName: "J. Tatum", CanonicalPlayerID: "bos-01", ConfidenceScore: 91, UpdatedAt: day(2025, 1, 14)},
		{SourceSystem: identity.SourceInjuryReport, SourceName: "Jayson Tatum", CanonicalPlayerID: "bos-01", ConfidenceScore: 100, UpdatedAt: day(2025, 1, 14)},
	}); err != nil {
		t.Fatalf("seed mappings: %v", err)
	}

	statuses := memory.NewInjuryStatusRepository()
	svc := NewInjuryService(store.InjuryReports(), store.IdentityMappings(), store.Players(), statuses, 80, nil)

	dq := NewDataQuality()
	rows, err := svc.Rebuild(ctx, dq)
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("every roster player gets a row: got=%d want=2", len(rows))
	}

	// bos-01 has two aliases; the fresher report (Out, Jan 14) must win.
	tatum, ok, err := statuses.GetByPlayer(ctx, "bos-01")
	if err != nil || !ok {
		t.Fatalf("expected status row for bos-01: ok=%v err=%v", ok, err)
	}
	if tatum.Status == nil || *tatum.Status != injury.StatusOut {
		t.Fatalf("unexpected status for bos-01: %+v", tatum.Status)
	}

	brown, ok, err := statuses.GetByPlayer(ctx, "bos-02")
	if err != nil || !ok {
		t.Fatalf("expected status row for bos-02: ok=%v err=%v", ok, err)
	}
	if brown.Status != nil {
		t.Fatalf("unreported player must have nil status, got=%v", *brown.Status)
	}
	if brown.Unavailable() {
		t.Fatalf("nil status must read as available")
	}

	if got := dq.Counts()[DQUnmappedInjuryName]; got != 1 {
		t.Fatalf("unexpected unmapped-name count: got=%d want=1", got)
	}
}
