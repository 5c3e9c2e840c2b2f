package usecase

import (
	"context"
	"testing"

	"github.com/courtsight/featuremart/internal/infrastructure/repository/memory"
	"github.com/courtsight/featuremart/internal/normalize"
)

func TestNormalizeService_ReplacesSnapshotAndRecordsProvenance(t *testing.T) {
	store := memory.NewSnapshotStore()
	rawRepo := memory.NewRawDataRepository()
	svc := NewNormalizeService(happyPathSource(), store, rawRepo, nil)

	ctx := context.Background()
	if err := svc.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}

	teams, err := store.Teams().List(ctx)
	if err != nil || len(teams) != 2 {
		t.Fatalf("unexpected teams: n=%d err=%v", len(teams), err)
	}
	players, err := store.Players().List(ctx)
	if err != nil || len(players) != 3 {
		t.Fatalf("unexpected players: n=%d err=%v", len(players), err)
	}
	if rawRepo.Len() == 0 {
		t.Fatalf("provenance must be recorded for landed payloads")
	}
}

func TestNormalizeService_DriftAbortsBeforeAnyWrite(t *testing.T) {
	source := happyPathSource()
	source.players = append(source.players, `{"id":"","name":"Ghost","team_id":"bos"}`)

	store := memory.NewSnapshotStore()
	svc := NewNormalizeService(source, store, nil, nil)

	ctx := context.Background()
	err := svc.Run(ctx)
	if err == nil {
		t.Fatalf("expected schema drift error")
	}
	if !normalize.IsSchemaDrift(err) {
		t.Fatalf("drift must be detectable via the sentinel: %v", err)
	}

	teams, listErr := store.Teams().List(ctx)
	if listErr != nil || len(teams) != 0 {
		t.Fatalf("no canonical writes may land on a drifted snapshot: n=%d err=%v", len(teams), listErr)
	}
}
