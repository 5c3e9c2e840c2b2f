package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/courtsight/featuremart/internal/domain/boxscore"
	"github.com/courtsight/featuremart/internal/domain/mart"
	"github.com/courtsight/featuremart/internal/domain/odds"
	"github.com/courtsight/featuremart/internal/infrastructure/repository/memory"
)

func classified(playerID, gameID string, dd int, outcome *odds.VsLine) odds.Classification {
	c := odds.Classification{
		PlayerID: playerID,
		GameID:   gameID,
		StatType: boxscore.StatPoints,
		GameDate: day(2025, 1, dd),
		Value:    20,
	}
	if outcome != nil {
		line := 19.5
		c.Line = &line
		c.VsLine = outcome
	}
	return c
}

func vs(v odds.VsLine) *odds.VsLine { return &v }

func TestBuildWindowSummaries_HitRates(t *testing.T) {
	// 7 games, newest first by date: over, under, over, over, nil, under, over.
	classes := []odds.Classification{
		classified("p1", "g7", 17, vs(odds.VsOver)),
		classified("p1", "g6", 16, vs(odds.VsUnder)),
		classified("p1", "g5", 15, vs(odds.VsOver)),
		classified("p1", "g4", 14, vs(odds.VsOver)),
		classified("p1", "g3", 13, nil),
		classified("p1", "g2", 12, vs(odds.VsUnder)),
		classified("p1", "g1", 11, vs(odds.VsOver)),
	}

	summaries := BuildWindowSummaries(classes, nil)

	byWindow := make(map[mart.Window]mart.RollingWindowSummary)
	for _, s := range summaries {
		byWindow[s.Window] = s
	}

	// last_5 spans g7..g3: the nil game occupies a slot but not the
	// denominator. 3 over / 4 classified = 75%.
	last5 := byWindow[mart.WindowLast5]
	if last5.OverCount != 3 || last5.TotalCount != 4 {
		t.Fatalf("unexpected last_5 counts: %+v", last5)
	}
	if last5.PctOver == nil || *last5.PctOver != 75 {
		t.Fatalf("unexpected last_5 pct: %+v", last5.PctOver)
	}

	// last_10 and last_30 both cover all 7 games: 4 over / 6 classified.
	for _, w := range []mart.Window{mart.WindowLast10, mart.WindowLast30} {
		s := byWindow[w]
		if s.OverCount != 4 || s.TotalCount != 6 {
			t.Fatalf("unexpected %s counts: %+v", w, s)
		}
		if s.PctOver == nil || *s.PctOver != 67 {
			t.Fatalf("pct_over must round half away from zero: %+v", s.PctOver)
		}
	}
}

func TestBuildWindowSummaries_AllNilClassificationsYieldNilPct(t *testing.T) {
	classes := []odds.Classification{
		classified("p1", "g1", 11, nil),
		classified("p1", "g2", 12, nil),
	}

	summaries := BuildWindowSummaries(classes, nil)
	for _, s := range summaries {
		if s.TotalCount != 0 || s.PctOver != nil {
			t.Fatalf("windows with no classified games must report nil pct: %+v", s)
		}
	}
}

func TestBuildWindowSummaries_ExternalBuckets(t *testing.T) {
	var classes []odds.Classification
	for i := 1; i <= 20; i++ {
		outcome := vs(odds.VsOver)
		if i%2 == 0 {
			outcome = vs(odds.VsUnder)
		}
		classes = append(classes, classified("p1", fmt.Sprintf("g%02d", i), i, outcome))
	}

	// Non-overlapping ten-game buckets by recency rank.
	buckets := func(rank int) (mart.Window, bool) {
		if rank <= 10 {
			return mart.Window("games_1_10"), true
		}
		return mart.Window("games_11_20"), true
	}

	summaries := BuildWindowSummaries(classes, buckets)

	byWindow := make(map[mart.Window]mart.RollingWindowSummary)
	for _, s := range summaries {
		byWindow[s.Window] = s
	}

	for _, label := range []mart.Window{"games_1_10", "games_11_20"} {
		s, ok := byWindow[label]
		if !ok {
			t.Fatalf("missing bucket %s", label)
		}
		if s.TotalCount != 10 || s.OverCount != 5 {
			t.Fatalf("unexpected bucket counts for %s: %+v", label, s)
		}
		if s.PctOver == nil || *s.PctOver != 50 {
			t.Fatalf("unexpected bucket pct for %s: %+v", label, s.PctOver)
		}
	}
}

func TestRollingWindowService_RebuildReplaces(t *testing.T) {
	ctx := context.Background()
	classRepo := memory.NewClassificationRepository()
	if err := classRepo.Replace(ctx, []odds.Classification{
		classified("p1", "g1", 11, vs(odds.VsOver)),
		classified("p1", "g2", 12, vs(odds.VsUnder)),
	}); err != nil {
		t.Fatalf("seed classifications: %v", err)
	}

	windowRepo := memory.NewRollingWindowRepository()
	svc := NewRollingWindowService(classRepo, windowRepo, nil)

	summaries, err := svc.Rebuild(ctx)
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if len(summaries) != 3 {
		t.Fatalf("one summary per fixed window: got=%d want=3", len(summaries))
	}

	stored, err := windowRepo.List(ctx)
	if err != nil || len(stored) != 3 {
		t.Fatalf("summaries must be persisted: n=%d err=%v", len(stored), err)
	}
}

func TestFixedSizeBuckets(t *testing.T) {
	if FixedSizeBuckets(0) != nil {
		t.Fatal("size 0 must disable bucketing")
	}

	buckets := FixedSizeBuckets(10)
	cases := []struct {
		rank int
		want mart.Window
	}{
		{1, "games_1_10"},
		{10, "games_1_10"},
		{11, "games_11_20"},
		{25, "games_21_30"},
	}
	for _, tc := range cases {
		label, ok := buckets(tc.rank)
		if !ok || label != tc.want {
			t.Fatalf("rank %d: got=%s ok=%v want=%s", tc.rank, label, ok, tc.want)
		}
	}
}

func TestRollingWindowService_RebuildWithFixedBuckets(t *testing.T) {
	ctx := context.Background()
	classRepo := memory.NewClassificationRepository()
	var classes []odds.Classification
	for i := 1; i <= 4; i++ {
		classes = append(classes, classified("p1", fmt.Sprintf("g%d", i), 10+i, vs(odds.VsOver)))
	}
	if err := classRepo.Replace(ctx, classes); err != nil {
		t.Fatalf("seed classifications: %v", err)
	}

	windowRepo := memory.NewRollingWindowRepository()
	svc := NewRollingWindowService(classRepo, windowRepo, nil).
		WithBucketLabeler(FixedSizeBuckets(2))

	summaries, err := svc.Rebuild(ctx)
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}

	byWindow := make(map[mart.Window]mart.RollingWindowSummary)
	for _, s := range summaries {
		byWindow[s.Window] = s
	}
	for _, label := range []mart.Window{"games_1_2", "games_3_4"} {
		s, ok := byWindow[label]
		if !ok || s.TotalCount != 2 {
			t.Fatalf("bucket %s: ok=%v summary=%+v", label, ok, s)
		}
	}
}
