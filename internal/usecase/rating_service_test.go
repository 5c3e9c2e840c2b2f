package usecase

import (
	"context"
	"testing"

	"github.com/courtsight/featuremart/internal/domain/boxscore"
	"github.com/courtsight/featuremart/internal/domain/mart"
	"github.com/courtsight/featuremart/internal/infrastructure/repository/memory"
)

func fl(v float64) *float64 { return &v }

// Player averaging 30 on a team with mean 20 and stddev 5 z-scores to 2.0 and
// lands in the top tier.
func TestBuildRatings_TopTier(t *testing.T) {
	entries := []mart.LeaderboardEntry{
		{TeamID: "bos", StatType: boxscore.StatPoints, PlayerID: "p1", AvgValue: 30, TeamAvg: 20, TeamStdDev: fl(5)},
	}

	ratings := BuildRatings(entries, nil)
	if len(ratings) != 1 {
		t.Fatalf("unexpected rating count: %d", len(ratings))
	}
	if ratings[0].ZScore != 2.0 {
		t.Fatalf("unexpected zscore: got=%v want=2.0", ratings[0].ZScore)
	}
	if ratings[0].RatingStars != 3 {
		t.Fatalf("unexpected stars: got=%d want=3", ratings[0].RatingStars)
	}
}

// A single-player group has no stddev; the zscore pins to 0 and the player
// gets the neutral one-star tier, never NaN.
func TestBuildRatings_DegenerateStdDev(t *testing.T) {
	entries := []mart.LeaderboardEntry{
		{TeamID: "bos", StatType: boxscore.StatPoints, PlayerID: "p1", AvgValue: 30, TeamAvg: 30, TeamStdDev: nil},
		{TeamID: "lal", StatType: boxscore.StatPoints, PlayerID: "p2", AvgValue: 30, TeamAvg: 30, TeamStdDev: fl(0)},
	}

	ratings := BuildRatings(entries, nil)
	for _, r := range ratings {
		if r.ZScore != 0 {
			t.Fatalf("degenerate stddev must pin zscore to 0: %+v", r)
		}
		if r.RatingStars != 1 {
			t.Fatalf("zscore 0 under the 4-tier scheme must give 1 star: %+v", r)
		}
	}
}

func TestStarsFor_FourTierBoundaries(t *testing.T) {
	cases := []struct {
		z    float64
		want int
	}{
		{1.68, 3},
		{1.67, 2},
		{1.0, 2},
		{0.99, 1},
		{0, 1},
		{-0.01, 0},
	}
	for _, tc := range cases {
		if got := starsFor(tc.z, false); got != tc.want {
			t.Fatalf("starsFor(%v): got=%d want=%d", tc.z, got, tc.want)
		}
	}
}

func TestStarsFor_TwoTierScheme(t *testing.T) {
	cases := []struct {
		z    float64
		want int
	}{
		{1.71, 3},
		{1.7, 1},
		{0, 1},
		{-0.5, 0},
	}
	for _, tc := range cases {
		if got := starsFor(tc.z, true); got != tc.want {
			t.Fatalf("starsFor(%v, binary): got=%d want=%d", tc.z, got, tc.want)
		}
	}
}

func TestRatingService_PerStatScheme(t *testing.T) {
	ctx := context.Background()
	lbRepo := memory.NewLeaderboardRepository()
	if err := lbRepo.Replace(ctx, []mart.LeaderboardEntry{
		{TeamID: "den", StatType: boxscore.StatPoints, PlayerID: "p1", AvgValue: 28, TeamAvg: 20, TeamStdDev: fl(5)},
		{TeamID: "den", StatType: boxscore.StatTripleDouble, PlayerID: "p1", AvgValue: 0.85, TeamAvg: 0.1, TeamStdDev: fl(0.5)},
	}); err != nil {
		t.Fatalf("seed leaderboard: %v", err)
	}

	ratingRepo := memory.NewRatingRepository()
	svc := NewRatingService(lbRepo, ratingRepo, []string{"double_double", "triple_double"}, nil)

	ratings, err := svc.Rebuild(ctx)
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}

	byStat := make(map[boxscore.StatType]mart.PlayerRating)
	for _, r := range ratings {
		byStat[r.StatType] = r
	}

	if got := byStat[boxscore.StatPoints].RatingStars; got != 2 {
		t.Fatalf("points z=1.6 must give 2 stars: got=%d", got)
	}
	if got := byStat[boxscore.StatTripleDouble].RatingStars; got != 1 {
		t.Fatalf("triple_double z=1.5 must give 1 star on the binary scheme: got=%d", got)
	}

	stored, err := ratingRepo.List(ctx)
	if err != nil || len(stored) != 2 {
		t.Fatalf("ratings must be persisted: n=%d err=%v", len(stored), err)
	}
}
