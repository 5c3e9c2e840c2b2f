package usecase

import (
	"context"
	"testing"

	"github.com/courtsight/featuremart/internal/domain/boxscore"
	"github.com/courtsight/featuremart/internal/domain/mart"
	"github.com/courtsight/featuremart/internal/domain/player"
	"github.com/courtsight/featuremart/internal/domain/team"
	"github.com/courtsight/featuremart/internal/infrastructure/repository/memory"
	"github.com/stretchr/testify/require"
)

func newQueryFixture(t *testing.T) *FeatureQueryService {
	t.Helper()
	ctx := context.Background()

	store := memory.NewSnapshotStore()
	require.NoError(t, store.ReplaceTeams(ctx, []team.Team{
		{ID: "bos", Name: "Boston Celtics"},
	}))
	require.NoError(t, store.ReplacePlayers(ctx, []player.Player{
		{ID: "bos-01", Name: "Jayson Tatum", TeamID: "bos"},
	}))

	featureRepo := memory.NewFeatureRowRepository()
	require.NoError(t, featureRepo.Replace(ctx, []mart.PlayerFeatureRow{
		{PlayerID: "bos-01", PlayerName: "Jayson Tatum", TeamID: "bos", StatType: boxscore.StatPoints},
		{PlayerID: "bos-01", PlayerName: "Jayson Tatum", TeamID: "bos", StatType: boxscore.StatRebounds},
	}))

	lbRepo := memory.NewLeaderboardRepository()
	require.NoError(t, lbRepo.Replace(ctx, []mart.LeaderboardEntry{
		{TeamID: "bos", StatType: boxscore.StatPoints, PlayerID: "bos-01", Rank: 1, AvgValue: 28.5, GamesPlayed: 10, TeamAvg: 28.5},
	}))

	insightRepo := memory.NewInsightRepository()
	ratingRepo := memory.NewRatingRepository()
	require.NoError(t, ratingRepo.Replace(ctx, []mart.PlayerRating{
		{PlayerID: "bos-01", TeamID: "bos", StatType: boxscore.StatPoints, ZScore: 0, RatingStars: 3},
	}))

	return NewFeatureQueryService(store.Players(), store.Teams(), featureRepo, lbRepo, insightRepo, ratingRepo, nil)
}

func TestFeatureQueryService_PlayerFeatures(t *testing.T) {
	svc := newQueryFixture(t)
	ctx := context.Background()

	rows, err := svc.PlayerFeatures(ctx, "bos-01")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	_, err = svc.PlayerFeatures(ctx, "")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.PlayerFeatures(ctx, "nobody")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFeatureQueryService_TeamFeatures(t *testing.T) {
	svc := newQueryFixture(t)
	ctx := context.Background()

	rows, err := svc.TeamFeatures(ctx, "bos")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	_, err = svc.TeamFeatures(ctx, "atl")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFeatureQueryService_StatTypeFeatures(t *testing.T) {
	svc := newQueryFixture(t)
	ctx := context.Background()

	rows, err := svc.StatTypeFeatures(ctx, "Points")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	_, err = svc.StatTypeFeatures(ctx, "dunks")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestFeatureQueryService_Leaderboard(t *testing.T) {
	svc := newQueryFixture(t)
	ctx := context.Background()

	entries, err := svc.Leaderboard(ctx, "", "")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entries, err = svc.Leaderboard(ctx, "bos", "points")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "bos-01", entries[0].PlayerID)

	_, err = svc.Leaderboard(ctx, "bos", "")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Leaderboard(ctx, "bos", "dunks")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestFeatureQueryService_Ratings(t *testing.T) {
	svc := newQueryFixture(t)

	ratings, err := svc.Ratings(context.Background())
	require.NoError(t, err)
	require.Len(t, ratings, 1)
	require.Equal(t, 3, ratings[0].RatingStars)
}
