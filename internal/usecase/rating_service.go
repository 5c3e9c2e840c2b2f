package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/courtsight/featuremart/internal/domain/boxscore"
	"github.com/courtsight/featuremart/internal/domain/mart"
	"github.com/courtsight/featuremart/internal/platform/logging"
)

// RatingService turns leaderboard entries into bounded star ratings by
// z-scoring each player's trailing average against the team distribution.
type RatingService struct {
	lbRepo     mart.LeaderboardRepository
	ratingRepo mart.RatingRepository
	twoTier    map[boxscore.StatType]struct{}
	logger     *logging.Logger
}

func NewRatingService(
	lbRepo mart.LeaderboardRepository,
	ratingRepo mart.RatingRepository,
	twoTierStats []string,
	logger *logging.Logger,
) *RatingService {
	if logger == nil {
		logger = logging.NewNop()
	}
	twoTier := make(map[boxscore.StatType]struct{}, len(twoTierStats))
	for _, raw := range twoTierStats {
		twoTier[boxscore.StatType(raw)] = struct{}{}
	}
	return &RatingService{
		lbRepo:     lbRepo,
		ratingRepo: ratingRepo,
		twoTier:    twoTier,
		logger:     logger,
	}
}

// Rebuild recomputes every rating from the current leaderboards and replaces
// prior derived state.
func (s *RatingService) Rebuild(ctx context.Context) ([]mart.PlayerRating, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RatingService.Rebuild")
	defer span.End()

	entries, err := s.lbRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leaderboards: %w", err)
	}

	ratings := BuildRatings(entries, s.twoTier)
	if err := s.ratingRepo.Replace(ctx, ratings); err != nil {
		return nil, fmt.Errorf("replace ratings: %w", err)
	}

	s.logger.InfoContext(ctx, "player ratings rebuilt", "ratings", len(ratings))
	return ratings, nil
}

// BuildRatings computes one rating per leaderboard entry. A degenerate team
// standard deviation (absent or zero) pins the z-score to 0, which lands the
// player in the neutral tier rather than dropping the row.
func BuildRatings(entries []mart.LeaderboardEntry, twoTier map[boxscore.StatType]struct{}) []mart.PlayerRating {
	out := make([]mart.PlayerRating, 0, len(entries))
	for _, entry := range entries {
		z := 0.0
		if entry.TeamStdDev != nil && *entry.TeamStdDev > 0 {
			z = (entry.AvgValue - entry.TeamAvg) / *entry.TeamStdDev
		}

		_, binaryScheme := twoTier[entry.StatType]
		out = append(out, mart.PlayerRating{
			PlayerID:    entry.PlayerID,
			TeamID:      entry.TeamID,
			StatType:    entry.StatType,
			ZScore:      z,
			RatingStars: starsFor(z, binaryScheme),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].TeamID != out[j].TeamID {
			return out[i].TeamID < out[j].TeamID
		}
		if out[i].StatType != out[j].StatType {
			return out[i].StatType < out[j].StatType
		}
		return out[i].PlayerID < out[j].PlayerID
	})

	return out
}

// starsFor maps a z-score into star tiers. Rare binary achievements use a
// compressed scheme that skips the two-star tier: their distributions are so
// right-skewed that a mid tier carries no signal.
func starsFor(z float64, binaryScheme bool) int {
	if binaryScheme {
		switch {
		case z > 1.7:
			return 3
		case z >= 0:
			return 1
		default:
			return 0
		}
	}

	switch {
	case z > 1.67:
		return 3
	case z >= 1.0:
		return 2
	case z >= 0:
		return 1
	default:
		return 0
	}
}
