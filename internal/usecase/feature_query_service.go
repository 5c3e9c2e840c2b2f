package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/courtsight/featuremart/internal/domain/boxscore"
	"github.com/courtsight/featuremart/internal/domain/mart"
	"github.com/courtsight/featuremart/internal/domain/player"
	"github.com/courtsight/featuremart/internal/domain/team"
	"github.com/courtsight/featuremart/internal/platform/logging"
)

// FeatureQueryService is the read side of the mart: it serves precomputed
// feature rows, leaderboards, insights and ratings without touching the
// pipeline's write path.
type FeatureQueryService struct {
	playerRepo  player.Repository
	teamRepo    team.Repository
	featureRepo mart.FeatureRowRepository
	lbRepo      mart.LeaderboardRepository
	insightRepo mart.InsightRepository
	ratingRepo  mart.RatingRepository
	logger      *logging.Logger
}

func NewFeatureQueryService(
	playerRepo player.Repository,
	teamRepo team.Repository,
	featureRepo mart.FeatureRowRepository,
	lbRepo mart.LeaderboardRepository,
	insightRepo mart.InsightRepository,
	ratingRepo mart.RatingRepository,
	logger *logging.Logger,
) *FeatureQueryService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &FeatureQueryService{
		playerRepo:  playerRepo,
		teamRepo:    teamRepo,
		featureRepo: featureRepo,
		lbRepo:      lbRepo,
		insightRepo: insightRepo,
		ratingRepo:  ratingRepo,
		logger:      logger,
	}
}

// PlayerFeatures returns every feature row for one player, one per stat type.
func (s *FeatureQueryService) PlayerFeatures(ctx context.Context, playerID string) ([]mart.PlayerFeatureRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FeatureQueryService.PlayerFeatures")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return nil, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	if _, found, err := s.playerRepo.GetByID(ctx, playerID); err != nil {
		return nil, fmt.Errorf("look up player %s: %w", playerID, err)
	} else if !found {
		return nil, fmt.Errorf("%w: player %s", ErrNotFound, playerID)
	}

	rows, err := s.featureRepo.ListByPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("list feature rows for player %s: %w", playerID, err)
	}
	return rows, nil
}

// TeamFeatures returns the feature rows for every player on one team.
func (s *FeatureQueryService) TeamFeatures(ctx context.Context, teamID string) ([]mart.PlayerFeatureRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FeatureQueryService.TeamFeatures")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return nil, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	if _, found, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
		return nil, fmt.Errorf("look up team %s: %w", teamID, err)
	} else if !found {
		return nil, fmt.Errorf("%w: team %s", ErrNotFound, teamID)
	}

	rows, err := s.featureRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list feature rows for team %s: %w", teamID, err)
	}
	return rows, nil
}

// StatTypeFeatures returns every player's feature row for one stat category.
func (s *FeatureQueryService) StatTypeFeatures(ctx context.Context, statType string) ([]mart.PlayerFeatureRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FeatureQueryService.StatTypeFeatures")
	defer span.End()

	stat := boxscore.StatType(strings.ToLower(strings.TrimSpace(statType)))
	if !stat.Valid() {
		return nil, fmt.Errorf("%w: unknown stat type %q", ErrInvalidInput, statType)
	}

	rows, err := s.featureRepo.ListByStatType(ctx, stat)
	if err != nil {
		return nil, fmt.Errorf("list feature rows for stat %s: %w", stat, err)
	}
	return rows, nil
}

// Leaderboard returns ranked trailing-window leaders, either across the whole
// league or scoped to one (team, stat_type) group.
func (s *FeatureQueryService) Leaderboard(ctx context.Context, teamID, statType string) ([]mart.LeaderboardEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FeatureQueryService.Leaderboard")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	statType = strings.TrimSpace(statType)
	if teamID == "" && statType == "" {
		entries, err := s.lbRepo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list leaderboard entries: %w", err)
		}
		return entries, nil
	}
	if teamID == "" || statType == "" {
		return nil, fmt.Errorf("%w: team and stat filters must be supplied together", ErrInvalidInput)
	}

	stat := boxscore.StatType(strings.ToLower(statType))
	if !stat.Valid() {
		return nil, fmt.Errorf("%w: unknown stat type %q", ErrInvalidInput, statType)
	}
	entries, err := s.lbRepo.ListByTeam(ctx, teamID, stat)
	if err != nil {
		return nil, fmt.Errorf("list leaderboard entries for team %s stat %s: %w", teamID, stat, err)
	}
	return entries, nil
}

// Insights returns substitution insights, optionally scoped to one team.
func (s *FeatureQueryService) Insights(ctx context.Context, teamID string) ([]mart.SubstitutionInsight, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FeatureQueryService.Insights")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		insights, err := s.insightRepo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list substitution insights: %w", err)
		}
		return insights, nil
	}

	insights, err := s.insightRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list substitution insights for team %s: %w", teamID, err)
	}
	return insights, nil
}

// Ratings returns every standardized player rating.
func (s *FeatureQueryService) Ratings(ctx context.Context) ([]mart.PlayerRating, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FeatureQueryService.Ratings")
	defer span.End()

	ratings, err := s.ratingRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list player ratings: %w", err)
	}
	return ratings, nil
}
