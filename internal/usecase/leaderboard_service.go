package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/courtsight/featuremart/internal/domain/boxscore"
	"github.com/courtsight/featuremart/internal/domain/mart"
	"github.com/courtsight/featuremart/internal/platform/logging"
	"github.com/courtsight/featuremart/internal/platform/relops"
)

// LeaderboardService ranks players inside each (team, stat_type) group from
// trailing-window averages and computes the group mean and stddev the rating
// stage standardizes against.
type LeaderboardService struct {
	statRepo     boxscore.Repository
	lbRepo       mart.LeaderboardRepository
	trailingDays int
	maxWorkers   int
	logger       *logging.Logger
}

func NewLeaderboardService(
	statRepo boxscore.Repository,
	lbRepo mart.LeaderboardRepository,
	trailingDays int,
	maxWorkers int,
	logger *logging.Logger,
) *LeaderboardService {
	if trailingDays < 1 {
		trailingDays = 30
	}
	if maxWorkers < 1 {
		maxWorkers = 4
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &LeaderboardService{
		statRepo:     statRepo,
		lbRepo:       lbRepo,
		trailingDays: trailingDays,
		maxWorkers:   maxWorkers,
		logger:       logger,
	}
}

// Rebuild recomputes every leaderboard for the trailing window ending at the
// as-of date and replaces prior derived state. Stat categories are
// independent, so they fan out across a bounded worker pool.
func (s *LeaderboardService) Rebuild(ctx context.Context, asOf time.Time, dq *DataQuality) ([]mart.LeaderboardEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Rebuild")
	defer span.End()

	if asOf.IsZero() {
		return nil, fmt.Errorf("%w: as-of date is required", ErrInvalidInput)
	}
	from := truncateToDate(asOf).AddDate(0, 0, -s.trailingDays)
	to := truncateToDate(asOf)

	pool, err := ants.NewPool(s.maxWorkers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var mu sync.Mutex
	var firstErr error
	var out []mart.LeaderboardEntry

	var workers sync.WaitGroup
	for _, statType := range boxscore.AllStatTypes {
		statType := statType
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			stats, listErr := s.statRepo.ListBetween(ctx, statType, from, to)
			if listErr != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("list %s stats: %w", statType, listErr)
				}
				mu.Unlock()
				return
			}

			entries := BuildLeaderboards(statType, stats, dq)
			mu.Lock()
			out = append(out, entries...)
			mu.Unlock()
		}); err != nil {
			workers.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = fmt.Errorf("submit %s leaderboard task: %w", statType, err)
			}
			mu.Unlock()
		}
	}
	workers.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].TeamID != out[j].TeamID {
			return out[i].TeamID < out[j].TeamID
		}
		if out[i].StatType != out[j].StatType {
			return out[i].StatType < out[j].StatType
		}
		return out[i].Rank < out[j].Rank
	})

	if err := s.lbRepo.Replace(ctx, out); err != nil {
		return nil, fmt.Errorf("replace leaderboards: %w", err)
	}

	s.logger.InfoContext(ctx, "leaderboards rebuilt",
		"entries", len(out),
		"window_from", from.Format("2006-01-02"),
		"window_to", to.Format("2006-01-02"),
	)

	return out, nil
}

type playerAverage struct {
	teamID   string
	playerID string
	avg      float64
	games    int
}

// BuildLeaderboards is the pure derivation for one stat category: trailing
// averages over played games, ordinal rank by average descending with ties
// broken by ascending player id, and the group mean/stddev. Ranks always form
// a gap-free 1..N permutation per (team, stat_type).
func BuildLeaderboards(statType boxscore.StatType, stats []boxscore.PlayerGameStat, dq *DataQuality) []mart.LeaderboardEntry {
	type groupKey struct {
		teamID   string
		playerID string
	}

	played := make([]boxscore.PlayerGameStat, 0, len(stats))
	for _, stat := range stats {
		if stat.Played() && stat.StatType == statType {
			played = append(played, stat)
		}
	}

	byPlayer := relops.GroupBy(played, func(s boxscore.PlayerGameStat) groupKey {
		return groupKey{teamID: s.TeamID, playerID: s.PlayerID}
	})

	averages := make([]playerAverage, 0, len(byPlayer))
	for key, lines := range byPlayer {
		values := make([]float64, len(lines))
		for i, line := range lines {
			values[i] = line.Value
		}
		avg, _ := relops.Mean(values)
		averages = append(averages, playerAverage{
			teamID:   key.teamID,
			playerID: key.playerID,
			avg:      avg,
			games:    len(lines),
		})
	}

	byTeam := relops.GroupBy(averages, func(a playerAverage) string { return a.teamID })

	teamIDs := make([]string, 0, len(byTeam))
	for teamID := range byTeam {
		teamIDs = append(teamIDs, teamID)
	}
	sort.Strings(teamIDs)

	out := make([]mart.LeaderboardEntry, 0, len(averages))
	for _, teamID := range teamIDs {
		group := byTeam[teamID]

		values := make([]float64, len(group))
		for i, a := range group {
			values[i] = a.avg
		}
		teamAvg, _ := relops.Mean(values)
		var teamStdDev *float64
		if sd, ok := relops.SampleStdDev(values); ok {
			teamStdDev = &sd
		} else {
			dq.Record(DQDegenerateStdDev)
		}

		ranked := relops.Rank(group, func(a, b playerAverage) bool {
			if a.avg != b.avg {
				return a.avg > b.avg
			}
			return a.playerID < b.playerID
		})

		for _, r := range ranked {
			out = append(out, mart.LeaderboardEntry{
				TeamID:      teamID,
				StatType:    statType,
				PlayerID:    r.Item.playerID,
				Rank:        r.Rank,
				AvgValue:    r.Item.avg,
				GamesPlayed: r.Item.games,
				TeamAvg:     teamAvg,
				TeamStdDev:  teamStdDev,
			})
		}
	}

	return out
}
