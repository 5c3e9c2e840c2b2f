package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/courtsight/featuremart/internal/domain/boxscore"
	"github.com/courtsight/featuremart/internal/domain/injury"
	"github.com/courtsight/featuremart/internal/domain/mart"
	"github.com/courtsight/featuremart/internal/platform/logging"
	"github.com/courtsight/featuremart/internal/platform/relops"
)

// SubstitutionService derives next-man-up insights: for every unavailable
// leader it finds the best-ranked healthy backup and compares the backup's
// production with the leader out against the backup's normal production.
type SubstitutionService struct {
	lbRepo      mart.LeaderboardRepository
	statusRepo  injury.StatusRepository
	statRepo    boxscore.Repository
	insightRepo mart.InsightRepository
	logger      *logging.Logger
}

func NewSubstitutionService(
	lbRepo mart.LeaderboardRepository,
	statusRepo injury.StatusRepository,
	statRepo boxscore.Repository,
	insightRepo mart.InsightRepository,
	logger *logging.Logger,
) *SubstitutionService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &SubstitutionService{
		lbRepo:      lbRepo,
		statusRepo:  statusRepo,
		statRepo:    statRepo,
		insightRepo: insightRepo,
		logger:      logger,
	}
}

// Rebuild recomputes insights from the current leaderboards and injury
// statuses and replaces prior derived state. Groups whose leader is healthy
// produce no row.
func (s *SubstitutionService) Rebuild(ctx context.Context) ([]mart.SubstitutionInsight, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubstitutionService.Rebuild")
	defer span.End()

	entries, err := s.lbRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leaderboards: %w", err)
	}
	statuses, err := s.statusRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list player statuses: %w", err)
	}

	statusByPlayer := make(map[string]injury.PlayerStatus, len(statuses))
	for _, status := range statuses {
		statusByPlayer[status.PlayerID] = status
	}

	type groupKey struct {
		teamID   string
		statType boxscore.StatType
	}
	groups := relops.GroupBy(entries, func(e mart.LeaderboardEntry) groupKey {
		return groupKey{teamID: e.TeamID, statType: e.StatType}
	})

	keys := make([]groupKey, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].teamID != keys[j].teamID {
			return keys[i].teamID < keys[j].teamID
		}
		return keys[i].statType < keys[j].statType
	})

	out := make([]mart.SubstitutionInsight, 0)
	for _, key := range keys {
		group := groups[key]
		sort.Slice(group, func(i, j int) bool { return group[i].Rank < group[j].Rank })

		leader, backup, ok := pickLeaderAndBackup(group, statusByPlayer)
		if !ok {
			continue
		}

		insight, buildErr := s.buildInsight(ctx, leader, backup, statusByPlayer[leader.PlayerID])
		if buildErr != nil {
			return nil, buildErr
		}
		out = append(out, insight)
	}

	if err := s.insightRepo.Replace(ctx, out); err != nil {
		return nil, fmt.Errorf("replace substitution insights: %w", err)
	}

	s.logger.InfoContext(ctx, "substitution insights rebuilt",
		"groups", len(groups),
		"insights", len(out),
	)

	return out, nil
}

// pickLeaderAndBackup returns the rank-1 entry and the minimal-rank healthy
// entry below it. ok is false when the leader is healthy or no healthy backup
// exists; both cases suppress the insight row entirely.
func pickLeaderAndBackup(
	group []mart.LeaderboardEntry,
	statusByPlayer map[string]injury.PlayerStatus,
) (leader, backup mart.LeaderboardEntry, ok bool) {
	if len(group) == 0 || group[0].Rank != 1 {
		return mart.LeaderboardEntry{}, mart.LeaderboardEntry{}, false
	}

	leader = group[0]
	if !statusByPlayer[leader.PlayerID].Unavailable() {
		return mart.LeaderboardEntry{}, mart.LeaderboardEntry{}, false
	}

	for _, entry := range group[1:] {
		if entry.Rank > 1 && !statusByPlayer[entry.PlayerID].Unavailable() {
			return leader, entry, true
		}
	}

	return mart.LeaderboardEntry{}, mart.LeaderboardEntry{}, false
}

func (s *SubstitutionService) buildInsight(
	ctx context.Context,
	leader, backup mart.LeaderboardEntry,
	leaderStatus injury.PlayerStatus,
) (mart.SubstitutionInsight, error) {
	leaderLines, err := s.statRepo.ListByPlayer(ctx, leader.PlayerID, leader.StatType)
	if err != nil {
		return mart.SubstitutionInsight{}, fmt.Errorf("list leader stats: %w", err)
	}
	backupLines, err := s.statRepo.ListByPlayer(ctx, backup.PlayerID, backup.StatType)
	if err != nil {
		return mart.SubstitutionInsight{}, fmt.Errorf("list backup stats: %w", err)
	}

	insight := BuildInsight(leader, backup, leaderLines, backupLines)
	if leaderStatus.Status != nil {
		insight.LeaderStatus = *leaderStatus.Status
	}

	return insight, nil
}

// BuildInsight computes the two backup baselines. Both averages are nil, not
// zero, when no qualifying games exist; presentation layers may coerce for
// display but the engine preserves the distinction.
func BuildInsight(
	leader, backup mart.LeaderboardEntry,
	leaderLines, backupLines []boxscore.PlayerGameStat,
) mart.SubstitutionInsight {
	leaderOutGames := make(map[string]struct{})
	for _, line := range leaderLines {
		if line.MinutesPlayed == 0 {
			leaderOutGames[line.GameID] = struct{}{}
		}
	}

	var whenOut, normal []float64
	for _, line := range backupLines {
		if !line.Played() {
			continue
		}
		normal = append(normal, line.Value)
		if _, ok := leaderOutGames[line.GameID]; ok {
			whenOut = append(whenOut, line.Value)
		}
	}

	insight := mart.SubstitutionInsight{
		TeamID:        leader.TeamID,
		StatType:      leader.StatType,
		LeaderID:      leader.PlayerID,
		BackupID:      backup.PlayerID,
		BackupRank:    backup.Rank,
		GamesAnalyzed: len(whenOut),
		TotalGames:    len(normal),
	}
	if avg, ok := relops.Mean(whenOut); ok {
		insight.AvgWhenLeaderOut = &avg
	}
	if avg, ok := relops.Mean(normal); ok {
		insight.AvgNormal = &avg
	}

	return insight
}
