package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/courtsight/featuremart/internal/domain/boxscore"
	"github.com/courtsight/featuremart/internal/domain/identity"
	"github.com/courtsight/featuremart/internal/domain/odds"
	"github.com/courtsight/featuremart/internal/platform/logging"
	"github.com/courtsight/featuremart/internal/platform/relops"
)

// OddsService resolves the freshest betting line per (player, market) and
// classifies observed per-game stat values against it.
type OddsService struct {
	snapshotRepo odds.SnapshotRepository
	mappingRepo  identity.Repository
	lineRepo     odds.CurrentLineRepository
	classRepo    odds.ClassificationRepository
	statRepo     boxscore.Repository
	threshold    int
	logger       *logging.Logger
}

func NewOddsService(
	snapshotRepo odds.SnapshotRepository,
	mappingRepo identity.Repository,
	lineRepo odds.CurrentLineRepository,
	classRepo odds.ClassificationRepository,
	statRepo boxscore.Repository,
	confidenceThreshold int,
	logger *logging.Logger,
) *OddsService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &OddsService{
		snapshotRepo: snapshotRepo,
		mappingRepo:  mappingRepo,
		lineRepo:     lineRepo,
		classRepo:    classRepo,
		statRepo:     statRepo,
		threshold:    confidenceThreshold,
		logger:       logger,
	}
}

// RebuildCurrentLines dedupes the snapshot stream and keeps exactly one line
// per (canonical player, market): max snapshot_time, ties broken by latest
// ingestion. Names without a qualifying mapping are excluded, not errors.
func (s *OddsService) RebuildCurrentLines(ctx context.Context, dq *DataQuality) ([]odds.CurrentLine, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OddsService.RebuildCurrentLines")
	defer span.End()

	snapshots, err := s.snapshotRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list odds snapshots: %w", err)
	}
	mappings, err := s.mappingRepo.ListBySource(ctx, identity.SourceOdds)
	if err != nil {
		return nil, fmt.Errorf("list odds identity mappings: %w", err)
	}

	resolved := ResolveMappings(ctx, mappings, s.threshold, dq, s.logger)
	lines := CurrentLines(snapshots, resolved, dq)

	if err := s.lineRepo.Replace(ctx, lines); err != nil {
		return nil, fmt.Errorf("replace current lines: %w", err)
	}

	s.logger.InfoContext(ctx, "current lines rebuilt",
		"snapshots", len(snapshots),
		"lines", len(lines),
	)

	return lines, nil
}

type lineKey struct {
	playerID string
	market   odds.Market
}

type snapshotKey struct {
	playerName string
	market     odds.Market
	snapshotAt time.Time
}

// CurrentLines is the pure derivation behind RebuildCurrentLines. Output is
// sorted by (player_id, market) so repeated runs are byte-identical.
func CurrentLines(snapshots []odds.Snapshot, resolved map[string]string, dq *DataQuality) []odds.CurrentLine {
	// Exact-duplicate observations (same player, market and snapshot time)
	// collapse to the latest ingestion before freshness selection.
	deduped := relops.LatestPerKey(snapshots,
		func(s odds.Snapshot) snapshotKey {
			return snapshotKey{playerName: s.PlayerName, market: s.Market, snapshotAt: s.SnapshotTime.UTC()}
		},
		func(candidate, current odds.Snapshot) bool {
			return candidate.IngestedAt.After(current.IngestedAt)
		},
	)
	dq.Add(DQDuplicateSnapshot, len(snapshots)-len(deduped))

	unresolvedNames := make(map[string]struct{})
	qualified := make([]odds.Snapshot, 0, len(deduped))
	for _, snapshot := range deduped {
		if _, ok := resolved[snapshot.PlayerName]; !ok {
			unresolvedNames[snapshot.PlayerName] = struct{}{}
			continue
		}
		if _, ok := snapshot.Market.StatType(); !ok {
			continue
		}
		qualified = append(qualified, snapshot)
	}
	dq.Add(DQUnresolvedOddsName, len(unresolvedNames))

	latest := relops.LatestPerKey(qualified,
		func(s odds.Snapshot) lineKey {
			return lineKey{playerID: resolved[s.PlayerName], market: s.Market}
		},
		func(candidate, current odds.Snapshot) bool {
			if !candidate.SnapshotTime.Equal(current.SnapshotTime) {
				return candidate.SnapshotTime.After(current.SnapshotTime)
			}
			return candidate.IngestedAt.After(current.IngestedAt)
		},
	)

	out := make([]odds.CurrentLine, 0, len(latest))
	for key, snapshot := range latest {
		statType, _ := snapshot.Market.StatType()
		line := snapshot.Line
		if statType.IsBinary() {
			// Boolean-outcome markets always settle against a fixed line of 1.
			line = odds.BinaryLine
		}
		out = append(out, odds.CurrentLine{
			PlayerID:     key.playerID,
			Market:       snapshot.Market,
			StatType:     statType,
			Line:         line,
			Price:        snapshot.Price,
			Bookmaker:    snapshot.Bookmaker,
			SnapshotTime: snapshot.SnapshotTime,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PlayerID != out[j].PlayerID {
			return out[i].PlayerID < out[j].PlayerID
		}
		return out[i].Market < out[j].Market
	})

	return out
}

// Classify materializes per-game line classifications for played games. In
// incremental mode only stat lines above the stored game-date watermark are
// recomputed and upserted; full mode replaces the whole set.
func (s *OddsService) Classify(ctx context.Context, incremental bool, dq *DataQuality) ([]odds.Classification, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OddsService.Classify")
	defer span.End()

	lines, err := s.lineRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list current lines: %w", err)
	}
	stats, err := s.statRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list player game stats: %w", err)
	}

	if incremental {
		watermark, ok, err := s.classRepo.Watermark(ctx)
		if err != nil {
			return nil, fmt.Errorf("read classification watermark: %w", err)
		}
		if ok {
			filtered := stats[:0]
			for _, stat := range stats {
				if stat.GameDate.After(watermark) {
					filtered = append(filtered, stat)
				}
			}
			stats = filtered
		}
	}

	out := ClassifyStats(stats, lines, dq)

	if incremental {
		if err := s.classRepo.Upsert(ctx, out); err != nil {
			return nil, fmt.Errorf("upsert classifications: %w", err)
		}
	} else {
		if err := s.classRepo.Replace(ctx, out); err != nil {
			return nil, fmt.Errorf("replace classifications: %w", err)
		}
	}

	s.logger.InfoContext(ctx, "line classifications materialized",
		"stats", len(stats),
		"classifications", len(out),
		"incremental", incremental,
	)

	return out, nil
}

// ClassifyStats compares each played stat line against the current line for
// its (player, stat_type). Games without a line keep a nil classification so
// rolling windows can exclude them from denominators.
func ClassifyStats(stats []boxscore.PlayerGameStat, lines []odds.CurrentLine, dq *DataQuality) []odds.Classification {
	type classKey struct {
		playerID string
		statType boxscore.StatType
	}
	lineByKey := make(map[classKey]odds.CurrentLine, len(lines))
	for _, line := range lines {
		lineByKey[classKey{playerID: line.PlayerID, statType: line.StatType}] = line
	}

	out := make([]odds.Classification, 0, len(stats))
	for _, stat := range stats {
		if !stat.Played() {
			continue
		}
		if stat.GameDate.IsZero() {
			dq.Record(DQStatMissingGameDate)
			continue
		}

		row := odds.Classification{
			PlayerID: stat.PlayerID,
			GameID:   stat.GameID,
			StatType: stat.StatType,
			GameDate: stat.GameDate,
			Value:    stat.Value,
		}
		if line, ok := lineByKey[classKey{playerID: stat.PlayerID, statType: stat.StatType}]; ok {
			lineValue := line.Line
			row.Line = &lineValue
			outcome := classifyValue(stat.StatType, stat.Value, lineValue)
			row.VsLine = &outcome
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PlayerID != out[j].PlayerID {
			return out[i].PlayerID < out[j].PlayerID
		}
		if out[i].StatType != out[j].StatType {
			return out[i].StatType < out[j].StatType
		}
		return out[i].GameID < out[j].GameID
	})

	return out
}

func classifyValue(statType boxscore.StatType, value, line float64) odds.VsLine {
	if statType.IsBinary() {
		if value >= odds.BinaryLine {
			return odds.VsOver
		}
		return odds.VsUnder
	}
	if value >= line {
		return odds.VsOver
	}
	return odds.VsUnder
}
