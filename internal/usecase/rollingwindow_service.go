package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/courtsight/featuremart/internal/domain/boxscore"
	"github.com/courtsight/featuremart/internal/domain/mart"
	"github.com/courtsight/featuremart/internal/domain/odds"
	"github.com/courtsight/featuremart/internal/platform/logging"
	"github.com/courtsight/featuremart/internal/platform/relops"
)

// trailingWindows maps the fixed window labels to their game counts.
var trailingWindows = []struct {
	window mart.Window
	size   int
}{
	{mart.WindowLast5, 5},
	{mart.WindowLast10, 10},
	{mart.WindowLast30, 30},
}

// BucketLabeler assigns an externally defined non-overlapping bucket label to
// a recency rank (1 = most recent). ok=false leaves the game out of every
// bucket.
type BucketLabeler func(recencyRank int) (mart.Window, bool)

// RollingWindowService aggregates line classifications into per-window hit
// rates.
type RollingWindowService struct {
	classRepo  odds.ClassificationRepository
	windowRepo mart.RollingWindowRepository
	buckets    BucketLabeler
	logger     *logging.Logger
}

func NewRollingWindowService(
	classRepo odds.ClassificationRepository,
	windowRepo mart.RollingWindowRepository,
	logger *logging.Logger,
) *RollingWindowService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &RollingWindowService{
		classRepo:  classRepo,
		windowRepo: windowRepo,
		logger:     logger,
	}
}

// WithBucketLabeler adds orchestrator-supplied historical buckets on top of
// the fixed trailing windows.
func (s *RollingWindowService) WithBucketLabeler(labeler BucketLabeler) *RollingWindowService {
	s.buckets = labeler
	return s
}

// FixedSizeBuckets labels games into consecutive non-overlapping buckets of
// the given size by recency rank: games_1_10, games_11_20 and so on. A size
// below 1 disables bucketing.
func FixedSizeBuckets(size int) BucketLabeler {
	if size < 1 {
		return nil
	}
	return func(recencyRank int) (mart.Window, bool) {
		bucket := (recencyRank - 1) / size
		from := bucket*size + 1
		to := from + size - 1
		return mart.Window(fmt.Sprintf("games_%d_%d", from, to)), true
	}
}

// Rebuild recomputes every window summary from the full classification set
// and replaces prior derived state.
func (s *RollingWindowService) Rebuild(ctx context.Context) ([]mart.RollingWindowSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RollingWindowService.Rebuild")
	defer span.End()

	classes, err := s.classRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list classifications: %w", err)
	}

	summaries := BuildWindowSummaries(classes, s.buckets)
	if err := s.windowRepo.Replace(ctx, summaries); err != nil {
		return nil, fmt.Errorf("replace window summaries: %w", err)
	}

	s.logger.InfoContext(ctx, "rolling windows rebuilt",
		"classifications", len(classes),
		"summaries", len(summaries),
	)

	return summaries, nil
}

// BuildWindowSummaries computes hit rates per (player, stat_type, window).
// Window membership is by recency rank over all classified games, but games
// without a line never enter a denominator: they occupy a rank and are
// excluded from the counts.
func BuildWindowSummaries(classes []odds.Classification, buckets BucketLabeler) []mart.RollingWindowSummary {
	type seriesKey struct {
		playerID string
		statType boxscore.StatType
	}
	series := relops.GroupBy(classes, func(c odds.Classification) seriesKey {
		return seriesKey{playerID: c.PlayerID, statType: c.StatType}
	})

	keys := make([]seriesKey, 0, len(series))
	for key := range series {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].playerID != keys[j].playerID {
			return keys[i].playerID < keys[j].playerID
		}
		return keys[i].statType < keys[j].statType
	})

	out := make([]mart.RollingWindowSummary, 0, len(keys)*len(trailingWindows))
	for _, key := range keys {
		games := series[key]
		sort.Slice(games, func(i, j int) bool {
			if !games[i].GameDate.Equal(games[j].GameDate) {
				return games[i].GameDate.After(games[j].GameDate)
			}
			return games[i].GameID > games[j].GameID
		})

		for _, tw := range trailingWindows {
			limit := tw.size
			if limit > len(games) {
				limit = len(games)
			}
			out = append(out, summarize(key.playerID, key.statType, tw.window, games[:limit]))
		}

		if buckets != nil {
			out = append(out, bucketSummaries(key.playerID, key.statType, games, buckets)...)
		}
	}

	return out
}

func bucketSummaries(
	playerID string,
	statType boxscore.StatType,
	games []odds.Classification,
	buckets BucketLabeler,
) []mart.RollingWindowSummary {
	grouped := make(map[mart.Window][]odds.Classification)
	for rank, game := range games {
		label, ok := buckets(rank + 1)
		if !ok {
			continue
		}
		grouped[label] = append(grouped[label], game)
	}

	labels := make([]mart.Window, 0, len(grouped))
	for label := range grouped {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })

	out := make([]mart.RollingWindowSummary, 0, len(labels))
	for _, label := range labels {
		out = append(out, summarize(playerID, statType, label, grouped[label]))
	}

	return out
}

// summarize counts over/total inside one window. PctOver is nil, not zero,
// when no classified game fell inside the window.
func summarize(
	playerID string,
	statType boxscore.StatType,
	window mart.Window,
	games []odds.Classification,
) mart.RollingWindowSummary {
	summary := mart.RollingWindowSummary{
		PlayerID: playerID,
		StatType: statType,
		Window:   window,
	}
	for _, game := range games {
		if game.VsLine == nil {
			continue
		}
		summary.TotalCount++
		if *game.VsLine == odds.VsOver {
			summary.OverCount++
		}
	}
	if summary.TotalCount > 0 {
		pct := int(math.Round(100 * float64(summary.OverCount) / float64(summary.TotalCount)))
		summary.PctOver = &pct
	}

	return summary
}
