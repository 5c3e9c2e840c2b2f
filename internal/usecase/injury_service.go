package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/courtsight/featuremart/internal/domain/identity"
	"github.com/courtsight/featuremart/internal/domain/injury"
	"github.com/courtsight/featuremart/internal/domain/player"
	"github.com/courtsight/featuremart/internal/platform/logging"
	"github.com/courtsight/featuremart/internal/platform/relops"
)

// InjuryService resolves provider-reported injury names through the
// confidence-scored identity mappings and attaches the latest status to every
// roster player. Players without a qualifying report still get a row with a
// nil status, so downstream joins never lose them.
type InjuryService struct {
	reportRepo  injury.ReportRepository
	mappingRepo identity.Repository
	playerRepo  player.Repository
	statusRepo  injury.StatusRepository
	threshold   int
	logger      *logging.Logger
}

func NewInjuryService(
	reportRepo injury.ReportRepository,
	mappingRepo identity.Repository,
	playerRepo player.Repository,
	statusRepo injury.StatusRepository,
	confidenceThreshold int,
	logger *logging.Logger,
) *InjuryService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &InjuryService{
		reportRepo:  reportRepo,
		mappingRepo: mappingRepo,
		playerRepo:  playerRepo,
		statusRepo:  statusRepo,
		threshold:   confidenceThreshold,
		logger:      logger,
	}
}

// Rebuild recomputes current statuses for the whole roster and replaces prior
// derived state.
func (s *InjuryService) Rebuild(ctx context.Context, dq *DataQuality) ([]injury.PlayerStatus, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.InjuryService.Rebuild")
	defer span.End()

	reports, err := s.reportRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list injury reports: %w", err)
	}
	mappings, err := s.mappingRepo.ListBySource(ctx, identity.SourceInjuryReport)
	if err != nil {
		return nil, fmt.Errorf("list injury identity mappings: %w", err)
	}
	roster, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}

	resolved := ResolveMappings(ctx, mappings, s.threshold, dq, s.logger)
	latestReports := LatestReportByName(reports)

	// Several provider aliases can resolve to one canonical player; the
	// freshest report wins with the same tie-break as per-name dedup.
	statusByPlayer := make(map[string]injury.Report)
	unmapped := 0
	for name, report := range latestReports {
		playerID, ok := resolved[name]
		if !ok {
			unmapped++
			dq.Record(DQUnmappedInjuryName)
			continue
		}
		current, exists := statusByPlayer[playerID]
		if !exists || reportNewer(report, current) {
			statusByPlayer[playerID] = report
		}
	}

	out := make([]injury.PlayerStatus, 0, len(roster))
	for _, p := range roster {
		row := injury.PlayerStatus{PlayerID: p.ID}
		if report, ok := statusByPlayer[p.ID]; ok {
			status := report.Status
			reportDate := report.ReportDate
			row.Status = &status
			row.ReportDate = &reportDate
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })

	if err := s.statusRepo.Replace(ctx, out); err != nil {
		return nil, fmt.Errorf("replace player statuses: %w", err)
	}

	s.logger.InfoContext(ctx, "injury statuses rebuilt",
		"reports", len(reports),
		"report_names", len(latestReports),
		"resolved_names", len(resolved),
		"unmapped_names", unmapped,
		"roster", len(roster),
		"flagged_players", len(statusByPlayer),
	)

	return out, nil
}

// ResolveMappings filters mappings to the confidence threshold and resolves
// each source name to exactly one canonical player id. Ambiguous names pick
// the highest confidence, then the most recent update, then the smallest
// canonical id; each ambiguity is a data-quality event, never an error.
func ResolveMappings(
	ctx context.Context,
	mappings []identity.Mapping,
	threshold int,
	dq *DataQuality,
	logger *logging.Logger,
) map[string]string {
	if logger == nil {
		logger = logging.NewNop()
	}

	qualifying := make([]identity.Mapping, 0, len(mappings))
	for _, m := range mappings {
		if m.ConfidenceScore >= threshold {
			qualifying = append(qualifying, m)
		}
	}

	byName := relops.GroupBy(qualifying, func(m identity.Mapping) string { return m.SourceName })
	out := make(map[string]string, len(byName))
	for name, candidates := range byName {
		winner := relops.LatestPerKey(candidates,
			func(identity.Mapping) string { return "" },
			mappingNewer,
		)[""]

		if distinctCanonicalIDs(candidates) > 1 {
			dq.Record(DQAmbiguousMapping)
			logger.WarnContext(ctx, "ambiguous identity mapping",
				"source_name", name,
				"candidates", len(candidates),
				"chosen_player_id", winner.CanonicalPlayerID,
				"confidence", winner.ConfidenceScore,
			)
		}

		out[name] = winner.CanonicalPlayerID
	}

	return out
}

// LatestReportByName keeps the single most recent report per provider name:
// report_date descending, then ingestion time descending.
func LatestReportByName(reports []injury.Report) map[string]injury.Report {
	return relops.LatestPerKey(reports,
		func(r injury.Report) string { return r.PlayerName },
		reportNewer,
	)
}

func reportNewer(candidate, current injury.Report) bool {
	if !candidate.ReportDate.Equal(current.ReportDate) {
		return candidate.ReportDate.After(current.ReportDate)
	}
	return candidate.IngestedAt.After(current.IngestedAt)
}

func mappingNewer(candidate, current identity.Mapping) bool {
	if candidate.ConfidenceScore != current.ConfidenceScore {
		return candidate.ConfidenceScore > current.ConfidenceScore
	}
	if !candidate.UpdatedAt.Equal(current.UpdatedAt) {
		return candidate.UpdatedAt.After(current.UpdatedAt)
	}
	return candidate.CanonicalPlayerID < current.CanonicalPlayerID
}

func distinctCanonicalIDs(mappings []identity.Mapping) int {
	seen := make(map[string]struct{}, len(mappings))
	for _, m := range mappings {
		seen[m.CanonicalPlayerID] = struct{}{}
	}
	return len(seen)
}
