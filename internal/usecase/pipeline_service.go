package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/courtsight/featuremart/internal/platform/dag"
	"github.com/courtsight/featuremart/internal/platform/id"
	"github.com/courtsight/featuremart/internal/platform/logging"
	"github.com/courtsight/featuremart/internal/platform/resilience"
)

// Stage names, as selected by the -tables flag and the run-pipeline endpoint.
const (
	StageNormalize     = "normalize"
	StageSchedule      = "schedule"
	StageInjury        = "injury"
	StageOdds          = "odds"
	StageLeaderboard   = "leaderboard"
	StageSubstitution  = "substitution"
	StageRating        = "rating"
	StageRollingWindow = "rolling_window"
	StageMart          = "mart"
)

var stageUpstreams = map[string][]string{
	StageNormalize:     nil,
	StageSchedule:      {StageNormalize},
	StageInjury:        {StageNormalize},
	StageOdds:          {StageNormalize},
	StageLeaderboard:   {StageNormalize},
	StageSubstitution:  {StageLeaderboard, StageInjury},
	StageRating:        {StageLeaderboard},
	StageRollingWindow: {StageOdds},
	StageMart: {
		StageSchedule, StageInjury, StageOdds, StageLeaderboard,
		StageSubstitution, StageRating, StageRollingWindow,
	},
}

// registration order, also the report order
var allStages = []string{
	StageNormalize, StageSchedule, StageInjury, StageOdds, StageLeaderboard,
	StageSubstitution, StageRating, StageRollingWindow, StageMart,
}

// RunMode selects the materialization behavior for incremental-capable
// stages.
type RunMode string

const (
	RunModeFull        RunMode = "full"
	RunModeIncremental RunMode = "incremental"
)

func ParseRunMode(v string) (RunMode, error) {
	switch RunMode(strings.ToLower(strings.TrimSpace(v))) {
	case RunModeFull, "":
		return RunModeFull, nil
	case RunModeIncremental:
		return RunModeIncremental, nil
	default:
		return "", fmt.Errorf("%w: unknown run mode %q", ErrInvalidInput, v)
	}
}

// RunParams selects which derived tables to recompute and for which as-of
// date. Empty Tables means the whole graph.
type RunParams struct {
	Tables []string
	AsOf   time.Time
	Mode   RunMode
}

// RunReport is the outcome of one pipeline run.
type RunReport struct {
	RunID        string
	AsOf         time.Time
	Mode         RunMode
	Stages       []dag.StageResult
	DataQuality  map[string]int
	StartedAt    time.Time
	Duration     time.Duration
	Deduplicated bool
}

// Get returns the result of the named stage.
func (r RunReport) Get(name string) (dag.StageResult, bool) {
	for _, stage := range r.Stages {
		if stage.Name == name {
			return stage, true
		}
	}
	return dag.StageResult{}, false
}

func (r RunReport) Failed() bool {
	for _, stage := range r.Stages {
		if stage.Status == dag.StatusFailed {
			return true
		}
	}
	return false
}

// RunNotifier publishes a refresh-completed event to downstream consumers.
type RunNotifier interface {
	RunCompleted(ctx context.Context, report RunReport) error
}

// PipelineService wires the stage graph and owns run-level concerns: run ids,
// duplicate-run suppression, data-quality accounting and completion
// notification.
type PipelineService struct {
	normalizeSvc *NormalizeService
	scheduleSvc  *ScheduleService
	injurySvc    *InjuryService
	oddsSvc      *OddsService
	lbSvc        *LeaderboardService
	subSvc       *SubstitutionService
	ratingSvc    *RatingService
	rollingSvc   *RollingWindowService
	martSvc      *MartService

	notifier RunNotifier
	idGen    id.Generator
	logger   *logging.Logger

	inflight resilience.SingleFlight
}

func NewPipelineService(
	normalizeSvc *NormalizeService,
	scheduleSvc *ScheduleService,
	injurySvc *InjuryService,
	oddsSvc *OddsService,
	lbSvc *LeaderboardService,
	subSvc *SubstitutionService,
	ratingSvc *RatingService,
	rollingSvc *RollingWindowService,
	martSvc *MartService,
	notifier RunNotifier,
	idGen id.Generator,
	logger *logging.Logger,
) *PipelineService {
	if idGen == nil {
		idGen = id.NewRandomGenerator()
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &PipelineService{
		normalizeSvc: normalizeSvc,
		scheduleSvc:  scheduleSvc,
		injurySvc:    injurySvc,
		oddsSvc:      oddsSvc,
		lbSvc:        lbSvc,
		subSvc:       subSvc,
		ratingSvc:    ratingSvc,
		rollingSvc:   rollingSvc,
		martSvc:      martSvc,
		notifier:     notifier,
		idGen:        idGen,
		logger:       logger,
	}
}

// Run executes the selected stages plus their upstream closure. Concurrent
// calls for the same (tables, as-of, mode) coalesce into one run.
func (s *PipelineService) Run(ctx context.Context, params RunParams) (RunReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PipelineService.Run")
	defer span.End()

	if params.AsOf.IsZero() {
		return RunReport{}, fmt.Errorf("%w: as-of date is required", ErrInvalidInput)
	}
	if params.Mode == "" {
		params.Mode = RunModeFull
	}

	selected, err := resolveStages(params.Tables)
	if err != nil {
		return RunReport{}, err
	}

	key := runKey(selected, params)
	val, runErr, shared := s.inflight.Do(key, func() (any, error) {
		return s.run(ctx, selected, params)
	})
	if runErr != nil {
		return RunReport{}, runErr
	}

	report := val.(RunReport)
	report.Deduplicated = shared
	return report, nil
}

func (s *PipelineService) run(ctx context.Context, selected map[string]bool, params RunParams) (RunReport, error) {
	runID, err := s.idGen.NewID()
	if err != nil {
		return RunReport{}, fmt.Errorf("generate run id: %w", err)
	}

	logger := s.logger.With("run_id", runID, "as_of", params.AsOf.Format("2006-01-02"), "mode", string(params.Mode))
	logger.InfoContext(ctx, "pipeline run started", "stages", stageList(selected))

	dq := NewDataQuality()
	graph, err := s.buildGraph(selected, params, dq)
	if err != nil {
		return RunReport{}, err
	}

	started := time.Now().UTC()
	result, err := graph.Run(ctx)
	if err != nil {
		return RunReport{}, fmt.Errorf("run stage graph: %w", err)
	}

	report := RunReport{
		RunID:       runID,
		AsOf:        params.AsOf,
		Mode:        params.Mode,
		Stages:      result.Stages,
		DataQuality: dq.Counts(),
		StartedAt:   started,
		Duration:    time.Since(started),
	}

	for _, stage := range result.Stages {
		switch stage.Status {
		case dag.StatusFailed:
			logger.ErrorContext(ctx, "pipeline stage failed", "stage", stage.Name, "error", stage.Err)
		case dag.StatusSkipped:
			logger.WarnContext(ctx, "pipeline stage skipped", "stage", stage.Name, "error", stage.Err)
		}
	}
	logDataQuality(ctx, logger, dq)
	logger.InfoContext(ctx, "pipeline run finished",
		"failed", report.Failed(),
		"duration", report.Duration.String(),
	)

	if s.notifier != nil {
		if notifyErr := s.notifier.RunCompleted(ctx, report); notifyErr != nil {
			logger.WarnContext(ctx, "run-completed notification failed", "error", notifyErr)
		}
	}

	return report, nil
}

func (s *PipelineService) buildGraph(selected map[string]bool, params RunParams, dq *DataQuality) (*dag.Graph, error) {
	incremental := params.Mode == RunModeIncremental

	runFuncs := map[string]func(ctx context.Context) error{
		StageNormalize: func(ctx context.Context) error {
			return s.normalizeSvc.Run(ctx)
		},
		StageSchedule: func(ctx context.Context) error {
			_, err := s.scheduleSvc.Rebuild(ctx, params.AsOf)
			return err
		},
		StageInjury: func(ctx context.Context) error {
			_, err := s.injurySvc.Rebuild(ctx, dq)
			return err
		},
		StageOdds: func(ctx context.Context) error {
			if _, err := s.oddsSvc.RebuildCurrentLines(ctx, dq); err != nil {
				return err
			}
			_, err := s.oddsSvc.Classify(ctx, incremental, dq)
			return err
		},
		StageLeaderboard: func(ctx context.Context) error {
			_, err := s.lbSvc.Rebuild(ctx, params.AsOf, dq)
			return err
		},
		StageSubstitution: func(ctx context.Context) error {
			_, err := s.subSvc.Rebuild(ctx)
			return err
		},
		StageRating: func(ctx context.Context) error {
			_, err := s.ratingSvc.Rebuild(ctx)
			return err
		},
		StageRollingWindow: func(ctx context.Context) error {
			_, err := s.rollingSvc.Rebuild(ctx)
			return err
		},
		StageMart: func(ctx context.Context) error {
			_, err := s.martSvc.Rebuild(ctx)
			return err
		},
	}

	materializations := map[string]dag.Materialization{
		StageOdds:          dag.IncrementalAppend,
		StageRollingWindow: dag.IncrementalAppend,
	}

	graph := dag.NewGraph()
	for _, name := range allStages {
		if !selected[name] {
			continue
		}
		mat := dag.FullRebuild
		if incremental {
			if m, ok := materializations[name]; ok {
				mat = m
			}
		}
		if err := graph.Add(dag.Stage{
			Name:            name,
			Upstream:        selectedUpstreams(name, selected),
			Materialization: mat,
			Run:             runFuncs[name],
		}); err != nil {
			return nil, err
		}
	}

	return graph, nil
}

// resolveStages expands table selectors into the stage set including the
// upstream closure of every selection.
func resolveStages(tables []string) (map[string]bool, error) {
	selected := make(map[string]bool, len(allStages))
	if len(tables) == 0 {
		for _, name := range allStages {
			selected[name] = true
		}
		return selected, nil
	}

	var include func(name string)
	include = func(name string) {
		if selected[name] {
			return
		}
		selected[name] = true
		for _, up := range stageUpstreams[name] {
			include(up)
		}
	}

	for _, table := range tables {
		name := strings.ToLower(strings.TrimSpace(table))
		if _, ok := stageUpstreams[name]; !ok {
			return nil, fmt.Errorf("%w: unknown table %q", ErrInvalidInput, table)
		}
		include(name)
	}

	return selected, nil
}

func selectedUpstreams(name string, selected map[string]bool) []string {
	var out []string
	for _, up := range stageUpstreams[name] {
		if selected[up] {
			out = append(out, up)
		}
	}
	return out
}

func runKey(selected map[string]bool, params RunParams) string {
	names := stageList(selected)
	return strings.Join(names, ",") + "|" + params.AsOf.Format("2006-01-02") + "|" + string(params.Mode)
}

func stageList(selected map[string]bool) []string {
	names := make([]string, 0, len(selected))
	for name := range selected {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// logDataQuality emits the per-run match-quality summary in one line per
// event kind, mirroring how the identity-matching reports are reviewed.
func logDataQuality(ctx context.Context, logger *logging.Logger, dq *DataQuality) {
	counts := dq.Counts()
	if len(counts) == 0 {
		logger.InfoContext(ctx, "data quality clean")
		return
	}

	kinds := make([]string, 0, len(counts))
	for kind := range counts {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		logger.WarnContext(ctx, "data quality events", "kind", kind, "count", counts[kind])
	}
}
