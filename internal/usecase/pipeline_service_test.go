package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/courtsight/featuremart/internal/domain/mart"
	"github.com/courtsight/featuremart/internal/domain/odds"
	"github.com/courtsight/featuremart/internal/infrastructure/repository/memory"
	"github.com/courtsight/featuremart/internal/platform/dag"
)

type stubSource struct {
	teams    []string
	players  []string
	games    []string
	stats    []string
	injuries []string
	odds     []string
	idents   []string

	statsErr error
}

func lines(items []string) [][]byte {
	out := make([][]byte, 0, len(items))
	for _, item := range items {
		out = append(out, []byte(item))
	}
	return out
}

func (s *stubSource) Teams(context.Context) ([][]byte, error)   { return lines(s.teams), nil }
func (s *stubSource) Players(context.Context) ([][]byte, error) { return lines(s.players), nil }
func (s *stubSource) Games(context.Context) ([][]byte, error)   { return lines(s.games), nil }
func (s *stubSource) PlayerGameStats(context.Context) ([][]byte, error) {
	if s.statsErr != nil {
		return nil, s.statsErr
	}
	return lines(s.stats), nil
}
func (s *stubSource) InjuryReports(context.Context) ([][]byte, error) { return lines(s.injuries), nil }
func (s *stubSource) OddsSnapshots(context.Context) ([][]byte, error) { return lines(s.odds), nil }
func (s *stubSource) IdentityMappings(context.Context) ([][]byte, error) {
	return lines(s.idents), nil
}

func happyPathSource() *stubSource {
	return &stubSource{
		teams: []string{
			`{"id":"bos","full_name":"Boston Celtics","abbreviation":"BOS"}`,
			`{"id":"lal","full_name":"Los Angeles Lakers","abbreviation":"LAL"}`,
		},
		players: []string{
			`{"id":"bos-01","name":"Jayson Tatum","team_id":"bos","position":"F"}`,
			`{"id":"bos-02","name":"Jaylen Brown","team_id":"bos","position":"G-F"}`,
			`{"id":"lal-01","name":"LeBron James","team_id":"lal","position":"F"}`,
		},
		games: []string{
			`{"id":"g1","date":"2025-01-10","home_team_id":"bos","visitor_team_id":"lal","home_team_score":118,"visitor_team_score":110}`,
			`{"id":"g2","date":"2025-01-11","home_team_id":"lal","visitor_team_id":"bos"}`,
		},
		stats: []string{
			`{"player_id":"bos-01","game_id":"g1","team_id":"bos","stat_type":"points","value":34,"minutes_played":36,"game_date":"2025-01-10"}`,
			`{"player_id":"bos-02","game_id":"g1","team_id":"bos","stat_type":"points","value":26,"minutes_played":34,"game_date":"2025-01-10"}`,
			`{"player_id":"lal-01","game_id":"g1","team_id":"lal","stat_type":"points","value":28,"minutes_played":38,"game_date":"2025-01-10"}`,
		},
		injuries: []string{
			`{"player_name":"J. Tatum","status":"Out","report_date":"2025-01-11","report_time":"09:30","ingested_at":"2025-01-11T10:00:00Z"}`,
		},
		odds: []string{
			`{"player_name":"Jayson Tatum","market":"player_points","line":29.5,"price":-110,"side":"over","snapshot_time":"2025-01-10T08:00:00Z","bookmaker":"draftkings","ingested_at":"2025-01-10T08:00:00Z"}`,
		},
		idents: []string{
			`{"source_system":"injury_report","source_name":"J. Tatum","canonical_player_id":"bos-01","confidence_score":91,"updated_at":"2025-01-11T00:00:00Z"}`,
			`{"source_system":"odds","source_name":"Jayson Tatum","canonical_player_id":"bos-01","confidence_score":100,"updated_at":"2025-01-10T00:00:00Z"}`,
		},
	}
}

type pipelineFixture struct {
	svc     *PipelineService
	store   *memory.SnapshotStore
	rows    *memory.FeatureRowRepository
	source  *stubSource
	rawRepo *memory.RawDataRepository
}

func newPipelineFixture(source *stubSource) *pipelineFixture {
	store := memory.NewSnapshotStore()
	rawRepo := memory.NewRawDataRepository()
	teamGames := memory.NewTeamGameRepository()
	statuses := memory.NewInjuryStatusRepository()
	lineRepo := memory.NewCurrentLineRepository()
	classRepo := memory.NewClassificationRepository()
	lbRepo := memory.NewLeaderboardRepository()
	insightRepo := memory.NewInsightRepository()
	ratingRepo := memory.NewRatingRepository()
	windowRepo := memory.NewRollingWindowRepository()
	rowRepo := memory.NewFeatureRowRepository()

	svc := NewPipelineService(
		NewNormalizeService(source, store, rawRepo, nil),
		NewScheduleService(store.Games(), teamGames, nil),
		NewInjuryService(store.InjuryReports(), store.IdentityMappings(), store.Players(), statuses, 80, nil),
		NewOddsService(store.OddsSnapshots(), store.IdentityMappings(), lineRepo, classRepo, store.Stats(), 80, nil),
		NewLeaderboardService(store.Stats(), lbRepo, 30, 4, nil),
		NewSubstitutionService(lbRepo, statuses, store.Stats(), insightRepo, nil),
		NewRatingService(lbRepo, ratingRepo, []string{"double_double", "triple_double"}, nil),
		NewRollingWindowService(classRepo, windowRepo, nil),
		NewMartService(store.Teams(), store.Players(), teamGames, statuses, lineRepo, lbRepo, insightRepo, ratingRepo, windowRepo, rowRepo, nil),
		nil, nil, nil,
	)

	return &pipelineFixture{svc: svc, store: store, rows: rowRepo, source: source, rawRepo: rawRepo}
}

func TestPipelineService_FullRun(t *testing.T) {
	fx := newPipelineFixture(happyPathSource())

	report, err := fx.svc.Run(context.Background(), RunParams{AsOf: day(2025, 1, 11), Mode: RunModeFull})
	require.NoError(t, err)
	require.NotEmpty(t, report.RunID)
	require.False(t, report.Failed())
	require.Len(t, report.Stages, len(allStages))
	for _, stage := range report.Stages {
		require.Equal(t, dag.StatusSucceeded, stage.Status, stage.Name)
	}

	require.Positive(t, fx.rawRepo.Len())

	ctx := context.Background()
	rows, err := fx.rows.ListByPlayer(ctx, "bos-01")
	require.NoError(t, err)
	require.NotEmpty(t, rows)

	var points *mart.PlayerFeatureRow
	for i := range rows {
		if rows[i].StatType == "points" {
			points = &rows[i]
		}
	}
	require.NotNil(t, points)
	require.NotNil(t, points.Rank)
	require.Equal(t, 1, *points.Rank)
	require.NotNil(t, points.InjuryStatus)
	require.NotNil(t, points.Line)
	require.InDelta(t, 29.5, *points.Line, 1e-9)
	require.NotNil(t, points.BackupID)
	require.Equal(t, "bos-02", *points.BackupID)
	require.NotNil(t, points.NextGameID)
	require.Equal(t, "g2", *points.NextGameID)
	require.NotNil(t, points.IsBackToBack)
	require.True(t, *points.IsBackToBack)
}

func TestPipelineService_SchemaDriftFailsFast(t *testing.T) {
	source := happyPathSource()
	source.games = append(source.games, `{"id":"g3","date":"not-a-date","home_team_id":"bos","visitor_team_id":"lal"}`)
	fx := newPipelineFixture(source)

	report, err := fx.svc.Run(context.Background(), RunParams{AsOf: day(2025, 1, 11)})
	require.NoError(t, err)
	require.True(t, report.Failed())

	for _, stage := range report.Stages {
		if stage.Name == StageNormalize {
			require.Equal(t, dag.StatusFailed, stage.Status)
			continue
		}
		require.Equal(t, dag.StatusSkipped, stage.Status, stage.Name)
	}
}

func TestPipelineService_SourceFetchFailureIsDependencyError(t *testing.T) {
	source := happyPathSource()
	source.statsErr = errors.New("stats feed unavailable")
	fx := newPipelineFixture(source)

	report, err := fx.svc.Run(context.Background(), RunParams{AsOf: day(2025, 1, 11)})
	require.NoError(t, err)
	require.True(t, report.Failed())

	normalize, ok := report.Get(StageNormalize)
	require.True(t, ok)
	require.Equal(t, dag.StatusFailed, normalize.Status)
	require.ErrorIs(t, normalize.Err, ErrDependencyUnavailable)
}

type failingLineRepo struct {
	*memory.CurrentLineRepository
}

func (r *failingLineRepo) Replace(context.Context, []odds.CurrentLine) error {
	return errors.New("odds store unavailable")
}

// A dead odds branch takes down only its own downstream closure; schedule,
// injury, leaderboard, substitution and rating still materialize.
func TestPipelineService_BranchFailureIsolated(t *testing.T) {
	source := happyPathSource()

	store := memory.NewSnapshotStore()
	teamGames := memory.NewTeamGameRepository()
	statuses := memory.NewInjuryStatusRepository()
	lineRepo := &failingLineRepo{CurrentLineRepository: memory.NewCurrentLineRepository()}
	classRepo := memory.NewClassificationRepository()
	lbRepo := memory.NewLeaderboardRepository()
	insightRepo := memory.NewInsightRepository()
	ratingRepo := memory.NewRatingRepository()
	windowRepo := memory.NewRollingWindowRepository()
	rowRepo := memory.NewFeatureRowRepository()

	svc := NewPipelineService(
		NewNormalizeService(source, store, nil, nil),
		NewScheduleService(store.Games(), teamGames, nil),
		NewInjuryService(store.InjuryReports(), store.IdentityMappings(), store.Players(), statuses, 80, nil),
		NewOddsService(store.OddsSnapshots(), store.IdentityMappings(), lineRepo, classRepo, store.Stats(), 80, nil),
		NewLeaderboardService(store.Stats(), lbRepo, 30, 4, nil),
		NewSubstitutionService(lbRepo, statuses, store.Stats(), insightRepo, nil),
		NewRatingService(lbRepo, ratingRepo, nil, nil),
		NewRollingWindowService(classRepo, windowRepo, nil),
		NewMartService(store.Teams(), store.Players(), teamGames, statuses, lineRepo, lbRepo, insightRepo, ratingRepo, windowRepo, rowRepo, nil),
		nil, nil, nil,
	)

	report, err := svc.Run(context.Background(), RunParams{AsOf: day(2025, 1, 11)})
	require.NoError(t, err)
	require.True(t, report.Failed())

	wantStatus := map[string]dag.Status{
		StageNormalize:     dag.StatusSucceeded,
		StageSchedule:      dag.StatusSucceeded,
		StageInjury:        dag.StatusSucceeded,
		StageOdds:          dag.StatusFailed,
		StageLeaderboard:   dag.StatusSucceeded,
		StageSubstitution:  dag.StatusSucceeded,
		StageRating:        dag.StatusSucceeded,
		StageRollingWindow: dag.StatusSkipped,
		StageMart:          dag.StatusSkipped,
	}
	for name, want := range wantStatus {
		stage, ok := report.Get(name)
		require.True(t, ok, name)
		require.Equal(t, want, stage.Status, name)
	}
}

func TestPipelineService_TableSelectionPullsUpstreamClosure(t *testing.T) {
	fx := newPipelineFixture(happyPathSource())

	report, err := fx.svc.Run(context.Background(), RunParams{
		Tables: []string{StageRating},
		AsOf:   day(2025, 1, 11),
	})
	require.NoError(t, err)
	require.False(t, report.Failed())

	names := make(map[string]bool)
	for _, stage := range report.Stages {
		names[stage.Name] = true
	}
	require.Equal(t, map[string]bool{
		StageNormalize:   true,
		StageLeaderboard: true,
		StageRating:      true,
	}, names)
}

func TestPipelineService_RejectsBadInput(t *testing.T) {
	fx := newPipelineFixture(happyPathSource())

	_, err := fx.svc.Run(context.Background(), RunParams{Tables: []string{"nope"}, AsOf: day(2025, 1, 11)})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = fx.svc.Run(context.Background(), RunParams{})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestParseRunMode(t *testing.T) {
	mode, err := ParseRunMode("full")
	require.NoError(t, err)
	require.Equal(t, RunModeFull, mode)

	mode, err = ParseRunMode(" Incremental ")
	require.NoError(t, err)
	require.Equal(t, RunModeIncremental, mode)

	mode, err = ParseRunMode("")
	require.NoError(t, err)
	require.Equal(t, RunModeFull, mode)

	_, err = ParseRunMode("partial")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestRunReport_GetUnknownStage(t *testing.T) {
	report := RunReport{Stages: []dag.StageResult{{Name: StageNormalize, Status: dag.StatusSucceeded}}}

	stage, ok := report.Get(StageNormalize)
	require.True(t, ok)
	require.Equal(t, dag.StatusSucceeded, stage.Status)

	_, ok = report.Get("settlement")
	require.False(t, ok)
}
