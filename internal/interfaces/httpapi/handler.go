package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/courtsight/featuremart/internal/domain/mart"
	"github.com/courtsight/featuremart/internal/platform/logging"
	"github.com/courtsight/featuremart/internal/usecase"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	queryService    *usecase.FeatureQueryService
	pipelineService *usecase.PipelineService
	logger          *logging.Logger
	validator       *validator.Validate
}

func NewHandler(
	queryService *usecase.FeatureQueryService,
	pipelineService *usecase.PipelineService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		queryService:    queryService,
		pipelineService: pipelineService,
		logger:          logger,
		validator:       validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetPlayerFeatures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerFeatures")
	defer span.End()

	playerID := r.PathValue("playerID")
	rows, err := h.queryService.PlayerFeatures(ctx, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "get player features failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, featureRowListDTO(rows))
}

func (h *Handler) GetTeamFeatures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamFeatures")
	defer span.End()

	teamID := r.PathValue("teamID")
	rows, err := h.queryService.TeamFeatures(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "get team features failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, featureRowListDTO(rows))
}

func (h *Handler) ListFeaturesByStatType(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFeaturesByStatType")
	defer span.End()

	statType := r.PathValue("statType")
	rows, err := h.queryService.StatTypeFeatures(ctx, statType)
	if err != nil {
		h.logger.WarnContext(ctx, "list features by stat type failed", "stat_type", statType, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, featureRowListDTO(rows))
}

func (h *Handler) ListLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeaderboard")
	defer span.End()

	teamID := r.URL.Query().Get("team_id")
	statType := r.URL.Query().Get("stat_type")
	entries, err := h.queryService.Leaderboard(ctx, teamID, statType)
	if err != nil {
		h.logger.WarnContext(ctx, "list leaderboard failed", "team_id", teamID, "stat_type", statType, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]leaderboardEntryDTO, 0, len(entries))
	for _, entry := range entries {
		out = append(out, leaderboardEntryDTOFrom(entry))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) ListInsights(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListInsights")
	defer span.End()

	teamID := r.URL.Query().Get("team_id")
	insights, err := h.queryService.Insights(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "list insights failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]insightDTO, 0, len(insights))
	for _, insight := range insights {
		out = append(out, insightDTOFrom(insight))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) ListRatings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRatings")
	defer span.End()

	ratings, err := h.queryService.Ratings(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list ratings failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]ratingDTO, 0, len(ratings))
	for _, rating := range ratings {
		out = append(out, ratingDTO{
			PlayerID:    rating.PlayerID,
			TeamID:      rating.TeamID,
			StatType:    string(rating.StatType),
			ZScore:      rating.ZScore,
			RatingStars: rating.RatingStars,
		})
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

type runPipelineRequest struct {
	Tables []string `json:"tables"`
	AsOf   string   `json:"as_of" validate:"omitempty,datetime=2006-01-02"`
	Mode   string   `json:"mode" validate:"omitempty,oneof=full incremental"`
}

// RunPipelineJob triggers a synchronous pipeline run. The report is returned
// even when stages failed; the HTTP status stays 200 so callers inspect the
// per-stage outcome instead of retrying blindly.
func (h *Handler) RunPipelineJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunPipelineJob")
	defer span.End()

	if h.pipelineService == nil {
		writeError(ctx, w, fmt.Errorf("%w: pipeline service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	req, err := decodeRunPipelineRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	params := usecase.RunParams{Tables: req.Tables}
	if strings.TrimSpace(req.AsOf) != "" {
		asOf, parseErr := time.Parse("2006-01-02", strings.TrimSpace(req.AsOf))
		if parseErr != nil {
			writeError(ctx, w, fmt.Errorf("%w: invalid as_of date: %v", usecase.ErrInvalidInput, parseErr))
			return
		}
		params.AsOf = asOf
	}
	mode, err := usecase.ParseRunMode(req.Mode)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	params.Mode = mode

	report, err := h.pipelineService.Run(ctx, params)
	if err != nil {
		h.logger.WarnContext(ctx, "run pipeline job failed", "tables", req.Tables, "mode", req.Mode, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, runReportDTOFrom(report))
}

func decodeRunPipelineRequest(r *http.Request) (runPipelineRequest, error) {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req runPipelineRequest
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return runPipelineRequest{}, nil
		}
		return runPipelineRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return req, nil
}

type featureRowDTO struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	TeamID     string `json:"teamId"`
	StatType   string `json:"statType"`

	Rank        *int     `json:"rank,omitempty"`
	AvgValue    *float64 `json:"avgValue,omitempty"`
	TeamAvg     *float64 `json:"teamAvg,omitempty"`
	TeamStdDev  *float64 `json:"teamStdDev,omitempty"`
	ZScore      *float64 `json:"zScore,omitempty"`
	RatingStars *int     `json:"ratingStars,omitempty"`

	InjuryStatus *string `json:"injuryStatus,omitempty"`

	BackupID         *string  `json:"backupId,omitempty"`
	AvgWhenLeaderOut *float64 `json:"avgWhenLeaderOut,omitempty"`
	GamesAnalyzed    *int     `json:"gamesAnalyzed,omitempty"`
	AvgNormal        *float64 `json:"avgNormal,omitempty"`
	TotalGames       *int     `json:"totalGames,omitempty"`

	Line          *float64 `json:"line,omitempty"`
	LineBookmaker *string  `json:"lineBookmaker,omitempty"`

	PctOverLast5  *int `json:"pctOverLast5,omitempty"`
	PctOverLast10 *int `json:"pctOverLast10,omitempty"`
	PctOverLast30 *int `json:"pctOverLast30,omitempty"`

	NextGameID     *string `json:"nextGameId,omitempty"`
	NextOpponentID *string `json:"nextOpponentId,omitempty"`
	IsBackToBack   *bool   `json:"isBackToBack,omitempty"`

	ComputedAt time.Time `json:"computedAt"`
}

func featureRowListDTO(rows []mart.PlayerFeatureRow) []featureRowDTO {
	out := make([]featureRowDTO, 0, len(rows))
	for _, row := range rows {
		dto := featureRowDTO{
			PlayerID:         row.PlayerID,
			PlayerName:       row.PlayerName,
			TeamID:           row.TeamID,
			StatType:         string(row.StatType),
			Rank:             row.Rank,
			AvgValue:         row.AvgValue,
			TeamAvg:          row.TeamAvg,
			TeamStdDev:       row.TeamStdDev,
			ZScore:           row.ZScore,
			RatingStars:      row.RatingStars,
			BackupID:         row.BackupID,
			AvgWhenLeaderOut: row.AvgWhenLeaderOut,
			GamesAnalyzed:    row.GamesAnalyzed,
			AvgNormal:        row.AvgNormal,
			TotalGames:       row.TotalGames,
			Line:             row.Line,
			LineBookmaker:    row.LineBookmaker,
			PctOverLast5:     row.PctOverLast5,
			PctOverLast10:    row.PctOverLast10,
			PctOverLast30:    row.PctOverLast30,
			NextGameID:       row.NextGameID,
			NextOpponentID:   row.NextOpponentID,
			IsBackToBack:     row.IsBackToBack,
			ComputedAt:       row.ComputedAt,
		}
		if row.InjuryStatus != nil {
			status := string(*row.InjuryStatus)
			dto.InjuryStatus = &status
		}
		out = append(out, dto)
	}
	return out
}

type leaderboardEntryDTO struct {
	TeamID      string   `json:"teamId"`
	StatType    string   `json:"statType"`
	PlayerID    string   `json:"playerId"`
	Rank        int      `json:"rank"`
	AvgValue    float64  `json:"avgValue"`
	GamesPlayed int      `json:"gamesPlayed"`
	TeamAvg     float64  `json:"teamAvg"`
	TeamStdDev  *float64 `json:"teamStdDev,omitempty"`
}

func leaderboardEntryDTOFrom(entry mart.LeaderboardEntry) leaderboardEntryDTO {
	return leaderboardEntryDTO{
		TeamID:      entry.TeamID,
		StatType:    string(entry.StatType),
		PlayerID:    entry.PlayerID,
		Rank:        entry.Rank,
		AvgValue:    entry.AvgValue,
		GamesPlayed: entry.GamesPlayed,
		TeamAvg:     entry.TeamAvg,
		TeamStdDev:  entry.TeamStdDev,
	}
}

type insightDTO struct {
	TeamID           string   `json:"teamId"`
	StatType         string   `json:"statType"`
	LeaderID         string   `json:"leaderId"`
	LeaderStatus     string   `json:"leaderStatus"`
	BackupID         string   `json:"backupId"`
	BackupRank       int      `json:"backupRank"`
	AvgWhenLeaderOut *float64 `json:"avgWhenLeaderOut,omitempty"`
	GamesAnalyzed    int      `json:"gamesAnalyzed"`
	AvgNormal        *float64 `json:"avgNormal,omitempty"`
	TotalGames       int      `json:"totalGames"`
}

func insightDTOFrom(insight mart.SubstitutionInsight) insightDTO {
	return insightDTO{
		TeamID:           insight.TeamID,
		StatType:         string(insight.StatType),
		LeaderID:         insight.LeaderID,
		LeaderStatus:     string(insight.LeaderStatus),
		BackupID:         insight.BackupID,
		BackupRank:       insight.BackupRank,
		AvgWhenLeaderOut: insight.AvgWhenLeaderOut,
		GamesAnalyzed:    insight.GamesAnalyzed,
		AvgNormal:        insight.AvgNormal,
		TotalGames:       insight.TotalGames,
	}
}

type ratingDTO struct {
	PlayerID    string  `json:"playerId"`
	TeamID      string  `json:"teamId"`
	StatType    string  `json:"statType"`
	ZScore      float64 `json:"zScore"`
	RatingStars int     `json:"ratingStars"`
}

type stageResultDTO struct {
	Name       string `json:"name"`
	Status     string `json:"status"`
	DurationMS int64  `json:"durationMs"`
	Error      string `json:"error,omitempty"`
}

type runReportDTO struct {
	RunID        string           `json:"runId"`
	AsOf         string           `json:"asOf"`
	Mode         string           `json:"mode"`
	Failed       bool             `json:"failed"`
	Deduplicated bool             `json:"deduplicated"`
	StartedAt    time.Time        `json:"startedAt"`
	DurationMS   int64            `json:"durationMs"`
	Stages       []stageResultDTO `json:"stages"`
	DataQuality  map[string]int   `json:"dataQuality,omitempty"`
}

func runReportDTOFrom(report usecase.RunReport) runReportDTO {
	stages := make([]stageResultDTO, 0, len(report.Stages))
	for _, stage := range report.Stages {
		dto := stageResultDTO{
			Name:       stage.Name,
			Status:     string(stage.Status),
			DurationMS: stage.Duration.Milliseconds(),
		}
		if stage.Err != nil {
			dto.Error = stage.Err.Error()
		}
		stages = append(stages, dto)
	}
	return runReportDTO{
		RunID:        report.RunID,
		AsOf:         report.AsOf.Format("2006-01-02"),
		Mode:         string(report.Mode),
		Failed:       report.Failed(),
		Deduplicated: report.Deduplicated,
		StartedAt:    report.StartedAt,
		DurationMS:   report.Duration.Milliseconds(),
		Stages:       stages,
		DataQuality:  report.DataQuality,
	}
}
