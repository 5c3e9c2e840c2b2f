package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/courtsight/featuremart/internal/domain/boxscore"
	"github.com/courtsight/featuremart/internal/domain/mart"
	"github.com/courtsight/featuremart/internal/domain/player"
	"github.com/courtsight/featuremart/internal/domain/team"
	"github.com/courtsight/featuremart/internal/infrastructure/repository/memory"
	"github.com/courtsight/featuremart/internal/platform/logging"
	"github.com/courtsight/featuremart/internal/usecase"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	ctx := context.Background()

	store := memory.NewSnapshotStore()
	require.NoError(t, store.ReplaceTeams(ctx, []team.Team{{ID: "bos", Name: "Boston Celtics"}}))
	require.NoError(t, store.ReplacePlayers(ctx, []player.Player{{ID: "bos-01", Name: "Jayson Tatum", TeamID: "bos"}}))

	featureRepo := memory.NewFeatureRowRepository()
	require.NoError(t, featureRepo.Replace(ctx, []mart.PlayerFeatureRow{
		{PlayerID: "bos-01", PlayerName: "Jayson Tatum", TeamID: "bos", StatType: boxscore.StatPoints},
	}))

	queryService := usecase.NewFeatureQueryService(
		store.Players(),
		store.Teams(),
		featureRepo,
		memory.NewLeaderboardRepository(),
		memory.NewInsightRepository(),
		memory.NewRatingRepository(),
		logging.NewNop(),
	)

	handler := NewHandler(queryService, nil, logging.NewNop())
	return NewRouter(handler, logging.NewNop(), false, nil, "job-secret")
}

func decodeEnvelope(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var envelope map[string]any
	require.NoError(t, sonic.Unmarshal(body, &envelope))
	return envelope
}

func TestRouter_GetPlayerFeatures(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/features/players/bos-01", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec.Body.Bytes())
	data, ok := envelope["data"].([]any)
	require.True(t, ok)
	require.Len(t, data, 1)
	row, ok := data[0].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "bos-01", row["playerId"])
	require.Equal(t, "points", row["statType"])
}

func TestRouter_GetPlayerFeatures_NotFound(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/features/players/nobody", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	envelope := decodeEnvelope(t, rec.Body.Bytes())
	errObj, ok := envelope["error"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "NOT_FOUND", errObj["status"])
}

func TestRouter_ListFeaturesByStatType_Invalid(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/features/stats/dunks", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_RunPipelineJob_RequiresToken(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/run-pipeline", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/run-pipeline", strings.NewReader(`{}`))
	req.Header.Set("X-Internal-Job-Token", "wrong")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_RunPipelineJob_PipelineNotConfigured(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/run-pipeline", strings.NewReader(`{"mode":"full"}`))
	req.Header.Set("X-Internal-Job-Token", "job-secret")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
