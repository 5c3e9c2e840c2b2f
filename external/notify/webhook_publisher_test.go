package notify

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/courtsight/featuremart/internal/platform/dag"
	"github.com/courtsight/featuremart/internal/platform/logging"
	"github.com/courtsight/featuremart/internal/platform/resilience"
	"github.com/courtsight/featuremart/internal/usecase"
	"github.com/stretchr/testify/require"
)

func sampleReport() usecase.RunReport {
	return usecase.RunReport{
		RunID: "run-123",
		AsOf:  time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC),
		Mode:  usecase.RunModeFull,
		Stages: []dag.StageResult{
			{Name: "normalize", Status: dag.StatusSucceeded, Duration: 120 * time.Millisecond},
			{Name: "mart", Status: dag.StatusSucceeded, Duration: 40 * time.Millisecond},
		},
		DataQuality: map[string]int{"unmatched_injury_names": 1},
		StartedAt:   time.Date(2025, 1, 11, 6, 0, 0, 0, time.UTC),
		Duration:    200 * time.Millisecond,
	}
}

func TestWebhookPublisher_PostsRunReport(t *testing.T) {
	var gotAuth string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	publisher := NewWebhookPublisher(WebhookPublisherConfig{
		WebhookURL: srv.URL,
		Token:      "secret-token",
	}, logging.NewNop())

	err := publisher.RunCompleted(context.Background(), sampleReport())
	require.NoError(t, err)
	require.Equal(t, "Bearer secret-token", gotAuth)

	var payload runCompletedPayload
	require.NoError(t, sonic.Unmarshal(gotBody, &payload))
	require.Equal(t, "feature_run.completed", payload.Event)
	require.Equal(t, "run-123", payload.RunID)
	require.Equal(t, "2025-01-11", payload.AsOf)
	require.Equal(t, "full", payload.Mode)
	require.False(t, payload.Failed)
	require.Len(t, payload.Stages, 2)
	require.Equal(t, "normalize", payload.Stages[0].Name)
	require.Equal(t, "succeeded", payload.Stages[0].Status)
	require.Equal(t, 1, payload.DataQuality["unmatched_injury_names"])
}

func TestWebhookPublisher_RetriesTransientStatus(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	publisher := NewWebhookPublisher(WebhookPublisherConfig{
		WebhookURL: srv.URL,
		Retries:    2,
	}, logging.NewNop())

	err := publisher.RunCompleted(context.Background(), sampleReport())
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}

func TestWebhookPublisher_NonRetryableStatusFailsOnce(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	publisher := NewWebhookPublisher(WebhookPublisherConfig{
		WebhookURL: srv.URL,
		Retries:    3,
	}, logging.NewNop())

	err := publisher.RunCompleted(context.Background(), sampleReport())
	require.Error(t, err)
	require.False(t, isWebhookCircuitFailure(err))
	require.Equal(t, 1, calls)
}

func TestWebhookPublisher_CircuitOpensAfterFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	publisher := NewWebhookPublisher(WebhookPublisherConfig{
		WebhookURL: srv.URL,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	}, logging.NewNop())

	err := publisher.RunCompleted(context.Background(), sampleReport())
	require.Error(t, err)
	require.True(t, isWebhookCircuitFailure(err))

	err = publisher.RunCompleted(context.Background(), sampleReport())
	require.Error(t, err)
	require.Contains(t, err.Error(), "temporarily unavailable")
}

func TestWebhookPublisher_RejectsInvalidURL(t *testing.T) {
	publisher := NewWebhookPublisher(WebhookPublisherConfig{
		WebhookURL: "ftp://example.com/hook",
	}, logging.NewNop())

	err := publisher.RunCompleted(context.Background(), sampleReport())
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported scheme")
}
