// Package notify publishes run-completed events to a downstream webhook so
// consumers can refresh their views after a feature rebuild.
package notify

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/courtsight/featuremart/internal/platform/logging"
	"github.com/courtsight/featuremart/internal/platform/resilience"
	"github.com/courtsight/featuremart/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var errWebhookTransient = crerr.New("webhook transient failure")

type WebhookPublisherConfig struct {
	WebhookURL     string
	Token          string
	Retries        int
	Timeout        time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

// WebhookPublisher implements usecase.RunNotifier over a plain HTTP webhook.
type WebhookPublisher struct {
	client         *http.Client
	webhookURL     string
	token          string
	retries        int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewWebhookPublisher(cfg WebhookPublisherConfig, logger *logging.Logger) *WebhookPublisher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &WebhookPublisher{
		client: &http.Client{
			Timeout: timeout,
		},
		webhookURL:     strings.TrimRight(strings.TrimSpace(cfg.WebhookURL), "/"),
		token:          strings.TrimSpace(cfg.Token),
		retries:        cfg.Retries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type runCompletedStage struct {
	Name       string `json:"name"`
	Status     string `json:"status"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

type runCompletedPayload struct {
	Event        string              `json:"event"`
	RunID        string              `json:"run_id"`
	AsOf         string              `json:"as_of"`
	Mode         string              `json:"mode"`
	Failed       bool                `json:"failed"`
	Deduplicated bool                `json:"deduplicated"`
	StartedAt    time.Time           `json:"started_at"`
	DurationMS   int64               `json:"duration_ms"`
	Stages       []runCompletedStage `json:"stages"`
	DataQuality  map[string]int      `json:"data_quality,omitempty"`
}

// RunCompleted posts the run report to the configured webhook. Transport
// failures and retryable statuses trip the circuit breaker; non-retryable
// statuses do not.
func (p *WebhookPublisher) RunCompleted(ctx context.Context, report usecase.RunReport) error {
	if p.circuitEnabled {
		if err := p.breaker.Allow(); err != nil {
			p.logger.WarnContext(ctx, "webhook circuit breaker rejected request", "state", p.breaker.State())
			return fmt.Errorf("webhook is temporarily unavailable: %w", err)
		}
	}

	webhookURL, err := validateHTTPBaseURL(p.webhookURL)
	if err != nil {
		return crerr.Wrap(err, "invalid NOTIFY_WEBHOOK_URL")
	}

	payload := buildRunCompletedPayload(report)
	body, err := sonic.Marshal(payload)
	if err != nil {
		return crerr.Wrap(err, "marshal run report payload")
	}
	bodyText := truncateForLog(string(body), 4096)
	curlPreview := buildWebhookCurlPreview(webhookURL, p.retries, bodyText, p.token != "")

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("notify.webhook_url", webhookURL),
			attribute.String("notify.run_id", report.RunID),
			attribute.Bool("notify.failed", report.Failed()),
			attribute.String("notify.request_body", bodyText),
			attribute.String("notify.request_curl_preview", curlPreview),
		)
	}
	p.logger.InfoContext(ctx, "webhook publish request", "run_id", report.RunID, "webhook_url", webhookURL, "curl_preview", curlPreview)

	var lastErr error
	attempts := p.retries + 1
	if attempts < 1 {
		attempts = 1
	}
	for attempt := 0; attempt < attempts; attempt++ {
		lastErr = p.post(ctx, webhookURL, body)
		if lastErr == nil {
			p.logger.InfoContext(ctx, "webhook run event published", "run_id", report.RunID, "attempt", attempt+1)
			p.recordCircuitResult(nil)
			return nil
		}
		if !isWebhookCircuitFailure(lastErr) {
			break
		}
		if ctx.Err() != nil {
			break
		}
	}

	p.recordCircuitResult(lastErr)
	return lastErr
}

func (p *WebhookPublisher) post(ctx context.Context, webhookURL string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, strings.NewReader(string(body)))
	if err != nil {
		return crerr.Wrap(err, "create webhook request")
	}
	req.Header.Set("Content-Type", "application/json")
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: post run event webhook_url=%s: %v", errWebhookTransient, webhookURL, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if isWebhookRetryableStatus(resp.StatusCode) {
			return fmt.Errorf(
				"%w: post run event status=%d webhook_url=%s body=%s",
				errWebhookTransient,
				resp.StatusCode,
				webhookURL,
				strings.TrimSpace(string(raw)),
			)
		}
		return fmt.Errorf(
			"post run event status=%d webhook_url=%s body=%s",
			resp.StatusCode,
			webhookURL,
			strings.TrimSpace(string(raw)),
		)
	}
	return nil
}

func buildRunCompletedPayload(report usecase.RunReport) runCompletedPayload {
	stages := make([]runCompletedStage, 0, len(report.Stages))
	for _, stage := range report.Stages {
		out := runCompletedStage{
			Name:       stage.Name,
			Status:     string(stage.Status),
			DurationMS: stage.Duration.Milliseconds(),
		}
		if stage.Err != nil {
			out.Error = stage.Err.Error()
		}
		stages = append(stages, out)
	}
	return runCompletedPayload{
		Event:        "feature_run.completed",
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

func validateHTTPBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}

	return strings.TrimRight(candidate, "/"), nil
}

func buildWebhookCurlPreview(webhookURL string, retries int, body string, withToken bool) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	appendPart := func(part string) {
		if buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(part)
	}
	appendFlagHeader := func(value string) {
		appendPart("-H")
		appendPart(shellQuote(value))
	}

	appendPart("curl")
	appendPart("-X")
	appendPart("POST")
	appendPart(shellQuote(webhookURL))
	appendFlagHeader("Content-Type: application/json")
	if withToken {
		appendFlagHeader("Authorization: Bearer ***")
	}
	appendPart("-d")
	appendPart(shellQuote(body))
	appendPart("#")
	appendPart(shellQuote("retries=" + strconv.Itoa(retries)))

	return buf.String()
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "'\"'\"'") + "'"
}

func truncateForLog(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max] + "...(truncated)"
}

func (p *WebhookPublisher) recordCircuitResult(err error) {
	if !p.circuitEnabled || p.breaker == nil {
		return
	}
	if err == nil {
		p.breaker.RecordSuccess()
		return
	}
	if isWebhookCircuitFailure(err) {
		p.breaker.RecordFailure()
		return
	}
	p.breaker.RecordSuccess()
}

func isWebhookCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errWebhookTransient)
}

func isWebhookRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}

var _ usecase.RunNotifier = (*WebhookPublisher)(nil)
