// Package app wires configuration, storage, services and transports into
// runnable processes.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/courtsight/featuremart/external/notify"
	"github.com/courtsight/featuremart/internal/config"
	"github.com/courtsight/featuremart/internal/domain/mart"
	"github.com/courtsight/featuremart/internal/infrastructure/landing"
	cacherepo "github.com/courtsight/featuremart/internal/infrastructure/repository/cache"
	"github.com/courtsight/featuremart/internal/infrastructure/repository/postgres"
	"github.com/courtsight/featuremart/internal/interfaces/httpapi"
	basecache "github.com/courtsight/featuremart/internal/platform/cache"
	"github.com/courtsight/featuremart/internal/platform/logging"
	"github.com/courtsight/featuremart/internal/platform/resilience"
	"github.com/courtsight/featuremart/internal/usecase"
	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"

	_ "github.com/lib/pq"
)

// OpenDB connects to Postgres with OpenTelemetry instrumentation on every
// query. The pool is sized for a mostly-batch workload.
func OpenDB(ctx context.Context, cfg config.Config, logger *logging.Logger) (*sqlx.DB, error) {
	if logger == nil {
		logger = logging.Default()
	}

	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	logger.InfoContext(ctx, "postgres connected", "db_name", dbNameFromURL(cfg.DBURL))
	return db, nil
}

// NewPipeline wires the full feature pipeline over Postgres repositories and
// the landing-directory raw source.
func NewPipeline(db *sqlx.DB, cfg config.Config, logger *logging.Logger) *usecase.PipelineService {
	if logger == nil {
		logger = logging.Default()
	}

	source := landing.NewFileSource(cfg.LandingDir)
	writer := postgres.NewSnapshotWriter(db)

	teamRepo := postgres.NewTeamRepository(db)
	playerRepo := postgres.NewPlayerRepository(db)
	gameRepo := postgres.NewGameRepository(db)
	statRepo := postgres.NewPlayerGameStatRepository(db)
	reportRepo := postgres.NewInjuryReportRepository(db)
	statusRepo := postgres.NewPlayerStatusRepository(db)
	mappingRepo := postgres.NewIdentityMappingRepository(db)
	snapshotRepo := postgres.NewOddsSnapshotRepository(db)
	lineRepo := postgres.NewCurrentLineRepository(db)
	classRepo := postgres.NewClassificationRepository(db)
	teamGameRepo := postgres.NewTeamGameRepository(db)
	lbRepo := postgres.NewLeaderboardRepository(db)
	insightRepo := postgres.NewInsightRepository(db)
	ratingRepo := postgres.NewRatingRepository(db)
	windowRepo := postgres.NewRollingWindowRepository(db)
	rowRepo := postgres.NewFeatureRowRepository(db)
	rawRepo := postgres.NewRawDataRepository(db)

	normalizeSvc := usecase.NewNormalizeService(source, writer, rawRepo, logger)
	scheduleSvc := usecase.NewScheduleService(gameRepo, teamGameRepo, logger)
	injurySvc := usecase.NewInjuryService(reportRepo, mappingRepo, playerRepo, statusRepo, cfg.InjuryConfidenceThreshold, logger)
	oddsSvc := usecase.NewOddsService(snapshotRepo, mappingRepo, lineRepo, classRepo, statRepo, cfg.OddsConfidenceThreshold, logger)
	lbSvc := usecase.NewLeaderboardService(statRepo, lbRepo, cfg.TrailingWindowDays, cfg.PipelineMaxWorkers, logger)
	subSvc := usecase.NewSubstitutionService(lbRepo, statusRepo, statRepo, insightRepo, logger)
	ratingSvc := usecase.NewRatingService(lbRepo, ratingRepo, cfg.RatingTwoTierStats, logger)
	rollingSvc := usecase.NewRollingWindowService(classRepo, windowRepo, logger).
		WithBucketLabeler(usecase.FixedSizeBuckets(cfg.RollingBucketSize))
	martSvc := usecase.NewMartService(
		teamRepo,
		playerRepo,
		teamGameRepo,
		statusRepo,
		lineRepo,
		lbRepo,
		insightRepo,
		ratingRepo,
		windowRepo,
		rowRepo,
		logger,
	)

	return usecase.NewPipelineService(
		normalizeSvc,
		scheduleSvc,
		injurySvc,
		oddsSvc,
		lbSvc,
		subSvc,
		ratingSvc,
		rollingSvc,
		martSvc,
		newRunNotifier(cfg, logger),
		nil,
		logger,
	)
}

func newRunNotifier(cfg config.Config, logger *logging.Logger) usecase.RunNotifier {
	if !cfg.NotifyEnabled {
		return nil
	}
	return notify.NewWebhookPublisher(notify.WebhookPublisherConfig{
		WebhookURL: cfg.NotifyWebhookURL,
		Token:      cfg.NotifyToken,
		Retries:    cfg.NotifyRetries,
		Timeout:    cfg.NotifyTimeout,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.NotifyCircuitEnabled,
			FailureThreshold: cfg.NotifyCircuitFailureCount,
			OpenTimeout:      cfg.NotifyCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.NotifyCircuitHalfOpenMax,
		},
	}, logger)
}

// NewHTTPServer builds the mart read API plus the internal pipeline trigger.
// Mart reads go through an in-process cache when enabled; pipeline writes
// invalidate it.
func NewHTTPServer(
	cfg config.Config,
	db *sqlx.DB,
	pipeline *usecase.PipelineService,
	logger *logging.Logger,
) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}

	teamRepo := postgres.NewTeamRepository(db)
	playerRepo := postgres.NewPlayerRepository(db)

	rowRepo := postgres.NewFeatureRowRepository(db)
	lbRepo := postgres.NewLeaderboardRepository(db)
	insightRepo := postgres.NewInsightRepository(db)
	ratingRepo := postgres.NewRatingRepository(db)

	queryService := usecase.NewFeatureQueryService(
		playerRepo,
		teamRepo,
		wrapFeatureRows(cfg, rowRepo),
		wrapLeaderboard(cfg, lbRepo),
		wrapInsights(cfg, insightRepo),
		ratingRepo,
		logger,
	)

	handler := httpapi.NewHandler(queryService, pipeline, logger)
	router := httpapi.NewRouter(handler, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

func wrapFeatureRows(cfg config.Config, next *postgres.FeatureRowRepository) mart.FeatureRowRepository {
	if !cfg.CacheEnabled {
		return next
	}
	return cacherepo.NewFeatureRowRepository(next, basecache.NewStore(cfg.CacheTTL))
}

func wrapLeaderboard(cfg config.Config, next *postgres.LeaderboardRepository) mart.LeaderboardRepository {
	if !cfg.CacheEnabled {
		return next
	}
	return cacherepo.NewLeaderboardRepository(next, basecache.NewStore(cfg.CacheTTL))
}

func wrapInsights(cfg config.Config, next *postgres.InsightRepository) mart.InsightRepository {
	if !cfg.CacheEnabled {
		return next
	}
	return cacherepo.NewInsightRepository(next, basecache.NewStore(cfg.CacheTTL))
}
