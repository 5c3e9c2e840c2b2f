package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/courtsight/featuremart/internal/app"
	"github.com/courtsight/featuremart/internal/config"
	"github.com/courtsight/featuremart/internal/observability"
	"github.com/courtsight/featuremart/internal/platform/logging"
	"github.com/courtsight/featuremart/internal/usecase"
)

func main() {
	var (
		tablesFlag  = flag.String("tables", "", "comma-separated derived tables to refresh (empty = all)")
		asOfFlag    = flag.String("as-of", "", "as-of date YYYY-MM-DD (empty = today)")
		modeFlag    = flag.String("mode", "full", "run mode: full or incremental")
		landingFlag = flag.String("landing", "", "landing directory override")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if strings.TrimSpace(*landingFlag) != "" {
		cfg.LandingDir = strings.TrimSpace(*landingFlag)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() {
		_ = logger.Sync()
	}()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		os.Exit(1)
	}

	params := usecase.RunParams{}
	if strings.TrimSpace(*tablesFlag) != "" {
		for _, table := range strings.Split(*tablesFlag, ",") {
			table = strings.TrimSpace(table)
			if table != "" {
				params.Tables = append(params.Tables, table)
			}
		}
	}
	if strings.TrimSpace(*asOfFlag) != "" {
		asOf, parseErr := time.Parse("2006-01-02", strings.TrimSpace(*asOfFlag))
		if parseErr != nil {
			logger.Error("invalid -as-of date", "value", *asOfFlag, "error", parseErr)
			os.Exit(2)
		}
		params.AsOf = asOf
	} else {
		now := time.Now().UTC()
		params.AsOf = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	mode, err := usecase.ParseRunMode(*modeFlag)
	if err != nil {
		logger.Error("invalid -mode", "value", *modeFlag, "error", err)
		os.Exit(2)
	}
	params.Mode = mode

	ctx := context.Background()
	db, err := app.OpenDB(ctx, cfg, logger)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = db.Close()
	}()

	pipeline := app.NewPipeline(db, cfg, logger)

	report, err := pipeline.Run(ctx, params)
	if err != nil {
		logger.Error("pipeline run failed", "error", err)
		os.Exit(1)
	}

	for _, stage := range report.Stages {
		args := []any{
			"run_id", report.RunID,
			"stage", stage.Name,
			"status", string(stage.Status),
			"duration_ms", stage.Duration.Milliseconds(),
		}
		if stage.Err != nil {
			args = append(args, "error", stage.Err)
			logger.Warn("stage finished", args...)
			continue
		}
		logger.Info("stage finished", args...)
	}
	for metric, count := range report.DataQuality {
		logger.Info("data quality", "run_id", report.RunID, "metric", metric, "count", count)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("shutdown tracing failed", "error", err)
	}

	if report.Failed() {
		fmt.Fprintf(os.Stderr, "pipeline run %s finished with failed stages\n", report.RunID)
		os.Exit(1)
	}
	logger.Info("pipeline run succeeded", "run_id", report.RunID, "as_of", report.AsOf.Format("2006-01-02"), "duration_ms", report.Duration.Milliseconds())
}
