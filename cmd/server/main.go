package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/agriadvisor/internal/config"
	"github.com/mamadbah2/agriadvisor/internal/repository/mongodb"
	"github.com/mamadbah2/agriadvisor/internal/repository/sheets"
	"github.com/mamadbah2/agriadvisor/internal/scheduler"
	"github.com/mamadbah2/agriadvisor/internal/server/handlers"
	"github.com/mamadbah2/agriadvisor/internal/server/router"
	"github.com/mamadbah2/agriadvisor/internal/service/estimation"
	"github.com/mamadbah2/agriadvisor/internal/service/lookup"
	"github.com/mamadbah2/agriadvisor/internal/service/reference"
	"github.com/mamadbah2/agriadvisor/internal/store"
	"github.com/mamadbah2/agriadvisor/pkg/clients/advisory"
	"github.com/mamadbah2/agriadvisor/pkg/clients/anthropic"
	"github.com/mamadbah2/agriadvisor/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bundled, err := reference.Bundled()
	if err != nil {
		baseLogger.Fatal("failed to load bundled reference data", zap.Error(err))
	}

	var (
		referenceProvider reference.Provider = bundled
		estimationOpts                       = []estimation.Option{estimation.WithMaxEntries(cfg.Estimation.MaxEntries)}
	)

	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(ctx, cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}

		cache := reference.NewCachedProvider(
			reference.NewSheetsProvider(sheetsRepo, cfg.Sheets.ReferenceRange, logger.Named(baseLogger, "reference.sheets")),
			bundled,
			logger.Named(baseLogger, "reference.cache"),
		)
		referenceProvider = cache
		estimationOpts = append(estimationOpts, estimation.WithSheetsExport(sheetsRepo, cfg.Sheets.ReportRange))

		sched := scheduler.NewScheduler(cfg.Reference.RefreshCron, cache, logger.Named(baseLogger, "scheduler"))
		if err := sched.Start(ctx); err != nil {
			baseLogger.Fatal("failed to start scheduler", zap.Error(err))
		}
		defer sched.Stop()
	} else {
		baseLogger.Warn("google sheet not configured, using bundled reference data without export")
	}

	var reports mongodb.Repository
	if cfg.MongoDB.URI != "" {
		mongoRepo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		reports = mongoRepo
	} else {
		baseLogger.Warn("mongodb uri missing, yield reports kept in memory")
		reports = mongodb.NewMemoryRepository()
	}

	estimationSvc := estimation.NewService(referenceProvider, reports, logger.Named(baseLogger, "svc.estimation"), estimationOpts...)

	var cropLookup handlers.CropLookup
	if cfg.AI.AnthropicKey != "" {
		cropLookup = lookup.NewService(anthropic.NewClient(cfg.AI.AnthropicKey), logger.Named(baseLogger, "svc.lookup"))
		baseLogger.Info("anthropic ai client enabled")
	} else {
		baseLogger.Warn("anthropic api key missing, crop price lookup disabled")
	}

	advisoryClient := advisory.NewClient(cfg.Advisory)
	recommendations := store.NewRecommendationStore()

	yieldHandler := handlers.NewYieldHandler(estimationSvc, cropLookup, logger.Named(baseLogger, "handlers.yield"))
	advisoryHandler := handlers.NewAdvisoryHandler(advisoryClient, recommendations, logger.Named(baseLogger, "handlers.advisory"))
	engine := router.New(yieldHandler, advisoryHandler, logger.Named(baseLogger, "router"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Advisory.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
