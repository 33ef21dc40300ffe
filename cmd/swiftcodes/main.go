package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	handler "github.com/zdziszkee/swift-directory/internal/api/handlers"
	"github.com/zdziszkee/swift-directory/internal/api/router"
	config "github.com/zdziszkee/swift-directory/internal/configurations"
	"github.com/zdziszkee/swift-directory/internal/database"
	"github.com/zdziszkee/swift-directory/internal/importer"
	"github.com/zdziszkee/swift-directory/internal/logging"
	"github.com/zdziszkee/swift-directory/internal/metrics"
	reader "github.com/zdziszkee/swift-directory/internal/readers"
	repository "github.com/zdziszkee/swift-directory/internal/repositories"
	"github.com/zdziszkee/swift-directory/internal/repositories/memory"
	service "github.com/zdziszkee/swift-directory/internal/services"
	"github.com/zdziszkee/swift-directory/internal/sources"
)

// loadSwiftCodesFromFile imports a sheet from a local path or an s3:// location
func loadSwiftCodesFromFile(ctx context.Context, location string, opener *sources.Opener, imp importer.Importer) (*importer.ImportSummary, error) {
	src, err := opener.Open(ctx, location)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	rows, err := reader.Open(src.Name, src)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", location, err)
	}
	defer rows.Close()

	return imp.Import(ctx, rows)
}

// openStore returns the configured store and a function releasing it
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.Store, func() error, error) {
	if strings.EqualFold(cfg.Database.Type, config.DatabaseMemory) {
		logger.Info("using in-memory store")
		return memory.NewStore(), func() error { return nil }, nil
	}

	db, err := database.New(ctx, cfg.Database, logger)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("connected to database", zap.String("type", db.Dialect().Name()))
	return repository.NewSQLStore(db, repository.WithBatchSize(cfg.Import.BatchSize)), db.Close, nil
}

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to configuration file")
	loadFile := flag.String("load", "", "Path or s3:// location of a SWIFT codes sheet to load")
	importOnly := flag.Bool("import-only", false, "Load the SWIFT codes sheet and exit")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Override config with command line flags if provided
	if *loadFile != "" {
		cfg.Data.SwiftCodesFile = *loadFile
		cfg.Data.AutoLoad = true
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck
	logger = logger.With(zap.String("app", cfg.AppName))

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	// Initialize store
	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 5*time.Minute)
	store, closeStore, err := openStore(connectCtx, cfg, logger)
	cancelConnect()
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer closeStore() //nolint:errcheck

	swiftService := service.NewSwiftService(store, logger, appMetrics)
	swiftImporter := importer.New(store, logger, importer.WithMetrics(appMetrics))

	// Auto-load data if configured
	if cfg.Data.AutoLoad && cfg.Data.SwiftCodesFile != "" {
		logger.Info("loading SWIFT codes", zap.String("source", cfg.Data.SwiftCodesFile))

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		summary, err := loadSwiftCodesFromFile(ctx, cfg.Data.SwiftCodesFile, sources.NewOpener(cfg.S3), swiftImporter)
		cancel()
		switch {
		case err != nil && *importOnly:
			logger.Fatal("failed to load SWIFT codes", zap.Error(err))
		case err != nil:
			logger.Warn("failed to load SWIFT codes", zap.Error(err))
		default:
			logger.Info("loaded SWIFT codes",
				zap.String("run_id", summary.RunID),
				zap.Int("banks", summary.Banks),
				zap.Int64("banks_inserted", summary.BanksInserted))
		}
	}
	if *importOnly {
		return
	}

	// Initialize handler
	swiftHandler := handler.NewSwiftHandler(swiftService, swiftImporter, logger)

	// Setup routes
	app := router.SetupRoutes(swiftHandler, router.Options{
		AppName:      cfg.AppName,
		BodyLimit:    cfg.Server.BodyLimit,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Logger:       logger,
		Metrics:      appMetrics,
		Gatherer:     registry,
	})

	// Start server in a goroutine so we can handle graceful shutdown
	go func() {
		logger.Info("starting server", zap.String("address", cfg.Server.Address))
		if err := app.Listen(cfg.Server.Address); err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Set up graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	// Provide a timeout context for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exiting")
}
