package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"time"

	"billing-export/internal/apiclient"
	"billing-export/internal/auth"
	"billing-export/internal/cache"
	"billing-export/internal/config"
	"billing-export/internal/database"
	"billing-export/internal/db"
	"billing-export/internal/handlers"
	"billing-export/internal/health"
	h "billing-export/internal/http"
	"billing-export/internal/logger"
	"billing-export/internal/middleware"
	"billing-export/internal/repositories"
	"billing-export/internal/sentry"
	"billing-export/internal/services"
	"billing-export/internal/storage"
	"billing-export/migrations"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	log, err := logger.NewLogger()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	sentrySvc := sentry.NewService(cfg, log)
	defer sentrySvc.Flush()

	// Database is optional. Without it the export audit log is skipped
	// and the service still renders documents.
	pool, err := db.Connect(cfg)
	if err != nil {
		log.Warnw("database unavailable, export audit log disabled", "error", err)
		pool = nil
	}
	if pool != nil {
		defer pool.Close()

		migrator := database.NewMigrator(pool, migrations.FS)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := migrator.RunMigrations(ctx); err != nil {
			cancel()
			log.Fatalw("failed to run migrations", "error", err)
		}
		cancel()
	}

	// Redis cache is optional - graceful fallback if unavailable
	if err := cache.Init(); err != nil {
		log.Warnw("cache unavailable, region catalog will be fetched per request", "error", err)
	} else {
		log.Infow("cache connected")
	}

	healthChecker := health.NewHealthChecker(pool)
	jwtManager := auth.NewJWTManager(cfg)

	billingAPI := apiclient.New(cfg, log)
	exportService := services.NewExportService(billingAPI, cfg, log)

	archiver, err := storage.NewArchiver(cfg, log)
	if err != nil {
		log.Warnw("archiver unavailable, exports will not be archived", "error", err)
		archiver = nil
	}

	var exportLogs *repositories.ExportLogRepository
	if pool != nil {
		exportLogs = repositories.NewExportLogRepository(pool)
	}

	exportHandler := handlers.NewExportHandler(exportService, sentrySvc, exportLogs, archiver, log)
	systemHandler := handlers.NewSystemHandler()
	healthHandler := handlers.NewHealthHandler(healthChecker)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager)

	router := h.NewRouter(exportHandler, systemHandler, healthHandler, authMiddleware)

	corsMiddleware := middleware.NewCORS(cfg)
	handler := middleware.PanicRecovery(log)(
		middleware.RequestLogging(log)(
			middleware.MetricsMiddleware(corsMiddleware(router)),
		),
	)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Infow("server starting", "addr", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalw("server failed to start", "error", err)
	}
}
