package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"galleryapi/internal/config"
	"galleryapi/internal/database"
	"galleryapi/internal/database/migration"
	handlers "galleryapi/internal/http/handler"
	"galleryapi/internal/http/middleware"
	"galleryapi/internal/imaging"
	"galleryapi/internal/otel"
	"galleryapi/internal/repository/postgres"
	"galleryapi/internal/service"
	"galleryapi/internal/storage"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	ctx := context.Background()

	// Tracing first so the database driver picks up the provider
	shutdownTracing, err := otel.Init(ctx, time.UTC)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(ctx)

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := migration.EnsureMigrated(migrateCtx, db, time.UTC, cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Both storage backends are constructed up front; the router picks one
	// per call based on the STORAGE_PROVIDER environment variable.
	localStore, err := storage.NewLocal(cfg.Storage.LocalRoot)
	if err != nil {
		log.Fatalf("failed to initialize local storage: %v", err)
	}
	objStore, err := storage.NewMinio(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	// Initialize repositories
	photoRepo := postgres.NewPhotoPostgres(db)
	userRepo := postgres.NewUserPostgres(db)
	auditRepo := postgres.NewAuditPostgres(db)

	// Every storage operation goes through the audited router
	store := storage.WithAudit(
		storage.NewRouter(config.StorageProvider, localStore, objStore),
		auditRepo,
	)

	// Initialize services
	uploadSvc := service.NewUploadService(store, photoRepo, userRepo, auditRepo)
	photoSvc := service.NewPhotoService(store, photoRepo, auditRepo, imaging.PassThrough{})
	userSvc := service.NewUserService(userRepo, auditRepo)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	app.Use(middleware.RequestID())
	app.Use(middleware.Actor())
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	// Prometheus metrics with Go runtime and process collectors
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promMiddleware, err := middleware.NewPrometheusMiddleware(registry)
	if err != nil {
		log.Fatalf("failed to initialize prometheus middleware: %v", err)
	}
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, db, uploadSvc, photoSvc, userSvc)

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
