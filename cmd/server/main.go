package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/KOFI-GYIMAH/hacktrack/docs"
	"github.com/KOFI-GYIMAH/hacktrack/internal/cache"
	"github.com/KOFI-GYIMAH/hacktrack/internal/config"
	"github.com/KOFI-GYIMAH/hacktrack/internal/db"
	"github.com/KOFI-GYIMAH/hacktrack/internal/github"
	"github.com/KOFI-GYIMAH/hacktrack/internal/handler"
	md "github.com/KOFI-GYIMAH/hacktrack/internal/middleware"
	"github.com/KOFI-GYIMAH/hacktrack/internal/queue"
	"github.com/KOFI-GYIMAH/hacktrack/internal/service"
	"github.com/KOFI-GYIMAH/hacktrack/internal/worker"
	"github.com/KOFI-GYIMAH/hacktrack/pkg/logger"
	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/sync/errgroup"
)

// @title Hacktrack Ingestion Service
// @version 1.0.0
// @description Incremental GitHub commit history snapshots with per-commit line and file totals.
// @host localhost:8081
// @BasePath /v1
func main() {
	// * Load configuration
	cfg, err := config.LoadConfiguration()
	if err != nil {
		logger.Error("‼️ Failed to load config: %v", err)
		os.Exit(1)
	}

	logger.SetLevel(logger.ParseLevel(cfg.LogLevel))
	if os.Getenv("DEBUG") == "true" {
		logger.SetLevel(logger.LevelDebug)
	}

	// * Initialize PostgreSQL database
	database, err := db.NewPostgresDB(cfg.DBURL)
	if err != nil {
		logger.Error("Failed to initialize database: %v", err)
		os.Exit(1)
	}
	defer database.Close()

	// * Run migrations
	if err := database.Migrate(); err != nil {
		logger.Error("Failed to run migrations: %v", err)
		os.Exit(1)
	}
	logger.Info("Successfully ran migrations")

	// * Blob line-count cache, shared through redis when configured
	blobCache, err := cache.Open(cfg.BlobCacheSize, cfg.RedisURL)
	if err != nil {
		logger.Error("Failed to initialize blob cache: %v", err)
		os.Exit(1)
	}

	// * Initialize GitHub client
	githubClient := github.NewClient(cfg.GitHubToken,
		github.WithBaseURL(cfg.GitHubAPIURL),
		github.WithTimeout(cfg.RequestTimeout),
		github.WithRequestsPerMinute(cfg.RequestsPerMinute),
	)
	analyzer := github.NewAnalyzer(githubClient, blobCache)

	// * Create services
	repoService := service.NewRepositoryService(analyzer, database)
	syncWorker := worker.NewSyncWorker(repoService, cfg.SyncInterval, cfg.Targets)

	var rabbitMQ *queue.RabbitMQ
	if cfg.RabbitMQURL != "" {
		rabbitMQ, err = queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			logger.Warn("RabbitMQ unavailable, syncing inline: %v", err)
			rabbitMQ = nil
		} else {
			defer rabbitMQ.Close()
			repoService.WithPublisher(rabbitMQ)
		}
	}

	var publisher handler.SyncPublisher
	if rabbitMQ != nil {
		publisher = rabbitMQ
	}

	// * Create API server
	apiHandler := handler.NewRepositoryHandler(repoService, syncWorker, publisher)
	router := mux.NewRouter()
	router.Use(md.RequestID, md.LoggingMiddleware, md.Recover)
	api := router.PathPrefix("/v1").Subrouter()

	apiHandler.RegisterRoutes(api)
	router.PathPrefix("/v1/swagger/").Handler(httpSwagger.WrapHandler)

	server := &http.Server{
		Addr:              cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// * Know the quota before the first cycle spends it
	repoService.ReportRateLimit(ctx)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		syncWorker.Run(gctx)
		return nil
	})

	if rabbitMQ != nil {
		g.Go(func() error {
			return rabbitMQ.ConsumeSyncRequests(gctx, syncWorker.HandleRequest)
		})
	}

	g.Go(func() error {
		logger.Info("Starting API server on %s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("stopped with error: %v", err)
		os.Exit(1)
	}
}
