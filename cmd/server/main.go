package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/sprtutor/examportal/internal/config"
	"github.com/sprtutor/examportal/internal/database"
	"github.com/sprtutor/examportal/internal/exam"
	"github.com/sprtutor/examportal/internal/handler"
	"github.com/sprtutor/examportal/internal/logger"
	"github.com/sprtutor/examportal/internal/repository"
	"github.com/sprtutor/examportal/internal/router"
	"github.com/sprtutor/examportal/internal/service"
	"github.com/sprtutor/examportal/internal/store"
	"github.com/sprtutor/examportal/internal/validator"
	"github.com/sprtutor/examportal/internal/view"
	"github.com/sprtutor/examportal/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Exam Portal")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Stores ─────────────────────────────────────────────
	blobs := repository.NewBlobRepository(pool)

	questionStore := store.NewQuestionStore(blobs, log)
	resultStore := store.NewResultStore(blobs, log)
	settingStore := store.NewSettingStore(blobs, log)

	// Load everything before accepting traffic; a corrupt blob falls back
	// to an empty collection, anything else is fatal.
	if err := questionStore.Load(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to load question store")
	}
	if err := resultStore.Load(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to load result store")
	}
	if err := settingStore.Load(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to load settings")
	}

	// ─── Session Manager and View Registry ─────────────────────────────
	bgCtx, bgCancel := context.WithCancel(context.Background())

	manager := exam.NewManager(bgCtx, log)
	registry := view.NewRegistry(log)

	go manager.Start(bgCtx)
	go registry.Start(bgCtx)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, rdb)
	questionService := service.NewQuestionService(questionStore)
	importService := service.NewImportService(cfg, rdb, questionStore, log)
	examService := service.NewExamService(questionStore, settingStore, resultStore, manager, rdb, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Portal:   handler.NewPortalHandler(registry, questionStore, authService),
		Exam:     handler.NewExamHandler(examService),
		Question: handler.NewQuestionHandler(questionService, importService),
		Setting:  handler.NewSettingHandler(settingStore, cfg),
		WS:       handler.NewWSHandler(examService, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	notifyWorker := worker.NewNotifyWorker(rdb, log)
	go notifyWorker.Start(bgCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop session tickers, the reaper, and the notify worker.
	bgCancel()
	time.Sleep(2 * time.Second) // Allow the worker to drain.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
