package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/soundslike/guesstrack/internal/app"
	"github.com/soundslike/guesstrack/internal/config"
	"github.com/soundslike/guesstrack/internal/httpapp"
	"github.com/soundslike/guesstrack/internal/logger"
	"github.com/soundslike/guesstrack/internal/store"
	"github.com/soundslike/guesstrack/internal/worker"
)

func main() {
	// Optional .env for local development; env vars win either way.
	_ = godotenv.Load()

	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// Several processes can share one database file; the instance id tells
	// their log streams apart.
	appLogger := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	}).WithInstance(uuid.New().String()[:8])

	db, err := store.NewSQLiteDB(cfg.Database.Path)
	if err != nil {
		appLogger.Error("Failed to init DB", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	gameService := app.NewGameService(db, cfg.Guess, appLogger)

	w := worker.NewWorker(gameService, cfg.Worker.PollInterval, appLogger)
	w.Start()
	defer w.Stop()

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	h := httpapp.NewHandler(gameService)
	h.RegisterRoutes(r)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		appLogger.Info("Server listening", "addr", srv.Addr, "guess_enabled", cfg.Guess.Enabled)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	appLogger.Info("Server exiting")
}
