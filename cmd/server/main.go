package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vocabox/vocabox/internal/api"
	"github.com/vocabox/vocabox/internal/config"
	"github.com/vocabox/vocabox/internal/db"
	"github.com/vocabox/vocabox/internal/lesson"
	"github.com/vocabox/vocabox/internal/logger"
	"github.com/vocabox/vocabox/internal/repository/sqlite"
	"github.com/vocabox/vocabox/internal/services"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(cfg.LogLevel, os.Stdout)
	logger.SetDefault(log)

	log.Info("vocabox server starting")
	log.Debugf("addr=%s", cfg.Addr)
	log.Debugf("db_path=%s", cfg.DBPath)
	log.Debugf("lessons_dir=%s", cfg.LessonsDir)
	log.Debugf("log_level=%s", cfg.LogLevel)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Errorf("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Initialize services
	loader := lesson.NewLoader(cfg.LessonsDir)
	deckRepo := sqlite.NewDeckRepository(database.DB)
	reviewService := services.NewReviewService(loader, deckRepo)

	srv := &api.Server{
		Reviews: reviewService,
	}

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSec) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeoutSec) * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Infof("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Infof("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP server shutdown error: %v", err)
	}

	log.Info("vocabox server stopped")
}
