package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/AbdulWasayUl/country-cache-api/internal/config"
	"github.com/AbdulWasayUl/country-cache-api/internal/db"
	"github.com/AbdulWasayUl/country-cache-api/internal/logger"
	"github.com/AbdulWasayUl/country-cache-api/internal/render"
	"github.com/AbdulWasayUl/country-cache-api/internal/scheduler"
	"github.com/AbdulWasayUl/country-cache-api/internal/server"
	"github.com/AbdulWasayUl/country-cache-api/internal/store"
	"github.com/AbdulWasayUl/country-cache-api/services/countries"
	"github.com/AbdulWasayUl/country-cache-api/services/enrich"
	"github.com/AbdulWasayUl/country-cache-api/services/exchange"
	"github.com/AbdulWasayUl/country-cache-api/services/refresh"
)

func main() {
	logger.Init()
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)

	client, err := db.ConnectMongoDB(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := db.DisconnectMongoDB(ctx, client); err != nil {
			logger.Error("Error disconnecting MongoDB: %v", err)
		}
	}()

	if err := db.RunMigrations(ctx, client, cfg); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	generator, err := render.NewGenerator(cfg.ImageCachePath)
	if err != nil {
		log.Fatalf("Failed to prepare image cache: %v", err)
	}

	countryStore := store.New(client, cfg)
	sourceSvc := countries.NewService(cfg)
	exchangeSvc := exchange.NewService(cfg)
	pipeline := enrich.NewPipeline(exchangeSvc)
	orchestrator := refresh.NewOrchestrator(sourceSvc, pipeline, countryStore, generator)

	if cfg.RefreshIntervalMinutes > 0 {
		sch := scheduler.New()
		interval := time.Duration(cfg.RefreshIntervalMinutes) * time.Minute
		if err := sch.StartRefreshJob(ctx, interval, orchestrator); err != nil {
			log.Fatalf("Failed to start refresh scheduler: %v", err)
		}
		defer sch.Stop()
		logger.Info("Scheduled refresh every %s", interval)
	}

	srv := server.New(orchestrator, countryStore, generator)
	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: srv.Router(),
	}

	go func() {
		logger.Info("HTTP server listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server stopped: %v", err)
			quit <- os.Interrupt
		}
	}()

	<-quit
	logger.Info("Received interrupt signal. Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown error: %v", err)
	}

	logger.Info("Shutdown complete.")
}
