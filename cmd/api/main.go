package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"modshop/internal/config"
	"modshop/internal/database"
	"modshop/internal/server"
)

func setupLogger(cfg config.LogConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format != "json" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	setupLogger(cfg.Log)

	ctx := context.Background()

	db, err := database.New(ctx, cfg.Mongo.URI, cfg.Mongo.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	if err := db.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to create indexes")
	}

	s := server.NewServer(cfg, db, prometheus.DefaultRegisterer)
	if err := s.BootstrapAdmin(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to create bootstrap admin")
	}

	done := make(chan bool, 1)
	go s.GracefulShutdown(done)

	if err := s.Start(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("HTTP server error")
	}

	<-done

	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.Close(closeCtx); err != nil {
		log.Error().Err(err).Msg("Error disconnecting from MongoDB")
	}
	log.Info().Msg("Graceful shutdown complete.")
}
