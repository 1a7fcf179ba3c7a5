package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"quillpress/internal/config"
	"quillpress/internal/db"
	"quillpress/internal/logger"
	"quillpress/internal/router"
)

func main() {
	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	logger.Init(cfg.Log)
	if envErr != nil {
		log.Info().Msg("No .env file found, reading configuration from the environment")
	}

	// Initialize Database
	if err := db.Init(cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router.New(cfg),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Quillpress server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	if sqlDB, err := db.DB.DB(); err == nil {
		sqlDB.Close()
	}
	log.Info().Msg("Server exited")
}
