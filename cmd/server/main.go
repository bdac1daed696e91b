package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/SergioPauloA/Volpz/internal/api"
	"github.com/SergioPauloA/Volpz/internal/config"
	"github.com/SergioPauloA/Volpz/internal/router"
	"github.com/SergioPauloA/Volpz/internal/store"
	"github.com/SergioPauloA/Volpz/internal/ws"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	var logger zerolog.Logger
	if cfg.IsDevelopment() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
	} else {
		logger = zerolog.New(os.Stdout).
			With().
			Timestamp().
			Logger()
	}

	// In-memory stores, seeded with the bootstrap account
	identities := store.NewMemoryIdentityStore(cfg.PrivilegedSector, cfg.SeedAccount)
	conversations := store.NewMemoryConversationStore()
	presence := router.NewPresence()

	// Hub and router reference each other: the hub hands frames to the
	// router, the router broadcasts legacy frames through the hub.
	hub := ws.NewHub(logger, cfg.MaxMessageBytes)
	rt := router.New(identities, conversations, presence, hub, logger)
	hub.SetRouter(rt)

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go hub.Run(hubCtx)

	// Create server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(logger, hub, identities, presence),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Str("seed_cpf", cfg.SeedAccount.CPF).
			Msg("starting Volpz server")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server...")

	// Stop accepting new connections first, then close the live websockets.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown failed")
	}

	stopHub()
	if err := hub.Shutdown(5 * time.Second); err != nil {
		logger.Warn().Err(err).Msg("hub shutdown timed out")
	}

	logger.Info().Msg("server stopped")
}
