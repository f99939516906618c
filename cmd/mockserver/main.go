package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rodolf2/event-evaluation-system-client-sub000/internal/config"
	"github.com/rodolf2/event-evaluation-system-client-sub000/internal/logger"
	"github.com/rodolf2/event-evaluation-system-client-sub000/internal/mockserver"
	"github.com/rodolf2/event-evaluation-system-client-sub000/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Dur("certificate_delay", cfg.CertificateDelay).
		Msg("Starting mock evaluation portal")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	// ─── Build Fixture State ───────────────────────────────────────────
	store := mockserver.NewStore(cfg.CertificateDelay)
	form := store.SeedSampleForm()
	log.Info().Str("form_id", form.ID).Str("title", form.Title).Msg("Seeded sample evaluation")

	tokens := mockserver.NewTokenService(cfg.JWTSecret, cfg.JWTExpiry)
	handler := mockserver.NewHandler(store, tokens, log)
	router := mockserver.SetupRouter(handler, tokens, cfg)

	// ─── Serve ─────────────────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutdown requested")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Forced shutdown")
	}
	log.Info().Msg("Server stopped")
}
