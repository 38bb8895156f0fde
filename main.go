package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wellnest/messaging/internal/adapter/llm"
	"github.com/wellnest/messaging/internal/auth"
	"github.com/wellnest/messaging/internal/config"
	"github.com/wellnest/messaging/internal/repository"
	"github.com/wellnest/messaging/internal/service"
	handler "github.com/wellnest/messaging/internal/transport/http"
	"github.com/wellnest/messaging/policy"
)

func main() {
	// A local .env is optional.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := setupLogger(cfg.LogLevel, cfg.LogFormat); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log.Info().
		Int("http_port", cfg.HTTPPort).
		Int("internal_port", cfg.InternalPort).
		Str("store", cfg.StoreDriver).
		Str("llm_url", cfg.LLMBaseURL).
		Msg("starting messaging service")

	// Initialize store
	db, err := store.Open(cfg.StoreDriver, cfg.DatabaseURL, cfg.BadgerPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize store")
	}
	defer db.Close()

	// Initialize LLM client
	llmClient := llm.NewLLMClient(cfg.Mode, cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMTimeout, log.Logger)
	if cfg.Mode != llm.ModeMock && cfg.LLMAPIKey == "" {
		log.Warn().Msg("LLM_API_KEY is empty, assistant chat will fail with upstream errors")
	}

	// Initialize policy engine
	ctx := context.Background()
	policyEngine, err := policy.LoadEngine(ctx, cfg.PolicyPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize policy engine")
	}

	// Initialize service
	svc := service.New(db, llmClient, policyEngine, cfg, log.Logger)
	verifier := auth.NewJWTVerifier([]byte(cfg.JWTSecret))

	externalServer := handler.NewExternalServer(svc, verifier, log.Logger)
	internalServer := handler.NewInternalServer(svc, log.Logger)

	// Start external server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := externalServer.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start external server")
		}
	}()

	// Start internal server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.InternalPort)
		if err := internalServer.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start internal server")
		}
	}()

	log.Info().Msgf("external API listening on :%d", cfg.HTTPPort)
	log.Info().Msgf("internal API listening on :%d", cfg.InternalPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down messaging service")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := externalServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to shutdown external server gracefully")
	}
	if err := internalServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to shutdown internal server gracefully")
	}

	log.Info().Msg("messaging service stopped")
}

func setupLogger(level, format string) error {
	parsedLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %w", err)
	}

	var output io.Writer = os.Stderr
	if format == "console" {
		output = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	log.Logger = zerolog.New(output).With().Timestamp().Logger().Level(parsedLevel)
	return nil
}
