// Package main is the entry point for Skirmish.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/samdwyer/skirmish/internal/config"
	"github.com/samdwyer/skirmish/internal/game"
	"github.com/samdwyer/skirmish/internal/telemetry"
)

func main() {
	// Load .env file for local development
	// This makes HONEYCOMB_SKIRMISH_API_KEY available
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "skirmish: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the game from here on, so log to a file or nowhere.
	logFile := setupLogging(cfg.LogDir, cfg.Debug)
	if logFile != nil {
		defer logFile.Close()
	}
	if envErr != nil {
		log.Printf("Note: .env file not loaded: %v", envErr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Telemetry {
		setupOTelEnv(cfg)
		shutdown, err := telemetry.Setup(ctx)
		if err != nil {
			log.Printf("Warning: telemetry setup failed: %v", err)
			log.Printf("Game will run without observability")
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					log.Printf("Error shutting down telemetry: %v", err)
				}
			}()
		}
	}

	g, err := game.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "skirmish: failed to initialize game: %v\n", err)
		os.Exit(1)
	}

	if err := g.Run(ctx); err != nil {
		log.Printf("Game error: %v", err)
		fmt.Fprintf(os.Stderr, "skirmish: %v\n", err)
		os.Exit(1)
	}
}

// setupOTelEnv configures OTEL environment variables from our custom env vars.
func setupOTelEnv(cfg config.Config) {
	// Always set endpoint to Honeycomb
	os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")

	// The .env file may have an unexpanded variable reference that doesn't work,
	// so the header is constructed here
	if cfg.HoneycombAPIKey != "" {
		os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
			fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", cfg.HoneycombAPIKey, cfg.HoneycombDataset))
	}
}
