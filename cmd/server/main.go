// JNFO - Jellyfin Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jnfo

// JNFO aggregates live Jellyfin server state into a single dashboard
// document and serves it alongside the frontend bundle.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/jnfo/internal/api"
	"github.com/tomtom215/jnfo/internal/config"
	"github.com/tomtom215/jnfo/internal/dashboard"
	"github.com/tomtom215/jnfo/internal/jellyfin"
	"github.com/tomtom215/jnfo/internal/logging"
	"github.com/tomtom215/jnfo/internal/supervisor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("jellyfin_url", cfg.Jellyfin.URL).
		Str("static_dir", cfg.Server.StaticDir).
		Int("port", cfg.Server.Port).
		Msg("Starting JNFO")

	client := jellyfin.NewClient(cfg.Jellyfin.URL, cfg.Jellyfin.APIKey)
	aggregator := dashboard.New(
		client,
		cfg.Dashboard.LatestLimit,
		cfg.Dashboard.RecencyWindow,
		cfg.Dashboard.BotMarkers,
	)

	router := api.NewRouter(api.NewHandler(aggregator), cfg.Server.StaticDir)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sup := supervisor.New(logging.NewSlogLogger(), supervisor.DefaultConfig())
	sup.Add(supervisor.NewHTTPServerService(server, 10*time.Second))

	logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")

	if err := sup.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Fatal().Err(err).Msg("Supervisor exited with error")
	}

	logging.Info().Msg("Shutdown complete")
}
