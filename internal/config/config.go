// JNFO - Jellyfin Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jnfo

// Package config loads and validates application configuration.
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//  1. Built-in defaults
//  2. Optional YAML config file (config.yaml, or CONFIG_PATH)
//  3. Environment variables
//
// Required settings are JELLYFIN_URL and JELLYFIN_API_KEY; the process must
// not start serving without them. Config is immutable after Load() and safe
// for concurrent read access.
package config

import "time"

// Config holds all application configuration.
type Config struct {
	Jellyfin  JellyfinConfig  `koanf:"jellyfin"`
	Server    ServerConfig    `koanf:"server"`
	Dashboard DashboardConfig `koanf:"dashboard"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// JellyfinConfig holds the upstream Jellyfin connection settings.
//
// Environment Variables:
//   - JELLYFIN_URL: Jellyfin server URL (e.g., http://localhost:8096) - required
//   - JELLYFIN_API_KEY: API key from Admin Dashboard > API Keys - required
type JellyfinConfig struct {
	URL    string `koanf:"url"`
	APIKey string `koanf:"api_key"`
}

// ServerConfig holds HTTP server settings.
//
// Environment Variables:
//   - HTTP_PORT (or PORT): listen port (default: 5000)
//   - HTTP_HOST: bind address (default: 0.0.0.0)
//   - HTTP_TIMEOUT: request read header timeout (default: 30s)
//   - STATIC_DIR: prebuilt frontend bundle directory (default: ./web/dist)
type ServerConfig struct {
	Host      string        `koanf:"host"`
	Port      int           `koanf:"port"`
	Timeout   time.Duration `koanf:"timeout"`
	StaticDir string        `koanf:"static_dir"`
}

// DashboardConfig tunes the aggregation pipeline.
//
// Environment Variables:
//   - DASHBOARD_LATEST_LIMIT: per-category latest-items limit (default: 10)
//   - DASHBOARD_RECENCY_WINDOW: idle-session cutoff for recent browsers (default: 20m)
//   - DASHBOARD_BOT_MARKERS: comma-separated client-name substrings to drop
//     from recent browsers (default: jellyseerr)
type DashboardConfig struct {
	LatestLimit   int           `koanf:"latest_limit"`
	RecencyWindow time.Duration `koanf:"recency_window"`
	BotMarkers    []string      `koanf:"bot_markers"`
}

// LoggingConfig holds logging settings.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: include caller file and line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration from all layered sources and validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
