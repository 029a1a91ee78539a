// JNFO - Jellyfin Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jnfo

package config

import (
	"fmt"
	"net/url"
)

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateJellyfin(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateDashboard(); err != nil {
		return err
	}
	return c.validateLogging()
}

// validateJellyfin validates the upstream connection settings.
// Both are hard requirements: without them no dashboard can be assembled.
func (c *Config) validateJellyfin() error {
	if c.Jellyfin.URL == "" {
		return fmt.Errorf("JELLYFIN_URL is required")
	}
	if err := validateHTTPURL(c.Jellyfin.URL, "JELLYFIN_URL"); err != nil {
		return fmt.Errorf("JELLYFIN_URL is invalid: %w", err)
	}
	if c.Jellyfin.APIKey == "" {
		return fmt.Errorf("JELLYFIN_API_KEY is required")
	}
	return nil
}

// validateServer validates HTTP server configuration.
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Server.StaticDir == "" {
		return fmt.Errorf("STATIC_DIR must not be empty")
	}
	return nil
}

// validateDashboard validates aggregation pipeline settings.
func (c *Config) validateDashboard() error {
	if c.Dashboard.LatestLimit < 1 || c.Dashboard.LatestLimit > 100 {
		return fmt.Errorf("DASHBOARD_LATEST_LIMIT must be between 1 and 100")
	}
	if c.Dashboard.RecencyWindow <= 0 {
		return fmt.Errorf("DASHBOARD_RECENCY_WINDOW must be positive")
	}
	return nil
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration.
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// validateHTTPURL validates that a URL is properly formatted for HTTP/HTTPS services.
// Validates: scheme (http/https), host present, no paths or query params.
func validateHTTPURL(rawURL, fieldName string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %s", fieldName, parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}

	// Allow trailing slash but no other paths
	if parsedURL.Path != "" && parsedURL.Path != "/" {
		return fmt.Errorf("%s should be base URL only, remove path: %s", fieldName, parsedURL.Path)
	}

	if parsedURL.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters, remove: ?%s", fieldName, parsedURL.RawQuery)
	}

	return nil
}
