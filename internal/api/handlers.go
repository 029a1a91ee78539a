// JNFO - Jellyfin Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jnfo

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/jnfo/internal/dashboard"
	"github.com/tomtom215/jnfo/internal/logging"
	"github.com/tomtom215/jnfo/internal/middleware"
	"github.com/tomtom215/jnfo/internal/models"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	aggregator *dashboard.Aggregator
}

// NewHandler creates a new API handler.
func NewHandler(aggregator *dashboard.Aggregator) *Handler {
	return &Handler{aggregator: aggregator}
}

// Dashboard serves the aggregated dashboard document.
//
// Upstream failures are reported as a generic error body with status 200.
// The frontend treats the presence of the "error" key as the failure
// signal; no upstream details leak to the client.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	dash, err := h.aggregator.Build(r.Context())
	if err != nil {
		logging.Error().
			Err(err).
			Str("request_id", middleware.GetRequestID(r.Context())).
			Msg("Dashboard aggregation failed")
		respondJSON(w, http.StatusOK, &models.ErrorResponse{Error: "Failed to fetch data"})
		return
	}

	logging.Debug().
		Dur("duration", time.Since(start)).
		Int("active_streams", len(dash.ActiveStreams)).
		Int("total_sessions", dash.TotalSessions).
		Msg("Dashboard aggregated")

	respondJSON(w, http.StatusOK, dash)
}

// healthResponse is the liveness probe body.
type healthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// Health reports process liveness. It intentionally does not probe the
// Jellyfin upstream; a dead upstream is surfaced through the dashboard
// endpoint's error body instead.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &healthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}
