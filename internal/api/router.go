// JNFO - Jellyfin Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jnfo

// Package api provides HTTP routing using Chi router.
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/jnfo/internal/middleware"
	"github.com/tomtom215/jnfo/internal/models"
)

// Router wires handlers and middleware into the HTTP surface.
type Router struct {
	handler   *Handler
	staticDir string
}

// NewRouter creates a new Router.
func NewRouter(handler *Handler, staticDir string) *Router {
	return &Router{
		handler:   handler,
		staticDir: staticDir,
	}
}

// chiMiddleware adapts http.HandlerFunc middleware to Chi's
// func(http.Handler) http.Handler so it works with r.Use().
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to ALL routes in order
	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chimiddleware.RealIP)    // Extract real IP from X-Forwarded-For
	r.Use(chimiddleware.Recoverer) // Recover from panics
	r.Use(cors.Handler(cors.Options{
		// The dashboard is read-only and unauthenticated; any origin may read it
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         86400,
	}))

	// API endpoints
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.Limit(100, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.Get("/dashboard", router.handler.Dashboard)
		r.Get("/health", router.handler.Health)
	})

	// Prometheus metrics
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	// Unmatched API paths get a JSON 404 instead of the SPA fallback
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		if strings.HasPrefix(req.URL.Path, "/api/") {
			respondJSON(w, http.StatusNotFound, &models.NotFoundResponse{Message: "Not found"})
			return
		}
		router.serveStaticOrIndex(w, req)
	})

	return r
}
