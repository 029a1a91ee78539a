// JNFO - Jellyfin Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jnfo

package api

import (
	"net/http"
	"path"
	"strings"

	"github.com/tomtom215/jnfo/internal/models"
)

// serveStaticOrIndex serves the frontend bundle with SPA routing.
//
// Existing files are served with cache headers scaled to how often they
// change. Extensionless paths are treated as client-side routes and get
// index.html. Everything else is a 404.
func (router *Router) serveStaticOrIndex(w http.ResponseWriter, r *http.Request) {
	p := r.URL.Path

	if p == "/" || p == "/index.html" {
		// Short cache for HTML to allow quick updates
		w.Header().Set("Cache-Control", "public, max-age=300")
		router.serveIndex(w, r)
		return
	}

	if router.fileExists(p) {
		// Cache headers only for files that will actually be served; a 404
		// must stay uncacheable
		if strings.HasSuffix(p, ".js") || strings.HasSuffix(p, ".css") {
			// Long cache for versioned assets (1 year)
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else if strings.HasSuffix(p, ".png") || strings.HasSuffix(p, ".svg") || strings.HasSuffix(p, ".jpg") || strings.HasSuffix(p, ".webp") || strings.HasSuffix(p, ".ico") {
			// Cache images for 7 days
			w.Header().Set("Cache-Control", "public, max-age=604800")
		} else if p == "/manifest.json" {
			w.Header().Set("Cache-Control", "public, max-age=300")
		}

		http.FileServer(http.Dir(router.staticDir)).ServeHTTP(w, r)
		return
	}

	// SPA fallback for extensionless client-side routes
	if path.Ext(p) == "" {
		w.Header().Set("Cache-Control", "public, max-age=300")
		router.serveIndex(w, r)
		return
	}

	respondJSON(w, http.StatusNotFound, &models.NotFoundResponse{Message: "Not found"})
}

func (router *Router) serveIndex(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, path.Join(router.staticDir, "index.html"))
}

// fileExists checks if a file exists under the static dir
func (router *Router) fileExists(p string) bool {
	f, err := http.Dir(router.staticDir).Open(p)
	if err != nil {
		return false
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return false
	}

	return !stat.IsDir()
}
