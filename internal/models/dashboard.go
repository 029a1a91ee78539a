// JNFO - Jellyfin Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jnfo

package models

import "github.com/goccy/go-json"

// Dashboard is the aggregated view model served to the frontend. It is
// assembled fresh on every request; nothing here is cached or persisted.
type Dashboard struct {
	System         SystemInfo      `json:"system"`
	Library        Library         `json:"library"`
	ActiveStreams  []ActiveStream  `json:"activeStreams"`
	RecentBrowsers []RecentBrowser `json:"recentBrowsers"`
	TotalSessions  int             `json:"totalSessions"`
	UserRoster     []UserEntry     `json:"userRoster"`
}

// SystemInfo is the server identity block, passed through from upstream.
type SystemInfo struct {
	ServerName string `json:"serverName"`
	Version    string `json:"version"`
	OS         string `json:"os"`
}

// Library combines the raw item counts with the latest-items carousels.
// The counts are flattened into the library object itself so the frontend
// sees {"MovieCount": 42, ..., "latest": {...}}.
type Library struct {
	Counts LibraryCounts
	Latest Latest
}

// MarshalJSON flattens Counts alongside the latest block.
func (l Library) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(l.Counts)+1)
	for k, v := range l.Counts {
		out[k] = v
	}
	out["latest"] = l.Latest
	return json.Marshal(out)
}

// Latest holds the per-category latest-items carousels.
type Latest struct {
	Movies   []MovieCard   `json:"movies"`
	Episodes []EpisodeCard `json:"episodes"`
	Music    []MusicCard   `json:"music"`
}

// MovieCard is one entry in the latest-movies carousel.
type MovieCard struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Year  int    `json:"year"`
	Image string `json:"image"`
}

// EpisodeCard is one entry in the latest-episodes carousel. The Series field
// carries the parent series name for episodes, or the fixed premiere label
// for bare series entries.
type EpisodeCard struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Series string `json:"series"`
	Year   int    `json:"year"`
	Date   string `json:"date"`
	Image  string `json:"image"`
	Type   string `json:"type"`
}

// MusicCard is one entry in the latest-music carousel.
type MusicCard struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Album  string `json:"album"`
	Year   int    `json:"year"`
	Image  string `json:"image"`
}

// ActiveStream is a session with a now-playing item, enriched with derived
// playback fields.
type ActiveStream struct {
	ID         string `json:"id"`
	User       string `json:"user"`
	UserImage  string `json:"userImage"`
	Type       string `json:"type"`
	Title      string `json:"title"`
	Year       int    `json:"year"`
	SeriesName string `json:"seriesName,omitempty"`
	SeasonName string `json:"seasonName,omitempty"`
	AlbumName  string `json:"albumName,omitempty"`
	ArtistName string `json:"artistName,omitempty"`
	Image      string `json:"image"`
	Device     string `json:"device"`
	Status     string `json:"status"` // "Playing" or "Paused"
	Method     string `json:"method"` // "DirectPlay", "DirectStream", "Transcode"

	TotalTicks   string `json:"totalTicks"`   // formatted duration
	CurrentTicks string `json:"currentTicks"` // formatted position
	Progress     int    `json:"progress"`     // 0-100
}

// RecentBrowser is an idle session that was recently active and is not a
// known automation client.
type RecentBrowser struct {
	User   string `json:"user"`
	Device string `json:"device"`
	Client string `json:"client"`
}

// UserEntry is one row of the user roster.
type UserEntry struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	LastActive string `json:"lastActive"`
	IsAdmin    bool   `json:"isAdmin"`
}

// ErrorResponse is the generic failure body returned by the dashboard
// endpoint. No internal details are exposed.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NotFoundResponse is the catch-all body for unmatched routes.
type NotFoundResponse struct {
	Message string `json:"message"`
}
