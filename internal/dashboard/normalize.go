// JNFO - Jellyfin Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jnfo

// Package dashboard builds the aggregated dashboard document from live
// Jellyfin API state.
package dashboard

import (
	"fmt"
	"math"
)

// ticksPerSecond converts Jellyfin ticks (100ns units) to seconds.
const ticksPerSecond = 10_000_000

// seriesPremiereLabel marks latest-episodes entries that are whole new
// series rather than individual episodes.
const seriesPremiereLabel = "New Series Premiere"

// FormatTicks renders a tick duration as a clock string. Durations of an
// hour or more use HH:MM:SS, shorter ones MM:SS, components zero-padded.
func FormatTicks(ticks int64) string {
	if ticks < 0 {
		ticks = 0
	}
	totalSeconds := ticks / ticksPerSecond
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// Progress returns playback completion as a whole percentage, rounded to
// nearest and clamped to [0,100]. A zero or missing total yields 0.
func Progress(current, total int64) int {
	if total <= 0 {
		return 0
	}
	pct := int(math.Round(float64(current) / float64(total) * 100))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// resolveArtist picks a display artist for a music item.
func resolveArtist(albumArtist string, artists []string) string {
	if albumArtist != "" {
		return albumArtist
	}
	if len(artists) > 0 && artists[0] != "" {
		return artists[0]
	}
	return "Unknown"
}

// deviceLabel combines the client application and device names into the
// "Client (DeviceName)" display form.
func deviceLabel(client, deviceName string) string {
	return fmt.Sprintf("%s (%s)", client, deviceName)
}

// playbackStatus maps the paused flag to the frontend status string.
func playbackStatus(paused bool) string {
	if paused {
		return "Paused"
	}
	return "Playing"
}
