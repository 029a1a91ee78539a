// JNFO - Jellyfin Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jnfo

package models

// Jellyfin REST API models. Field names and JSON tags follow the upstream
// API's PascalCase convention.
// API Reference: https://api.jellyfin.org/

// JellyfinSession represents an active client connection to the Jellyfin server.
type JellyfinSession struct {
	ID               string `json:"Id"`
	Client           string `json:"Client"`
	DeviceName       string `json:"DeviceName"`
	UserID           string `json:"UserId"`
	UserName         string `json:"UserName"`
	LastActivityDate string `json:"LastActivityDate"` // ISO timestamp of last activity

	NowPlayingItem *JellyfinNowPlayingItem `json:"NowPlayingItem,omitempty"`
	PlayState      *JellyfinPlayState      `json:"PlayState,omitempty"`
}

// JellyfinNowPlayingItem represents the content currently playing in a session.
type JellyfinNowPlayingItem struct {
	ID   string `json:"Id"`
	Name string `json:"Name"`
	Type string `json:"Type"` // "Movie", "Episode", "Audio", etc.

	// TV show specific
	SeriesName string `json:"SeriesName,omitempty"`
	SeasonName string `json:"SeasonName,omitempty"`

	// Music specific
	Album       string   `json:"Album,omitempty"`
	AlbumArtist string   `json:"AlbumArtist,omitempty"`
	Artists     []string `json:"Artists,omitempty"`

	RunTimeTicks   int64 `json:"RunTimeTicks"` // Duration in ticks (100ns units)
	ProductionYear int   `json:"ProductionYear,omitempty"`
}

// JellyfinPlayState represents playback state details for a session.
type JellyfinPlayState struct {
	PositionTicks int64  `json:"PositionTicks"`
	IsPaused      bool   `json:"IsPaused"`
	PlayMethod    string `json:"PlayMethod,omitempty"` // "DirectPlay", "DirectStream", "Transcode"
}

// JellyfinItem represents a media entity returned by the latest-items endpoint.
// Depending on the requested category an entry may be a Movie, an Episode, a
// bare Series, or an Audio track; the Type tag discriminates.
type JellyfinItem struct {
	ID   string `json:"Id"`
	Name string `json:"Name"`
	Type string `json:"Type"`

	ProductionYear int    `json:"ProductionYear,omitempty"`
	PremiereDate   string `json:"PremiereDate,omitempty"` // ISO timestamp

	// TV show specific
	SeriesName string `json:"SeriesName,omitempty"`

	// Music specific
	Album       string   `json:"Album,omitempty"`
	AlbumArtist string   `json:"AlbumArtist,omitempty"`
	Artists     []string `json:"Artists,omitempty"`

	RunTimeTicks int64 `json:"RunTimeTicks,omitempty"`
}

// JellyfinUser represents an account on the Jellyfin server.
type JellyfinUser struct {
	ID               string             `json:"Id"`
	Name             string             `json:"Name"`
	LastActivityDate string             `json:"LastActivityDate,omitempty"`
	Policy           JellyfinUserPolicy `json:"Policy"`
}

// JellyfinUserPolicy carries the subset of the user policy the dashboard needs.
type JellyfinUserPolicy struct {
	IsAdministrator bool `json:"IsAdministrator"`
}

// JellyfinSystemInfo represents Jellyfin server system information.
type JellyfinSystemInfo struct {
	ServerName      string `json:"ServerName"`
	Version         string `json:"Version"`
	OperatingSystem string `json:"OperatingSystem"`
}

// LibraryCounts is the opaque key/count mapping returned by /Items/Counts.
// It is passed through to the dashboard untouched.
type LibraryCounts map[string]int64

// IsActive returns true if the session has active content (playing or paused).
func (s *JellyfinSession) IsActive() bool {
	return s.NowPlayingItem != nil
}

// IsPaused returns true if the session has content paused.
func (s *JellyfinSession) IsPaused() bool {
	return s.NowPlayingItem != nil && s.PlayState != nil && s.PlayState.IsPaused
}

// PositionTicks returns the current playback position, 0 when no play state
// is attached.
func (s *JellyfinSession) PositionTicks() int64 {
	if s.PlayState == nil {
		return 0
	}
	return s.PlayState.PositionTicks
}
