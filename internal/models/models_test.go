// JNFO - Jellyfin Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jnfo

package models

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestJellyfinSessionDecode(t *testing.T) {
	raw := `{
		"Id": "session-1",
		"Client": "Jellyfin Web",
		"DeviceName": "Firefox",
		"UserId": "user-1",
		"UserName": "alice",
		"LastActivityDate": "2026-08-30T12:00:00.000Z",
		"NowPlayingItem": {
			"Id": "item-1",
			"Name": "Some Movie",
			"Type": "Movie",
			"RunTimeTicks": 72000000000,
			"ProductionYear": 2021
		},
		"PlayState": {
			"PositionTicks": 36000000000,
			"IsPaused": true,
			"PlayMethod": "DirectPlay"
		}
	}`

	var s JellyfinSession
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		t.Fatalf("unmarshal session: %v", err)
	}

	if s.ID != "session-1" || s.UserName != "alice" {
		t.Errorf("session identity mismatch: %+v", s)
	}
	if !s.IsActive() {
		t.Error("expected session with now-playing item to be active")
	}
	if !s.IsPaused() {
		t.Error("expected paused session")
	}
	if s.PositionTicks() != 36000000000 {
		t.Errorf("position: got %d", s.PositionTicks())
	}
	if s.NowPlayingItem.Type != "Movie" {
		t.Errorf("item type: got %q", s.NowPlayingItem.Type)
	}
}

func TestJellyfinSessionIdle(t *testing.T) {
	var s JellyfinSession
	if err := json.Unmarshal([]byte(`{"Id":"s","Client":"Jellyfin Web","UserName":"bob"}`), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s.IsActive() {
		t.Error("session without now-playing item must not be active")
	}
	if s.IsPaused() {
		t.Error("session without play state must not be paused")
	}
	if s.PositionTicks() != 0 {
		t.Errorf("position without play state: got %d", s.PositionTicks())
	}
}

func TestJellyfinUserDecode(t *testing.T) {
	raw := `{"Id":"u1","Name":"admin","LastActivityDate":"2026-08-29T08:15:00.000Z","Policy":{"IsAdministrator":true}}`

	var u JellyfinUser
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		t.Fatalf("unmarshal user: %v", err)
	}
	if !u.Policy.IsAdministrator {
		t.Error("expected administrator flag to decode")
	}
}

func TestLibraryMarshalFlattensCounts(t *testing.T) {
	lib := Library{
		Counts: LibraryCounts{"MovieCount": 12, "SeriesCount": 3},
		Latest: Latest{
			Movies:   []MovieCard{},
			Episodes: []EpisodeCard{},
			Music:    []MusicCard{},
		},
	}

	data, err := json.Marshal(lib)
	if err != nil {
		t.Fatalf("marshal library: %v", err)
	}

	out := string(data)
	for _, want := range []string{`"MovieCount":12`, `"SeriesCount":3`, `"latest":`, `"movies":[]`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in marshaled library, got %s", want, out)
		}
	}
}

func TestDashboardJSONShape(t *testing.T) {
	d := Dashboard{
		System:         SystemInfo{ServerName: "nas", Version: "10.9.0", OS: "Linux"},
		Library:        Library{Counts: LibraryCounts{}, Latest: Latest{Movies: []MovieCard{}, Episodes: []EpisodeCard{}, Music: []MusicCard{}}},
		ActiveStreams:  []ActiveStream{},
		RecentBrowsers: []RecentBrowser{},
		UserRoster:     []UserEntry{},
	}

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal dashboard: %v", err)
	}

	out := string(data)
	for _, key := range []string{`"system"`, `"library"`, `"activeStreams"`, `"recentBrowsers"`, `"totalSessions"`, `"userRoster"`} {
		if !strings.Contains(out, key) {
			t.Errorf("expected top-level key %s, got %s", key, out)
		}
	}
	if !strings.Contains(out, `"serverName":"nas"`) {
		t.Errorf("expected camelCase system fields, got %s", out)
	}
}
