// JNFO - Jellyfin Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jnfo

/*
aggregator.go - Dashboard Aggregation

This file assembles the dashboard document from parallel Jellyfin API
calls. Aggregation is stateless: every request fans out fresh upstream
GETs, normalizes the results, and returns a complete view model. Nothing
is cached between requests.
*/

package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/jnfo/internal/jellyfin"
	"github.com/tomtom215/jnfo/internal/models"
)

// ErrNoUsers indicates the Jellyfin server returned an empty user list,
// leaving no account to scope the latest-items queries to.
var ErrNoUsers = errors.New("jellyfin returned no users")

// Jellyfin item type filters for the latest-items queries.
const (
	itemTypeMovie   = "Movie"
	itemTypeEpisode = "Episode"
	itemTypeAudio   = "Audio"
)

// Aggregator builds dashboard documents from a Jellyfin upstream.
type Aggregator struct {
	client        jellyfin.ClientInterface
	latestLimit   int
	recencyWindow time.Duration
	botMarkers    []string
	now           func() time.Time
}

// New creates an Aggregator.
//
// Parameters:
//   - client: Jellyfin API client
//   - latestLimit: items per latest-media carousel
//   - recencyWindow: how far back an idle session still counts as browsing
//   - botMarkers: case-insensitive client name substrings to exclude from
//     recent browsers (e.g. "jellyseerr")
func New(client jellyfin.ClientInterface, latestLimit int, recencyWindow time.Duration, botMarkers []string) *Aggregator {
	// Lowercase markers once so per-session filtering is a plain substring check
	markers := make([]string, len(botMarkers))
	for i, m := range botMarkers {
		markers[i] = strings.ToLower(m)
	}

	return &Aggregator{
		client:        client,
		latestLimit:   latestLimit,
		recencyWindow: recencyWindow,
		botMarkers:    markers,
		now:           time.Now,
	}
}

// Build assembles a complete dashboard document.
//
// Two fan-out barriers run in sequence: the first fetches sessions, item
// counts, users, and system info; the second, scoped to the resolved admin
// user, fetches the three latest-media lists. Any upstream failure aborts
// the whole aggregation; no partial document is ever returned.
func (a *Aggregator) Build(ctx context.Context) (*models.Dashboard, error) {
	var (
		sessions []models.JellyfinSession
		counts   models.LibraryCounts
		users    []models.JellyfinUser
		system   *models.JellyfinSystemInfo
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sessions, err = a.client.GetSessions(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		counts, err = a.client.GetItemCounts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		users, err = a.client.GetUsers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		system, err = a.client.GetSystemInfo(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard fan-out failed: %w", err)
	}

	adminID, err := resolveAdminID(users)
	if err != nil {
		return nil, err
	}

	var latestMovies, latestEpisodes, latestMusic []models.JellyfinItem

	g, gctx = errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		latestMovies, err = a.client.GetLatestItems(gctx, adminID, itemTypeMovie, a.latestLimit)
		return err
	})
	g.Go(func() error {
		var err error
		latestEpisodes, err = a.client.GetLatestItems(gctx, adminID, itemTypeEpisode, a.latestLimit)
		return err
	})
	g.Go(func() error {
		var err error
		latestMusic, err = a.client.GetLatestItems(gctx, adminID, itemTypeAudio, a.latestLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard latest-items fan-out failed: %w", err)
	}

	return &models.Dashboard{
		System: models.SystemInfo{
			ServerName: system.ServerName,
			Version:    system.Version,
			OS:         system.OperatingSystem,
		},
		Library: models.Library{
			Counts: counts,
			Latest: models.Latest{
				Movies:   a.buildMovieCards(latestMovies),
				Episodes: a.buildEpisodeCards(latestEpisodes),
				Music:    a.buildMusicCards(latestMusic),
			},
		},
		ActiveStreams:  a.buildActiveStreams(sessions),
		RecentBrowsers: a.buildRecentBrowsers(sessions),
		TotalSessions:  len(sessions),
		UserRoster:     buildUserRoster(users),
	}, nil
}

// resolveAdminID picks the user whose library visibility scopes the
// latest-items queries: the first administrator, or the first user when no
// administrator exists.
func resolveAdminID(users []models.JellyfinUser) (string, error) {
	if len(users) == 0 {
		return "", ErrNoUsers
	}
	for i := range users {
		if users[i].Policy.IsAdministrator {
			return users[i].ID, nil
		}
	}
	return users[0].ID, nil
}

func (a *Aggregator) buildMovieCards(items []models.JellyfinItem) []models.MovieCard {
	cards := make([]models.MovieCard, 0, len(items))
	for i := range items {
		m := &items[i]
		cards = append(cards, models.MovieCard{
			ID:    m.ID,
			Title: m.Name,
			Year:  m.ProductionYear,
			Image: a.client.ItemPrimaryImageURL(m.ID),
		})
	}
	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].Year > cards[j].Year
	})
	return cards
}

func (a *Aggregator) buildEpisodeCards(items []models.JellyfinItem) []models.EpisodeCard {
	cards := make([]models.EpisodeCard, 0, len(items))
	for i := range items {
		e := &items[i]
		card := models.EpisodeCard{
			ID:    e.ID,
			Title: e.Name,
			Year:  e.ProductionYear,
			Date:  e.PremiereDate,
			Image: a.client.ItemPrimaryImageURL(e.ID),
			Type:  e.Type,
		}
		// A bare Series entry means a whole new show landed, not one episode
		if e.Type == "Episode" {
			card.Series = e.SeriesName
		} else {
			card.Series = seriesPremiereLabel
		}
		cards = append(cards, card)
	}
	// ISO 8601 dates sort correctly as strings; empty dates sort last
	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].Date > cards[j].Date
	})
	return cards
}

func (a *Aggregator) buildMusicCards(items []models.JellyfinItem) []models.MusicCard {
	cards := make([]models.MusicCard, 0, len(items))
	for i := range items {
		m := &items[i]
		cards = append(cards, models.MusicCard{
			ID:     m.ID,
			Title:  m.Name,
			Artist: resolveArtist(m.AlbumArtist, m.Artists),
			Album:  m.Album,
			Year:   m.ProductionYear,
			Image:  a.client.ItemPrimaryImageURL(m.ID),
		})
	}
	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].Year > cards[j].Year
	})
	return cards
}

// buildActiveStreams converts sessions with a now-playing item into the
// enriched stream entries, sorted by user name (case-insensitive) then by
// now-playing title.
func (a *Aggregator) buildActiveStreams(sessions []models.JellyfinSession) []models.ActiveStream {
	streams := make([]models.ActiveStream, 0, len(sessions))
	for i := range sessions {
		s := &sessions[i]
		if !s.IsActive() {
			continue
		}
		item := s.NowPlayingItem

		var position int64
		method := ""
		if s.PlayState != nil {
			position = s.PlayState.PositionTicks
			method = s.PlayState.PlayMethod
		}

		streams = append(streams, models.ActiveStream{
			ID:           s.ID,
			User:         s.UserName,
			UserImage:    a.client.UserImageURL(s.UserID),
			Type:         item.Type,
			Title:        item.Name,
			Year:         item.ProductionYear,
			SeriesName:   item.SeriesName,
			SeasonName:   item.SeasonName,
			AlbumName:    item.Album,
			ArtistName:   item.AlbumArtist,
			Image:        a.client.ItemBackdropImageURL(item.ID),
			Device:       deviceLabel(s.Client, s.DeviceName),
			Status:       playbackStatus(s.IsPaused()),
			Method:       method,
			TotalTicks:   FormatTicks(item.RunTimeTicks),
			CurrentTicks: FormatTicks(position),
			Progress:     Progress(position, item.RunTimeTicks),
		})
	}
	sort.SliceStable(streams, func(i, j int) bool {
		ui, uj := strings.ToLower(streams[i].User), strings.ToLower(streams[j].User)
		if ui != uj {
			return ui < uj
		}
		return streams[i].Title < streams[j].Title
	})
	return streams
}

// buildRecentBrowsers returns idle sessions that were active within the
// recency window, excluding known automation clients. Sessions whose last
// activity timestamp is missing or unparseable are excluded, since their
// recency cannot be established.
func (a *Aggregator) buildRecentBrowsers(sessions []models.JellyfinSession) []models.RecentBrowser {
	now := a.now()
	browsers := make([]models.RecentBrowser, 0, len(sessions))
	for i := range sessions {
		s := &sessions[i]
		if s.IsActive() {
			continue
		}
		if a.isBotClient(s.Client) {
			continue
		}
		lastActive, err := time.Parse(time.RFC3339, s.LastActivityDate)
		if err != nil {
			continue
		}
		if now.Sub(lastActive) >= a.recencyWindow {
			continue
		}
		browsers = append(browsers, models.RecentBrowser{
			User:   s.UserName,
			Device: s.DeviceName,
			Client: s.Client,
		})
	}
	return browsers
}

func (a *Aggregator) isBotClient(client string) bool {
	lower := strings.ToLower(client)
	for _, marker := range a.botMarkers {
		if marker != "" && strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// buildUserRoster returns all users sorted by last activity, most recent
// first.
func buildUserRoster(users []models.JellyfinUser) []models.UserEntry {
	roster := make([]models.UserEntry, 0, len(users))
	for i := range users {
		u := &users[i]
		roster = append(roster, models.UserEntry{
			ID:         u.ID,
			Name:       u.Name,
			LastActive: u.LastActivityDate,
			IsAdmin:    u.Policy.IsAdministrator,
		})
	}
	sort.SliceStable(roster, func(i, j int) bool {
		return roster[i].LastActive > roster[j].LastActive
	})
	return roster
}
