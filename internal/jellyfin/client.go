// JNFO - Jellyfin Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jnfo

/*
client.go - Jellyfin REST API Client

This file implements a REST API client for Jellyfin media server.
It provides methods to fetch session data, user information, library
counts, latest items, and system info.

API Reference: https://api.jellyfin.org/
*/

package jellyfin

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/jnfo/internal/metrics"
	"github.com/tomtom215/jnfo/internal/models"
)

// ClientInterface defines the interface for Jellyfin API operations.
// The dashboard aggregator depends on this interface so tests can
// substitute a fake upstream.
type ClientInterface interface {
	GetSessions(ctx context.Context) ([]models.JellyfinSession, error)
	GetUsers(ctx context.Context) ([]models.JellyfinUser, error)
	GetSystemInfo(ctx context.Context) (*models.JellyfinSystemInfo, error)
	GetItemCounts(ctx context.Context) (models.LibraryCounts, error)
	GetLatestItems(ctx context.Context, userID, itemType string, limit int) ([]models.JellyfinItem, error)
	ItemPrimaryImageURL(itemID string) string
	ItemBackdropImageURL(itemID string) string
	UserImageURL(userID string) string
}

// Ensure Client implements ClientInterface
var _ ClientInterface = (*Client)(nil)

// Client provides access to Jellyfin REST API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new Jellyfin API client
//
// Parameters:
//   - baseURL: Jellyfin server URL (e.g., http://localhost:8096)
//   - apiKey: Jellyfin API key from Admin Dashboard > API Keys
func NewClient(baseURL, apiKey string) *Client {
	// Normalize URL (remove trailing slash)
	baseURL = strings.TrimSuffix(baseURL, "/")

	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetSessions retrieves all sessions from Jellyfin
//
// Returns every session the server knows about, including idle
// sessions with no NowPlayingItem. The aggregator partitions them
// into active streams and recent browsers.
func (c *Client) GetSessions(ctx context.Context) ([]models.JellyfinSession, error) {
	resp, err := c.doRequest(ctx, "/Sessions", "/Sessions")
	if err != nil {
		return nil, fmt.Errorf("jellyfin sessions request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("sessions", resp)
	}

	var sessions []models.JellyfinSession
	if err := json.NewDecoder(resp.Body).Decode(&sessions); err != nil {
		return nil, fmt.Errorf("failed to decode jellyfin sessions: %w", err)
	}

	return sessions, nil
}

// GetUsers retrieves all users from Jellyfin
func (c *Client) GetUsers(ctx context.Context) ([]models.JellyfinUser, error) {
	resp, err := c.doRequest(ctx, "/Users", "/Users")
	if err != nil {
		return nil, fmt.Errorf("jellyfin users request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("users", resp)
	}

	var users []models.JellyfinUser
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		return nil, fmt.Errorf("failed to decode jellyfin users: %w", err)
	}

	return users, nil
}

// GetSystemInfo retrieves Jellyfin server system information
func (c *Client) GetSystemInfo(ctx context.Context) (*models.JellyfinSystemInfo, error) {
	resp, err := c.doRequest(ctx, "/System/Info", "/System/Info")
	if err != nil {
		return nil, fmt.Errorf("jellyfin system info request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("system info", resp)
	}

	var info models.JellyfinSystemInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode jellyfin system info: %w", err)
	}

	return &info, nil
}

// GetItemCounts retrieves library item counts (movies, series, episodes,
// songs, albums, etc.) from Jellyfin
func (c *Client) GetItemCounts(ctx context.Context) (models.LibraryCounts, error) {
	resp, err := c.doRequest(ctx, "/Items/Counts", "/Items/Counts")
	if err != nil {
		return nil, fmt.Errorf("jellyfin item counts request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("item counts", resp)
	}

	var counts models.LibraryCounts
	if err := json.NewDecoder(resp.Body).Decode(&counts); err != nil {
		return nil, fmt.Errorf("failed to decode jellyfin item counts: %w", err)
	}

	return counts, nil
}

// GetLatestItems retrieves the most recently added items of a given type
// for a user
//
// Parameters:
//   - userID: the user whose library visibility scopes the results
//   - itemType: Jellyfin item type filter (Movie, Episode, Audio)
//   - limit: maximum number of items to return
func (c *Client) GetLatestItems(ctx context.Context, userID, itemType string, limit int) ([]models.JellyfinItem, error) {
	endpoint := fmt.Sprintf("/Users/%s/Items/Latest?Limit=%s&IncludeItemTypes=%s",
		userID, strconv.Itoa(limit), itemType)

	resp, err := c.doRequest(ctx, endpoint, "/Users/{id}/Items/Latest")
	if err != nil {
		return nil, fmt.Errorf("jellyfin latest items request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("latest items", resp)
	}

	var items []models.JellyfinItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to decode jellyfin latest items: %w", err)
	}

	return items, nil
}

// ItemPrimaryImageURL builds the primary (poster) image URL for an item.
// Image URLs are served directly by Jellyfin and need no API key.
func (c *Client) ItemPrimaryImageURL(itemID string) string {
	return fmt.Sprintf("%s/Items/%s/Images/Primary?fillWidth=400&quality=90", c.baseURL, itemID)
}

// ItemBackdropImageURL builds the backdrop image URL for an item.
func (c *Client) ItemBackdropImageURL(itemID string) string {
	return fmt.Sprintf("%s/Items/%s/Images/Backdrop/0?maxWidth=800", c.baseURL, itemID)
}

// UserImageURL builds the profile image URL for a user.
func (c *Client) UserImageURL(userID string) string {
	return fmt.Sprintf("%s/Users/%s/Images/Primary", c.baseURL, userID)
}

// doRequest performs an HTTP GET request to the Jellyfin API.
// metricEndpoint is the templated path used as the Prometheus label so
// per-user URLs do not explode label cardinality.
func (c *Client) doRequest(ctx context.Context, endpoint, metricEndpoint string) (*http.Response, error) {
	fullURL := c.baseURL + endpoint

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Set authorization header using API key
	req.Header.Set("X-Emby-Token", c.apiKey)
	req.Header.Set("X-Emby-Client", "JNFO")
	req.Header.Set("X-Emby-Device-Name", "JNFO")
	req.Header.Set("X-Emby-Device-Id", "jnfo")
	req.Header.Set("X-Emby-Client-Version", "1.0.0")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordJellyfinCall(metricEndpoint, 0, time.Since(start))
		return nil, err
	}
	metrics.RecordJellyfinCall(metricEndpoint, resp.StatusCode, time.Since(start))

	return resp, nil
}

// statusError builds an error for a non-200 upstream response,
// including the response body when it can be read.
func statusError(what string, resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("jellyfin %s returned status %d (failed to read body)", what, resp.StatusCode)
	}
	return fmt.Errorf("jellyfin %s returned status %d: %s", what, resp.StatusCode, string(body))
}
