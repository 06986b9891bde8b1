package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/five82/encore/internal/model"
)

// Catalog is what the player actions need from the backend.
type Catalog interface {
	FetchLyrics(ctx context.Context, trackID string) (model.Lyrics, error)
	FetchAddons(ctx context.Context, trackID string) ([]model.Addon, error)
}

// Ensure Client implements Catalog at compile time.
var _ Catalog = (*Client)(nil)

// Client talks to the catalog HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	token     string
}

const (
	defaultBaseURL   = "https://api.encore.fm"
	defaultUserAgent = "encore/0.1"
	requestTimeout   = 8 * time.Second
)

// NewClient builds a Client for baseURL. token may be empty for guests.
func NewClient(baseURL, token string) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		token:     strings.TrimSpace(token),
	}, nil
}

// FetchLyrics retrieves lyrics (and karaoke timing when present) for a track.
func (c *Client) FetchLyrics(ctx context.Context, trackID string) (model.Lyrics, error) {
	if c == nil {
		return model.Lyrics{}, fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(trackID) == "" {
		return model.Lyrics{}, fmt.Errorf("track id required")
	}
	var payload LyricsResponse
	if err := c.do(ctx, http.MethodGet, "/api/tracks/"+url.PathEscape(trackID)+"/lyrics", nil, &payload); err != nil {
		return model.Lyrics{}, err
	}
	if payload.TrackID == "" {
		payload.TrackID = trackID
	}
	return payload.Model(), nil
}

// FetchAddons retrieves the interstitials to play before a track.
func (c *Client) FetchAddons(ctx context.Context, trackID string) ([]model.Addon, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(trackID) == "" {
		return nil, fmt.Errorf("track id required")
	}
	var payload AddonListResponse
	if err := c.do(ctx, http.MethodGet, "/api/tracks/"+url.PathEscape(trackID)+"/addons", nil, &payload); err != nil {
		return nil, err
	}
	if len(payload.Items) == 0 {
		return nil, nil
	}
	addons := make([]model.Addon, len(payload.Items))
	for i, item := range payload.Items {
		addons[i] = item.Model()
	}
	return addons, nil
}

// FetchPlaylistTracks lists a playlist's tracks in play order.
func (c *Client) FetchPlaylistTracks(ctx context.Context, playlistID string) ([]model.Track, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(playlistID) == "" {
		return nil, fmt.Errorf("playlist id required")
	}
	var payload TrackListResponse
	if err := c.do(ctx, http.MethodGet, "/api/playlists/"+url.PathEscape(playlistID)+"/tracks", nil, &payload); err != nil {
		return nil, err
	}
	tracks := make([]model.Track, len(payload.Items))
	for i, item := range payload.Items {
		tracks[i] = item.Model()
	}
	return tracks, nil
}

// ReportAddonPlayed records that an interstitial finished playing.
func (c *Client) ReportAddonPlayed(ctx context.Context, addon model.Addon) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.do(ctx, http.MethodPost, "/api/addons/"+url.PathEscape(addon.ID)+"/played", nil, nil)
}

// SetFollowing follows or unfollows an artist.
func (c *Client) SetFollowing(ctx context.Context, artistID string, follow bool) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(artistID) == "" {
		return fmt.Errorf("artist id required")
	}
	body := struct {
		Follow bool `json:"follow"`
	}{follow}
	return c.do(ctx, http.MethodPut, "/api/artists/"+url.PathEscape(artistID)+"/follow", body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	rel := &url.URL{Path: path}
	reqURL := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("api %s returned status %d", rel.Path, resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", raw, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
