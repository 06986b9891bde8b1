package api

import (
	"time"

	"github.com/five82/encore/internal/model"
)

// TrackPayload mirrors a track in catalog responses.
type TrackPayload struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	Artist            string `json:"artist"`
	ArtistID          string `json:"artistId"`
	AlbumID           string `json:"albumId"`
	DurationMS        int64  `json:"durationMs"`
	Playable          bool   `json:"playable"`
	Instrumental      bool   `json:"instrumental"`
	PreviewRestricted bool   `json:"previewRestricted"`
}

// Model converts the payload into a model.Track.
func (p TrackPayload) Model() model.Track {
	return model.Track{
		ID:                p.ID,
		Title:             p.Title,
		Artist:            p.Artist,
		ArtistID:          p.ArtistID,
		AlbumID:           p.AlbumID,
		Duration:          millis(p.DurationMS),
		IsPlayable:        p.Playable,
		IsInstrumental:    p.Instrumental,
		PreviewRestricted: p.PreviewRestricted,
	}
}

// TrackListResponse mirrors /api/playlists/{id}/tracks.
type TrackListResponse struct {
	Items []TrackPayload `json:"items"`
}

// AddonListResponse mirrors /api/tracks/{id}/addons.
type AddonListResponse struct {
	Items []AddonPayload `json:"items"`
}

// AddonPayload describes one interstitial.
type AddonPayload struct {
	ID         string `json:"id"`
	Kind       string `json:"kind"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	DurationMS int64  `json:"durationMs"`
}

// Model converts the payload into a model.Addon.
func (p AddonPayload) Model() model.Addon {
	kind := model.AddonKind(p.Kind)
	if kind == "" {
		kind = model.AddonAd
	}
	return model.Addon{
		ID:       p.ID,
		Kind:     kind,
		Title:    p.Title,
		URL:      p.URL,
		Duration: millis(p.DurationMS),
	}
}

// LyricsResponse mirrors /api/tracks/{id}/lyrics.
type LyricsResponse struct {
	TrackID    string        `json:"trackId"`
	Text       string        `json:"text"`
	Karaoke    []KaraokeLine `json:"karaoke"`
	BackingURL string        `json:"backingUrl"`
}

// KaraokeLine is one timed lyrics line.
type KaraokeLine struct {
	StartMS int64  `json:"startMs"`
	EndMS   int64  `json:"endMs"`
	Text    string `json:"text"`
}

// Model converts the response into model.Lyrics.
func (r LyricsResponse) Model() model.Lyrics {
	out := model.Lyrics{
		TrackID:    r.TrackID,
		Plain:      r.Text,
		BackingURL: r.BackingURL,
	}
	if len(r.Karaoke) > 0 {
		lines := make([]model.KaraokeLine, len(r.Karaoke))
		for i, l := range r.Karaoke {
			lines[i] = model.KaraokeLine{Start: millis(l.StartMS), End: millis(l.EndMS), Text: l.Text}
		}
		out.Karaoke = &model.KaraokeData{Lines: lines}
	}
	return out
}

func millis(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
