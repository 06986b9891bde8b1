package control

import (
	"github.com/five82/encore/internal/state"
)

// StateView is the JSON shape of GET /api/state.
type StateView struct {
	Phase       string      `json:"phase"`
	Track       *TrackView  `json:"track,omitempty"`
	ProgressMS  int64       `json:"progressMs"`
	IsBlocked   bool        `json:"isBlocked"`
	Addon       *AddonView  `json:"addon,omitempty"`
	LyricsMode  string      `json:"lyricsMode,omitempty"`
	Queue       []EntryView `json:"queue"`
	User        string      `json:"user,omitempty"`
	Playlists   []string    `json:"playlists"`
	LastChanged string      `json:"lastChangeSignature"`
}

// TrackView is the current track.
type TrackView struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

// AddonView is the addon gating playback.
type AddonView struct {
	ID    string `json:"id"`
	Kind  string `json:"kind"`
	Title string `json:"title"`
}

// EntryView is one queue entry.
type EntryView struct {
	Hash   string `json:"hash"`
	ID     string `json:"id"`
	Title  string `json:"title"`
	Active bool   `json:"active"`
}

// NewStateView flattens s for clients.
func NewStateView(s state.AppState) StateView {
	v := StateView{
		Phase:       s.Player.Phase().String(),
		IsBlocked:   s.Player.IsBlocked,
		Queue:       make([]EntryView, 0, len(s.Player.Tracks)),
		Playlists:   make([]string, 0, len(s.Player.MyPlaylists)),
		LastChanged: string(s.Player.LastChangeSignature),
	}
	if s.User != nil {
		v.User = s.User.Email
	}
	for _, p := range s.Player.MyPlaylists {
		v.Playlists = append(v.Playlists, p.ID)
	}
	item := s.Player.CurrentItem
	for _, e := range s.Player.Tracks {
		v.Queue = append(v.Queue, EntryView{
			Hash:   string(e.OrderHash),
			ID:     e.Track.ID,
			Title:  e.Track.Title,
			Active: item != nil && item.ActiveTrackHash == e.OrderHash,
		})
	}
	if item == nil {
		return v
	}
	v.ProgressMS = item.State.Progress.Milliseconds()
	if current, ok := s.CurrentTrack(); ok {
		v.Track = &TrackView{ID: current.Track.ID, Title: current.Track.Title, Artist: current.Track.Artist}
	}
	if addon, ok := item.ActiveAddon(); ok {
		v.Addon = &AddonView{ID: addon.ID, Kind: string(addon.Kind), Title: addon.Title}
	}
	if item.Lyrics != nil {
		v.LyricsMode = string(item.Lyrics.Mode)
	}
	return v
}
