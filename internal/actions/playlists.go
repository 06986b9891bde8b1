package actions

import (
	"context"
	"slices"

	"github.com/five82/encore/internal/dispatch"
	"github.com/five82/encore/internal/model"
	"github.com/five82/encore/internal/state"
)

// InsertPlaylist adds a fan playlist at Index (clamped). An existing
// playlist with the same ID is moved.
type InsertPlaylist struct {
	Playlist model.Playlist
	Index    int
}

// Perform inserts the playlist.
func (a InsertPlaylist) Perform(s state.AppState) (state.AppState, error) {
	lists := withoutPlaylist(s.Player.MyPlaylists, a.Playlist.ID)
	at := min(max(a.Index, 0), len(lists))
	s.Player.MyPlaylists = slices.Insert(lists, at, a.Playlist)
	return s, nil
}

// RemovePlaylist drops a fan playlist by ID.
type RemovePlaylist struct {
	ID string
}

// Perform removes the playlist if present.
func (a RemovePlaylist) Perform(s state.AppState) (state.AppState, error) {
	s.Player.MyPlaylists = withoutPlaylist(s.Player.MyPlaylists, a.ID)
	return s, nil
}

// ReplacePlaylist swaps in a new version of an existing playlist.
type ReplacePlaylist struct {
	Playlist model.Playlist
}

// Perform replaces the playlist in place. Unknown IDs are ignored.
func (a ReplacePlaylist) Perform(s state.AppState) (state.AppState, error) {
	i := slices.IndexFunc(s.Player.MyPlaylists, func(p model.Playlist) bool { return p.ID == a.Playlist.ID })
	if i < 0 {
		return s, nil
	}
	lists := slices.Clone(s.Player.MyPlaylists)
	lists[i] = a.Playlist
	s.Player.MyPlaylists = lists
	return s, nil
}

// SetPlaylists replaces the whole list.
type SetPlaylists struct {
	Playlists []model.Playlist
}

// Perform installs a copy of Playlists.
func (a SetPlaylists) Perform(s state.AppState) (state.AppState, error) {
	s.Player.MyPlaylists = slices.Clone(a.Playlists)
	return s, nil
}

func withoutPlaylist(lists []model.Playlist, id string) []model.Playlist {
	out := make([]model.Playlist, 0, len(lists))
	for _, p := range lists {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}

// PlayPlaylist replaces the queue with a playlist's tracks and starts the
// one at StartIndex.
type PlayPlaylist struct {
	PlaylistID string
	StartIndex int
	Env        *Env
}

// Perform fetches the tracks and prepares the start track. An empty
// playlist does nothing.
func (a PlayPlaylist) Perform(ctx context.Context, s state.AppState, emit func(state.AppState)) error {
	if a.Env == nil || a.Env.Tracks == nil {
		return dispatch.Preconditionf("no track source for playlist %s", a.PlaylistID)
	}
	tracks, err := a.Env.Tracks.FetchPlaylistTracks(ctx, a.PlaylistID)
	if err != nil {
		return err
	}
	if len(tracks) == 0 {
		return nil
	}
	return PrepareNewTrack{Tracks: tracks, StartIndex: min(max(a.StartIndex, 0), len(tracks)-1), Env: a.Env}.Perform(ctx, s, emit)
}
