package actions

import (
	"time"

	"github.com/five82/encore/internal/dispatch"
	"github.com/five82/encore/internal/model"
	"github.com/five82/encore/internal/queue"
	"github.com/five82/encore/internal/state"
)

// Actions builds ready-to-dispatch envelopes bound to one Env.
type Actions struct {
	env *Env
}

// New returns a factory for env. A nil env disables every collaborator.
func New(env *Env) *Actions {
	if env == nil {
		env = &Env{}
	}
	return &Actions{env: env}
}

// Env returns the bound environment.
func (a *Actions) Env() *Env { return a.env }

// Play resumes the current item.
func (a *Actions) Play() dispatch.Envelope { return dispatch.Sync("play", Play{}) }

// Pause pauses the current item.
func (a *Actions) Pause() dispatch.Envelope { return dispatch.Sync("pause", Pause{}) }

// Switch toggles play and pause.
func (a *Actions) Switch() dispatch.Envelope { return dispatch.Sync("switch", Switch{}) }

// Scrub seeks to an absolute position.
func (a *Actions) Scrub(to time.Duration) dispatch.Envelope {
	return dispatch.Sync("scrub", Scrub{NewValue: to})
}

// OrganicScrub reports progress from playback.
func (a *Actions) OrganicScrub(to time.Duration) dispatch.Envelope {
	return dispatch.Async("organic-scrub", OrganicScrub{NewValue: to, Env: a.env})
}

// Advance reports delta of elapsed playback.
func (a *Actions) Advance(delta time.Duration) dispatch.Envelope {
	return dispatch.Async("advance", Advance{Delta: delta, Env: a.env})
}

// ProceedToNextItem finishes the head addon or moves to the next track.
func (a *Actions) ProceedToNextItem() dispatch.Envelope {
	return dispatch.Async("proceed-to-next-item", ProceedToNextItem{Env: a.env})
}

// GetBackToPreviousItem restarts the item or moves back one track.
func (a *Actions) GetBackToPreviousItem() dispatch.Envelope {
	return dispatch.Async("get-back-to-previous-item", GetBackToPreviousItem{Env: a.env})
}

// PrepareNewTrack replaces the queue with tracks and starts the one at start.
func (a *Actions) PrepareNewTrack(tracks []model.Track, start int) dispatch.Envelope {
	return dispatch.Async("prepare-new-track", PrepareNewTrack{Tracks: tracks, StartIndex: start, Env: a.env})
}

// PrepareNewTrackByHash starts a queued entry.
func (a *Actions) PrepareNewTrackByHash(hash queue.OrderHash) dispatch.Envelope {
	return dispatch.Async("prepare-new-track-by-hash", PrepareNewTrackByHash{Hash: hash, Env: a.env})
}

// SetPlaybackState applies a peer's transport state.
func (a *Actions) SetPlaybackState(playing bool, progress time.Duration) dispatch.Envelope {
	return dispatch.Sync("set-playback-state", SetPlaybackState{IsPlaying: playing, Progress: progress})
}

// AdoptItem follows a peer's current entry.
func (a *Actions) AdoptItem(hash queue.OrderHash, playing bool, progress time.Duration) dispatch.Envelope {
	return dispatch.Sync("adopt-item", AdoptItem{Hash: hash, IsPlaying: playing, Progress: progress})
}

// ApplyQueuePatch applies a patch as is.
func (a *Actions) ApplyQueuePatch(p queue.Patch) dispatch.Envelope {
	return dispatch.Sync("apply-queue-patch", ApplyQueuePatch{Patch: p})
}

// EnqueueTracks inserts tracks after an entry, or at the head.
func (a *Actions) EnqueueTracks(tracks []model.Track, after queue.OrderHash) dispatch.Envelope {
	return dispatch.Sync("enqueue-tracks", EnqueueTracks{Tracks: tracks, After: after})
}

// PlayNext inserts tracks after the current entry.
func (a *Actions) PlayNext(tracks []model.Track) dispatch.Envelope {
	return dispatch.Sync("play-next", PlayNext{Tracks: tracks})
}

// RemoveFromQueue removes entries by key.
func (a *Actions) RemoveFromQueue(keys ...queue.OrderHash) dispatch.Envelope {
	return dispatch.Async("remove-from-queue", RemoveFromQueue{Keys: keys, Env: a.env})
}

// MoveInQueue moves key after another entry.
func (a *Actions) MoveInQueue(key, after queue.OrderHash) dispatch.Envelope {
	return dispatch.Sync("move-in-queue", MoveInQueue{Key: key, After: after})
}

// ChangeLyricsMode switches lyrics display and karaoke audio.
func (a *Actions) ChangeLyricsMode(mode state.LyricsMode, track state.KaraokeTrack) dispatch.Envelope {
	return dispatch.Sync("change-lyrics-mode", ChangeLyricsMode{Mode: mode, KaraokeTrack: track})
}

// PrepareLyrics loads lyrics for the current track.
func (a *Actions) PrepareLyrics() dispatch.Envelope {
	return dispatch.Async("prepare-lyrics", PrepareLyrics{Env: a.env})
}

// InsertPlaylist adds a fan playlist at index.
func (a *Actions) InsertPlaylist(p model.Playlist, index int) dispatch.Envelope {
	return dispatch.Sync("insert-playlist", InsertPlaylist{Playlist: p, Index: index})
}

// RemovePlaylist drops a fan playlist.
func (a *Actions) RemovePlaylist(id string) dispatch.Envelope {
	return dispatch.Sync("remove-playlist", RemovePlaylist{ID: id})
}

// ReplacePlaylist swaps in a new version of a fan playlist.
func (a *Actions) ReplacePlaylist(p model.Playlist) dispatch.Envelope {
	return dispatch.Sync("replace-playlist", ReplacePlaylist{Playlist: p})
}

// PlayPlaylist plays a playlist's tracks from start.
func (a *Actions) PlayPlaylist(id string, start int) dispatch.Envelope {
	return dispatch.Async("play-playlist", PlayPlaylist{PlaylistID: id, StartIndex: start, Env: a.env})
}

// SetPlaylists replaces every fan playlist.
func (a *Actions) SetPlaylists(lists []model.Playlist) dispatch.Envelope {
	return dispatch.Sync("set-playlists", SetPlaylists{Playlists: lists})
}

// SetNewUser signs a user in or out.
func (a *Actions) SetNewUser(u *model.User) dispatch.Envelope {
	return dispatch.Sync("set-new-user", SetNewUser{User: u, Env: a.env})
}

// UpdateUser edits the signed-in user's profile.
func (a *Actions) UpdateUser(mutate func(*model.Profile)) dispatch.Envelope {
	return dispatch.Sync("update-user", UpdateUser{Mutate: mutate})
}

// FollowArtist follows or unfollows an artist.
func (a *Actions) FollowArtist(artistID string, follow bool) dispatch.Envelope {
	return dispatch.Async("follow-artist", FollowArtist{ArtistID: artistID, Follow: follow, Env: a.env})
}
