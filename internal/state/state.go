package state

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/five82/encore/internal/model"
	"github.com/five82/encore/internal/queue"
)

// Signature identifies who produced a state change: this client or a peer
// on the sync channel.
type Signature string

// LyricsMode is how lyrics are displayed.
type LyricsMode string

const (
	LyricsPlain   LyricsMode = "plain"
	LyricsKaraoke LyricsMode = "karaoke"
)

// KaraokeTrack selects which audio drives karaoke highlighting.
type KaraokeTrack string

const (
	KaraokeVocal   KaraokeTrack = "vocal"
	KaraokeBacking KaraokeTrack = "backing"
)

// LyricsState is the lyrics payload installed on the current item.
type LyricsState struct {
	Data         model.Lyrics
	Mode         LyricsMode
	KaraokeTrack KaraokeTrack
}

// ItemState is the transport state of the current item.
type ItemState struct {
	IsPlaying bool
	Progress  time.Duration
	// SkipSeek marks progress set by a programmatic seek so the audio layer
	// does not feed it back as an organic scrub.
	SkipSeek bool
}

// CurrentItem is the playback slot.
type CurrentItem struct {
	ActiveTrackHash queue.OrderHash
	Preparing       bool
	State           ItemState
	// Addons are played in order before the track; the head is the one
	// currently playing.
	Addons []model.Addon
	Lyrics *LyricsState
}

// ActiveAddon returns the addon currently gating playback.
func (c *CurrentItem) ActiveAddon() (model.Addon, bool) {
	if c == nil || len(c.Addons) == 0 {
		return model.Addon{}, false
	}
	return c.Addons[0], true
}

// PlayerState is the player sub-record of AppState.
type PlayerState struct {
	Tracks              queue.Queue
	CurrentItem         *CurrentItem
	MyPlaylists         []model.Playlist
	IsBlocked           bool
	LastChangeSignature Signature
	LastPatch           *queue.Patch
}

// Phase is the coarse state of the playback slot.
type Phase int

const (
	PhaseNone Phase = iota
	PhasePreparing
	PhasePlaying
	PhasePaused
)

func (p Phase) String() string {
	switch p {
	case PhasePreparing:
		return "preparing"
	case PhasePlaying:
		return "playing"
	case PhasePaused:
		return "paused"
	default:
		return "none"
	}
}

// Phase derives the playback slot phase.
func (p PlayerState) Phase() Phase {
	switch {
	case p.CurrentItem == nil:
		return PhaseNone
	case p.CurrentItem.Preparing:
		return PhasePreparing
	case p.CurrentItem.State.IsPlaying:
		return PhasePlaying
	default:
		return PhasePaused
	}
}

// AppState is the root snapshot. Values are replaced wholesale; nothing
// holds a mutable reference into a published snapshot.
type AppState struct {
	User   *model.User
	Player PlayerState
}

// Init returns the state the process starts with.
func Init(self Signature) AppState {
	return AppState{Player: PlayerState{LastChangeSignature: self}}
}

// CurrentTrack resolves the active queue entry.
func (s AppState) CurrentTrack() (queue.OrderedTrack, bool) {
	if s.Player.CurrentItem == nil {
		return queue.OrderedTrack{}, false
	}
	return s.Player.Tracks.Find(s.Player.CurrentItem.ActiveTrackHash)
}

// Clone returns a deep copy of s.
func (s AppState) Clone() AppState {
	out := AppState{User: s.User.Clone(), Player: s.Player}
	out.Player.Tracks = s.Player.Tracks.Clone()
	out.Player.CurrentItem = s.Player.CurrentItem.clone()
	out.Player.MyPlaylists = clonePlaylists(s.Player.MyPlaylists)
	if s.Player.LastPatch != nil {
		p := *s.Player.LastPatch
		p.Tracks = slices.Clone(p.Tracks)
		p.Keys = slices.Clone(p.Keys)
		out.Player.LastPatch = &p
	}
	return out
}

func (c *CurrentItem) clone() *CurrentItem {
	if c == nil {
		return nil
	}
	dup := *c
	dup.Addons = slices.Clone(c.Addons)
	if c.Lyrics != nil {
		l := *c.Lyrics
		if c.Lyrics.Data.Karaoke != nil {
			l.Data.Karaoke = &model.KaraokeData{Lines: slices.Clone(c.Lyrics.Data.Karaoke.Lines)}
		}
		dup.Lyrics = &l
	}
	return &dup
}

func clonePlaylists(in []model.Playlist) []model.Playlist {
	if in == nil {
		return nil
	}
	out := make([]model.Playlist, len(in))
	for i, p := range in {
		out[i] = p
		out[i].TrackIDs = slices.Clone(p.TrackIDs)
	}
	return out
}

// Check verifies the structural invariants of the snapshot.
func (s AppState) Check() error {
	var errs []error
	seen := make(map[queue.OrderHash]struct{}, len(s.Player.Tracks))
	for _, e := range s.Player.Tracks {
		if _, dup := seen[e.OrderHash]; dup {
			errs = append(errs, fmt.Errorf("duplicate order hash %q", e.OrderHash))
		}
		seen[e.OrderHash] = struct{}{}
	}
	item := s.Player.CurrentItem
	if item != nil {
		if _, ok := seen[item.ActiveTrackHash]; !ok {
			errs = append(errs, fmt.Errorf("current item %q is not in the queue", item.ActiveTrackHash))
		}
	}
	pending := item != nil && len(item.Addons) > 0
	if s.Player.IsBlocked != pending {
		errs = append(errs, fmt.Errorf("isBlocked = %v with pending addons = %v", s.Player.IsBlocked, pending))
	}
	return errors.Join(errs...)
}
