package actions

import (
	"context"
	"time"

	"github.com/five82/encore/internal/dispatch"
	"github.com/five82/encore/internal/model"
	"github.com/five82/encore/internal/queue"
	"github.com/five82/encore/internal/state"
)

const (
	// ShortPreview applies to preview-restricted tracks.
	ShortPreview = 45 * time.Second
	// LongPreview applies to every other track.
	LongPreview = 90 * time.Second
	// RestartThreshold is how far into an item GetBackToPreviousItem
	// restarts it instead of moving back.
	RestartThreshold = 3 * time.Second
)

// PreviewLimit returns how much of track the user may hear. It reports
// false when the user may play the whole track.
func PreviewLimit(user *model.User, track model.Track) (time.Duration, bool) {
	if user.Owns(track.ID) {
		return 0, false
	}
	if track.PreviewRestricted {
		return ShortPreview, true
	}
	return LongPreview, true
}

// updateItem returns s with a modified copy of the current item. It is a
// no-op without a current item.
func updateItem(s state.AppState, fn func(*state.CurrentItem)) state.AppState {
	if s.Player.CurrentItem == nil {
		return s
	}
	item := *s.Player.CurrentItem
	fn(&item)
	s.Player.CurrentItem = &item
	return s
}

func clampProgress(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}

// Scrub is a programmatic seek (user dragged the slider, remote seek).
type Scrub struct {
	NewValue time.Duration
}

// Perform moves progress and marks it as a programmatic seek. Seeking the
// track is suppressed while addons gate playback.
func (a Scrub) Perform(s state.AppState) (state.AppState, error) {
	if s.Player.CurrentItem == nil || s.Player.IsBlocked {
		return s, nil
	}
	return updateItem(s, func(item *state.CurrentItem) {
		item.State.Progress = clampProgress(a.NewValue)
		item.State.SkipSeek = true
	}), nil
}

// OrganicScrub is progress reported by playback itself.
type OrganicScrub struct {
	NewValue time.Duration
	Env      *Env
}

// Perform applies organic progress. It enforces the preview window for
// guests and non-purchasers by moving on instead of applying progress past
// it, and it stands down while the last change came from a peer.
func (a OrganicScrub) Perform(ctx context.Context, s state.AppState, emit func(state.AppState)) error {
	if s.Player.CurrentItem == nil {
		return nil
	}
	if s.Player.LastChangeSignature != a.Env.self() {
		return nil
	}
	if !s.Player.IsBlocked {
		if current, ok := s.CurrentTrack(); ok {
			if limit, limited := PreviewLimit(s.User, current.Track); limited && a.NewValue > limit {
				return ProceedToNextItem{Env: a.Env}.Perform(ctx, s, emit)
			}
		}
	}
	emit(updateItem(s, func(item *state.CurrentItem) {
		item.State.Progress = clampProgress(a.NewValue)
		item.State.SkipSeek = false
	}))
	return nil
}

// Advance is one interval of playback reported by the clock. It reads
// progress from the state it runs against, so seeks and track changes queued
// ahead of it are respected.
type Advance struct {
	Delta time.Duration
	Env   *Env
}

// Perform moves the playing item forward by Delta, or proceeds when the
// active addon or track runs out. It does nothing unless this client made
// the last change and the item is playing.
func (a Advance) Perform(ctx context.Context, s state.AppState, emit func(state.AppState)) error {
	item := s.Player.CurrentItem
	if item == nil || item.Preparing || !item.State.IsPlaying || a.Delta <= 0 {
		return nil
	}
	if s.Player.LastChangeSignature != a.Env.self() {
		return nil
	}

	var length time.Duration
	if addon, ok := item.ActiveAddon(); ok {
		length = addon.Duration
	} else if current, ok := s.CurrentTrack(); ok {
		length = current.Track.Duration
	}
	next := item.State.Progress + a.Delta
	if length > 0 && next >= length {
		return ProceedToNextItem{Env: a.Env}.Perform(ctx, s, emit)
	}
	return OrganicScrub{NewValue: next, Env: a.Env}.Perform(ctx, s, emit)
}

// Play resumes the current item.
type Play struct{}

// Perform sets isPlaying.
func (Play) Perform(s state.AppState) (state.AppState, error) {
	return updateItem(s, func(item *state.CurrentItem) { item.State.IsPlaying = true }), nil
}

// Pause pauses the current item.
type Pause struct{}

// Perform clears isPlaying.
func (Pause) Perform(s state.AppState) (state.AppState, error) {
	return updateItem(s, func(item *state.CurrentItem) { item.State.IsPlaying = false }), nil
}

// Switch toggles play/pause.
type Switch struct{}

// Perform flips isPlaying.
func (Switch) Perform(s state.AppState) (state.AppState, error) {
	return updateItem(s, func(item *state.CurrentItem) { item.State.IsPlaying = !item.State.IsPlaying }), nil
}

// SetPlaybackState applies transport state received from a peer.
type SetPlaybackState struct {
	IsPlaying bool
	Progress  time.Duration
}

// Perform sets play state and progress as a programmatic seek.
func (a SetPlaybackState) Perform(s state.AppState) (state.AppState, error) {
	return updateItem(s, func(item *state.CurrentItem) {
		item.State = state.ItemState{IsPlaying: a.IsPlaying, Progress: clampProgress(a.Progress), SkipSeek: true}
	}), nil
}

// AdoptItem points the playback slot at an existing queue entry without
// resolving addons. Peers use it to follow each other's current track.
type AdoptItem struct {
	Hash      queue.OrderHash
	IsPlaying bool
	Progress  time.Duration
}

// Perform installs the item. Unknown keys are ignored.
func (a AdoptItem) Perform(s state.AppState) (state.AppState, error) {
	if !s.Player.Tracks.Contains(a.Hash) {
		return s, nil
	}
	if item := s.Player.CurrentItem; item != nil && item.ActiveTrackHash == a.Hash {
		return s, nil
	}
	s.Player.CurrentItem = &state.CurrentItem{
		ActiveTrackHash: a.Hash,
		State:           state.ItemState{IsPlaying: a.IsPlaying, Progress: clampProgress(a.Progress), SkipSeek: true},
	}
	s.Player.IsBlocked = false
	return s, nil
}

// ProceedToNextItem finishes the head addon, or moves to the next track.
type ProceedToNextItem struct {
	Env *Env
}

// Perform pops the finished addon when addons are pending, otherwise
// prepares the next track in queue order, wrapping to the first.
func (a ProceedToNextItem) Perform(ctx context.Context, s state.AppState, emit func(state.AppState)) error {
	item := s.Player.CurrentItem
	if item != nil && len(item.Addons) > 0 {
		finished := item.Addons[0]
		next := updateItem(s, func(item *state.CurrentItem) {
			item.Addons = append([]model.Addon(nil), item.Addons[1:]...)
			item.State = state.ItemState{IsPlaying: true}
		})
		next.Player.IsBlocked = len(next.Player.CurrentItem.Addons) > 0
		emit(next)
		a.Env.reportAddon(ctx, finished)
		return nil
	}

	target, ok := s.Player.Tracks.First()
	if !ok {
		return nil
	}
	if item != nil {
		if following, found := s.Player.Tracks.Next(item.ActiveTrackHash); found {
			target = following
		}
	}
	return prepare(ctx, a.Env, s, target.OrderHash, emit)
}

// GetBackToPreviousItem restarts the current item or moves back one track.
type GetBackToPreviousItem struct {
	Env *Env
}

// Perform restarts the item when more than RestartThreshold has played,
// otherwise prepares the predecessor. Without a current item or a
// predecessor, or while addons gate playback, it does nothing.
func (a GetBackToPreviousItem) Perform(ctx context.Context, s state.AppState, emit func(state.AppState)) error {
	item := s.Player.CurrentItem
	if item == nil || s.Player.IsBlocked {
		return nil
	}
	if item.State.Progress > RestartThreshold {
		emit(updateItem(s, func(item *state.CurrentItem) {
			item.State.Progress = 0
			item.State.SkipSeek = true
		}))
		return nil
	}
	prev, ok := s.Player.Tracks.Previous(item.ActiveTrackHash)
	if !ok {
		return nil
	}
	return prepare(ctx, a.Env, s, prev.OrderHash, emit)
}

// PrepareNewTrack replaces the queue and starts one of its tracks.
type PrepareNewTrack struct {
	Tracks     []model.Track
	StartIndex int
	Env        *Env
}

// Perform flushes the queue with the given tracks and prepares the one at
// StartIndex.
func (a PrepareNewTrack) Perform(ctx context.Context, s state.AppState, emit func(state.AppState)) error {
	if a.StartIndex < 0 || a.StartIndex >= len(a.Tracks) {
		return dispatch.Preconditionf("start index %d outside %d tracks", a.StartIndex, len(a.Tracks))
	}
	patch := queue.ReplacePatch(a.Tracks)
	s.Player.Tracks = s.Player.Tracks.Apply(patch)
	s.Player.LastPatch = &patch
	return prepare(ctx, a.Env, s, patch.Tracks[a.StartIndex].OrderHash, emit)
}

// PrepareNewTrackByHash starts an entry already in the queue.
type PrepareNewTrackByHash struct {
	Hash queue.OrderHash
	Env  *Env
}

// Perform prepares the entry keyed Hash.
func (a PrepareNewTrackByHash) Perform(ctx context.Context, s state.AppState, emit func(state.AppState)) error {
	if !s.Player.Tracks.Contains(a.Hash) {
		return dispatch.Preconditionf("order hash %q is not in the queue", a.Hash)
	}
	return prepare(ctx, a.Env, s, a.Hash, emit)
}

// prepare installs a fresh current item for hash, resolves its addons and
// starts playback. The first emission is the preparing phase.
func prepare(ctx context.Context, env *Env, s state.AppState, hash queue.OrderHash, emit func(state.AppState)) error {
	return prepareItem(ctx, env, s, hash, true, emit)
}

func prepareItem(ctx context.Context, env *Env, s state.AppState, hash queue.OrderHash, playing bool, emit func(state.AppState)) error {
	entry, ok := s.Player.Tracks.Find(hash)
	if !ok {
		return dispatch.Preconditionf("order hash %q is not in the queue", hash)
	}
	s.Player.CurrentItem = &state.CurrentItem{ActiveTrackHash: hash, Preparing: true}
	s.Player.IsBlocked = false
	emit(s)

	var addons []model.Addon
	if catalog := env.catalog(); catalog != nil {
		fetched, err := catalog.FetchAddons(ctx, entry.Track.ID)
		if err != nil {
			return err
		}
		addons = fetched
	}
	s.Player.CurrentItem = &state.CurrentItem{
		ActiveTrackHash: hash,
		State:           state.ItemState{IsPlaying: playing},
		Addons:          addons,
	}
	s.Player.IsBlocked = len(addons) > 0
	emit(s)
	return nil
}
