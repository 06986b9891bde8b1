package actions

import (
	"context"

	"github.com/five82/encore/internal/dispatch"
	"github.com/five82/encore/internal/model"
	"github.com/five82/encore/internal/queue"
	"github.com/five82/encore/internal/state"
)

// ApplyQueuePatch applies a structural queue edit, local or remote.
type ApplyQueuePatch struct {
	Patch queue.Patch
}

// Perform applies the patch and records it as the last patch. When the
// current item's entry is removed the item moves to the next surviving
// entry in the old order, or is cleared. The successor is not prepared
// here: peers applying a remote patch follow the sender's item, and local
// removals go through RemoveFromQueue.
func (a ApplyQueuePatch) Perform(s state.AppState) (state.AppState, error) {
	if err := a.Patch.Validate(); err != nil {
		return s, dispatch.Preconditionf("invalid patch: %v", err)
	}
	old := s.Player.Tracks
	s.Player.Tracks = old.Apply(a.Patch)
	patch := a.Patch
	s.Player.LastPatch = &patch

	item := s.Player.CurrentItem
	if item == nil || s.Player.Tracks.Contains(item.ActiveTrackHash) {
		return s, nil
	}
	s.Player.CurrentItem = nil
	s.Player.IsBlocked = false
	for i := old.Index(item.ActiveTrackHash) + 1; i > 0 && i < len(old); i++ {
		if s.Player.Tracks.Contains(old[i].OrderHash) {
			s.Player.CurrentItem = &state.CurrentItem{
				ActiveTrackHash: old[i].OrderHash,
				State:           state.ItemState{IsPlaying: item.State.IsPlaying},
			}
			break
		}
	}
	return s, nil
}

// EnqueueTracks inserts tracks after an entry (or at the head).
type EnqueueTracks struct {
	Tracks []model.Track
	After  queue.OrderHash
}

// Perform builds an insert patch and applies it.
func (a EnqueueTracks) Perform(s state.AppState) (state.AppState, error) {
	if len(a.Tracks) == 0 {
		return s, nil
	}
	return ApplyQueuePatch{Patch: queue.InsertPatch(a.Tracks, a.After)}.Perform(s)
}

// PlayNext inserts tracks right after the current item.
type PlayNext struct {
	Tracks []model.Track
}

// Perform inserts after the active entry, or at the head when idle.
func (a PlayNext) Perform(s state.AppState) (state.AppState, error) {
	var after queue.OrderHash
	if item := s.Player.CurrentItem; item != nil {
		after = item.ActiveTrackHash
	}
	return EnqueueTracks{Tracks: a.Tracks, After: after}.Perform(s)
}

// RemoveFromQueue removes entries by key.
type RemoveFromQueue struct {
	Keys []queue.OrderHash
	Env  *Env
}

// Perform builds a remove patch and applies it. Removing the current entry
// moves playback to its successor, which is prepared like any other track
// change so its addons gate it.
func (a RemoveFromQueue) Perform(ctx context.Context, s state.AppState, emit func(state.AppState)) error {
	if len(a.Keys) == 0 {
		return nil
	}
	before := s.Player.CurrentItem
	next, err := ApplyQueuePatch{Patch: queue.RemovePatch(a.Keys...)}.Perform(s)
	if err != nil {
		return err
	}
	after := next.Player.CurrentItem
	if before == nil || after == nil || after.ActiveTrackHash == before.ActiveTrackHash {
		emit(next)
		return nil
	}
	return prepareItem(ctx, a.Env, next, after.ActiveTrackHash, before.State.IsPlaying, emit)
}

// MoveInQueue reorders one entry.
type MoveInQueue struct {
	Key   queue.OrderHash
	After queue.OrderHash
}

// Perform builds a move patch and applies it.
func (a MoveInQueue) Perform(s state.AppState) (state.AppState, error) {
	if !s.Player.Tracks.Contains(a.Key) {
		return s, nil
	}
	return ApplyQueuePatch{Patch: queue.MovePatch(a.Key, a.After)}.Perform(s)
}
