// Package state defines the application's observable truth and the container
// that holds the latest published copy of it.
//
// # Overview
//
// AppState is the single root snapshot: the signed-in user and the player
// (play queue, current item, fan playlists, addon gate, last change
// signature and last queue patch). Every transition produces a new complete
// snapshot; nothing is edited in place after it has been published.
//
// # Architecture
//
//	Writer (Dispatcher):           Readers (UI, sync, control):
//	┌────────────────┐            ┌──────────────────┐
//	│ action.Perform │            │                  │
//	│      ↓         │            │                  │
//	│ store.Replace()│───────────→│ store.Snapshot() │
//	│      ↓         │  (mutex)   │      ↓           │
//	│  next action   │            │  render / send   │
//	└────────────────┘            └──────────────────┘
//
// # Core Types
//
// AppState:
//   - User: nil before sign-in, a guest, or an authenticated account
//   - Player: the PlayerState sub-record
//   - CurrentTrack(): derived from the queue and the current item's key
//
// PlayerState:
//   - Tracks: the ordered queue (see package queue)
//   - CurrentItem: the playback slot, or nil
//   - IsBlocked: true while addons are pending on the current item
//   - LastChangeSignature: who produced the last transition
//   - LastPatch: the most recent structural queue edit
//
// CurrentItem:
//   - ActiveTrackHash: key of the active queue entry
//   - State: play/pause, progress and the SkipSeek marker
//   - Addons: pending interstitials, head first
//   - Lyrics: installed lyrics and display mode
//
// # Invariants
//
// Check reports violations of the structural invariants:
//   - order hashes are unique within the queue
//   - a non-nil current item points at an entry present in the queue
//   - IsBlocked is true iff the current item has pending addons
//
// # Concurrency Model
//
// Store uses a readers-writer lock. Replace and Snapshot both deep-copy, so
// a snapshot handed to a reader never aliases the stored value and the
// writer never aliases a snapshot a reader holds.
//
// # Equality
//
// Equal is structural and treats nil and empty slices alike. The dispatcher
// uses it to suppress publishing a state identical to the previous one.
package state
