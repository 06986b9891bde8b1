// Package queue maintains the ordered play queue and the patches that edit it.
//
// # Overview
//
// Queue entries are keyed by an OrderHash rather than by their position.
// A key is assigned once, when a track enters the queue, and survives every
// later insert, remove or move. Everything that needs to point at "the track
// that is playing" holds the key, never an index.
//
// # Patches
//
// Structural edits are expressed as Patch values built by InsertPatch,
// RemovePatch, MovePatch and ReplacePatch. Building a patch never touches a
// queue; Queue.Apply returns a new queue with the patch applied:
//
//	p := queue.InsertPatch(tracks, current.OrderHash)
//	next := q.Apply(p)
//
// Patches are plain JSON-friendly values so the same edit can be recorded as
// the player's last patch and rebroadcast to other clients in a shared
// session. Redelivery is expected on that channel, so Apply is idempotent:
// inserting keys already present, removing keys already gone, and replaying a
// move or replace leave the queue as it is.
//
// ShouldFlush separates authoritative patches (replace the whole view) from
// incremental ones (suitable for animated list updates).
//
// # Navigation
//
// Next and Previous look up neighbours by key and report false at the
// boundaries. Wrapping from the last entry to the first is player policy and
// lives in the actions package.
package queue
