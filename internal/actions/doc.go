// Package actions holds the player's transitions: the current-item state
// machine, queue editing, lyrics, playlists and user changes.
//
// Synchronous transitions implement dispatch.Action and only compute a new
// state. Transitions that talk to the catalog implement dispatch.Creator and
// emit intermediate states, for example the preparing phase of a new track.
// Collaborators (catalog, addon reporting, artifact and page storage) come
// from an Env; any of them may be nil.
//
// # Item lifecycle
//
// An item starts preparing while its addons are fetched. If addons come
// back the item is blocked: the addon at the head of CurrentItem.Addons is
// what plays, scrubbing is suppressed and ProceedToNextItem pops finished
// addons one at a time. Once the list is empty the track itself plays.
//
// # Previews
//
// Users who do not own a track hear a preview: 45 seconds for restricted
// tracks, 90 for the rest. Organic progress past the limit advances to the
// next item instead of being applied.
//
// Use New to build envelopes bound to an Env:
//
//	acts := actions.New(env)
//	d.Dispatch(acts.PrepareNewTrack(tracks, 0))
package actions
