// Package app is encore's composition root.
//
// # Overview
//
// Run loads configuration and preferences, opens the local database, builds
// the catalog client and the dispatcher, and then runs every long-lived
// component under one errgroup until the context ends or the user quits the
// terminal UI.
//
// # Components
//
//   - app.go: Run and the observers attached to the dispatcher's publish hook
//   - clock.go: the playback clock
//   - session.go: saving and restoring the signed-in account
//   - logging.go: zerolog setup
//
// # Data Flow
//
//	ui keys ────────┐
//	control HTTP ───┤
//	realtime peers ─┼──> Dispatcher ──> Store ──> subscribers (ui)
//	clock ──────────┘        │
//	                         └──> OnPublish ──> realtime.Publish, prefs, session page
//
// Everything that changes state goes through the dispatcher. Observers run
// on the dispatcher goroutine and must return quickly.
//
// # Playback Clock
//
// Once per second the clock dispatches Advance. The action reads progress
// from the state it runs against, so a seek queued before it is kept. It
// applies the advanced progress, or proceeds when the playing addon or
// track has run out. A client whose last change came from a peer leaves
// the clock idle so only one client advances shared playback.
//
// # Identity
//
// Each process picks a random signature at start. It stamps every locally
// produced state and lets the sync channel ignore its own echoes.
//
// # Shutdown
//
// Quitting the UI cancels the run context. The dispatcher, sync client and
// control server all stop on that context; Run returns the first error any
// of them reported.
package app
