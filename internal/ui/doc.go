// Package ui renders the terminal now-playing screen with Bubble Tea.
//
// The model subscribes to the dispatcher and re-renders on every published
// state. It never changes state itself: every key press becomes an envelope
// dispatched through the same queue as network and control-server actions.
//
// # Layout
//
//   - Header: phase and signed-in user
//   - Now playing: title, addon banner while playback is blocked, progress
//     bar and lyrics mode
//   - Queue: a window of entries around the active one
//   - Footer: key help (press ? for the full list)
//
// # Themes
//
// Two themes ship: midnight (dark) and paper (light). T cycles them and the
// choice is saved to the preferences file.
package ui
