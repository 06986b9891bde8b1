// Package control exposes a small HTTP API on localhost so scripts, media
// keys and other local tools can drive the player.
//
// Handlers never touch state directly: each request is turned into an
// envelope and dispatched, and the response is 202 Accepted with the
// action name. GET /api/state returns a flattened snapshot of the latest
// published state.
package control
