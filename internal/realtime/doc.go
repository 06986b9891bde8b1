// Package realtime connects the player to the sync service so several
// clients signed in as the same user follow one another.
//
// Every message is a Command: a type, the signature of the client that
// produced the change and a JSON payload. Outgoing commands are computed
// with Diff from consecutive published states and only for changes this
// client made. Incoming commands are turned into envelopes with Decode and
// dispatched under the peer's signature, so the local playback clock stands
// down until the user acts again.
//
// Client owns the websocket. It reconnects with exponential backoff and
// buffers outgoing commands while disconnected; the buffer is bounded and
// drops new commands when full.
package realtime
