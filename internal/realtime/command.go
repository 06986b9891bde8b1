package realtime

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/five82/encore/internal/actions"
	"github.com/five82/encore/internal/dispatch"
	"github.com/five82/encore/internal/model"
	"github.com/five82/encore/internal/queue"
	"github.com/five82/encore/internal/state"
)

// CommandType discriminates the payload in Command.Data.
type CommandType string

const (
	TypeQueuePatch  CommandType = "queue.patch"
	TypePlayerItem  CommandType = "player.item"
	TypePlayerState CommandType = "player.state"
	TypeAddonPlayed CommandType = "addon.played"
)

// Command is one message on the sync channel. Signature names the client
// that produced the change.
type Command struct {
	ID        string          `json:"id"`
	Type      CommandType     `json:"type"`
	Signature state.Signature `json:"signature"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// ItemPayload points peers at the entry now playing.
type ItemPayload struct {
	Hash       queue.OrderHash `json:"hash"`
	IsPlaying  bool            `json:"isPlaying"`
	ProgressMS int64           `json:"progressMs"`
}

// StatePayload carries transport state for the current entry.
type StatePayload struct {
	IsPlaying  bool  `json:"isPlaying"`
	ProgressMS int64 `json:"progressMs"`
}

// AddonPayload reports a finished interstitial.
type AddonPayload struct {
	ID    string          `json:"id"`
	Kind  model.AddonKind `json:"kind"`
	Title string          `json:"title,omitempty"`
}

// NewCommand encodes v as the payload of a new command.
func NewCommand(t CommandType, sig state.Signature, v any) (Command, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Command{}, fmt.Errorf("encode %s: %w", t, err)
	}
	return Command{ID: uuid.NewString(), Type: t, Signature: sig, Data: data}, nil
}

// Diff returns the commands that describe the change from prev to next.
// Only changes produced by self are described; remote changes are never
// echoed back. Organic progress is not sent since every peer runs its own
// clock.
func Diff(prev, next state.AppState, self state.Signature) []Command {
	if next.Player.LastChangeSignature != self {
		return nil
	}
	var out []Command
	add := func(t CommandType, v any) {
		cmd, err := NewCommand(t, self, v)
		if err == nil {
			out = append(out, cmd)
		}
	}

	if p, ok := queueDelta(prev.Player, next.Player); ok {
		add(TypeQueuePatch, p)
	}

	item := next.Player.CurrentItem
	if item == nil || item.Preparing {
		return out
	}
	before := prev.Player.CurrentItem
	progress := item.State.Progress.Milliseconds()
	switch {
	case before == nil || before.ActiveTrackHash != item.ActiveTrackHash || before.Preparing:
		add(TypePlayerItem, ItemPayload{Hash: item.ActiveTrackHash, IsPlaying: item.State.IsPlaying, ProgressMS: progress})
	case before.State.IsPlaying != item.State.IsPlaying,
		item.State.SkipSeek && before.State.Progress != item.State.Progress:
		add(TypePlayerState, StatePayload{IsPlaying: item.State.IsPlaying, ProgressMS: progress})
	}
	return out
}

// queueDelta picks the patch that takes a peer from prev's queue to next's.
// A new LastPatch is sent as is when it accounts for the change. Anything
// else, such as a rollback to an older queue, is sent as a flush of next's
// entries.
func queueDelta(prev, next state.PlayerState) (queue.Patch, bool) {
	if p := next.LastPatch; p != nil && (prev.LastPatch == nil || prev.LastPatch.ID != p.ID) {
		if prev.Tracks.Apply(*p).Equal(next.Tracks) {
			return *p, true
		}
	} else if prev.Tracks.Equal(next.Tracks) {
		return queue.Patch{}, false
	}
	return queue.ReplaceEntriesPatch(next.Tracks), true
}

// Decode turns a command received from a peer into an envelope signed by
// that peer. Commands from self, reports and unknown types yield false.
func Decode(cmd Command, self state.Signature) (dispatch.Envelope, bool) {
	if cmd.Signature == "" || cmd.Signature == self {
		return dispatch.Envelope{}, false
	}
	name := "remote " + string(cmd.Type)

	var e dispatch.Envelope
	switch cmd.Type {
	case TypeQueuePatch:
		var p queue.Patch
		if json.Unmarshal(cmd.Data, &p) != nil {
			return dispatch.Envelope{}, false
		}
		e = dispatch.Sync(name, actions.ApplyQueuePatch{Patch: p})
	case TypePlayerItem:
		var p ItemPayload
		if json.Unmarshal(cmd.Data, &p) != nil || p.Hash == "" {
			return dispatch.Envelope{}, false
		}
		e = dispatch.Sync(name, actions.AdoptItem{Hash: p.Hash, IsPlaying: p.IsPlaying, Progress: millis(p.ProgressMS)})
	case TypePlayerState:
		var p StatePayload
		if json.Unmarshal(cmd.Data, &p) != nil {
			return dispatch.Envelope{}, false
		}
		e = dispatch.Sync(name, actions.SetPlaybackState{IsPlaying: p.IsPlaying, Progress: millis(p.ProgressMS)})
	default:
		return dispatch.Envelope{}, false
	}
	return e.WithSignature(cmd.Signature), true
}

func millis(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
