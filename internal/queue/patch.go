package queue

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/five82/encore/internal/model"
)

// Op names the structural edit a Patch performs.
type Op string

const (
	OpInsert  Op = "insert"
	OpRemove  Op = "remove"
	OpMove    Op = "move"
	OpReplace Op = "replace"
)

// Patch describes a structural edit of the queue. Patches are values: they
// can be applied locally, stored as the last edit, or sent to peers.
type Patch struct {
	ID     string         `json:"id"`
	Op     Op             `json:"op"`
	After  OrderHash      `json:"after,omitempty"`
	Tracks []OrderedTrack `json:"tracks,omitempty"`
	Keys   []OrderHash    `json:"keys,omitempty"`
	// ShouldFlush marks the patch as authoritative: consumers replace their
	// view instead of animating the change.
	ShouldFlush bool `json:"shouldFlush"`
}

// InsertPatch inserts tracks, in order, right after the entry keyed after.
// An empty or unknown key inserts at the head when the patch is applied.
func InsertPatch(tracks []model.Track, after OrderHash) Patch {
	return Patch{
		ID:     uuid.NewString(),
		Op:     OpInsert,
		After:  after,
		Tracks: wrap(tracks),
	}
}

// InsertEntriesPatch is InsertPatch for entries that already carry keys.
func InsertEntriesPatch(entries []OrderedTrack, after OrderHash) Patch {
	return Patch{
		ID:     uuid.NewString(),
		Op:     OpInsert,
		After:  after,
		Tracks: slices.Clone(entries),
	}
}

// RemovePatch removes the entries with the given keys.
func RemovePatch(keys ...OrderHash) Patch {
	return Patch{
		ID:   uuid.NewString(),
		Op:   OpRemove,
		Keys: slices.Clone(keys),
	}
}

// MovePatch moves the entry keyed key right after the entry keyed after,
// or to the head when after is empty.
func MovePatch(key, after OrderHash) Patch {
	return Patch{
		ID:    uuid.NewString(),
		Op:    OpMove,
		After: after,
		Keys:  []OrderHash{key},
	}
}

// ReplacePatch replaces the whole queue.
func ReplacePatch(tracks []model.Track) Patch {
	return Patch{
		ID:          uuid.NewString(),
		Op:          OpReplace,
		Tracks:      wrap(tracks),
		ShouldFlush: true,
	}
}

// ReplaceEntriesPatch replaces the whole queue with entries that keep their
// keys. Peers receiving it end up with the same keys as the sender.
func ReplaceEntriesPatch(entries []OrderedTrack) Patch {
	return Patch{
		ID:          uuid.NewString(),
		Op:          OpReplace,
		Tracks:      slices.Clone(entries),
		ShouldFlush: true,
	}
}

// Validate rejects patches that cannot be applied.
func (p Patch) Validate() error {
	switch p.Op {
	case OpInsert, OpReplace, OpRemove:
	case OpMove:
		if len(p.Keys) != 1 {
			return fmt.Errorf("move patch needs exactly one key, got %d", len(p.Keys))
		}
	default:
		return fmt.Errorf("unknown patch op %q", p.Op)
	}
	seen := make(map[OrderHash]struct{}, len(p.Tracks))
	for _, e := range p.Tracks {
		if e.OrderHash == "" {
			return fmt.Errorf("patch entry %q has no order hash", e.Track.ID)
		}
		if _, dup := seen[e.OrderHash]; dup {
			return fmt.Errorf("duplicate order hash %q in patch", e.OrderHash)
		}
		seen[e.OrderHash] = struct{}{}
	}
	return nil
}

// Apply returns the queue with p applied. Applying the same patch again
// yields the same queue.
func (q Queue) Apply(p Patch) Queue {
	switch p.Op {
	case OpInsert:
		return q.insert(p.Tracks, p.After)
	case OpRemove:
		return q.remove(p.Keys)
	case OpMove:
		if len(p.Keys) != 1 {
			return q.Clone()
		}
		return q.move(p.Keys[0], p.After)
	case OpReplace:
		return Queue(slices.Clone(p.Tracks))
	}
	return q.Clone()
}

func (q Queue) insert(entries []OrderedTrack, after OrderHash) Queue {
	fresh := make([]OrderedTrack, 0, len(entries))
	for _, e := range entries {
		if !q.Contains(e.OrderHash) {
			fresh = append(fresh, e)
		}
	}
	if len(fresh) == 0 {
		return q.Clone()
	}
	at := q.Index(after) + 1 // unknown key lands at the head
	out := make(Queue, 0, len(q)+len(fresh))
	out = append(out, q[:at]...)
	out = append(out, fresh...)
	out = append(out, q[at:]...)
	return out
}

func (q Queue) remove(keys []OrderHash) Queue {
	out := make(Queue, 0, len(q))
	for _, e := range q {
		if !slices.Contains(keys, e.OrderHash) {
			out = append(out, e)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (q Queue) move(key, after OrderHash) Queue {
	from := q.Index(key)
	if from < 0 || key == after {
		return q.Clone()
	}
	entry := q[from]
	rest := q.remove([]OrderHash{key})
	return rest.insert([]OrderedTrack{entry}, after)
}
