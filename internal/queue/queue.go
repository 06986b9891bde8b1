package queue

import (
	"slices"

	"github.com/google/uuid"

	"github.com/five82/encore/internal/model"
)

// OrderHash is the stable key of a queue entry. It never changes when
// unrelated entries are inserted, removed or moved.
type OrderHash string

// NewOrderHash returns a fresh unique key.
func NewOrderHash() OrderHash {
	return OrderHash(uuid.NewString())
}

// OrderedTrack is a queue entry.
type OrderedTrack struct {
	Track     model.Track `json:"track"`
	OrderHash OrderHash   `json:"orderHash"`
}

// Queue is the ordered play queue. It is treated as an immutable value:
// every edit returns a new Queue.
type Queue []OrderedTrack

// New wraps tracks into entries with fresh order hashes.
func New(tracks ...model.Track) Queue {
	return Queue(wrap(tracks))
}

func wrap(tracks []model.Track) []OrderedTrack {
	if len(tracks) == 0 {
		return nil
	}
	out := make([]OrderedTrack, len(tracks))
	for i, t := range tracks {
		out[i] = OrderedTrack{Track: t, OrderHash: NewOrderHash()}
	}
	return out
}

// Len returns the number of entries.
func (q Queue) Len() int { return len(q) }

// Index returns the position of the entry keyed h, or -1.
func (q Queue) Index(h OrderHash) int {
	if h == "" {
		return -1
	}
	return slices.IndexFunc(q, func(e OrderedTrack) bool { return e.OrderHash == h })
}

// Contains reports whether an entry keyed h exists.
func (q Queue) Contains(h OrderHash) bool {
	return q.Index(h) >= 0
}

// Find returns the entry keyed h.
func (q Queue) Find(h OrderHash) (OrderedTrack, bool) {
	i := q.Index(h)
	if i < 0 {
		return OrderedTrack{}, false
	}
	return q[i], true
}

// First returns the head of the queue.
func (q Queue) First() (OrderedTrack, bool) {
	if len(q) == 0 {
		return OrderedTrack{}, false
	}
	return q[0], true
}

// Last returns the tail of the queue.
func (q Queue) Last() (OrderedTrack, bool) {
	if len(q) == 0 {
		return OrderedTrack{}, false
	}
	return q[len(q)-1], true
}

// Next returns the entry following the one keyed after. It reports false
// when after is the last entry or unknown; there is no wraparound.
func (q Queue) Next(after OrderHash) (OrderedTrack, bool) {
	i := q.Index(after)
	if i < 0 || i+1 >= len(q) {
		return OrderedTrack{}, false
	}
	return q[i+1], true
}

// Previous returns the entry preceding the one keyed before. It reports
// false when before is the first entry or unknown.
func (q Queue) Previous(before OrderHash) (OrderedTrack, bool) {
	i := q.Index(before)
	if i <= 0 {
		return OrderedTrack{}, false
	}
	return q[i-1], true
}

// Hashes returns the keys in queue order.
func (q Queue) Hashes() []OrderHash {
	out := make([]OrderHash, len(q))
	for i, e := range q {
		out[i] = e.OrderHash
	}
	return out
}

// Equal reports whether q and o hold the same entries in the same order.
func (q Queue) Equal(o Queue) bool {
	return slices.Equal(q, o)
}

// Clone returns a copy that shares no backing array with q.
func (q Queue) Clone() Queue {
	if len(q) == 0 {
		return nil
	}
	return slices.Clone(q)
}
