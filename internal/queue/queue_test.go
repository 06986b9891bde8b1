package queue

import (
	"reflect"
	"testing"

	"github.com/five82/encore/internal/model"
)

func tracks(ids ...string) []model.Track {
	out := make([]model.Track, len(ids))
	for i, id := range ids {
		out[i] = model.Track{ID: id, IsPlayable: true}
	}
	return out
}

func ids(q Queue) []string {
	out := make([]string, len(q))
	for i, e := range q {
		out[i] = e.Track.ID
	}
	return out
}

func TestNew_AssignsUniqueHashes(t *testing.T) {
	q := New(tracks("a", "b", "c")...)
	seen := map[OrderHash]bool{}
	for _, e := range q {
		if e.OrderHash == "" {
			t.Fatalf("entry %q has empty order hash", e.Track.ID)
		}
		if seen[e.OrderHash] {
			t.Fatalf("duplicate order hash %q", e.OrderHash)
		}
		seen[e.OrderHash] = true
	}
}

func TestNextPrevious_NoWraparound(t *testing.T) {
	q := New(tracks("a", "b", "c")...)

	if _, ok := q.Previous(q[0].OrderHash); ok {
		t.Fatalf("Previous(first) reported an entry, want none")
	}
	if _, ok := q.Next(q[2].OrderHash); ok {
		t.Fatalf("Next(last) reported an entry, want none")
	}
	if got, ok := q.Next(q[0].OrderHash); !ok || got.Track.ID != "b" {
		t.Fatalf("Next(a) = %v/%v, want b", got.Track.ID, ok)
	}
	if got, ok := q.Previous(q[2].OrderHash); !ok || got.Track.ID != "b" {
		t.Fatalf("Previous(c) = %v/%v, want b", got.Track.ID, ok)
	}
	if _, ok := q.Next("missing"); ok {
		t.Fatalf("Next(missing) reported an entry, want none")
	}
}

func TestInsertPatch_RoundTrip(t *testing.T) {
	q := New(tracks("a", "b", "c")...)
	p := InsertPatch(tracks("x", "y"), q[1].OrderHash)

	got := q.Apply(p)
	if want := []string{"a", "b", "x", "y", "c"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("queue = %v, want %v", ids(got), want)
	}
	if len(q) != 3 {
		t.Fatalf("Apply mutated the source queue: len = %d", len(q))
	}
	if p.ShouldFlush {
		t.Fatalf("insert patch should be incremental")
	}
}

func TestInsertPatch_UnknownKeyInsertsAtHead(t *testing.T) {
	q := New(tracks("a", "b")...)
	for _, after := range []OrderHash{"", "nope"} {
		got := q.Apply(InsertPatch(tracks("x"), after))
		if want := []string{"x", "a", "b"}; !reflect.DeepEqual(ids(got), want) {
			t.Fatalf("after=%q queue = %v, want %v", after, ids(got), want)
		}
	}
}

func TestApply_Idempotent(t *testing.T) {
	q := New(tracks("a", "b", "c", "d")...)

	patches := map[string]Patch{
		"insert":  InsertPatch(tracks("x"), q[0].OrderHash),
		"remove":  RemovePatch(q[1].OrderHash, q[3].OrderHash),
		"move":    MovePatch(q[0].OrderHash, q[2].OrderHash),
		"replace": ReplacePatch(tracks("z")),
	}
	for name, p := range patches {
		t.Run(name, func(t *testing.T) {
			once := q.Apply(p)
			twice := once.Apply(p)
			if !reflect.DeepEqual(once, twice) {
				t.Fatalf("second apply changed queue: %v -> %v", ids(once), ids(twice))
			}
		})
	}
}

func TestMovePatch(t *testing.T) {
	q := New(tracks("a", "b", "c")...)

	got := q.Apply(MovePatch(q[0].OrderHash, q[2].OrderHash))
	if want := []string{"b", "c", "a"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("move after c = %v, want %v", ids(got), want)
	}
	got = q.Apply(MovePatch(q[2].OrderHash, ""))
	if want := []string{"c", "a", "b"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("move to head = %v, want %v", ids(got), want)
	}
	if got[1].OrderHash != q[0].OrderHash {
		t.Fatalf("move changed unrelated order hashes")
	}
}

func TestRemovePatch_KeepsOtherHashes(t *testing.T) {
	q := New(tracks("a", "b", "c")...)
	got := q.Apply(RemovePatch(q[1].OrderHash))
	if want := (Queue{q[0], q[2]}); !reflect.DeepEqual(got, want) {
		t.Fatalf("queue = %v, want [a c] with original hashes", ids(got))
	}
}

func TestReplacePatch_Flushes(t *testing.T) {
	p := ReplacePatch(tracks("a"))
	if !p.ShouldFlush {
		t.Fatalf("replace patch should flush")
	}
	got := New(tracks("x", "y")...).Apply(p)
	if want := []string{"a"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("queue = %v, want %v", ids(got), want)
	}
}

func TestPatchValidate(t *testing.T) {
	good := InsertPatch(tracks("a"), "")
	if err := good.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}

	bad := []Patch{
		{Op: "shuffle"},
		{Op: OpMove},
		{Op: OpInsert, Tracks: []OrderedTrack{{Track: model.Track{ID: "a"}}}},
		{Op: OpInsert, Tracks: []OrderedTrack{{OrderHash: "h"}, {OrderHash: "h"}}},
	}
	for i, p := range bad {
		if err := p.Validate(); err == nil {
			t.Fatalf("bad[%d].Validate() = nil, want error", i)
		}
	}
}

func TestReplaceEntriesPatch_KeepsKeys(t *testing.T) {
	src := New(tracks("a", "b")...)
	got := New(tracks("x")...).Apply(ReplaceEntriesPatch(src))
	if !got.Equal(src) {
		t.Fatalf("queue = %v, want %v", got.Hashes(), src.Hashes())
	}
	if got.Equal(New(tracks("a", "b")...)) {
		t.Fatalf("fresh keys compared equal")
	}
}
