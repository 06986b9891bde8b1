package actions

import (
	"errors"
	"testing"
	"time"

	"github.com/five82/encore/internal/dispatch"
	"github.com/five82/encore/internal/model"
	"github.com/five82/encore/internal/queue"
)

func TestApplyQueuePatch_RepointsRemovedItem(t *testing.T) {
	s := playing([]string{"t1", "t2", "t3", "t4"}, 1, 0)
	q := s.Player.Tracks

	got, err := ApplyQueuePatch{Patch: queue.RemovePatch(q[1].OrderHash, q[2].OrderHash)}.Perform(s)
	if err != nil {
		t.Fatalf("ApplyQueuePatch returned error: %v", err)
	}
	if id := activeID(t, got); id != "t4" {
		t.Fatalf("active track = %q, want t4", id)
	}
	if got.Player.LastPatch == nil || got.Player.LastPatch.Op != queue.OpRemove {
		t.Fatalf("last patch not recorded")
	}
	mustCheck(t, got)
}

func TestApplyQueuePatch_ClearsWithoutSuccessor(t *testing.T) {
	s := playing([]string{"t1", "t2"}, 1, 0)
	emitted, err := perform(t, RemoveFromQueue{Keys: []queue.OrderHash{s.Player.Tracks[1].OrderHash}}, s)
	if err != nil {
		t.Fatalf("RemoveFromQueue returned error: %v", err)
	}
	got := last(t, emitted)
	if got.Player.CurrentItem != nil {
		t.Fatalf("current item = %+v, want nil", got.Player.CurrentItem)
	}
	mustCheck(t, got)
}

func TestRemoveFromQueue_PreparesSuccessor(t *testing.T) {
	s := playing([]string{"a", "b"}, 0, 30*time.Second)
	env := &Env{Self: self, Catalog: &fakeCatalog{addons: map[string][]model.Addon{
		"b": {{ID: "ad1", Duration: 15 * time.Second}},
	}}}

	emitted, err := perform(t, RemoveFromQueue{Keys: []queue.OrderHash{s.Player.Tracks[0].OrderHash}, Env: env}, s)
	if err != nil {
		t.Fatalf("RemoveFromQueue returned error: %v", err)
	}
	if len(emitted) != 2 || !emitted[0].Player.CurrentItem.Preparing {
		t.Fatalf("emitted %d states, want preparing then ready", len(emitted))
	}
	got := last(t, emitted)
	if id := activeID(t, got); id != "b" {
		t.Fatalf("active track = %q, want b", id)
	}
	item := got.Player.CurrentItem
	if len(item.Addons) != 1 || !got.Player.IsBlocked || !item.State.IsPlaying || item.State.Progress != 0 {
		t.Fatalf("item = %+v blocked=%v, want b gated by one addon", item, got.Player.IsBlocked)
	}
	mustCheck(t, got)
}

func TestRemoveFromQueue_KeepsPausedAndOtherItems(t *testing.T) {
	s := playing([]string{"a", "b", "c"}, 0, 0)
	s.Player.CurrentItem.State.IsPlaying = false

	emitted, err := perform(t, RemoveFromQueue{Keys: []queue.OrderHash{s.Player.Tracks[2].OrderHash}}, s)
	if err != nil {
		t.Fatalf("RemoveFromQueue returned error: %v", err)
	}
	if len(emitted) != 1 || activeID(t, emitted[0]) != "a" {
		t.Fatalf("removing another entry touched the current item")
	}

	emitted, err = perform(t, RemoveFromQueue{Keys: []queue.OrderHash{s.Player.Tracks[0].OrderHash}}, s)
	if err != nil {
		t.Fatalf("RemoveFromQueue returned error: %v", err)
	}
	if got := last(t, emitted); activeID(t, got) != "b" || got.Player.CurrentItem.State.IsPlaying {
		t.Fatalf("successor = %+v, want b paused", got.Player.CurrentItem)
	}
}

func TestApplyQueuePatch_InvalidPatch(t *testing.T) {
	s := playing([]string{"t1"}, 0, 0)
	_, err := ApplyQueuePatch{Patch: queue.Patch{Op: "shuffle"}}.Perform(s)
	if !errors.Is(err, dispatch.ErrPrecondition) {
		t.Fatalf("err = %v, want precondition", err)
	}
}

func TestEnqueueAndMove(t *testing.T) {
	s := playing([]string{"t1", "t2"}, 0, 0)
	s, err := PlayNext{Tracks: tracks("t9")}.Perform(s)
	if err != nil {
		t.Fatalf("PlayNext returned error: %v", err)
	}
	if got := s.Player.Tracks[1].Track.ID; got != "t9" {
		t.Fatalf("queue[1] = %q, want t9", got)
	}

	// Moving t1 after t2 keeps it current.
	s, err = MoveInQueue{Key: s.Player.Tracks[0].OrderHash, After: s.Player.Tracks[2].OrderHash}.Perform(s)
	if err != nil {
		t.Fatalf("MoveInQueue returned error: %v", err)
	}
	var ids []string
	for _, e := range s.Player.Tracks {
		ids = append(ids, e.Track.ID)
	}
	if len(ids) != 3 || ids[0] != "t9" || ids[1] != "t2" || ids[2] != "t1" {
		t.Fatalf("order = %v, want [t9 t2 t1]", ids)
	}
	if activeID(t, s) != "t1" {
		t.Fatalf("move changed the current item")
	}
	mustCheck(t, s)
}

func TestEnqueueTracks_Idempotent(t *testing.T) {
	s := playing([]string{"t1"}, 0, 0)
	patch := queue.InsertPatch(tracks("t2"), s.Player.Tracks[0].OrderHash)
	once, _ := ApplyQueuePatch{Patch: patch}.Perform(s)
	twice, _ := ApplyQueuePatch{Patch: patch}.Perform(once)
	if len(twice.Player.Tracks) != 2 {
		t.Fatalf("reapplying insert left %d tracks, want 2", len(twice.Player.Tracks))
	}
}
