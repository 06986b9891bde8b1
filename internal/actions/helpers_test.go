package actions

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/five82/encore/internal/dispatch"
	"github.com/five82/encore/internal/model"
	"github.com/five82/encore/internal/queue"
	"github.com/five82/encore/internal/state"
)

const self state.Signature = "self"

type fakeCatalog struct {
	addons     map[string][]model.Addon
	lyrics     map[string]model.Lyrics
	err        error
	lyricCalls int
}

func (f *fakeCatalog) FetchLyrics(_ context.Context, trackID string) (model.Lyrics, error) {
	f.lyricCalls++
	if f.err != nil {
		return model.Lyrics{}, f.err
	}
	return f.lyrics[trackID], nil
}

func (f *fakeCatalog) FetchAddons(_ context.Context, trackID string) ([]model.Addon, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.addons[trackID], nil
}

type recordingReporter struct {
	mu     sync.Mutex
	played []string
}

func (r *recordingReporter) ReportAddonPlayed(_ context.Context, addon model.Addon) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.played = append(r.played, addon.ID)
	return nil
}

func tracks(ids ...string) []model.Track {
	out := make([]model.Track, len(ids))
	for i, id := range ids {
		out[i] = model.Track{ID: id, Title: "Track " + id, IsPlayable: true, Duration: 3 * time.Minute}
	}
	return out
}

// playing returns a state whose queue holds ids with the entry at index
// active playing at progress.
func playing(ids []string, active int, progress time.Duration) state.AppState {
	s := state.Init(self)
	s.Player.Tracks = queue.New(tracks(ids...)...)
	s.Player.CurrentItem = &state.CurrentItem{
		ActiveTrackHash: s.Player.Tracks[active].OrderHash,
		State:           state.ItemState{IsPlaying: true, Progress: progress},
	}
	return s
}

// perform runs a creator to completion and returns what it emitted.
func perform(t *testing.T, c dispatch.Creator, s state.AppState) ([]state.AppState, error) {
	t.Helper()
	var emitted []state.AppState
	err := c.Perform(context.Background(), s, func(next state.AppState) {
		emitted = append(emitted, next.Clone())
	})
	return emitted, err
}

func last(t *testing.T, emitted []state.AppState) state.AppState {
	t.Helper()
	if len(emitted) == 0 {
		t.Fatalf("no state emitted")
	}
	return emitted[len(emitted)-1]
}

func activeID(t *testing.T, s state.AppState) string {
	t.Helper()
	current, ok := s.CurrentTrack()
	if !ok {
		t.Fatalf("no current track")
	}
	return current.Track.ID
}

func mustCheck(t *testing.T, s state.AppState) {
	t.Helper()
	if err := s.Check(); err != nil {
		t.Fatalf("state invariants: %v", err)
	}
}
