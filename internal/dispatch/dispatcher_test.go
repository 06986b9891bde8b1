package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/five82/encore/internal/model"
	"github.com/five82/encore/internal/state"
)

func startDispatcher(t *testing.T, opts Options) *Dispatcher {
	t.Helper()
	if opts.Self == "" {
		opts.Self = "self"
	}
	d := New(state.NewStore(state.Init(opts.Self)), opts)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = d.Run(ctx) }()
	return d
}

func settle(t *testing.T, d *Dispatcher) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.Settle(ctx); err != nil {
		t.Fatalf("Settle: %v", err)
	}
}

func appendPlaylist(id string) Envelope {
	return Sync("append "+id, ActionFunc(func(s state.AppState) (state.AppState, error) {
		s.Player.MyPlaylists = append(s.Player.MyPlaylists, model.Playlist{ID: id})
		return s, nil
	}))
}

func playlistIDs(s state.AppState) []string {
	out := make([]string, len(s.Player.MyPlaylists))
	for i, p := range s.Player.MyPlaylists {
		out[i] = p.ID
	}
	return out
}

func TestDispatcher_AppliesInSubmissionOrder(t *testing.T) {
	d := startDispatcher(t, Options{})
	updates, cancel := d.Subscribe()
	defer cancel()

	d.Dispatch(Async("slow", CreatorFunc(func(ctx context.Context, s state.AppState, emit func(state.AppState)) error {
		time.Sleep(30 * time.Millisecond)
		s.Player.MyPlaylists = append(s.Player.MyPlaylists, model.Playlist{ID: "0"})
		emit(s)
		return nil
	})))
	for i := 1; i < 5; i++ {
		d.Dispatch(appendPlaylist(strconv.Itoa(i)))
	}
	settle(t, d)

	got := playlistIDs(d.State())
	want := []string{"0", "1", "2", "3", "4"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("playlists = %v, want %v", got, want)
	}

	// Each published state extends the previous one by exactly one entry.
	for i := 1; i <= 5; i++ {
		select {
		case s := <-updates:
			if len(s.Player.MyPlaylists) != i {
				t.Fatalf("update %d has %d playlists, want %d", i, len(s.Player.MyPlaylists), i)
			}
		default:
			t.Fatalf("missing update %d", i)
		}
	}
}

func TestDispatcher_ConcurrentProducers(t *testing.T) {
	d := startDispatcher(t, Options{})

	const producers, perProducer = 8, 50
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				d.Dispatch(appendPlaylist(fmt.Sprintf("%d-%d", p, i)))
			}
		}(p)
	}
	wg.Wait()
	settle(t, d)

	if got := len(d.State().Player.MyPlaylists); got != producers*perProducer {
		t.Fatalf("playlists = %d, want %d (lost updates)", got, producers*perProducer)
	}
}

func TestDispatcher_StampsSignature(t *testing.T) {
	d := startDispatcher(t, Options{Self: "me"})

	d.Dispatch(appendPlaylist("a").WithSignature("peer"))
	settle(t, d)
	if got := d.State().Player.LastChangeSignature; got != "peer" {
		t.Fatalf("LastChangeSignature = %q, want peer", got)
	}

	d.Dispatch(appendPlaylist("b"))
	settle(t, d)
	if got := d.State().Player.LastChangeSignature; got != "me" {
		t.Fatalf("LastChangeSignature = %q, want me", got)
	}
}

func TestDispatcher_DeduplicatesEqualStates(t *testing.T) {
	d := startDispatcher(t, Options{})
	d.Dispatch(appendPlaylist("a"))
	settle(t, d)

	updates, cancel := d.Subscribe()
	defer cancel()

	d.Dispatch(Sync("noop", ActionFunc(func(s state.AppState) (state.AppState, error) { return s, nil })))
	d.Dispatch(Sync("rebuild", ActionFunc(func(s state.AppState) (state.AppState, error) {
		s.Player.MyPlaylists = []model.Playlist{{ID: "a"}}
		return s, nil
	})))
	settle(t, d)

	select {
	case s := <-updates:
		t.Fatalf("published %v, want no update for an equal state", playlistIDs(s))
	default:
	}
}

func TestDispatcher_WatchdogUnblocksQueue(t *testing.T) {
	var (
		mu     sync.Mutex
		faults []Fault
	)
	d := startDispatcher(t, Options{
		Timeout: 50 * time.Millisecond,
		OnFault: func(f Fault) {
			mu.Lock()
			faults = append(faults, f)
			mu.Unlock()
		},
	})

	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	d.Dispatch(Async("stalled", CreatorFunc(func(ctx context.Context, s state.AppState, emit func(state.AppState)) error {
		s.Player.MyPlaylists = append(s.Player.MyPlaylists, model.Playlist{ID: "partial"})
		emit(s)
		<-release
		s.Player.MyPlaylists = append(s.Player.MyPlaylists, model.Playlist{ID: "late"})
		emit(s)
		return nil
	})))
	d.Dispatch(appendPlaylist("after"))

	start := time.Now()
	settle(t, d)
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("queue took %v to drain, want about the 50ms timeout", elapsed)
	}

	want := []string{"partial", "after"}
	if got := playlistIDs(d.State()); fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("playlists = %v, want %v", got, want)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(faults) != 1 || faults[0].Kind != FaultTimeout || !errors.Is(faults[0], ErrTimeout) {
		t.Fatalf("faults = %v, want one timeout fault", faults)
	}
}

func TestDispatcher_FailureRestoresPriorState(t *testing.T) {
	var faults []Fault
	var mu sync.Mutex
	d := startDispatcher(t, Options{OnFault: func(f Fault) {
		mu.Lock()
		faults = append(faults, f)
		mu.Unlock()
	}})

	d.Dispatch(appendPlaylist("a"))
	d.Dispatch(Sync("bad", ActionFunc(func(s state.AppState) (state.AppState, error) {
		return state.AppState{}, Preconditionf("no lyrics loaded")
	})))
	d.Dispatch(Async("half", CreatorFunc(func(ctx context.Context, s state.AppState, emit func(state.AppState)) error {
		s.Player.MyPlaylists = append(s.Player.MyPlaylists, model.Playlist{ID: "half"})
		emit(s)
		return errors.New("network down")
	})))
	d.Dispatch(Sync("panics", ActionFunc(func(s state.AppState) (state.AppState, error) {
		panic("boom")
	})))
	d.Dispatch(appendPlaylist("b"))
	settle(t, d)

	want := []string{"a", "b"}
	if got := playlistIDs(d.State()); fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("playlists = %v, want %v", got, want)
	}

	mu.Lock()
	defer mu.Unlock()
	kinds := make([]FaultKind, len(faults))
	for i, f := range faults {
		kinds[i] = f.Kind
	}
	wantKinds := []FaultKind{FaultPrecondition, FaultFailure, FaultFailure}
	if fmt.Sprint(kinds) != fmt.Sprint(wantKinds) {
		t.Fatalf("fault kinds = %v, want %v", kinds, wantKinds)
	}
	if !errors.Is(faults[0], ErrPrecondition) {
		t.Fatalf("fault %v should match ErrPrecondition", faults[0])
	}
}

func TestDispatcher_RollbackCarriesFailingSignature(t *testing.T) {
	d := startDispatcher(t, Options{})
	d.Dispatch(appendPlaylist("a"))
	settle(t, d)
	updates, cancel := d.Subscribe()
	defer cancel()

	d.Dispatch(Async("half", CreatorFunc(func(ctx context.Context, s state.AppState, emit func(state.AppState)) error {
		s.Player.MyPlaylists = append(s.Player.MyPlaylists, model.Playlist{ID: "half"})
		emit(s)
		return errors.New("network down")
	})).WithSignature("peer"))
	d.Dispatch(Sync("quiet failure", ActionFunc(func(s state.AppState) (state.AppState, error) {
		return s, errors.New("nothing emitted")
	})))
	settle(t, d)

	got := d.State()
	if ids := playlistIDs(got); fmt.Sprint(ids) != "[a]" {
		t.Fatalf("playlists = %v, want [a]", ids)
	}
	if got.Player.LastChangeSignature != "peer" {
		t.Fatalf("last change signature = %q, want peer", got.Player.LastChangeSignature)
	}
	// The partial emission and its rollback; the quiet failure publishes nothing.
	if n := len(updates); n != 2 {
		t.Fatalf("published %d states, want 2", n)
	}
}

func TestDispatcher_StrictPanics(t *testing.T) {
	d := New(&state.Store{}, Options{Strict: true})
	defer func() {
		r := recover()
		f, ok := r.(Fault)
		if !ok || f.Kind != FaultPrecondition {
			t.Fatalf("recovered %v, want precondition Fault", r)
		}
	}()
	d.fault(Fault{Kind: FaultPrecondition, Action: "x", Err: Preconditionf("x")})
}

func TestDispatcher_SubscribeCancel(t *testing.T) {
	d := startDispatcher(t, Options{})
	updates, cancel := d.Subscribe()
	cancel()
	cancel() // idempotent

	d.Dispatch(appendPlaylist("a"))
	settle(t, d)
	if _, ok := <-updates; ok {
		t.Fatalf("cancelled subscription still delivers")
	}
}

func TestDispatcher_IgnoresEmptyEnvelope(t *testing.T) {
	d := New(&state.Store{}, Options{})
	d.Dispatch(Envelope{Name: "empty"})
	if d.Pending() != 0 {
		t.Fatalf("Pending = %d, want 0", d.Pending())
	}
}

func TestEnvelope_Kind(t *testing.T) {
	s := Sync("s", ActionFunc(func(s state.AppState) (state.AppState, error) { return s, nil }))
	a := Async("a", CreatorFunc(func(context.Context, state.AppState, func(state.AppState)) error { return nil }))
	if s.Kind() != KindSync || a.Kind() != KindAsync {
		t.Fatalf("kinds = %v/%v, want sync/async", s.Kind(), a.Kind())
	}
}
