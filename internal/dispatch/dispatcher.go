package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/encore/internal/state"
)

const (
	// DefaultTimeout bounds how long a single action may run.
	DefaultTimeout = 10 * time.Second

	subscriberBuffer = 64
)

// Options configure a Dispatcher.
type Options struct {
	// Self is the signature stamped on envelopes dispatched without one.
	Self state.Signature
	// Timeout is the per-action watchdog; zero uses DefaultTimeout.
	Timeout time.Duration
	// Strict panics on every fault. Otherwise faults are logged and the
	// queue continues from the pre-action state (or, on timeout, from the
	// last state the action emitted).
	Strict bool
	Logger zerolog.Logger
	// OnFault observes faults before the strict/lenient policy applies.
	OnFault func(Fault)
	// OnPublish runs on the dispatcher goroutine after each published
	// change. It must not block.
	OnPublish func(prev, next state.AppState)
}

// Dispatcher serializes every state transition. Any goroutine may call
// Dispatch; one worker applies envelopes strictly in submission order, each
// against the state left by the one before it.
type Dispatcher struct {
	opts  Options
	store *state.Store
	log   zerolog.Logger

	queueMu sync.Mutex
	pending []Envelope
	wake    chan struct{}

	// current is the last published state; only the worker touches it.
	current state.AppState

	listenerMu sync.RWMutex
	listeners  map[chan state.AppState]struct{}
}

// New creates a dispatcher publishing into store.
func New(store *state.Store, opts Options) *Dispatcher {
	if store == nil {
		store = &state.Store{}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Dispatcher{
		opts:      opts,
		store:     store,
		log:       opts.Logger.With().Str("component", "dispatch").Logger(),
		wake:      make(chan struct{}, 1),
		current:   store.Snapshot(),
		listeners: make(map[chan state.AppState]struct{}),
	}
}

// Dispatch enqueues e. It never blocks.
func (d *Dispatcher) Dispatch(e Envelope) {
	if !e.Valid() {
		d.log.Warn().Str("action", e.Name).Msg("ignoring empty envelope")
		return
	}
	if e.Signature == "" {
		e.Signature = d.opts.Self
	}
	d.queueMu.Lock()
	d.pending = append(d.pending, e)
	d.queueMu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// Pending returns the number of envelopes waiting to run.
func (d *Dispatcher) Pending() int {
	d.queueMu.Lock()
	defer d.queueMu.Unlock()
	return len(d.pending)
}

// State returns the latest published state.
func (d *Dispatcher) State() state.AppState {
	return d.store.Snapshot()
}

// Self returns the local signature.
func (d *Dispatcher) Self() state.Signature {
	return d.opts.Self
}

// Subscribe returns a channel receiving every published state from now on.
// A subscriber that falls behind loses its oldest undelivered snapshots, so
// what it sees is always in publication order.
func (d *Dispatcher) Subscribe() (<-chan state.AppState, func()) {
	ch := make(chan state.AppState, subscriberBuffer)

	d.listenerMu.Lock()
	d.listeners[ch] = struct{}{}
	d.listenerMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			d.listenerMu.Lock()
			delete(d.listeners, ch)
			close(ch)
			d.listenerMu.Unlock()
		})
	}
	return ch, cancel
}

// Settle blocks until every envelope dispatched before the call has been
// applied, or ctx ends.
func (d *Dispatcher) Settle(ctx context.Context) error {
	done := make(chan struct{})
	d.Dispatch(Async("settle", CreatorFunc(func(context.Context, state.AppState, func(state.AppState)) error {
		close(done)
		return nil
	})))
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run applies queued envelopes until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		e, ok := d.next()
		if !ok {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-d.wake:
			}
			continue
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		d.execute(ctx, e)
	}
}

func (d *Dispatcher) next() (Envelope, bool) {
	d.queueMu.Lock()
	defer d.queueMu.Unlock()
	if len(d.pending) == 0 {
		return Envelope{}, false
	}
	e := d.pending[0]
	d.pending[0] = Envelope{}
	d.pending = d.pending[1:]
	return e, true
}

func (d *Dispatcher) execute(ctx context.Context, e Envelope) {
	initial := d.current.Clone()

	actx, cancel := context.WithTimeout(ctx, d.opts.Timeout)
	defer cancel()

	var (
		mu     sync.Mutex
		closed bool
	)
	emit := func(s state.AppState) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		s.Player.LastChangeSignature = e.Signature
		d.publish(s)
	}
	finish := func() {
		mu.Lock()
		closed = true
		mu.Unlock()
	}

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("action panicked: %v", r)
			}
		}()
		done <- e.asCreator().Perform(actx, initial.Clone(), emit)
	}()

	select {
	case err := <-done:
		finish()
		if err == nil {
			return
		}
		if errors.Is(actx.Err(), context.DeadlineExceeded) {
			d.fault(Fault{Kind: FaultTimeout, Action: e.Name, Signature: e.Signature, Err: fmt.Errorf("%w: %w", ErrTimeout, err)})
			return
		}
		if ctx.Err() != nil {
			return
		}
		d.fault(Fault{Kind: classify(err), Action: e.Name, Signature: e.Signature, Err: err})
		d.rollback(initial, e.Signature)
	case <-actx.Done():
		finish()
		if ctx.Err() != nil {
			return
		}
		// The orphaned goroutine sees a cancelled context; whatever it
		// emits from here on is dropped.
		d.fault(Fault{Kind: FaultTimeout, Action: e.Name, Signature: e.Signature, Err: fmt.Errorf("%w after %s", ErrTimeout, d.opts.Timeout)})
	}
}

func (d *Dispatcher) publish(next state.AppState) {
	if next.Equal(d.current) {
		return
	}
	next = next.Clone()
	prev := d.store.Replace(next)
	d.current = next

	d.listenerMu.RLock()
	for ch := range d.listeners {
		deliver(ch, next.Clone())
	}
	d.listenerMu.RUnlock()

	if d.opts.OnPublish != nil {
		d.opts.OnPublish(prev, next.Clone())
	}
}

// rollback republishes the pre-action state when the failed action had
// already emitted. The rollback is itself a change made by sig.
func (d *Dispatcher) rollback(initial state.AppState, sig state.Signature) {
	if d.current.Equal(initial) {
		return
	}
	initial.Player.LastChangeSignature = sig
	d.publish(initial)
}

func deliver(ch chan state.AppState, s state.AppState) {
	for {
		select {
		case ch <- s:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

func (d *Dispatcher) fault(f Fault) {
	if d.opts.OnFault != nil {
		d.opts.OnFault(f)
	}
	if d.opts.Strict {
		panic(f)
	}
	d.log.Error().
		Str("action", f.Action).
		Str("kind", f.Kind.String()).
		Str("signature", string(f.Signature)).
		Err(f.Err).
		Msg("action fault, continuing with recovered state")
}
