package dispatch

import (
	"context"

	"github.com/five82/encore/internal/state"
)

// Action is a synchronous transition. It must not block and must not fail
// except to report a violated precondition.
type Action interface {
	Perform(s state.AppState) (state.AppState, error)
}

// ActionFunc adapts a function to Action.
type ActionFunc func(s state.AppState) (state.AppState, error)

// Perform calls f.
func (f ActionFunc) Perform(s state.AppState) (state.AppState, error) { return f(s) }

// Creator is an asynchronous transition. It may perform I/O, emits zero or
// more states and must return. A returned error is terminal for the action.
// Emissions after the dispatcher stopped waiting are discarded.
type Creator interface {
	Perform(ctx context.Context, s state.AppState, emit func(state.AppState)) error
}

// CreatorFunc adapts a function to Creator.
type CreatorFunc func(ctx context.Context, s state.AppState, emit func(state.AppState)) error

// Perform calls f.
func (f CreatorFunc) Perform(ctx context.Context, s state.AppState, emit func(state.AppState)) error {
	return f(ctx, s, emit)
}

// Kind tags the shape of an Envelope.
type Kind int

const (
	KindSync Kind = iota
	KindAsync
)

func (k Kind) String() string {
	if k == KindAsync {
		return "async"
	}
	return "sync"
}

// Envelope is what the dispatcher queues: either a sync Action or an async
// Creator, plus the signature of whoever issued it.
type Envelope struct {
	Name      string
	Signature state.Signature

	kind    Kind
	action  Action
	creator Creator
}

// Sync wraps a synchronous action.
func Sync(name string, a Action) Envelope {
	return Envelope{Name: name, kind: KindSync, action: a}
}

// Async wraps an asynchronous action creator.
func Async(name string, c Creator) Envelope {
	return Envelope{Name: name, kind: KindAsync, creator: c}
}

// WithSignature returns a copy of e attributed to sig.
func (e Envelope) WithSignature(sig state.Signature) Envelope {
	e.Signature = sig
	return e
}

// Kind reports whether e wraps an Action or a Creator.
func (e Envelope) Kind() Kind { return e.kind }

// Valid reports whether e wraps anything.
func (e Envelope) Valid() bool {
	return e.action != nil || e.creator != nil
}

// asCreator lifts a sync action into the async shape: one emission, then
// completion.
func (e Envelope) asCreator() Creator {
	if e.kind == KindAsync {
		return e.creator
	}
	a := e.action
	return CreatorFunc(func(_ context.Context, s state.AppState, emit func(state.AppState)) error {
		next, err := a.Perform(s)
		if err != nil {
			return err
		}
		emit(next)
		return nil
	})
}
