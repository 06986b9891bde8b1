// Package dispatch is the serial execution engine behind every state change.
//
// # Overview
//
// Callers never touch state directly. They wrap a transition in an Envelope
// and hand it to Dispatcher.Dispatch, which returns immediately. A single
// worker goroutine (Dispatcher.Run) pops envelopes in submission order and
// applies each one to the state left by its predecessor:
//
//	producers (UI, clock, sync, control)
//	        │ Dispatch(envelope)          non-blocking, any goroutine
//	        ▼
//	┌──────────────────┐
//	│ pending FIFO     │ mutex-guarded slice + wake channel
//	└────────┬─────────┘
//	         ▼
//	┌──────────────────┐
//	│ worker           │ one envelope at a time, 10s watchdog each
//	│  Perform(state)  │
//	│  stamp signature │
//	│  dedup + publish │──→ state.Store, subscribers, OnPublish
//	└──────────────────┘
//
// # Action shapes
//
// Envelope is a tagged union over two shapes of "compute the next state":
//
//   - Action: Perform(state) (state, error); synchronous, no I/O
//   - Creator: Perform(ctx, state, emit) error; may suspend on I/O, emits
//     zero or more states, then returns
//
// Sync actions are lifted into the async shape (one emission, then done) so
// the worker handles both the same way. An asynchronous action that suspends
// still holds the queue: nothing else runs until it returns or times out.
//
// # Faults
//
// Three things can go wrong with an action, all reported as a Fault:
//
//   - FaultPrecondition: the action returned a *PreconditionError
//   - FaultFailure: the action returned any other error or panicked
//   - FaultTimeout: the action did not return within Options.Timeout
//
// With Options.Strict set (debug builds) a fault panics. Otherwise it is
// logged and the queue moves on: failures restore the pre-action state,
// timeouts keep whatever the action emitted last (or the pre-action state if
// it emitted nothing). On timeout the action's context is cancelled and its
// later emissions are discarded. Either way the next action always has a
// valid state to start from.
//
// Swallowing faults outside strict mode can hide real bugs; it is kept
// because the player must never get stuck on one bad action.
//
// # Publication
//
// Every emitted state is stamped with the envelope's signature and compared
// with the last published state. Structurally equal states are not
// published. Subscribers receive each new state on a buffered channel;
// OnPublish receives (prev, next) pairs on the worker goroutine.
package dispatch
