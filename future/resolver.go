package future

import (
	"runtime"
	"sync/atomic"
	"weak"
)

// Resolver is the write-only handle paired with a [Future] at creation
// time. It is the only way to settle a future from outside the package
// (combinators and adapters call the package-private resolve directly).
// A Resolver may be called from any goroutine, and at most one of its
// Resolve/ResolveValue/ResolveError/Cancel calls has any effect; the
// rest are silently ignored.
type Resolver[V any] struct {
	state  *resolverState[V]
	handle *resolverHandle[V]
}

// resolverState is the single shared allocation backing both halves of
// the abandonment protocol described below. It holds only a weak
// reference to the future, never a strong one: neither of the two
// runtime.AddCleanup registrations below may be allowed to keep the
// future or the resolver reachable, or the cleanup they exist to run
// would never fire.
type resolverState[V any] struct {
	future   weak.Pointer[Future[V]]
	resolved atomic.Bool
	notify   atomic.Pointer[func()]
}

// newResolver pairs a fresh Resolver with f, and registers the two
// independent GC-triggered cleanups that implement abandonment
// semantics:
//
//   - if the Future itself becomes unreachable while still unresolved
//     (every observer dropped it), the producer's [Resolver.Notify]
//     closure, if any was registered, fires so it can stop upstream
//     work nobody is waiting on anymore.
//   - if the Resolver becomes unreachable while the future is still
//     unresolved (the producer gave up without ever calling Resolve),
//     the future is resolved with [Abandoned].
//
// Both cleanups close only over a weak.Pointer, never the future or
// resolver itself, per the runtime.AddCleanup contract: the cleanup
// argument must never reference the object the cleanup is attached to.
func newResolver[V any](f *Future[V]) Resolver[V] {
	st := &resolverState[V]{future: weak.Make(f)}
	f.notifyState.Store(st)

	handle := &resolverHandle[V]{state: st}
	runtime.AddCleanup(handle, abandonFuture[V], st)
	runtime.AddCleanup(f, notifyDesertion[V], st)
	runtime.KeepAlive(f)

	return Resolver[V]{state: st, handle: handle}
}

// notifyDesertion is the cleanup run when the Future itself is collected
// while still unresolved (every observer, including any combinator
// downstream, dropped it). It fires the producer's [Resolver.Notify]
// closure, if one was registered, so the producer can stop whatever
// upstream work nobody is waiting on anymore.
func notifyDesertion[V any](st *resolverState[V]) {
	if st.resolved.Load() {
		return
	}
	if fn := st.notify.Load(); fn != nil {
		(*fn)()
	}
}

// Notify registers fn to run once, if the paired future is garbage
// collected while still unresolved. It is advisory: fn may run on any
// goroutine, at an unspecified time after the future truly becomes
// unreachable, and it never runs at all if the future resolves first or
// stays reachable for the life of the program.
func (r Resolver[V]) Notify(fn func()) {
	r.state.notify.Store(&fn)
}

// resolverHandle is the object the Resolver's cleanup is actually
// attached to; it is kept inside Resolver so that the Resolver value
// itself (which callers may copy freely, like any other handle type)
// stays the thing whose collection the cleanup watches.
type resolverHandle[V any] struct {
	state *resolverState[V]
}

// abandonFuture is the cleanup run when a Resolver is collected without
// ever resolving its future. It is a free function, not a method closing
// over the resolver or future, so that it cannot accidentally keep
// either alive.
func abandonFuture[V any](st *resolverState[V]) {
	fp := st.future.Value()
	if fp == nil {
		return
	}
	fp.resolve(ErrorOutcome[V](Abandoned{}))
}

// Resolve settles the paired future with o. It returns true iff this
// call won the resolution race.
func (r Resolver[V]) Resolve(o Outcome[V]) bool {
	fp := r.state.future.Value()
	if fp == nil {
		return false
	}
	return fp.resolve(o)
}

// ResolveValue settles the paired future with a value outcome.
func (r Resolver[V]) ResolveValue(v V) bool {
	return r.Resolve(ValueOutcome(v))
}

// ResolveError settles the paired future with an error outcome.
func (r Resolver[V]) ResolveError(err error) bool {
	return r.Resolve(ErrorOutcome[V](err))
}

// Cancel is the Resolver side's equivalent of [Future.Cancel], for
// producers that want to cancel their own future directly rather than
// waiting for an external caller to do so. It delegates to the paired
// future's own Cancel, so a future backed by an upstream task handle
// still forwards the request to that task instead of resolving out from
// under it.
func (r Resolver[V]) Cancel(reason string) bool {
	fp := r.state.future.Value()
	if fp == nil {
		return false
	}
	return fp.Cancel(reason)
}

// NeedsResolution reports whether the paired future is still unresolved.
// It is advisory only: the result may be stale by the time the caller
// acts on it.
func (r Resolver[V]) NeedsResolution() bool {
	fp := r.state.future.Value()
	if fp == nil {
		return false
	}
	return fp.State() != Resolved
}
