package future

import (
	"sync/atomic"
	"time"
)

// Future is a single-assignment, at-most-once asynchronous value
// container. It is always used through a pointer; a Future must never be
// copied, since it embeds atomics that give its wait-free registration
// and lock-free resolution.
//
// Invariants: once Resolved, state and outcome are terminal; exactly one
// resolve call ever wins; every handler registered on a Future — before
// or after resolution — fires exactly once, asynchronously, on the
// Future's [Scheduler].
type Future[V any] struct {
	state   atomic.Int32
	outcome atomic.Pointer[Outcome[V]]
	waiters waitQueue[V]

	scheduler Scheduler
	qos       QoS

	task         atomic.Pointer[taskHandleBox]
	cancelReason atomic.Pointer[string]

	notifyState atomic.Pointer[resolverState[V]]
	lazyStart   atomic.Pointer[func()]
}

// triggerLazyStart fires a future's deferred start exactly once, the
// first time it is called, for futures created by [NewLazyTask]. It is
// a no-op for every other future.
func (f *Future[V]) triggerLazyStart() {
	if p := f.lazyStart.Swap(nil); p != nil {
		(*p)()
	}
}

// newFuture allocates an unresolved Future with the given default
// scheduler and QoS. It is not exported: callers obtain futures through
// [NewValue], [NewError], [NewTask], [Pair], or a combinator.
func newFuture[V any](scheduler Scheduler, qos QoS) *Future[V] {
	if scheduler == nil {
		scheduler = DefaultScheduler()
	}
	return &Future[V]{scheduler: scheduler, qos: qos}
}

// State returns the future's coarse, observable state.
func (f *Future[V]) State() State {
	s := State(f.state.Load())
	if s == resolving {
		// Resolving is a transient internal sentinel; by the time an
		// outside caller can observe it the publishing resolve is
		// already on its way to Resolved, so report the future as still
		// Executing rather than leaking an internal detail.
		return Executing
	}
	return s
}

// ID returns an opaque, comparable identity for this future, usable in
// diagnostics without extending its lifetime.
func (f *Future[V]) ID() ID { return newID(f) }

// Peek returns the future's outcome without blocking, and true, iff the
// future is resolved. After Peek first returns true, it continues to
// return the same outcome forever.
func (f *Future[V]) Peek() (Outcome[V], bool) {
	if State(f.state.Load()) != Resolved {
		return Outcome[V]{}, false
	}
	o := f.outcome.Load()
	if o == nil {
		// A resolve is publishing Resolved concurrently with our load
		// above but hasn't stored the outcome pointer's acquire-visible
		// value yet in this goroutine's view; retry once resolution's
		// release store becomes visible. This loop is bounded in
		// practice to a handful of spins because resolve() stores the
		// outcome strictly before publishing Resolved.
		for o == nil {
			o = f.outcome.Load()
		}
	}
	return *o, true
}

// Get blocks the calling goroutine until the future resolves, and
// returns its outcome. It is implemented by registering an internal
// waiter that signals a [Barrier] obtained from the future's scheduler.
func (f *Future[V]) Get() Outcome[V] {
	if o, ok := f.Peek(); ok {
		return o
	}
	barrier := f.scheduler.NewBarrier()
	var result Outcome[V]
	f.OnResult(Unspecified, func(o Outcome[V]) {
		result = o
		barrier.Signal()
	})
	barrier.Wait()
	return result
}

// BeginExecution is a monotonic state hint, Waiting -> Executing. It is
// idempotent and never reverses; handlers may still be registered while
// Executing, and resolution may occur directly from either state.
func (f *Future[V]) BeginExecution() {
	f.state.CompareAndSwap(int32(Waiting), int32(Executing))
}

// OnResult registers handler to be invoked exactly once, on the future's
// scheduler at qos (or the future's default QoS if qos is [Unspecified]),
// with the future's eventual outcome. If the future is already resolved,
// handler is submitted immediately instead of being enqueued.
//
// The registration protocol below is wait-free for the caller and
// lock-free overall: it either gets the waiter visible to the drainer
// before resolution claims the queue, or it observes Resolved and
// submits the handler itself — never both, and never neither.
func (f *Future[V]) OnResult(qos QoS, handler func(Outcome[V])) {
	f.triggerLazyStart()
	effectiveQoS := resolveQoS(qos, f.qos)

	if State(f.state.Load()) == Resolved {
		f.submitResolved(effectiveQoS, handler)
		return
	}

	w := &waiter[V]{qos: effectiveQoS, handler: handler}
	for {
		head := f.waiters.head.Load()
		w.next = head
		if State(f.state.Load()) == Resolved {
			// Resolution won the race since our check above; the drain
			// that already ran (or is running) cannot see this node, so
			// we are solely responsible for firing it.
			f.submitResolved(effectiveQoS, handler)
			return
		}
		if f.waiters.head.CompareAndSwap(head, w) {
			if State(f.state.Load()) == Resolved {
				// The push may have landed after resolve's drain, which
				// then never saw it; claim whatever is queued now and fire
				// it here. The swap hands each node to exactly one
				// drainer, so nothing fires twice.
				for p := reverseWaiters(f.waiters.drain()); p != nil; p = p.next {
					f.submitResolved(p.qos, p.handler)
				}
			}
			return
		}
	}
}

// submitResolved fires handler against an already-published outcome. It
// is only ever called once the future's state load observed Resolved,
// whose release ordering makes the outcome pointer's store visible here.
func (f *Future[V]) submitResolved(qos QoS, handler func(Outcome[V])) {
	o, ok := f.Peek()
	if !ok {
		// Resolved was observed but the outcome pointer has not yet
		// become visible to this goroutine; Peek already spins for
		// that, so this branch cannot be taken in practice.
		return
	}
	f.scheduler.Submit(qos, func() { handler(o) })
}

// OnValue registers handler to fire only when the future resolves with a
// value; it is a convenience wrapper around OnResult.
func (f *Future[V]) OnValue(qos QoS, handler func(V)) {
	f.OnResult(qos, func(o Outcome[V]) {
		if o.IsValue() {
			handler(o.Value)
		}
	})
}

// OnError registers handler to fire only when the future resolves with
// an error; it is a convenience wrapper around OnResult.
func (f *Future[V]) OnError(qos QoS, handler func(error)) {
	f.OnResult(qos, func(o Outcome[V]) {
		if o.IsError() {
			handler(o.Err)
		}
	})
}

// resolve is the single resolution function shared by [Resolver.Resolve]
// and the synthetic resolutions ([Future.Cancel], abandonment, timeouts).
// It returns true iff this call won the state race.
func (f *Future[V]) resolve(o Outcome[V]) bool {
	if !f.state.CompareAndSwap(int32(Waiting), int32(resolving)) &&
		!f.state.CompareAndSwap(int32(Executing), int32(resolving)) {
		return false
	}

	f.outcome.Store(&o)
	f.state.Store(int32(Resolved)) // release-publish

	if st := f.notifyState.Load(); st != nil {
		st.resolved.Store(true)
	}

	head := f.waiters.drain()
	head = reverseWaiters(head)
	for w := head; w != nil; w = w.next {
		handler := w.handler
		f.scheduler.Submit(w.qos, func() { handler(o) })
	}
	return true
}

// Cancel attempts to resolve the future with [Canceled]. If the future
// carries an upstream task handle (see [Future.setTaskHandle]), Cancel
// asks the task to cancel first; the task's completion callback is
// then responsible for resolving the future. Cancel returns true iff this
// call initiated the resolution (directly, or by successfully forwarding
// to a live upstream task); it returns false if the future was already
// resolved.
func (f *Future[V]) Cancel(reason string) bool {
	if State(f.state.Load()) == Resolved {
		return false
	}
	if box := f.task.Load(); box != nil && box.handle != nil {
		f.cancelReason.Store(&reason)
		box.handle.Cancel()
		return true
	}
	return f.resolve(ErrorOutcome[V](Canceled{Reason: reason}))
}

// cancelNotSelected is the internal variant of Cancel used by selection
// combinators ([FirstValue], [FirstResolved]) to retire non-winning
// inputs: it resolves with the literal [NotSelected] error rather than
// wrapping the reason in [Canceled], still honoring an upstream task
// handle first when one is present.
func (f *Future[V]) cancelNotSelected() bool {
	if State(f.state.Load()) == Resolved {
		return false
	}
	if box := f.task.Load(); box != nil && box.handle != nil {
		box.handle.Cancel()
		return true
	}
	return f.resolve(ErrorOutcome[V](NotSelected{}))
}

// taskHandleBox indirects the task handle so that the atomic.Pointer
// field above can hold a nil-able reference type without requiring
// TaskHandle itself to be a pointer type.
type taskHandleBox struct {
	handle TaskHandle
}

// setTaskHandle installs h as this future's upstream task. It is
// intended to be called once, by an adapter (see the netfuture
// package), immediately after creating the future and before publishing
// it to any observer.
func (f *Future[V]) setTaskHandle(h TaskHandle) {
	f.task.Store(&taskHandleBox{handle: h})
}

// pendingCancelReason returns the reason passed to the most recent Cancel
// call that forwarded to an upstream task, if any. Adapters use this when
// their task's on-complete callback reports a cancellation, to resolve
// the future with the original caller-supplied reason.
func (f *Future[V]) pendingCancelReason() string {
	if r := f.cancelReason.Load(); r != nil {
		return *r
	}
	return ""
}

// now exists only so tests can see a single call site if they ever need
// to fake time; production code calls time.Now directly through it.
func now() time.Time { return time.Now() }
