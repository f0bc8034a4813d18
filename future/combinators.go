package future

import (
	"sync/atomic"
	"time"
)

// Map returns a future that resolves with f applied to the upstream
// value, or the upstream's error unchanged.
func Map[V, V2 any](upstream *Future[V], qos QoS, f func(V) V2) *Future[V2] {
	return chain(upstream, qos, func(o Outcome[V]) Outcome[V2] {
		return MapOutcome(o, f)
	})
}

// TryMap returns a future that resolves with f applied to the upstream
// value, adopting any error f returns; the upstream's own error passes
// through unchanged.
func TryMap[V, V2 any](upstream *Future[V], qos QoS, f func(V) (V2, error)) *Future[V2] {
	return chain(upstream, qos, func(o Outcome[V]) Outcome[V2] {
		return TryMapOutcome(o, f)
	})
}

// FlatMap returns a future that, once the upstream resolves with a
// value, adopts the outcome of f(value) wholesale; the upstream's error
// passes through unchanged without ever calling f.
func FlatMap[V, V2 any](upstream *Future[V], qos QoS, f func(V) *Future[V2]) *Future[V2] {
	downstream, r := Pair[V2](upstream.scheduler, resolveQoS(qos, upstream.qos))
	upstream.OnResult(qos, func(o Outcome[V]) {
		if o.IsError() {
			r.Resolve(ErrorOutcome[V2](o.Err))
			return
		}
		inner := f(o.Value)
		inner.OnResult(Unspecified, func(io Outcome[V2]) {
			r.Resolve(io)
		})
		linkCancel(downstream, inner)
	})
	linkCancel(downstream, upstream)
	return downstream
}

// Recover returns a future that, when the upstream resolves with an
// error, adopts the outcome of f(err) wholesale; a value passes through
// unchanged.
func Recover[V any](upstream *Future[V], qos QoS, f func(error) *Future[V]) *Future[V] {
	downstream, r := Pair[V](upstream.scheduler, resolveQoS(qos, upstream.qos))
	upstream.OnResult(qos, func(o Outcome[V]) {
		if o.IsValue() {
			r.Resolve(o)
			return
		}
		inner := f(o.Err)
		inner.OnResult(Unspecified, func(io Outcome[V]) {
			r.Resolve(io)
		})
		linkCancel(downstream, inner)
	})
	linkCancel(downstream, upstream)
	return downstream
}

// MapError returns a future that, when the upstream resolves with an
// error, resolves with f applied to that error instead; a value passes
// through unchanged.
func MapError[V any](upstream *Future[V], qos QoS, f func(error) error) *Future[V] {
	return chain(upstream, qos, func(o Outcome[V]) Outcome[V] {
		return MapErrorOutcome(o, f)
	})
}

// Apply returns a future that resolves with transform's function value
// applied to operand's value, once both resolve; either side's error
// takes precedence in the order given by [ApplyOutcome] (operand first).
func Apply[V, V2 any](operand *Future[V], transform *Future[func(V) V2], qos QoS) *Future[V2] {
	downstream, r := Pair[V2](operand.scheduler, resolveQoS(qos, operand.qos))

	var pending atomic.Int32
	pending.Store(2)
	var opOut Outcome[V]
	var trOut Outcome[func(V) V2]

	// Each handler writes only its own captured variable, then
	// atomically decrements pending; whichever handler observes the
	// count reach zero is guaranteed by the atomic decrement's ordering
	// to see both writes, and is the only one that calls Resolve.
	operand.OnResult(qos, func(o Outcome[V]) {
		opOut = o
		if pending.Add(-1) == 0 {
			r.Resolve(ApplyOutcome(opOut, trOut))
		}
	})
	transform.OnResult(qos, func(o Outcome[func(V) V2]) {
		trOut = o
		if pending.Add(-1) == 0 {
			r.Resolve(ApplyOutcome(opOut, trOut))
		}
	})

	linkCancel(downstream, operand)
	linkCancel(downstream, transform)
	return downstream
}

// Validate returns a future that resolves with the upstream's value if
// pred accepts it, or with [Invalid] otherwise; the upstream's own error
// passes through unchanged.
func Validate[V any](upstream *Future[V], qos QoS, pred func(V) bool, message string) *Future[V] {
	return chain(upstream, qos, func(o Outcome[V]) Outcome[V] {
		if o.IsError() {
			return o
		}
		if !pred(o.Value) {
			return ErrorOutcome[V](Invalid{Message: message})
		}
		return o
	})
}

// Delay returns a future that resolves with the upstream's value no
// earlier than d after upstream resolves. An upstream error forwards
// immediately, without waiting out d, since there is no value being
// held back for. A non-positive d returns upstream itself unchanged:
// there is nothing to delay, so no downstream future is allocated.
func Delay[V any](upstream *Future[V], d time.Duration) *Future[V] {
	if d <= 0 {
		return upstream
	}
	downstream, r := Pair[V](upstream.scheduler, upstream.qos)
	upstream.OnResult(Unspecified, func(o Outcome[V]) {
		if o.IsError() {
			r.Resolve(o)
			return
		}
		downstream.scheduler.SubmitAfter(now().Add(d), downstream.qos, func() {
			r.Resolve(o)
		})
	})
	linkCancel(downstream, upstream)
	return downstream
}

// Timeout returns a future that adopts the upstream's outcome if it
// resolves within d, or resolves with [TimedOut] otherwise. Firing the
// timeout also cancels the upstream, so work that nobody is waiting for
// anymore does not run to completion needlessly.
func Timeout[V any](upstream *Future[V], d time.Duration, reason string) *Future[V] {
	downstream, r := Pair[V](upstream.scheduler, upstream.qos)

	upstream.OnResult(Unspecified, func(o Outcome[V]) {
		r.Resolve(o)
	})
	downstream.scheduler.SubmitAfter(now().Add(d), upstream.qos, func() {
		if r.Resolve(ErrorOutcome[V](TimedOut{Reason: reason})) {
			upstream.Cancel(reason)
		}
	})
	linkCancel(downstream, upstream)
	return downstream
}

// Enqueuing returns a future equivalent to upstream but whose handlers,
// when upstream is already resolved at registration time, are always
// submitted through scheduler at qos rather than fired by whichever
// scheduler upstream itself uses. It is useful for hopping a result onto
// a different execution substrate partway through a chain.
func Enqueuing[V any](upstream *Future[V], scheduler Scheduler, qos QoS) *Future[V] {
	downstream, r := Pair[V](scheduler, qos)
	upstream.OnResult(Unspecified, func(o Outcome[V]) {
		r.Resolve(o)
	})
	linkCancel(downstream, upstream)
	return downstream
}

// Tuple2 bundles two values, as produced by [Combine2] and consumed by
// [Split2].
type Tuple2[A, B any] struct {
	First  A
	Second B
}

// Tuple3 bundles three values.
type Tuple3[A, B, C any] struct {
	First  A
	Second B
	Third  C
}

// Tuple4 bundles four values.
type Tuple4[A, B, C, D any] struct {
	First  A
	Second B
	Third  C
	Fourth D
}

// Split2 decomposes a future of a pair into two independent futures,
// each resolving once the upstream does. Canceling either downstream
// future cancels the upstream only once both have been canceled, since
// the upstream is still needed to produce the other half.
func Split2[A, B any](upstream *Future[Tuple2[A, B]], qos QoS) (*Future[A], *Future[B]) {
	fa, ra := Pair[A](upstream.scheduler, resolveQoS(qos, upstream.qos))
	fb, rb := Pair[B](upstream.scheduler, resolveQoS(qos, upstream.qos))
	upstream.OnResult(qos, func(o Outcome[Tuple2[A, B]]) {
		if o.IsError() {
			ra.Resolve(ErrorOutcome[A](o.Err))
			rb.Resolve(ErrorOutcome[B](o.Err))
			return
		}
		ra.ResolveValue(o.Value.First)
		rb.ResolveValue(o.Value.Second)
	})

	var pendingCancel atomic.Int32
	pendingCancel.Store(2)
	var lastReason atomic.Pointer[string]
	cancelUpstream := func(reason string) {
		lastReason.Store(&reason)
		if pendingCancel.Add(-1) == 0 {
			upstream.Cancel(*lastReason.Load())
		}
	}
	var aCanceled, bCanceled atomic.Bool
	fa.setTaskHandle(TaskHandleFunc(func() {
		if aCanceled.CompareAndSwap(false, true) {
			cancelUpstream(fa.pendingCancelReason())
		}
	}))
	fb.setTaskHandle(TaskHandleFunc(func() {
		if bCanceled.CompareAndSwap(false, true) {
			cancelUpstream(fb.pendingCancelReason())
		}
	}))

	return fa, fb
}

// Flatten collapses a future of a future into a single future that
// resolves once the inner future does.
func Flatten[V any](upstream *Future[*Future[V]]) *Future[V] {
	return FlatMap(upstream, Unspecified, func(inner *Future[V]) *Future[V] {
		return inner
	})
}

// chain is the shared implementation backing the outcome-transforming
// combinators (Map, TryMap, MapError, Validate): it registers a handler
// on upstream that computes the downstream outcome synchronously with
// the transform, with no inner future of its own to wait on.
func chain[V, V2 any](upstream *Future[V], qos QoS, transform func(Outcome[V]) Outcome[V2]) *Future[V2] {
	downstream, r := Pair[V2](upstream.scheduler, resolveQoS(qos, upstream.qos))
	upstream.OnResult(qos, func(o Outcome[V]) {
		r.Resolve(transform(o))
	})
	linkCancel(downstream, upstream)
	return downstream
}

// linkCancel wires downstream's cancellation to also cancel upstream,
// using upstream's own upstream-task-aware Cancel rather than resolving
// downstream directly — downstream resolves through the normal handler
// chain once upstream's cancellation propagates back around.
func linkCancel[V, U any](downstream *Future[V], upstream *Future[U]) {
	downstream.setTaskHandle(TaskHandleFunc(func() {
		upstream.Cancel(downstream.pendingCancelReason())
	}))
}
