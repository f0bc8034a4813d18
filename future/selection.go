package future

import (
	"sync/atomic"
	"time"
)

// FirstResolved returns a future that adopts whichever of futures
// resolves first, value or error alike. If cancelOthers is true, every
// other future is retired with [NotSelected] via cancelNotSelected, so
// upstream work nobody is waiting on anymore does not run to completion
// needlessly; if false, the losing futures are left to run to their own
// conclusion untouched.
func FirstResolved[V any](futures []*Future[V], qos QoS, cancelOthers bool) *Future[V] {
	if len(futures) == 0 {
		return NewError[V](Invalid{Message: "FirstResolved: no futures given"})
	}
	scheduler := futures[0].scheduler
	downstream, r := Pair[V](scheduler, qos)

	var won atomic.Bool
	for _, upstream := range futures {
		upstream := upstream
		upstream.OnResult(qos, func(o Outcome[V]) {
			if won.CompareAndSwap(false, true) {
				r.Resolve(o)
				if cancelOthers {
					retireOthers(futures, upstream)
				}
			}
		})
	}
	return downstream
}

// FirstValue returns a future that adopts the first Value produced among
// futures. If every one of them resolves with an error instead, the
// returned future resolves with the last error observed, once all have
// reported. If cancelOthers is true, non-winning futures that are still
// pending once a value wins are retired with [NotSelected]; if false,
// they are left to run to their own conclusion untouched.
func FirstValue[V any](futures []*Future[V], qos QoS, cancelOthers bool) *Future[V] {
	if len(futures) == 0 {
		return NewError[V](Invalid{Message: "FirstValue: no futures given"})
	}
	scheduler := futures[0].scheduler
	downstream, r := Pair[V](scheduler, qos)

	var won atomic.Bool
	var remaining atomic.Int32
	remaining.Store(int32(len(futures)))
	var lastErr atomic.Pointer[error]

	for _, upstream := range futures {
		upstream := upstream
		upstream.OnResult(qos, func(o Outcome[V]) {
			if o.IsValue() {
				if won.CompareAndSwap(false, true) {
					r.Resolve(o)
					if cancelOthers {
						retireOthers(futures, upstream)
					}
				}
				return
			}
			err := o.Err
			lastErr.Store(&err)
			if remaining.Add(-1) == 0 && won.CompareAndSwap(false, true) {
				r.Resolve(ErrorOutcome[V](*lastErr.Load()))
			}
		})
	}
	return downstream
}

// retireOthers calls cancelNotSelected on every future in all except
// winner.
func retireOthers[V any](all []*Future[V], winner *Future[V]) {
	for _, f := range all {
		if f != winner {
			f.cancelNotSelected()
		}
	}
}

// Combine waits for every future in futures to resolve and returns their
// values, in the original order, as a single slice. If any future
// resolves with an error, Combine resolves with that error as soon as it
// arrives and retires every future still pending with [NotSelected].
func Combine[V any](futures []*Future[V], qos QoS) *Future[[]V] {
	if len(futures) == 0 {
		return NewValue[[]V](nil)
	}
	scheduler := futures[0].scheduler
	downstream, r := Pair[[]V](scheduler, qos)

	n := len(futures)
	values := make([]V, n)
	var remaining atomic.Int32
	remaining.Store(int32(n))
	var failed atomic.Bool

	for i, upstream := range futures {
		i, upstream := i, upstream
		upstream.OnResult(qos, func(o Outcome[V]) {
			if o.IsError() {
				if failed.CompareAndSwap(false, true) {
					r.Resolve(ErrorOutcome[[]V](o.Err))
					retireOthers(futures, upstream)
				}
				return
			}
			values[i] = o.Value
			if remaining.Add(-1) == 0 && !failed.Load() {
				r.ResolveValue(values)
			}
		})
	}
	return downstream
}

// CombineN (2-4) are typed, heterogeneous-value forms of [Combine] for
// the common small-arity case, avoiding the need for a homogeneous
// slice and a runtime type switch.

// Combine2 waits for both a and b and returns their values together.
func Combine2[A, B any](a *Future[A], b *Future[B], qos QoS) *Future[Tuple2[A, B]] {
	downstream, r := Pair[Tuple2[A, B]](a.scheduler, qos)
	var pending atomic.Int32
	pending.Store(2)
	var failed atomic.Bool
	var av A
	var bv B

	a.OnResult(qos, func(o Outcome[A]) {
		if o.IsError() {
			if failed.CompareAndSwap(false, true) {
				r.Resolve(ErrorOutcome[Tuple2[A, B]](o.Err))
				b.cancelNotSelected()
			}
			return
		}
		av = o.Value
		if pending.Add(-1) == 0 && !failed.Load() {
			r.ResolveValue(Tuple2[A, B]{First: av, Second: bv})
		}
	})
	b.OnResult(qos, func(o Outcome[B]) {
		if o.IsError() {
			if failed.CompareAndSwap(false, true) {
				r.Resolve(ErrorOutcome[Tuple2[A, B]](o.Err))
				a.cancelNotSelected()
			}
			return
		}
		bv = o.Value
		if pending.Add(-1) == 0 && !failed.Load() {
			r.ResolveValue(Tuple2[A, B]{First: av, Second: bv})
		}
	})
	return downstream
}

// Combine3 waits for a, b, and c and returns their values together.
func Combine3[A, B, C any](a *Future[A], b *Future[B], c *Future[C], qos QoS) *Future[Tuple3[A, B, C]] {
	ab := Combine2(a, b, qos)
	return Map(Combine2(ab, c, qos), qos, func(t Tuple2[Tuple2[A, B], C]) Tuple3[A, B, C] {
		return Tuple3[A, B, C]{First: t.First.First, Second: t.First.Second, Third: t.Second}
	})
}

// Combine4 waits for a, b, c, and d and returns their values together.
func Combine4[A, B, C, D any](a *Future[A], b *Future[B], c *Future[C], d *Future[D], qos QoS) *Future[Tuple4[A, B, C, D]] {
	abc := Combine3(a, b, c, qos)
	return Map(Combine2(abc, d, qos), qos, func(t Tuple2[Tuple3[A, B, C], D]) Tuple4[A, B, C, D] {
		return Tuple4[A, B, C, D]{First: t.First.First, Second: t.First.Second, Third: t.First.Third, Fourth: t.Second}
	})
}

// Reduce folds f over the values of futures, in their original slice
// order, once all have resolved. f may itself fail; the first error it
// returns short-circuits the fold and becomes Reduce's outcome, with
// every value after the failing one left unvisited. Reduce also
// resolves with an error if any future in futures itself resolves with
// one, same as [Combine].
func Reduce[V, Acc any](futures []*Future[V], qos QoS, init Acc, f func(Acc, V) (Acc, error)) *Future[Acc] {
	return TryMap(Combine(futures, qos), qos, func(values []V) (Acc, error) {
		acc := init
		for _, v := range values {
			next, err := f(acc, v)
			if err != nil {
				return acc, err
			}
			acc = next
		}
		return acc, nil
	})
}

// InParallel launches every fn concurrently as an independent
// [NewSyncTask] and returns a future of all their results, in the order
// fns were given, with Combine's fail-fast-on-first-error semantics.
func InParallel[V any](scheduler Scheduler, qos QoS, fns ...func() (V, error)) *Future[[]V] {
	futures := make([]*Future[V], len(fns))
	for i, fn := range fns {
		fn := fn
		futures[i] = NewSyncTask[V](scheduler, qos, func() Outcome[V] {
			v, err := fn()
			if err != nil {
				return ErrorOutcome[V](err)
			}
			return ValueOutcome(v)
		})
	}
	return Combine(futures, qos)
}

// Retrying calls fn to obtain a future, and if it resolves with an
// error, calls fn again after backoff(attempt), up to maxAttempts total
// attempts. maxAttempts must be at least 1; a smaller value resolves
// immediately with [Invalid]. The final error, from the last attempt, is
// the one Retrying resolves with if every attempt fails.
func Retrying[V any](scheduler Scheduler, qos QoS, maxAttempts int, backoff func(attempt int) time.Duration, fn func() *Future[V]) *Future[V] {
	if maxAttempts < 1 {
		return NewError[V](Invalid{Message: "Retrying: maxAttempts must be at least 1"})
	}
	downstream, r := Pair[V](scheduler, qos)

	var attempt func(n int)
	attempt = func(n int) {
		fn().OnResult(qos, func(o Outcome[V]) {
			if o.IsValue() || n >= maxAttempts {
				r.Resolve(o)
				return
			}
			d := backoff(n)
			downstream.scheduler.SubmitAfter(now().Add(d), qos, func() {
				attempt(n + 1)
			})
		})
	}
	attempt(1)

	return downstream
}

// FirstResolved2 races a and b and returns a future for each: the one
// that resolved first keeps its own outcome, and the other resolves
// with [NotSelected].
func FirstResolved2[A, B any](a *Future[A], b *Future[B], qos QoS) (*Future[A], *Future[B]) {
	ra2, rra := Pair[A](a.scheduler, qos)
	rb2, rrb := Pair[B](b.scheduler, qos)

	var won atomic.Bool
	a.OnResult(qos, func(o Outcome[A]) {
		if won.CompareAndSwap(false, true) {
			rra.Resolve(o)
			rrb.Resolve(ErrorOutcome[B](NotSelected{}))
			b.cancelNotSelected()
		}
	})
	b.OnResult(qos, func(o Outcome[B]) {
		if won.CompareAndSwap(false, true) {
			rrb.Resolve(o)
			rra.Resolve(ErrorOutcome[A](NotSelected{}))
			a.cancelNotSelected()
		}
	})
	return ra2, rb2
}

// FirstValue2 races a and b for whichever produces a Value first: the
// winner's future keeps its value, and the loser's future resolves with
// [NotSelected]. If neither ever produces a value, each returned future
// resolves with its own original error instead of NotSelected, once both
// have reported.
func FirstValue2[A, B any](a *Future[A], b *Future[B], qos QoS) (*Future[A], *Future[B]) {
	ra2, rra := Pair[A](a.scheduler, qos)
	rb2, rrb := Pair[B](b.scheduler, qos)

	var won atomic.Bool
	var remaining atomic.Int32
	remaining.Store(2)
	var aErr, bErr atomic.Pointer[error]

	a.OnResult(qos, func(o Outcome[A]) {
		if o.IsValue() {
			if won.CompareAndSwap(false, true) {
				rra.Resolve(o)
				rrb.Resolve(ErrorOutcome[B](NotSelected{}))
				b.cancelNotSelected()
			}
			return
		}
		err := o.Err
		aErr.Store(&err)
		if remaining.Add(-1) == 0 && !won.Load() {
			rra.Resolve(ErrorOutcome[A](*aErr.Load()))
			rrb.Resolve(ErrorOutcome[B](*bErr.Load()))
		}
	})
	b.OnResult(qos, func(o Outcome[B]) {
		if o.IsValue() {
			if won.CompareAndSwap(false, true) {
				rrb.Resolve(o)
				rra.Resolve(ErrorOutcome[A](NotSelected{}))
				a.cancelNotSelected()
			}
			return
		}
		err := o.Err
		bErr.Store(&err)
		if remaining.Add(-1) == 0 && !won.Load() {
			rra.Resolve(ErrorOutcome[A](*aErr.Load()))
			rrb.Resolve(ErrorOutcome[B](*bErr.Load()))
		}
	})
	return ra2, rb2
}
