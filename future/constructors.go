package future

// NewValue returns a future already resolved with v.
func NewValue[V any](v V) *Future[V] {
	return resolved[V](ValueOutcome(v))
}

// NewError returns a future already resolved with err.
func NewError[V any](err error) *Future[V] {
	return resolved[V](ErrorOutcome[V](err))
}

// resolved builds an already-Resolved future directly, bypassing the
// CAS dance in resolve since there are no competing writers for a future
// that was never published unresolved.
func resolved[V any](o Outcome[V]) *Future[V] {
	f := newFuture[V](nil, Unspecified)
	f.state.Store(int32(Resolved))
	f.outcome.Store(&o)
	return f
}

// Pair creates an unresolved future and the [Resolver] used to settle
// it, the lowest-level building block every other constructor and
// combinator in this package is built from.
func Pair[V any](scheduler Scheduler, qos QoS) (*Future[V], Resolver[V]) {
	f := newFuture[V](scheduler, qos)
	r := newResolver(f)
	return f, r
}
