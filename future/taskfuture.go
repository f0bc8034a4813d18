package future

// TaskHandle is an external, cancelable operation a [Future] can be
// backed by: an upstream collaborator (a goroutine doing I/O, a
// pool-dispatched task, an in-flight HTTP request — see the netfuture
// package) that the future's own [Future.Cancel] should reach into
// rather than short-circuit around.
//
// An adapter wires a TaskHandle into a future with the package-private
// setTaskHandle, then resolves the future itself once the task reports
// completion; Cancel never resolves the future directly when a handle is
// present; it only requests cancellation and waits for that completion
// callback.
type TaskHandle interface {
	// Cancel requests that the underlying operation stop. It must not
	// block, and it is safe to call more than once or after the
	// operation has already finished.
	Cancel()
}

// taskHandleFunc adapts a plain cancel function to a TaskHandle.
type taskHandleFunc func()

func (f taskHandleFunc) Cancel() { f() }

// TaskHandleFunc is a convenience constructor for the common case where a
// task's cancellation is a single function call (for example,
// context.CancelFunc).
func TaskHandleFunc(cancel func()) TaskHandle {
	return taskHandleFunc(cancel)
}

// NewTask creates an unresolved future backed by an upstream task. The
// caller supplies start, which is invoked once setup completes: start
// receives a [Resolver] to settle the future from and must return the
// [TaskHandle] that future's Cancel will forward to. start is invoked
// from a submission to the future's scheduler, never inline, so that the returned future is always safe to publish to other
// goroutines before start runs.
func NewTask[V any](scheduler Scheduler, qos QoS, start func(Resolver[V]) TaskHandle) *Future[V] {
	f := newFuture[V](scheduler, qos)
	r := newResolver(f)
	f.scheduler.Submit(resolveQoS(qos, Unspecified), func() {
		f.BeginExecution()
		handle := start(r)
		f.setTaskHandle(handle)
	})
	return f
}

// NewLazyTask creates an unresolved future exactly like [NewTask], but
// defers calling start until the future's first observer — the first
// call to [Future.OnResult] (including indirectly, through [Future.Get],
// [Future.OnValue], or [Future.OnError]) — rather than running it
// immediately. If the future is dropped with no observer ever
// registered, start never runs at all.
func NewLazyTask[V any](scheduler Scheduler, qos QoS, start func(Resolver[V]) TaskHandle) *Future[V] {
	f := newFuture[V](scheduler, qos)
	r := newResolver(f)
	startFn := func() {
		f.scheduler.Submit(resolveQoS(qos, Unspecified), func() {
			f.BeginExecution()
			handle := start(r)
			f.setTaskHandle(handle)
		})
	}
	f.lazyStart.Store(&startFn)
	return f
}

// NewSyncTask creates a future that runs fn synchronously on the
// scheduler (fn has no cancellation hook of its own; the future still
// gets [Canceled] semantics for late observers via the usual Cancel
// path, but an in-flight fn runs to completion).
func NewSyncTask[V any](scheduler Scheduler, qos QoS, fn func() Outcome[V]) *Future[V] {
	f := newFuture[V](scheduler, qos)
	f.scheduler.Submit(resolveQoS(qos, Unspecified), func() {
		f.BeginExecution()
		f.resolve(fn())
	})
	return f
}
