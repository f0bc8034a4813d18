package future

import (
	"sync"
	"time"
)

// Scheduler is the execution substrate consumed by this package. It is
// deliberately minimal: the core never does anything with a scheduler
// beyond these four operations, and never runs user code inline from a
// mutating call — every handler invocation goes through Submit or
// SubmitAfter, even when the future being observed is already resolved.
//
// See the sibling "scheduler" package for a concrete, QoS-prioritized
// implementation; this package ships only a trivial goroutine-per-submit
// adapter, used as the process default until [SetDefaultScheduler]
// overrides it.
type Scheduler interface {
	// Submit enqueues fn for execution at the given QoS. Submit must not
	// block on fn's completion; fn runs asynchronously.
	Submit(qos QoS, fn func())

	// SubmitAfter enqueues fn for execution no earlier than deadline, at
	// the given QoS.
	SubmitAfter(deadline time.Time, qos QoS, fn func())

	// CurrentQoS reports the QoS of the calling goroutine's current unit
	// of work, on a best-effort basis. Implementations that cannot
	// determine this return [Unspecified].
	CurrentQoS() QoS

	// NewBarrier returns a fresh one-shot synchronization point used by
	// blocking [Future.Get] calls: Get registers a handler that calls
	// Signal, then calls Wait.
	NewBarrier() Barrier
}

// Barrier is a one-shot "block until done" synchronization point, used
// only by blocking [Future.Get].
type Barrier interface {
	Wait()
	Signal()
}

// chanBarrier is the Barrier implementation used by [goroutineScheduler]
// and is a reasonable default for any Scheduler backed by real OS
// threads.
type chanBarrier struct {
	done chan struct{}
	once sync.Once
}

func newChanBarrier() *chanBarrier {
	return &chanBarrier{done: make(chan struct{})}
}

func (b *chanBarrier) Wait() { <-b.done }

func (b *chanBarrier) Signal() {
	b.once.Do(func() { close(b.done) })
}

// goroutineScheduler is the zero-configuration Scheduler installed as the
// process default. It submits every unit of work as its own goroutine and
// uses time.AfterFunc for delayed submission; it makes no attempt at QoS
// prioritization, since Go's runtime scheduler already multiplexes
// goroutines across OS threads reasonably well for the common case. It
// exists so that code can construct futures without having to first wire
// up a full scheduler.
type goroutineScheduler struct{}

func (goroutineScheduler) Submit(_ QoS, fn func()) {
	go fn()
}

func (goroutineScheduler) SubmitAfter(deadline time.Time, _ QoS, fn func()) {
	d := time.Until(deadline)
	if d <= 0 {
		go fn()
		return
	}
	time.AfterFunc(d, fn)
}

func (goroutineScheduler) CurrentQoS() QoS { return Unspecified }

func (goroutineScheduler) NewBarrier() Barrier { return newChanBarrier() }

var defaultSchedulerMu sync.RWMutex
var defaultScheduler Scheduler = goroutineScheduler{}

// DefaultScheduler returns the process-wide default [Scheduler] used by
// the constructors in this package when no scheduler is supplied
// explicitly.
func DefaultScheduler() Scheduler {
	defaultSchedulerMu.RLock()
	defer defaultSchedulerMu.RUnlock()
	return defaultScheduler
}

// SetDefaultScheduler replaces the process-wide default scheduler.
// Intended to be called once at program startup; it is safe to call
// concurrently with future creation, but futures already created keep
// the scheduler they were created with.
func SetDefaultScheduler(s Scheduler) {
	if s == nil {
		panic("future: nil default scheduler")
	}
	defaultSchedulerMu.Lock()
	defer defaultSchedulerMu.Unlock()
	defaultScheduler = s
}
