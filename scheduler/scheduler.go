package scheduler

import (
	"sync"
	"time"

	"github.com/glessard/go-deferred/future"
	"github.com/glessard/go-deferred/scheduler/metrics"
)

// lanes is the number of priority lanes: one per future.QoS value from
// Background through UserInteractive (Unspecified never reaches a lane;
// enqueue runs such work in the future.Default lane).
const lanes = int(future.UserInteractive) + 1

// Scheduler is a fixed-size worker pool future.Scheduler implementation
// that drains lanes[future.UserInteractive] before
// lanes[future.UserInitiated] and so on down to lanes[future.Background],
// always preferring the highest-priority lane with ready work.
//
// It is grounded on the same fixed-worker-pool shape as a dynamic task
// dispatcher: a bounded number of goroutines pulling from shared
// channels, started once at construction and stopped by [Scheduler.Stop].
type Scheduler struct {
	cfg   config
	lanes [lanes]chan func()

	mu      sync.Mutex
	stopped bool
	done    chan struct{}

	submitted [lanes]metrics.Counter
	depth     [lanes]metrics.UpDownCounter
	latency   [lanes]metrics.Histogram
}

// New constructs and starts a Scheduler. Call Stop when it is no longer
// needed to let its worker goroutines exit.
func New(opts ...Option) *Scheduler {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			panic("scheduler: nil option")
		}
		opt(&cfg)
	}

	s := &Scheduler{cfg: cfg, done: make(chan struct{})}
	for i := 0; i < lanes; i++ {
		s.lanes[i] = make(chan func(), cfg.laneSize)
		qos := future.QoS(i).String()
		s.submitted[i] = cfg.provider.Counter("scheduler_submitted_total", qos)
		s.depth[i] = cfg.provider.UpDownCounter("scheduler_lane_depth", qos)
		s.latency[i] = cfg.provider.Histogram("scheduler_dispatch_latency_seconds", qos)
	}

	for i := uint(0); i < cfg.workers; i++ {
		go s.worker()
	}
	return s
}

// Submit implements future.Scheduler.
func (s *Scheduler) Submit(qos future.QoS, fn func()) {
	s.enqueue(qos, fn)
}

// SubmitAfter implements future.Scheduler.
func (s *Scheduler) SubmitAfter(deadline time.Time, qos future.QoS, fn func()) {
	d := time.Until(deadline)
	if d <= 0 {
		s.enqueue(qos, fn)
		return
	}
	time.AfterFunc(d, func() { s.enqueue(qos, fn) })
}

// CurrentQoS implements future.Scheduler. The pool does not propagate a
// worker's current lane into arbitrary callee goroutines, so this always
// reports future.Unspecified; a caller that needs QoS inheritance across
// goroutine boundaries should pass it explicitly instead.
func (s *Scheduler) CurrentQoS() future.QoS { return future.Unspecified }

// NewBarrier implements future.Scheduler.
func (s *Scheduler) NewBarrier() future.Barrier { return &chanBarrier{done: make(chan struct{})} }

func (s *Scheduler) enqueue(qos future.QoS, fn func()) {
	if qos == future.Unspecified {
		qos = future.Default
	}
	i := int(qos)
	queuedAt := time.Now()
	s.submitted[i].Add(1)
	s.depth[i].Add(1)
	s.lanes[i] <- func() {
		s.depth[i].Add(-1)
		s.latency[i].Record(time.Since(queuedAt).Seconds())
		fn()
	}
}

// worker repeatedly picks the highest-priority lane with ready work. The
// non-blocking sweep from UserInteractive down to Background is tried
// first; only once every lane is empty does the worker block on a
// select across all of them (so it still wakes for low-priority work
// when nothing higher-priority is pending).
func (s *Scheduler) worker() {
	cases := make([]func() (func(), bool), lanes)
	for i := lanes - 1; i >= 0; i-- {
		i := i
		cases[i] = func() (func(), bool) {
			select {
			case fn := <-s.lanes[i]:
				return fn, true
			default:
				return nil, false
			}
		}
	}

	for {
		var fn func()
		var ok bool
		for i := lanes - 1; i >= 0 && !ok; i-- {
			fn, ok = cases[i]()
		}
		if ok {
			fn()
			continue
		}
		select {
		case <-s.done:
			return
		case fn := <-s.lanes[future.UserInteractive]:
			fn()
		case fn := <-s.lanes[future.UserInitiated]:
			fn()
		case fn := <-s.lanes[future.Default]:
			fn()
		case fn := <-s.lanes[future.Utility]:
			fn()
		case fn := <-s.lanes[future.Background]:
			fn()
		}
	}
}

// Stop signals every worker goroutine to exit once its current lane
// sweep finds nothing left to run. It is safe to call more than once.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	close(s.done)
}

// chanBarrier mirrors future's own default Barrier; the scheduler
// package provides its own so it never needs to import the default
// goroutine scheduler's unexported type.
type chanBarrier struct {
	done chan struct{}
	once sync.Once
}

func (b *chanBarrier) Wait() { <-b.done }
func (b *chanBarrier) Signal() {
	b.once.Do(func() { close(b.done) })
}
