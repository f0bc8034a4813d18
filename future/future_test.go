package future_test

import (
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/glessard/go-deferred/future"
)

func runGC() { runtime.GC() }

func TestResolveThenGet(t *testing.T) {
	f, r := future.Pair[int](nil, future.Unspecified)
	if !r.ResolveValue(42) {
		t.Fatalf("ResolveValue reported failure on an unresolved future")
	}
	if r.ResolveValue(7) {
		t.Fatalf("second ResolveValue unexpectedly succeeded")
	}

	o := f.Get()
	if !o.IsValue() || o.Value != 42 {
		t.Fatalf("got outcome %+v; want value 42", o)
	}
}

func TestGetBlocksUntilResolved(t *testing.T) {
	f, r := future.Pair[string](nil, future.Unspecified)
	go func() {
		time.Sleep(10 * time.Millisecond)
		r.ResolveValue("done")
	}()

	o := f.Get()
	if o.Value != "done" {
		t.Fatalf("got %q; want %q", o.Value, "done")
	}
}

func TestOnResultAfterResolution(t *testing.T) {
	f := future.NewValue(99)

	done := make(chan future.Outcome[int], 1)
	f.OnResult(future.Unspecified, func(o future.Outcome[int]) {
		done <- o
	})

	select {
	case o := <-done:
		if o.Value != 99 {
			t.Fatalf("got %d; want 99", o.Value)
		}
	case <-time.After(time.Second):
		t.Fatal("handler on already-resolved future never fired")
	}
}

func TestMultipleWaitersAllFire(t *testing.T) {
	f, r := future.Pair[int](nil, future.Unspecified)
	const n = 20
	results := make(chan int, n)
	for i := 0; i < n; i++ {
		f.OnValue(future.Unspecified, func(v int) { results <- v })
	}
	r.ResolveValue(1)

	for i := 0; i < n; i++ {
		select {
		case v := <-results:
			if v != 1 {
				t.Fatalf("got %d; want 1", v)
			}
		case <-time.After(time.Second):
			t.Fatalf("only %d of %d waiters fired", i, n)
		}
	}
}

func TestCancel(t *testing.T) {
	f, _ := future.Pair[int](nil, future.Unspecified)
	if !f.Cancel("test reason") {
		t.Fatalf("Cancel reported failure on a live future")
	}
	o := f.Get()
	var canceled future.Canceled
	if !errors.As(o.Err, &canceled) {
		t.Fatalf("got error %v; want future.Canceled", o.Err)
	}
	if canceled.Reason != "test reason" {
		t.Errorf("got reason %q; want %q", canceled.Reason, "test reason")
	}
	if f.Cancel("again") {
		t.Errorf("Cancel on an already-resolved future unexpectedly succeeded")
	}
}

func TestAbandonedResolverResolvesFuture(t *testing.T) {
	f := newAbandonedFuture(t)

	select {
	case <-waitResolved(f):
	case <-time.After(5 * time.Second):
		t.Fatal("future was never resolved after its resolver was dropped")
	}

	o, ok := f.Peek()
	if !ok {
		t.Fatal("future still unresolved")
	}
	var abandoned future.Abandoned
	if !errors.As(o.Err, &abandoned) {
		t.Fatalf("got error %v; want future.Abandoned", o.Err)
	}
}

// newAbandonedFuture returns a future whose Resolver has already gone out
// of scope unresolved, leaving it for a GC (requested by waitResolved) to
// reclaim.
func newAbandonedFuture(t *testing.T) *future.Future[int] {
	t.Helper()
	f, _ := future.Pair[int](nil, future.Unspecified)
	return f
}

// waitResolved polls Peek from a background goroutine, periodically
// requesting a GC so the Resolver's cleanup has a chance to run.
// GC-timing-dependent tests are inherently a little loose.
func waitResolved[V any](f *future.Future[V]) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, ok := f.Peek(); ok {
				return
			}
			runGC()
			time.Sleep(10 * time.Millisecond)
		}
	}()
	return done
}
