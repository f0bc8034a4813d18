package future_test

import (
	"errors"
	"testing"
	"time"

	"github.com/glessard/go-deferred/future"
	"github.com/google/go-cmp/cmp"
)

func TestFirstValuePicksTheOnlyValue(t *testing.T) {
	slow, _ := future.Pair[int](nil, future.Unspecified) // never resolved in this test's lifetime
	fast := future.NewValue(1)

	winner := future.FirstValue([]*future.Future[int]{slow, fast}, future.Unspecified, true)
	o := winner.Get()
	if o.Value != 1 {
		t.Errorf("got %d; want 1", o.Value)
	}
}

func TestFirstValueAllErrorsReturnsLast(t *testing.T) {
	err1 := errors.New("first")
	err2 := errors.New("second")
	f1 := future.NewError[int](err1)
	f2, r2 := future.Pair[int](nil, future.Unspecified)

	out := future.FirstValue([]*future.Future[int]{f1, f2}, future.Unspecified, true)
	// Give f1's error time to be observed before f2 reports, so that
	// err2 is the last error observed.
	time.Sleep(20 * time.Millisecond)
	r2.ResolveError(err2)
	o := out.Get()
	if o.Err == nil {
		t.Fatal("expected an error outcome")
	}
	if o.Err != err2 {
		t.Errorf("got error %v; want the last one observed, %v", o.Err, err2)
	}
}

func TestFirstResolved(t *testing.T) {
	fast := future.NewValue("fast")
	slow := future.Delay(future.NewValue("slow"), time.Hour)

	out := future.FirstResolved([]*future.Future[string]{slow, fast}, future.Unspecified, true)
	o := out.Get()
	if o.Value != "fast" {
		t.Errorf("got %q; want %q", o.Value, "fast")
	}
}

func TestFirstValueWithCancelOthersFalseLeavesLosersRunning(t *testing.T) {
	slow, slowResolver := future.Pair[int](nil, future.Unspecified)
	fast := future.NewValue(1)

	winner := future.FirstValue([]*future.Future[int]{slow, fast}, future.Unspecified, false)
	o := winner.Get()
	if o.Value != 1 {
		t.Errorf("got %d; want 1", o.Value)
	}

	if !slowResolver.ResolveValue(2) {
		t.Errorf("losing future was retired despite cancelOthers=false")
	}
	so := slow.Get()
	if so.Value != 2 {
		t.Errorf("losing future got %+v; want its own value to survive", so)
	}
}

func TestCombineAllValues(t *testing.T) {
	futures := []*future.Future[int]{future.NewValue(1), future.NewValue(2), future.NewValue(3)}
	out := future.Combine(futures, future.Unspecified)

	o := out.Get()
	if diff := cmp.Diff([]int{1, 2, 3}, o.Value); diff != "" {
		t.Error("wrong combined values\n" + diff)
	}
}

func TestCombineFailsFast(t *testing.T) {
	boom := errors.New("boom")
	futures := []*future.Future[int]{future.NewValue(1), future.NewError[int](boom)}
	out := future.Combine(futures, future.Unspecified)

	o := out.Get()
	if o.Err != boom {
		t.Errorf("got error %v; want %v", o.Err, boom)
	}
}

func TestReduce(t *testing.T) {
	futures := []*future.Future[int]{future.NewValue(1), future.NewValue(2), future.NewValue(3), future.NewValue(4)}
	sum := future.Reduce(futures, future.Unspecified, 0, func(acc, v int) (int, error) { return acc + v, nil })

	o := sum.Get()
	if o.Value != 10 {
		t.Errorf("got %d; want 10", o.Value)
	}
}

// testAccError carries the accumulator value as it stood when the fold
// function rejected the next input, so a failing reduction can report
// exactly how far it got.
type testAccError struct{ acc int }

func (e testAccError) Error() string { return "reduce rejected input" }

func TestReduceShortCircuitsOnFoldError(t *testing.T) {
	futures := []*future.Future[int]{future.NewValue(1), future.NewValue(2), future.NewValue(0), future.NewValue(4)}
	out := future.Reduce(futures, future.Unspecified, 0, func(acc, v int) (int, error) {
		if v > 0 {
			return acc + v, nil
		}
		return acc, testAccError{acc: acc}
	})

	o := out.Get()
	var rejected testAccError
	if !errors.As(o.Err, &rejected) {
		t.Fatalf("got error %v; want testAccError", o.Err)
	}
	if rejected.acc != 3 {
		t.Errorf("got accumulator %d; want 3", rejected.acc)
	}
}

func TestInParallel(t *testing.T) {
	out := future.InParallel[int](nil, future.Unspecified,
		func() (int, error) { return 1, nil },
		func() (int, error) { return 2, nil },
		func() (int, error) { return 3, nil },
	)

	o := out.Get()
	if len(o.Value) != 3 {
		t.Fatalf("got %d results; want 3", len(o.Value))
	}
}

func TestRetryingSucceedsEventually(t *testing.T) {
	attempts := 0
	out := future.Retrying[int](nil, future.Unspecified, 3, func(int) time.Duration { return time.Millisecond }, func() *future.Future[int] {
		attempts++
		if attempts < 3 {
			return future.NewError[int](errors.New("not yet"))
		}
		return future.NewValue(attempts)
	})

	o := out.Get()
	if o.Value != 3 {
		t.Errorf("got %d; want 3", o.Value)
	}
}

func TestRetryingExhaustsAttempts(t *testing.T) {
	boom := errors.New("always fails")
	out := future.Retrying[int](nil, future.Unspecified, 2, func(int) time.Duration { return time.Millisecond }, func() *future.Future[int] {
		return future.NewError[int](boom)
	})

	o := out.Get()
	if o.Err != boom {
		t.Errorf("got error %v; want %v", o.Err, boom)
	}
}

func TestRetryingRejectsInvalidAttempts(t *testing.T) {
	out := future.Retrying[int](nil, future.Unspecified, 0, nil, func() *future.Future[int] {
		t.Fatal("fn should never be called")
		return nil
	})

	var invalid future.Invalid
	if !errors.As(out.Get().Err, &invalid) {
		t.Fatal("expected future.Invalid")
	}
}
