package future_test

import (
	"errors"
	"strconv"
	"testing"

	"github.com/glessard/go-deferred/future"
)

func TestMapOutcome(t *testing.T) {
	v := future.MapOutcome(future.ValueOutcome(3), func(n int) string {
		return strconv.Itoa(n * 2)
	})
	if v.Value != "6" {
		t.Errorf("got %q; want %q", v.Value, "6")
	}

	errIn := errors.New("boom")
	e := future.MapOutcome(future.ErrorOutcome[int](errIn), func(n int) string {
		t.Fatal("transform should not run on an error outcome")
		return ""
	})
	if e.Err != errIn {
		t.Errorf("got error %v; want %v", e.Err, errIn)
	}
}

func TestApplyOutcomePrecedence(t *testing.T) {
	operandErr := errors.New("operand failed")
	transformErr := errors.New("transform failed")

	out := future.ApplyOutcome(
		future.ErrorOutcome[int](operandErr),
		future.ErrorOutcome[func(int) int](transformErr),
	)
	if out.Err != operandErr {
		t.Errorf("got error %v; want operand's error %v", out.Err, operandErr)
	}
}

func TestFlatMapOutcome(t *testing.T) {
	out := future.FlatMapOutcome(future.ValueOutcome(4), func(n int) future.Outcome[int] {
		return future.ValueOutcome(n + 1)
	})
	if out.Value != 5 {
		t.Errorf("got %d; want 5", out.Value)
	}
}
