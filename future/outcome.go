package future

// Outcome is the tagged union a [Future] eventually produces: either a
// Value or an Err, never both, never neither. The zero Outcome is a zero
// Value (Err == nil); construct one explicitly with [ValueOutcome] or
// [ErrorOutcome] to avoid ambiguity when V's zero value is meaningful.
//
// Outcome is a pure value type: none of its methods mutate the receiver,
// and none of them touch a [Future] or [Scheduler].
//
// A natural generalization would parameterize Outcome over both a value
// type and a domain error type, Outcome[V, E]. Go's generics cannot
// assign a concrete error struct such as [Canceled] to an arbitrary type
// parameter E bound only by the error interface, so this package fixes
// the error channel to Go's built-in error interface instead of carrying
// a second type parameter (see DESIGN.md).
type Outcome[V any] struct {
	Value V
	Err   error
}

// ValueOutcome constructs an Outcome holding a value.
func ValueOutcome[V any](v V) Outcome[V] {
	return Outcome[V]{Value: v}
}

// ErrorOutcome constructs an Outcome holding an error. Passing a nil err
// produces a value-outcome with V's zero value, since IsError is defined
// as Err != nil; callers that mean to report success should use
// [ValueOutcome] instead.
func ErrorOutcome[V any](err error) Outcome[V] {
	return Outcome[V]{Err: err}
}

// IsValue reports whether the outcome holds a value.
func (o Outcome[V]) IsValue() bool { return o.Err == nil }

// IsError reports whether the outcome holds an error.
func (o Outcome[V]) IsError() bool { return o.Err != nil }

// MapOutcome applies f to a Value outcome and passes an Err outcome
// through unchanged.
func MapOutcome[V, V2 any](o Outcome[V], f func(V) V2) Outcome[V2] {
	if o.IsError() {
		return ErrorOutcome[V2](o.Err)
	}
	return ValueOutcome(f(o.Value))
}

// TryMapOutcome applies f to a Value outcome, adopting its returned error
// if any; an Err outcome passes through unchanged.
func TryMapOutcome[V, V2 any](o Outcome[V], f func(V) (V2, error)) Outcome[V2] {
	if o.IsError() {
		return ErrorOutcome[V2](o.Err)
	}
	v2, err := f(o.Value)
	if err != nil {
		return ErrorOutcome[V2](err)
	}
	return ValueOutcome(v2)
}

// FlatMapOutcome applies f to a Value outcome and adopts the returned
// outcome wholesale; an Err outcome passes through unchanged.
func FlatMapOutcome[V, V2 any](o Outcome[V], f func(V) Outcome[V2]) Outcome[V2] {
	if o.IsError() {
		return ErrorOutcome[V2](o.Err)
	}
	return f(o.Value)
}

// RecoverOutcome applies f to an Err outcome and adopts the returned
// outcome wholesale; a Value outcome passes through unchanged.
func RecoverOutcome[V any](o Outcome[V], f func(error) Outcome[V]) Outcome[V] {
	if o.IsValue() {
		return o
	}
	return f(o.Err)
}

// MapErrorOutcome applies f to an Err outcome's error; a Value outcome
// passes through unchanged.
func MapErrorOutcome[V any](o Outcome[V], f func(error) error) Outcome[V] {
	if o.IsValue() {
		return o
	}
	return ErrorOutcome[V](f(o.Err))
}

// ApplyOutcome applies a deferred transform to an operand: if either
// side is an error, the operand's error takes precedence over the
// transform's.
func ApplyOutcome[V, V2 any](operand Outcome[V], transform Outcome[func(V) V2]) Outcome[V2] {
	if operand.IsError() {
		return ErrorOutcome[V2](operand.Err)
	}
	if transform.IsError() {
		return ErrorOutcome[V2](transform.Err)
	}
	return ValueOutcome(transform.Value(operand.Value))
}
