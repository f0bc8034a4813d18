package future

// Canceled is the error stored in a future's [Outcome] when it (or an
// ancestor it short-circuits from) is resolved via [Resolver.Cancel] or
// [Future.Cancel].
type Canceled struct {
	// Reason is the human-readable reason given to Cancel. It carries no
	// further structure; callers needing richer context should wrap it
	// themselves before passing it to Cancel.
	Reason string
}

func (e Canceled) Error() string {
	if e.Reason == "" {
		return "canceled"
	}
	return "canceled: " + e.Reason
}

// TimedOut is the error stored in a future's [Outcome] when [Timeout]
// fires before the upstream future resolves.
type TimedOut struct {
	Reason string
}

func (e TimedOut) Error() string {
	if e.Reason == "" {
		return "timed out"
	}
	return "timed out: " + e.Reason
}

// NotSelected is the error given to the non-winning inputs of a selection
// combinator ([FirstValue], [FirstResolved] and their 2-arg typed forms)
// once a winner has been chosen.
type NotSelected struct{}

func (NotSelected) Error() string { return "not selected" }

// Invalid is the error stored by [Validate] when its predicate rejects a
// value, and by aggregation combinators ([Retrying]) when called with
// usage parameters that can never produce a result.
type Invalid struct {
	Message string
}

func (e Invalid) Error() string {
	if e.Message == "" {
		return "invalid"
	}
	return "invalid: " + e.Message
}

// Abandoned is the error a future is resolved with when the [Resolver]
// responsible for it is garbage-collected without ever having resolved
// it. This is distinct from [Canceled]: a caller invoking Cancel always
// knows it did so, whereas Abandoned surfaces a bug in the code that was
// supposed to drive the resolver (it dropped its last reference without
// reporting a result).
type Abandoned struct{}

func (Abandoned) Error() string {
	return "resolver was dropped before the future was resolved"
}
