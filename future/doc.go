// Package future provides a single-assignment asynchronous value
// container, [Future], and the combinator algebra used to compose
// computations whose results are not yet available.
//
// A [Future] is written at most once, by whichever [Resolver] call wins a
// lock-free state race, and every handler registered on it — whether
// before or after that write — fires exactly once on a caller-supplied
// [Scheduler]. Combinators ([Map], [FlatMap], [Recover], [Timeout] and
// friends) build new futures by registering a handler on an upstream one;
// none of them ever run user code inline from inside a resolving call,
// so resolution itself stays wait-free regardless of how many observers
// are attached.
//
// This package does not implement an execution substrate: callers supply
// a [Scheduler] (see the sibling "scheduler" package for a concrete,
// QoS-aware one) and, for cancellation propagation through external
// resources such as network requests, a [TaskHandle] (see the sibling
// "netfuture" package). There is no logging, no configuration, and no
// persistence here — this is a concurrency primitive, not a service.
package future
