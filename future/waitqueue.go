package future

import "sync/atomic"

// waiter is one registered handler plus the intrusive next-pointer that
// makes a chain of waiters a singly-linked list. It is allocated by
// [Future.OnResult] and either handed to the drainer (if it wins the
// race against resolution) or discarded immediately by its own allocator
// (if resolution already won) — whichever loses the race frees the node,
// per this package's memory-reclamation contract: because every node is
// claimed by exactly one atomic swap of the queue head, and an
// enqueuer that lost the CAS never retains its node, plain allocation
// with atomic publication is sufficient and no hazard-pointer or epoch
// scheme is needed.
type waiter[V any] struct {
	qos     QoS
	handler func(Outcome[V])
	next    *waiter[V]
}

// waitQueue is an intrusive Treiber stack: push is a single CAS loop,
// and drain is a single atomic swap-to-nil that the caller then reverses
// so that handlers fire in registration order. Resolution drains the
// queue once; a push that lands after that drain is claimed and fired by
// the pushing [Future.OnResult] itself, which drains again.
type waitQueue[V any] struct {
	head atomic.Pointer[waiter[V]]
}

// drain atomically claims the entire list and resets head to nil. The
// resolve path calls it once, and [Future.OnResult] calls it again when
// its own push lands after resolution; the single swap hands each node
// to exactly one caller, so concurrent drains never share a node.
func (q *waitQueue[V]) drain() *waiter[V] {
	return q.head.Swap(nil)
}

// reverseWaiters turns the LIFO list produced by push/drain into
// registration order (FIFO), so that handlers registered earlier fire
// before handlers registered later.
func reverseWaiters[V any](head *waiter[V]) *waiter[V] {
	var prev *waiter[V]
	for head != nil {
		next := head.next
		head.next = prev
		prev = head
		head = next
	}
	return prev
}
