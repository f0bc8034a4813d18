package future

import (
	"fmt"
	"weak"
)

// ID is an opaque, comparable identifier for a [Future], usable as a map
// key or log field without keeping the future itself reachable. Two IDs
// compare equal iff they were obtained from the same future. A weak
// pointer gives pointer-identity comparison without extending the
// future's lifetime.
type ID struct {
	ptr any // weak.Pointer[Future[V]], boxed to erase V
}

func newID[V any](f *Future[V]) ID {
	return ID{ptr: weak.Make(f)}
}

// Equal reports whether other identifies the same future as id.
func (id ID) Equal(other ID) bool {
	return id == other
}

// String returns a debug-oriented representation. Do not use it as a
// unique key; ID itself is already comparable and serves that purpose.
func (id ID) String() string {
	return fmt.Sprintf("future.ID(%v)", id.ptr)
}
