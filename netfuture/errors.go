package netfuture

import "fmt"

// ServerStatus is the error reported when an HTTP response's status
// line indicates failure (4xx or 5xx); adapters in this package never
// treat such a response as a value.
type ServerStatus struct {
	Code int
}

func (e ServerStatus) Error() string {
	return fmt.Sprintf("server responded with status %d", e.Code)
}

// InvalidState is the error reported when a task is asked to run with
// inputs that can never succeed — a nil request, or an upload source
// that turns out to be a directory rather than a file.
type InvalidState struct {
	Message string
}

func (e InvalidState) Error() string { return "invalid state: " + e.Message }

// InterruptedDownload is the error reported when a download's future is
// canceled, directly or through a downstream combinator, while the
// transfer is still in flight. ResumeBytes is how much of the body had
// already been written to the destination file, usable as the offset
// for a follow-up request with a Range header.
type InterruptedDownload struct {
	ResumeBytes int64
}

func (e InterruptedDownload) Error() string {
	return fmt.Sprintf("download interrupted after %d bytes", e.ResumeBytes)
}
