// Package netfuture adapts net/http requests into future.Future values:
// a data task that decodes a response body, a download task that
// streams a response to a local file, and an upload task that streams a
// local file as a request body. The download and upload tasks report
// progress as the transfer proceeds, and all three start the underlying
// HTTP round trip lazily, on the first observer, rather than at
// construction time.
package netfuture
