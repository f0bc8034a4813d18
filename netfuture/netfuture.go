package netfuture

import (
	"context"
	"io"
	"net/http"
	"os"

	"github.com/glessard/go-deferred/future"
)

// Progress reports how much of a download or upload task's body has
// moved so far. For a download, Total is -1 when the server did not
// report a Content-Length; for an upload, Total is the source file's
// size.
type Progress struct {
	Done  int64
	Total int64
}

// DataTask performs an HTTP request and resolves with the response
// body's full contents, decoded with decode. The request does not begin
// until the returned future's first observer registers (see
// [future.NewLazyTask]); canceling the future, directly or through a
// downstream combinator, cancels the in-flight request's context. A
// response with a 4xx or 5xx status resolves with [ServerStatus] rather
// than being handed to decode.
func DataTask[V any](client *http.Client, req *http.Request, scheduler future.Scheduler, qos future.QoS, decode func(io.Reader, *http.Response) (V, error)) *future.Future[V] {
	if req == nil {
		return future.NewError[V](InvalidState{Message: "nil request"})
	}
	return future.NewLazyTask[V](scheduler, qos, func(r future.Resolver[V]) future.TaskHandle {
		ctx, cancel := context.WithCancel(req.Context())
		go func() {
			resp, err := client.Do(req.WithContext(ctx))
			if err != nil {
				r.ResolveError(translateErr(ctx, err))
				return
			}
			defer resp.Body.Close()
			if resp.StatusCode >= 400 {
				r.ResolveError(ServerStatus{Code: resp.StatusCode})
				return
			}
			v, err := decode(resp.Body, resp)
			if err != nil {
				r.ResolveError(err)
				return
			}
			r.ResolveValue(v)
		}()
		return future.TaskHandleFunc(cancel)
	})
}

// DownloadTask performs an HTTP request and streams the response body
// into destPath, resolving with the number of bytes written. onProgress,
// if non-nil, is called from an arbitrary goroutine as bytes are copied;
// it must not block. A response with a 4xx or 5xx status resolves with
// [ServerStatus] before anything is written. Canceling the returned
// future while the transfer is in flight resolves it with
// [InterruptedDownload], carrying the byte count already written so a
// caller can resume with a Range request.
func DownloadTask(client *http.Client, req *http.Request, destPath string, scheduler future.Scheduler, qos future.QoS, onProgress func(Progress)) *future.Future[int64] {
	if req == nil {
		return future.NewError[int64](InvalidState{Message: "nil request"})
	}
	return future.NewLazyTask[int64](scheduler, qos, func(r future.Resolver[int64]) future.TaskHandle {
		ctx, cancel := context.WithCancel(req.Context())
		go func() {
			resp, err := client.Do(req.WithContext(ctx))
			if err != nil {
				r.ResolveError(translateErr(ctx, err))
				return
			}
			defer resp.Body.Close()
			if resp.StatusCode >= 400 {
				r.ResolveError(ServerStatus{Code: resp.StatusCode})
				return
			}

			out, err := os.Create(destPath)
			if err != nil {
				r.ResolveError(err)
				return
			}
			defer out.Close()

			total := resp.ContentLength
			pr := &progressReader{r: resp.Body, total: total, onProgress: onProgress}
			n, err := io.Copy(out, pr)
			if err != nil {
				if ctx.Err() != nil {
					r.ResolveError(InterruptedDownload{ResumeBytes: pr.done})
					return
				}
				r.ResolveError(err)
				return
			}
			r.ResolveValue(n)
		}()
		return future.TaskHandleFunc(cancel)
	})
}

// UploadTask streams srcPath as the body of an HTTP request and resolves
// with the server's response status code. onProgress, if non-nil, is
// called as bytes are sent; it must not block. A source path that turns
// out to be a directory resolves with [InvalidState]; a response with a
// 4xx or 5xx status resolves with [ServerStatus] instead of that status
// code being treated as a successful value.
func UploadTask(client *http.Client, method, url, srcPath string, scheduler future.Scheduler, qos future.QoS, onProgress func(Progress)) *future.Future[int] {
	return future.NewLazyTask[int](scheduler, qos, func(r future.Resolver[int]) future.TaskHandle {
		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			in, err := os.Open(srcPath)
			if err != nil {
				r.ResolveError(err)
				return
			}
			defer in.Close()

			fi, err := in.Stat()
			if err != nil {
				r.ResolveError(err)
				return
			}
			if fi.IsDir() {
				r.ResolveError(InvalidState{Message: "upload source is a directory: " + srcPath})
				return
			}
			total := fi.Size()

			req, err := http.NewRequestWithContext(ctx, method, url, &progressReader{r: in, total: total, onProgress: onProgress})
			if err != nil {
				r.ResolveError(err)
				return
			}
			req.ContentLength = total

			resp, err := client.Do(req)
			if err != nil {
				r.ResolveError(translateErr(ctx, err))
				return
			}
			defer resp.Body.Close()
			if resp.StatusCode >= 400 {
				r.ResolveError(ServerStatus{Code: resp.StatusCode})
				return
			}
			r.ResolveValue(resp.StatusCode)
		}()
		return future.TaskHandleFunc(cancel)
	})
}

// progressReader wraps an io.Reader, reporting cumulative bytes read to
// onProgress after every successful Read.
type progressReader struct {
	r          io.Reader
	total      int64
	done       int64
	onProgress func(Progress)
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 {
		p.done += int64(n)
		if p.onProgress != nil {
			p.onProgress(Progress{Done: p.done, Total: p.total})
		}
	}
	return n, err
}

// translateErr reports future.Canceled when ctx was the reason a request
// failed, so that canceling a netfuture task surfaces the same error
// type produced by a plain future.Cancel call.
func translateErr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return future.Canceled{Reason: ctx.Err().Error()}
	}
	return err
}
