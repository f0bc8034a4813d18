package netfuture_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/glessard/go-deferred/future"
	"github.com/glessard/go-deferred/netfuture"
)

func TestDataTaskDecodesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "hello")
	}))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	if err != nil {
		t.Fatal(err)
	}

	f := netfuture.DataTask[string](http.DefaultClient, req, nil, future.Unspecified, func(body io.Reader, _ *http.Response) (string, error) {
		b, err := io.ReadAll(body)
		return string(b), err
	})

	o := f.Get()
	if o.Err != nil {
		t.Fatalf("unexpected error: %v", o.Err)
	}
	if o.Value != "hello" {
		t.Errorf("got %q; want %q", o.Value, "hello")
	}
}

func TestDownloadTaskWritesFile(t *testing.T) {
	const body = "file contents"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, body)
	}))
	defer srv.Close()

	dir := t.TempDir()
	dest := dir + "/out.bin"

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	if err != nil {
		t.Fatal(err)
	}

	var lastProgress netfuture.Progress
	f := netfuture.DownloadTask(http.DefaultClient, req, dest, nil, future.Unspecified, func(p netfuture.Progress) {
		lastProgress = p
	})

	o := f.Get()
	if o.Err != nil {
		t.Fatalf("unexpected error: %v", o.Err)
	}
	if o.Value != int64(len(body)) {
		t.Errorf("got %d bytes written; want %d", o.Value, len(body))
	}
	if lastProgress.Done != int64(len(body)) {
		t.Errorf("got final progress %+v; want Done=%d", lastProgress, len(body))
	}

	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != body {
		t.Errorf("got file contents %q; want %q", got, body)
	}
}

func TestDataTaskIsLazy(t *testing.T) {
	called := make(chan struct{}, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called <- struct{}{}
	}))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	if err != nil {
		t.Fatal(err)
	}

	f := netfuture.DataTask[[]byte](http.DefaultClient, req, nil, future.Unspecified, func(body io.Reader, _ *http.Response) ([]byte, error) {
		return io.ReadAll(body)
	})

	select {
	case <-called:
		t.Fatal("request fired before any observer registered")
	default:
	}

	f.Get()
	select {
	case <-called:
	default:
		t.Fatal("request never fired after Get")
	}
}

func TestDataTaskServerErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, "boom")
	}))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	if err != nil {
		t.Fatal(err)
	}

	f := netfuture.DataTask[string](http.DefaultClient, req, nil, future.Unspecified, func(body io.Reader, _ *http.Response) (string, error) {
		t.Fatal("decode should not run on an error status")
		return "", nil
	})

	o := f.Get()
	var status netfuture.ServerStatus
	if !errors.As(o.Err, &status) {
		t.Fatalf("got error %v; want netfuture.ServerStatus", o.Err)
	}
	if status.Code != http.StatusInternalServerError {
		t.Errorf("got status %d; want %d", status.Code, http.StatusInternalServerError)
	}
}

func TestDataTaskNilRequestIsInvalidState(t *testing.T) {
	f := netfuture.DataTask[string](http.DefaultClient, nil, nil, future.Unspecified, func(io.Reader, *http.Response) (string, error) {
		t.Fatal("decode should not run for a nil request")
		return "", nil
	})

	o := f.Get()
	var invalid netfuture.InvalidState
	if !errors.As(o.Err, &invalid) {
		t.Fatalf("got error %v; want netfuture.InvalidState", o.Err)
	}
}

func TestUploadTaskDirectorySourceIsInvalidState(t *testing.T) {
	dir := t.TempDir()
	f := netfuture.UploadTask(http.DefaultClient, http.MethodPost, "http://example.invalid/upload", dir, nil, future.Unspecified, nil)

	o := f.Get()
	var invalid netfuture.InvalidState
	if !errors.As(o.Err, &invalid) {
		t.Fatalf("got error %v; want netfuture.InvalidState", o.Err)
	}
}

func TestUploadTaskServerErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	src := t.TempDir() + "/payload.bin"
	if err := os.WriteFile(src, []byte("payload"), 0o644); err != nil {
		t.Fatal(err)
	}

	f := netfuture.UploadTask(http.DefaultClient, http.MethodPost, srv.URL, src, nil, future.Unspecified, nil)

	o := f.Get()
	var status netfuture.ServerStatus
	if !errors.As(o.Err, &status) {
		t.Fatalf("got error %v; want netfuture.ServerStatus", o.Err)
	}
	if status.Code != http.StatusBadRequest {
		t.Errorf("got status %d; want %d", status.Code, http.StatusBadRequest)
	}
}

func TestDownloadTaskInterruptedByCancelReportsResumeBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("first-chunk-"))
		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte("second-chunk"))
	}))
	defer srv.Close()

	dest := t.TempDir() + "/partial.bin"
	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	if err != nil {
		t.Fatal(err)
	}

	f := netfuture.DownloadTask(http.DefaultClient, req, dest, nil, future.Unspecified, nil)

	resultCh := make(chan future.Outcome[int64], 1)
	f.OnResult(future.Unspecified, func(o future.Outcome[int64]) { resultCh <- o })

	time.Sleep(50 * time.Millisecond)
	f.Cancel("stopping early")

	select {
	case o := <-resultCh:
		var interrupted netfuture.InterruptedDownload
		if !errors.As(o.Err, &interrupted) {
			t.Fatalf("got error %v; want netfuture.InterruptedDownload", o.Err)
		}
		if interrupted.ResumeBytes == 0 {
			t.Errorf("got ResumeBytes 0; want some bytes written before the cancel")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("download future never resolved after Cancel")
	}
}
