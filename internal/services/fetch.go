package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/desertthunder/movievault/internal/shared"
)

// FetchWithTimeout issues a single GET to rawURL.
//
// When the response does not complete within timeout the request is aborted and
// the returned error wraps [shared.ErrTimeout]. The deadline runs until the body is
// closed, so a body that stalls mid-read fails with [shared.ErrTimeout] as well.
func FetchWithTimeout(ctx context.Context, client *http.Client, rawURL string, timeout time.Duration) (*http.Response, error) {
	if client == nil {
		client = http.DefaultClient
	}

	reqCtx, cancel := context.WithCancelCause(ctx)
	timer := time.AfterFunc(timeout, func() { cancel(shared.ErrTimeout) })

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		timer.Stop()
		cancel(nil)
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		timer.Stop()
		cause := context.Cause(reqCtx)
		cancel(nil)
		if errors.Is(cause, shared.ErrTimeout) || isNetTimeout(err) {
			return nil, fmt.Errorf("%w: no response within %s", shared.ErrTimeout, timeout)
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}

	resp.Body = &deadlineBody{
		ReadCloser: resp.Body,
		ctx:        reqCtx,
		timeout:    timeout,
		release: func() {
			timer.Stop()
			cancel(nil)
		},
	}
	return resp, nil
}

func isNetTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// deadlineBody reports reads cut off by the deadline as timeouts and releases
// the request context once the body is closed.
type deadlineBody struct {
	io.ReadCloser
	ctx     context.Context
	timeout time.Duration
	release func()
}

func (b *deadlineBody) Read(p []byte) (int, error) {
	n, err := b.ReadCloser.Read(p)
	if err != nil && err != io.EOF && errors.Is(context.Cause(b.ctx), shared.ErrTimeout) {
		return n, fmt.Errorf("%w: response not complete within %s", shared.ErrTimeout, b.timeout)
	}
	return n, err
}

func (b *deadlineBody) Close() error {
	err := b.ReadCloser.Close()
	b.release()
	return err
}
