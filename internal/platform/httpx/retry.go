package httpx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// StatusError is returned for responses with a status code >= 400, either
// immediately or after transient retries are exhausted.
type StatusError struct {
	Code   int
	Method string
	URL    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.Code)
}

// Policy controls how transient failures are retried.
type Policy struct {
	// Additional attempts after the first one.
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// DefaultPolicy retries three times, waiting 1s, 2s and 4s.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries: 3,
		BaseDelay:  time.Second,
		MaxDelay:   30 * time.Second,
	}
}

// Backoff returns the wait before retry number n (1-based).
func (p Policy) Backoff(n int) time.Duration {
	if n < 1 {
		n = 1
	}

	d := p.BaseDelay
	for i := 1; i < n; i++ {
		d *= 2
		if p.MaxDelay > 0 && d >= p.MaxDelay {
			return p.MaxDelay
		}
	}

	if p.MaxDelay > 0 && d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

// Client sends requests through a shared *http.Client and retries idempotent
// requests that come back with a transient status. It keeps no per-request
// state and is safe for concurrent use.
type Client struct {
	hc     *http.Client
	policy Policy
}

func NewClient(hc *http.Client, policy Policy) *Client {
	if hc == nil {
		hc = &http.Client{}
	}
	if policy.MaxRetries < 0 {
		policy.MaxRetries = 0
	}

	return &Client{hc: hc, policy: policy}
}

func (c *Client) Policy() Policy { return c.policy }

// Do sends req and returns a response with a status below 400. The caller
// closes the body. Network errors and timeouts are returned as-is and never
// retried.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	retryable := isIdempotent(req.Method)

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		r := req
		if attempt > 0 {
			var err error
			r, err = rewind(req)
			if err != nil {
				return nil, fmt.Errorf("rewind request body: %w", err)
			}
		}

		resp, err := c.hc.Do(r)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode < 400 {
			return resp, nil
		}

		statusErr := &StatusError{
			Code:   resp.StatusCode,
			Method: req.Method,
			URL:    redact(req),
		}

		if !retryable || !isTransient(resp.StatusCode) || attempt >= c.policy.MaxRetries {
			discard(resp)
			return nil, statusErr
		}

		wait := c.policy.Backoff(attempt + 1)
		if ra := retryAfter(resp); ra > wait {
			wait = ra
			if c.policy.MaxDelay > 0 && wait > c.policy.MaxDelay {
				wait = c.policy.MaxDelay
			}
		}
		discard(resp)

		if err := sleep(ctx, wait); err != nil {
			return nil, err
		}
	}
}

func isTransient(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

func isIdempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions,
		http.MethodPut, http.MethodDelete, http.MethodTrace:
		return true
	}
	return false
}

func rewind(req *http.Request) (*http.Request, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return req, nil
	}
	if req.GetBody == nil {
		return nil, fmt.Errorf("%s %s: body cannot be replayed", req.Method, redact(req))
	}

	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}
	r := req.Clone(req.Context())
	r.Body = body
	return r, nil
}

// retryAfter parses a Retry-After header given in seconds.
func retryAfter(resp *http.Response) time.Duration {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// discard drains a bounded amount so the connection can be reused.
func discard(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	resp.Body.Close()
}

// redact drops the query string, which may carry API keys.
func redact(req *http.Request) string {
	u := *req.URL
	u.RawQuery = ""
	return u.String()
}
