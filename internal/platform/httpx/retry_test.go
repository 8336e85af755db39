package httpx

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy() Policy {
	return Policy{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: 10 * time.Millisecond}
}

// scripted replies with the given statuses in order, then 200 "ok".
func scripted(t *testing.T, statuses ...int) (*httptest.Server, *int32) {
	t.Helper()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if int(n) <= len(statuses) {
			w.WriteHeader(statuses[n-1])
			return
		}
		_, _ = io.WriteString(w, "ok")
	}))
	t.Cleanup(srv.Close)

	return srv, &calls
}

func get(t *testing.T, c *Client, url string) (*http.Response, error) {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	require.NoError(t, err)
	return c.Do(req)
}

func TestPolicyBackoffDoubles(t *testing.T) {
	p := DefaultPolicy()

	assert.Equal(t, 3, p.MaxRetries)
	assert.Equal(t, time.Second, p.Backoff(1))
	assert.Equal(t, 2*time.Second, p.Backoff(2))
	assert.Equal(t, 4*time.Second, p.Backoff(3))

	capped := Policy{BaseDelay: time.Second, MaxDelay: 3 * time.Second}
	assert.Equal(t, 3*time.Second, capped.Backoff(3))
	assert.Equal(t, 3*time.Second, capped.Backoff(10))
}

func TestNewClientClampsNegativeRetries(t *testing.T) {
	c := NewClient(nil, Policy{MaxRetries: -2, BaseDelay: time.Second})

	assert.Equal(t, 0, c.Policy().MaxRetries)
	assert.Equal(t, time.Second, c.Policy().BaseDelay)
}

func TestDoRetriesTransientStatusThenSucceeds(t *testing.T) {
	srv, calls := scripted(t, http.StatusServiceUnavailable)
	c := NewClient(srv.Client(), fastPolicy())

	resp, err := get(t, c, srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
	assert.EqualValues(t, 2, atomic.LoadInt32(calls))
}

func TestDoRetriesEveryTransientCode(t *testing.T) {
	for _, code := range []int{429, 500, 502, 503, 504} {
		srv, calls := scripted(t, code, code)
		c := NewClient(srv.Client(), fastPolicy())

		resp, err := get(t, c, srv.URL)
		require.NoError(t, err, "code %d", code)
		resp.Body.Close()
		assert.EqualValues(t, 3, atomic.LoadInt32(calls), "code %d", code)
	}
}

func TestDoStopsAfterMaxRetries(t *testing.T) {
	srv, calls := scripted(t, 503, 503, 503, 503, 503)
	c := NewClient(srv.Client(), fastPolicy())

	_, err := get(t, c, srv.URL)
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusServiceUnavailable, se.Code)
	assert.EqualValues(t, 4, atomic.LoadInt32(calls))
}

func TestDoDoesNotRetryClientErrors(t *testing.T) {
	srv, calls := scripted(t, http.StatusNotFound)
	c := NewClient(srv.Client(), fastPolicy())

	_, err := get(t, c, srv.URL)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.Code)
	assert.EqualValues(t, 1, atomic.LoadInt32(calls))
}

func TestDoDoesNotRetryPost(t *testing.T) {
	srv, calls := scripted(t, http.StatusServiceUnavailable)
	c := NewClient(srv.Client(), fastPolicy())

	req, err := http.NewRequest(http.MethodPost, srv.URL, bytes.NewReader([]byte(`{}`)))
	require.NoError(t, err)

	_, err = c.Do(req)
	require.Error(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(calls))
}

func TestDoReplaysBodyForIdempotentRetry(t *testing.T) {
	var calls int32
	var bodies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(b))
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), fastPolicy())
	req, err := http.NewRequest(http.MethodPut, srv.URL, bytes.NewReader([]byte("payload")))
	require.NoError(t, err)

	resp, err := c.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, []string{"payload", "payload"}, bodies)
}

func TestDoHonoursContextDuringBackoff(t *testing.T) {
	srv, calls := scripted(t, 503, 503, 503, 503)
	c := NewClient(srv.Client(), Policy{MaxRetries: 3, BaseDelay: time.Hour, MaxDelay: time.Hour})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	_, err = c.Do(req)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.EqualValues(t, 1, atomic.LoadInt32(calls))
}

func TestStatusErrorRedactsQuery(t *testing.T) {
	srv, _ := scripted(t, http.StatusForbidden)
	c := NewClient(srv.Client(), fastPolicy())

	_, err := get(t, c, srv.URL+"/directions/json?key=secret")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "secret")
}
