package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"listfetch/internal/record"
)

func newHTTP(t *testing.T, url string, mut func(*Config)) Adapter {
	t.Helper()
	a, err := NewAdapter("http")
	require.NoError(t, err)
	cfg := Config{Driver: "http", URL: url}
	if mut != nil {
		mut(&cfg)
	}
	ApplyDefaults(&cfg)
	require.NoError(t, a.Configure(cfg))
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestHTTPDriver_FetchDecodesPayload(t *testing.T) {
	var gotAccept, gotUA, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		gotUA = r.Header.Get("User-Agent")
		gotMethod = r.Method
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"listId":2,"name":"Item 1"},{"id":2,"listId":1,"name":null}]`))
	}))
	defer srv.Close()

	recs, err := newHTTP(t, srv.URL, nil).Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, []record.Record{
		{ID: 1, GroupID: 2, Name: record.Present("Item 1")},
		{ID: 2, GroupID: 1, Name: record.Absent()},
	}, recs)
	require.Equal(t, http.MethodGet, gotMethod)
	require.Equal(t, "application/json", gotAccept)
	require.Equal(t, DefaultUserAgent, gotUA)
}

func TestHTTPDriver_StatusIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newHTTP(t, srv.URL, nil).Fetch(context.Background())
	var te *TransportError
	require.ErrorAs(t, err, &te)
	require.Equal(t, http.StatusServiceUnavailable, te.Status)
}

func TestHTTPDriver_MalformedBodyIsDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"a list"}`))
	}))
	defer srv.Close()

	_, err := newHTTP(t, srv.URL, nil).Fetch(context.Background())
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	var te *TransportError
	require.False(t, errors.As(err, &te))
}

func TestHTTPDriver_BodyLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"listId":1,"name":"a"}]`))
	}))
	defer srv.Close()

	_, err := newHTTP(t, srv.URL, func(c *Config) { c.MaxBodyBytes = 8 }).Fetch(context.Background())
	var te *TransportError
	require.ErrorAs(t, err, &te)
}

func TestHTTPDriver_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newHTTP(t, url, func(c *Config) { c.Timeout = time.Second }).Fetch(context.Background())
	var te *TransportError
	require.ErrorAs(t, err, &te)
	require.Zero(t, te.Status)
}

func TestHTTPDriver_ContextCancelled(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := newHTTP(t, srv.URL, nil).Fetch(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestHTTPDriver_ConfigureRejectsBadURL(t *testing.T) {
	a, err := NewAdapter("http")
	require.NoError(t, err)
	require.Error(t, a.Configure(Config{URL: "ftp://example.com/list.json"}))
	require.Error(t, a.Configure(Config{URL: "://bad"}))
}
