package geolocation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestLocator(t *testing.T, url string) *HTTPLocator {
	t.Helper()
	l, err := NewHTTPLocator(url)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l.backoff = time.Millisecond
	return l
}

func TestHTTPLocatorLocate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","lat":52.52,"lon":13.405}`))
	}))
	defer srv.Close()

	pos, err := newTestLocator(t, srv.URL).Locate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pos.Lat != 52.52 || pos.Lon != 13.405 {
		t.Fatalf("pos = %+v, want (52.52, 13.405)", pos)
	}
}

func TestHTTPLocatorRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"lat":1.5,"lon":-2.5}`))
	}))
	defer srv.Close()

	pos, err := newTestLocator(t, srv.URL).Locate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pos.Lat != 1.5 || pos.Lon != -2.5 {
		t.Fatalf("pos = %+v, want (1.5, -2.5)", pos)
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("calls = %d, want 3", got)
	}
}

func TestHTTPLocatorDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	if _, err := newTestLocator(t, srv.URL).Locate(context.Background()); err == nil {
		t.Fatal("expected error, got nil")
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("calls = %d, want 1", got)
	}
}

func TestHTTPLocatorRejectsFailedStatusAndMissingFields(t *testing.T) {
	bodies := []string{
		`{"status":"fail","message":"private range"}`,
		`{"status":"success"}`,
		`not json`,
	}

	for _, body := range bodies {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))

		if _, err := newTestLocator(t, srv.URL).Locate(context.Background()); err == nil {
			t.Errorf("body %q: expected error, got nil", body)
		}
		srv.Close()
	}
}

func TestHTTPLocatorHonorsCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"lat":1,"lon":1}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newTestLocator(t, srv.URL).Locate(ctx); err == nil {
		t.Fatal("expected error for canceled context, got nil")
	}
}

func TestNewHTTPLocatorRequiresURL(t *testing.T) {
	if _, err := NewHTTPLocator("  "); err == nil {
		t.Fatal("expected error, got nil")
	}
}
