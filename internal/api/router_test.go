package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"place-picker-service/internal/adapters/geolocation"
	"place-picker-service/internal/adapters/storage"
	"place-picker-service/internal/api/dto"
	"place-picker-service/internal/api/handlers"
	"place-picker-service/internal/domain"
	"place-picker-service/internal/services"
	"strings"
	"sync"
	"testing"
	"time"
)

type testServer struct {
	handler http.Handler
	kv      *storage.MemoryKeyValueStore
	avail   *services.Availability
	dialog  *handlers.Dialog
	removal *services.RemovalCoordinator
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	catalog, err := domain.NewCatalog([]domain.Place{
		{ID: "p1", Title: "Origin", Location: domain.Coordinates{Lat: 0, Lon: 0}},
		{ID: "p2", Title: "Far", Location: domain.Coordinates{Lat: 50, Lon: 50}},
		{ID: "p3", Title: "Near", Location: domain.Coordinates{Lat: 1, Lon: 1}},
	})
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}

	kv := storage.NewMemoryKeyValueStore()
	selection, err := services.NewSelectionStore(catalog, kv, "selectedPlaces")
	if err != nil {
		t.Fatalf("new selection store: %v", err)
	}
	selection.Initialize(context.Background())

	dialog := &handlers.Dialog{}
	removal, err := services.NewRemovalCoordinator(selection, dialog)
	if err != nil {
		t.Fatalf("new removal coordinator: %v", err)
	}

	avail := services.NewAvailability(catalog, time.Second)

	return &testServer{
		handler: NewRouter(Deps{
			Catalog:      catalog,
			Selection:    selection,
			Availability: avail,
			Removal:      removal,
		}),
		kv:      kv,
		avail:   avail,
		dialog:  dialog,
		removal: removal,
	}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func placeIDs(places []dto.PlaceResponse) string {
	ids := make([]string, len(places))
	for i, p := range places {
		ids[i] = p.ID
	}
	return strings.Join(ids, ",")
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected X-Request-ID header")
	}

	rec = s.do(t, http.MethodPost, "/health", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestListPlacesInCatalogOrder(t *testing.T) {
	s := newTestServer(t)

	res := decode[dto.PlaceListResponse](t, s.do(t, http.MethodGet, "/places", ""))
	if got := placeIDs(res.Places); got != "p1,p2,p3" {
		t.Fatalf("places = %s, want p1,p2,p3", got)
	}
}

func TestAvailableBeforeAndAfterFix(t *testing.T) {
	s := newTestServer(t)

	res := decode[dto.AvailablePlacesResponse](t, s.do(t, http.MethodGet, "/places/available", ""))
	if res.Ready || len(res.Places) != 0 {
		t.Fatalf("before fix: ready=%v places=%s, want not ready and empty", res.Ready, placeIDs(res.Places))
	}
	if res.FallbackText != "Sorting places by distance..." {
		t.Fatalf("fallback = %q", res.FallbackText)
	}

	s.avail.Start(context.Background(), geolocation.NewStaticLocator(0, 0))
	<-s.avail.Done()

	res = decode[dto.AvailablePlacesResponse](t, s.do(t, http.MethodGet, "/places/available", ""))
	if !res.Ready {
		t.Fatal("expected ready after fix")
	}
	if got := placeIDs(res.Places); got != "p1,p3,p2" {
		t.Fatalf("places = %s, want p1,p3,p2", got)
	}
	if res.Places[0].DistanceKm == nil || *res.Places[0].DistanceKm != 0 {
		t.Fatalf("first distance = %v, want 0", res.Places[0].DistanceKm)
	}
}

func TestAvailableWithReferencePoint(t *testing.T) {
	s := newTestServer(t)

	res := decode[dto.AvailablePlacesResponse](t, s.do(t, http.MethodGet, "/places/available?lat=50&lon=50", ""))
	if got := placeIDs(res.Places); got != "p2,p3,p1" {
		t.Fatalf("places = %s, want p2,p3,p1", got)
	}

	for _, q := range []string{"?lat=abc&lon=1", "?lat=1", "?lat=91&lon=0", "?lat=0&lon=181"} {
		rec := s.do(t, http.MethodGet, "/places/available"+q, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", q, rec.Code)
		}
	}
}

func TestSelectPlaceFlow(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/places/picked", `{"id":"p1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("select p1: status = %d body=%s", rec.Code, rec.Body.String())
	}
	rec = s.do(t, http.MethodPost, "/places/picked", `{"id":"p2"}`)
	res := decode[dto.PlaceListResponse](t, rec)
	if got := placeIDs(res.Places); got != "p2,p1" {
		t.Fatalf("picked = %s, want p2,p1", got)
	}
	if res.Title != "I'd like to visit ..." {
		t.Fatalf("title = %q", res.Title)
	}

	raw, _, _ := s.kv.Get(context.Background(), "selectedPlaces")
	if raw != `["p2","p1"]` {
		t.Fatalf("persisted = %s, want [\"p2\",\"p1\"]", raw)
	}

	res = decode[dto.PlaceListResponse](t, s.do(t, http.MethodGet, "/places/picked", ""))
	if got := placeIDs(res.Places); got != "p2,p1" {
		t.Fatalf("GET picked = %s, want p2,p1", got)
	}
}

func TestSelectPlaceErrors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		body string
		want int
	}{
		{`{"id":"nope"}`, http.StatusNotFound},
		{`{"id":""}`, http.StatusBadRequest},
		{`{"id":"p1","extra":true}`, http.StatusBadRequest},
		{`{"id":"p1"}{"id":"p2"}`, http.StatusBadRequest},
		{`not json`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		rec := s.do(t, http.MethodPost, "/places/picked", tt.body)
		if rec.Code != tt.want {
			t.Errorf("body %s: status = %d, want %d", tt.body, rec.Code, tt.want)
		}
	}

	if rec := s.do(t, http.MethodDelete, "/places/picked", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("DELETE status = %d, want 405", rec.Code)
	}

	if _, ok, _ := s.kv.Get(context.Background(), "selectedPlaces"); ok {
		t.Fatal("failed selects must not write")
	}
}

func TestRemovalConfirmFlow(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/places/picked", `{"id":"p1"}`)
	s.do(t, http.MethodPost, "/places/picked", `{"id":"p3"}`)

	state := decode[dto.RemovalResponse](t, s.do(t, http.MethodPost, "/removal", `{"id":"p1"}`))
	if !state.Open || state.PendingID != "p1" {
		t.Fatalf("state = %+v, want open with p1 pending", state)
	}

	res := decode[dto.PlaceListResponse](t, s.do(t, http.MethodPost, "/removal/confirm", ""))
	if got := placeIDs(res.Places); got != "p3" {
		t.Fatalf("picked = %s, want p3", got)
	}

	state = decode[dto.RemovalResponse](t, s.do(t, http.MethodGet, "/removal", ""))
	if state.Open || state.PendingID != "" {
		t.Fatalf("state = %+v, want closed with nothing pending", state)
	}

	raw, _, _ := s.kv.Get(context.Background(), "selectedPlaces")
	if raw != `["p3"]` {
		t.Fatalf("persisted = %s, want [\"p3\"]", raw)
	}
}

func TestRemovalCancelFlow(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/places/picked", `{"id":"p1"}`)

	s.do(t, http.MethodPost, "/removal", `{"id":"p1"}`)
	state := decode[dto.RemovalResponse](t, s.do(t, http.MethodPost, "/removal/cancel", ""))
	if state.Open {
		t.Fatal("dialog should be closed after cancel")
	}

	res := decode[dto.PlaceListResponse](t, s.do(t, http.MethodGet, "/places/picked", ""))
	if got := placeIDs(res.Places); got != "p1" {
		t.Fatalf("picked = %s, want p1", got)
	}

	if rec := s.do(t, http.MethodPost, "/removal", `{}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("empty removal request status = %d, want 400", rec.Code)
	}
	if rec := s.do(t, http.MethodGet, "/removal/confirm", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET confirm status = %d, want 405", rec.Code)
	}
}

func TestRemovalStateIsConsistentUnderConcurrentRequests(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/places/picked", `{"id":"p1"}`)

	const rounds = 50
	states := make(chan dto.RemovalResponse, rounds)

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			s.handler.ServeHTTP(httptest.NewRecorder(),
				httptest.NewRequest(http.MethodPost, "/removal", strings.NewReader(`{"id":"p1"}`)))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			s.handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/removal/cancel", nil))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			rec := httptest.NewRecorder()
			s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/removal", nil))
			var state dto.RemovalResponse
			if err := json.NewDecoder(rec.Body).Decode(&state); err == nil {
				states <- state
			}
		}
	}()
	wg.Wait()
	close(states)

	n := 0
	for state := range states {
		n++
		if state.Open != (state.PendingID != "") {
			t.Fatalf("state = %+v, open flag and pending id disagree", state)
		}
	}
	if n != rounds {
		t.Fatalf("decoded %d states, want %d", n, rounds)
	}

	pending, open := s.removal.Pending()
	if s.dialog.IsOpen() != open {
		t.Fatalf("dialog open = %v, coordinator reports %v (pending %q)", s.dialog.IsOpen(), open, pending)
	}
}
