package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"place-picker-service/internal/domain"
	"place-picker-service/internal/metrics"
	"place-picker-service/internal/platform/obs"
	"place-picker-service/internal/ports"
	"slices"
	"sync"
)

// ErrPlaceNotFound is returned when an id does not resolve to a catalog place.
var ErrPlaceNotFound = errors.New("place not found in catalog")

// SelectionStore owns the user's picked places and keeps the persisted
// entry in sync with them.
//
// After every successful Select or Deselect the stored JSON array equals the
// ids of the in-memory list, in the same order. Writes are synchronous; if a
// write fails the in-memory list is left as it was before the call.
//
// The store is safe for concurrent use.
type SelectionStore struct {
	catalog *domain.Catalog
	kv      ports.KeyValueStore
	key     string

	mu     sync.Mutex
	picked []domain.Place
}

func NewSelectionStore(catalog *domain.Catalog, kv ports.KeyValueStore, key string) (*SelectionStore, error) {
	if catalog == nil {
		return nil, errors.New("new selection store: catalog is nil")
	}
	if kv == nil {
		return nil, errors.New("new selection store: key-value store is nil")
	}
	if key == "" {
		return nil, errors.New("new selection store: key must be non-empty")
	}

	return &SelectionStore{
		catalog: catalog,
		kv:      kv,
		key:     key,
		picked:  []domain.Place{},
	}, nil
}

// Initialize hydrates the picked list from the persisted entry.
//
// A missing, unreadable or corrupt entry yields an empty list. Ids that no
// longer resolve against the catalog are dropped, as are repeated ids. The
// persisted entry itself is left untouched until the next write.
func (s *SelectionStore) Initialize(ctx context.Context) []domain.Place {
	ids := s.readIDs(ctx)

	picked := make([]domain.Place, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		p, ok := s.catalog.Find(id)
		if !ok {
			log.Printf("selection: dropping stale id=%q key=%s", id, s.key)
			continue
		}
		seen[id] = struct{}{}
		picked = append(picked, p)
	}

	s.mu.Lock()
	s.picked = picked
	s.mu.Unlock()

	return slices.Clone(picked)
}

// Picked returns a copy of the current list, most recently selected first.
func (s *SelectionStore) Picked() []domain.Place {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.picked)
}

// Select prepends the place with the given id.
//
// Selecting an id that is already picked leaves the list as it is. The
// persisted entry is only rewritten from the list when it no longer contains
// id, which repairs storage that drifted from memory. An id missing from the
// catalog returns an error wrapping ErrPlaceNotFound and changes nothing.
func (s *SelectionStore) Select(ctx context.Context, id string) ([]domain.Place, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if indexOf(s.picked, id) >= 0 {
		stored, err := s.loadIDs(ctx)
		if err == nil && slices.Contains(stored, id) {
			return slices.Clone(s.picked), nil
		}
		if err := s.writeIDs(ctx, s.picked); err != nil {
			return slices.Clone(s.picked), fmt.Errorf("select place %q: %w", id, err)
		}
		return slices.Clone(s.picked), nil
	}

	p, ok := s.catalog.Find(id)
	if !ok {
		metrics.SelectionsRejectedTotal.Inc()
		return slices.Clone(s.picked), fmt.Errorf("select place %q: %w", id, ErrPlaceNotFound)
	}

	next := make([]domain.Place, 0, len(s.picked)+1)
	next = append(next, p)
	next = append(next, s.picked...)

	if err := s.writeIDs(ctx, next); err != nil {
		return slices.Clone(s.picked), fmt.Errorf("select place %q: %w", id, err)
	}

	s.picked = next
	metrics.SelectionsTotal.Inc()
	return slices.Clone(next), nil
}

// Deselect removes the place with the given id, keeping the order of the rest.
// The persisted entry is rewritten even when id was not picked, so storage
// that drifted from memory converges on the next call.
func (s *SelectionStore) Deselect(ctx context.Context, id string) ([]domain.Place, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]domain.Place, 0, len(s.picked))
	for _, p := range s.picked {
		if p.ID != id {
			next = append(next, p)
		}
	}

	if err := s.writeIDs(ctx, next); err != nil {
		return slices.Clone(s.picked), fmt.Errorf("deselect place %q: %w", id, err)
	}

	if len(next) != len(s.picked) {
		metrics.DeselectionsTotal.Inc()
	}
	s.picked = next
	return slices.Clone(next), nil
}

func (s *SelectionStore) readIDs(ctx context.Context) []string {
	ids, err := s.loadIDs(ctx)
	if err != nil {
		log.Printf("selection: key=%s unusable, starting empty: %v", s.key, err)
		return nil
	}
	return ids
}

// loadIDs returns the persisted ids. A missing entry is not an error.
func (s *SelectionStore) loadIDs(ctx context.Context) ([]string, error) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("read selection: %w", err)
	}
	if !ok || raw == "" || raw == "null" {
		return nil, nil
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("decode selection: %w", err)
	}
	return ids, nil
}

func (s *SelectionStore) writeIDs(ctx context.Context, places []domain.Place) (err error) {
	defer obs.Time(ctx, "selection.write")(&err)

	ids := make([]string, len(places))
	for i, p := range places {
		ids[i] = p.ID
	}

	b, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode selection: %w", err)
	}

	if err := s.kv.Set(ctx, s.key, string(b)); err != nil {
		metrics.StorageWriteFailuresTotal.Inc()
		return fmt.Errorf("persist selection: %w", err)
	}
	return nil
}

func indexOf(places []domain.Place, id string) int {
	return slices.IndexFunc(places, func(p domain.Place) bool { return p.ID == id })
}
