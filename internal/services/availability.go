package services

import (
	"context"
	"errors"
	"log"
	"place-picker-service/internal/domain"
	"place-picker-service/internal/metrics"
	"place-picker-service/internal/platform/obs"
	"place-picker-service/internal/ports"
	"slices"
	"sync"
	"time"
)

// Availability holds the catalog ranked by distance from the user's position.
//
// The ranking is produced once by Start. Until a position fix arrives the
// list is empty and not ready; if the lookup fails or times out it stays that
// way for the lifetime of the process.
type Availability struct {
	catalog *domain.Catalog
	timeout time.Duration

	once   sync.Once
	done   chan struct{}
	mu     sync.RWMutex
	ready  bool
	origin domain.Coordinates
	ranked []RankedPlace
}

func NewAvailability(catalog *domain.Catalog, timeout time.Duration) *Availability {
	return &Availability{
		catalog: catalog,
		timeout: timeout,
		done:    make(chan struct{}),
		ranked:  []RankedPlace{},
	}
}

// Start runs the one-shot position lookup in the background.
// Calls after the first are ignored. A nil locator leaves the list empty.
func (a *Availability) Start(ctx context.Context, locator ports.Locator) {
	a.once.Do(func() {
		if locator == nil {
			log.Println("availability: no locator configured, ranked list stays empty")
			close(a.done)
			return
		}
		go a.run(ctx, locator)
	})
}

func (a *Availability) run(ctx context.Context, locator ports.Locator) {
	defer close(a.done)

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	pos, err := a.locate(ctx, locator)
	if err != nil {
		metrics.LocateFailuresTotal.Inc()
		if errors.Is(err, context.DeadlineExceeded) {
			log.Printf("availability: locate timed out after %s", a.timeout)
		} else {
			log.Printf("availability: locate failed: %v", err)
		}
		return
	}

	ranked := RankWithDistance(a.catalog.Places(), pos.Lat, pos.Lon)

	a.mu.Lock()
	a.ready = true
	a.origin = pos
	a.ranked = ranked
	a.mu.Unlock()

	log.Printf("availability: ranked places=%d lat=%.4f lon=%.4f", len(ranked), pos.Lat, pos.Lon)
}

func (a *Availability) locate(ctx context.Context, locator ports.Locator) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "availability.locate")(&err)
	return locator.Locate(ctx)
}

// Ranked returns the ranked places and whether a fix has been applied.
func (a *Availability) Ranked() ([]RankedPlace, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return slices.Clone(a.ranked), a.ready
}

// Origin returns the position the ranking was computed from.
func (a *Availability) Origin() (domain.Coordinates, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.origin, a.ready
}

// Done is closed once the lookup has finished, successfully or not.
func (a *Availability) Done() <-chan struct{} {
	return a.done
}
