package services

import (
	"context"
	"errors"
	"place-picker-service/internal/domain"
	"place-picker-service/internal/ports"
	"sync"
)

// RemovalCoordinator holds the single pending removal behind the
// confirmation surface. A second request before resolution replaces the
// first; only one surface exists.
type RemovalCoordinator struct {
	store   *SelectionStore
	surface ports.ConfirmationSurface

	mu      sync.Mutex
	pending string
	active  bool
}

func NewRemovalCoordinator(store *SelectionStore, surface ports.ConfirmationSurface) (*RemovalCoordinator, error) {
	if store == nil {
		return nil, errors.New("new removal coordinator: selection store is nil")
	}
	if surface == nil {
		return nil, errors.New("new removal coordinator: confirmation surface is nil")
	}
	return &RemovalCoordinator{store: store, surface: surface}, nil
}

// RequestRemoval targets id for removal and opens the surface.
func (c *RemovalCoordinator) RequestRemoval(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pending = id
	c.active = true
	c.surface.Open()
}

// CancelRemoval closes the surface. The picked list is not touched.
func (c *RemovalCoordinator) CancelRemoval() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.clear()
}

// ConfirmRemoval deselects the pending id and closes the surface.
// With nothing pending it only closes the surface and returns the current list.
// If the deselect fails the removal stays pending so it can be retried.
func (c *RemovalCoordinator) ConfirmRemoval(ctx context.Context) ([]domain.Place, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active {
		c.surface.Close()
		return c.store.Picked(), nil
	}

	picked, err := c.store.Deselect(ctx, c.pending)
	if err != nil {
		return picked, err
	}

	c.clear()
	return picked, nil
}

// Pending returns the id awaiting confirmation and whether one exists.
// The surface is opened and closed under the same lock, so the flag also
// reports whether the surface is open.
func (c *RemovalCoordinator) Pending() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending, c.active
}

func (c *RemovalCoordinator) clear() {
	c.pending = ""
	c.active = false
	c.surface.Close()
}
