package handlers

import "sync"

// Dialog is the confirmation surface as seen by HTTP clients: they poll its
// state and render a modal while it is open.
type Dialog struct {
	mu   sync.Mutex
	open bool
}

func (d *Dialog) Open() {
	d.mu.Lock()
	d.open = true
	d.mu.Unlock()
}

func (d *Dialog) Close() {
	d.mu.Lock()
	d.open = false
	d.mu.Unlock()
}

func (d *Dialog) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open
}
