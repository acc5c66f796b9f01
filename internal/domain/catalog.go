package domain

import (
	"fmt"
	"strings"
)

// Catalog is the fixed, ordered set of all selectable places.
// Identifiers are unique; lookups by id are constant time.
type Catalog struct {
	places []Place
	byID   map[string]int
}

func NewCatalog(places []Place) (*Catalog, error) {
	c := &Catalog{
		places: make([]Place, 0, len(places)),
		byID:   make(map[string]int, len(places)),
	}

	for i, p := range places {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			return nil, fmt.Errorf("new catalog: place at index %d has empty id", i)
		}
		if _, ok := c.byID[id]; ok {
			return nil, fmt.Errorf("new catalog: duplicate place id %q", id)
		}
		p.ID = id
		c.byID[id] = len(c.places)
		c.places = append(c.places, p)
	}

	return c, nil
}

// Return a copy of the places in catalog order.
func (c *Catalog) Places() []Place {
	if c == nil {
		return []Place{}
	}
	out := make([]Place, len(c.places))
	copy(out, c.places)
	return out
}

// Find the place with the given id.
func (c *Catalog) Find(id string) (Place, bool) {
	if c == nil {
		return Place{}, false
	}
	i, ok := c.byID[id]
	if !ok {
		return Place{}, false
	}
	return c.places[i], true
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.places)
}

