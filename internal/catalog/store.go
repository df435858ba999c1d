package catalog

import "sync/atomic"

// Store holds the catalog currently in service. Reloads build a new Catalog and
// Swap it in; readers that already hold the previous pointer keep a consistent view.
type Store struct {
	current atomic.Pointer[Catalog]
}

// NewStore returns a store serving c.
func NewStore(c *Catalog) *Store {
	s := &Store{}
	s.current.Store(c)
	return s
}

// Current returns the catalog in service.
func (s *Store) Current() *Catalog {
	return s.current.Load()
}

// Swap replaces the catalog in service and returns the previous one.
func (s *Store) Swap(c *Catalog) *Catalog {
	return s.current.Swap(c)
}
