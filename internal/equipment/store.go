package equipment

import (
	"sync/atomic"

	"github.com/conon21154/lineguide/internal/model"
)

// Store publishes the current reference table. Tables are replaced
// wholesale, so readers never observe a half-loaded table.
type Store struct {
	current atomic.Pointer[Table]
}

func NewStore() *Store {
	return &Store{}
}

// Current returns the published table, or nil before the first upload.
func (s *Store) Current() *Table {
	return s.current.Load()
}

func (s *Store) Replace(table *Table) {
	s.current.Store(table)
}

func (s *Store) Match(resolvedAddress string) model.EquipmentMatch {
	return Match(resolvedAddress, s.Current())
}
