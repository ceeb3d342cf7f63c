package cart

import (
	"sync"

	"campusmarket/internal/core/models"
)

// Store holds the session's cart. Entries are snapshots taken at add-time
// and addressed by position, not by product id: adding the same product
// twice makes two entries, and removal shifts later indices down. Nothing
// is persisted; the cart lives exactly as long as its owning session.
type Store struct {
	mu      sync.Mutex
	entries []models.CartEntry
}

func NewStore() *Store {
	return &Store{}
}

// Add appends a projection of the product. No dedup, no capacity limit.
func (s *Store) Add(p models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, models.EntryOf(p))
}

// RemoveAt drops the entry at index. An out-of-range index is a no-op.
func (s *Store) RemoveAt(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.entries) {
		return
	}
	s.entries = append(s.entries[:index], s.entries[index+1:]...)
}

// Clear empties the cart unconditionally.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
}

// Items returns a copy of the entries in order.
func (s *Store) Items() []models.CartEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.CartEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
