// Package comments holds admin annotations on orders. The store is
// in-process and advisory only: comments are lost on restart and are not
// transactionally tied to the order status they accompany.
package comments

import "sync"

// Store maps an order (cart) id to the latest comment text.
// Last write wins; no history is kept.
type Store struct {
	mu       sync.RWMutex
	comments map[string]string
}

func NewStore() *Store {
	return &Store{comments: make(map[string]string)}
}

// Put records the comment for the given order id, replacing any previous
// one. Empty comments are ignored.
func (s *Store) Put(orderID, comment string) {
	if comment == "" {
		return
	}
	s.mu.Lock()
	s.comments[orderID] = comment
	s.mu.Unlock()
}

// Get returns the comment for the order id, if any.
func (s *Store) Get(orderID string) (string, bool) {
	s.mu.RLock()
	comment, ok := s.comments[orderID]
	s.mu.RUnlock()
	return comment, ok
}

// Delete removes the comment for the order id.
func (s *Store) Delete(orderID string) {
	s.mu.Lock()
	delete(s.comments, orderID)
	s.mu.Unlock()
}
