package cart

import (
	"sync"
	"time"
)

// Service holds one Store per session.
type Service struct {
	mu    sync.Mutex
	carts map[string]*Store
	now   func() time.Time
}

func New(now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{carts: make(map[string]*Store), now: now}
}

// Cart returns the session's cart, creating an empty one on first use.
func (s *Service) Cart(sessionID string) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[sessionID]
	if !ok {
		c = NewStore(s.now)
		s.carts[sessionID] = c
	}
	return c
}

// Drop forgets the session's cart.
func (s *Service) Drop(sessionID string) {
	s.mu.Lock()
	delete(s.carts, sessionID)
	s.mu.Unlock()
}
