package cart

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"delicias-urbanas/internal/domain"
)

var (
	ErrNeedsCustomization = errors.New("product requires customization")
	ErrNotCustomizable    = errors.New("product has no customization")
	ErrFlavorsRequired    = errors.New("flavor summary required")
	ErrEmptyCart          = errors.New("cart is empty")
)

// Store is the cart of one browser session.
type Store struct {
	mu    sync.Mutex
	lines []domain.LineItem
	now   func() time.Time
}

func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{now: now}
}

// AddProduct bumps the plain line for p or appends one at quantity 1.
func (s *Store) AddProduct(p domain.Product) (domain.LineItem, error) {
	if p.IsBundle() {
		return domain.LineItem{}, ErrNeedsCustomization
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.lines {
		if s.lines[i].MergesWith(p) {
			s.lines[i].Quantity++
			return s.lines[i], nil
		}
	}
	line := domain.NewPlainItem(p)
	s.lines = append(s.lines, line)
	return line, nil
}

// AddCustomized always appends: every confirmed configuration is its own line.
func (s *Store) AddCustomized(p domain.Product, flavors string) (domain.LineItem, error) {
	if !p.IsBundle() {
		return domain.LineItem{}, ErrNotCustomizable
	}
	if strings.TrimSpace(flavors) == "" {
		return domain.LineItem{}, ErrFlavorsRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	line := domain.NewCustomizedItem(s.nextLineID(p.ID), p, flavors)
	s.lines = append(s.lines, line)
	return line, nil
}

// nextLineID combines the product id with the creation time, skipping ahead
// when two bundles land in the same millisecond.
func (s *Store) nextLineID(productID string) string {
	ms := s.now().UnixMilli()
	for {
		id := fmt.Sprintf("%s-%d", productID, ms)
		if s.indexOf(id) < 0 {
			return id
		}
		ms++
	}
}

func (s *Store) indexOf(lineID string) int {
	for i := range s.lines {
		if s.lines[i].ID == lineID {
			return i
		}
	}
	return -1
}

// UpdateQuantity applies delta, clamping at zero. Lines that reach zero are dropped.
func (s *Store) UpdateQuantity(lineID string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(lineID)
	if idx < 0 {
		return domain.ErrNotFound
	}
	qty := max(0, s.lines[idx].Quantity+delta)
	if qty == 0 {
		s.lines = append(s.lines[:idx], s.lines[idx+1:]...)
		return nil
	}
	s.lines[idx].Quantity = qty
	return nil
}

func (s *Store) Remove(lineID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexOf(lineID); idx >= 0 {
		s.lines = append(s.lines[:idx], s.lines[idx+1:]...)
	}
}

// Items returns a copy of the lines in insertion order.
func (s *Store) Items() []domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.LineItem(nil), s.lines...)
}

func (s *Store) Total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Total(s.lines)
}

func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Count(s.lines)
}

// ProductIDs lists the distinct products present in the cart.
func (s *Store) ProductIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[string]struct{}, len(s.lines))
	ids := make([]string, 0, len(s.lines))
	for _, l := range s.lines {
		if _, ok := seen[l.Product.ID]; ok {
			continue
		}
		seen[l.Product.ID] = struct{}{}
		ids = append(ids, l.Product.ID)
	}
	return ids
}

func (s *Store) Clear() {
	s.mu.Lock()
	s.lines = nil
	s.mu.Unlock()
}

// Checkout hands a snapshot of the lines and their total to fn and clears
// the cart only when fn succeeds.
func (s *Store) Checkout(fn func(items []domain.LineItem, total int64) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.lines) == 0 {
		return ErrEmptyCart
	}
	items := append([]domain.LineItem(nil), s.lines...)
	if err := fn(items, domain.Total(items)); err != nil {
		return err
	}
	s.lines = nil
	return nil
}
