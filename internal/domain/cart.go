package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidLine marks a line whose fields contradict its kind.
var ErrInvalidLine = errors.New("invalid cart line")

// LineKind tags a cart line as a plain product or a confirmed bundle configuration.
type LineKind string

const (
	LinePlain      LineKind = "plain"
	LineCustomized LineKind = "customized"
)

// LineItem is one entry of a cart. Plain lines are keyed by product id and
// merge on repeated adds; customized lines carry their own id and never merge.
type LineItem struct {
	ID       string   `json:"id"`
	Kind     LineKind `json:"kind"`
	Product  Product  `json:"product"`
	Quantity int      `json:"quantity"`
	Flavors  string   `json:"selectedFlavors,omitempty"`
}

func NewPlainItem(p Product) LineItem {
	return LineItem{ID: p.ID, Kind: LinePlain, Product: p, Quantity: 1}
}

func NewCustomizedItem(id string, p Product, flavors string) LineItem {
	return LineItem{ID: id, Kind: LineCustomized, Product: p, Quantity: 1, Flavors: flavors}
}

// Validate checks the shape the constructors guarantee. Lines decoded from
// storage or requests go through it before they are trusted.
func (l LineItem) Validate() error {
	if l.Quantity <= 0 {
		return fmt.Errorf("%w: line %q has quantity %d", ErrInvalidLine, l.ID, l.Quantity)
	}
	switch l.Kind {
	case LinePlain:
		if l.Flavors != "" {
			return fmt.Errorf("%w: plain line %q carries flavors", ErrInvalidLine, l.ID)
		}
		if l.ID != l.Product.ID {
			return fmt.Errorf("%w: plain line %q is not keyed by its product", ErrInvalidLine, l.ID)
		}
	case LineCustomized:
		if l.Flavors == "" {
			return fmt.Errorf("%w: customized line %q has no flavors", ErrInvalidLine, l.ID)
		}
	default:
		return fmt.Errorf("%w: line %q has kind %q", ErrInvalidLine, l.ID, l.Kind)
	}
	return nil
}

// MergesWith reports whether adding p again should bump this line instead of appending.
// Only well-formed plain lines merge.
func (l LineItem) MergesWith(p Product) bool {
	return l.Kind == LinePlain && l.Flavors == "" && l.Product.ID == p.ID
}

func (l LineItem) Subtotal() int64 {
	return l.Product.Price * int64(l.Quantity)
}

// Total sums unit price times quantity over all lines.
func Total(items []LineItem) int64 {
	var total int64
	for _, it := range items {
		total += it.Subtotal()
	}
	return total
}

// Count sums quantities over all lines.
func Count(items []LineItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}
