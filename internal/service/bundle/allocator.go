// Package bundle distributes a bundle's required units across flavor options.
package bundle

import (
	"errors"
	"fmt"
	"strings"

	"delicias-urbanas/internal/domain"
)

var (
	ErrUnknownOption = errors.New("unknown flavor option")
	ErrIncomplete    = errors.New("flavor selection incomplete")
	ErrUnreachable   = errors.New("flavor quantity not reachable")
)

type group struct {
	def domain.FlavorGroup
	qty map[string]int
}

func (g *group) total() int {
	sum := 0
	for _, q := range g.qty {
		sum += q
	}
	return sum
}

// Allocator tracks per-option quantities for every group of one bundle.
// Group totals never exceed their limit.
type Allocator struct {
	groups []*group
	byName map[string]*group
}

// New starts every option of every group at zero.
func New(groups []domain.FlavorGroup) *Allocator {
	a := &Allocator{byName: make(map[string]*group, len(groups))}
	for _, fg := range groups {
		g := &group{def: fg, qty: make(map[string]int, len(fg.Options))}
		for _, opt := range fg.Options {
			g.qty[opt] = 0
		}
		a.groups = append(a.groups, g)
		a.byName[fg.Title] = g
	}
	return a
}

func (a *Allocator) lookup(title, option string) (*group, error) {
	g, ok := a.byName[title]
	if !ok {
		return nil, fmt.Errorf("%w: group %q", ErrUnknownOption, title)
	}
	if option == "" {
		return g, nil
	}
	if _, ok := g.qty[option]; !ok {
		return nil, fmt.Errorf("%w: %q in group %q", ErrUnknownOption, option, title)
	}
	return g, nil
}

// CanIncrement reports whether Increment would change the option.
func (a *Allocator) CanIncrement(title, option string) (bool, error) {
	g, err := a.lookup(title, option)
	if err != nil {
		return false, err
	}
	total := g.total()
	if g.qty[option] == 0 {
		return total+g.def.MinStep() <= g.def.Limit, nil
	}
	return total+1 <= g.def.Limit, nil
}

// Increment adds one unit to the option, or jumps it straight to the group's
// minimum step when the option is first selected. It is a no-op when the
// group lacks room. The boolean reports whether anything changed.
func (a *Allocator) Increment(title, option string) (bool, error) {
	ok, err := a.CanIncrement(title, option)
	if err != nil || !ok {
		return false, err
	}
	g := a.byName[title]
	if g.qty[option] == 0 {
		g.qty[option] = g.def.MinStep()
	} else {
		g.qty[option]++
	}
	return true, nil
}

// Decrement removes one unit from the option. At or below the minimum step
// the option drops straight to zero.
func (a *Allocator) Decrement(title, option string) (bool, error) {
	g, err := a.lookup(title, option)
	if err != nil {
		return false, err
	}
	cur := g.qty[option]
	switch {
	case cur <= 0:
		return false, nil
	case cur > g.def.MinStep():
		g.qty[option] = cur - 1
	default:
		g.qty[option] = 0
	}
	return true, nil
}

// Quantity is the current count of option in the group, 0 when unknown.
func (a *Allocator) Quantity(title, option string) int {
	g, err := a.lookup(title, option)
	if err != nil {
		return 0
	}
	return g.qty[option]
}

// Remaining is the number of units still missing in the group.
func (a *Allocator) Remaining(title string) int {
	g, ok := a.byName[title]
	if !ok {
		return 0
	}
	return g.def.Limit - g.total()
}

// GroupComplete reports whether the group sums exactly to its limit.
func (a *Allocator) GroupComplete(title string) bool {
	g, ok := a.byName[title]
	return ok && g.total() == g.def.Limit
}

// Complete reports whether every group sums exactly to its limit.
func (a *Allocator) Complete() bool {
	for _, g := range a.groups {
		if g.total() != g.def.Limit {
			return false
		}
	}
	return true
}

// Missing returns the remaining units per incomplete group, keyed by title.
func (a *Allocator) Missing() map[string]int {
	out := make(map[string]int)
	for _, g := range a.groups {
		if rem := g.def.Limit - g.total(); rem != 0 {
			out[g.def.Title] = rem
		}
	}
	return out
}

// Summary renders the selection as "6x Jamón, 6x Queso + 4x Roquefort".
func (a *Allocator) Summary() string {
	clauses := make([]string, 0, len(a.groups))
	for _, g := range a.groups {
		var parts []string
		for _, opt := range g.def.Options {
			if q := g.qty[opt]; q > 0 {
				parts = append(parts, fmt.Sprintf("%dx %s", q, opt))
			}
		}
		if len(parts) > 0 {
			clauses = append(clauses, strings.Join(parts, ", "))
		}
	}
	return strings.Join(clauses, " + ")
}

// Confirm returns the summary once every group is complete.
func (a *Allocator) Confirm() (string, error) {
	if !a.Complete() {
		return "", ErrIncomplete
	}
	return a.Summary(), nil
}

// FromSelections replays a final selection through Increment so that only
// quantities reachable by the customer end up accepted.
func FromSelections(groups []domain.FlavorGroup, selections map[string]map[string]int) (*Allocator, error) {
	a := New(groups)
	for title := range selections {
		if _, ok := a.byName[title]; !ok {
			return nil, fmt.Errorf("%w: group %q", ErrUnknownOption, title)
		}
	}
	for _, g := range a.groups {
		chosen := selections[g.def.Title]
		for opt := range chosen {
			if _, ok := g.qty[opt]; !ok {
				return nil, fmt.Errorf("%w: %q in group %q", ErrUnknownOption, opt, g.def.Title)
			}
		}
		for _, opt := range g.def.Options {
			want := chosen[opt]
			if want < 0 {
				return nil, fmt.Errorf("%w: %s %q=%d", ErrUnreachable, g.def.Title, opt, want)
			}
			for g.qty[opt] < want {
				changed, err := a.Increment(g.def.Title, opt)
				if err != nil {
					return nil, err
				}
				if !changed {
					break
				}
			}
			if g.qty[opt] != want {
				return nil, fmt.Errorf("%w: %s %q=%d", ErrUnreachable, g.def.Title, opt, want)
			}
		}
	}
	return a, nil
}
