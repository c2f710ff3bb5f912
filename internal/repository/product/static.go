package product

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"

	"delicias-urbanas/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed menu.yaml
var embeddedMenu []byte

type menuFile struct {
	Products []domain.Product `yaml:"products"`
}

// EmbeddedMenu parses the menu compiled into the binary.
func EmbeddedMenu() ([]domain.Product, error) {
	return LoadMenu(bytes.NewReader(embeddedMenu))
}

// LoadMenu decodes and validates a YAML menu.
func LoadMenu(r io.Reader) ([]domain.Product, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var file menuFile
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode menu: %w", err)
	}
	if err := Validate(file.Products); err != nil {
		return nil, err
	}
	return file.Products, nil
}

// Validate checks the invariants the cart and the bundle allocator rely on.
func Validate(products []domain.Product) error {
	seen := make(map[string]struct{}, len(products))
	for _, p := range products {
		if p.ID == "" {
			return fmt.Errorf("menu: product %q has no id", p.Name)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("menu: duplicate product id %s", p.ID)
		}
		seen[p.ID] = struct{}{}
		if p.Price <= 0 {
			return fmt.Errorf("menu: product %s has non-positive price", p.ID)
		}
		if _, ok := domain.ParseCategory(string(p.Category)); !ok {
			return fmt.Errorf("menu: product %s has unknown category %q", p.ID, p.Category)
		}
		if p.Customization == nil {
			continue
		}
		if len(p.Customization.Groups) == 0 {
			return fmt.Errorf("menu: product %s has an empty customization", p.ID)
		}
		titles := make(map[string]struct{}, len(p.Customization.Groups))
		for _, g := range p.Customization.Groups {
			if _, dup := titles[g.Title]; dup {
				return fmt.Errorf("menu: product %s repeats group %q", p.ID, g.Title)
			}
			titles[g.Title] = struct{}{}
			if g.Limit <= 0 || len(g.Options) == 0 {
				return fmt.Errorf("menu: product %s group %q needs a limit and options", p.ID, g.Title)
			}
			if g.MinStep() > g.Limit {
				return fmt.Errorf("menu: product %s group %q min selection exceeds limit", p.ID, g.Title)
			}
		}
	}
	return nil
}

type staticRepo struct {
	products []domain.Product
	byID     map[string]int
}

// NewStatic serves a fixed product list.
func NewStatic(products []domain.Product) Repository {
	byID := make(map[string]int, len(products))
	for i, p := range products {
		byID[p.ID] = i
	}
	return &staticRepo{products: products, byID: byID}
}

func (r *staticRepo) List(_ context.Context) ([]domain.Product, error) {
	return append([]domain.Product(nil), r.products...), nil
}

func (r *staticRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	i, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p := r.products[i]
	return &p, nil
}
