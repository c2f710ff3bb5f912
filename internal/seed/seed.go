// Package seed loads a menu into the products table.
package seed

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"delicias-urbanas/internal/domain"
	productrepo "delicias-urbanas/internal/repository/product"
)

// Upserter stores one product at a menu position.
type Upserter interface {
	Upsert(ctx context.Context, p domain.Product, position int) error
}

// LoadMenu reads a YAML menu from path, or the embedded menu when path is empty.
func LoadMenu(path string) ([]domain.Product, error) {
	if path == "" {
		return productrepo.EmbeddedMenu()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open menu: %w", err)
	}
	defer f.Close()
	return productrepo.LoadMenu(f)
}

// Apply upserts every product, keeping the menu order. It is idempotent.
func Apply(ctx context.Context, repo Upserter, products []domain.Product, logger *log.Logger) error {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	for i, p := range products {
		if err := repo.Upsert(ctx, p, i); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.ID, err)
		}
	}
	logger.Printf("seed: upserted products=%d", len(products))
	return nil
}
