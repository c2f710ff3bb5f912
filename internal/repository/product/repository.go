package product

import (
	"context"

	"delicias-urbanas/internal/domain"
)

// Repository reads the menu. List preserves display order.
type Repository interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}
