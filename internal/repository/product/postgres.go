package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"

	"delicias-urbanas/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBPool matches the methods from *pgxpool.Pool that we use.
type DBPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type PostgresRepo struct {
	pool   DBPool
	logger *log.Logger
}

func NewPostgres(pool DBPool, logger *log.Logger) *PostgresRepo {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &PostgresRepo{pool: pool, logger: logger}
}

func (r *PostgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	const q = `
SELECT id, name, COALESCE(description, ''), price, category, COALESCE(image, ''), customization
FROM products
ORDER BY position, id
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, err
	}
	r.logger.Printf("product repo: list count=%d", len(result))
	return result, nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	const q = `
SELECT id, name, COALESCE(description, ''), price, category, COALESCE(image, ''), customization
FROM products
WHERE id = $1
`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Printf("product repo: get id=%s not found", id)
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return &p, nil
}

// Upsert writes a menu product at the given display position.
func (r *PostgresRepo) Upsert(ctx context.Context, p domain.Product, position int) error {
	const q = `
INSERT INTO products (id, name, description, price, category, image, customization, position)
VALUES ($1, $2, NULLIF($3, ''), $4, $5, NULLIF($6, ''), $7, $8)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    price = EXCLUDED.price,
    category = EXCLUDED.category,
    image = EXCLUDED.image,
    customization = EXCLUDED.customization,
    position = EXCLUDED.position
`
	var custom []byte
	if p.Customization != nil {
		raw, err := json.Marshal(p.Customization)
		if err != nil {
			return fmt.Errorf("encode customization %s: %w", p.ID, err)
		}
		custom = raw
	}
	if _, err := r.pool.Exec(ctx, q, p.ID, p.Name, p.Description, p.Price, string(p.Category), p.Image, custom, position); err != nil {
		r.logger.Printf("product repo: upsert id=%s error=%v", p.ID, err)
		return err
	}
	r.logger.Printf("product repo: upserted id=%s position=%d", p.ID, position)
	return nil
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var (
		p        domain.Product
		category string
		custom   []byte
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &category, &p.Image, &custom); err != nil {
		return domain.Product{}, err
	}
	p.Category = domain.Category(category)
	if len(custom) > 0 {
		var c domain.Customization
		if err := json.Unmarshal(custom, &c); err != nil {
			return domain.Product{}, fmt.Errorf("decode customization %s: %w", p.ID, err)
		}
		p.Customization = &c
	}
	return p, nil
}
