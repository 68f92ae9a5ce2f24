package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/asemenkov/ecomm-backend/internal/domain"
)

// ProductRepository keeps attributes and reviews as jsonb documents on the
// product row, so a product and its reviews always change atomically.
type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

const productColumns = `id, name, description, brand, price, sku, stock, attributes, reviews, created_at, updated_at`

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Brand, &p.Price, &p.SKU,
		&p.Stock, &p.Attributes, &p.Reviews, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if p.Reviews == nil {
		p.Reviews = []domain.Review{}
	}
	return &p, nil
}

func (r *ProductRepository) Create(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error) {
	now := time.Now().UTC()
	attrs := req.Attributes
	if attrs == nil {
		attrs = []domain.Attribute{}
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO products (id, name, description, brand, price, sku, stock, attributes, reviews, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,'[]'::jsonb,$9,$9)
		RETURNING `+productColumns,
		uuid.NewString(), req.Name, req.Description, req.Brand, req.Price, req.SKU, req.Stock, attrs, now,
	)
	return scanProduct(row)
}

var sortColumns = map[string]string{
	"name":      "name",
	"price":     "price",
	"createdAt": "created_at",
}

func (r *ProductRepository) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, int, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.Brand != "" {
		where = append(where, "brand = "+arg(f.Brand))
	}
	if f.MinPrice > 0 {
		where = append(where, "price >= "+arg(f.MinPrice))
	}
	if f.MaxPrice > 0 {
		where = append(where, "price <= "+arg(f.MaxPrice))
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT count(*) FROM products"+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	col, ok := sortColumns[f.Sort]
	if !ok {
		col = "name"
	}
	dir := "ASC"
	if strings.EqualFold(f.Order, "desc") {
		dir = "DESC"
	}
	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit < 1 {
		limit = 10
	}

	q := fmt.Sprintf("SELECT %s FROM products%s ORDER BY %s %s LIMIT %s OFFSET %s",
		productColumns, cond, col, dir, arg(limit), arg((page-1)*limit))
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out, err := collectProducts(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func collectProducts(rows pgx.Rows) ([]domain.Product, error) {
	var out []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id=$1`, id)
	return scanProduct(row)
}

func (r *ProductRepository) Update(ctx context.Context, id string, upd domain.ProductUpdate) (*domain.Product, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE products SET
			name=COALESCE($2, name),
			description=COALESCE($3, description),
			brand=COALESCE($4, brand),
			price=COALESCE($5, price),
			sku=COALESCE($6, sku),
			stock=COALESCE($7, stock),
			attributes=COALESCE($8, attributes),
			updated_at=$9
		WHERE id=$1
		RETURNING `+productColumns,
		id, upd.Name, upd.Description, upd.Brand, upd.Price, upd.SKU, upd.Stock, upd.Attributes, time.Now().UTC(),
	)
	return scanProduct(row)
}

func (r *ProductRepository) Delete(ctx context.Context, id string) (*domain.Product, error) {
	row := r.pool.QueryRow(ctx, `DELETE FROM products WHERE id=$1 RETURNING `+productColumns, id)
	return scanProduct(row)
}

func (r *ProductRepository) SetReviews(ctx context.Context, id string, reviews []domain.Review) (*domain.Product, error) {
	if reviews == nil {
		reviews = []domain.Review{}
	}
	row := r.pool.QueryRow(ctx, `
		UPDATE products SET reviews=$2, updated_at=$3
		WHERE id=$1
		RETURNING `+productColumns,
		id, reviews, time.Now().UTC(),
	)
	return scanProduct(row)
}

func (r *ProductRepository) Search(ctx context.Context, query string) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE to_tsvector('english', name || ' ' || description) @@ websearch_to_tsquery('english', $1)
		ORDER BY name
		`, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows)
}
