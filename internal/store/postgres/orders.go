package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/asemenkov/ecomm-backend/internal/domain"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Begin opens the transaction scope for the create saga. Rows inserted
// through the returned tx stay invisible to List/GetByID until Commit.
func (r *OrderRepository) Begin(ctx context.Context) (domain.OrderTx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &orderTx{tx: tx}, nil
}

type orderTx struct {
	tx pgx.Tx
}

func (t *orderTx) Insert(ctx context.Context, req domain.CreateOrderRequest) (*domain.Order, error) {
	o := &domain.Order{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Price:       req.Price,
		PhoneNumber: req.PhoneNumber,
		CreatedAt:   time.Now().UTC(),
	}
	_, err := t.tx.Exec(ctx, `
		INSERT INTO orders (id, name, price, phone_number, created_at)
		VALUES ($1,$2,$3,$4,$5)
		`, o.ID, o.Name, o.Price, o.PhoneNumber, o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (t *orderTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *orderTx) Rollback(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return err
}

func (r *OrderRepository) List(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, price, phone_number, created_at
		FROM orders
		ORDER BY created_at DESC
		`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.Name, &o.Price, &o.PhoneNumber, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, price, phone_number, created_at
		FROM orders
		WHERE id=$1
		`, id).Scan(&o.ID, &o.Name, &o.Price, &o.PhoneNumber, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Update is a partial merge: nil fields keep their stored value.
func (r *OrderRepository) Update(ctx context.Context, id string, upd domain.OrderUpdate) (*domain.Order, error) {
	var o domain.Order
	err := r.pool.QueryRow(ctx, `
		UPDATE orders SET
			name=COALESCE($2, name),
			price=COALESCE($3, price),
			phone_number=COALESCE($4, phone_number)
		WHERE id=$1
		RETURNING id, name, price, phone_number, created_at
		`, id, upd.Name, upd.Price, upd.PhoneNumber,
	).Scan(&o.ID, &o.Name, &o.Price, &o.PhoneNumber, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) Delete(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	err := r.pool.QueryRow(ctx, `
		DELETE FROM orders
		WHERE id=$1
		RETURNING id, name, price, phone_number, created_at
		`, id).Scan(&o.ID, &o.Name, &o.Price, &o.PhoneNumber, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}
