package domain

import "context"

// OrderTx is a transaction scope owned by exactly one CreateOrder call. It
// must be released on every exit path; Rollback after a successful Commit is
// a no-op, which makes `defer tx.Rollback(ctx)` the release mechanism.
type OrderTx interface {
	Insert(ctx context.Context, req CreateOrderRequest) (*Order, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type OrderStore interface {
	Begin(ctx context.Context) (OrderTx, error)
	List(ctx context.Context) ([]Order, error)
	GetByID(ctx context.Context, id string) (*Order, error)
	// Update and Delete return ErrNotFound when id does not exist.
	Update(ctx context.Context, id string, upd OrderUpdate) (*Order, error)
	Delete(ctx context.Context, id string) (*Order, error)
}

type ProductStore interface {
	Create(ctx context.Context, req CreateProductRequest) (*Product, error)
	List(ctx context.Context, f ProductFilter) ([]Product, int, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	Update(ctx context.Context, id string, upd ProductUpdate) (*Product, error)
	Delete(ctx context.Context, id string) (*Product, error)
	// SetReviews replaces the embedded review list of a product.
	SetReviews(ctx context.Context, id string, reviews []Review) (*Product, error)
	Search(ctx context.Context, query string) ([]Product, error)
}
