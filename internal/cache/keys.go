package cache

// Key scheme is deliberately uniform across create/update/delete paths:
// a collection key per resource and "resource:<id>" per entity.
const (
	OrdersKey   = "orders"
	ProductsKey = "products"
)

func OrderKey(id string) string { return "order:" + id }

func ProductKey(id string) string { return "product:" + id }

func ProductReviewsKey(id string) string { return "product:" + id + ":reviews" }

// ProductSearchKey entries are per query, so mutations cannot enumerate and
// drop them. They only age out with the TTL.
func ProductSearchKey(query string) string { return "products:search:" + query }
