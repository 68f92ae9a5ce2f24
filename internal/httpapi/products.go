package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/asemenkov/ecomm-backend/internal/cache"
	"github.com/asemenkov/ecomm-backend/internal/domain"
	"github.com/asemenkov/ecomm-backend/internal/observability"
)

type ProductsService interface {
	CreateProduct(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error)
	Products(ctx context.Context, f domain.ProductFilter) ([]domain.Product, int, error)
	ProductByID(ctx context.Context, id string) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, upd domain.ProductUpdate) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) (*domain.Product, error)
	Reviews(ctx context.Context, productID string) ([]domain.Review, error)
	AddReview(ctx context.Context, productID string, req domain.CreateReviewRequest) (*domain.Product, error)
	UpdateReview(ctx context.Context, productID, reviewID string, upd domain.ReviewUpdate) (*domain.Product, error)
	DeleteReview(ctx context.Context, productID, reviewID string) (*domain.Product, error)
	Search(ctx context.Context, query string) ([]domain.Product, error)
}

type listResponse struct {
	Data  []domain.Product `json:"data"`
	Total int              `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

type ProductsHandler struct {
	svc      ProductsService
	pages    ResponseCache
	pageTTL  time.Duration
	validate *validator.Validate
	logger   *zap.Logger
}

func NewProductsHandler(svc ProductsService, pages ResponseCache, pageTTL time.Duration, logger *zap.Logger) *ProductsHandler {
	return &ProductsHandler{
		svc:      svc,
		pages:    pages,
		pageTTL:  pageTTL,
		validate: validator.New(),
		logger:   logger,
	}
}

func (h *ProductsHandler) Router(metrics observability.Metrics) chi.Router {
	r := chi.NewRouter()
	r.Use(ServerTiming(metrics))

	// List and entity reads are uncached: filters make list pages too varied
	// to key safely, and the entity page goes stale under frequent stock
	// updates. Reviews and search change rarely and are cached; review keys
	// are invalidated by the service, search entries only age out.
	r.Get("/products", h.listProducts)
	r.Get("/products/{id}", h.getProductByID)
	r.Post("/products", h.createProduct)
	r.Patch("/products/{id}", h.updateProduct)
	r.Delete("/products/{id}", h.deleteProduct)

	r.Get("/products/{id}/reviews", h.getReviews)
	r.Post("/products/{id}/reviews", h.addReview)
	r.Put("/products/{id}/reviews/{reviewId}", h.updateReview)
	r.Delete("/products/{id}/reviews/{reviewId}", h.deleteReview)

	r.Get("/products/search/{query}", h.searchProducts)
	return r
}

func filterFromQuery(r *http.Request) domain.ProductFilter {
	q := r.URL.Query()
	atoi := func(k string, def int) int {
		v, err := strconv.Atoi(q.Get(k))
		if err != nil {
			return def
		}
		return v
	}
	atof := func(k string) float64 {
		v, _ := strconv.ParseFloat(q.Get(k), 64)
		return v
	}
	return domain.ProductFilter{
		Brand:    q.Get("brand"),
		MinPrice: atof("minPrice"),
		MaxPrice: atof("maxPrice"),
		Page:     atoi("page", 1),
		Limit:    atoi("limit", 10),
		Sort:     q.Get("sort"),
		Order:    q.Get("order"),
	}
}

func (h *ProductsHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r)
	data, total, err := h.svc.Products(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}
	if data == nil {
		data = []domain.Product{}
	}
	writeJSON(w, http.StatusOK, listResponse{Data: data, Total: total, Page: f.Page, Limit: f.Limit})
}

func (h *ProductsHandler) getProductByID(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.ProductByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductsHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateProductRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeBadRequest(w, "bad json")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	p, err := h.svc.CreateProduct(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *ProductsHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var upd domain.ProductUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeBadRequest(w, "bad json")
		return
	}
	if err := h.validate.Struct(upd); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	p, err := h.svc.UpdateProduct(r.Context(), chi.URLParam(r, "id"), upd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductsHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.DeleteProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// cached serves a GET route through the response cache.
func (h *ProductsHandler) cached(w http.ResponseWriter, r *http.Request, key string, fetch func() (any, error)) {
	if body, ok := h.pages.Get(r.Context(), key); ok {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("X-Cache", "hit")
		_, _ = w.Write([]byte(body))
		return
	}

	v, err := fetch()
	if err != nil {
		writeError(w, err)
		return
	}
	body, err := json.Marshal(v)
	if err != nil {
		writeError(w, err)
		return
	}
	h.pages.SetTTL(r.Context(), key, string(body), h.pageTTL)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write(body)
}

func (h *ProductsHandler) getReviews(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.cached(w, r, cache.ProductReviewsKey(id), func() (any, error) {
		reviews, err := h.svc.Reviews(r.Context(), id)
		if err != nil {
			return nil, err
		}
		if reviews == nil {
			reviews = []domain.Review{}
		}
		return reviews, nil
	})
}

func (h *ProductsHandler) addReview(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "bad json")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	p, err := h.svc.AddReview(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *ProductsHandler) updateReview(w http.ResponseWriter, r *http.Request) {
	var upd domain.ReviewUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeBadRequest(w, "bad json")
		return
	}
	if err := h.validate.Struct(upd); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	p, err := h.svc.UpdateReview(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "reviewId"), upd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductsHandler) deleteReview(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.DeleteReview(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "reviewId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductsHandler) searchProducts(w http.ResponseWriter, r *http.Request) {
	query := chi.URLParam(r, "query")
	h.cached(w, r, cache.ProductSearchKey(query), func() (any, error) {
		products, err := h.svc.Search(r.Context(), query)
		if err != nil {
			return nil, err
		}
		if products == nil {
			products = []domain.Product{}
		}
		return products, nil
	})
}
