package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/asemenkov/ecomm-backend/internal/cache"
	"github.com/asemenkov/ecomm-backend/internal/domain"
	"github.com/asemenkov/ecomm-backend/internal/observability"
)

//go:generate mockgen -source internal/httpapi/orders.go -destination=internal/httpapi/orders_mock_test.go -package=httpapi

type OrdersService interface {
	CreateOrder(ctx context.Context, req domain.CreateOrderRequest, credential string) (*domain.Order, error)
	Orders(ctx context.Context) ([]domain.Order, error)
	OrderByID(ctx context.Context, id string) (*domain.Order, error)
	UpdateOrder(ctx context.Context, id string, upd domain.OrderUpdate) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id string) (*domain.Order, error)
}

// ResponseCache caches whole JSON responses for GET routes, keyed by the
// same keys the services invalidate. A ttl of zero disables caching for
// that route.
type ResponseCache interface {
	Get(ctx context.Context, key string) (string, bool)
	SetTTL(ctx context.Context, key, value string, ttl time.Duration)
}

type OrdersHandler struct {
	svc      OrdersService
	pages    ResponseCache
	pageTTL  time.Duration
	validate *validator.Validate
	logger   *zap.Logger
}

func NewOrdersHandler(svc OrdersService, pages ResponseCache, pageTTL time.Duration, logger *zap.Logger) *OrdersHandler {
	return &OrdersHandler{
		svc:      svc,
		pages:    pages,
		pageTTL:  pageTTL,
		validate: validator.New(),
		logger:   logger,
	}
}

func (h *OrdersHandler) Router(metrics observability.Metrics) chi.Router {
	r := chi.NewRouter()
	r.Use(ServerTiming(metrics))

	r.With(RequireCredential).Post("/orders", h.createOrder)
	r.Get("/orders", h.getOrders)
	r.Get("/orders/{id}", h.getOrderByID)
	r.Put("/orders/{id}", h.updateOrder)
	r.Delete("/orders/{id}", h.deleteOrder)
	return r
}

func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateOrderRequest
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

	order, err := h.svc.CreateOrder(r.Context(), req, credentialFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

// cached serves a GET route through the response cache.
func (h *OrdersHandler) cached(w http.ResponseWriter, r *http.Request, key string, fetch func() (any, error)) {
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

func (h *OrdersHandler) getOrders(w http.ResponseWriter, r *http.Request) {
	h.cached(w, r, cache.OrdersKey, func() (any, error) {
		orders, err := h.svc.Orders(r.Context())
		if err != nil {
			return nil, err
		}
		if orders == nil {
			orders = []domain.Order{}
		}
		return orders, nil
	})
}

func (h *OrdersHandler) getOrderByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.cached(w, r, cache.OrderKey(id), func() (any, error) {
		return h.svc.OrderByID(r.Context(), id)
	})
}

func (h *OrdersHandler) updateOrder(w http.ResponseWriter, r *http.Request) {
	var upd domain.OrderUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeBadRequest(w, "bad json")
		return
	}
	if err := h.validate.Struct(upd); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	order, err := h.svc.UpdateOrder(r.Context(), chi.URLParam(r, "id"), upd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *OrdersHandler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.svc.DeleteOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}
