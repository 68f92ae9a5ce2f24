package products

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/asemenkov/ecomm-backend/internal/cache"
	"github.com/asemenkov/ecomm-backend/internal/domain"
)

//go:generate mockgen -source internal/products/service.go -destination=internal/products/service_mock_test.go -package=products

type Invalidator interface {
	Del(ctx context.Context, keys ...string)
}

// Service is plain CRUD over the product store plus the embedded review
// sub-resource. Mutations invalidate the entity, collection and review keys
// before returning; reads go straight to the store (response caching is a
// transport concern).
type Service struct {
	store  domain.ProductStore
	cache  Invalidator
	logger *zap.Logger
}

func NewService(store domain.ProductStore, cache Invalidator, logger *zap.Logger) *Service {
	return &Service{
		store:  store,
		cache:  cache,
		logger: logger,
	}
}

func (s *Service) CreateProduct(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error) {
	p, err := s.store.Create(ctx, req)
	if err != nil {
		s.logger.Error("create product", zap.Error(err))
		return nil, &domain.PersistenceError{Op: "insert product", Err: err}
	}
	s.cache.Del(ctx, cache.ProductsKey)
	s.logger.Info("product created", zap.String("product_id", p.ID))
	return p, nil
}

func (s *Service) Products(ctx context.Context, f domain.ProductFilter) ([]domain.Product, int, error) {
	return s.store.List(ctx, f)
}

func (s *Service) ProductByID(ctx context.Context, id string) (*domain.Product, error) {
	return s.store.GetByID(ctx, id)
}

func (s *Service) UpdateProduct(ctx context.Context, id string, upd domain.ProductUpdate) (*domain.Product, error) {
	p, err := s.store.Update(ctx, id, upd)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		s.logger.Error("update product", zap.String("product_id", id), zap.Error(err))
		return nil, &domain.PersistenceError{Op: "update product", Err: err}
	}
	s.cache.Del(ctx, cache.ProductKey(id), cache.ProductsKey)
	return p, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) (*domain.Product, error) {
	p, err := s.store.Delete(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		s.logger.Error("delete product", zap.String("product_id", id), zap.Error(err))
		return nil, &domain.PersistenceError{Op: "delete product", Err: err}
	}
	s.cache.Del(ctx, cache.ProductKey(id), cache.ProductsKey, cache.ProductReviewsKey(id))
	return p, nil
}

func (s *Service) Reviews(ctx context.Context, productID string) ([]domain.Review, error) {
	p, err := s.store.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return p.Reviews, nil
}

func (s *Service) AddReview(ctx context.Context, productID string, req domain.CreateReviewRequest) (*domain.Product, error) {
	p, err := s.store.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	reviews := append(p.Reviews, domain.Review{
		ID:        uuid.NewString(),
		User:      req.User,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: time.Now().UTC(),
	})
	return s.saveReviews(ctx, productID, reviews)
}

func (s *Service) UpdateReview(ctx context.Context, productID, reviewID string, upd domain.ReviewUpdate) (*domain.Product, error) {
	p, err := s.store.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	i := findReview(p.Reviews, reviewID)
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	r := &p.Reviews[i]
	if upd.User != nil {
		r.User = *upd.User
	}
	if upd.Rating != nil {
		r.Rating = *upd.Rating
	}
	if upd.Comment != nil {
		r.Comment = *upd.Comment
	}
	return s.saveReviews(ctx, productID, p.Reviews)
}

func (s *Service) DeleteReview(ctx context.Context, productID, reviewID string) (*domain.Product, error) {
	p, err := s.store.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	i := findReview(p.Reviews, reviewID)
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	reviews := append(p.Reviews[:i], p.Reviews[i+1:]...)
	return s.saveReviews(ctx, productID, reviews)
}

func (s *Service) Search(ctx context.Context, query string) ([]domain.Product, error) {
	return s.store.Search(ctx, query)
}

func (s *Service) saveReviews(ctx context.Context, productID string, reviews []domain.Review) (*domain.Product, error) {
	p, err := s.store.SetReviews(ctx, productID, reviews)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		s.logger.Error("save reviews", zap.String("product_id", productID), zap.Error(err))
		return nil, &domain.PersistenceError{Op: "save reviews", Err: err}
	}
	s.cache.Del(ctx, cache.ProductKey(productID), cache.ProductsKey, cache.ProductReviewsKey(productID))
	return p, nil
}

func findReview(reviews []domain.Review, id string) int {
	for i := range reviews {
		if reviews[i].ID == id {
			return i
		}
	}
	return -1
}
