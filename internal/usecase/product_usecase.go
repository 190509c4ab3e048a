package usecase

import (
	"context"
	"fmt"

	"catalog_service/internal/domain"
	"catalog_service/pkg/clock"

	"github.com/sirupsen/logrus"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// RateLimiter gates mutating actions per user.
type RateLimiter interface {
	CheckAndConsume(ctx context.Context, userID string, action domain.Action) error
}

type ProductUseCase interface {
	GetProductByID(ctx context.Context, id int64) (*domain.Product, error)
	ListProducts(ctx context.Context, page, size int) (*domain.Page, error)
	ListProductsByCategory(ctx context.Context, category string) ([]domain.Product, error)
	CreateProduct(ctx context.Context, input domain.NewProduct, userID string) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, patch domain.ProductPatch, userID string) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64, userID string) error
}

type productUseCase struct {
	productRepo domain.ProductRepository
	limiter     RateLimiter
	clock       clock.Clock
	log         *logrus.Logger
}

func NewProductUseCase(pRepo domain.ProductRepository, limiter RateLimiter, clk clock.Clock, logger *logrus.Logger) ProductUseCase {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &productUseCase{
		productRepo: pRepo,
		limiter:     limiter,
		clock:       clk,
		log:         logger,
	}
}

func (uc *productUseCase) findOrFail(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := uc.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		uc.log.Warnf("Use Case: Product ID %d not found", id)
		return nil, fmt.Errorf("%w by id: %d", domain.ErrProductNotFound, id)
	}
	return product, nil
}

func (uc *productUseCase) GetProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	return uc.findOrFail(ctx, id)
}

func (uc *productUseCase) ListProducts(ctx context.Context, page, size int) (*domain.Page, error) {
	if size > MaxPageSize {
		size = MaxPageSize
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 0 {
		page = 0
	}

	total, err := uc.productRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve products: %w", err)
	}
	totalPages := int((total + int64(size) - 1) / int64(size))

	// Pages past the end are empty; skipping the query also keeps page*size
	// from overflowing for absurd page numbers.
	products := []domain.Product{}
	if page < totalPages {
		products, err = uc.productRepo.FindPage(ctx, page*size, size)
		if err != nil {
			return nil, fmt.Errorf("could not retrieve products: %w", err)
		}
	}
	uc.log.Debugf("Use Case: Listed page %d (size %d) of %d, %d products total", page, size, totalPages, total)

	return &domain.Page{
		Products:      products,
		CurrentPage:   page,
		TotalPages:    totalPages,
		TotalElements: total,
		IsLastPage:    page >= totalPages-1,
	}, nil
}

func (uc *productUseCase) ListProductsByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	products, err := uc.productRepo.FindAllByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve products for category %q: %w", category, err)
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input domain.NewProduct, userID string) (*domain.Product, error) {
	if err := uc.limiter.CheckAndConsume(ctx, userID, domain.ActionCreate); err != nil {
		return nil, err
	}

	existing, err := uc.productRepo.FindByName(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		uc.log.Warnf("Use Case: Product with name '%s' already exists (ID %d)", input.Name, existing.ID)
		return nil, fmt.Errorf("%w: %q", domain.ErrProductConflict, input.Name)
	}

	product := &domain.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		Stock:       input.Stock,
		CreatedAt:   uc.clock.Now(),
	}
	if err := uc.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	uc.log.WithFields(logrus.Fields{
		"product_id": product.ID,
		"name":       product.Name,
		"user_id":    userID,
	}).Info("Use Case: Product created")
	return product, nil
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, id int64, patch domain.ProductPatch, userID string) (*domain.Product, error) {
	if err := uc.limiter.CheckAndConsume(ctx, userID, domain.ActionUpdate); err != nil {
		return nil, err
	}

	product, err := uc.findOrFail(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(product)
	now := uc.clock.Now()
	product.UpdatedAt = &now

	if err := uc.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	uc.log.WithFields(logrus.Fields{
		"product_id": product.ID,
		"user_id":    userID,
	}).Info("Use Case: Product updated")
	return product, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id int64, userID string) error {
	if err := uc.limiter.CheckAndConsume(ctx, userID, domain.ActionDelete); err != nil {
		return err
	}

	if _, err := uc.findOrFail(ctx, id); err != nil {
		return err
	}
	if err := uc.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	uc.log.Infof("Use Case: Product with id %d has been deleted", id)
	return nil
}
