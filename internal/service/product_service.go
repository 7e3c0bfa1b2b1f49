package service

import (
	"context"
	"errors"
	"fmt"

	"catalog-api/internal/domain"
	"catalog-api/internal/pagination"
	"catalog-api/internal/pricing"
	"catalog-api/internal/repository"
)

const duplicateProductName = "A product with this name already exists."

// ProductService defines the interface for product business logic
type ProductService interface {
	List(ctx context.Context, filter repository.ProductFilter, req pagination.Request) ([]*domain.PricedProduct, pagination.Page, error)
	Get(ctx context.Context, id int64) (*domain.PricedProduct, error)
	Create(ctx context.Context, product *domain.Product) (*domain.PricedProduct, error)
	Delete(ctx context.Context, id int64) error
}

type productService struct {
	products  repository.ProductRepository
	discounts repository.DiscountRepository
	tx        repository.TxRunner
}

// NewProductService creates a new instance of ProductService
func NewProductService(
	products repository.ProductRepository,
	discounts repository.DiscountRepository,
	tx repository.TxRunner,
) ProductService {
	return &productService{
		products:  products,
		discounts: discounts,
		tx:        tx,
	}
}

// List returns one page of products with their final prices. Discounts for
// the whole page are loaded in one batch.
func (s *productService) List(ctx context.Context, filter repository.ProductFilter, req pagination.Request) ([]*domain.PricedProduct, pagination.Page, error) {
	count, err := s.products.Count(ctx, filter)
	if err != nil {
		return nil, pagination.Page{}, fmt.Errorf("failed to count products: %w", err)
	}

	page, err := pagination.Resolve(req, count)
	if err != nil {
		return nil, pagination.Page{}, err
	}

	products, err := s.products.List(ctx, filter, page.Limit(), page.Offset())
	if err != nil {
		return nil, pagination.Page{}, fmt.Errorf("failed to list products: %w", err)
	}

	ids := make([]int64, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	byProduct, err := s.discounts.ListByProducts(ctx, ids)
	if err != nil {
		return nil, pagination.Page{}, fmt.Errorf("failed to load discounts: %w", err)
	}

	return pricing.Apply(products, byProduct), page, nil
}

// Get returns a single product with its final price.
func (s *productService) Get(ctx context.Context, id int64) (*domain.PricedProduct, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	discounts, err := s.discounts.ListByProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load discounts: %w", err)
	}

	return &domain.PricedProduct{
		Product:    *product,
		FinalPrice: pricing.FinalPrice(product.Price, discounts),
	}, nil
}

// Create validates and stores a new product. A fresh product has no
// discounts, so its final price equals its price.
func (s *productService) Create(ctx context.Context, product *domain.Product) (*domain.PricedProduct, error) {
	err := s.tx.Run(ctx, nil, func(repos repository.Repositories) error {
		if err := validateProduct(ctx, repos, product); err != nil {
			return err
		}

		if err := repos.Products.Create(ctx, product); err != nil {
			switch {
			case errors.Is(err, repository.ErrProductAlreadyExists):
				return domain.NewValidationError("name", duplicateProductName)
			case errors.Is(err, repository.ErrCategoryNotFound):
				return domain.NewValidationError("category", doesNotExist(product.CategoryID))
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &domain.PricedProduct{
		Product:    *product,
		FinalPrice: pricing.FinalPrice(product.Price, nil),
	}, nil
}

// Delete removes a product together with its discounts.
func (s *productService) Delete(ctx context.Context, id int64) error {
	return s.products.Delete(ctx, id)
}

func validateProduct(ctx context.Context, repos repository.Repositories, product *domain.Product) error {
	v := &domain.ValidationError{}
	if err := collect(v, product.Validate()); err != nil {
		return err
	}

	if _, ok := v.Fields["name"]; !ok {
		taken, err := repos.Products.ExistsByName(ctx, product.Name)
		if err != nil {
			return err
		}
		if taken {
			v.Add("name", duplicateProductName)
		}
	}

	if product.CategoryID > 0 {
		if _, err := repos.Categories.FindByID(ctx, product.CategoryID); err != nil {
			if !errors.Is(err, repository.ErrCategoryNotFound) {
				return err
			}
			v.Add("category", doesNotExist(product.CategoryID))
		}
	}

	return v.OrNil()
}
