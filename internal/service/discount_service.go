package service

import (
	"context"
	"errors"

	"catalog-api/internal/domain"
	"catalog-api/internal/repository"
)

// DiscountService defines the interface for discount business logic
type DiscountService interface {
	Create(ctx context.Context, discount *domain.Discount) (*domain.Discount, error)
}

type discountService struct {
	tx repository.TxRunner
}

// NewDiscountService creates a new instance of DiscountService
func NewDiscountService(tx repository.TxRunner) DiscountService {
	return &discountService{tx: tx}
}

// Create attaches a discount to an existing product.
func (s *discountService) Create(ctx context.Context, discount *domain.Discount) (*domain.Discount, error) {
	err := s.tx.Run(ctx, nil, func(repos repository.Repositories) error {
		v := &domain.ValidationError{}
		if err := collect(v, discount.Validate()); err != nil {
			return err
		}

		if discount.ProductID > 0 {
			if _, err := repos.Products.FindByID(ctx, discount.ProductID); err != nil {
				if !errors.Is(err, repository.ErrProductNotFound) {
					return err
				}
				v.Add("product", doesNotExist(discount.ProductID))
			}
		}

		if err := v.OrNil(); err != nil {
			return err
		}

		if err := repos.Discounts.Create(ctx, discount); err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return domain.NewValidationError("product", doesNotExist(discount.ProductID))
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return discount, nil
}
