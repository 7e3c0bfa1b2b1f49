package repository

import (
	"context"
	"fmt"

	"catalog-api/internal/domain"
)

// DiscountRepository defines the interface for discount data access
type DiscountRepository interface {
	Create(ctx context.Context, discount *domain.Discount) error
	ListByProduct(ctx context.Context, productID int64) ([]domain.Discount, error)
	ListByProducts(ctx context.Context, productIDs []int64) (map[int64][]domain.Discount, error)
}

type discountRepository struct {
	db DBTX
}

// NewDiscountRepository creates a new instance of DiscountRepository
func NewDiscountRepository(db DBTX) DiscountRepository {
	return &discountRepository{db: db}
}

// Create inserts a discount and fills in its generated ID.
func (r *discountRepository) Create(ctx context.Context, discount *domain.Discount) error {
	query := `
		INSERT INTO discounts (product_id, discount_type, value)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		discount.ProductID,
		string(discount.Type),
		discount.Value,
	).Scan(&discount.ID)

	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to create discount: %w", err)
	}

	return nil
}

// ListByProduct returns the discounts of one product ordered by id.
func (r *discountRepository) ListByProduct(ctx context.Context, productID int64) ([]domain.Discount, error) {
	byProduct, err := r.ListByProducts(ctx, []int64{productID})
	if err != nil {
		return nil, err
	}
	return byProduct[productID], nil
}

// ListByProducts loads the discounts of every given product in one query,
// keyed by product id, each slice ordered by discount id.
func (r *discountRepository) ListByProducts(ctx context.Context, productIDs []int64) (map[int64][]domain.Discount, error) {
	byProduct := make(map[int64][]domain.Discount, len(productIDs))
	if len(productIDs) == 0 {
		return byProduct, nil
	}

	query := `
		SELECT id, product_id, discount_type, value
		FROM discounts
		WHERE product_id = ANY($1)
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list discounts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			discount     domain.Discount
			discountType string
		)
		if err := rows.Scan(&discount.ID, &discount.ProductID, &discountType, &discount.Value); err != nil {
			return nil, fmt.Errorf("failed to scan discount: %w", err)
		}
		discount.Type = domain.DiscountType(discountType)
		byProduct[discount.ProductID] = append(byProduct[discount.ProductID], discount)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating discounts: %w", err)
	}

	return byProduct, nil
}
