package service

import (
	"context"
	"fmt"
	"testing"

	"catalog-api/internal/domain"
	"catalog-api/internal/pagination"
	"catalog-api/internal/repository"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCategory(t *testing.T, c *catalog, name string) int64 {
	t.Helper()
	node, err := c.categories.Create(context.Background(), &domain.Category{Name: name})
	require.NoError(t, err)
	return node.ID
}

func seedProduct(t *testing.T, c *catalog, name, price string, categoryID int64) *domain.PricedProduct {
	t.Helper()
	p, err := c.products.Create(context.Background(), &domain.Product{
		Name:          name,
		Description:   name + " description",
		Price:         decimal.RequireFromString(price),
		StockQuantity: 10,
		CategoryID:    categoryID,
	})
	require.NoError(t, err)
	return p
}

func TestProductService_CreateRejectsDuplicateName(t *testing.T) {
	c := newCatalog()
	ctx := context.Background()
	electronics := seedCategory(t, c, "Electronics")

	laptop := seedProduct(t, c, "Laptop", "1000.00", electronics)
	assert.Equal(t, "1000.00", domain.FormatMoney(laptop.FinalPrice))

	_, err := c.products.Create(ctx, &domain.Product{
		Name: "Laptop", Description: "Another one", Price: decimal.NewFromInt(1), CategoryID: electronics,
	})
	fields := validationFields(t, err)
	assert.Equal(t, []string{"A product with this name already exists."}, fields["name"])
}

func TestProductService_CreateCollectsEveryFieldError(t *testing.T) {
	c := newCatalog()

	_, err := c.products.Create(context.Background(), &domain.Product{
		Name:          "Broken",
		Description:   "",
		Price:         decimal.RequireFromString("-1"),
		StockQuantity: -3,
		CategoryID:    77,
	})
	fields := validationFields(t, err)
	assert.Contains(t, fields, "description")
	assert.Contains(t, fields, "price")
	assert.Contains(t, fields, "stock_quantity")
	assert.Equal(t, []string{`Invalid pk "77" - object does not exist.`}, fields["category"])
	assert.Empty(t, c.store.products)
}

func TestProductService_GetAppliesBestDiscount(t *testing.T) {
	c := newCatalog()
	ctx := context.Background()
	electronics := seedCategory(t, c, "Electronics")
	laptop := seedProduct(t, c, "Laptop", "1000.00", electronics)

	_, err := c.discounts.Create(ctx, &domain.Discount{ProductID: laptop.ID, Type: domain.DiscountPercentage, Value: decimal.NewFromInt(10)})
	require.NoError(t, err)
	_, err = c.discounts.Create(ctx, &domain.Discount{ProductID: laptop.ID, Type: domain.DiscountFixed, Value: decimal.NewFromInt(50)})
	require.NoError(t, err)

	got, err := c.products.Get(ctx, laptop.ID)
	require.NoError(t, err)
	assert.Equal(t, "900.00", domain.FormatMoney(got.FinalPrice))
	assert.Equal(t, "1000.00", domain.FormatMoney(got.Price))

	_, err = c.products.Get(ctx, 4242)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductService_ListPaginatesAndBatchesDiscounts(t *testing.T) {
	c := newCatalog()
	ctx := context.Background()
	category := seedCategory(t, c, "Bulk")
	for i := 1; i <= 25; i++ {
		p := seedProduct(t, c, fmt.Sprintf("Item %02d", i), "10.00", category)
		_, err := c.discounts.Create(ctx, &domain.Discount{ProductID: p.ID, Type: domain.DiscountFixed, Value: decimal.NewFromInt(1)})
		require.NoError(t, err)
	}

	c.store.discountBatchCalls = 0
	products, page, err := c.products.List(ctx, repository.ProductFilter{}, pagination.Request{Page: "3", Size: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, c.store.discountBatchCalls)
	assert.Equal(t, 25, page.Count)
	assert.Equal(t, 3, page.Number)
	require.Len(t, products, 5)
	assert.Equal(t, "Item 21", products[0].Name)
	for _, p := range products {
		assert.Equal(t, "9.00", domain.FormatMoney(p.FinalPrice))
	}

	_, _, err = c.products.List(ctx, repository.ProductFilter{}, pagination.Request{Page: "4", Size: 10})
	assert.ErrorIs(t, err, pagination.ErrInvalidPage)

	_, page, err = c.products.List(ctx, repository.ProductFilter{}, pagination.Request{Page: pagination.LastPage, Size: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Number)
}

func TestProductService_ListFiltersByCategory(t *testing.T) {
	c := newCatalog()
	ctx := context.Background()
	books := seedCategory(t, c, "Books")
	toys := seedProduct(t, c, "Toy", "5.00", seedCategory(t, c, "Toys"))
	seedProduct(t, c, "Novel", "12.50", books)

	products, page, err := c.products.List(ctx, repository.ProductFilter{CategoryID: &books}, pagination.Request{Size: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Count)
	require.Len(t, products, 1)
	assert.Equal(t, "Novel", products[0].Name)
	assert.NotEqual(t, toys.ID, products[0].ID)

	empty, page, err := c.products.List(ctx, repository.ProductFilter{CategoryID: ptr(int64(999))}, pagination.Request{Size: 10})
	require.NoError(t, err)
	assert.Zero(t, page.Count)
	assert.Empty(t, empty)
}

func TestProductService_Delete(t *testing.T) {
	c := newCatalog()
	ctx := context.Background()
	p := seedProduct(t, c, "Gone", "1.00", seedCategory(t, c, "Misc"))

	require.NoError(t, c.products.Delete(ctx, p.ID))
	assert.ErrorIs(t, c.products.Delete(ctx, p.ID), repository.ErrProductNotFound)
}

// The final price of any listed product stays within [0, price] whatever
// discounts it carries.
func TestProperty_ListedFinalPriceWithinBounds(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("final price never exceeds price and is never negative", prop.ForAll(
		func(priceCents int64, percent int64, fixedCents int64) bool {
			c := newCatalog()
			ctx := context.Background()
			category, err := c.categories.Create(ctx, &domain.Category{Name: "Prop"})
			if err != nil {
				return false
			}
			product, err := c.products.Create(ctx, &domain.Product{
				Name: "P", Description: "d", Price: decimal.New(priceCents, -2), CategoryID: category.ID,
			})
			if err != nil {
				return false
			}
			if _, err := c.discounts.Create(ctx, &domain.Discount{ProductID: product.ID, Type: domain.DiscountPercentage, Value: decimal.NewFromInt(percent)}); err != nil {
				return false
			}
			if _, err := c.discounts.Create(ctx, &domain.Discount{ProductID: product.ID, Type: domain.DiscountFixed, Value: decimal.New(fixedCents, -2)}); err != nil {
				return false
			}

			listed, _, err := c.products.List(ctx, repository.ProductFilter{}, pagination.Request{Size: 10})
			if err != nil || len(listed) != 1 {
				return false
			}
			final := listed[0].FinalPrice
			return !final.IsNegative() && final.LessThanOrEqual(product.Price)
		},
		gen.Int64Range(0, 9999999),
		gen.Int64Range(1, 100),
		gen.Int64Range(1, 9999999),
	))

	properties.TestingRun(t)
}
