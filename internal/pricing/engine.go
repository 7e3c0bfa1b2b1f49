// Package pricing derives the price a customer pays from a product's list
// price and the discounts attached to it.
package pricing

import (
	"catalog-api/internal/domain"

	"github.com/shopspring/decimal"
)

// Best returns the discount with the largest absolute reduction on price.
// Reductions are compared as money, never by raw Value, so a 10% discount on
// 1000.00 beats a FIXED 50.00. On a tie the earliest discount wins.
func Best(price decimal.Decimal, discounts []domain.Discount) (domain.Discount, decimal.Decimal, bool) {
	var (
		best      domain.Discount
		reduction decimal.Decimal
		found     bool
	)
	for _, d := range discounts {
		r := d.Reduction(price)
		if !found || r.GreaterThan(reduction) {
			best, reduction, found = d, r, true
		}
	}
	return best, reduction, found
}

// FinalPrice applies the single best discount to price. The result is never
// negative and is rounded to cents.
func FinalPrice(price decimal.Decimal, discounts []domain.Discount) decimal.Decimal {
	_, reduction, ok := Best(price, discounts)
	if !ok {
		return price
	}
	final := price.Sub(reduction)
	if final.IsNegative() {
		return decimal.Zero
	}
	return final.Round(domain.MoneyDecimalPlaces)
}

// Apply prices every product with the discounts found for it in byProduct.
func Apply(products []*domain.Product, byProduct map[int64][]domain.Discount) []*domain.PricedProduct {
	priced := make([]*domain.PricedProduct, 0, len(products))
	for _, p := range products {
		priced = append(priced, &domain.PricedProduct{
			Product:    *p,
			FinalPrice: FinalPrice(p.Price, byProduct[p.ID]),
		})
	}
	return priced
}
