package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DiscountType tags how a discount's Value is interpreted.
type DiscountType string

const (
	DiscountPercentage DiscountType = "PERCENTAGE"
	DiscountFixed      DiscountType = "FIXED"
)

var hundred = decimal.NewFromInt(100)

// Valid reports whether t is a known discount type.
func (t DiscountType) Valid() bool {
	return t == DiscountPercentage || t == DiscountFixed
}

// Discount is a price reduction attached to a single product.
type Discount struct {
	ID        int64           `json:"id" db:"id"`
	ProductID int64           `json:"product" db:"product_id"`
	Type      DiscountType    `json:"discount_type" db:"discount_type"`
	Value     decimal.Decimal `json:"value" db:"value"`
}

// Reduction returns the absolute amount this discount takes off price.
// It is not clamped; callers clamp the final price at zero.
func (d Discount) Reduction(price decimal.Decimal) decimal.Decimal {
	switch d.Type {
	case DiscountPercentage:
		return price.Mul(d.Value).Div(hundred)
	case DiscountFixed:
		return d.Value
	default:
		return decimal.Zero
	}
}

// Validate enforces the value range for the discount's type. The product
// reference is checked by the service.
func (d *Discount) Validate() error {
	v := &ValidationError{}
	if d.ProductID <= 0 {
		v.Add("product", "This field is required.")
	}

	switch d.Type {
	case DiscountPercentage:
		if !d.Value.IsPositive() || d.Value.GreaterThan(hundred) {
			v.Add(NonFieldErrors, "Percentage discount must be greater than 0 and at most 100.")
		}
	case DiscountFixed:
		if !d.Value.IsPositive() {
			v.Add(NonFieldErrors, "Fixed discount value must be greater than 0.")
		}
	default:
		v.Add("discount_type", fmt.Sprintf("%q is not a valid choice.", string(d.Type)))
	}

	if !v.HasErrors() {
		validateMoney(v, "value", d.Value)
	}
	return v.OrNil()
}
