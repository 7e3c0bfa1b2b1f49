package domain

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MaxStockQuantity is the largest stock the store's INTEGER column holds.
const MaxStockQuantity = math.MaxInt32

// Product represents a product in the catalog. Created is assigned by the
// store on insert and never changes afterwards.
type Product struct {
	ID            int64           `json:"id" db:"id"`
	CategoryID    int64           `json:"category" db:"category_id"`
	Name          string          `json:"name" db:"name"`
	Description   string          `json:"description" db:"description"`
	Price         decimal.Decimal `json:"price" db:"price"`
	StockQuantity int             `json:"stock_quantity" db:"stock_quantity"`
	Created       time.Time       `json:"created" db:"created"`
}

// Validate checks the product fields that do not need the store.
func (p *Product) Validate() error {
	v := &ValidationError{}
	validateName(v, p.Name)
	if strings.TrimSpace(p.Description) == "" {
		v.Add("description", "This field may not be blank.")
	}
	if p.Price.IsNegative() {
		v.Add("price", "Ensure this value is greater than or equal to 0.")
	} else {
		validateMoney(v, "price", p.Price)
	}
	switch {
	case p.StockQuantity < 0:
		v.Add("stock_quantity", "Ensure this value is greater than or equal to 0.")
	case p.StockQuantity > MaxStockQuantity:
		v.Add("stock_quantity", fmt.Sprintf("Ensure this value is less than or equal to %d.", MaxStockQuantity))
	}
	if p.CategoryID <= 0 {
		v.Add("category", "This field is required.")
	}
	return v.OrNil()
}

// PricedProduct is a product together with the price left after its best
// discount.
type PricedProduct struct {
	Product
	FinalPrice decimal.Decimal
}
