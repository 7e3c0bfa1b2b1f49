package transport

import (
	"time"

	"catalog-api/internal/domain"

	"github.com/shopspring/decimal"
)

// Money decodes a JSON number or numeric string. A value that does not parse
// is flagged instead of failing the whole body, so it can be reported against
// its field.
type Money struct {
	decimal.Decimal
	Malformed bool `json:"-"`
}

func (m *Money) UnmarshalJSON(data []byte) error {
	if err := m.Decimal.UnmarshalJSON(data); err != nil {
		m.Malformed = true
	}
	return nil
}

const invalidNumber = "A valid number is required."

func checkMoney(fields map[string][]string, field string, m *Money) {
	if m != nil && m.Malformed {
		fields[field] = append(fields[field], invalidNumber)
	}
}

// CategoryRequest is the body of category create and update requests.
type CategoryRequest struct {
	Name        *string `json:"name" validate:"required"`
	Description *string `json:"description"`
	Parent      *int64  `json:"parent"`
}

func (r *CategoryRequest) malformed() map[string][]string { return nil }

func (r *CategoryRequest) toDomain(id int64) *domain.Category {
	return &domain.Category{
		ID:          id,
		Name:        *r.Name,
		Description: r.Description,
		ParentID:    r.Parent,
	}
}

// ProductRequest is the body of a product create request.
type ProductRequest struct {
	Name          *string `json:"name" validate:"required"`
	Description   *string `json:"description" validate:"required"`
	Price         *Money  `json:"price" validate:"required"`
	StockQuantity *int    `json:"stock_quantity" validate:"required"`
	Category      *int64  `json:"category" validate:"required"`
}

func (r *ProductRequest) malformed() map[string][]string {
	fields := make(map[string][]string)
	checkMoney(fields, "price", r.Price)
	return fields
}

func (r *ProductRequest) toDomain() *domain.Product {
	return &domain.Product{
		Name:          *r.Name,
		Description:   *r.Description,
		Price:         r.Price.Decimal,
		StockQuantity: *r.StockQuantity,
		CategoryID:    *r.Category,
	}
}

// DiscountRequest is the body of a discount create request.
type DiscountRequest struct {
	Product      *int64  `json:"product" validate:"required"`
	DiscountType *string `json:"discount_type" validate:"required"`
	Value        *Money  `json:"value" validate:"required"`
}

func (r *DiscountRequest) malformed() map[string][]string {
	fields := make(map[string][]string)
	checkMoney(fields, "value", r.Value)
	return fields
}

func (r *DiscountRequest) toDomain() *domain.Discount {
	return &domain.Discount{
		ProductID: *r.Product,
		Type:      domain.DiscountType(*r.DiscountType),
		Value:     r.Value.Decimal,
	}
}

// CategoryResponse is a category with its subcategories expanded.
type CategoryResponse struct {
	ID            int64              `json:"id"`
	Name          string             `json:"name"`
	Description   *string            `json:"description"`
	Parent        *int64             `json:"parent"`
	Subcategories []CategoryResponse `json:"subcategories"`
}

func newCategoryResponse(node *domain.CategoryNode) CategoryResponse {
	resp := CategoryResponse{
		ID:            node.ID,
		Name:          node.Name,
		Description:   node.Description,
		Parent:        node.ParentID,
		Subcategories: make([]CategoryResponse, 0, len(node.Subcategories)),
	}
	for _, child := range node.Subcategories {
		resp.Subcategories = append(resp.Subcategories, newCategoryResponse(child))
	}
	return resp
}

func newCategoryResponses(nodes []*domain.CategoryNode) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(nodes))
	for _, node := range nodes {
		out = append(out, newCategoryResponse(node))
	}
	return out
}

// ProductResponse is a product as served by the API. Money fields are
// fixed two-place strings.
type ProductResponse struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         string    `json:"price"`
	FinalPrice    string    `json:"final_price"`
	StockQuantity int       `json:"stock_quantity"`
	Created       time.Time `json:"created"`
	Category      int64     `json:"category"`
}

func newProductResponse(p *domain.PricedProduct) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         domain.FormatMoney(p.Price),
		FinalPrice:    domain.FormatMoney(p.FinalPrice),
		StockQuantity: p.StockQuantity,
		Created:       p.Created,
		Category:      p.CategoryID,
	}
}

func newProductResponses(products []*domain.PricedProduct) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, newProductResponse(p))
	}
	return out
}

// DiscountResponse is a stored discount.
type DiscountResponse struct {
	ID           int64  `json:"id"`
	Product      int64  `json:"product"`
	DiscountType string `json:"discount_type"`
	Value        string `json:"value"`
}

func newDiscountResponse(d *domain.Discount) DiscountResponse {
	return DiscountResponse{
		ID:           d.ID,
		Product:      d.ProductID,
		DiscountType: string(d.Type),
		Value:        domain.FormatMoney(d.Value),
	}
}
