package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"catalog-api/internal/domain"
	"catalog-api/internal/middleware"
	"catalog-api/internal/pagination"
	"catalog-api/internal/repository"
	"catalog-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "handler-secret"

type mockCategoryService struct {
	list   func(ctx context.Context) ([]*domain.CategoryNode, error)
	create func(ctx context.Context, c *domain.Category) (*domain.CategoryNode, error)
	update func(ctx context.Context, c *domain.Category) (*domain.CategoryNode, error)
	delete func(ctx context.Context, id int64) error
}

func (m *mockCategoryService) List(ctx context.Context) ([]*domain.CategoryNode, error) {
	return m.list(ctx)
}

func (m *mockCategoryService) Create(ctx context.Context, c *domain.Category) (*domain.CategoryNode, error) {
	return m.create(ctx, c)
}

func (m *mockCategoryService) Update(ctx context.Context, c *domain.Category) (*domain.CategoryNode, error) {
	return m.update(ctx, c)
}

func (m *mockCategoryService) Delete(ctx context.Context, id int64) error {
	return m.delete(ctx, id)
}

type mockProductService struct {
	list   func(ctx context.Context, f repository.ProductFilter, req pagination.Request) ([]*domain.PricedProduct, pagination.Page, error)
	get    func(ctx context.Context, id int64) (*domain.PricedProduct, error)
	create func(ctx context.Context, p *domain.Product) (*domain.PricedProduct, error)
	delete func(ctx context.Context, id int64) error
}

func (m *mockProductService) List(ctx context.Context, f repository.ProductFilter, req pagination.Request) ([]*domain.PricedProduct, pagination.Page, error) {
	return m.list(ctx, f, req)
}

func (m *mockProductService) Get(ctx context.Context, id int64) (*domain.PricedProduct, error) {
	return m.get(ctx, id)
}

func (m *mockProductService) Create(ctx context.Context, p *domain.Product) (*domain.PricedProduct, error) {
	return m.create(ctx, p)
}

func (m *mockProductService) Delete(ctx context.Context, id int64) error {
	return m.delete(ctx, id)
}

type mockDiscountService struct {
	create func(ctx context.Context, d *domain.Discount) (*domain.Discount, error)
}

func (m *mockDiscountService) Create(ctx context.Context, d *domain.Discount) (*domain.Discount, error) {
	return m.create(ctx, d)
}

var (
	_ service.CategoryService = (*mockCategoryService)(nil)
	_ service.ProductService  = (*mockProductService)(nil)
	_ service.DiscountService = (*mockDiscountService)(nil)
)

func newTestRouter(categories service.CategoryService, products service.ProductService, discounts service.DiscountService) http.Handler {
	logger := zap.NewNop()
	admin := func(next http.Handler) http.Handler {
		return middleware.AuthMiddleware(testSecret, logger)(middleware.RequireAdmin(logger)(next))
	}

	r := chi.NewRouter()
	r.NotFound(NotFound)
	r.MethodNotAllowed(MethodNotAllowed)
	r.Route("/api", func(r chi.Router) {
		NewCategoryHandler(categories, logger).RegisterRoutes(r, admin)
		NewProductHandler(products, pagination.DefaultConfig(), logger).RegisterRoutes(r, admin)
		NewDiscountHandler(discounts, logger).RegisterRoutes(r)
	})
	return r
}

func doRequest(t *testing.T, h http.Handler, method, target string, body any, token string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded), w.Body.String())
	return w, decoded
}

func adminToken(t *testing.T) string {
	t.Helper()
	token, err := middleware.IssueToken(testSecret, "1", middleware.RoleAdmin, time.Hour)
	require.NoError(t, err)
	return token
}

func pricedProduct(id int64, price, final string) *domain.PricedProduct {
	return &domain.PricedProduct{
		Product: domain.Product{
			ID:            id,
			CategoryID:    1,
			Name:          fmt.Sprintf("Product %d", id),
			Description:   "desc",
			Price:         decimal.RequireFromString(price),
			StockQuantity: 3,
			Created:       time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		},
		FinalPrice: decimal.RequireFromString(final),
	}
}
