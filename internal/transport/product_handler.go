package transport

import (
	"net/http"
	"strconv"
	"strings"

	"catalog-api/internal/middleware"
	"catalog-api/internal/pagination"
	"catalog-api/internal/repository"
	"catalog-api/internal/response"
	"catalog-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CategoryQueryParam filters the product listing by category.
const CategoryQueryParam = "category_id"

// ProductHandler handles HTTP requests for product operations
type ProductHandler struct {
	products service.ProductService
	pages    pagination.Config
	logger   *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products service.ProductService, pages pagination.Config, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		products: products,
		pages:    pages,
		logger:   logger,
	}
}

// RegisterRoutes registers the product routes. Deletion goes through admin.
func (h *ProductHandler) RegisterRoutes(r chi.Router, admin func(http.Handler) http.Handler) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/create/", h.Create)
		r.Get("/{id:[0-9]+}/", h.Get)
		r.With(admin).Delete("/{id:[0-9]+}/", h.Delete)
	})
}

// List returns one page of products, optionally filtered by category_id.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	const message = "Products retrieved successfully"

	query := r.URL.Query()

	var filter repository.ProductFilter
	if raw := strings.TrimSpace(query.Get(CategoryQueryParam)); raw != "" {
		categoryID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.logger.Debug("Invalid category filter", zap.String("category_id", raw))
			middleware.RespondWithValidationErrors(w, "Invalid query parameters",
				map[string][]string{CategoryQueryParam: {"A valid integer is required."}})
			return
		}
		filter.CategoryID = &categoryID
	}

	products, page, err := h.products.List(r.Context(), filter, h.pages.FromQuery(query))
	if err != nil {
		writeError(w, r, h.logger, "Failed to retrieve products", err)
		return
	}

	response.Paginated(w, r, message, page, newProductResponses(products))
}

// Get returns a single product with its final price.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, h.logger, "Failed to retrieve product", err)
		return
	}

	product, err := h.products.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, "Failed to retrieve product", err)
		return
	}

	response.Success(w, http.StatusOK, "Product retrieved successfully", newProductResponse(product))
}

// Create handles product creation
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	const failed = "Failed to create product"

	var req ProductRequest
	if fields := decodeRequest(r, &req); fields != nil {
		h.logger.Debug("Product validation failed", zap.Any("errors", fields))
		middleware.RespondWithValidationErrors(w, failed, fields)
		return
	}

	product, err := h.products.Create(r.Context(), req.toDomain())
	if err != nil {
		writeError(w, r, h.logger, failed, err)
		return
	}

	h.logger.Info("Product created", zap.Int64("product_id", product.ID))
	response.Success(w, http.StatusCreated, "Product created successfully", newProductResponse(product))
}

// Delete handles product deletion
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	const failed = "Failed to delete product"

	id, err := pathID(r)
	if err != nil {
		writeError(w, r, h.logger, failed, err)
		return
	}

	if err := h.products.Delete(r.Context(), id); err != nil {
		writeError(w, r, h.logger, failed, err)
		return
	}

	h.logger.Info("Product deleted", zap.Int64("product_id", id))
	response.Success(w, http.StatusOK, "Product deleted successfully", []any{})
}
