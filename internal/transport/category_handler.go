package transport

import (
	"net/http"

	"catalog-api/internal/middleware"
	"catalog-api/internal/response"
	"catalog-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CategoryHandler handles HTTP requests for category operations
type CategoryHandler struct {
	categories service.CategoryService
	logger     *zap.Logger
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categories service.CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		categories: categories,
		logger:     logger,
	}
}

// RegisterRoutes registers the category routes. Writes go through admin.
func (h *CategoryHandler) RegisterRoutes(r chi.Router, admin func(http.Handler) http.Handler) {
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.List)

		r.Group(func(r chi.Router) {
			r.Use(admin)
			r.Post("/", h.Create)
			r.Put("/{id:[0-9]+}/", h.Update)
			r.Delete("/{id:[0-9]+}/", h.Delete)
		})
	})
}

// List returns every category with its subcategories. The listing is not
// paginated.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	nodes, err := h.categories.List(r.Context())
	if err != nil {
		writeError(w, r, h.logger, "Failed to retrieve categories", err)
		return
	}

	response.Success(w, http.StatusOK, "Categories retrieved successfully", newCategoryResponses(nodes))
}

// Create handles category creation
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	const failed = "Failed to create category"

	var req CategoryRequest
	if fields := decodeRequest(r, &req); fields != nil {
		h.logger.Debug("Category validation failed", zap.Any("errors", fields))
		middleware.RespondWithValidationErrors(w, failed, fields)
		return
	}

	node, err := h.categories.Create(r.Context(), req.toDomain(0))
	if err != nil {
		writeError(w, r, h.logger, failed, err)
		return
	}

	h.logger.Info("Category created", zap.Int64("category_id", node.ID))
	response.Success(w, http.StatusCreated, "Category created successfully", newCategoryResponse(node))
}

// Update handles full category updates
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	const failed = "Failed to update category"

	id, err := pathID(r)
	if err != nil {
		writeError(w, r, h.logger, failed, err)
		return
	}

	var req CategoryRequest
	if fields := decodeRequest(r, &req); fields != nil {
		h.logger.Debug("Category validation failed", zap.Any("errors", fields))
		middleware.RespondWithValidationErrors(w, failed, fields)
		return
	}

	node, err := h.categories.Update(r.Context(), req.toDomain(id))
	if err != nil {
		writeError(w, r, h.logger, failed, err)
		return
	}

	h.logger.Info("Category updated", zap.Int64("category_id", id))
	response.Success(w, http.StatusOK, "Category updated successfully", newCategoryResponse(node))
}

// Delete handles category deletion
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	const failed = "Failed to delete category"

	id, err := pathID(r)
	if err != nil {
		writeError(w, r, h.logger, failed, err)
		return
	}

	if err := h.categories.Delete(r.Context(), id); err != nil {
		writeError(w, r, h.logger, failed, err)
		return
	}

	h.logger.Info("Category deleted", zap.Int64("category_id", id))
	response.Success(w, http.StatusOK, "Category deleted successfully", []any{})
}
