package transport

import (
	"net/http"

	"catalog-api/internal/middleware"
	"catalog-api/internal/response"
	"catalog-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// DiscountHandler handles HTTP requests for discount operations
type DiscountHandler struct {
	discounts service.DiscountService
	logger    *zap.Logger
}

// NewDiscountHandler creates a new DiscountHandler
func NewDiscountHandler(discounts service.DiscountService, logger *zap.Logger) *DiscountHandler {
	return &DiscountHandler{
		discounts: discounts,
		logger:    logger,
	}
}

// RegisterRoutes registers the discount routes
func (h *DiscountHandler) RegisterRoutes(r chi.Router) {
	r.Post("/discounts/", h.Create)
}

// Create attaches a discount to a product.
func (h *DiscountHandler) Create(w http.ResponseWriter, r *http.Request) {
	const failed = "Failed to apply discount"

	var req DiscountRequest
	if fields := decodeRequest(r, &req); fields != nil {
		h.logger.Debug("Discount validation failed", zap.Any("errors", fields))
		middleware.RespondWithValidationErrors(w, failed, fields)
		return
	}

	discount, err := h.discounts.Create(r.Context(), req.toDomain())
	if err != nil {
		writeError(w, r, h.logger, failed, err)
		return
	}

	h.logger.Info("Discount applied",
		zap.Int64("discount_id", discount.ID),
		zap.Int64("product_id", discount.ProductID),
	)
	response.Success(w, http.StatusCreated, "Discount applied successfully", newDiscountResponse(discount))
}
