package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nikolayk812/checkout-demo/internal/domain"
	"go.uber.org/zap"
)

type errorResponse struct {
	Error   string         `json:"error"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

var errorCodes = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrForbiddenRole, http.StatusForbidden, "forbidden_role"},
	{domain.ErrItemNotFound, http.StatusNotFound, "item_not_found"},
	{domain.ErrLineNotFound, http.StatusNotFound, "line_not_found"},
	{domain.ErrOrderNotFound, http.StatusNotFound, "order_not_found"},
	{domain.ErrOrderUserNotFound, http.StatusNotFound, "shipping_target_not_found"},
	{domain.ErrEmptyCart, http.StatusUnprocessableEntity, "empty_cart"},
	{domain.ErrInvalidShippingTarget, http.StatusUnprocessableEntity, "invalid_shipping_target"},
	{domain.ErrInvalidQuantity, http.StatusUnprocessableEntity, "invalid_quantity"},
	{domain.ErrInvalidInput, http.StatusUnprocessableEntity, "invalid_input"},
	{domain.ErrCurrencyMismatch, http.StatusUnprocessableEntity, "currency_mismatch"},
	{domain.ErrInsufficientStock, http.StatusConflict, "insufficient_stock"},
	{domain.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
	{domain.ErrStaleOrder, http.StatusConflict, "stale_order"},
	{domain.ErrCheckoutInProgress, http.StatusConflict, "checkout_in_progress"},
	{domain.ErrOrderUserInUse, http.StatusConflict, "shipping_target_in_use"},
}

// writeError maps err onto a response. Anything that is not a domain error
// is a system fault and is reported without detail.
func (h *Handler) writeError(c *gin.Context, err error) {
	for _, e := range errorCodes {
		if !errors.Is(err, e.err) {
			continue
		}

		var details map[string]any
		var stockErr *domain.InsufficientStockError
		var notFoundErr *domain.ItemNotFoundError
		switch {
		case errors.As(err, &stockErr):
			details = map[string]any{
				"item_id":   stockErr.ItemID,
				"name":      stockErr.ItemName,
				"requested": stockErr.Requested,
				"available": stockErr.Available,
			}
		case errors.As(err, &notFoundErr):
			details = map[string]any{"item_id": notFoundErr.ItemID}
		}

		abortWithError(c, e.status, e.code, err.Error(), details)
		return
	}

	h.logger.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	abortWithError(c, http.StatusInternalServerError, "internal", "internal error", nil)
}

func badRequest(c *gin.Context, err error) {
	abortWithError(c, http.StatusBadRequest, "bad_request", err.Error(), nil)
}

func abortWithError(c *gin.Context, status int, code, message string, details map[string]any) {
	c.AbortWithStatusJSON(status, errorResponse{Error: code, Message: message, Details: details})
}
