package handler

import (
	"net/http"
	"strconv"

	"passimpay-gateway/internal/core/ports"
	"passimpay-gateway/pkg/apperror"
	"passimpay-gateway/pkg/response"

	"github.com/gin-gonic/gin"
)

// CheckoutHandler handles the buyer-facing checkout redirect.
type CheckoutHandler struct {
	checkoutSvc ports.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(checkoutSvc ports.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutSvc: checkoutSvc}
}

// Checkout handles GET /payments/checkout/:order_id. On success the buyer's
// browser is sent to the processor's hosted checkout page with 303.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("order_id"), 10, 64)
	if err != nil || orderID <= 0 {
		response.Error(c, apperror.Validation("invalid order id"))
		return
	}

	url, err := h.checkoutSvc.CreateCheckout(c.Request.Context(), orderID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, url)
}
