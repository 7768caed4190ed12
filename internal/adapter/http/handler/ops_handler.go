package handler

import (
	"strconv"

	"passimpay-gateway/internal/adapter/http/dto"
	"passimpay-gateway/internal/core/domain"
	"passimpay-gateway/internal/core/ports"
	"passimpay-gateway/pkg/apperror"
	"passimpay-gateway/pkg/response"

	"github.com/gin-gonic/gin"
)

// OpsHandler exposes read-only order and ledger inspection for operators.
type OpsHandler struct {
	orders ports.OrderRepository
	ledger ports.TransactionLedger
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(orders ports.OrderRepository, ledger ports.TransactionLedger) *OpsHandler {
	return &OpsHandler{orders: orders, ledger: ledger}
}

// GetOrder handles GET /api/v1/ops/orders/:id.
func (h *OpsHandler) GetOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, apperror.Validation("invalid order id"))
		return
	}

	order, err := h.orders.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, apperror.InternalError(err))
		return
	}
	if order == nil {
		response.Error(c, apperror.ErrOrderNotFound())
		return
	}

	response.OK(c, dto.OrderFromDomain(order))
}

// ListTransactions handles GET /api/v1/ops/transactions?order_id=N.
func (h *OpsHandler) ListTransactions(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Query("order_id"), 10, 64)
	if err != nil || orderID <= 0 {
		response.Error(c, apperror.Validation("invalid or missing order_id"))
		return
	}

	entries, err := h.ledger.ListByOrder(c.Request.Context(), domain.PluginID, orderID)
	if err != nil {
		response.Error(c, apperror.InternalError(err))
		return
	}

	out := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.LedgerEntryFromDomain(e))
	}
	response.OK(c, out)
}
