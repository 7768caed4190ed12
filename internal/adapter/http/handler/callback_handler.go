package handler

import (
	"net/http"

	"passimpay-gateway/config"
	"passimpay-gateway/internal/adapter/http/dto"
	"passimpay-gateway/internal/core/ports"
	"passimpay-gateway/pkg/apperror"
	"passimpay-gateway/pkg/response"

	"github.com/gin-gonic/gin"
)

// CallbackHandler handles the processor's payment notifications and the
// buyer's browser returns. Both arrive on the same endpoint: the browser
// return carries a transaction_result query flag, the server notification
// carries the signed form payload.
type CallbackHandler struct {
	callbackSvc ports.CallbackService
	returnCfg   config.ReturnConfig
}

// NewCallbackHandler creates a new CallbackHandler.
func NewCallbackHandler(callbackSvc ports.CallbackService, returnCfg config.ReturnConfig) *CallbackHandler {
	return &CallbackHandler{callbackSvc: callbackSvc, returnCfg: returnCfg}
}

// Callback handles GET and POST /payments/callback/passimpay.
func (h *CallbackHandler) Callback(c *gin.Context) {
	var form dto.CallbackForm
	if err := c.ShouldBind(&form); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	req := ports.CallbackRequest{
		TransactionResult: c.Query("transaction_result"),
		Payload:           form.ToDomain(),
	}

	target, err := h.callbackSvc.HandleCallback(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Redirect(http.StatusFound, h.redirectURL(target))
}

func (h *CallbackHandler) redirectURL(target ports.RedirectTarget) string {
	switch target {
	case ports.RedirectSuccess:
		return h.returnCfg.SuccessURL
	case ports.RedirectPending:
		return h.returnCfg.PendingURL
	default:
		return h.returnCfg.FailURL
	}
}
