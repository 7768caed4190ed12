package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"passimpay-gateway/config"
	"passimpay-gateway/internal/adapter/http/dto"
	"passimpay-gateway/internal/core/domain"
	"passimpay-gateway/internal/core/ports"
	"passimpay-gateway/internal/core/ports/mocks"
	"passimpay-gateway/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testReturnCfg = config.ReturnConfig{
	SuccessURL: "/payments/result/success",
	FailURL:    "/payments/result/fail",
	PendingURL: "/payments/result/pending",
}

// --- Checkout Handler Tests ---

func TestCheckout_RedirectsToHostedPage(t *testing.T) {
	ctrl := gomock.NewController(t)
	checkoutSvc := mocks.NewMockCheckoutService(ctrl)
	checkoutSvc.EXPECT().
		CreateCheckout(gomock.Any(), int64(100)).
		Return("https://passimpay.io/pay/abc", nil)

	router := gin.New()
	router.GET("/payments/checkout/:order_id", NewCheckoutHandler(checkoutSvc).Checkout)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/payments/checkout/100", nil))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "https://passimpay.io/pay/abc", w.Header().Get("Location"))
}

func TestCheckout_InvalidOrderID(t *testing.T) {
	ctrl := gomock.NewController(t)
	checkoutSvc := mocks.NewMockCheckoutService(ctrl)

	router := gin.New()
	router.GET("/payments/checkout/:order_id", NewCheckoutHandler(checkoutSvc).Checkout)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/payments/checkout/abc", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "SYS_002")
}

func TestCheckout_ProcessorRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	checkoutSvc := mocks.NewMockCheckoutService(ctrl)
	checkoutSvc.EXPECT().
		CreateCheckout(gomock.Any(), int64(100)).
		Return("", apperror.ErrProcessorRejected("amount too small"))

	router := gin.New()
	router.GET("/payments/checkout/:order_id", NewCheckoutHandler(checkoutSvc).Checkout)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/payments/checkout/100", nil))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "PSP_002")
}

// --- Callback Handler Tests ---

func callbackRouter(svc ports.CallbackService) *gin.Engine {
	router := gin.New()
	h := NewCallbackHandler(svc, testReturnCfg)
	router.GET("/payments/callback/passimpay", h.Callback)
	router.POST("/payments/callback/passimpay", h.Callback)
	return router
}

func TestCallback_NotificationRedirectsSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	callbackSvc := mocks.NewMockCallbackService(ctrl)
	callbackSvc.EXPECT().
		HandleCallback(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req ports.CallbackRequest) (ports.RedirectTarget, error) {
			assert.Empty(t, req.TransactionResult)
			assert.Equal(t, int64(100), req.Payload.OrderID)
			assert.Equal(t, "1.00", req.Payload.Amount)
			assert.Equal(t, "abc", req.Payload.TxHash)
			assert.Equal(t, "deadbeef", req.Payload.Hash)
			require.NotNil(t, req.Payload.Confirmations)
			assert.Equal(t, "3", *req.Payload.Confirmations)
			return ports.RedirectSuccess, nil
		})

	form := url.Values{}
	form.Set("platform_id", "7")
	form.Set("payment_id", "1")
	form.Set("order_id", "100")
	form.Set("amount", "1.00")
	form.Set("txhash", "abc")
	form.Set("address_from", "x")
	form.Set("address_to", "y")
	form.Set("fee", "0")
	form.Set("confirmations", "3")
	form.Set("hash", "deadbeef")

	req := httptest.NewRequest(http.MethodPost, "/payments/callback/passimpay", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	callbackRouter(callbackSvc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, testReturnCfg.SuccessURL, w.Header().Get("Location"))
}

func TestCallback_BrowserReturnFlag(t *testing.T) {
	ctrl := gomock.NewController(t)
	callbackSvc := mocks.NewMockCallbackService(ctrl)
	callbackSvc.EXPECT().
		HandleCallback(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req ports.CallbackRequest) (ports.RedirectTarget, error) {
			assert.Equal(t, "failure", req.TransactionResult)
			return ports.RedirectFail, nil
		})

	req := httptest.NewRequest(http.MethodGet, "/payments/callback/passimpay?transaction_result=failure", nil)
	w := httptest.NewRecorder()
	callbackRouter(callbackSvc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, testReturnCfg.FailURL, w.Header().Get("Location"))
}

func TestCallback_PendingRedirect(t *testing.T) {
	ctrl := gomock.NewController(t)
	callbackSvc := mocks.NewMockCallbackService(ctrl)
	callbackSvc.EXPECT().
		HandleCallback(gomock.Any(), gomock.Any()).
		Return(ports.RedirectPending, nil)

	req := httptest.NewRequest(http.MethodGet, "/payments/callback/passimpay", nil)
	w := httptest.NewRecorder()
	callbackRouter(callbackSvc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, testReturnCfg.PendingURL, w.Header().Get("Location"))
}

func TestCallback_HookFailureReturnsError(t *testing.T) {
	ctrl := gomock.NewController(t)
	callbackSvc := mocks.NewMockCallbackService(ctrl)
	callbackSvc.EXPECT().
		HandleCallback(gomock.Any(), gomock.Any()).
		Return(ports.RedirectTarget(""), apperror.ErrPaymentCallbackFailed(0, "linkage failed"))

	req := httptest.NewRequest(http.MethodGet, "/payments/callback/passimpay", nil)
	w := httptest.NewRecorder()
	callbackRouter(callbackSvc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "PSP_003")
}

// --- Auth Handler Tests ---

func TestLogin_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	authSvc := mocks.NewMockAuthService(ctrl)
	expiry := time.Now().Add(24 * time.Hour)
	authSvc.EXPECT().
		Login(gomock.Any(), "admin", "s3cret").
		Return("jwt-token", expiry, nil)

	body, _ := json.Marshal(dto.LoginRequest{Username: "admin", Password: "s3cret"})
	router := gin.New()
	router.POST("/api/v1/auth/login", NewAuthHandler(authSvc).Login)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "jwt-token")
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	authSvc := mocks.NewMockAuthService(ctrl)
	authSvc.EXPECT().
		Login(gomock.Any(), "admin", "wrong").
		Return("", time.Time{}, apperror.ErrInvalidCredentials())

	body, _ := json.Marshal(dto.LoginRequest{Username: "admin", Password: "wrong"})
	router := gin.New()
	router.POST("/api/v1/auth/login", NewAuthHandler(authSvc).Login)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_001")
}

func TestLogin_MissingFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	authSvc := mocks.NewMockAuthService(ctrl)

	router := gin.New()
	router.POST("/api/v1/auth/login", NewAuthHandler(authSvc).Login)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Ops Handler Tests ---

func TestGetOrder_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	orders := mocks.NewMockOrderRepository(ctrl)
	ledger := mocks.NewMockTransactionLedger(ctrl)

	order := &domain.Order{
		ID:        100,
		Total:     decimal.RequireFromString("50.00"),
		Currency:  "RUB",
		State:     domain.OrderStatePaid,
		CreatedAt: time.Now().UTC(),
	}
	orders.EXPECT().GetByID(gomock.Any(), int64(100)).Return(order, nil)

	router := gin.New()
	router.GET("/api/v1/ops/orders/:id", NewOpsHandler(orders, ledger).GetOrder)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ops/orders/100", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"state":"paid"`)
	assert.Contains(t, w.Body.String(), `"currency":"RUB"`)
}

func TestGetOrder_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	orders := mocks.NewMockOrderRepository(ctrl)
	ledger := mocks.NewMockTransactionLedger(ctrl)

	orders.EXPECT().GetByID(gomock.Any(), int64(404)).Return(nil, nil)

	router := gin.New()
	router.GET("/api/v1/ops/orders/:id", NewOpsHandler(orders, ledger).GetOrder)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ops/orders/404", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "ORD_001")
}

func TestListTransactions_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	orders := mocks.NewMockOrderRepository(ctrl)
	ledger := mocks.NewMockTransactionLedger(ctrl)

	entries := []domain.LedgerEntry{{
		ID:         1,
		Plugin:     domain.PluginID,
		AppID:      "shop",
		MerchantID: "42",
		NativeID:   "7",
		Type:       domain.OperationCapture,
		Result:     json.RawMessage(`{"result":1}`),
		OrderID:    100,
		Amount:     "1.00",
		CreatedAt:  time.Now().UTC(),
	}}
	ledger.EXPECT().ListByOrder(gomock.Any(), domain.PluginID, int64(100)).Return(entries, nil)

	router := gin.New()
	router.GET("/api/v1/ops/transactions", NewOpsHandler(orders, ledger).ListTransactions)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ops/transactions?order_id=100", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"plugin":"passimpay"`)
	assert.Contains(t, w.Body.String(), `"type":"CAPTURE"`)
}

func TestListTransactions_MissingOrderID(t *testing.T) {
	ctrl := gomock.NewController(t)
	orders := mocks.NewMockOrderRepository(ctrl)
	ledger := mocks.NewMockTransactionLedger(ctrl)

	router := gin.New()
	router.GET("/api/v1/ops/transactions", NewOpsHandler(orders, ledger).ListTransactions)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ops/transactions", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Health Check Tests ---

type stubChecker struct {
	name string
	err  error
}

func (s stubChecker) Ping(context.Context) error { return s.err }
func (s stubChecker) Name() string               { return s.name }

func TestHealthCheck_AllHealthy(t *testing.T) {
	router := gin.New()
	router.GET("/health", HealthCheck(stubChecker{name: "postgresql"}, stubChecker{name: "redis"}))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
}

func TestHealthCheck_Degraded(t *testing.T) {
	router := gin.New()
	router.GET("/health", HealthCheck(
		stubChecker{name: "postgresql"},
		stubChecker{name: "redis", err: errors.New("connection refused")},
	))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"degraded"`)
}
