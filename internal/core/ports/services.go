package ports

import (
	"context"
	"encoding/json"
	"time"

	"passimpay-gateway/internal/core/domain"
)

// Field is a single key/value pair in a canonical form payload.
// Order matters: the processor signs form bodies in insertion order.
type Field struct {
	Key   string
	Value string
}

// SignatureService handles HMAC-SHA256 signing and verification over
// form-urlencoded canonical payloads.
type SignatureService interface {
	Sign(secretKey string, payload string) string
	Verify(secretKey string, payload string, signature string) bool
	EncodeForm(fields []Field) string
}

// RateSource fetches the current central-bank exchange rate table.
type RateSource interface {
	Fetch(ctx context.Context) (*domain.RateTable, error)
}

// CreateOrderRequest is the signed outbound order-creation call. AppID and
// MerchantID ride along as caller context; the hash covers only the first
// three fields.
type CreateOrderRequest struct {
	PlatformID string
	OrderID    string
	Amount     string
	Hash       string
	AppID      string
	MerchantID string
}

// CreateOrderResult is the parsed order-creation response.
// Raw preserves the processor's response body verbatim for the ledger.
type CreateOrderResult struct {
	Result  int    `json:"result"`
	URL     string `json:"url"`
	Message string `json:"message"`
	Raw     json.RawMessage
}

// OrderStatusRequest is the signed status query.
type OrderStatusRequest struct {
	PlatformID string
	OrderID    string
	Hash       string
}

// OrderStatusResult is the parsed status response. Status is one of
// "paid", "wait", "error" when Result == 1.
type OrderStatusResult struct {
	Result  int    `json:"result"`
	Status  string `json:"status"`
	Message string `json:"message"`
	Raw     json.RawMessage
}

// ProcessorClient talks to the payment processor's HTTP API.
type ProcessorClient interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResult, error)
	OrderStatus(ctx context.Context, req OrderStatusRequest) (*OrderStatusResult, error)
}

// WorkflowEngine exposes the host order workflow: which actions a state
// admits, and running one of them against an order.
type WorkflowEngine interface {
	StateActions(state domain.OrderState) []string
	RunAction(ctx context.Context, action string, orderID int64) error
}

// PaymentNotification is the context handed to the application hook after
// a payment is confirmed processor-side.
type PaymentNotification struct {
	OrderID    int64
	PaymentID  int64
	Amount     string
	TxHash     string
	AppID      string // reconstructed from the ledger; may be empty
	MerchantID string // reconstructed from the ledger; may be empty
}

// PaymentCallback is the application-level hook invoked once a payment is
// confirmed and the workflow action has run. A non-nil error is fatal: the
// payment was accepted processor-side but order linkage failed.
type PaymentCallback interface {
	OnPayment(ctx context.Context, n PaymentNotification) error
}

// --- Service Ports (Business Logic) ---

// CheckoutService creates a hosted-checkout order for a shop order and
// returns the URL the buyer's browser must be redirected to.
type CheckoutService interface {
	CreateCheckout(ctx context.Context, orderID int64) (string, error)
}

// RedirectTarget tells the HTTP layer where to send the buyer after a callback.
type RedirectTarget string

const (
	RedirectSuccess RedirectTarget = "success"
	RedirectFail    RedirectTarget = "fail"
	RedirectPending RedirectTarget = "pending"
)

// CallbackRequest is the inbound, untrusted callback plus the optional
// browser-return query flag.
type CallbackRequest struct {
	TransactionResult string // "success", "failure" or empty
	Payload           domain.Callback
}

// CallbackService verifies and applies an inbound payment callback.
type CallbackService interface {
	HandleCallback(ctx context.Context, req CallbackRequest) (RedirectTarget, error)
}

// AuthService authenticates the ops-API operator.
type AuthService interface {
	Login(ctx context.Context, username, password string) (string, time.Time, error) // token, expiry, error
}

// TokenService handles JWT token operations for the ops API.
type TokenService interface {
	Generate(subject string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	Subject string
}

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}
