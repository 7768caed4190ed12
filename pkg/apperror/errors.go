package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Signature verification (SIG) ----

func ErrMissingSignature() *AppError {
	return New("SIG_001", "Missing callback signature", http.StatusUnauthorized)
}

func ErrInvalidSignature() *AppError {
	return New("SIG_002", "Invalid callback signature", http.StatusUnauthorized)
}

// ---- Processor interaction (PSP) ----

// ErrProcessorUnavailable wraps a transport or parse failure talking to the
// processor. The wrapped error carries raw response diagnostics when available.
func ErrProcessorUnavailable(err error) *AppError {
	return Wrap("PSP_001", "Payment processor unavailable", http.StatusBadGateway, err)
}

// ErrProcessorRejected surfaces a business rejection with the processor's own message.
func ErrProcessorRejected(message string) *AppError {
	if message == "" {
		message = "Payment rejected by processor"
	}
	return New("PSP_002", message, http.StatusUnprocessableEntity)
}

// ErrPaymentCallbackFailed is raised when the application payment hook fails
// after the processor confirmed the payment. Operator intervention implied.
func ErrPaymentCallbackFailed(code int, message string) *AppError {
	if code == 0 {
		code = http.StatusForbidden
	}
	if message == "" {
		message = "payment transaction error"
	}
	return New("PSP_003", message, code)
}

// ---- Exchange rates (FX) ----

func ErrRateFeedUnavailable(err error) *AppError {
	return Wrap("FX_001", "Exchange rate feed unavailable", http.StatusBadGateway, err)
}

func ErrRateUnavailable(currency string) *AppError {
	return New("FX_002", fmt.Sprintf("No exchange rate for %s", currency), http.StatusBadGateway)
}

func ErrUnsupportedCurrency(currency string) *AppError {
	return New("FX_003", fmt.Sprintf("Currency %s is not supported", currency), http.StatusBadRequest)
}

// ---- Orders & workflow (ORD) ----

func ErrOrderNotFound() *AppError {
	return New("ORD_001", "Order not found", http.StatusNotFound)
}

func ErrActionUnavailable(action string) *AppError {
	return New("ORD_002", fmt.Sprintf("Workflow action %q not available", action), http.StatusConflict)
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_002", "Invalid or expired token", http.StatusUnauthorized)
}

// ---- Rate limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a request validation error.
func Validation(message string) *AppError {
	return New("SYS_002", message, http.StatusBadRequest)
}
