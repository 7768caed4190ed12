package service

import (
	"context"

	"passimpay-gateway/internal/core/ports"

	"github.com/rs/zerolog"
)

// LoggingPaymentCallback is the default ports.PaymentCallback: it records
// the confirmed payment in the log. Deployments that need to push the
// payment into an external shop backend swap in their own implementation.
type LoggingPaymentCallback struct {
	log zerolog.Logger
}

// NewLoggingPaymentCallback creates a new LoggingPaymentCallback.
func NewLoggingPaymentCallback(log zerolog.Logger) *LoggingPaymentCallback {
	return &LoggingPaymentCallback{log: log}
}

// OnPayment logs the notification and never fails.
func (c *LoggingPaymentCallback) OnPayment(_ context.Context, n ports.PaymentNotification) error {
	c.log.Info().
		Int64("order_id", n.OrderID).
		Int64("payment_id", n.PaymentID).
		Str("amount", n.Amount).
		Str("txhash", n.TxHash).
		Str("app_id", n.AppID).
		Str("merchant_id", n.MerchantID).
		Msg("payment confirmed")
	return nil
}
