package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderState represents the workflow state of a shop order.
type OrderState string

const (
	OrderStateNew        OrderState = "new"
	OrderStateProcessing OrderState = "processing"
	OrderStatePaid       OrderState = "paid"
	OrderStateCanceled   OrderState = "canceled"
	OrderStateRefunded   OrderState = "refunded"
)

// Workflow action identifiers.
const (
	ActionPay    = "pay"
	ActionCancel = "cancel"
	ActionRefund = "refund"
)

// Order is the shop order being paid. It is mutated only through the
// workflow engine's actions, never directly by the payment adapter.
type Order struct {
	ID        int64           `json:"id"`
	Total     decimal.Decimal `json:"total"`
	Currency  string          `json:"currency"`
	State     OrderState      `json:"state"`
	CreatedAt time.Time       `json:"created_at"`
	PaidAt    *time.Time      `json:"paid_at,omitempty"`
}

// IsPaid returns true once the order reached the paid state.
func (o *Order) IsPaid() bool {
	return o.State == OrderStatePaid
}
