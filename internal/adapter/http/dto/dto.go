package dto

import (
	"time"

	"passimpay-gateway/internal/core/domain"
)

// LoginRequest is the request body for operator login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// CallbackForm binds the processor's payment notification. The processor
// sends a form POST; the browser-return flag arrives in the query string.
type CallbackForm struct {
	PlatformID    int64   `form:"platform_id"`
	PaymentID     int64   `form:"payment_id"`
	OrderID       int64   `form:"order_id"`
	Amount        string  `form:"amount"`
	TxHash        string  `form:"txhash"`
	AddressFrom   string  `form:"address_from"`
	AddressTo     string  `form:"address_to"`
	Fee           string  `form:"fee"`
	Confirmations *string `form:"confirmations"`
	Hash          string  `form:"hash"`
}

// ToDomain converts the bound form into the domain callback.
func (f CallbackForm) ToDomain() domain.Callback {
	return domain.Callback{
		PlatformID:    f.PlatformID,
		PaymentID:     f.PaymentID,
		OrderID:       f.OrderID,
		Amount:        f.Amount,
		TxHash:        f.TxHash,
		AddressFrom:   f.AddressFrom,
		AddressTo:     f.AddressTo,
		Fee:           f.Fee,
		Confirmations: f.Confirmations,
		Hash:          f.Hash,
	}
}

// OrderResponse is the ops-API view of an order.
type OrderResponse struct {
	ID        int64      `json:"id"`
	Total     string     `json:"total"`
	Currency  string     `json:"currency"`
	State     string     `json:"state"`
	CreatedAt time.Time  `json:"created_at"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`
}

// OrderFromDomain converts a domain order to its response form.
func OrderFromDomain(o *domain.Order) OrderResponse {
	return OrderResponse{
		ID:        o.ID,
		Total:     o.Total.String(),
		Currency:  o.Currency,
		State:     string(o.State),
		CreatedAt: o.CreatedAt,
		PaidAt:    o.PaidAt,
	}
}

// LedgerEntryResponse is the ops-API view of a transaction ledger entry.
type LedgerEntryResponse struct {
	ID         int64     `json:"id"`
	Plugin     string    `json:"plugin"`
	AppID      string    `json:"app_id"`
	MerchantID string    `json:"merchant_id"`
	NativeID   string    `json:"native_id"`
	Type       string    `json:"type"`
	Result     string    `json:"result"`
	OrderID    int64     `json:"order_id"`
	Amount     string    `json:"amount"`
	CreatedAt  time.Time `json:"created_at"`
}

// LedgerEntryFromDomain converts a ledger entry to its response form.
func LedgerEntryFromDomain(e domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:         e.ID,
		Plugin:     e.Plugin,
		AppID:      e.AppID,
		MerchantID: e.MerchantID,
		NativeID:   e.NativeID,
		Type:       string(e.Type),
		Result:     string(e.Result),
		OrderID:    e.OrderID,
		Amount:     e.Amount,
		CreatedAt:  e.CreatedAt,
	}
}
