package domain

import (
	"encoding/json"
	"time"
)

// PluginID identifies this adapter's entries in the shared transaction ledger.
const PluginID = "passimpay"

// OperationType classifies a ledger entry.
type OperationType string

const (
	OperationCapture OperationType = "CAPTURE"
)

// LedgerEntry is an append-only transaction log record. It is written once
// on outbound order creation and never updated by the callback path.
type LedgerEntry struct {
	ID         int64           `json:"id"`
	Plugin     string          `json:"plugin"`
	AppID      string          `json:"app_id"`
	MerchantID string          `json:"merchant_id"`
	NativeID   string          `json:"native_id"` // processor-side identifier (platform id)
	Type       OperationType   `json:"type"`
	Result     json.RawMessage `json:"result"` // raw processor response
	OrderID    int64           `json:"order_id"`
	Amount     string          `json:"amount"`
	CreatedAt  time.Time       `json:"created_at"`
}
