package domain

// Callback is the untrusted payment notification received from the
// processor. Its only claim to validity is a matching HMAC signature;
// it has no identity or persistence of its own.
type Callback struct {
	PlatformID    int64
	PaymentID     int64
	OrderID       int64
	Amount        string
	TxHash        string
	AddressFrom   string
	AddressTo     string
	Fee           string
	Confirmations *string // present only for chains that report confirmations
	Hash          string  // supplied signature, empty when missing
}
