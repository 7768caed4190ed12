package domain

import "github.com/shopspring/decimal"

// RateTable is a snapshot of central-bank exchange rates relative to the
// base unit (RUB for the CBR feed). Fetched fresh per conversion, never
// cached or persisted.
type RateTable struct {
	Date  string
	Rates map[string]decimal.Decimal
}

// Rate returns the per-unit rate for a currency code.
func (t *RateTable) Rate(code string) (decimal.Decimal, bool) {
	r, ok := t.Rates[code]
	return r, ok
}
