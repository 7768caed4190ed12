package service

import (
	"context"

	"passimpay-gateway/internal/core/ports"
	"passimpay-gateway/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// SettlementCurrency is the processor's settlement currency. Orders in any
// other currency are converted before checkout.
const SettlementCurrency = "USD"

// Converter converts order totals into the processor settlement currency
// using a central-bank rate table fetched fresh per conversion.
type Converter struct {
	rates ports.RateSource
	log   zerolog.Logger
}

// NewConverter creates a new Converter.
func NewConverter(rates ports.RateSource, log zerolog.Logger) *Converter {
	return &Converter{rates: rates, log: log}
}

// ToSettlement converts total in the given currency into a settlement-currency
// amount string. The amount is rounded to a whole unit first and then
// formatted with two decimal places, so fractional cents are always ".00".
// Feed failures are fatal: there is no fallback rate.
func (c *Converter) ToSettlement(ctx context.Context, total decimal.Decimal, currency string) (string, error) {
	if currency == SettlementCurrency {
		return FormatAmount(total), nil
	}

	table, err := c.rates.Fetch(ctx)
	if err != nil {
		c.log.Error().Err(err).Str("currency", currency).Msg("rate feed fetch failed")
		return "", apperror.ErrRateFeedUnavailable(err)
	}

	rate, ok := table.Rate(SettlementCurrency)
	if !ok || rate.IsZero() {
		return "", apperror.ErrRateUnavailable(SettlementCurrency)
	}

	converted := total.Div(rate)

	c.log.Debug().
		Str("currency", currency).
		Str("total", total.String()).
		Str("usd_rate", rate.String()).
		Str("date", table.Date).
		Str("converted", converted.String()).
		Msg("converted order amount")

	return FormatAmount(converted), nil
}

// FormatAmount rounds an amount to a whole unit (half away from zero) and
// formats it with exactly two decimal places.
func FormatAmount(amount decimal.Decimal) string {
	return amount.Round(0).StringFixed(2)
}
