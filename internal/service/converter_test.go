package service

import (
	"context"
	"testing"

	"passimpay-gateway/internal/core/domain"
	"passimpay-gateway/internal/core/ports"
	"passimpay-gateway/internal/core/ports/mocks"
	"passimpay-gateway/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func rateTable(usdRate string) *domain.RateTable {
	return &domain.RateTable{
		Date: "28.08.2026",
		Rates: map[string]decimal.Decimal{
			"USD": decimal.RequireFromString(usdRate),
		},
	}
}

func TestConverter_USDPassesThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	rates := mocks.NewMockRateSource(ctrl)
	// No Fetch expected: USD orders never hit the feed.
	conv := NewConverter(rates, zerolog.Nop())

	amount, err := conv.ToSettlement(context.Background(), decimal.RequireFromString("50.50"), "USD")
	require.NoError(t, err)
	assert.Equal(t, "51.00", amount)
}

func TestConverter_ConvertsRUB(t *testing.T) {
	ctrl := gomock.NewController(t)
	rates := mocks.NewMockRateSource(ctrl)
	rates.EXPECT().Fetch(gomock.Any()).Return(rateTable("95.00"), nil)
	conv := NewConverter(rates, zerolog.Nop())

	// 50 / 95 = 0.526... -> round -> 1 -> "1.00" (round before format)
	amount, err := conv.ToSettlement(context.Background(), decimal.RequireFromString("50.00"), "RUB")
	require.NoError(t, err)
	assert.Equal(t, "1.00", amount)
}

func TestConverter_RoundsHalfAwayFromZero(t *testing.T) {
	ctrl := gomock.NewController(t)
	rates := mocks.NewMockRateSource(ctrl)
	rates.EXPECT().Fetch(gomock.Any()).Return(rateTable("100.00"), nil)
	conv := NewConverter(rates, zerolog.Nop())

	// 250 / 100 = 2.5 -> 3
	amount, err := conv.ToSettlement(context.Background(), decimal.RequireFromString("250.00"), "RUB")
	require.NoError(t, err)
	assert.Equal(t, "3.00", amount)
}

func TestConverter_FeedFailureIsFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	rates := mocks.NewMockRateSource(ctrl)
	feedErr := &ports.UpstreamError{Op: "rates", Message: "connection refused"}
	rates.EXPECT().Fetch(gomock.Any()).Return(nil, feedErr)
	conv := NewConverter(rates, zerolog.Nop())

	_, err := conv.ToSettlement(context.Background(), decimal.RequireFromString("50.00"), "RUB")
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "FX_001", appErr.Code)
	assert.ErrorIs(t, err, feedErr)
}

func TestConverter_MissingUSDRate(t *testing.T) {
	ctrl := gomock.NewController(t)
	rates := mocks.NewMockRateSource(ctrl)
	rates.EXPECT().Fetch(gomock.Any()).Return(&domain.RateTable{
		Date:  "28.08.2026",
		Rates: map[string]decimal.Decimal{"EUR": decimal.RequireFromString("104.50")},
	}, nil)
	conv := NewConverter(rates, zerolog.Nop())

	_, err := conv.ToSettlement(context.Background(), decimal.RequireFromString("50.00"), "RUB")
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "FX_002", appErr.Code)
}

func TestFormatAmount_AlwaysWholeCents(t *testing.T) {
	cases := map[string]string{
		"0.4":    "0.00",
		"0.5":    "1.00",
		"1":      "1.00",
		"1.49":   "1.00",
		"1.5":    "2.00",
		"123.99": "124.00",
	}
	for input, expected := range cases {
		assert.Equal(t, expected, FormatAmount(decimal.RequireFromString(input)), "input %s", input)
	}
}
