package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"passimpay-gateway/config"
	"passimpay-gateway/internal/core/domain"
	"passimpay-gateway/internal/core/ports"
	"passimpay-gateway/pkg/apperror"

	"github.com/rs/zerolog"
)

// CheckoutServiceImpl implements ports.CheckoutService: it turns a shop
// order into a signed processor order and returns the hosted-checkout URL.
type CheckoutServiceImpl struct {
	orders    ports.OrderRepository
	ledger    ports.TransactionLedger
	processor ports.ProcessorClient
	converter *Converter
	sigSvc    ports.SignatureService
	cfg       config.PassimpayConfig
	log       zerolog.Logger
}

// NewCheckoutService creates a new CheckoutServiceImpl.
func NewCheckoutService(
	orders ports.OrderRepository,
	ledger ports.TransactionLedger,
	processor ports.ProcessorClient,
	converter *Converter,
	sigSvc ports.SignatureService,
	cfg config.PassimpayConfig,
	log zerolog.Logger,
) *CheckoutServiceImpl {
	return &CheckoutServiceImpl{
		orders:    orders,
		ledger:    ledger,
		processor: processor,
		converter: converter,
		sigSvc:    sigSvc,
		cfg:       cfg,
		log:       log,
	}
}

// CreateCheckout creates a processor order for the given shop order and
// returns the URL the buyer must be redirected to. A CAPTURE ledger entry
// holding the raw processor response is written for every parsed response,
// accepted or not; transport failures leave no ledger entry behind.
func (s *CheckoutServiceImpl) CreateCheckout(ctx context.Context, orderID int64) (string, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return "", apperror.InternalError(fmt.Errorf("load order: %w", err))
	}
	if order == nil {
		return "", apperror.ErrOrderNotFound()
	}

	if !s.cfg.CurrencyAllowed(order.Currency) {
		return "", apperror.ErrUnsupportedCurrency(order.Currency)
	}

	amount, err := s.converter.ToSettlement(ctx, order.Total, order.Currency)
	if err != nil {
		return "", err
	}

	orderIDStr := strconv.FormatInt(orderID, 10)
	payload := s.sigSvc.EncodeForm([]ports.Field{
		{Key: "platform_id", Value: s.cfg.PlatformID},
		{Key: "order_id", Value: orderIDStr},
		{Key: "amount", Value: amount},
	})
	hash := s.sigSvc.Sign(s.cfg.APIKey, payload)

	result, err := s.processor.CreateOrder(ctx, ports.CreateOrderRequest{
		PlatformID: s.cfg.PlatformID,
		OrderID:    orderIDStr,
		Amount:     amount,
		Hash:       hash,
		AppID:      s.cfg.AppID,
		MerchantID: s.cfg.MerchantID,
	})
	if err != nil {
		s.logUpstreamFailure("createorder", err)
		return "", apperror.ErrProcessorUnavailable(err)
	}

	entry := &domain.LedgerEntry{
		Plugin:     domain.PluginID,
		AppID:      s.cfg.AppID,
		MerchantID: s.cfg.MerchantID,
		NativeID:   s.cfg.PlatformID,
		Type:       domain.OperationCapture,
		Result:     result.Raw,
		OrderID:    orderID,
		Amount:     amount,
		CreatedAt:  time.Now().UTC(),
	}
	entryID, err := s.ledger.Create(ctx, entry)
	if err != nil {
		return "", apperror.InternalError(fmt.Errorf("create ledger entry: %w", err))
	}
	entry.ID = entryID

	if result.Result != 1 {
		return "", apperror.ErrProcessorRejected(result.Message)
	}

	s.log.Info().
		Int64("order_id", orderID).
		Str("amount", amount).
		Int64("ledger_id", entryID).
		Msg("processor checkout order created")

	return result.URL, nil
}

// logUpstreamFailure logs a processor failure with the raw response and
// headers when the error carries them.
func (s *CheckoutServiceImpl) logUpstreamFailure(op string, err error) {
	event := s.log.Error().Err(err).Str("op", op)
	var upErr *ports.UpstreamError
	if errors.As(err, &upErr) {
		event = event.
			Int("status_code", upErr.StatusCode).
			Str("raw_response", upErr.RawResponse).
			Interface("headers", upErr.Headers)
	}
	event.Msg("processor request failed")
}
