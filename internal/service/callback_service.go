package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"passimpay-gateway/config"
	"passimpay-gateway/internal/core/domain"
	"passimpay-gateway/internal/core/ports"
	"passimpay-gateway/pkg/apperror"

	"github.com/rs/zerolog"
)

// Processor order statuses.
const (
	statusPaid = "paid"
	statusWait = "wait"
)

// CallbackServiceImpl implements ports.CallbackService: it verifies an
// inbound payment notification, confirms it against the processor's status
// endpoint, and applies the workflow `pay` action on confirmed payment.
type CallbackServiceImpl struct {
	orders    ports.OrderRepository
	ledger    ports.TransactionLedger
	processor ports.ProcessorClient
	workflow  ports.WorkflowEngine
	hook      ports.PaymentCallback
	sigSvc    ports.SignatureService
	cfg       config.PassimpayConfig
	log       zerolog.Logger
}

// NewCallbackService creates a new CallbackServiceImpl.
func NewCallbackService(
	orders ports.OrderRepository,
	ledger ports.TransactionLedger,
	processor ports.ProcessorClient,
	workflow ports.WorkflowEngine,
	hook ports.PaymentCallback,
	sigSvc ports.SignatureService,
	cfg config.PassimpayConfig,
	log zerolog.Logger,
) *CallbackServiceImpl {
	return &CallbackServiceImpl{
		orders:    orders,
		ledger:    ledger,
		processor: processor,
		workflow:  workflow,
		hook:      hook,
		sigSvc:    sigSvc,
		cfg:       cfg,
		log:       log,
	}
}

// HandleCallback runs the callback through its transitions:
// received -> verified -> applied, or received/verified -> rejected.
// A rejected callback never mutates order state; the error return is non-nil
// only for fatal conditions (storage failure, payment hook failure).
func (s *CallbackServiceImpl) HandleCallback(ctx context.Context, req ports.CallbackRequest) (ports.RedirectTarget, error) {
	// Browser-return flags short-circuit before any verification. Neither
	// path mutates state; the server-to-server notification below is the
	// only route to the workflow action.
	switch req.TransactionResult {
	case "failure":
		return ports.RedirectFail, nil
	case "success":
		return ports.RedirectSuccess, nil
	}

	cb := req.Payload

	if cb.Hash == "" {
		s.log.Warn().
			Int64("order_id", cb.OrderID).
			Str("error_code", apperror.ErrMissingSignature().Code).
			Msg("callback without signature, rejected")
		return ports.RedirectFail, nil
	}
	if !s.sigSvc.Verify(s.cfg.APIKey, s.callbackPayload(cb), cb.Hash) {
		s.log.Warn().
			Int64("order_id", cb.OrderID).
			Str("error_code", apperror.ErrInvalidSignature().Code).
			Msg("callback signature mismatch, rejected")
		return ports.RedirectFail, nil
	}

	// Callbacks arrive without the caller's original app/merchant context;
	// recover it from prior ledger entries for this order.
	appID, merchantID, err := s.reconstructContext(ctx, cb.OrderID)
	if err != nil {
		return "", apperror.InternalError(fmt.Errorf("reconstruct context: %w", err))
	}

	// The callback alone is not proof of payment; ask the processor for the
	// authoritative order status.
	status, err := s.queryStatus(ctx, cb)
	if err != nil {
		s.logUpstreamFailure("orderstatus", err)
		return ports.RedirectFail, nil
	}

	switch status {
	case statusPaid:
		return s.applyPayment(ctx, cb, appID, merchantID)
	case statusWait:
		s.log.Info().Int64("order_id", cb.OrderID).Msg("payment not yet confirmed, pending")
		return ports.RedirectPending, nil
	default:
		s.log.Warn().Int64("order_id", cb.OrderID).Str("status", status).Msg("unexpected order status, rejected")
		return ports.RedirectFail, nil
	}
}

// callbackPayload builds the canonical signed field set of a notification.
// The confirmations field participates only when the processor sent it.
func (s *CallbackServiceImpl) callbackPayload(cb domain.Callback) string {
	fields := []ports.Field{
		{Key: "platform_id", Value: strconv.FormatInt(cb.PlatformID, 10)},
		{Key: "payment_id", Value: strconv.FormatInt(cb.PaymentID, 10)},
		{Key: "order_id", Value: strconv.FormatInt(cb.OrderID, 10)},
		{Key: "amount", Value: cb.Amount},
		{Key: "txhash", Value: cb.TxHash},
		{Key: "address_from", Value: cb.AddressFrom},
		{Key: "address_to", Value: cb.AddressTo},
		{Key: "fee", Value: cb.Fee},
	}
	if cb.Confirmations != nil {
		fields = append(fields, ports.Field{Key: "confirmations", Value: *cb.Confirmations})
	}
	return s.sigSvc.EncodeForm(fields)
}

// queryStatus issues the signed status query. The hash covers only the two
// data fields, not the hash field itself.
func (s *CallbackServiceImpl) queryStatus(ctx context.Context, cb domain.Callback) (string, error) {
	platformID := strconv.FormatInt(cb.PlatformID, 10)
	orderID := strconv.FormatInt(cb.OrderID, 10)

	payload := s.sigSvc.EncodeForm([]ports.Field{
		{Key: "platform_id", Value: platformID},
		{Key: "order_id", Value: orderID},
	})

	result, err := s.processor.OrderStatus(ctx, ports.OrderStatusRequest{
		PlatformID: platformID,
		OrderID:    orderID,
		Hash:       s.sigSvc.Sign(s.cfg.APIKey, payload),
	})
	if err != nil {
		return "", err
	}
	if result.Result != 1 {
		return "", fmt.Errorf("status query rejected: %s", result.Message)
	}
	return result.Status, nil
}

// applyPayment runs the workflow `pay` action if the order's current state
// admits it, then invokes the application payment hook. A hook failure is
// fatal: the processor accepted the payment but order linkage failed.
func (s *CallbackServiceImpl) applyPayment(ctx context.Context, cb domain.Callback, appID, merchantID string) (ports.RedirectTarget, error) {
	order, err := s.orders.GetByID(ctx, cb.OrderID)
	if err != nil {
		return "", apperror.InternalError(fmt.Errorf("load order: %w", err))
	}
	if order == nil {
		s.log.Warn().Int64("order_id", cb.OrderID).Msg("paid callback for unknown order, rejected")
		return ports.RedirectFail, nil
	}

	if actionAvailable(s.workflow.StateActions(order.State), domain.ActionPay) {
		if err := s.workflow.RunAction(ctx, domain.ActionPay, cb.OrderID); err != nil {
			return "", apperror.InternalError(fmt.Errorf("run pay action: %w", err))
		}
		s.log.Info().Int64("order_id", cb.OrderID).Str("txhash", cb.TxHash).Msg("order marked paid")
	} else {
		// Already paid or otherwise final; duplicate deliveries land here.
		s.log.Info().
			Int64("order_id", cb.OrderID).
			Str("state", string(order.State)).
			Msg("pay action not available, skipping workflow run")
	}

	if err := s.hook.OnPayment(ctx, ports.PaymentNotification{
		OrderID:    cb.OrderID,
		PaymentID:  cb.PaymentID,
		Amount:     cb.Amount,
		TxHash:     cb.TxHash,
		AppID:      appID,
		MerchantID: merchantID,
	}); err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return "", apperror.ErrPaymentCallbackFailed(appErr.HTTPStatus, appErr.Message)
		}
		return "", apperror.ErrPaymentCallbackFailed(0, err.Error())
	}

	return ports.RedirectSuccess, nil
}

// reconstructContext re-derives {app_id, merchant_id} from prior ledger
// entries for this order. Values are adopted only when exactly one distinct
// non-empty value exists for each; an ambiguous multi-context order stays
// unset.
func (s *CallbackServiceImpl) reconstructContext(ctx context.Context, orderID int64) (string, string, error) {
	entries, err := s.ledger.ListByOrder(ctx, domain.PluginID, orderID)
	if err != nil {
		return "", "", err
	}

	appIDs := distinctNonEmpty(entries, func(e domain.LedgerEntry) string { return e.AppID })
	merchantIDs := distinctNonEmpty(entries, func(e domain.LedgerEntry) string { return e.MerchantID })

	if len(appIDs) == 1 && len(merchantIDs) == 1 {
		return appIDs[0], merchantIDs[0], nil
	}
	return "", "", nil
}

func distinctNonEmpty(entries []domain.LedgerEntry, get func(domain.LedgerEntry) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, e := range entries {
		v := get(e)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

func actionAvailable(actions []string, action string) bool {
	for _, a := range actions {
		if a == action {
			return true
		}
	}
	return false
}

// logUpstreamFailure logs a processor failure with raw diagnostics when present.
func (s *CallbackServiceImpl) logUpstreamFailure(op string, err error) {
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
