package service

import (
	"context"
	"fmt"
	"time"

	"passimpay-gateway/internal/core/domain"
	"passimpay-gateway/internal/core/ports"
	"passimpay-gateway/pkg/apperror"

	"github.com/rs/zerolog"
)

// stateActions maps each order state to the workflow actions it admits.
// Terminal states admit nothing; refunds are only reachable from paid.
var stateActions = map[domain.OrderState][]string{
	domain.OrderStateNew:        {domain.ActionPay, domain.ActionCancel},
	domain.OrderStateProcessing: {domain.ActionPay, domain.ActionCancel},
	domain.OrderStatePaid:       {domain.ActionRefund},
	domain.OrderStateCanceled:   {},
	domain.OrderStateRefunded:   {},
}

// WorkflowEngineImpl implements ports.WorkflowEngine over the order
// repository. It is the single writer of order state.
type WorkflowEngineImpl struct {
	orders ports.OrderRepository
	log    zerolog.Logger
}

// NewWorkflowEngine creates a new WorkflowEngineImpl.
func NewWorkflowEngine(orders ports.OrderRepository, log zerolog.Logger) *WorkflowEngineImpl {
	return &WorkflowEngineImpl{orders: orders, log: log}
}

// StateActions returns the actions available in the given state.
func (w *WorkflowEngineImpl) StateActions(state domain.OrderState) []string {
	return stateActions[state]
}

// RunAction executes a workflow action against an order. The action must be
// available in the order's current state; running an unavailable action is
// an error, never a silent no-op.
func (w *WorkflowEngineImpl) RunAction(ctx context.Context, action string, orderID int64) error {
	order, err := w.orders.GetByID(ctx, orderID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("load order: %w", err))
	}
	if order == nil {
		return apperror.ErrOrderNotFound()
	}

	if !actionAvailable(stateActions[order.State], action) {
		w.log.Warn().
			Int64("order_id", orderID).
			Str("action", action).
			Str("state", string(order.State)).
			Msg("workflow action not available")
		return apperror.ErrActionUnavailable(action)
	}

	var (
		next   domain.OrderState
		paidAt *time.Time
	)
	switch action {
	case domain.ActionPay:
		now := time.Now().UTC()
		next, paidAt = domain.OrderStatePaid, &now
	case domain.ActionCancel:
		next = domain.OrderStateCanceled
	case domain.ActionRefund:
		next = domain.OrderStateRefunded
	default:
		return apperror.ErrActionUnavailable(action)
	}

	if err := w.orders.UpdateState(ctx, orderID, next, paidAt); err != nil {
		return apperror.InternalError(fmt.Errorf("update order state: %w", err))
	}

	w.log.Info().
		Int64("order_id", orderID).
		Str("action", action).
		Str("state", string(next)).
		Msg("workflow action applied")
	return nil
}
