package ports

import (
	"context"
	"time"

	"passimpay-gateway/internal/core/domain"
)

// OrderRepository defines read and state-transition access to shop orders.
// Implementations return (nil, nil) when an order does not exist.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	UpdateState(ctx context.Context, id int64, state domain.OrderState, paidAt *time.Time) error
}

// TransactionLedger defines the append-only transaction log.
// Create returns the generated entry id. ListByOrder returns entries for a
// plugin/order pair ordered by insertion id.
type TransactionLedger interface {
	Create(ctx context.Context, entry *domain.LedgerEntry) (int64, error)
	ListByOrder(ctx context.Context, plugin string, orderID int64) ([]domain.LedgerEntry, error)
}
