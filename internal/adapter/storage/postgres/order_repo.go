package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"passimpay-gateway/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// OrderRepo implements ports.OrderRepository.
type OrderRepo struct {
	pool Pool
}

// NewOrderRepo creates a new OrderRepo.
func NewOrderRepo(pool Pool) *OrderRepo {
	return &OrderRepo{pool: pool}
}

// Create inserts a new order. The serial id is written back to the order.
func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	query := `INSERT INTO orders (total, currency, state, created_at)
		VALUES ($1, $2, $3, $4) RETURNING id`

	err := r.pool.QueryRow(ctx, query,
		o.Total.String(), o.Currency, o.State, o.CreatedAt,
	).Scan(&o.ID)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID fetches an order by id. Total is stored as numeric and scanned
// through its text form to keep exact decimal precision.
func (r *OrderRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	query := `SELECT id, total::text, currency, state, created_at, paid_at
		FROM orders WHERE id = $1`

	o := &domain.Order{}
	var total string
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&o.ID, &total, &o.Currency, &o.State, &o.CreatedAt, &o.PaidAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order by id: %w", err)
	}

	o.Total, err = decimal.NewFromString(total)
	if err != nil {
		return nil, fmt.Errorf("parse order total: %w", err)
	}
	return o, nil
}

// UpdateState moves an order to a new workflow state. paidAt is set only by
// the pay action and left untouched otherwise.
func (r *OrderRepo) UpdateState(ctx context.Context, id int64, state domain.OrderState, paidAt *time.Time) error {
	query := `UPDATE orders SET state = $2, paid_at = COALESCE($3, paid_at) WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, state, paidAt)
	if err != nil {
		return fmt.Errorf("update order state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update order state: order %d not found", id)
	}
	return nil
}
