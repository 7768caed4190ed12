package integration

import (
	"context"
	"sync"
	"time"

	"passimpay-gateway/internal/core/domain"
)

// In-memory repository implementations backing the integration tests.
// They mirror the postgres repos' contracts: GetByID returns (nil, nil)
// for missing orders, the ledger is append-only and ordered by id.

type inMemoryOrderRepo struct {
	mu     sync.Mutex
	nextID int64
	orders map[int64]domain.Order
}

func newInMemoryOrderRepo() *inMemoryOrderRepo {
	return &inMemoryOrderRepo{nextID: 1, orders: make(map[int64]domain.Order)}
}

func (r *inMemoryOrderRepo) Create(_ context.Context, o *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o.ID = r.nextID
	r.nextID++
	r.orders[o.ID] = *o
	return nil
}

func (r *inMemoryOrderRepo) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	cp := o
	return &cp, nil
}

func (r *inMemoryOrderRepo) UpdateState(_ context.Context, id int64, state domain.OrderState, paidAt *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o := r.orders[id]
	o.State = state
	if paidAt != nil {
		o.PaidAt = paidAt
	}
	r.orders[id] = o
	return nil
}

type inMemoryLedger struct {
	mu      sync.Mutex
	nextID  int64
	entries []domain.LedgerEntry
}

func newInMemoryLedger() *inMemoryLedger {
	return &inMemoryLedger{nextID: 1}
}

func (l *inMemoryLedger) Create(_ context.Context, e *domain.LedgerEntry) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.ID = l.nextID
	l.nextID++
	l.entries = append(l.entries, *e)
	return e.ID, nil
}

func (l *inMemoryLedger) ListByOrder(_ context.Context, plugin string, orderID int64) ([]domain.LedgerEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []domain.LedgerEntry
	for _, e := range l.entries {
		if e.Plugin == plugin && e.OrderID == orderID {
			out = append(out, e)
		}
	}
	return out, nil
}
