package postgres

import (
	"context"
	"fmt"

	"passimpay-gateway/internal/core/domain"
)

// LedgerRepo implements ports.TransactionLedger. The table is append-only:
// entries are never updated or deleted.
type LedgerRepo struct {
	pool Pool
}

// NewLedgerRepo creates a new LedgerRepo.
func NewLedgerRepo(pool Pool) *LedgerRepo {
	return &LedgerRepo{pool: pool}
}

// Create appends a ledger entry and returns the generated id.
func (r *LedgerRepo) Create(ctx context.Context, e *domain.LedgerEntry) (int64, error) {
	query := `INSERT INTO transaction_ledger (plugin, app_id, merchant_id, native_id, type, result, order_id, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`

	var id int64
	err := r.pool.QueryRow(ctx, query,
		e.Plugin, e.AppID, e.MerchantID, e.NativeID,
		e.Type, []byte(e.Result), e.OrderID, e.Amount, e.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert ledger entry: %w", err)
	}
	return id, nil
}

// ListByOrder returns all entries for a plugin/order pair ordered by id.
func (r *LedgerRepo) ListByOrder(ctx context.Context, plugin string, orderID int64) ([]domain.LedgerEntry, error) {
	query := `SELECT id, plugin, app_id, merchant_id, native_id, type, result, order_id, amount, created_at
		FROM transaction_ledger WHERE plugin = $1 AND order_id = $2 ORDER BY id`

	rows, err := r.pool.Query(ctx, query, plugin, orderID)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var e domain.LedgerEntry
		var result []byte
		if err := rows.Scan(
			&e.ID, &e.Plugin, &e.AppID, &e.MerchantID, &e.NativeID,
			&e.Type, &result, &e.OrderID, &e.Amount, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		e.Result = result
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger entries: %w", err)
	}
	return entries, nil
}
