package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Donaciones-api/internal/domain/entity"
	"github.com/jhoicas/Donaciones-api/internal/domain/repository"
)

var _ repository.InventoryLogRepository = (*InventoryLogRepo)(nil)

// InventoryLogRepo bitácora de inventario; solo INSERT y SELECT.
type InventoryLogRepo struct {
	q Querier
}

// NewInventoryLogRepository construye el adaptador. Pasar pool o tx.
func NewInventoryLogRepository(q Querier) *InventoryLogRepo {
	return &InventoryLogRepo{q: q}
}

// Append inserta un asiento.
func (r *InventoryLogRepo) Append(ctx context.Context, e *entity.InventoryLogEntry) error {
	query := `
		INSERT INTO inventory_logs (id, stock_id, item_name, item_category, change_type, change_amount,
			previous_quantity, new_quantity, reason, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.StockID, e.Key.Name, e.Key.Category, e.ChangeType, e.ChangeAmount,
		e.PreviousQuantity, e.NewQuantity, e.Reason, e.CreatedBy, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert inventory log: %w", err)
	}
	return nil
}

// List filtra y pagina, más recientes primero.
func (r *InventoryLogRepo) List(ctx context.Context, f repository.InventoryLogFilter) ([]*entity.InventoryLogEntry, int, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.StockID != "" {
		if !validID(f.StockID) {
			return nil, 0, nil
		}
		add("stock_id = $%d", f.StockID)
	}
	if f.ChangeType != "" {
		add("change_type = $%d", f.ChangeType)
	}
	if f.CreatedBy != "" {
		add("created_by = $%d", f.CreatedBy)
	}
	if f.From != nil {
		add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("created_at <= $%d", *f.To)
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM inventory_logs`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count inventory logs: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, stock_id, item_name, item_category, change_type, change_amount,
			previous_quantity, new_quantity, reason, created_by, created_at
		FROM inventory_logs%s
		ORDER BY created_at DESC, seq DESC LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	rows, err := r.q.Query(ctx, query, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list inventory logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryLogEntry
	for rows.Next() {
		var e entity.InventoryLogEntry
		if err := rows.Scan(&e.ID, &e.StockID, &e.Key.Name, &e.Key.Category, &e.ChangeType, &e.ChangeAmount,
			&e.PreviousQuantity, &e.NewQuantity, &e.Reason, &e.CreatedBy, &e.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan inventory log: %w", err)
		}
		list = append(list, &e)
	}
	return list, total, rows.Err()
}
