package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Donaciones-api/internal/domain"
	"github.com/jhoicas/Donaciones-api/internal/domain/entity"
	"github.com/jhoicas/Donaciones-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

const stockColumns = `id, item_name, item_category, unit, total_stock, safety_stock, is_standard, created_at, updated_at`

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

func scanStock(row pgx.Row) (*entity.StockRecord, error) {
	var s entity.StockRecord
	err := row.Scan(&s.ID, &s.Key.Name, &s.Key.Category, &s.Unit, &s.TotalStock, &s.SafetyStock,
		&s.IsStandard, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StockRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.StockRecord, error) {
	s, err := scanStock(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

// GetByID obtiene un registro por id.
func (r *StockRepo) GetByID(ctx context.Context, id string) (*entity.StockRecord, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, "get stock", `SELECT `+stockColumns+` FROM stock_records WHERE id = $1`, id)
}

// GetByKey obtiene un registro por llave natural.
func (r *StockRepo) GetByKey(ctx context.Context, key entity.ItemKey) (*entity.StockRecord, error) {
	return r.getOne(ctx, "get stock by key",
		`SELECT `+stockColumns+` FROM stock_records WHERE item_name = $1 AND item_category = $2`,
		key.Name, key.Category)
}

// GetByIDForUpdate obtiene el registro y bloquea la fila (SELECT FOR UPDATE).
func (r *StockRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.StockRecord, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, "get stock for update",
		`SELECT `+stockColumns+` FROM stock_records WHERE id = $1 FOR UPDATE`, id)
}

// GetByKeyForUpdate obtiene el registro por llave y bloquea la fila.
func (r *StockRepo) GetByKeyForUpdate(ctx context.Context, key entity.ItemKey) (*entity.StockRecord, error) {
	return r.getOne(ctx, "get stock by key for update",
		`SELECT `+stockColumns+` FROM stock_records WHERE item_name = $1 AND item_category = $2 FOR UPDATE`,
		key.Name, key.Category)
}

// EnsureForUpdate crea el registro en cero si no existe y lo devuelve bloqueado.
// ON CONFLICT DO NOTHING espera a la tx que lo esté insertando en paralelo.
func (r *StockRepo) EnsureForUpdate(ctx context.Context, key entity.ItemKey, unit string) (*entity.StockRecord, error) {
	query := `
		INSERT INTO stock_records (id, item_name, item_category, unit, total_stock, safety_stock, is_standard, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 0, 0, false, now(), now())
		ON CONFLICT (item_name, item_category) DO NOTHING`
	if _, err := r.q.Exec(ctx, query, uuid.New().String(), key.Name, key.Category, unit); err != nil {
		return nil, fmt.Errorf("ensure stock: %w", err)
	}
	s, err := r.GetByKeyForUpdate(ctx, key)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("ensure stock: %w: %s", domain.ErrNotFound, key)
	}
	return s, nil
}

// UpdateQuantity escribe el total. El CHECK total_stock >= 0 se traduce a ErrInsufficientStock.
func (r *StockRepo) UpdateQuantity(ctx context.Context, id string, quantity int64) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE stock_records SET total_stock = $2, updated_at = now() WHERE id = $1`, id, quantity)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("%w: stock %s quedaría en %d", domain.ErrInsufficientStock, id, quantity)
		}
		return fmt.Errorf("update stock quantity: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: stock %s", domain.ErrNotFound, id)
	}
	return nil
}

// UpdateSettings actualiza unidad, stock de seguridad y marca de estándar.
func (r *StockRepo) UpdateSettings(ctx context.Context, s *entity.StockRecord) error {
	query := `
		UPDATE stock_records SET unit = $2, safety_stock = $3, is_standard = $4, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`
	err := r.q.QueryRow(ctx, query, s.ID, s.Unit, s.SafetyStock, s.IsStandard).Scan(&s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: stock %s", domain.ErrNotFound, s.ID)
		}
		if isCheckViolation(err) {
			return fmt.Errorf("%w: stock de seguridad negativo", domain.ErrInvalidInput)
		}
		return fmt.Errorf("update stock settings: %w", err)
	}
	return nil
}

const stockFilterWhere = `
	WHERE ($1 = '' OR item_name ILIKE $1)
	  AND ($2 = '' OR item_category = $2)
	  AND (NOT $3 OR total_stock < safety_stock)
	  AND ($4::boolean IS NULL OR is_standard = $4)`

// List lista con filtros y paginación; devuelve además el total sin paginar.
func (r *StockRepo) List(ctx context.Context, f repository.StockFilter) ([]*entity.StockRecord, int, error) {
	var pattern string
	if f.Name != "" {
		pattern = likePattern(f.Name)
	}
	args := []any{pattern, f.Category, f.OnlyInsufficient, f.IsStandard}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM stock_records`+stockFilterWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count stock: %w", err)
	}

	query := `SELECT ` + stockColumns + ` FROM stock_records` + stockFilterWhere + `
		ORDER BY item_name, item_category LIMIT $5 OFFSET $6`
	rows, err := r.q.Query(ctx, query, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockRecord
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, s)
	}
	return list, total, rows.Err()
}

// ListInStockByKeys registros de las llaves dadas con existencias (> 0).
func (r *StockRepo) ListInStockByKeys(ctx context.Context, keys []entity.ItemKey) ([]*entity.StockRecord, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	names, cats := keyArrays(keys)
	query := `
		SELECT ` + stockColumns + ` FROM stock_records
		WHERE total_stock > 0
		  AND (item_name, item_category) IN (SELECT * FROM unnest($1::text[], $2::text[]))`
	rows, err := r.q.Query(ctx, query, names, cats)
	if err != nil {
		return nil, fmt.Errorf("list stock by keys: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockRecord
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
