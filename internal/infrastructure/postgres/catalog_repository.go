package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Donaciones-api/internal/domain"
	"github.com/jhoicas/Donaciones-api/internal/domain/entity"
	"github.com/jhoicas/Donaciones-api/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo unidades por artículo (units TEXT[] + índice por defecto).
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador. Pasar pool o tx.
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

// Upsert crea o reemplaza la lista de unidades.
func (r *CatalogRepo) Upsert(ctx context.Context, c *entity.CatalogItem) error {
	query := `
		INSERT INTO catalog_items (item_name, item_category, units, default_unit, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (item_name, item_category)
		DO UPDATE SET units = EXCLUDED.units, default_unit = EXCLUDED.default_unit, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query, c.Key.Name, c.Key.Category, c.Units, c.DefaultUnit, c.UpdatedAt)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("%w: unidad por defecto fuera de rango", domain.ErrInvalidInput)
		}
		return fmt.Errorf("upsert catalog item: %w", err)
	}
	return nil
}

// GetByKey devuelve la entrada del artículo o nil, nil.
func (r *CatalogRepo) GetByKey(ctx context.Context, key entity.ItemKey) (*entity.CatalogItem, error) {
	query := `
		SELECT item_name, item_category, units, default_unit, updated_at
		FROM catalog_items WHERE item_name = $1 AND item_category = $2`
	var c entity.CatalogItem
	err := r.q.QueryRow(ctx, query, key.Name, key.Category).Scan(&c.Key.Name, &c.Key.Category, &c.Units, &c.DefaultUnit, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get catalog item: %w", err)
	}
	return &c, nil
}

// List todo el catálogo ordenado por llave.
func (r *CatalogRepo) List(ctx context.Context) ([]*entity.CatalogItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT item_name, item_category, units, default_unit, updated_at
		FROM catalog_items ORDER BY item_name, item_category`)
	if err != nil {
		return nil, fmt.Errorf("list catalog items: %w", err)
	}
	defer rows.Close()
	var list []*entity.CatalogItem
	for rows.Next() {
		var c entity.CatalogItem
		if err := rows.Scan(&c.Key.Name, &c.Key.Category, &c.Units, &c.DefaultUnit, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan catalog item: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
