package repository

import (
	"context"

	"github.com/jhoicas/Donaciones-api/internal/domain/entity"
)

// CatalogRepository unidades permitidas por artículo.
type CatalogRepository interface {
	Upsert(ctx context.Context, item *entity.CatalogItem) error
	GetByKey(ctx context.Context, key entity.ItemKey) (*entity.CatalogItem, error)
	List(ctx context.Context) ([]*entity.CatalogItem, error)
}
