package repository

import (
	"context"

	"github.com/jhoicas/Donaciones-api/internal/domain/entity"
)

// StockFilter filtros del listado de stock (getStock).
type StockFilter struct {
	Name             string // subcadena, sin distinguir mayúsculas
	Category         string
	OnlyInsufficient bool
	IsStandard       *bool
	Limit            int
	Offset           int
}

// StockRepository define el puerto para leer/actualizar contadores de stock por llave natural.
// Los métodos ...ForUpdate bloquean la fila hasta el fin de la transacción.
// Los Get* devuelven nil, nil si no existe.
type StockRepository interface {
	GetByID(ctx context.Context, id string) (*entity.StockRecord, error)
	GetByKey(ctx context.Context, key entity.ItemKey) (*entity.StockRecord, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.StockRecord, error)
	GetByKeyForUpdate(ctx context.Context, key entity.ItemKey) (*entity.StockRecord, error)
	// EnsureForUpdate crea el registro en cero si no existe (creación perezosa) y lo bloquea.
	EnsureForUpdate(ctx context.Context, key entity.ItemKey, unit string) (*entity.StockRecord, error)
	UpdateQuantity(ctx context.Context, id string, quantity int64) error
	UpdateSettings(ctx context.Context, stock *entity.StockRecord) error
	List(ctx context.Context, filter StockFilter) ([]*entity.StockRecord, int, error)
	// ListInStockByKeys devuelve los registros de las llaves dadas con TotalStock > 0.
	ListInStockByKeys(ctx context.Context, keys []entity.ItemKey) ([]*entity.StockRecord, error)
}
