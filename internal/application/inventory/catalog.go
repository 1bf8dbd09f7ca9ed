package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Donaciones-api/internal/application/dto"
	"github.com/jhoicas/Donaciones-api/internal/domain"
	"github.com/jhoicas/Donaciones-api/internal/domain/entity"
	"github.com/jhoicas/Donaciones-api/internal/domain/inventory"
)

// CatalogUseCase unidades permitidas por artículo; la unidad por defecto alimenta la normalización
// de líneas sin unidad explícita.
type CatalogUseCase struct {
	repos Repos
	now   func() time.Time
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(repos Repos, opts Options) *CatalogUseCase {
	opts = opts.withDefaults()
	return &CatalogUseCase{repos: repos, now: opts.Now}
}

// Upsert crea o reemplaza la lista de unidades de un artículo.
func (uc *CatalogUseCase) Upsert(ctx context.Context, req dto.UpsertCatalogItemRequest) (*dto.CatalogItemResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	key := entity.NewItemKey(req.ItemName, req.ItemCategory)
	if !key.Valid() {
		return nil, fmt.Errorf("%w: nombre y categoría requeridos", domain.ErrInvalidInput)
	}
	units, def, err := inventory.NormalizeUnits(req.Units, req.DefaultUnit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	item := &entity.CatalogItem{Key: key, Units: units, DefaultUnit: def, UpdatedAt: uc.now().UTC()}
	if err := uc.repos.Catalog.Upsert(ctx, item); err != nil {
		return nil, err
	}
	out := toCatalogResponse(item)
	return &out, nil
}

// List devuelve todo el catálogo ordenado por llave.
func (uc *CatalogUseCase) List(ctx context.Context) ([]dto.CatalogItemResponse, error) {
	list, err := uc.repos.Catalog.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CatalogItemResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCatalogResponse(c))
	}
	return out, nil
}
