package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Donaciones-api/internal/application/dto"
	"github.com/jhoicas/Donaciones-api/internal/domain"
	"github.com/jhoicas/Donaciones-api/internal/domain/repository"
)

// Paginación por defecto de los listados.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// StockUseCase consultas de stock y edición de metadatos (nunca de TotalStock).
type StockUseCase struct {
	tx    TxRunner
	repos Repos
	cache ReportCache
}

// NewStockUseCase construye el caso de uso. cache puede ser nil.
func NewStockUseCase(tx TxRunner, repos Repos, cache ReportCache) *StockUseCase {
	if cache == nil {
		cache = NopCache{}
	}
	return &StockUseCase{tx: tx, repos: repos, cache: cache}
}

// GetStock lista registros de stock con filtros y paginación.
func (uc *StockUseCase) GetStock(ctx context.Context, filter repository.StockFilter) (*dto.StockListResponse, error) {
	filter.Limit, filter.Offset = clampPage(filter.Limit, filter.Offset)
	filter.Name = strings.TrimSpace(filter.Name)
	filter.Category = strings.TrimSpace(filter.Category)
	list, total, err := uc.repos.Stock.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := &dto.StockListResponse{
		Items: make([]dto.StockResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset, Total: total},
	}
	for _, s := range list {
		out.Items = append(out.Items, toStockResponse(s))
	}
	return out, nil
}

// GetByID devuelve un registro de stock.
func (uc *StockUseCase) GetByID(ctx context.Context, id string) (*dto.StockResponse, error) {
	s, err := uc.repos.Stock.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("%w: stock %s", domain.ErrNotFound, id)
	}
	out := toStockResponse(s)
	return &out, nil
}

// UpdateSettings cambia unidad, stock de seguridad o marca de estándar.
func (uc *StockUseCase) UpdateSettings(ctx context.Context, id string, req dto.UpdateStockSettingsRequest) (*dto.StockResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	var out dto.StockResponse
	err := uc.tx.Run(ctx, func(r Repos) error {
		s, err := r.Stock.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if s == nil {
			return fmt.Errorf("%w: stock %s", domain.ErrNotFound, id)
		}
		if req.Unit != nil {
			u := strings.TrimSpace(*req.Unit)
			if u == "" {
				return fmt.Errorf("%w: unidad vacía", domain.ErrInvalidInput)
			}
			s.Unit = u
		}
		if req.SafetyStock != nil {
			s.SafetyStock = *req.SafetyStock
		}
		if req.IsStandard != nil {
			s.IsStandard = *req.IsStandard
		}
		if err := r.Stock.UpdateSettings(ctx, s); err != nil {
			return err
		}
		out = toStockResponse(s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.cache.Invalidate(ctx)
	return &out, nil
}
