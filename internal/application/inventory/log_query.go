package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/Donaciones-api/internal/application/dto"
	"github.com/jhoicas/Donaciones-api/internal/domain"
	"github.com/jhoicas/Donaciones-api/internal/domain/entity"
	"github.com/jhoicas/Donaciones-api/internal/domain/repository"
)

// LogUseCase consulta de la bitácora (solo lectura).
type LogUseCase struct {
	logs repository.InventoryLogRepository
}

// NewLogUseCase construye el caso de uso.
func NewLogUseCase(logs repository.InventoryLogRepository) *LogUseCase {
	return &LogUseCase{logs: logs}
}

// List devuelve asientos del más reciente al más antiguo.
func (uc *LogUseCase) List(ctx context.Context, filter repository.InventoryLogFilter) (*dto.InventoryLogListResponse, error) {
	switch filter.ChangeType {
	case "", entity.ChangeTypeIncrease, entity.ChangeTypeDecrease:
	default:
		return nil, fmt.Errorf("%w: change_type %q", domain.ErrInvalidInput, filter.ChangeType)
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, fmt.Errorf("%w: rango de fechas invertido", domain.ErrInvalidInput)
	}
	filter.Limit, filter.Offset = clampPage(filter.Limit, filter.Offset)
	list, total, err := uc.logs.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := &dto.InventoryLogListResponse{
		Items: make([]dto.InventoryLogResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset, Total: total},
	}
	for _, e := range list {
		out.Items = append(out.Items, toLogResponse(e))
	}
	return out, nil
}
