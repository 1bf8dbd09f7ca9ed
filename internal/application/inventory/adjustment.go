package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/Donaciones-api/internal/application/dto"
	"github.com/jhoicas/Donaciones-api/internal/domain"
	"github.com/jhoicas/Donaciones-api/internal/domain/entity"
)

// BatchCountReason motivo fijo de los asientos del conteo masivo.
const BatchCountReason = "batch stock count"

// RecordAdjustment aplica un ajuste manual sobre un registro existente.
func (c *Coordinator) RecordAdjustment(ctx context.Context, actor Actor, req dto.AdjustmentRequest) (*dto.InventoryLogResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	var entry *entity.InventoryLogEntry
	err := c.tx.Run(ctx, func(r Repos) error {
		s, err := r.Stock.GetByIDForUpdate(ctx, req.StockID)
		if err != nil {
			return err
		}
		if s == nil {
			return fmt.Errorf("%w: stock %s", domain.ErrNotFound, req.StockID)
		}
		delta := req.ChangeAmount
		if req.ChangeType == entity.ChangeTypeDecrease {
			delta = -delta
			if s.TotalStock+delta < 0 {
				return fmt.Errorf("%w: el ajuste deja %s en %d", domain.ErrInvalidInput, s.Key, s.TotalStock+delta)
			}
		}
		entry, err = applyDelta(ctx, r, s, delta, req.Reason, actor.ID, c.now())
		return err
	})
	if err != nil {
		return nil, err
	}
	c.cache.Invalidate(ctx)
	out := toLogResponse(entry)
	return &out, nil
}

// BatchRecordAdjustments fija cantidades contadas. Es todo o nada: un id inexistente aborta el lote
// completo con ErrNotFound. Las entradas sin diferencia cuentan como omitidas y no generan asiento.
func (c *Coordinator) BatchRecordAdjustments(ctx context.Context, actor Actor, req dto.BatchAdjustmentRequest) (*dto.BatchAdjustmentResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if len(req.Updates) > c.opts.MaxBatchAdjustments {
		return nil, fmt.Errorf("%w: máximo %d entradas por lote", domain.ErrInvalidInput, c.opts.MaxBatchAdjustments)
	}
	updates := append([]dto.StockCountUpdate(nil), req.Updates...)
	sort.Slice(updates, func(i, j int) bool { return updates[i].StockID < updates[j].StockID })
	for i := 1; i < len(updates); i++ {
		if updates[i].StockID == updates[i-1].StockID {
			return nil, fmt.Errorf("%w: stock %s repetido", domain.ErrInvalidInput, updates[i].StockID)
		}
	}

	var res dto.BatchAdjustmentResponse
	err := c.tx.Run(ctx, func(r Repos) error {
		res = dto.BatchAdjustmentResponse{}
		now := c.now()
		for _, u := range updates {
			s, err := r.Stock.GetByIDForUpdate(ctx, u.StockID)
			if err != nil {
				return err
			}
			if s == nil {
				return fmt.Errorf("%w: stock %s", domain.ErrNotFound, u.StockID)
			}
			diff := u.NewQuantity - s.TotalStock
			if diff == 0 {
				res.Skipped++
				continue
			}
			if _, err := applyDelta(ctx, r, s, diff, BatchCountReason, actor.ID, now); err != nil {
				return err
			}
			res.Updated++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if res.Updated > 0 {
		c.cache.Invalidate(ctx)
	}
	return &res, nil
}
