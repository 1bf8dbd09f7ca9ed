package inventory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Donaciones-api/internal/application/dto"
	"github.com/jhoicas/Donaciones-api/internal/domain"
	"github.com/jhoicas/Donaciones-api/internal/domain/entity"
)

// Coordinator es el único punto que modifica TotalStock. Cada operación corre en una sola
// transacción: bloquea los registros de stock en orden fijo, asigna consecutivo, escribe
// lote y líneas, ajusta el stock y deja un asiento de bitácora por línea.
type Coordinator struct {
	tx      TxRunner
	serials *SerialAllocator
	cache   ReportCache
	opts    Options
}

// NewCoordinator construye el coordinador. cache puede ser nil.
func NewCoordinator(tx TxRunner, serials *SerialAllocator, cache ReportCache, opts Options) *Coordinator {
	if cache == nil {
		cache = NopCache{}
	}
	return &Coordinator{tx: tx, serials: serials, cache: cache, opts: opts.withDefaults()}
}

func (c *Coordinator) now() time.Time {
	return c.opts.Now().UTC()
}

// CreateDisbursement registra una entrega: verifica existencias de todas las llaves antes de
// descontar; si alguna no alcanza, nada se modifica.
func (c *Coordinator) CreateDisbursement(ctx context.Context, actor Actor, req dto.CreateDisbursementRequest) (*dto.DisbursementResponse, error) {
	lines, err := normalizeItems(req.Items)
	if err != nil {
		return nil, err
	}

	var (
		batch     *entity.DisbursementBatch
		recipient *entity.RecipientUnit
	)
	err = c.serials.RetryOnConflict(ctx, entity.SerialTypeDisbursement, func() error {
		return c.tx.Run(ctx, func(r Repos) error {
			rec, name, err := resolveRecipient(ctx, r, req.RecipientID, req.RecipientName)
			if err != nil {
				return err
			}

			// Cantidad total pedida por llave; los bloqueos se toman en orden de llave
			requested := make(map[entity.ItemKey]int64, len(lines))
			keys := make([]entity.ItemKey, 0, len(lines))
			for _, l := range lines {
				if _, ok := requested[l.Key]; !ok {
					keys = append(keys, l.Key)
				}
				requested[l.Key] += l.Quantity
			}
			sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

			locked := make(map[entity.ItemKey]*entity.StockRecord, len(keys))
			for _, k := range keys {
				s, err := r.Stock.GetByKeyForUpdate(ctx, k)
				if err != nil {
					return err
				}
				var available int64
				if s != nil {
					available = s.TotalStock
				}
				if available < requested[k] {
					return insufficient(k, available, requested[k])
				}
				locked[k] = s
			}

			serial, err := c.serials.next(ctx, r, entity.SerialTypeDisbursement)
			if err != nil {
				return err
			}
			now := c.now()
			b := &entity.DisbursementBatch{
				ID:            uuid.New().String(),
				SerialNumber:  serial,
				RecipientName: name,
				CreatedAt:     now,
				CreatedBy:     actor.ID,
			}
			if rec != nil {
				b.RecipientID = &rec.ID
			}
			if err := r.Disbursements.Create(ctx, b); err != nil {
				return err
			}

			reason := fmt.Sprintf("disbursement %s", serial)
			for _, l := range lines {
				s := locked[l.Key]
				unit, err := resolveUnit(ctx, r, l, s)
				if err != nil {
					return err
				}
				item := &entity.DisbursementLineItem{
					ID:       uuid.New().String(),
					BatchID:  b.ID,
					Key:      l.Key,
					Unit:     unit,
					Quantity: l.Quantity,
				}
				if err := r.Disbursements.CreateItem(ctx, item); err != nil {
					return err
				}
				if _, err := applyDelta(ctx, r, s, -l.Quantity, reason, actor.ID, now); err != nil {
					return err
				}
				b.Items = append(b.Items, item)
			}
			batch, recipient = b, rec
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	c.cache.Invalidate(ctx)
	out := toDisbursementResponse(batch, recipient)
	return &out, nil
}

// DeleteDisbursement anula una entrega devolviendo cada línea al stock.
func (c *Coordinator) DeleteDisbursement(ctx context.Context, actor Actor, id string) error {
	err := c.tx.Run(ctx, func(r Repos) error {
		b, err := r.Disbursements.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if b == nil {
			return fmt.Errorf("%w: entrega %s", domain.ErrNotFound, id)
		}
		items := append([]*entity.DisbursementLineItem(nil), b.Items...)
		sort.SliceStable(items, func(i, j int) bool { return items[i].Key.Less(items[j].Key) })

		now := c.now()
		reason := fmt.Sprintf("disbursement %s deleted", b.SerialNumber)
		for _, it := range items {
			// El registro se recrea en cero si desapareció
			s, err := r.Stock.EnsureForUpdate(ctx, it.Key, it.Unit)
			if err != nil {
				return err
			}
			if _, err := applyDelta(ctx, r, s, it.Quantity, reason, actor.ID, now); err != nil {
				return err
			}
		}
		if err := r.Disbursements.DeleteItems(ctx, b.ID); err != nil {
			return err
		}
		return r.Disbursements.Delete(ctx, b.ID)
	})
	if err != nil {
		return err
	}
	c.cache.Invalidate(ctx)
	return nil
}

// applyDelta ajusta un registro ya bloqueado y anota el asiento con la foto antes/después.
// s se actualiza en sitio para que líneas repetidas de la misma llave encadenen los valores.
func applyDelta(ctx context.Context, r Repos, s *entity.StockRecord, delta int64, reason, actorID string, now time.Time) (*entity.InventoryLogEntry, error) {
	prev := s.TotalStock
	if delta > 0 && prev > math.MaxInt64-delta {
		return nil, fmt.Errorf("%w: %s: el incremento de %d excede el máximo representable", domain.ErrInvalidInput, s.Key, delta)
	}
	next := prev + delta
	if next < 0 {
		return nil, insufficient(s.Key, prev, -delta)
	}
	if err := r.Stock.UpdateQuantity(ctx, s.ID, next); err != nil {
		return nil, err
	}
	s.TotalStock = next
	s.UpdatedAt = now

	entry := &entity.InventoryLogEntry{
		ID:               uuid.New().String(),
		StockID:          s.ID,
		Key:              s.Key,
		ChangeType:       entity.ChangeTypeIncrease,
		ChangeAmount:     delta,
		PreviousQuantity: prev,
		NewQuantity:      next,
		Reason:           reason,
		CreatedBy:        actorID,
		CreatedAt:        now,
	}
	if delta < 0 {
		entry.ChangeType = entity.ChangeTypeDecrease
		entry.ChangeAmount = -delta
	}
	if err := r.Logs.Append(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func insufficient(key entity.ItemKey, have, need int64) error {
	return fmt.Errorf("%w: %s: have %d, need %d", domain.ErrInsufficientStock, key, have, need)
}
