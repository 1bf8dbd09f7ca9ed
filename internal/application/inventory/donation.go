package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/jhoicas/Donaciones-api/internal/application/dto"
	"github.com/jhoicas/Donaciones-api/internal/domain"
	"github.com/jhoicas/Donaciones-api/internal/domain/entity"
)

// CreateDonation registra el lote con sus líneas pendientes. El stock no cambia hasta que cada
// línea se recibe con HandleDonationItem.
func (c *Coordinator) CreateDonation(ctx context.Context, actor Actor, req dto.CreateDonationRequest) (*dto.DonationResponse, error) {
	lines, err := normalizeDonationItems(req.Items)
	if err != nil {
		return nil, err
	}

	var (
		batch *entity.DonationBatch
		donor *entity.Donor
	)
	err = c.serials.RetryOnConflict(ctx, entity.SerialTypeDonation, func() error {
		return c.tx.Run(ctx, func(r Repos) error {
			d, name, err := resolveDonor(ctx, r, req.DonorID, req.DonorName)
			if err != nil {
				return err
			}
			serial, err := c.serials.next(ctx, r, entity.SerialTypeDonation)
			if err != nil {
				return err
			}
			b := &entity.DonationBatch{
				ID:           uuid.New().String(),
				SerialNumber: serial,
				DonorName:    name,
				CreatedAt:    c.now(),
				CreatedBy:    actor.ID,
			}
			if d != nil {
				b.DonorID = &d.ID
			}
			if err := r.Donations.Create(ctx, b); err != nil {
				return err
			}
			for _, l := range lines {
				stock, err := r.Stock.GetByKey(ctx, l.Key)
				if err != nil {
					return err
				}
				unit, err := resolveUnit(ctx, r, l, stock)
				if err != nil {
					return err
				}
				item := &entity.DonationLineItem{
					ID:         uuid.New().String(),
					BatchID:    b.ID,
					Key:        l.Key,
					Unit:       unit,
					Quantity:   l.Quantity,
					ExpiryDate: l.ExpiryDate,
					Notes:      l.Notes,
				}
				if err := r.Donations.CreateItem(ctx, item); err != nil {
					return err
				}
				b.Items = append(b.Items, item)
			}
			batch, donor = b, d
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	c.cache.Invalidate(ctx)
	out := toDonationResponse(batch, donor)
	return &out, nil
}

// HandleDonationItem ingresa al stock una línea de donación (una sola vez) creando el registro
// de stock si no existía.
func (c *Coordinator) HandleDonationItem(ctx context.Context, actor Actor, itemID string) (*dto.DonationLineItemResponse, error) {
	var item *entity.DonationLineItem
	err := c.tx.Run(ctx, func(r Repos) error {
		it, err := r.Donations.GetItemForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if it == nil {
			return fmt.Errorf("%w: línea de donación %s", domain.ErrNotFound, itemID)
		}
		if it.IsHandled {
			return fmt.Errorf("%w: la línea %s ya fue recibida", domain.ErrConflict, itemID)
		}
		b, err := r.Donations.GetByID(ctx, it.BatchID)
		if err != nil {
			return err
		}
		if b == nil {
			return fmt.Errorf("%w: donación %s", domain.ErrNotFound, it.BatchID)
		}
		s, err := r.Stock.EnsureForUpdate(ctx, it.Key, it.Unit)
		if err != nil {
			return err
		}
		now := c.now()
		reason := fmt.Sprintf("donation %s received", b.SerialNumber)
		if _, err := applyDelta(ctx, r, s, it.Quantity, reason, actor.ID, now); err != nil {
			return err
		}
		if err := r.Donations.MarkItemHandled(ctx, it.ID, now); err != nil {
			return err
		}
		it.IsHandled = true
		it.HandledAt = &now
		item = it
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.cache.Invalidate(ctx)
	out := toDonationLineResponse(item)
	return &out, nil
}

// DeleteDonation elimina el lote y retira del stock lo que ya se había recibido.
// Si esa mercancía ya salió en entregas, falla con ErrInsufficientStock y nada cambia.
func (c *Coordinator) DeleteDonation(ctx context.Context, actor Actor, id string) error {
	err := c.tx.Run(ctx, func(r Repos) error {
		b, err := r.Donations.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if b == nil {
			return fmt.Errorf("%w: donación %s", domain.ErrNotFound, id)
		}

		// Líneas primero (mismo orden que HandleDonationItem), luego stock por llave
		ids := make([]string, 0, len(b.Items))
		for _, it := range b.Items {
			ids = append(ids, it.ID)
		}
		sort.Strings(ids)
		handled := make([]*entity.DonationLineItem, 0, len(ids))
		for _, itemID := range ids {
			it, err := r.Donations.GetItemForUpdate(ctx, itemID)
			if err != nil {
				return err
			}
			if it != nil && it.IsHandled {
				handled = append(handled, it)
			}
		}
		sort.SliceStable(handled, func(i, j int) bool { return handled[i].Key.Less(handled[j].Key) })

		now := c.now()
		reason := fmt.Sprintf("donation %s deleted", b.SerialNumber)
		for _, it := range handled {
			s, err := r.Stock.GetByKeyForUpdate(ctx, it.Key)
			if err != nil {
				return err
			}
			if s == nil {
				return insufficient(it.Key, 0, it.Quantity)
			}
			if _, err := applyDelta(ctx, r, s, -it.Quantity, reason, actor.ID, now); err != nil {
				return err
			}
		}
		if err := r.Donations.DeleteItems(ctx, b.ID); err != nil {
			return err
		}
		return r.Donations.Delete(ctx, b.ID)
	})
	if err != nil {
		return err
	}
	c.cache.Invalidate(ctx)
	return nil
}
