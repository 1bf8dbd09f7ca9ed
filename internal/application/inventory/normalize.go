package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Donaciones-api/internal/application/dto"
	"github.com/jhoicas/Donaciones-api/internal/domain"
	"github.com/jhoicas/Donaciones-api/internal/domain/entity"
	"github.com/jhoicas/Donaciones-api/internal/domain/inventory"
)

// lineInput línea ya normalizada. Unit puede quedar vacía: se resuelve dentro de la tx.
type lineInput struct {
	Key        entity.ItemKey
	Unit       string
	Quantity   int64
	ExpiryDate *time.Time
	Notes      string
}

// normalizeItems descarta entradas sin llave o con cantidad no entera/positiva.
func normalizeItems(in []dto.ItemRequest) ([]lineInput, error) {
	out := make([]lineInput, 0, len(in))
	for _, it := range in {
		key := entity.NewItemKey(it.ItemName, it.ItemCategory)
		qty, ok := inventory.PositiveQuantity(it.Quantity)
		if !key.Valid() || !ok {
			continue
		}
		out = append(out, lineInput{Key: key, Unit: strings.TrimSpace(it.ItemUnit), Quantity: qty})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no hay líneas válidas", domain.ErrInvalidInput)
	}
	return out, nil
}

// normalizeDonationItems igual que normalizeItems; una fecha de vencimiento ilegible descarta la línea.
func normalizeDonationItems(in []dto.DonationItemRequest) ([]lineInput, error) {
	out := make([]lineInput, 0, len(in))
	for _, it := range in {
		key := entity.NewItemKey(it.ItemName, it.ItemCategory)
		qty, ok := inventory.PositiveQuantity(it.Quantity)
		if !key.Valid() || !ok {
			continue
		}
		line := lineInput{
			Key:      key,
			Unit:     strings.TrimSpace(it.ItemUnit),
			Quantity: qty,
			Notes:    strings.TrimSpace(it.Notes),
		}
		if s := strings.TrimSpace(it.ExpiryDate); s != "" {
			day, err := inventory.ParseDay(s)
			if err != nil {
				continue
			}
			line.ExpiryDate = &day
		}
		out = append(out, line)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no hay líneas válidas", domain.ErrInvalidInput)
	}
	return out, nil
}

// resolveUnit aplica la cadena explícita → catálogo → stock existente → "unidad".
func resolveUnit(ctx context.Context, r Repos, line lineInput, stock *entity.StockRecord) (string, error) {
	if line.Unit != "" {
		return line.Unit, nil
	}
	cat, err := r.Catalog.GetByKey(ctx, line.Key)
	if err != nil {
		return "", err
	}
	return inventory.ResolveUnit("", cat, stock), nil
}

// resolveRecipient: id explícito (debe existir) → búsqueda por nombre → texto libre sin referencia.
func resolveRecipient(ctx context.Context, r Repos, id, name string) (*entity.RecipientUnit, string, error) {
	id, name = strings.TrimSpace(id), strings.TrimSpace(name)
	if id != "" {
		rec, err := r.Recipients.GetByID(ctx, id)
		if err != nil {
			return nil, "", err
		}
		if rec == nil {
			return nil, "", fmt.Errorf("%w: unidad receptora %s", domain.ErrNotFound, id)
		}
		return rec, rec.Name, nil
	}
	if name == "" {
		return nil, "", nil
	}
	rec, err := r.Recipients.GetByName(ctx, name)
	if err != nil {
		return nil, "", err
	}
	if rec != nil {
		return rec, rec.Name, nil
	}
	return nil, name, nil
}

// resolveDonor misma regla que resolveRecipient.
func resolveDonor(ctx context.Context, r Repos, id, name string) (*entity.Donor, string, error) {
	id, name = strings.TrimSpace(id), strings.TrimSpace(name)
	if id != "" {
		d, err := r.Donors.GetByID(ctx, id)
		if err != nil {
			return nil, "", err
		}
		if d == nil {
			return nil, "", fmt.Errorf("%w: donante %s", domain.ErrNotFound, id)
		}
		return d, d.Name, nil
	}
	if name == "" {
		return nil, "", nil
	}
	d, err := r.Donors.GetByName(ctx, name)
	if err != nil {
		return nil, "", err
	}
	if d != nil {
		return d, d.Name, nil
	}
	return nil, name, nil
}
