package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Donaciones-api/internal/domain"
	"github.com/jhoicas/Donaciones-api/internal/domain/entity"
	"github.com/jhoicas/Donaciones-api/internal/domain/repository"
)

var _ repository.StockRepository = (*stockRepo)(nil)

type stockRepo struct{ a access }

func (r *stockRepo) GetByID(_ context.Context, id string) (*entity.StockRecord, error) {
	var out *entity.StockRecord
	err := r.a.do(func(st *state) error {
		if s, ok := st.stock[id]; ok {
			out = &s
		}
		return nil
	})
	return out, err
}

func (r *stockRepo) GetByKey(_ context.Context, key entity.ItemKey) (*entity.StockRecord, error) {
	var out *entity.StockRecord
	err := r.a.do(func(st *state) error {
		if id, ok := st.stockByKey[key]; ok {
			s := st.stock[id]
			out = &s
		}
		return nil
	})
	return out, err
}

// Las variantes ForUpdate equivalen a las lecturas: la tx en memoria ya es exclusiva.
func (r *stockRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.StockRecord, error) {
	return r.GetByID(ctx, id)
}

func (r *stockRepo) GetByKeyForUpdate(ctx context.Context, key entity.ItemKey) (*entity.StockRecord, error) {
	return r.GetByKey(ctx, key)
}

func (r *stockRepo) EnsureForUpdate(_ context.Context, key entity.ItemKey, unit string) (*entity.StockRecord, error) {
	var out entity.StockRecord
	err := r.a.do(func(st *state) error {
		if id, ok := st.stockByKey[key]; ok {
			out = st.stock[id]
			return nil
		}
		now := time.Now().UTC()
		out = entity.StockRecord{
			ID:        uuid.New().String(),
			Key:       key,
			Unit:      unit,
			CreatedAt: now,
			UpdatedAt: now,
		}
		st.stock[out.ID] = out
		st.stockByKey[key] = out.ID
		return nil
	})
	return &out, err
}

func (r *stockRepo) UpdateQuantity(_ context.Context, id string, quantity int64) error {
	return r.a.do(func(st *state) error {
		s, ok := st.stock[id]
		if !ok {
			return domain.ErrNotFound
		}
		if quantity < 0 {
			return fmt.Errorf("%w: %s quedaría en %d", domain.ErrInsufficientStock, s.Key, quantity)
		}
		s.TotalStock = quantity
		s.UpdatedAt = time.Now().UTC()
		st.stock[id] = s
		return nil
	})
}

func (r *stockRepo) UpdateSettings(_ context.Context, in *entity.StockRecord) error {
	return r.a.do(func(st *state) error {
		s, ok := st.stock[in.ID]
		if !ok {
			return domain.ErrNotFound
		}
		if in.SafetyStock < 0 {
			return domain.ErrInvalidInput
		}
		s.Unit = in.Unit
		s.SafetyStock = in.SafetyStock
		s.IsStandard = in.IsStandard
		s.UpdatedAt = time.Now().UTC()
		st.stock[in.ID] = s
		return nil
	})
}

func (r *stockRepo) List(_ context.Context, f repository.StockFilter) ([]*entity.StockRecord, int, error) {
	var (
		out   []*entity.StockRecord
		total int
	)
	err := r.a.do(func(st *state) error {
		name := strings.ToLower(f.Name)
		all := make([]entity.StockRecord, 0, len(st.stock))
		for _, s := range st.stock {
			if name != "" && !strings.Contains(strings.ToLower(s.Key.Name), name) {
				continue
			}
			if f.Category != "" && s.Key.Category != f.Category {
				continue
			}
			if f.OnlyInsufficient && !s.Insufficient() {
				continue
			}
			if f.IsStandard != nil && s.IsStandard != *f.IsStandard {
				continue
			}
			all = append(all, s)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].Key.Less(all[j].Key) })
		total = len(all)
		for _, s := range page(all, f.Limit, f.Offset) {
			s := s
			out = append(out, &s)
		}
		return nil
	})
	return out, total, err
}

func (r *stockRepo) ListInStockByKeys(_ context.Context, keys []entity.ItemKey) ([]*entity.StockRecord, error) {
	var out []*entity.StockRecord
	err := r.a.do(func(st *state) error {
		for _, k := range keys {
			id, ok := st.stockByKey[k]
			if !ok {
				continue
			}
			s := st.stock[id]
			if s.TotalStock > 0 {
				out = append(out, &s)
			}
		}
		return nil
	})
	return out, err
}
