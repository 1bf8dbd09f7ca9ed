package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/Donaciones-api/internal/domain"
	"github.com/jhoicas/Donaciones-api/internal/domain/entity"
	"github.com/jhoicas/Donaciones-api/internal/domain/repository"
)

var _ repository.DisbursementRepository = (*disbursementRepo)(nil)

type disbursementRepo struct{ a access }

func (r *disbursementRepo) Create(_ context.Context, b *entity.DisbursementBatch) error {
	return r.a.do(func(st *state) error {
		for _, other := range st.disbursements {
			if other.SerialNumber == b.SerialNumber {
				return fmt.Errorf("%w: consecutivo %s ya existe", domain.ErrConflict, b.SerialNumber)
			}
		}
		row := *b
		row.Items = nil
		st.disbursements[b.ID] = row
		st.disbursementLines[b.ID] = nil
		return nil
	})
}

func (r *disbursementRepo) CreateItem(_ context.Context, it *entity.DisbursementLineItem) error {
	return r.a.do(func(st *state) error {
		if _, ok := st.disbursements[it.BatchID]; !ok {
			return domain.ErrNotFound
		}
		if it.Quantity <= 0 {
			return domain.ErrInvalidInput
		}
		st.disbursementItems[it.ID] = *it
		st.disbursementLines[it.BatchID] = append(st.disbursementLines[it.BatchID], it.ID)
		return nil
	})
}

func (r *disbursementRepo) GetByID(_ context.Context, id string) (*entity.DisbursementBatch, error) {
	var out *entity.DisbursementBatch
	err := r.a.do(func(st *state) error {
		b, ok := st.disbursements[id]
		if !ok {
			return nil
		}
		for _, itemID := range st.disbursementLines[id] {
			it := st.disbursementItems[itemID]
			b.Items = append(b.Items, &it)
		}
		out = &b
		return nil
	})
	return out, err
}

func (r *disbursementRepo) DeleteItems(_ context.Context, batchID string) error {
	return r.a.do(func(st *state) error {
		for _, itemID := range st.disbursementLines[batchID] {
			delete(st.disbursementItems, itemID)
		}
		st.disbursementLines[batchID] = nil
		return nil
	})
}

func (r *disbursementRepo) Delete(_ context.Context, id string) error {
	return r.a.do(func(st *state) error {
		if _, ok := st.disbursements[id]; !ok {
			return domain.ErrNotFound
		}
		for _, itemID := range st.disbursementLines[id] {
			delete(st.disbursementItems, itemID)
		}
		delete(st.disbursementLines, id)
		delete(st.disbursements, id)
		return nil
	})
}

func (r *disbursementRepo) List(_ context.Context, limit, offset int) ([]*entity.DisbursementBatch, int, error) {
	var (
		out   []*entity.DisbursementBatch
		total int
	)
	err := r.a.do(func(st *state) error {
		all := make([]entity.DisbursementBatch, 0, len(st.disbursements))
		for _, b := range st.disbursements {
			all = append(all, b)
		}
		sort.Slice(all, func(i, j int) bool { return serialAfter(all[i].SerialNumber, all[j].SerialNumber) })
		total = len(all)
		for _, b := range page(all, limit, offset) {
			b := b
			out = append(out, &b)
		}
		return nil
	})
	return out, total, err
}

func (r *disbursementRepo) MaxSerial(_ context.Context) (string, error) {
	var highest string
	err := r.a.do(func(st *state) error {
		for _, b := range st.disbursements {
			if serialAfter(b.SerialNumber, highest) {
				highest = b.SerialNumber
			}
		}
		return nil
	})
	return highest, err
}
