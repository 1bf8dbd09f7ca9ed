package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/Donaciones-api/internal/domain"
	"github.com/jhoicas/Donaciones-api/internal/domain/entity"
	"github.com/jhoicas/Donaciones-api/internal/domain/repository"
)

var _ repository.DonationRepository = (*donationRepo)(nil)

type donationRepo struct{ a access }

// serialAfter compara consecutivos por longitud y luego lexicográficamente (A100000 > A99999).
func serialAfter(a, b string) bool {
	if len(a) != len(b) {
		return len(a) > len(b)
	}
	return a > b
}

func (r *donationRepo) Create(_ context.Context, b *entity.DonationBatch) error {
	return r.a.do(func(st *state) error {
		for _, other := range st.donations {
			if other.SerialNumber == b.SerialNumber {
				return fmt.Errorf("%w: consecutivo %s ya existe", domain.ErrConflict, b.SerialNumber)
			}
		}
		row := *b
		row.Items = nil
		st.donations[b.ID] = row
		st.donationLines[b.ID] = nil
		return nil
	})
}

func (r *donationRepo) CreateItem(_ context.Context, it *entity.DonationLineItem) error {
	return r.a.do(func(st *state) error {
		if _, ok := st.donations[it.BatchID]; !ok {
			return domain.ErrNotFound
		}
		if it.Quantity <= 0 {
			return domain.ErrInvalidInput
		}
		st.donationItems[it.ID] = *it
		st.donationLines[it.BatchID] = append(st.donationLines[it.BatchID], it.ID)
		return nil
	})
}

func (r *donationRepo) GetByID(_ context.Context, id string) (*entity.DonationBatch, error) {
	var out *entity.DonationBatch
	err := r.a.do(func(st *state) error {
		b, ok := st.donations[id]
		if !ok {
			return nil
		}
		for _, itemID := range st.donationLines[id] {
			it := st.donationItems[itemID]
			b.Items = append(b.Items, &it)
		}
		out = &b
		return nil
	})
	return out, err
}

func (r *donationRepo) GetItemForUpdate(_ context.Context, itemID string) (*entity.DonationLineItem, error) {
	var out *entity.DonationLineItem
	err := r.a.do(func(st *state) error {
		if it, ok := st.donationItems[itemID]; ok {
			out = &it
		}
		return nil
	})
	return out, err
}

func (r *donationRepo) MarkItemHandled(_ context.Context, itemID string, at time.Time) error {
	return r.a.do(func(st *state) error {
		it, ok := st.donationItems[itemID]
		if !ok {
			return domain.ErrNotFound
		}
		it.IsHandled = true
		it.HandledAt = &at
		st.donationItems[itemID] = it
		return nil
	})
}

func (r *donationRepo) DeleteItems(_ context.Context, batchID string) error {
	return r.a.do(func(st *state) error {
		for _, itemID := range st.donationLines[batchID] {
			delete(st.donationItems, itemID)
		}
		st.donationLines[batchID] = nil
		return nil
	})
}

func (r *donationRepo) Delete(_ context.Context, id string) error {
	return r.a.do(func(st *state) error {
		if _, ok := st.donations[id]; !ok {
			return domain.ErrNotFound
		}
		for _, itemID := range st.donationLines[id] {
			delete(st.donationItems, itemID)
		}
		delete(st.donationLines, id)
		delete(st.donations, id)
		return nil
	})
}

func (r *donationRepo) List(_ context.Context, limit, offset int) ([]*entity.DonationBatch, int, error) {
	var (
		out   []*entity.DonationBatch
		total int
	)
	err := r.a.do(func(st *state) error {
		all := make([]entity.DonationBatch, 0, len(st.donations))
		for _, b := range st.donations {
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

func (r *donationRepo) MaxSerial(_ context.Context) (string, error) {
	var highest string
	err := r.a.do(func(st *state) error {
		for _, b := range st.donations {
			if serialAfter(b.SerialNumber, highest) {
				highest = b.SerialNumber
			}
		}
		return nil
	})
	return highest, err
}

func (r *donationRepo) SoonestExpiryByKey(_ context.Context) ([]repository.ExpiryGroup, error) {
	var out []repository.ExpiryGroup
	err := r.a.do(func(st *state) error {
		soonest := map[entity.ItemKey]time.Time{}
		for _, it := range st.donationItems {
			if it.ExpiryDate == nil {
				continue
			}
			if cur, ok := soonest[it.Key]; !ok || it.ExpiryDate.Before(cur) {
				soonest[it.Key] = *it.ExpiryDate
			}
		}
		for k, d := range soonest {
			out = append(out, repository.ExpiryGroup{Key: k, Soonest: d})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Key.Less(out[j].Key) })
		return nil
	})
	return out, err
}

func (r *donationRepo) ListExpiringLines(_ context.Context, keys []entity.ItemKey) ([]repository.ExpiringLine, error) {
	var out []repository.ExpiringLine
	err := r.a.do(func(st *state) error {
		wanted := make(map[entity.ItemKey]struct{}, len(keys))
		for _, k := range keys {
			wanted[k] = struct{}{}
		}
		for batchID, ids := range st.donationLines {
			serial := st.donations[batchID].SerialNumber
			for _, itemID := range ids {
				it := st.donationItems[itemID]
				if it.ExpiryDate == nil {
					continue
				}
				if _, ok := wanted[it.Key]; !ok {
					continue
				}
				out = append(out, repository.ExpiringLine{
					Key:          it.Key,
					SerialNumber: serial,
					Quantity:     it.Quantity,
					ExpiryDate:   *it.ExpiryDate,
				})
			}
		}
		return nil
	})
	return out, err
}
