package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/Donaciones-api/internal/domain"
	"github.com/jhoicas/Donaciones-api/internal/domain/entity"
	"github.com/jhoicas/Donaciones-api/internal/domain/repository"
)

var (
	_ repository.RecipientRepository = (*recipientRepo)(nil)
	_ repository.DonorRepository     = (*donorRepo)(nil)
)

type recipientRepo struct{ a access }

func (r *recipientRepo) Create(_ context.Context, in *entity.RecipientUnit) error {
	return r.a.do(func(st *state) error {
		for _, other := range st.recipients {
			if other.Name == in.Name {
				return fmt.Errorf("%w: unidad receptora %q", domain.ErrDuplicate, in.Name)
			}
		}
		st.recipients[in.ID] = *in
		return nil
	})
}

func (r *recipientRepo) GetByID(_ context.Context, id string) (*entity.RecipientUnit, error) {
	var out *entity.RecipientUnit
	err := r.a.do(func(st *state) error {
		if v, ok := st.recipients[id]; ok {
			out = &v
		}
		return nil
	})
	return out, err
}

func (r *recipientRepo) GetByName(_ context.Context, name string) (*entity.RecipientUnit, error) {
	var out *entity.RecipientUnit
	err := r.a.do(func(st *state) error {
		for _, v := range st.recipients {
			if v.Name == name {
				v := v
				out = &v
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *recipientRepo) List(_ context.Context, limit, offset int) ([]*entity.RecipientUnit, error) {
	var out []*entity.RecipientUnit
	err := r.a.do(func(st *state) error {
		all := make([]entity.RecipientUnit, 0, len(st.recipients))
		for _, v := range st.recipients {
			all = append(all, v)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
		for _, v := range page(all, limit, offset) {
			v := v
			out = append(out, &v)
		}
		return nil
	})
	return out, err
}

type donorRepo struct{ a access }

func (r *donorRepo) Create(_ context.Context, in *entity.Donor) error {
	return r.a.do(func(st *state) error {
		for _, other := range st.donors {
			if other.Name == in.Name {
				return fmt.Errorf("%w: donante %q", domain.ErrDuplicate, in.Name)
			}
		}
		st.donors[in.ID] = *in
		return nil
	})
}

func (r *donorRepo) GetByID(_ context.Context, id string) (*entity.Donor, error) {
	var out *entity.Donor
	err := r.a.do(func(st *state) error {
		if v, ok := st.donors[id]; ok {
			out = &v
		}
		return nil
	})
	return out, err
}

func (r *donorRepo) GetByName(_ context.Context, name string) (*entity.Donor, error) {
	var out *entity.Donor
	err := r.a.do(func(st *state) error {
		for _, v := range st.donors {
			if v.Name == name {
				v := v
				out = &v
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *donorRepo) List(_ context.Context, limit, offset int) ([]*entity.Donor, error) {
	var out []*entity.Donor
	err := r.a.do(func(st *state) error {
		all := make([]entity.Donor, 0, len(st.donors))
		for _, v := range st.donors {
			all = append(all, v)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
		for _, v := range page(all, limit, offset) {
			v := v
			out = append(out, &v)
		}
		return nil
	})
	return out, err
}
