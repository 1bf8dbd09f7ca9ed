package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Donaciones-api/internal/domain/entity"
	"github.com/jhoicas/Donaciones-api/internal/domain/repository"
)

var _ repository.CatalogRepository = (*catalogRepo)(nil)

type catalogRepo struct{ a access }

func (r *catalogRepo) Upsert(_ context.Context, c *entity.CatalogItem) error {
	return r.a.do(func(st *state) error {
		row := *c
		row.Units = append([]string(nil), c.Units...)
		st.catalog[c.Key] = row
		return nil
	})
}

func (r *catalogRepo) GetByKey(_ context.Context, key entity.ItemKey) (*entity.CatalogItem, error) {
	var out *entity.CatalogItem
	err := r.a.do(func(st *state) error {
		if c, ok := st.catalog[key]; ok {
			c.Units = append([]string(nil), c.Units...)
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *catalogRepo) List(_ context.Context) ([]*entity.CatalogItem, error) {
	var out []*entity.CatalogItem
	err := r.a.do(func(st *state) error {
		for _, c := range st.catalog {
			c.Units = append([]string(nil), c.Units...)
			out = append(out, &c)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Key.Less(out[j].Key) })
		return nil
	})
	return out, err
}
