package memory

import (
	"context"
	"time"

	"github.com/jhoicas/Donaciones-api/internal/domain/entity"
	"github.com/jhoicas/Donaciones-api/internal/domain/repository"
)

var _ repository.SerialCounterRepository = (*serialRepo)(nil)

type serialRepo struct{ a access }

func (r *serialRepo) Next(_ context.Context, serialType, prefix string) (int64, error) {
	var n int64
	err := r.a.do(func(st *state) error {
		c, ok := st.counters[serialType]
		if !ok {
			c = entity.SerialCounter{Type: serialType, Prefix: prefix}
		}
		c.Value++
		c.UpdatedAt = time.Now().UTC()
		st.counters[serialType] = c
		n = c.Value
		return nil
	})
	return n, err
}

func (r *serialRepo) GetForUpdate(_ context.Context, serialType string) (*entity.SerialCounter, error) {
	var out *entity.SerialCounter
	err := r.a.do(func(st *state) error {
		if c, ok := st.counters[serialType]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *serialRepo) Set(_ context.Context, serialType, prefix string, value int64) error {
	return r.a.do(func(st *state) error {
		st.counters[serialType] = entity.SerialCounter{
			Type:      serialType,
			Prefix:    prefix,
			Value:     value,
			UpdatedAt: time.Now().UTC(),
		}
		return nil
	})
}
