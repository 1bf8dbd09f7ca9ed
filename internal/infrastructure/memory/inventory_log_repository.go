package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Donaciones-api/internal/domain/entity"
	"github.com/jhoicas/Donaciones-api/internal/domain/repository"
)

var _ repository.InventoryLogRepository = (*logRepo)(nil)

type logRepo struct{ a access }

func (r *logRepo) Append(_ context.Context, e *entity.InventoryLogEntry) error {
	return r.a.do(func(st *state) error {
		st.logs = append(st.logs, *e)
		return nil
	})
}

func (r *logRepo) List(_ context.Context, f repository.InventoryLogFilter) ([]*entity.InventoryLogEntry, int, error) {
	var (
		out   []*entity.InventoryLogEntry
		total int
	)
	err := r.a.do(func(st *state) error {
		matched := make([]entity.InventoryLogEntry, 0, len(st.logs))
		// Recorrido inverso: más reciente primero, a igual CreatedAt manda el orden de inserción
		for i := len(st.logs) - 1; i >= 0; i-- {
			e := st.logs[i]
			if f.StockID != "" && e.StockID != f.StockID {
				continue
			}
			if f.ChangeType != "" && e.ChangeType != f.ChangeType {
				continue
			}
			if f.CreatedBy != "" && e.CreatedBy != f.CreatedBy {
				continue
			}
			if f.From != nil && e.CreatedAt.Before(*f.From) {
				continue
			}
			if f.To != nil && e.CreatedAt.After(*f.To) {
				continue
			}
			matched = append(matched, e)
		}
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
		total = len(matched)
		for _, e := range page(matched, f.Limit, f.Offset) {
			e := e
			out = append(out, &e)
		}
		return nil
	})
	return out, total, err
}
