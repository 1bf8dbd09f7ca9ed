package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Donaciones-api/internal/application/dto"
	"github.com/jhoicas/Donaciones-api/internal/domain/entity"
	"github.com/jhoicas/Donaciones-api/internal/domain/inventory"
	"github.com/jhoicas/Donaciones-api/internal/domain/repository"
)

// ExpiryUseCase arma el reporte de vencimientos: mínimo vencimiento por llave, cruzado con el
// stock disponible (> 0) y clasificado por día calendario.
type ExpiryUseCase struct {
	repos Repos
	cache ReportCache
	opts  Options
}

// NewExpiryUseCase construye el caso de uso. cache puede ser nil.
func NewExpiryUseCase(repos Repos, cache ReportCache, opts Options) *ExpiryUseCase {
	if cache == nil {
		cache = NopCache{}
	}
	return &ExpiryUseCase{repos: repos, cache: cache, opts: opts.withDefaults()}
}

type expiryRow struct {
	stock   *entity.StockRecord
	soonest time.Time
	status  string
}

// Report devuelve los artículos vencidos y por vencer. Con detail=true adjunta los lotes cuyo
// vencimiento coincide con el más próximo.
func (uc *ExpiryUseCase) Report(ctx context.Context, detail bool) (*dto.ExpiryReport, error) {
	today := inventory.CalendarDay(uc.opts.Now(), uc.opts.Location)
	day := today.Format(inventory.DateLayout)
	cached, token, ok := uc.cache.Get(ctx, day, detail)
	if ok {
		return cached, nil
	}

	groups, err := uc.repos.Donations.SoonestExpiryByKey(ctx)
	if err != nil {
		return nil, err
	}
	report := &dto.ExpiryReport{
		Today:      day,
		WindowDays: uc.opts.ExpiryWindowDays,
		Expiring:   []dto.ExpiryItem{},
		Expired:    []dto.ExpiryItem{},
	}
	if len(groups) == 0 {
		uc.cache.Set(ctx, token, report)
		return report, nil
	}

	keys := make([]entity.ItemKey, 0, len(groups))
	soonest := make(map[entity.ItemKey]time.Time, len(groups))
	for _, g := range groups {
		keys = append(keys, g.Key)
		soonest[g.Key] = inventory.CalendarDay(g.Soonest, time.UTC)
	}
	stocks, err := uc.repos.Stock.ListInStockByKeys(ctx, keys)
	if err != nil {
		return nil, err
	}

	rows := make([]expiryRow, 0, len(stocks))
	relevant := make([]entity.ItemKey, 0, len(stocks))
	for _, s := range stocks {
		if s.TotalStock <= 0 {
			continue
		}
		d, ok := soonest[s.Key]
		if !ok {
			continue
		}
		status := inventory.ClassifyExpiry(d, today, uc.opts.ExpiryWindowDays)
		if status == inventory.ExpiryStatusNone {
			continue
		}
		rows = append(rows, expiryRow{stock: s, soonest: d, status: status})
		relevant = append(relevant, s.Key)
	}

	batches := map[entity.ItemKey][]dto.ExpiryBatch{}
	if detail && len(relevant) > 0 {
		lines, err := uc.repos.Donations.ListExpiringLines(ctx, relevant)
		if err != nil {
			return nil, err
		}
		batches = groupSoonestLines(lines, soonest)
	}

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].soonest.Equal(rows[j].soonest) {
			return rows[i].soonest.Before(rows[j].soonest)
		}
		return rows[i].stock.Key.Less(rows[j].stock.Key)
	})
	for _, row := range rows {
		item := dto.ExpiryItem{
			StockID:       row.stock.ID,
			ItemName:      row.stock.Key.Name,
			ItemCategory:  row.stock.Key.Category,
			Unit:          row.stock.Unit,
			TotalStock:    row.stock.TotalStock,
			SoonestExpiry: row.soonest.Format(inventory.DateLayout),
			Batches:       batches[row.stock.Key],
		}
		if row.status == inventory.ExpiryStatusExpired {
			report.Expired = append(report.Expired, item)
		} else {
			report.Expiring = append(report.Expiring, item)
		}
	}

	uc.cache.Set(ctx, token, report)
	return report, nil
}

// groupSoonestLines se queda con las líneas cuyo vencimiento es el más próximo de su llave.
func groupSoonestLines(lines []repository.ExpiringLine, soonest map[entity.ItemKey]time.Time) map[entity.ItemKey][]dto.ExpiryBatch {
	out := make(map[entity.ItemKey][]dto.ExpiryBatch)
	for _, l := range lines {
		d, ok := soonest[l.Key]
		if !ok {
			continue
		}
		day := inventory.CalendarDay(l.ExpiryDate, time.UTC)
		if !day.Equal(d) {
			continue
		}
		out[l.Key] = append(out[l.Key], dto.ExpiryBatch{
			SerialNumber: l.SerialNumber,
			Quantity:     l.Quantity,
			ExpiryDate:   day.Format(inventory.DateLayout),
		})
	}
	for k := range out {
		sort.SliceStable(out[k], func(i, j int) bool { return out[k][i].SerialNumber < out[k][j].SerialNumber })
	}
	return out
}
