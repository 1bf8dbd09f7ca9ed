package inventory

import (
	"context"
	"sort"

	"github.com/jhoicas/Donaciones-api/internal/application/dto"
	"github.com/jhoicas/Donaciones-api/internal/domain/repository"
)

// ReplenishmentUseCase genera la lista de artículos a solicitar a donantes: los que están
// por debajo del stock de seguridad, priorizando los estándar y el mayor déficit.
type ReplenishmentUseCase struct {
	stockRepo repository.StockRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(stockRepo repository.StockRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{stockRepo: stockRepo}
}

// GenerateReplenishmentList devuelve los registros insuficientes con la cantidad sugerida
// (hasta 1.5 veces el stock de seguridad) y un ranking de prioridad.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestion, error) {
	// 1. Registros bajo stock de seguridad, recorriendo todas las páginas
	filter := repository.StockFilter{OnlyInsufficient: true, Limit: MaxPageLimit}
	suggestions := []dto.ReplenishmentSuggestion{}
	for {
		page, total, err := uc.stockRepo.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		for _, s := range page {
			ideal := s.SafetyStock + s.SafetyStock/2
			suggestions = append(suggestions, dto.ReplenishmentSuggestion{
				StockID:      s.ID,
				ItemName:     s.Key.Name,
				ItemCategory: s.Key.Category,
				Unit:         s.Unit,
				TotalStock:   s.TotalStock,
				SafetyStock:  s.SafetyStock,
				IdealStock:   ideal,
				SuggestedQty: ideal - s.TotalStock,
				IsStandard:   s.IsStandard,
			})
		}
		filter.Offset += len(page)
		if len(page) == 0 || filter.Offset >= total {
			break
		}
	}

	// 2. Ordenar: estándar primero, luego mayor déficit relativo, luego mayor déficit absoluto
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if a.IsStandard != b.IsStandard {
			return a.IsStandard
		}
		// déficit relativo: (safety-total)/safety, comparado sin división
		ra := (a.SafetyStock - a.TotalStock) * b.SafetyStock
		rb := (b.SafetyStock - b.TotalStock) * a.SafetyStock
		if ra != rb {
			return ra > rb
		}
		return a.SafetyStock-a.TotalStock > b.SafetyStock-b.TotalStock
	})

	// 3. Asignar prioridad (1 = más urgente)
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
