package inventory

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Donaciones-api/internal/domain/entity"
)

// DefaultUnit unidad usada cuando ni la solicitud, ni el catálogo, ni el stock la definen.
const DefaultUnit = "unidad"

var maxQuantity = decimal.NewFromInt(math.MaxInt32)

// PositiveQuantity convierte la cantidad recibida a entero positivo.
// Rechaza cero, negativos y valores con parte decimal.
func PositiveQuantity(q decimal.Decimal) (int64, bool) {
	if !q.IsPositive() || !q.IsInteger() || q.GreaterThan(maxQuantity) {
		return 0, false
	}
	return q.IntPart(), true
}

// ResolveUnit elige la unidad de una línea: la explícita, la por defecto del catálogo,
// la del registro de stock existente o DefaultUnit.
func ResolveUnit(explicit string, catalog *entity.CatalogItem, stock *entity.StockRecord) string {
	if u := strings.TrimSpace(explicit); u != "" {
		return u
	}
	if d := catalog.Default(); d != "" {
		return d
	}
	if stock != nil && stock.Unit != "" {
		return stock.Unit
	}
	return DefaultUnit
}
