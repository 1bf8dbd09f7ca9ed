package entity

import "time"

// StockRecord es el contador canónico de existencias por artículo (nombre + categoría).
// TotalStock nunca se confirma negativo; SafetyStock es solo metadato de reporte.
type StockRecord struct {
	ID          string
	Key         ItemKey
	Unit        string
	TotalStock  int64
	SafetyStock int64
	IsStandard  bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Insufficient indica si el stock está por debajo del stock de seguridad.
func (s *StockRecord) Insufficient() bool {
	return s.TotalStock < s.SafetyStock
}
