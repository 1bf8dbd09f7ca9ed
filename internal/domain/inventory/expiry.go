package inventory

import "time"

// Estados de vencimiento del reporte.
const (
	ExpiryStatusExpired  = "expired"
	ExpiryStatusExpiring = "expiring"
	ExpiryStatusNone     = ""
)

// DefaultExpiryWindowDays ventana de "por vencer" en días.
const DefaultExpiryWindowDays = 30

// ClassifyExpiry clasifica el vencimiento más próximo de un artículo:
// antes de hoy → vencido; entre hoy y hoy+window (inclusive) → por vencer; si no, ninguno.
// soonest y today deben ser días calendario (ver CalendarDay).
func ClassifyExpiry(soonest, today time.Time, windowDays int) string {
	if soonest.Before(today) {
		return ExpiryStatusExpired
	}
	limit := today.AddDate(0, 0, windowDays)
	if !soonest.After(limit) {
		return ExpiryStatusExpiring
	}
	return ExpiryStatusNone
}
