package entity

import "time"

// Tipos de cambio registrados en la bitácora de inventario.
const (
	ChangeTypeIncrease = "INCREASE" // entrada / restauración
	ChangeTypeDecrease = "DECREASE" // salida / ajuste negativo
)

// InventoryLogEntry es un asiento inmutable de la bitácora: delta de stock con foto antes/después.
type InventoryLogEntry struct {
	ID               string
	StockID          string
	Key              ItemKey
	ChangeType       string
	ChangeAmount     int64 // siempre > 0; el signo lo da ChangeType
	PreviousQuantity int64
	NewQuantity      int64
	Reason           string
	CreatedBy        string
	CreatedAt        time.Time
}
