package entity

import "time"

// Tipos de transacción con consecutivo propio.
const (
	SerialTypeDonation     = "DONATION"
	SerialTypeDisbursement = "DISBURSEMENT"
)

// SerialPrefixes prefijo asignado a cada tipo de consecutivo.
var SerialPrefixes = map[string]string{
	SerialTypeDonation:     "A",
	SerialTypeDisbursement: "B",
}

// SerialCounter contador monotónico por tipo (fila única por tipo en serial_counters).
type SerialCounter struct {
	Type      string
	Prefix    string
	Value     int64
	UpdatedAt time.Time
}
