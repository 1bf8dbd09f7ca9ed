package entity

import "time"

// DisbursementBatch agrupa las líneas de una entrega bajo un consecutivo con prefijo "B".
type DisbursementBatch struct {
	ID            string
	SerialNumber  string
	RecipientID   *string
	RecipientName string // texto libre cuando la unidad receptora no está registrada
	CreatedAt     time.Time
	CreatedBy     string
	Items         []*DisbursementLineItem
}

// DisbursementLineItem es una línea de entrega.
type DisbursementLineItem struct {
	ID       string
	BatchID  string
	Key      ItemKey
	Unit     string
	Quantity int64
}
