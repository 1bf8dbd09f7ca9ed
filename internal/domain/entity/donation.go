package entity

import "time"

// DonationBatch agrupa las líneas de una donación bajo un consecutivo con prefijo "A".
type DonationBatch struct {
	ID           string
	SerialNumber string
	DonorID      *string
	DonorName    string // texto libre cuando no hay donante registrado
	CreatedAt    time.Time
	CreatedBy    string
	Items        []*DonationLineItem
}

// DonationLineItem es una línea de donación. IsHandled pasa a true cuando la mercancía
// ingresa al stock (una sola vez).
type DonationLineItem struct {
	ID         string
	BatchID    string
	Key        ItemKey
	Unit       string
	Quantity   int64
	ExpiryDate *time.Time // día calendario (medianoche UTC)
	IsHandled  bool
	HandledAt  *time.Time
	Notes      string
}
