package entity

import "time"

// RecipientUnit unidad receptora registrada (nombre único).
type RecipientUnit struct {
	ID        string
	Name      string
	Contact   string
	CreatedAt time.Time
}

// Donor donante registrado (nombre único).
type Donor struct {
	ID        string
	Name      string
	Contact   string
	CreatedAt time.Time
}
