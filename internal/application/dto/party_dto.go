package dto

import "time"

// CreatePartyRequest body para crear unidad receptora o donante.
type CreatePartyRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Contact string `json:"contact" validate:"omitempty,max=200"`
}

// PartyResponse unidad receptora o donante.
type PartyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
