package dto

import "time"

// UpsertCatalogItemRequest body para PUT /api/catalog.
type UpsertCatalogItemRequest struct {
	ItemName     string   `json:"item_name" validate:"required,max=200"`
	ItemCategory string   `json:"item_category" validate:"required,max=200"`
	Units        []string `json:"units" validate:"required,min=1,dive,max=50"`
	DefaultUnit  int      `json:"default_unit" validate:"gte=0"`
}

// CatalogItemResponse unidades de un artículo.
type CatalogItemResponse struct {
	ItemName     string    `json:"item_name"`
	ItemCategory string    `json:"item_category"`
	Units        []string  `json:"units"`
	DefaultUnit  int       `json:"default_unit"`
	Default      string    `json:"default"`
	UpdatedAt    time.Time `json:"updated_at"`
}
