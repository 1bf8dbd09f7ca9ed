package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemRequest línea de entrada (entrega). Quantity acepta número o string; debe ser entero positivo.
type ItemRequest struct {
	ItemName     string          `json:"item_name"`
	ItemCategory string          `json:"item_category"`
	ItemUnit     string          `json:"item_unit,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
}

// DonationItemRequest línea de donación: ExpiryDate en formato YYYY-MM-DD (opcional).
type DonationItemRequest struct {
	ItemName     string          `json:"item_name"`
	ItemCategory string          `json:"item_category"`
	ItemUnit     string          `json:"item_unit,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	ExpiryDate   string          `json:"expiry_date,omitempty"`
	Notes        string          `json:"notes,omitempty"`
}

// CreateDisbursementRequest body para POST /api/disbursements.
// RecipientID tiene prioridad; si no, se busca RecipientName y, si no existe, queda como texto libre.
type CreateDisbursementRequest struct {
	RecipientID   string        `json:"recipient_id,omitempty"`
	RecipientName string        `json:"recipient_name,omitempty"`
	Items         []ItemRequest `json:"items"`
}

// CreateDonationRequest body para POST /api/donations.
type CreateDonationRequest struct {
	DonorID   string                `json:"donor_id,omitempty"`
	DonorName string                `json:"donor_name,omitempty"`
	Items     []DonationItemRequest `json:"items"`
}

// AdjustmentRequest body para POST /api/inventory/adjustments.
type AdjustmentRequest struct {
	StockID      string `json:"stock_id" validate:"required"`
	ChangeType   string `json:"change_type" validate:"required,oneof=INCREASE DECREASE"`
	ChangeAmount int64  `json:"change_amount" validate:"gt=0"`
	Reason       string `json:"reason" validate:"required,max=500"`
}

// StockCountUpdate conteo físico de un registro de stock.
type StockCountUpdate struct {
	StockID     string `json:"stock_id" validate:"required"`
	NewQuantity int64  `json:"new_quantity" validate:"gte=0"`
}

// BatchAdjustmentRequest body para POST /api/inventory/adjustments/batch.
type BatchAdjustmentRequest struct {
	Updates []StockCountUpdate `json:"updates" validate:"required,min=1,dive"`
}

// BatchAdjustmentResponse resultado del conteo masivo.
type BatchAdjustmentResponse struct {
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// UpdateStockSettingsRequest body para PATCH /api/stock/:id (nunca modifica total_stock).
type UpdateStockSettingsRequest struct {
	Unit        *string `json:"unit,omitempty" validate:"omitempty,min=1,max=50"`
	SafetyStock *int64  `json:"safety_stock,omitempty" validate:"omitempty,gte=0"`
	IsStandard  *bool   `json:"is_standard,omitempty"`
}

// StockResponse salida de un registro de stock.
type StockResponse struct {
	ID           string    `json:"id"`
	ItemName     string    `json:"item_name"`
	ItemCategory string    `json:"item_category"`
	Unit         string    `json:"unit"`
	TotalStock   int64     `json:"total_stock"`
	SafetyStock  int64     `json:"safety_stock"`
	IsStandard   bool      `json:"is_standard"`
	Insufficient bool      `json:"insufficient"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StockListResponse listado paginado de stock.
type StockListResponse struct {
	Items []StockResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// InventoryLogResponse asiento de bitácora.
type InventoryLogResponse struct {
	ID               string    `json:"id"`
	StockID          string    `json:"stock_id"`
	ItemName         string    `json:"item_name"`
	ItemCategory     string    `json:"item_category"`
	ChangeType       string    `json:"change_type"`
	ChangeAmount     int64     `json:"change_amount"`
	PreviousQuantity int64     `json:"previous_quantity"`
	NewQuantity      int64     `json:"new_quantity"`
	Reason           string    `json:"reason"`
	CreatedBy        string    `json:"created_by"`
	CreatedAt        time.Time `json:"created_at"`
}

// InventoryLogListResponse listado paginado de la bitácora.
type InventoryLogListResponse struct {
	Items []InventoryLogResponse `json:"items"`
	Page  PageResponse           `json:"page"`
}

// LineItemResponse línea de entrega.
type LineItemResponse struct {
	ID           string `json:"id"`
	ItemName     string `json:"item_name"`
	ItemCategory string `json:"item_category"`
	ItemUnit     string `json:"item_unit"`
	Quantity     int64  `json:"quantity"`
}

// DisbursementResponse lote de entrega con líneas y unidad receptora resuelta.
type DisbursementResponse struct {
	ID            string             `json:"id"`
	SerialNumber  string             `json:"serial_number"`
	RecipientID   *string            `json:"recipient_id,omitempty"`
	RecipientName string             `json:"recipient_name"`
	Recipient     *PartyResponse     `json:"recipient,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	CreatedBy     string             `json:"created_by"`
	Items         []LineItemResponse `json:"items"`
}

// DisbursementListResponse listado paginado de entregas (sin líneas).
type DisbursementListResponse struct {
	Items []DisbursementResponse `json:"items"`
	Page  PageResponse           `json:"page"`
}

// DonationLineItemResponse línea de donación.
type DonationLineItemResponse struct {
	ID           string     `json:"id"`
	ItemName     string     `json:"item_name"`
	ItemCategory string     `json:"item_category"`
	ItemUnit     string     `json:"item_unit"`
	Quantity     int64      `json:"quantity"`
	ExpiryDate   *string    `json:"expiry_date,omitempty"`
	IsHandled    bool       `json:"is_handled"`
	HandledAt    *time.Time `json:"handled_at,omitempty"`
	Notes        string     `json:"notes,omitempty"`
}

// DonationResponse lote de donación con líneas y donante resuelto.
type DonationResponse struct {
	ID           string                     `json:"id"`
	SerialNumber string                     `json:"serial_number"`
	DonorID      *string                    `json:"donor_id,omitempty"`
	DonorName    string                     `json:"donor_name"`
	Donor        *PartyResponse             `json:"donor,omitempty"`
	CreatedAt    time.Time                  `json:"created_at"`
	CreatedBy    string                     `json:"created_by"`
	Items        []DonationLineItemResponse `json:"items"`
}

// DonationListResponse listado paginado de donaciones (sin líneas).
type DonationListResponse struct {
	Items []DonationResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ExpiryBatch lote de origen de un vencimiento (modo detalle).
type ExpiryBatch struct {
	SerialNumber string `json:"serial_number"`
	Quantity     int64  `json:"quantity"`
	ExpiryDate   string `json:"expiry_date"`
}

// ExpiryItem artículo con su vencimiento más próximo.
type ExpiryItem struct {
	StockID       string        `json:"stock_id"`
	ItemName      string        `json:"item_name"`
	ItemCategory  string        `json:"item_category"`
	Unit          string        `json:"unit"`
	TotalStock    int64         `json:"total_stock"`
	SoonestExpiry string        `json:"soonest_expiry"`
	Batches       []ExpiryBatch `json:"batches,omitempty"`
}

// ExpiryReport reporte de vencimientos para el día Today.
type ExpiryReport struct {
	Today      string       `json:"today"`
	WindowDays int          `json:"window_days"`
	Expiring   []ExpiryItem `json:"expiring"`
	Expired    []ExpiryItem `json:"expired"`
}

// SerialResponse consecutivo asignado.
type SerialResponse struct {
	Type         string `json:"type"`
	SerialNumber string `json:"serial_number"`
}

// ReplenishmentSuggestion artículo bajo stock de seguridad con cantidad sugerida a solicitar.
type ReplenishmentSuggestion struct {
	StockID      string `json:"stock_id"`
	ItemName     string `json:"item_name"`
	ItemCategory string `json:"item_category"`
	Unit         string `json:"unit"`
	TotalStock   int64  `json:"total_stock"`
	SafetyStock  int64  `json:"safety_stock"`
	IdealStock   int64  `json:"ideal_stock"`
	SuggestedQty int64  `json:"suggested_qty"`
	IsStandard   bool   `json:"is_standard"`
	Priority     int    `json:"priority"`
}
