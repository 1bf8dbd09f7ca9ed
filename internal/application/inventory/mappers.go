package inventory

import (
	"github.com/jhoicas/Donaciones-api/internal/application/dto"
	"github.com/jhoicas/Donaciones-api/internal/domain/entity"
	"github.com/jhoicas/Donaciones-api/internal/domain/inventory"
)

func toStockResponse(s *entity.StockRecord) dto.StockResponse {
	return dto.StockResponse{
		ID:           s.ID,
		ItemName:     s.Key.Name,
		ItemCategory: s.Key.Category,
		Unit:         s.Unit,
		TotalStock:   s.TotalStock,
		SafetyStock:  s.SafetyStock,
		IsStandard:   s.IsStandard,
		Insufficient: s.Insufficient(),
		UpdatedAt:    s.UpdatedAt,
	}
}

func toLogResponse(e *entity.InventoryLogEntry) dto.InventoryLogResponse {
	return dto.InventoryLogResponse{
		ID:               e.ID,
		StockID:          e.StockID,
		ItemName:         e.Key.Name,
		ItemCategory:     e.Key.Category,
		ChangeType:       e.ChangeType,
		ChangeAmount:     e.ChangeAmount,
		PreviousQuantity: e.PreviousQuantity,
		NewQuantity:      e.NewQuantity,
		Reason:           e.Reason,
		CreatedBy:        e.CreatedBy,
		CreatedAt:        e.CreatedAt,
	}
}

func recipientResponse(r *entity.RecipientUnit) *dto.PartyResponse {
	if r == nil {
		return nil
	}
	return &dto.PartyResponse{ID: r.ID, Name: r.Name, Contact: r.Contact, CreatedAt: r.CreatedAt}
}

func donorResponse(d *entity.Donor) *dto.PartyResponse {
	if d == nil {
		return nil
	}
	return &dto.PartyResponse{ID: d.ID, Name: d.Name, Contact: d.Contact, CreatedAt: d.CreatedAt}
}

func toDisbursementResponse(b *entity.DisbursementBatch, rec *entity.RecipientUnit) dto.DisbursementResponse {
	out := dto.DisbursementResponse{
		ID:            b.ID,
		SerialNumber:  b.SerialNumber,
		RecipientID:   b.RecipientID,
		RecipientName: b.RecipientName,
		Recipient:     recipientResponse(rec),
		CreatedAt:     b.CreatedAt,
		CreatedBy:     b.CreatedBy,
		Items:         make([]dto.LineItemResponse, 0, len(b.Items)),
	}
	for _, it := range b.Items {
		out.Items = append(out.Items, dto.LineItemResponse{
			ID:           it.ID,
			ItemName:     it.Key.Name,
			ItemCategory: it.Key.Category,
			ItemUnit:     it.Unit,
			Quantity:     it.Quantity,
		})
	}
	return out
}

func toDonationLineResponse(it *entity.DonationLineItem) dto.DonationLineItemResponse {
	line := dto.DonationLineItemResponse{
		ID:           it.ID,
		ItemName:     it.Key.Name,
		ItemCategory: it.Key.Category,
		ItemUnit:     it.Unit,
		Quantity:     it.Quantity,
		IsHandled:    it.IsHandled,
		HandledAt:    it.HandledAt,
		Notes:        it.Notes,
	}
	if it.ExpiryDate != nil {
		s := it.ExpiryDate.Format(inventory.DateLayout)
		line.ExpiryDate = &s
	}
	return line
}

func toDonationResponse(b *entity.DonationBatch, donor *entity.Donor) dto.DonationResponse {
	out := dto.DonationResponse{
		ID:           b.ID,
		SerialNumber: b.SerialNumber,
		DonorID:      b.DonorID,
		DonorName:    b.DonorName,
		Donor:        donorResponse(donor),
		CreatedAt:    b.CreatedAt,
		CreatedBy:    b.CreatedBy,
		Items:        make([]dto.DonationLineItemResponse, 0, len(b.Items)),
	}
	for _, it := range b.Items {
		out.Items = append(out.Items, toDonationLineResponse(it))
	}
	return out
}

func toCatalogResponse(c *entity.CatalogItem) dto.CatalogItemResponse {
	return dto.CatalogItemResponse{
		ItemName:     c.Key.Name,
		ItemCategory: c.Key.Category,
		Units:        c.Units,
		DefaultUnit:  c.DefaultUnit,
		Default:      c.Default(),
		UpdatedAt:    c.UpdatedAt,
	}
}
