package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/Donaciones-api/internal/application/dto"
	"github.com/jhoicas/Donaciones-api/internal/domain"
	"github.com/jhoicas/Donaciones-api/internal/domain/entity"
)

// BatchQueryUseCase lectura de lotes de donación y entrega.
type BatchQueryUseCase struct {
	repos Repos
}

// NewBatchQueryUseCase construye el caso de uso.
func NewBatchQueryUseCase(repos Repos) *BatchQueryUseCase {
	return &BatchQueryUseCase{repos: repos}
}

// GetDisbursement devuelve la entrega con líneas y unidad receptora.
func (uc *BatchQueryUseCase) GetDisbursement(ctx context.Context, id string) (*dto.DisbursementResponse, error) {
	b, err := uc.repos.Disbursements.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("%w: entrega %s", domain.ErrNotFound, id)
	}
	var rec *entity.RecipientUnit
	if b.RecipientID != nil {
		if rec, err = uc.repos.Recipients.GetByID(ctx, *b.RecipientID); err != nil {
			return nil, err
		}
	}
	out := toDisbursementResponse(b, rec)
	return &out, nil
}

// ListDisbursements lista entregas (sin líneas), más recientes primero.
func (uc *BatchQueryUseCase) ListDisbursements(ctx context.Context, limit, offset int) (*dto.DisbursementListResponse, error) {
	limit, offset = clampPage(limit, offset)
	list, total, err := uc.repos.Disbursements.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := &dto.DisbursementListResponse{
		Items: make([]dto.DisbursementResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: total},
	}
	for _, b := range list {
		out.Items = append(out.Items, toDisbursementResponse(b, nil))
	}
	return out, nil
}

// GetDonation devuelve la donación con líneas y donante.
func (uc *BatchQueryUseCase) GetDonation(ctx context.Context, id string) (*dto.DonationResponse, error) {
	b, err := uc.repos.Donations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("%w: donación %s", domain.ErrNotFound, id)
	}
	var donor *entity.Donor
	if b.DonorID != nil {
		if donor, err = uc.repos.Donors.GetByID(ctx, *b.DonorID); err != nil {
			return nil, err
		}
	}
	out := toDonationResponse(b, donor)
	return &out, nil
}

// ListDonations lista donaciones (sin líneas), más recientes primero.
func (uc *BatchQueryUseCase) ListDonations(ctx context.Context, limit, offset int) (*dto.DonationListResponse, error) {
	limit, offset = clampPage(limit, offset)
	list, total, err := uc.repos.Donations.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := &dto.DonationListResponse{
		Items: make([]dto.DonationResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: total},
	}
	for _, b := range list {
		out.Items = append(out.Items, toDonationResponse(b, nil))
	}
	return out, nil
}
