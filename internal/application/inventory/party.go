package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Donaciones-api/internal/application/dto"
	"github.com/jhoicas/Donaciones-api/internal/domain"
	"github.com/jhoicas/Donaciones-api/internal/domain/entity"
)

// PartyUseCase registro de unidades receptoras y donantes (nombre único).
type PartyUseCase struct {
	repos Repos
	now   func() time.Time
}

// NewPartyUseCase construye el caso de uso.
func NewPartyUseCase(repos Repos, opts Options) *PartyUseCase {
	opts = opts.withDefaults()
	return &PartyUseCase{repos: repos, now: opts.Now}
}

// CreateRecipient registra una unidad receptora; ErrDuplicate si el nombre ya existe.
func (uc *PartyUseCase) CreateRecipient(ctx context.Context, req dto.CreatePartyRequest) (*dto.PartyResponse, error) {
	req.Name, req.Contact = strings.TrimSpace(req.Name), strings.TrimSpace(req.Contact)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	existing, err := uc.repos.Recipients.GetByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: unidad receptora %q", domain.ErrDuplicate, req.Name)
	}
	r := &entity.RecipientUnit{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Contact:   req.Contact,
		CreatedAt: uc.now().UTC(),
	}
	if err := uc.repos.Recipients.Create(ctx, r); err != nil {
		return nil, err
	}
	return recipientResponse(r), nil
}

// ListRecipients lista unidades receptoras por nombre.
func (uc *PartyUseCase) ListRecipients(ctx context.Context, limit, offset int) ([]dto.PartyResponse, error) {
	limit, offset = clampPage(limit, offset)
	list, err := uc.repos.Recipients.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PartyResponse, 0, len(list))
	for _, r := range list {
		out = append(out, *recipientResponse(r))
	}
	return out, nil
}

// CreateDonor registra un donante; ErrDuplicate si el nombre ya existe.
func (uc *PartyUseCase) CreateDonor(ctx context.Context, req dto.CreatePartyRequest) (*dto.PartyResponse, error) {
	req.Name, req.Contact = strings.TrimSpace(req.Name), strings.TrimSpace(req.Contact)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	existing, err := uc.repos.Donors.GetByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: donante %q", domain.ErrDuplicate, req.Name)
	}
	d := &entity.Donor{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Contact:   req.Contact,
		CreatedAt: uc.now().UTC(),
	}
	if err := uc.repos.Donors.Create(ctx, d); err != nil {
		return nil, err
	}
	return donorResponse(d), nil
}

// ListDonors lista donantes por nombre.
func (uc *PartyUseCase) ListDonors(ctx context.Context, limit, offset int) ([]dto.PartyResponse, error) {
	limit, offset = clampPage(limit, offset)
	list, err := uc.repos.Donors.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PartyResponse, 0, len(list))
	for _, d := range list {
		out = append(out, *donorResponse(d))
	}
	return out, nil
}
