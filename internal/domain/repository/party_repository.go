package repository

import (
	"context"

	"github.com/jhoicas/Donaciones-api/internal/domain/entity"
)

// RecipientRepository unidades receptoras. Create devuelve domain.ErrDuplicate si el nombre existe.
type RecipientRepository interface {
	Create(ctx context.Context, r *entity.RecipientUnit) error
	GetByID(ctx context.Context, id string) (*entity.RecipientUnit, error)
	GetByName(ctx context.Context, name string) (*entity.RecipientUnit, error)
	List(ctx context.Context, limit, offset int) ([]*entity.RecipientUnit, error)
}

// DonorRepository donantes. Create devuelve domain.ErrDuplicate si el nombre existe.
type DonorRepository interface {
	Create(ctx context.Context, d *entity.Donor) error
	GetByID(ctx context.Context, id string) (*entity.Donor, error)
	GetByName(ctx context.Context, name string) (*entity.Donor, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Donor, error)
}
