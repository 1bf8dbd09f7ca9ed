package repository

import (
	"context"

	"github.com/jhoicas/Donaciones-api/internal/domain/entity"
)

// DisbursementRepository persistencia de lotes y líneas de entrega.
type DisbursementRepository interface {
	Create(ctx context.Context, batch *entity.DisbursementBatch) error
	CreateItem(ctx context.Context, item *entity.DisbursementLineItem) error
	// GetByID devuelve el lote con sus líneas o nil, nil.
	GetByID(ctx context.Context, id string) (*entity.DisbursementBatch, error)
	DeleteItems(ctx context.Context, batchID string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*entity.DisbursementBatch, int, error)
	MaxSerial(ctx context.Context) (string, error)
}
