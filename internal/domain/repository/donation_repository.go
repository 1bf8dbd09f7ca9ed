package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Donaciones-api/internal/domain/entity"
)

// ExpiryGroup vencimiento más próximo de una llave de artículo.
type ExpiryGroup struct {
	Key     entity.ItemKey
	Soonest time.Time
}

// ExpiringLine línea de donación con vencimiento junto al consecutivo de su lote.
type ExpiringLine struct {
	Key          entity.ItemKey
	SerialNumber string
	Quantity     int64
	ExpiryDate   time.Time
}

// DonationRepository persistencia de lotes y líneas de donación.
type DonationRepository interface {
	Create(ctx context.Context, batch *entity.DonationBatch) error
	CreateItem(ctx context.Context, item *entity.DonationLineItem) error
	// GetByID devuelve el lote con sus líneas o nil, nil.
	GetByID(ctx context.Context, id string) (*entity.DonationBatch, error)
	GetItemForUpdate(ctx context.Context, itemID string) (*entity.DonationLineItem, error)
	MarkItemHandled(ctx context.Context, itemID string, at time.Time) error
	DeleteItems(ctx context.Context, batchID string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*entity.DonationBatch, int, error)
	// MaxSerial consecutivo más alto persistido ("" si no hay lotes).
	MaxSerial(ctx context.Context) (string, error)

	// SoonestExpiryByKey agrupa líneas con vencimiento por llave y toma el mínimo.
	SoonestExpiryByKey(ctx context.Context) ([]ExpiryGroup, error)
	// ListExpiringLines líneas con vencimiento de las llaves dadas, con el consecutivo del lote.
	ListExpiringLines(ctx context.Context, keys []entity.ItemKey) ([]ExpiringLine, error)
}
