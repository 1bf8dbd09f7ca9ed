package repository

import (
	"context"

	"github.com/jhoicas/Donaciones-api/internal/domain/entity"
)

// SerialCounterRepository contador atómico por tipo de transacción.
type SerialCounterRepository interface {
	// Next incrementa atómicamente el contador del tipo y devuelve el valor resultante.
	// La fila queda bloqueada hasta el fin de la transacción.
	Next(ctx context.Context, serialType, prefix string) (int64, error)
	GetForUpdate(ctx context.Context, serialType string) (*entity.SerialCounter, error)
	Set(ctx context.Context, serialType, prefix string, value int64) error
}
