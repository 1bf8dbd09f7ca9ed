package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Donaciones-api/internal/domain/entity"
	"github.com/jhoicas/Donaciones-api/internal/domain/repository"
)

var _ repository.SerialCounterRepository = (*SerialCounterRepo)(nil)

// SerialCounterRepo contador por tipo en serial_counters.
type SerialCounterRepo struct {
	q Querier
}

// NewSerialCounterRepository construye el adaptador. Pasar pool o tx.
func NewSerialCounterRepository(q Querier) *SerialCounterRepo {
	return &SerialCounterRepo{q: q}
}

// Next incrementa en una sola sentencia; la fila queda bloqueada hasta el fin de la tx,
// lo que serializa a los asignadores concurrentes del mismo tipo.
func (r *SerialCounterRepo) Next(ctx context.Context, serialType, prefix string) (int64, error) {
	query := `
		INSERT INTO serial_counters (type, prefix, value, updated_at)
		VALUES ($1, $2, 1, now())
		ON CONFLICT (type) DO UPDATE SET value = serial_counters.value + 1, updated_at = now()
		RETURNING value`
	var n int64
	if err := r.q.QueryRow(ctx, query, serialType, prefix).Scan(&n); err != nil {
		return 0, fmt.Errorf("next serial: %w", err)
	}
	return n, nil
}

// GetForUpdate lee el contador bloqueando la fila.
func (r *SerialCounterRepo) GetForUpdate(ctx context.Context, serialType string) (*entity.SerialCounter, error) {
	query := `SELECT type, prefix, value, updated_at FROM serial_counters WHERE type = $1 FOR UPDATE`
	var c entity.SerialCounter
	err := r.q.QueryRow(ctx, query, serialType).Scan(&c.Type, &c.Prefix, &c.Value, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get serial counter: %w", err)
	}
	return &c, nil
}

// Set fija el valor del contador (reconciliación).
func (r *SerialCounterRepo) Set(ctx context.Context, serialType, prefix string, value int64) error {
	query := `
		INSERT INTO serial_counters (type, prefix, value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (type) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
	if _, err := r.q.Exec(ctx, query, serialType, prefix, value); err != nil {
		return fmt.Errorf("set serial counter: %w", err)
	}
	return nil
}
