package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Donaciones-api/internal/domain/entity"
)

// InventoryLogFilter filtros de la consulta paginada de la bitácora.
type InventoryLogFilter struct {
	StockID    string
	ChangeType string
	CreatedBy  string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// InventoryLogRepository bitácora de solo inserción: no hay Update ni Delete.
type InventoryLogRepository interface {
	Append(ctx context.Context, entry *entity.InventoryLogEntry) error
	List(ctx context.Context, filter InventoryLogFilter) ([]*entity.InventoryLogEntry, int, error)
}
