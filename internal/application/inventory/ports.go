package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/Donaciones-api/internal/application/dto"
	"github.com/jhoicas/Donaciones-api/internal/domain/inventory"
	"github.com/jhoicas/Donaciones-api/internal/domain/repository"
)

// Repos agrupa los repositorios del motor. Dentro de TxRunner.Run todos comparten la misma transacción;
// fuera de ella (consultas) van directo al pool.
type Repos struct {
	Stock         repository.StockRepository
	Logs          repository.InventoryLogRepository
	Serials       repository.SerialCounterRepository
	Donations     repository.DonationRepository
	Disbursements repository.DisbursementRepository
	Recipients    repository.RecipientRepository
	Donors        repository.DonorRepository
	Catalog       repository.CatalogRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback completo.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}

// Actor usuario ya autenticado que invoca la operación.
type Actor struct {
	ID   string
	Role string
}

// ReportCache caché del reporte de vencimientos. Las fallas se registran y no interrumpen la consulta.
// Get devuelve la generación vista; Set descarta la escritura si hubo un Invalidate en medio.
type ReportCache interface {
	Get(ctx context.Context, day string, detail bool) (*dto.ExpiryReport, CacheToken, bool)
	Set(ctx context.Context, token CacheToken, report *dto.ExpiryReport)
	Invalidate(ctx context.Context)
}

// CacheToken llave y generación leídas en Get. El valor cero no escribe nada.
type CacheToken struct {
	Key        string
	Generation int64
}

// NopCache no guarda nada; se usa cuando REDIS_URL está vacío.
type NopCache struct{}

func (NopCache) Get(context.Context, string, bool) (*dto.ExpiryReport, CacheToken, bool) {
	return nil, CacheToken{}, false
}
func (NopCache) Set(context.Context, CacheToken, *dto.ExpiryReport) {}
func (NopCache) Invalidate(context.Context)                         {}

// Options parámetros de operación del motor (vienen de config).
type Options struct {
	ExpiryWindowDays    int
	Location            *time.Location
	MaxBatchAdjustments int
	SerialRetry         RetryPolicy
	Now                 func() time.Time
}

// DefaultMaxBatchAdjustments tope de entradas de un conteo masivo.
const DefaultMaxBatchAdjustments = 500

func (o Options) withDefaults() Options {
	if o.ExpiryWindowDays <= 0 {
		o.ExpiryWindowDays = inventory.DefaultExpiryWindowDays
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.MaxBatchAdjustments <= 0 {
		o.MaxBatchAdjustments = DefaultMaxBatchAdjustments
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	o.SerialRetry = o.SerialRetry.withDefaults()
	return o
}
