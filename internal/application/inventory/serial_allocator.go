package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/LerianStudio/lib-uncommons/v2/uncommons/backoff"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/Donaciones-api/internal/domain"
	"github.com/jhoicas/Donaciones-api/internal/domain/entity"
	"github.com/jhoicas/Donaciones-api/internal/domain/inventory"
)

// RetryPolicy reintentos ante conflicto de consecutivo: backoff exponencial con jitter completo.
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.Attempts <= 0 {
		p.Attempts = 3
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = 20 * time.Millisecond
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = time.Second
	}
	return p
}

// delay espera aleatoria en [0, BaseDelay*2^attempt), acotada por MaxDelay.
func (p RetryPolicy) delay(attempt int) time.Duration {
	return min(backoff.ExponentialWithJitter(p.BaseDelay, attempt), p.MaxDelay)
}

// SerialAllocator asigna consecutivos sin huecos a partir de la fila de serial_counters del tipo.
type SerialAllocator struct {
	tx     TxRunner
	policy RetryPolicy
}

// NewSerialAllocator construye el asignador.
func NewSerialAllocator(tx TxRunner, opts Options) *SerialAllocator {
	opts = opts.withDefaults()
	return &SerialAllocator{tx: tx, policy: opts.SerialRetry}
}

// SerialPrefix devuelve el prefijo del tipo o ErrInvalidInput si el tipo no existe.
func SerialPrefix(serialType string) (string, error) {
	prefix, ok := entity.SerialPrefixes[strings.ToUpper(strings.TrimSpace(serialType))]
	if !ok {
		return "", fmt.Errorf("%w: tipo de consecutivo %q", domain.ErrInvalidInput, serialType)
	}
	return prefix, nil
}

// next toma el siguiente consecutivo dentro de la transacción del caller.
// Un Rollback de esa transacción devuelve el número.
func (a *SerialAllocator) next(ctx context.Context, r Repos, serialType string) (string, error) {
	prefix, err := SerialPrefix(serialType)
	if err != nil {
		return "", err
	}
	n, err := r.Serials.Next(ctx, serialType, prefix)
	if err != nil {
		return "", err
	}
	return inventory.FormatSerial(prefix, n), nil
}

// Allocate asigna un consecutivo en su propia transacción.
func (a *SerialAllocator) Allocate(ctx context.Context, serialType string) (string, error) {
	serialType = strings.ToUpper(strings.TrimSpace(serialType))
	var serial string
	err := a.tx.Run(ctx, func(r Repos) error {
		s, err := a.next(ctx, r, serialType)
		if err != nil {
			return err
		}
		serial = s
		return nil
	})
	if err != nil {
		return "", err
	}
	return serial, nil
}

// Reconcile sube el contador al consecutivo más alto ya persistido. Devuelve el valor final.
func (a *SerialAllocator) Reconcile(ctx context.Context, serialType string) (int64, error) {
	serialType = strings.ToUpper(strings.TrimSpace(serialType))
	prefix, err := SerialPrefix(serialType)
	if err != nil {
		return 0, err
	}
	var value int64
	err = a.tx.Run(ctx, func(r Repos) error {
		counter, err := r.Serials.GetForUpdate(ctx, serialType)
		if err != nil {
			return err
		}
		if counter != nil {
			value = counter.Value
		}
		var maxSerial string
		switch serialType {
		case entity.SerialTypeDonation:
			maxSerial, err = r.Donations.MaxSerial(ctx)
		case entity.SerialTypeDisbursement:
			maxSerial, err = r.Disbursements.MaxSerial(ctx)
		}
		if err != nil {
			return err
		}
		persisted, ok := inventory.ParseSerial(prefix, maxSerial)
		if !ok || persisted <= value {
			return nil
		}
		value = persisted
		return r.Serials.Set(ctx, serialType, prefix, value)
	})
	return value, err
}

// RetryOnConflict ejecuta fn y la reintenta solo ante domain.ErrConflict, reconciliando el contador
// entre intentos. Cualquier otro error se devuelve de inmediato.
func (a *SerialAllocator) RetryOnConflict(ctx context.Context, serialType string, fn func() error) error {
	var err error
	for attempt := 0; attempt < a.policy.Attempts; attempt++ {
		if err = fn(); err == nil || !domain.IsRetryable(err) {
			return err
		}
		log.Warn().Err(err).Str("serial_type", serialType).Int("attempt", attempt+1).Msg("conflicto de consecutivo, reintentando")
		if _, rerr := a.Reconcile(ctx, serialType); rerr != nil {
			return rerr
		}
		if err := backoff.SleepWithContext(ctx, a.policy.delay(attempt)); err != nil {
			return err
		}
	}
	return err
}
