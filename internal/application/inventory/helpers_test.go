package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Donaciones-api/internal/application/dto"
	"github.com/jhoicas/Donaciones-api/internal/application/inventory"
	"github.com/jhoicas/Donaciones-api/internal/domain/entity"
	"github.com/jhoicas/Donaciones-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var (
	admin = inventory.Actor{ID: "user-admin", Role: "admin"}
	// 10 de junio de 2024, 09:00 en Bogotá
	fixedNow = time.Date(2024, 6, 10, 14, 0, 0, 0, time.UTC)
	bogota   = time.FixedZone("COT", -5*3600)
)

type engine struct {
	store   *memory.Store
	serials *inventory.SerialAllocator
	coord   *inventory.Coordinator
	expiry  *inventory.ExpiryUseCase
	stock   *inventory.StockUseCase
	cache   *spyCache
}

func newEngine(t *testing.T) *engine {
	t.Helper()
	store := memory.NewStore()
	opts := inventory.Options{
		Location:            bogota,
		MaxBatchAdjustments: 5,
		SerialRetry:         inventory.RetryPolicy{Attempts: 3, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond},
		Now:                 func() time.Time { return fixedNow },
	}
	cache := &spyCache{}
	serials := inventory.NewSerialAllocator(store, opts)
	return &engine{
		store:   store,
		serials: serials,
		coord:   inventory.NewCoordinator(store, serials, cache, opts),
		expiry:  inventory.NewExpiryUseCase(store.Repos(), nil, opts),
		stock:   inventory.NewStockUseCase(store, store.Repos(), cache),
		cache:   cache,
	}
}

// seedStock crea (o ajusta) el registro de stock con la cantidad dada y devuelve su id.
func (e *engine) seedStock(t *testing.T, name, category string, qty int64) string {
	t.Helper()
	ctx := context.Background()
	var id string
	err := e.store.Run(ctx, func(r inventory.Repos) error {
		s, err := r.Stock.EnsureForUpdate(ctx, entity.NewItemKey(name, category), "kg")
		if err != nil {
			return err
		}
		id = s.ID
		return r.Stock.UpdateQuantity(ctx, s.ID, qty)
	})
	require.NoError(t, err)
	return id
}

func (e *engine) totalStock(t *testing.T, name, category string) int64 {
	t.Helper()
	s, err := e.store.Repos().Stock.GetByKey(context.Background(), entity.NewItemKey(name, category))
	require.NoError(t, err)
	if s == nil {
		return 0
	}
	return s.TotalStock
}

func item(name, category string, qty int64) dto.ItemRequest {
	return dto.ItemRequest{ItemName: name, ItemCategory: category, Quantity: decimal.NewFromInt(qty)}
}

func donationItem(name, category string, qty int64, expiry string) dto.DonationItemRequest {
	return dto.DonationItemRequest{ItemName: name, ItemCategory: category, Quantity: decimal.NewFromInt(qty), ExpiryDate: expiry}
}

// spyCache cuenta invalidaciones.
type spyCache struct {
	mu          sync.Mutex
	invalidated int
}

func (c *spyCache) Get(context.Context, string, bool) (*dto.ExpiryReport, inventory.CacheToken, bool) {
	return nil, inventory.CacheToken{}, false
}
func (c *spyCache) Set(context.Context, inventory.CacheToken, *dto.ExpiryReport) {}
func (c *spyCache) Invalidate(context.Context) {
	c.mu.Lock()
	c.invalidated++
	c.mu.Unlock()
}

func (c *spyCache) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.invalidated
}
