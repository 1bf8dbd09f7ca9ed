package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Donaciones-api/internal/application/dto"
	"github.com/jhoicas/Donaciones-api/internal/application/inventory"
)

func newTestCache(t *testing.T) (*ExpiryCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewExpiryCache(rdb, time.Minute), mr
}

// put guarda como lo hace el caso de uso: Get (miss) y luego Set con el token obtenido.
func put(c *ExpiryCache, day string, detail bool, r *dto.ExpiryReport) {
	ctx := context.Background()
	_, token, _ := c.Get(ctx, day, detail)
	c.Set(ctx, token, r)
}

func hit(c *ExpiryCache, day string, detail bool) (*dto.ExpiryReport, bool) {
	r, _, ok := c.Get(context.Background(), day, detail)
	return r, ok
}

func sampleReport() *dto.ExpiryReport {
	return &dto.ExpiryReport{
		Today:      "2024-06-10",
		WindowDays: 30,
		Expiring: []dto.ExpiryItem{{
			StockID: "s1", ItemName: "leche", ItemCategory: "lácteos", Unit: "caja",
			TotalStock: 4, SoonestExpiry: "2024-06-20",
		}},
		Expired: []dto.ExpiryItem{},
	}
}

func TestExpiryCache_SetGet(t *testing.T) {
	c, _ := newTestCache(t)

	_, ok := hit(c, "2024-06-10", false)
	assert.False(t, ok)

	put(c, "2024-06-10", false, sampleReport())
	got, ok := hit(c, "2024-06-10", false)
	require.True(t, ok)
	assert.Equal(t, sampleReport(), got)

	_, ok = hit(c, "2024-06-10", true)
	assert.False(t, ok, "detalle es otra entrada")
	_, ok = hit(c, "2024-06-11", false)
	assert.False(t, ok, "otro día es otra entrada")
}

func TestExpiryCache_Invalidate(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	put(c, "2024-06-10", false, sampleReport())
	c.Invalidate(ctx)

	_, ok := hit(c, "2024-06-10", false)
	assert.False(t, ok)

	put(c, "2024-06-10", false, sampleReport())
	_, ok = hit(c, "2024-06-10", false)
	assert.True(t, ok)
}

func TestExpiryCache_InvalidateEntreGetYSetDescartaReporte(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	// El reporte se arma con datos leídos antes de la mutación
	_, token, ok := c.Get(ctx, "2024-06-10", false)
	require.False(t, ok)
	assert.Equal(t, int64(0), token.Generation)

	c.Invalidate(ctx)
	c.Set(ctx, token, sampleReport())

	_, ok = hit(c, "2024-06-10", false)
	assert.False(t, ok, "no se sirve el reporte calculado antes de invalidar")
	assert.False(t, mr.Exists(token.Key), "tampoco queda escrito bajo la generación vieja")
	assert.False(t, mr.Exists(keyPrefix+":1:2024-06-10:false"))
}

func TestExpiryCache_TokenVacioNoEscribe(t *testing.T) {
	c, mr := newTestCache(t)

	c.Set(context.Background(), inventory.CacheToken{}, sampleReport())
	assert.Empty(t, mr.Keys())
}

func TestExpiryCache_TTL(t *testing.T) {
	c, mr := newTestCache(t)

	put(c, "2024-06-10", true, sampleReport())
	mr.FastForward(2 * time.Minute)

	_, ok := hit(c, "2024-06-10", true)
	assert.False(t, ok)
}

func TestExpiryCache_RedisDownIsMiss(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	put(c, "2024-06-10", false, sampleReport())
	_, token, _ := c.Get(ctx, "2024-06-10", false)
	mr.Close()

	_, ok := hit(c, "2024-06-10", false)
	assert.False(t, ok)
	assert.NotPanics(t, func() {
		c.Set(ctx, token, sampleReport())
		c.Invalidate(ctx)
	})
}

func TestExpiryCache_CorruptEntry(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set(keyPrefix+":0:2024-06-10:false", "{no-json"))

	_, ok := hit(c, "2024-06-10", false)
	assert.False(t, ok)
}

func TestNewRedis_BadURL(t *testing.T) {
	_, err := NewRedis(context.Background(), "::no-es-url")
	assert.Error(t, err)
}
