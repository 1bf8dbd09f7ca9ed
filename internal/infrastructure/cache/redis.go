// Package cache guarda el reporte de vencimientos en Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/Donaciones-api/internal/application/dto"
	"github.com/jhoicas/Donaciones-api/internal/application/inventory"
)

var _ inventory.ReportCache = (*ExpiryCache)(nil)

const (
	keyPrefix     = "donaciones:expiry"
	generationKey = keyPrefix + ":gen"
)

// NewRedis crea el cliente y valida la conexión al arrancar.
func NewRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// ExpiryCache reporte por (día, detalle) con TTL.
// Invalidate incrementa un contador de generación que forma parte de la llave,
// así las entradas anteriores quedan huérfanas y expiran solas.
type ExpiryCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewExpiryCache construye la caché. ttl <= 0 usa 60s.
func NewExpiryCache(rdb *redis.Client, ttl time.Duration) *ExpiryCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &ExpiryCache{rdb: rdb, ttl: ttl}
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// generation contador actual; si aún no existe vale 0.
func generation(ctx context.Context, g getter) (int64, error) {
	gen, err := g.Get(ctx, generationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, err
	}
	return gen, nil
}

func entryKey(gen int64, day string, detail bool) string {
	return fmt.Sprintf("%s:%d:%s:%t", keyPrefix, gen, day, detail)
}

// Get devuelve el reporte guardado y la generación leída. Un fallo de Redis cuenta como miss.
func (c *ExpiryCache) Get(ctx context.Context, day string, detail bool) (*dto.ExpiryReport, inventory.CacheToken, bool) {
	gen, err := generation(ctx, c.rdb)
	if err != nil {
		log.Warn().Err(err).Msg("expiry cache: leer generación")
		return nil, inventory.CacheToken{}, false
	}
	token := inventory.CacheToken{Key: entryKey(gen, day, detail), Generation: gen}
	raw, err := c.rdb.Get(ctx, token.Key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("key", token.Key).Msg("expiry cache: get")
		}
		return nil, token, false
	}
	var report dto.ExpiryReport
	if err := json.Unmarshal(raw, &report); err != nil {
		log.Warn().Err(err).Str("key", token.Key).Msg("expiry cache: entrada corrupta")
		return nil, token, false
	}
	return &report, token, true
}

var errStaleGeneration = errors.New("generación invalidada")

// Set guarda el reporte con TTL solo si la generación sigue siendo la del token.
// WATCH sobre el contador aborta la escritura si un Invalidate entra entre la lectura y el SET.
func (c *ExpiryCache) Set(ctx context.Context, token inventory.CacheToken, report *dto.ExpiryReport) {
	if token.Key == "" {
		return
	}
	raw, err := json.Marshal(report)
	if err != nil {
		log.Warn().Err(err).Msg("expiry cache: serializar")
		return
	}
	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		gen, err := generation(ctx, tx)
		if err != nil {
			return err
		}
		if gen != token.Generation {
			return errStaleGeneration
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, token.Key, raw, c.ttl)
			return nil
		})
		return err
	}, generationKey)
	switch {
	case err == nil:
	case errors.Is(err, errStaleGeneration), errors.Is(err, redis.TxFailedErr):
		log.Debug().Str("key", token.Key).Msg("expiry cache: reporte obsoleto, no se guarda")
	default:
		log.Warn().Err(err).Str("key", token.Key).Msg("expiry cache: set")
	}
}

// Invalidate descarta todas las entradas vigentes.
func (c *ExpiryCache) Invalidate(ctx context.Context) {
	if err := c.rdb.Incr(ctx, generationKey).Err(); err != nil {
		log.Warn().Err(err).Msg("expiry cache: invalidar")
	}
}
