package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/assistencia-api/internal/application/dto"
	"github.com/jhoicas/assistencia-api/internal/application/usecase"
)

const partListPrefix = "parts:list:"

var (
	_ usecase.PartListCache = (*PartListCache)(nil)
	_ usecase.PartListCache = NopPartListCache{}
)

// PartListCache guarda páginas del listado de piezas como JSON.
// Key: "parts:list:{limit}:{offset}:{search}". Cualquier cambio de pieza invalida todas.
type PartListCache struct {
	rdb *redis.Client
	ttl time.Duration
	log zerolog.Logger
}

// NewPartListCache construye la caché. ttl <= 0 usa 5 minutos.
func NewPartListCache(rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *PartListCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &PartListCache{rdb: rdb, ttl: ttl, log: log}
}

// ListKey clave de una página del listado.
func ListKey(search string, limit, offset int) string {
	return fmt.Sprintf("%s%d:%d:%s", partListPrefix, limit, offset, search)
}

// GetList devuelve la página cacheada. Un error de Redis se trata como miss.
func (c *PartListCache) GetList(ctx context.Context, search string, limit, offset int) (*dto.PartListResponse, bool) {
	raw, err := c.rdb.Get(ctx, ListKey(search, limit, offset)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Msg("cache: get parts list")
		}
		return nil, false
	}
	var out dto.PartListResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		c.log.Warn().Err(err).Msg("cache: payload inválido")
		return nil, false
	}
	return &out, true
}

// SetList guarda la página con TTL. Los errores solo se registran.
func (c *PartListCache) SetList(ctx context.Context, search string, limit, offset int, page *dto.PartListResponse) {
	raw, err := json.Marshal(page)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, ListKey(search, limit, offset), raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Msg("cache: set parts list")
	}
}

// Invalidate borra todas las páginas del listado (SCAN + DEL, sin KEYS).
func (c *PartListCache) Invalidate(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, partListPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache scan: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// NopPartListCache caché deshabilitada (REDIS_URL vacío): siempre miss.
type NopPartListCache struct{}

func (NopPartListCache) GetList(context.Context, string, int, int) (*dto.PartListResponse, bool) {
	return nil, false
}
func (NopPartListCache) SetList(context.Context, string, int, int, *dto.PartListResponse) {}
func (NopPartListCache) Invalidate(context.Context) error                                   { return nil }
