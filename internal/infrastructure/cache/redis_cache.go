package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/pos-admin/internal/application/dto"
	"github.com/jhoicas/pos-admin/internal/application/ports"
)

var _ ports.SummaryCache = (*RedisSummaryCache)(nil)

const defaultPrefix = "posadmin:dashboard"

// RedisSummaryCache guarda resúmenes del dashboard en Redis.
//
// Las claves incluyen un número de generación (prefix:<gen>:key). Invalidate incrementa la
// generación, con lo que todas las entradas anteriores dejan de leerse y expiran solas por TTL.
type RedisSummaryCache struct {
	client *redis.Client
	prefix string
}

// NewRedisSummaryCache crea el cliente Redis.
func NewRedisSummaryCache(addr, password string, db int) *RedisSummaryCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisSummaryCache{client: client, prefix: defaultPrefix}
}

// Ping verifica la conexión.
func (c *RedisSummaryCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisSummaryCache) Close() error {
	return c.client.Close()
}

// Generation devuelve la generación vigente (0 si nunca se invalidó).
func (c *RedisSummaryCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, c.genKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get generation: %w", err)
	}
	return gen, nil
}

func (c *RedisSummaryCache) Get(ctx context.Context, gen int64, key string) (*dto.DashboardSummaryDTO, bool, error) {
	val, err := c.client.Get(ctx, c.dataKey(gen, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var summary dto.DashboardSummaryDTO
	if err := json.Unmarshal(val, &summary); err != nil {
		return nil, false, fmt.Errorf("decode summary: %w", err)
	}
	return &summary, true, nil
}

func (c *RedisSummaryCache) Set(ctx context.Context, gen int64, key string, value *dto.DashboardSummaryDTO, ttl time.Duration) error {
	if value == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	if err := c.client.Set(ctx, c.dataKey(gen, key), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Invalidate descarta todos los resúmenes guardados.
func (c *RedisSummaryCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, c.genKey()).Err(); err != nil {
		return fmt.Errorf("redis incr: %w", err)
	}
	return nil
}

func (c *RedisSummaryCache) genKey() string {
	return c.prefix + ":gen"
}

func (c *RedisSummaryCache) dataKey(gen int64, key string) string {
	return c.prefix + ":" + strconv.FormatInt(gen, 10) + ":" + key
}
