// Package cache caché de vistas del dashboard y señal de invalidación de rutas.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/jhoicas/Dashboard-api/internal/application/actions"
	"github.com/jhoicas/Dashboard-api/internal/application/dashboard"
	"github.com/jhoicas/Dashboard-api/pkg/config"
)

const (
	// RevalidateChannel canal pub/sub donde se publica cada ruta invalidada.
	RevalidateChannel = "dashboard:revalidate"
	keyPrefix         = "view:"
	genPrefix         = "view:gen:"
	// DefaultTTL vida máxima de una vista en caché si nadie la invalida.
	DefaultTTL = 10 * time.Minute
)

var (
	_ actions.Invalidator = (*RedisCache)(nil)
	_ dashboard.ViewCache = (*RedisCache)(nil)
)

// ViewKey clave Redis de la vista path.
func ViewKey(path string) string {
	return keyPrefix + path
}

// GenKey clave Redis del contador de invalidaciones de path.
func GenKey(path string) string {
	return genPrefix + path
}

// setIfGeneration KEYS[1] vista, KEYS[2] generación; ARGV: datos, generación esperada, TTL en ms.
var setIfGeneration = redis.NewScript(`
if (redis.call("GET", KEYS[2]) or "0") ~= ARGV[2] then
	return 0
end
redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[3])
return 1
`)

// RedisCache caché de vistas en Redis compartida entre instancias. Invalidate borra la
// entrada y publica la ruta en RevalidateChannel para quien mantenga renders propios.
type RedisCache struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

// NewRedisClient crea el cliente y verifica la conexión.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (redis.UniversalClient, error) {
	rdb := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    []string{cfg.Addr},
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}

// NewRedisCache construye la caché. ttl <= 0 usa DefaultTTL.
func NewRedisCache(rdb redis.UniversalClient, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{rdb: rdb, ttl: ttl}
}

// Get devuelve la vista guardada; ok=false si no existe.
func (c *RedisCache) Get(ctx context.Context, path string) ([]byte, bool, error) {
	data, err := c.rdb.Get(ctx, ViewKey(path)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Generation devuelve el contador de invalidaciones de path (0 si nunca se invalidó).
func (c *RedisCache) Generation(ctx context.Context, path string) (int64, error) {
	gen, err := c.rdb.Get(ctx, GenKey(path)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis: get %s: %w", GenKey(path), err)
	}
	return gen, nil
}

// Set guarda la vista con el TTL configurado si su generación sigue siendo gen.
func (c *RedisCache) Set(ctx context.Context, path string, gen int64, data []byte) error {
	keys := []string{ViewKey(path), GenKey(path)}
	err := setIfGeneration.Run(ctx, c.rdb, keys, data, strconv.FormatInt(gen, 10), c.ttl.Milliseconds()).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("redis: set %s: %w", path, err)
	}
	return nil
}

// Invalidate incrementa la generación, elimina la vista y publica la ruta.
func (c *RedisCache) Invalidate(ctx context.Context, path string) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, GenKey(path))
		pipe.Del(ctx, ViewKey(path))
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis: invalidar %s: %w", path, err)
	}
	if err := c.rdb.Publish(ctx, RevalidateChannel, path).Err(); err != nil {
		return fmt.Errorf("redis: publish %s: %w", path, err)
	}
	return nil
}

// Subscribe entrega en fn cada ruta invalidada hasta que ctx se cancele.
func (c *RedisCache) Subscribe(ctx context.Context, fn func(path string)) error {
	sub := c.rdb.Subscribe(ctx, RevalidateChannel)
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("redis: subscribe: %w", err)
	}
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			fn(msg.Payload)
		}
	}
}
