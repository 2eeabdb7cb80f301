package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/paltattoo/paltattoo-backend/internal/logger"
)

// NewRedisClient crea el cliente de Redis. Devuelve nil si no hay dirección
// configurada o si el servidor no responde; en ese caso la caché queda
// deshabilitada y la aplicación sigue funcionando contra la base directamente.
func NewRedisClient(addr, password string) *redis.Client {
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		if logger.Log != nil {
			logger.Log.WithField("error", err.Error()).Warn("cache: redis no disponible, caché deshabilitada")
		}
		return nil
	}

	return client
}

// Cache es una caché de lectura (read-through) sobre Redis para entidades.
// Toda escritura sobre una entidad debe invalidar sus claves; los servicios
// llaman a Invalidate después de cada mutación, nunca confían en el TTL solo.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New crea la caché. Acepta client nil: todas las operaciones se vuelven no-op.
func New(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Cache{client: client, ttl: ttl}
}

// Enabled indica si hay un backend de caché operativo.
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// Get deserializa en dest el valor cacheado. Devuelve false si no hay entrada.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) bool {
	if !c.Enabled() {
		return false
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		// redis.Nil es el caso normal de cache miss, el resto se loguea
		if err != redis.Nil && logger.Log != nil {
			logger.Log.WithField("error", err.Error()).Warn("cache: error leyendo clave " + key)
		}
		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return false
	}
	return true
}

// Set guarda el valor serializado como JSON. Los errores no interrumpen al
// llamador: la caché es una optimización, nunca fuente de verdad.
func (c *Cache) Set(ctx context.Context, key string, value interface{}) {
	if !c.Enabled() {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil && logger.Log != nil {
		logger.Log.WithField("error", err.Error()).Warn("cache: error escribiendo clave " + key)
	}
}

// Invalidate elimina las claves indicadas tras una mutación.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if !c.Enabled() || len(keys) == 0 {
		return
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil && logger.Log != nil {
		logger.Log.WithField("error", err.Error()).Warn("cache: error invalidando claves")
	}
}

// InvalidateByPrefix elimina todas las claves con el prefijo dado.
func (c *Cache) InvalidateByPrefix(ctx context.Context, prefix string) {
	if !c.Enabled() {
		return
	}

	iter := c.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if len(keys) > 0 {
		_ = c.client.Del(ctx, keys...).Err()
	}
}
