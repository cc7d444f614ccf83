// Package cache содержит кэш разрешения кодов поверх Redis.
// Пара код-URL неизменяема после создания, поэтому кэширование по схеме
// cache-aside не нарушает согласованность; учёт переходов всегда идёт
// в основное хранилище
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "link:"

// Cache кэширует соответствие код-URL. Нулевой указатель безопасен:
// все операции превращаются в промах
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// New создаёт кэш поверх Redis. При пустом адресе возвращает nil,
// сервис при этом работает напрямую с хранилищем
func New(addr string, ttl time.Duration, logger *zap.Logger) *Cache {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("Redis unavailable, resolve cache disabled", zap.String("addr", addr), zap.Error(err))
		return nil
	}
	return &Cache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Lookup возвращает оригинальный URL по коду, если он есть в кэше
func (c *Cache) Lookup(ctx context.Context, code string) (string, bool) {
	if c == nil {
		return "", false
	}
	val, err := c.client.Get(ctx, keyPrefix+code).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("Cache lookup failed", zap.String("code", code), zap.Error(err))
		}
		return "", false
	}
	return val, true
}

// Store помещает пару код-URL в кэш. Ошибки кэша не влияют на запрос
func (c *Cache) Store(ctx context.Context, code, originalURL string) {
	if c == nil {
		return
	}
	if err := c.client.Set(ctx, keyPrefix+code, originalURL, c.ttl).Err(); err != nil {
		c.logger.Warn("Cache store failed", zap.String("code", code), zap.Error(err))
	}
}

// Close закрывает соединение с Redis
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
