package db

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"questionnaire-reader/internal/config"
)

// NewRedisClient construye el cliente compartido por el rate limiter y la lista de tokens
// revocados. Devuelve nil si REDIS_ADDR no esta configurado.
func NewRedisClient(cfg *config.Config) *redis.Client {
	if cfg == nil || cfg.RedisAddr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})
}

// Ping verifica conectividad con Redis.
func Ping(ctx context.Context, client *redis.Client) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return client.Ping(ctx).Err()
}
