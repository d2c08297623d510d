package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"fitledger/internal/config"

	"github.com/go-redis/redis/v8"
)

// InitRedis connects the client used by the check-in lock.
func InitRedis(cfg *config.RedisConfig) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("falha ao conectar ao Redis: %v", err)
	}

	log.Println("Redis conectado")
	return client
}
