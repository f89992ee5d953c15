package repository

import (
	"context"
	"fmt"

	"innovation_hunt/pkg/logger"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Addr     string `json:"addr"`
	Password string `json:"password"`
	DB       int    `json:"db"`

	// KeyPrefix namespaces every key this service writes.
	KeyPrefix string `json:"keyPrefix"`
}

func NewRedis(cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	logger.Logger().Info("Connected to redis successfully")

	return client, nil
}
