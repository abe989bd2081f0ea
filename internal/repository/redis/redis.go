package redis

import (
	"context"
	"github.com/redis/go-redis/v9"
	"time"
)

type Storage struct {
	db         *redis.Client
	refreshTTL time.Duration
}

func InitRedis(ctx context.Context, connStr, redisPassword string, dbNumber int, refreshTTL time.Duration) (*Storage, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     connStr,
		Username: "",
		Password: redisPassword,
		DB:       dbNumber,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{db: redisClient, refreshTTL: refreshTTL}, nil
}

func (s *Storage) StoreRefreshToken(ctx context.Context, userID, refreshToken string) error {
	return s.db.Set(ctx, refreshToken, userID, s.refreshTTL).Err()
}
