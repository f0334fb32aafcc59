package session

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	redisdb *redis.Client
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func NewRedisStore(cfg RedisConfig) *RedisStore {
	redisdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return &RedisStore{redisdb: redisdb}
}

func sessionKey(token string) string {
	return "session:" + token
}

func (s *RedisStore) Put(ctx context.Context, token string, userID int64, ttl time.Duration) error {
	return s.redisdb.Set(ctx, sessionKey(token), userID, ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, token string) (int64, bool, error) {
	val, err := s.redisdb.Get(ctx, sessionKey(token)).Result()

	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}

		return 0, false, err
	}

	userID, err := strconv.ParseInt(val, 10, 64)

	if err != nil {
		// stale or corrupted entry, treat as absent
		return 0, false, nil
	}

	return userID, true, nil
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	return s.redisdb.Del(ctx, sessionKey(token)).Err()
}

func (s *RedisStore) Touch(ctx context.Context, token string, ttl time.Duration) error {
	return s.redisdb.Expire(ctx, sessionKey(token), ttl).Err()
}

// this ping function checks redis connectivity

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.redisdb.Ping(ctx).Err()
}

// this closes the client

func (s *RedisStore) Close() error {
	return s.redisdb.Close()
}
