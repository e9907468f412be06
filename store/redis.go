package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"collegeprep/logger"
)

const redisOpTimeout = 3 * time.Second

// RedisStore implements Store on a Redis hash, for deployments that want
// profile state on a shared server instead of a local file. Values never
// expire; the premium flag carries its own expiry timestamp.
type RedisStore struct {
	rdb *redis.Client
	key string
	log *slog.Logger
}

// OpenRedisStore connects and verifies the server is reachable.
func OpenRedisStore(addr, password string, db int) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisStore{rdb: rdb, key: "collegeprep:state", log: logger.Default()}, nil
}

func (s *RedisStore) SetString(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	return s.rdb.HSet(ctx, s.key, key, value).Err()
}

func (s *RedisStore) GetString(key, fallback string) string {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	val, err := s.rdb.HGet(ctx, s.key, key).Result()
	if err != nil {
		if err != redis.Nil {
			s.log.Warn("redis read failed, using fallback", "key", key, "error", err)
		}
		return fallback
	}
	return val
}

func (s *RedisStore) SetJSON(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	return s.rdb.HSet(ctx, s.key, key, raw).Err()
}

func (s *RedisStore) GetJSON(key string, out any) bool {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	raw, err := s.rdb.HGet(ctx, s.key, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.log.Warn("redis read failed, using fallback", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		s.log.Warn("stored value corrupt, using fallback", "key", key, "error", err)
		return false
	}
	return true
}

func (s *RedisStore) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	return s.rdb.HDel(ctx, s.key, key).Err()
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
