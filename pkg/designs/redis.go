package designs

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/naseej/meshdesign/pkg/errors"
)

// redisKeyPrefix namespaces design keys so the store can share a Redis
// instance with other data.
const redisKeyPrefix = "meshdesign:design:"

// RedisStore persists designs in Redis, for console deployments where
// multiple instances share one design catalog.
type RedisStore struct {
	client *redis.Client
}

// RedisConfig configures the Redis connection.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisStore connects to Redis and verifies the connection with a ping.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}
	return &RedisStore{client: client}, nil
}

// Get retrieves a design by name.
func (s *RedisStore) Get(ctx context.Context, name string) (Design, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+name).Bytes()
	if err != nil {
		if err == redis.Nil {
			return Design{}, errors.New(errors.ErrCodeDesignNotFound, "design %q not found", name)
		}
		return Design{}, fmt.Errorf("redis get: %w", err)
	}

	var d Design
	if err := json.Unmarshal(data, &d); err != nil {
		return Design{}, fmt.Errorf("parse design: %w", err)
	}
	return d, nil
}

// Set stores a design, overwriting any design with the same name.
func (s *RedisStore) Set(ctx context.Context, d Design) error {
	if d.Name == "" {
		return errors.New(errors.ErrCodeInvalidDesign, "design name cannot be empty")
	}
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal design: %w", err)
	}
	if err := s.client.Set(ctx, redisKeyPrefix+d.Name, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete removes a design. No-op if absent.
func (s *RedisStore) Delete(ctx context.Context, name string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+name).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// List scans for design keys and returns the names, sorted.
func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	var names []string
	iter := s.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		names = append(names, iter.Val()[len(redisKeyPrefix):])
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error { return s.client.Close() }

var _ Store = (*RedisStore)(nil)
