package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const selectionKeyPrefix = "leads:selection:"

// RedisSelectionStore keeps each selection as a Redis set that expires after ttl of inactivity.
type RedisSelectionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSelectionStore(client *redis.Client, ttl time.Duration) *RedisSelectionStore {
	return &RedisSelectionStore{client: client, ttl: ttl}
}

// NewRedisClient parses a redis:// URL and checks the server answers.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func (s *RedisSelectionStore) Replace(ctx context.Context, selectionID string, leadIDs []string) error {
	key := selectionKey(selectionID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(leadIDs) > 0 {
			pipe.SAdd(ctx, key, toArgs(leadIDs)...)
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	return err
}

func (s *RedisSelectionStore) Add(ctx context.Context, selectionID, leadID string) error {
	key := selectionKey(selectionID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SAdd(ctx, key, leadID)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	return err
}

func (s *RedisSelectionStore) Remove(ctx context.Context, selectionID, leadID string) error {
	return s.client.SRem(ctx, selectionKey(selectionID), leadID).Err()
}

func (s *RedisSelectionStore) Members(ctx context.Context, selectionID string) ([]string, error) {
	ids, err := s.client.SMembers(ctx, selectionKey(selectionID)).Result()
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *RedisSelectionStore) Clear(ctx context.Context, selectionID string) error {
	return s.client.Del(ctx, selectionKey(selectionID)).Err()
}

func (s *RedisSelectionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func selectionKey(selectionID string) string {
	return selectionKeyPrefix + selectionID
}

func toArgs(ids []string) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
