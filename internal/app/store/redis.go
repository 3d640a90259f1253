package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"codeprep/internal/common"
	"codeprep/internal/domain/model"

	"github.com/redis/go-redis/v9"
)

const problemKeyPrefix = "problem:cases:"

// RedisStore keeps hidden test cases in Redis with a TTL, so problems survive
// process restarts and can be shared across instances. Eviction by TTL shows
// up to callers exactly like an explicit delete: a not-found lookup.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Put(ctx context.Context, id string, cases []model.TestCase) error {
	payload, err := json.Marshal(cases)
	if err != nil {
		return fmt.Errorf("marshal test cases for %s: %w", id, err)
	}
	ok, err := s.rdb.SetNX(ctx, problemKeyPrefix+id, payload, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("store test cases for %s: %w", id, err)
	}
	if !ok {
		return fmt.Errorf("problem %s already stored: %w", id, common.ErrConflict)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) ([]model.TestCase, error) {
	payload, err := s.rdb.Get(ctx, problemKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("fetch test cases for %s: %w", id, err)
	}
	var cases []model.TestCase
	if err := json.Unmarshal(payload, &cases); err != nil {
		return nil, fmt.Errorf("decode test cases for %s: %w", id, err)
	}
	return cases, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, problemKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("delete test cases for %s: %w", id, err)
	}
	return nil
}
