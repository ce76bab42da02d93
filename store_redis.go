package mqttsn

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "mqttsn:conn:"

// RedisStore is an alternative ConnStore backed by
// github.com/redis/go-redis/v9, useful when connection records need to
// survive a broker restart or be visible to a fleet of brokers behind the
// same gateway-discovery address.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore dials addr (e.g. "127.0.0.1:6379").
func NewRedisStore(addr string) *RedisStore {
	return &RedisStore{rdb: redis.NewClient(&redis.Options{Addr: addr})}
}

func redisKey(ep Endpoint) string {
	return redisKeyPrefix + ep.String()
}

func (s *RedisStore) Create(rec ConnRecord) error {
	return s.Update(rec)
}

func (s *RedisStore) Update(rec ConnRecord) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("mqtt-sn: redis store: marshal: %w", err)
	}
	return s.rdb.Set(context.Background(), redisKey(rec.Endpoint), b, 0).Err()
}

func (s *RedisStore) Read(ep Endpoint) (ConnRecord, bool, error) {
	b, err := s.rdb.Get(context.Background(), redisKey(ep)).Bytes()
	if err == redis.Nil {
		return ConnRecord{}, false, nil
	}
	if err != nil {
		return ConnRecord{}, false, err
	}
	var rec ConnRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return ConnRecord{}, false, fmt.Errorf("mqtt-sn: redis store: unmarshal: %w", err)
	}
	return rec, true, nil
}

func (s *RedisStore) Remove(ep Endpoint) error {
	return s.rdb.Del(context.Background(), redisKey(ep)).Err()
}

func (s *RedisStore) Iter(fn func(ConnRecord) bool) error {
	ctx := context.Background()
	var cursor uint64
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, redisKeyPrefix+"*", 100).Result()
		if err != nil {
			return err
		}
		for _, key := range keys {
			b, err := s.rdb.Get(ctx, key).Bytes()
			if err != nil {
				continue
			}
			var rec ConnRecord
			if err := json.Unmarshal(b, &rec); err != nil {
				continue
			}
			if !fn(rec) {
				return nil
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return nil
}
