package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "food_service_session"

// RedisSessions scopes one session hash per Discord user.
type RedisSessions struct {
	db *redis.Client
}

func NewRedisSessions(db *redis.Client) *RedisSessions {
	return &RedisSessions{db: db}
}

func (r *RedisSessions) ForUser(userID string) SessionStore {
	return &RedisSessionStore{
		db:  r.db,
		key: fmt.Sprintf("%s:%s", sessionKeyPrefix, userID),
	}
}

// RedisSessionStore stores session fields in a single Redis hash.
type RedisSessionStore struct {
	db  *redis.Client
	key string
}

func (s *RedisSessionStore) Get(ctx context.Context, field string) (string, error) {
	value, err := s.db.HGet(ctx, s.key, field).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoValue
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", field, err)
	}
	return value, nil
}

func (s *RedisSessionStore) Put(ctx context.Context, field string, value string) error {
	if err := s.db.HSet(ctx, s.key, field, value).Err(); err != nil {
		return fmt.Errorf("write %s: %w", field, err)
	}
	return nil
}

func (s *RedisSessionStore) Clear(ctx context.Context) error {
	return s.db.Del(ctx, s.key).Err()
}
