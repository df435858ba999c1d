package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/hyperjump/motoblog/internal/config"
	"github.com/redis/go-redis/v9"
)

// recentTTL is how long an idle session's searches are kept in redis.
const recentTTL = 30 * 24 * time.Hour

// NewRedisClient creates a Redis client from configuration.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// RedisStore keeps each session's recent searches in a redis list.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore creates a store on rdb. Close closes rdb.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func recentKey(session string) string {
	return fmt.Sprintf("motoblog:recent:%s", session)
}

// Get returns the session's recent searches.
func (s *RedisStore) Get(ctx context.Context, session string) ([]string, error) {
	out, err := s.rdb.LRange(ctx, recentKey(session), 0, MaxRecentSearches-1).Result()
	if err == redis.Nil {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Add records text as the session's most recent search.
func (s *RedisStore) Add(ctx context.Context, session, text string) error {
	text = normalizeSearch(text)
	if text == "" {
		return nil
	}
	key := recentKey(session)
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LRem(ctx, key, 0, text)
		pipe.LPush(ctx, key, text)
		pipe.LTrim(ctx, key, 0, MaxRecentSearches-1)
		pipe.Expire(ctx, key, recentTTL)
		return nil
	})
	return err
}

// Clear forgets the session's searches.
func (s *RedisStore) Clear(ctx context.Context, session string) error {
	return s.rdb.Del(ctx, recentKey(session)).Err()
}

// Ping checks the connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Close closes the client.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
