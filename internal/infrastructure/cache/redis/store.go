// Package redis backs the read-model cache with a shared Redis instance so
// invalidations reach every API replica.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/riskibarqy/skate-fantasy/internal/platform/logging"
)

const (
	defaultKeyPrefix = "skate:"
	scanBatch        = 200
)

// Store implements cache.Cache. Every failure is logged and reported as a
// miss so a Redis outage degrades to direct reads.
type Store struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
	logger *logging.Logger
}

func New(client *goredis.Client, ttl time.Duration, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{client: client, prefix: defaultKeyPrefix, ttl: ttl, logger: logger}
}

// Dial parses a redis:// URL and checks the connection.
func Dial(ctx context.Context, url string) (*goredis.Client, error) {
	opt, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := goredis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool) {
	if key == "" {
		return nil, false
	}
	raw, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			s.logger.WarnContext(ctx, "redis cache get failed", "key", key, "error", err)
		}
		return nil, false
	}
	return raw, true
}

func (s *Store) Set(ctx context.Context, key string, value []byte) {
	if key == "" {
		return
	}
	if err := s.client.Set(ctx, s.prefix+key, value, s.ttl).Err(); err != nil {
		s.logger.WarnContext(ctx, "redis cache set failed", "key", key, "error", err)
	}
}

func (s *Store) Delete(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		s.logger.WarnContext(ctx, "redis cache delete failed", "key", key, "error", err)
	}
}

// DeletePrefix walks matching keys with SCAN and deletes them in batches.
func (s *Store) DeletePrefix(ctx context.Context, prefix string) {
	if prefix == "" {
		return
	}

	iter := s.client.Scan(ctx, 0, s.prefix+prefix+"*", scanBatch).Iterator()
	batch := make([]string, 0, scanBatch)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := s.client.Del(ctx, batch...).Err(); err != nil {
			s.logger.WarnContext(ctx, "redis cache prefix delete failed", "prefix", prefix, "error", err)
		}
		batch = batch[:0]
	}
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			flush()
		}
	}
	flush()
	if err := iter.Err(); err != nil {
		s.logger.WarnContext(ctx, "redis cache scan failed", "prefix", prefix, "error", err)
	}
}
