package store

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/ideamap/ideamap/pkg/document"
	"github.com/ideamap/ideamap/pkg/errors"
)

// keyPrefix namespaces map documents in a shared Redis instance.
const keyPrefix = "ideamap:map:"

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string // host:port
	Password string // empty for no auth
	DB       int
}

// RedisStore stores each map as a JSON value under a prefixed key. Use it
// when several server instances share one backing store.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis at %s: %w", cfg.Addr, err)
	}
	return &RedisStore{client: client}, nil
}

func mapKey(name string) string { return keyPrefix + name }

func (s *RedisStore) Load(ctx context.Context, name string) (document.Document, error) {
	if err := errors.ValidateMapName(name); err != nil {
		return document.Document{}, err
	}
	data, err := s.client.Get(ctx, mapKey(name)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return document.Document{}, notFound(name)
	}
	if err != nil {
		return document.Document{}, errors.Wrap(errors.ErrCodeStore, err, "load map %q", name)
	}
	doc, err := document.Unmarshal(data)
	if err != nil {
		return document.Document{}, errors.Wrap(errors.ErrCodeInvalidDocument, err, "parse map %q", name)
	}
	return doc, nil
}

func (s *RedisStore) Save(ctx context.Context, name string, doc document.Document) error {
	if err := errors.ValidateMapName(name); err != nil {
		return err
	}
	data, err := document.Marshal(doc)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidDocument, err, "encode map %q", name)
	}
	if err := s.client.Set(ctx, mapKey(name), data, 0).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "save map %q", name)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	var names []string
	iter := s.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		names = append(names, strings.TrimPrefix(iter.Val(), keyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list maps")
	}
	return names, nil
}

func (s *RedisStore) Delete(ctx context.Context, name string) error {
	if err := errors.ValidateMapName(name); err != nil {
		return err
	}
	if err := s.client.Del(ctx, mapKey(name)).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "delete map %q", name)
	}
	return nil
}

func (s *RedisStore) Close(ctx context.Context) error {
	return s.client.Close()
}
