package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/agrikit/pkg/undo"
)

// RedisStore keeps each entity as a JSON string under [Key].
//
// Numbers come back as float64 after a round trip, as with any JSON store.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to url (redis://host:port/db) and pings it.
func NewRedisStore(ctx context.Context, url, prefix string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = 2 * time.Second
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return NewRedisStoreWithClient(client, prefix), nil
}

// NewRedisStoreWithClient wraps an existing client. The store takes
// ownership: Close closes client.
func NewRedisStoreWithClient(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

// Get returns the entity decoded from JSON.
func (r *RedisStore) Get(ctx context.Context, entityType string, id int64) (undo.Snapshot, error) {
	raw, err := r.client.Get(ctx, Key(r.prefix, entityType, id)).Bytes()
	if err == redis.Nil {
		return nil, notFound(entityType, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s #%d: %w", entityType, id, err)
	}
	return decodeSnapshot(raw)
}

// Put overwrites an existing entity (SET ... XX).
func (r *RedisStore) Put(ctx context.Context, entityType string, id int64, state undo.Snapshot) error {
	raw, err := encodeSnapshot(state)
	if err != nil {
		return err
	}
	ok, err := r.client.SetXX(ctx, Key(r.prefix, entityType, id), raw, 0).Result()
	if err != nil {
		return fmt.Errorf("put %s #%d: %w", entityType, id, err)
	}
	if !ok {
		return notFound(entityType, id)
	}
	return nil
}

// Delete removes an entity.
func (r *RedisStore) Delete(ctx context.Context, entityType string, id int64) error {
	n, err := r.client.Del(ctx, Key(r.prefix, entityType, id)).Result()
	if err != nil {
		return fmt.Errorf("delete %s #%d: %w", entityType, id, err)
	}
	if n == 0 {
		return notFound(entityType, id)
	}
	return nil
}

// Create inserts an entity unless the key is taken (SET ... NX).
func (r *RedisStore) Create(ctx context.Context, entityType string, id int64, state undo.Snapshot) error {
	raw, err := encodeSnapshot(state)
	if err != nil {
		return err
	}
	ok, err := r.client.SetNX(ctx, Key(r.prefix, entityType, id), raw, 0).Result()
	if err != nil {
		return fmt.Errorf("create %s #%d: %w", entityType, id, err)
	}
	if !ok {
		return exists(entityType, id)
	}
	return nil
}

// Ping checks the connection.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

func encodeSnapshot(s undo.Snapshot) ([]byte, error) {
	if s == nil {
		s = undo.Snapshot{}
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return raw, nil
}

func decodeSnapshot(raw []byte) (undo.Snapshot, error) {
	var s undo.Snapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if s == nil {
		s = undo.Snapshot{}
	}
	return s, nil
}
