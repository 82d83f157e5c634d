// internal/app/store/staffcache/staffcache.go
//
// Package staffcache puts a short-lived read-through cache in front of the
// staff directory. Every board render scans the directory, so the cache
// absorbs repeated renders; cache faults fall through to the directory.
package staffcache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/whiteboard"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/domain/models"
	"go.uber.org/zap"
)

// Key holds the JSON-encoded staff list.
const Key = "whiteboard:staff:all"

// ErrMiss is returned by KV.Get for absent keys.
var ErrMiss = errors.New("cache miss")

// KV is the cache surface the directory cache needs.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

// RedisKV adapts a go-redis client to KV.
type RedisKV struct {
	c *redis.Client
}

func NewRedisKV(c *redis.Client) *RedisKV { return &RedisKV{c: c} }

func (r *RedisKV) Get(ctx context.Context, key string) (string, error) {
	val, err := r.c.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", ErrMiss
		}
		return "", err
	}
	return val, nil
}

func (r *RedisKV) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.c.Set(ctx, key, value, ttl).Err()
}

var _ whiteboard.StaffRepository = (*Cache)(nil)

// Cache wraps a StaffRepository. GetStaff is served from the cached list when
// present; a record absent from a cached list is re-checked with the source.
type Cache struct {
	next whiteboard.StaffRepository
	kv   KV
	ttl  time.Duration
	log  *zap.Logger
}

func New(next whiteboard.StaffRepository, kv KV, ttl time.Duration, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{next: next, kv: kv, ttl: ttl, log: logger}
}

func (c *Cache) ListStaff(ctx context.Context) ([]models.StaffRecord, error) {
	if staff, ok := c.cached(ctx); ok {
		return staff, nil
	}
	staff, err := c.next.ListStaff(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, staff)
	return staff, nil
}

func (c *Cache) GetStaff(ctx context.Context, staffID string) (models.StaffRecord, error) {
	if staff, ok := c.cached(ctx); ok {
		for _, rec := range staff {
			if rec.StaffID == staffID {
				return rec, nil
			}
		}
	}
	return c.next.GetStaff(ctx, staffID)
}

func (c *Cache) cached(ctx context.Context) ([]models.StaffRecord, bool) {
	raw, err := c.kv.Get(ctx, Key)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			c.log.Warn("staff cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var staff []models.StaffRecord
	if err := json.Unmarshal([]byte(raw), &staff); err != nil {
		c.log.Warn("staff cache entry corrupt", zap.Error(err))
		return nil, false
	}
	return staff, true
}

func (c *Cache) store(ctx context.Context, staff []models.StaffRecord) {
	b, err := json.Marshal(staff)
	if err != nil {
		return
	}
	if err := c.kv.Set(ctx, Key, string(b), c.ttl); err != nil {
		c.log.Warn("staff cache write failed", zap.Error(err))
	}
}
