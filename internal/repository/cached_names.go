package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/demand-analytics/internal/analytics"
)

// CacheRecorder observes name-cache effectiveness.
type CacheRecorder interface {
	RecordCacheLookup(table string, hits, misses int)
}

// CachedNameLookup is a read-through redis cache in front of another NameLookup.
// Redis failures degrade to the underlying lookup.
type CachedNameLookup struct {
	next     analytics.NameLookup
	client   *redis.Client
	table    NameTable
	ttl      time.Duration
	recorder CacheRecorder
	logger   *zap.Logger
}

// NewCachedNameLookup wraps next with a cache keyed by table and id.
func NewCachedNameLookup(next analytics.NameLookup, client *redis.Client, table NameTable, ttl time.Duration, recorder CacheRecorder, logger *zap.Logger) *CachedNameLookup {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedNameLookup{
		next:     next,
		client:   client,
		table:    table,
		ttl:      ttl,
		recorder: recorder,
		logger:   logger,
	}
}

func (c *CachedNameLookup) key(id string) string {
	return "names:" + string(c.table) + ":" + id
}

// LookupNames serves cached names and resolves the rest through the wrapped lookup.
func (c *CachedNameLookup) LookupNames(ctx context.Context, ids []string) (map[string]string, error) {
	if c.client == nil || len(ids) == 0 {
		return c.next.LookupNames(ctx, ids)
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = c.key(id)
	}

	names := make(map[string]string, len(ids))
	misses := ids
	values, err := c.client.MGet(ctx, keys...).Result()
	switch {
	case err != nil && !errors.Is(err, redis.Nil):
		c.logger.Warn("name cache read failed", zap.String("table", string(c.table)), zap.Error(err))
	case len(values) == len(ids):
		misses = make([]string, 0, len(ids))
		for i, v := range values {
			if s, ok := v.(string); ok && s != "" {
				names[ids[i]] = s
				continue
			}
			misses = append(misses, ids[i])
		}
	}

	if c.recorder != nil {
		c.recorder.RecordCacheLookup(string(c.table), len(ids)-len(misses), len(misses))
	}
	if len(misses) == 0 {
		return names, nil
	}

	resolved, err := c.next.LookupNames(ctx, misses)
	if err != nil {
		return nil, err
	}
	if len(resolved) > 0 {
		pipe := c.client.Pipeline()
		for id, name := range resolved {
			names[id] = name
			pipe.Set(ctx, c.key(id), name, c.ttl)
		}
		if _, err := pipe.Exec(ctx); err != nil {
			c.logger.Warn("name cache write failed", zap.String("table", string(c.table)), zap.Error(err))
		}
	}
	return names, nil
}
