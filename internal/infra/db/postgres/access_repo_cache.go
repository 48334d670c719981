package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"profitscan-ai/internal/domain/model"
	"profitscan-ai/internal/domain/ports/repository"
	"profitscan-ai/internal/infra/metrics"
	red "profitscan-ai/internal/infra/redis"
)

var _ repository.AccessRepository = (*accessRepoCacheDecorator)(nil)

// accessRepoCacheDecorator caches access records in redis. Entitlement
// checks happen on every gated page load; grants change rarely.
type accessRepoCacheDecorator struct {
	inner repository.AccessRepository
	cache red.RedisClient
	ttl   time.Duration
}

func NewAccessRepoCacheDecorator(inner repository.AccessRepository, cache red.RedisClient, ttl time.Duration) repository.AccessRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &accessRepoCacheDecorator{inner: inner, cache: cache, ttl: ttl}
}

func emailKey(email string) string { return fmt.Sprintf("access:email:%s", email) }
func accountKey(accountID, product string) string {
	return fmt.Sprintf("access:acct:%s:%s", accountID, product)
}

func (d *accessRepoCacheDecorator) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.AccessRecord, error) {
	return d.lookup(ctx, emailKey(email), func() (*model.AccessRecord, error) {
		return d.inner.FindByEmail(ctx, tx, email)
	})
}

func (d *accessRepoCacheDecorator) FindByAccountAndProduct(ctx context.Context, tx repository.Tx, accountID, product string) (*model.AccessRecord, error) {
	return d.lookup(ctx, accountKey(accountID, product), func() (*model.AccessRecord, error) {
		return d.inner.FindByAccountAndProduct(ctx, tx, accountID, product)
	})
}

func (d *accessRepoCacheDecorator) lookup(ctx context.Context, key string, load func() (*model.AccessRecord, error)) (*model.AccessRecord, error) {
	val, err := d.cache.Get(ctx, key)
	if err == nil {
		metrics.IncCacheRequest("access", "hit")
		var rec model.AccessRecord
		if json.Unmarshal([]byte(val), &rec) == nil {
			return &rec, nil
		}
	} else if err != redis.Nil {
		// Redis down degrades to a plain DB read.
		metrics.IncCacheRequest("access", "error")
	} else {
		metrics.IncCacheRequest("access", "miss")
	}

	rec, err := load()
	if err != nil {
		return nil, err
	}
	if rec != nil {
		if bytes, err := json.Marshal(rec); err == nil {
			_ = d.cache.Set(ctx, key, bytes, d.ttl)
		}
	}
	return rec, nil
}

// Writes invalidate both key spaces for the record.
func (d *accessRepoCacheDecorator) Save(ctx context.Context, tx repository.Tx, rec *model.AccessRecord) error {
	_ = d.cache.Del(ctx, emailKey(rec.Key), accountKey(rec.Key, rec.Product))
	return d.inner.Save(ctx, tx, rec)
}
