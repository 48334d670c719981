//go:build !integration

package postgres

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"profitscan-ai/internal/domain/model"
	"profitscan-ai/internal/domain/ports/repository"
	red "profitscan-ai/internal/infra/redis"
)

// --- Mocks for Cache Decorator Tests ---

// mockInnerAccessRepo mocks the database repository that the decorator wraps.
type mockInnerAccessRepo struct {
	FindByEmailFunc             func(ctx context.Context, tx repository.Tx, email string) (*model.AccessRecord, error)
	FindByAccountAndProductFunc func(ctx context.Context, tx repository.Tx, accountID, product string) (*model.AccessRecord, error)
	SaveFunc                    func(ctx context.Context, tx repository.Tx, rec *model.AccessRecord) error

	Calls struct {
		FindByEmail int
		FindByAcct  int
		Save        int
	}
}

var _ repository.AccessRepository = (*mockInnerAccessRepo)(nil)

func (m *mockInnerAccessRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.AccessRecord, error) {
	m.Calls.FindByEmail++
	return m.FindByEmailFunc(ctx, tx, email)
}

func (m *mockInnerAccessRepo) FindByAccountAndProduct(ctx context.Context, tx repository.Tx, accountID, product string) (*model.AccessRecord, error) {
	m.Calls.FindByAcct++
	return m.FindByAccountAndProductFunc(ctx, tx, accountID, product)
}

func (m *mockInnerAccessRepo) Save(ctx context.Context, tx repository.Tx, rec *model.AccessRecord) error {
	m.Calls.Save++
	return m.SaveFunc(ctx, tx, rec)
}

// mockCache is an in-memory RedisClient good enough for decorator tests.
type mockCache struct {
	mu   sync.Mutex
	data map[string]string
}

var _ red.RedisClient = (*mockCache)(nil)

func newMockCache() *mockCache { return &mockCache{data: map[string]string{}} }

func (c *mockCache) Ping(context.Context) error { return nil }

func (c *mockCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch v := value.(type) {
	case string:
		c.data[key] = v
	case []byte:
		c.data[key] = string(v)
	}
	return nil
}

func (c *mockCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (c *mockCache) Incr(_ context.Context, key string) (int64, error) { return 0, nil }

func (c *mockCache) Expire(context.Context, string, time.Duration) error { return nil }

func (c *mockCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *mockCache) Close() error { return nil }
