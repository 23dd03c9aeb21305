package cache_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"go-madrasah/internal/shared/cache"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

type payload struct {
	Name string `json:"name"`
}

func TestMemory_GetSetExpire(t *testing.T) {
	ctx := context.Background()
	clk := &fakeClock{now: time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)}
	c := cache.NewMemory(clk)

	assert.NoError(t, c.Set(ctx, "rules:t1", payload{Name: "general"}, time.Minute))

	var got payload
	assert.NoError(t, c.Get(ctx, "rules:t1", &got))
	assert.Equal(t, "general", got.Name)

	clk.Advance(time.Minute)
	assert.ErrorIs(t, c.Get(ctx, "rules:t1", &got), cache.ErrMiss)
}

func TestMemory_DeletePrefixAndClear(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemory(&fakeClock{now: time.Now()})

	_ = c.Set(ctx, "rules:t1", 1, time.Hour)
	_ = c.Set(ctx, "rules:t2", 2, time.Hour)
	_ = c.Set(ctx, "settings:t1", 3, time.Hour)

	n, err := c.DeletePrefix(ctx, "rules:")
	assert.NoError(t, err)
	assert.Equal(t, 2, n)

	var v int
	assert.NoError(t, c.Get(ctx, "settings:t1", &v))
	assert.Equal(t, 3, v)

	assert.NoError(t, c.Delete(ctx, "settings:t1"))
	assert.ErrorIs(t, c.Get(ctx, "settings:t1", &v), cache.ErrMiss)

	_ = c.Set(ctx, "x", 1, time.Hour)
	assert.NoError(t, c.Clear(ctx))
	assert.Equal(t, 0, c.Stats().TotalKeys)
}

func TestMemory_PurgeExpiredAndStats(t *testing.T) {
	ctx := context.Background()
	clk := &fakeClock{now: time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)}
	c := cache.NewMemory(clk)

	_ = c.Set(ctx, "short", 1, time.Second)
	_ = c.Set(ctx, "long", 2, time.Hour)
	clk.Advance(2 * time.Second)

	stats := c.Stats()
	assert.Equal(t, cache.Stats{TotalKeys: 2, ActiveKeys: 1, ExpiredKeys: 1}, stats)

	assert.Equal(t, 1, c.PurgeExpired())
	assert.Equal(t, cache.Stats{TotalKeys: 1, ActiveKeys: 1}, c.Stats())
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemory(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = c.Set(ctx, "k", i, time.Minute)
			var v int
			_ = c.Get(ctx, "k", &v)
			_, _ = c.DeletePrefix(ctx, "none")
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, c.Stats().TotalKeys)
}
