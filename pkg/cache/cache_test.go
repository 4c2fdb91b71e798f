package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"katydid-backoffice-forms/pkg/types"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	at := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return at }

	_, err := m.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, m.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, m.Set(ctx, "b", []byte("2"), 0))
	got, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), got)

	at = at.Add(time.Minute)
	_, err = m.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrMiss, "过期")
	_, err = m.Get(ctx, "b")
	assert.NoError(t, err, "不过期")

	require.NoError(t, m.Delete(ctx, "b"))
	_, err = m.Get(ctx, "b")
	assert.ErrorIs(t, err, ErrMiss)
}

type countingCodes struct {
	calls int
	err   error
}

func (c *countingCodes) FindByType(_ context.Context, codeType string) ([]types.Code, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return []types.Code{types.NewCode(codeType + "-1")}, nil
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, string) ([]byte, error) { return nil, errors.New("down") }
func (brokenCache) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("down")
}
func (brokenCache) Delete(context.Context, ...string) error { return errors.New("down") }

func TestCodeFacade(t *testing.T) {
	ctx := context.Background()

	t.Run("命中缓存", func(t *testing.T) {
		next := &countingCodes{}
		f := NewCodeFacade(next, NewMemory(), 0, nil)
		for i := 0; i < 3; i++ {
			codes, err := f.FindByType(ctx, "approach")
			require.NoError(t, err)
			assert.Equal(t, []types.Code{types.NewCode("approach-1")}, codes)
		}
		assert.Equal(t, 1, next.calls)

		require.NoError(t, f.Invalidate(ctx, "approach"))
		_, _ = f.FindByType(ctx, "approach")
		assert.Equal(t, 2, next.calls)
	})

	t.Run("缓存故障回退", func(t *testing.T) {
		next := &countingCodes{}
		f := NewCodeFacade(next, brokenCache{}, time.Minute, nil)
		codes, err := f.FindByType(ctx, "type")
		require.NoError(t, err)
		assert.Len(t, codes, 1)
	})

	t.Run("下游错误", func(t *testing.T) {
		boom := errors.New("boom")
		f := NewCodeFacade(&countingCodes{err: boom}, NewMemory(), time.Minute, nil)
		_, err := f.FindByType(ctx, "type")
		assert.ErrorIs(t, err, boom)
	})
}

// 需要本地 Redis：BACKOFFICE_TEST_REDIS=127.0.0.1:6379
func TestRedisCache(t *testing.T) {
	addr := os.Getenv("BACKOFFICE_TEST_REDIS")
	if addr == "" {
		t.Skip("BACKOFFICE_TEST_REDIS not set")
	}
	ctx := context.Background()
	client := NewRedisClient(Config{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	r := NewRedis(client, "test:"+uuid.NewString()+":")
	require.NoError(t, r.Ping(ctx))

	_, err := r.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
	require.NoError(t, r.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
	require.NoError(t, r.Delete(ctx, "k"))
	_, err = r.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}
