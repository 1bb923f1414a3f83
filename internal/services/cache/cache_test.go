package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute)

	_, ok := c.Get(ctx, "movie/popular")
	assert.False(t, ok)

	c.Set(ctx, "movie/popular", []byte(`{"results":[]}`), time.Minute)
	b, ok := c.Get(ctx, "movie/popular")
	assert.True(t, ok)
	assert.Equal(t, `{"results":[]}`, string(b))

	c.Set(ctx, "short", []byte("x"), time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	_, ok = c.Get(ctx, "short")
	assert.False(t, ok)

	assert.NoError(t, c.Flush(ctx))
	_, ok = c.Get(ctx, "movie/popular")
	assert.False(t, ok)
}
