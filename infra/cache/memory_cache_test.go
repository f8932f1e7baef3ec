package cache

import (
	"context"
	"testing"
	"time"

	pkgcache "github.com/spotavibe/spotavibe/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetGetDelete(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close() //nolint:errcheck
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	val, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), val)

	require.NoError(t, c.Delete(ctx, "k"))
	_, ok, _ = c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close() //nolint:errcheck
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)
	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "zero", []byte("v"), 0))
	_, ok, _ = c.Get(ctx, "zero")
	assert.False(t, ok, "non-positive ttl is not stored")
}

func TestJSONHelpers(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close() //nolint:errcheck
	ctx := context.Background()

	type payload struct {
		Name string `json:"name"`
	}
	require.NoError(t, pkgcache.SetJSON(ctx, c, "p", payload{Name: "spotavibe"}, time.Minute))

	got, ok, err := pkgcache.GetJSON[payload](ctx, c, "p")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "spotavibe", got.Name)

	_, ok, err = pkgcache.GetJSON[payload](ctx, c, "absent")
	require.NoError(t, err)
	assert.False(t, ok)
}
