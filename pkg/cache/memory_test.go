package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStoreSetGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute, 0, 10)

	store.Set(ctx, "k", "v")
	value, found := store.Get(ctx, "k")
	assert.True(t, found)
	assert.Equal(t, "v", value)

	_, found = store.Get(ctx, "missing")
	assert.False(t, found)
}

func TestMemoryStoreExpiration(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute, 0, 10)

	store.SetWithExpiration(ctx, "k", "v", time.Nanosecond)
	time.Sleep(time.Millisecond)

	_, found := store.Get(ctx, "k")
	assert.False(t, found)
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute, 0, 10)

	store.Set(ctx, "k", "v")
	store.Delete(ctx, "k")

	_, found := store.Get(ctx, "k")
	assert.False(t, found)
}

func TestMemoryStoreEviction(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute, 0, 2)

	store.Set(ctx, "a", "1")
	store.Set(ctx, "b", "2")
	store.Set(ctx, "c", "3")

	count := 0
	for _, key := range []string{"a", "b", "c"} {
		if _, found := store.Get(ctx, key); found {
			count++
		}
	}
	assert.Equal(t, 2, count)
}
