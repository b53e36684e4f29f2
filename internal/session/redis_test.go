package session

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis server and returns a RedisStore instance
func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	store := NewRedisStore(client)

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return store, mr, cleanup
}

func TestRedisGet_Success(t *testing.T) {
	store, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	mr.Set(snapshotKey("sess-1", FieldCart), `[{"product":{"id":1},"qty":2}]`)

	data, err := store.Get(ctx, "sess-1", FieldCart)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"product":{"id":1},"qty":2}]`, string(data))
}

func TestRedisGet_NotFound(t *testing.T) {
	store, _, cleanup := setupTestRedis(t)
	defer cleanup()

	data, err := store.Get(context.Background(), "nobody", FieldCart)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, data)
}

func TestRedisSet_WritesWithTTL(t *testing.T) {
	store, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	err := store.Set(ctx, "sess-1", FieldOrder, []byte(`{"id":42}`))
	require.NoError(t, err)

	key := snapshotKey("sess-1", FieldOrder)
	got, err := mr.Get(key)
	require.NoError(t, err)
	assert.Equal(t, `{"id":42}`, got)
	assert.Greater(t, mr.TTL(key).Seconds(), 0.0)
}

func TestRedisDelete(t *testing.T) {
	store, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	mr.Set(snapshotKey("sess-1", FieldCart), `[]`)

	require.NoError(t, store.Delete(ctx, "sess-1", FieldCart))

	_, err := store.Get(ctx, "sess-1", FieldCart)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisFields_AreIsolated(t *testing.T) {
	store, _, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "sess-1", FieldCart, []byte(`[]`)))
	require.NoError(t, store.Set(ctx, "sess-1", FieldLastCustomer, []byte(`7`)))

	data, err := store.Get(ctx, "sess-1", FieldLastCustomer)
	require.NoError(t, err)
	assert.Equal(t, "7", string(data))

	// other sessions see nothing
	_, err = store.Get(ctx, "sess-2", FieldCart)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Get(ctx, "sess-1", FieldCart)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, "sess-1", FieldCart, []byte(`[]`)))
	data, err := store.Get(ctx, "sess-1", FieldCart)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	require.NoError(t, store.Delete(ctx, "sess-1", FieldCart))
	_, err = store.Get(ctx, "sess-1", FieldCart)
	assert.ErrorIs(t, err, ErrNotFound)
}
