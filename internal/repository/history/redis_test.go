package history

import (
	"context"
	"testing"

	"delicias-urbanas/internal/domain"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := NewRedis(client, "delicias:")

	_, err := store.Get(ctx, "orders")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, store.Set(ctx, "orders", []byte(`[{"id":"A"}]`)))

	raw, err := mr.Get("delicias:orders")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"A"}]`, raw)

	got, err := store.Get(ctx, "orders")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"A"}]`, string(got))
}

func TestRedisStoreUnavailable(t *testing.T) {
	ctx := context.Background()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	store := NewRedis(client, "")
	_, err = store.Get(ctx, "orders")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}
