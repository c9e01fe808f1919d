package sessions

import (
	"context"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRedisRepository_SaveLoadDelete(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	repo := NewRedisRepository(client, "test:session:", 0)

	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, "user", []byte(`{"id":"1"}`)))
	require.True(t, m.Exists("test:session:user"))

	got, err := repo.Load(ctx, "user")
	require.NoError(t, err)
	require.JSONEq(t, `{"id":"1"}`, string(got))

	// test deletion
	require.NoError(t, repo.Delete(ctx, "user"))
	got2, err := repo.Load(ctx, "user")
	require.NoError(t, err)
	require.Nil(t, got2)
}

func TestRedisRepository_TTLExpiry(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	repo := NewRedisRepository(client, "", time.Second)

	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, "user", []byte(`{"id":"2"}`)))

	// visible immediately
	got, err := repo.Load(ctx, "user")
	require.NoError(t, err)
	require.NotNil(t, got)

	// advance miniredis clock past TTL
	m.FastForward(2 * time.Second)

	got2, err := repo.Load(ctx, "user")
	require.NoError(t, err)
	require.Nil(t, got2)
}
