package sessions

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/desertthunder/mixtape/internal/shared"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *RedisStore) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return mr, NewRedisStore(client, "mixtape:")
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Issue stores username under prefixed key", func(t *testing.T) {
		mr, store := setupRedis(t)

		token, err := store.Issue(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, token, TokenBytes*2)

		got, err := mr.Get("mixtape:session:" + token)
		require.NoError(t, err)
		require.Equal(t, "alice", got)
		require.Zero(t, mr.TTL("mixtape:session:"+token), "sessions do not expire")
	})

	t.Run("Resolve and Revoke", func(t *testing.T) {
		_, store := setupRedis(t)

		token, err := store.Issue(ctx, "alice")
		require.NoError(t, err)

		username, err := store.Resolve(ctx, token)
		require.NoError(t, err)
		require.Equal(t, "alice", username)

		require.NoError(t, store.Revoke(ctx, token))
		require.NoError(t, store.Revoke(ctx, token))

		_, err = store.Resolve(ctx, token)
		require.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("Server failure surfaces as error", func(t *testing.T) {
		mr, store := setupRedis(t)
		mr.SetError("server down")

		_, err := store.Resolve(ctx, "whatever")
		require.Error(t, err)
		require.NotErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("Open with redis driver", func(t *testing.T) {
		mr := miniredis.RunT(t)

		store, err := Open(ctx, shared.SessionsConfig{
			Driver:    shared.SessionsRedis,
			RedisURL:  "redis://" + mr.Addr() + "/0",
			KeyPrefix: "test:",
		})
		require.NoError(t, err)
		rs, ok := store.(*RedisStore)
		require.True(t, ok)
		t.Cleanup(func() { rs.Close() })

		token, err := store.Issue(ctx, "bob")
		require.NoError(t, err)
		require.True(t, mr.Exists("test:session:"+token))
	})

	t.Run("OpenRedis rejects bad URL", func(t *testing.T) {
		_, err := OpenRedis(ctx, "not a url")
		require.Error(t, err)
	})
}
