package session

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	testRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func setup(t *testing.T) (*Store, func()) {
	t.Helper()
	c := context.Background()

	container, err := testRedis.Run(c, "redis:7.4.1-alpine3.20")
	if err != nil {
		t.Fatalf("failed running redis container with error: %s", err)
	}

	connStr, err := container.ConnectionString(c)
	if err != nil {
		t.Fatalf("failed getting redis connection string with error: %s", err)
	}
	opts, err := redis.ParseURL(connStr)
	if err != nil {
		t.Fatalf("failed parsing redis connection string with error: %s", err)
	}
	cache := redis.NewClient(opts)

	return NewStore(cache), func() {
		cache.Close()
		if err := container.Terminate(c); err != nil {
			t.Fatalf("failed terminating redis container with error: %s", err)
		}
	}
}

func TestSessionStore(t *testing.T) {
	store, teardown := setup(t)
	defer teardown()
	c := context.Background()

	t.Run("given no persisted session should load as logged out", func(t *testing.T) {
		sess, err := store.Load(c)

		assert.NoError(t, err)
		assert.False(t, sess.LoggedIn())
	})

	t.Run("given saved session should load it back", func(t *testing.T) {
		err := store.Save(c, Context{UserID: "user-1", Token: "token-1"})
		assert.NoError(t, err)

		sess, err := store.Load(c)

		assert.NoError(t, err)
		assert.True(t, sess.LoggedIn())
		assert.Equal(t, "user-1", sess.UserID)
		assert.Equal(t, "token-1", sess.Token)
	})

	t.Run("given cleared session wishlist should survive", func(t *testing.T) {
		err := store.SaveWishlist(c, []string{"product-1", "product-2"})
		assert.NoError(t, err)

		err = store.Clear(c)
		assert.NoError(t, err)

		sess, err := store.Load(c)
		assert.NoError(t, err)
		assert.False(t, sess.LoggedIn())

		wishlist, err := store.Wishlist(c)
		assert.NoError(t, err)
		assert.Equal(t, []string{"product-1", "product-2"}, wishlist)
	})

	t.Run("given no wishlist should return empty list", func(t *testing.T) {
		err := store.SaveWishlist(c, []string{})
		assert.NoError(t, err)

		wishlist, err := store.Wishlist(c)

		assert.NoError(t, err)
		assert.Empty(t, wishlist)
	})
}
