package kv

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStoreConformance exercises the Store contract against any backend.
func runStoreConformance(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("get missing key", func(t *testing.T) {
		_, err := store.Get(ctx, "conformance/missing")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("put and get", func(t *testing.T) {
		err := store.Put(ctx, "conformance/a", []byte("alpha"))
		require.NoError(t, err)

		value, err := store.Get(ctx, "conformance/a")
		require.NoError(t, err)
		assert.Equal(t, []byte("alpha"), value)
	})

	t.Run("put replaces", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "conformance/a", []byte("beta")))

		value, err := store.Get(ctx, "conformance/a")
		require.NoError(t, err)
		assert.Equal(t, []byte("beta"), value)
	})

	t.Run("empty key rejected", func(t *testing.T) {
		err := store.Put(ctx, "", []byte("x"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidKey))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "conformance/gone", []byte("x")))
		require.NoError(t, store.Delete(ctx, "conformance/gone"))

		_, err := store.Get(ctx, "conformance/gone")
		assert.True(t, errors.Is(err, ErrNotFound))

		err = store.Delete(ctx, "conformance/gone")
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("each by prefix", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			key := fmt.Sprintf("conformance/each/%d", i)
			require.NoError(t, store.Put(ctx, key, []byte{byte(i)}))
		}
		require.NoError(t, store.Put(ctx, "conformance/other", []byte("skip")))

		seen := make(map[string][]byte)
		err := store.Each(ctx, "conformance/each/", func(key string, value []byte) error {
			seen[key] = value
			return nil
		})
		require.NoError(t, err)
		require.Len(t, seen, 5)
		assert.Equal(t, []byte{3}, seen["conformance/each/3"])
	})

	t.Run("each is restartable", func(t *testing.T) {
		count := func() int {
			n := 0
			err := store.Each(ctx, "conformance/each/", func(string, []byte) error {
				n++
				return nil
			})
			require.NoError(t, err)
			return n
		}
		assert.Equal(t, count(), count())
	})

	t.Run("each stops on error", func(t *testing.T) {
		boom := errors.New("boom")
		visited := 0
		err := store.Each(ctx, "conformance/each/", func(string, []byte) error {
			visited++
			return boom
		})
		assert.True(t, errors.Is(err, boom))
		assert.Equal(t, 1, visited)
	})
}

func TestMemoryStoreConformance(t *testing.T) {
	store := NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })
	runStoreConformance(t, store)
}

func TestMemoryStoreClose(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Put(context.Background(), "k", []byte("v")))
	require.NoError(t, store.Close())

	_, err := store.Get(context.Background(), "k")
	assert.True(t, errors.Is(err, ErrClosed))
	assert.True(t, errors.Is(store.Put(context.Background(), "k", nil), ErrClosed))
}

func TestMemoryStoreEachIsSortedSnapshot(t *testing.T) {
	store := NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()

	for _, k := range []string{"m/c", "m/a", "m/b"} {
		require.NoError(t, store.Put(ctx, k, []byte(k)))
	}

	var order []string
	require.NoError(t, store.Each(ctx, "m/", func(key string, _ []byte) error {
		order = append(order, key)
		return nil
	}))
	assert.Equal(t, []string{"m/a", "m/b", "m/c"}, order)
}
