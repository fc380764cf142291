package redis

import (
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/riskibarqy/skate-fantasy/internal/platform/logging"
)

func TestStore_UnreachableServerIsAMiss(t *testing.T) {
	client := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	store := New(client, time.Minute, logging.NewNop())
	store.Set(t.Context(), "standings:list:10", []byte(`[]`))

	raw, ok := store.Get(t.Context(), "standings:list:10")
	assert.False(t, ok)
	assert.Nil(t, raw)

	store.Delete(t.Context(), "standings:list:10")
	store.DeletePrefix(t.Context(), "standings:")
}

func TestStore_EmptyKeysAreIgnored(t *testing.T) {
	store := New(goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1"}), time.Minute, nil)

	_, ok := store.Get(t.Context(), "")
	assert.False(t, ok)
	store.Set(t.Context(), "", []byte("x"))
	store.Delete(t.Context(), "")
	store.DeletePrefix(t.Context(), "")
}
