package cache

import (
	"context"
	"fmt"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/skate-fantasy/internal/platform/resilience"
)

// Cache stores encoded read models. Implementations must treat failures as
// misses; a cache outage never fails the request.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
	Delete(ctx context.Context, key string)
	DeletePrefix(ctx context.Context, prefix string)
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool) { return nil, false }
func (Nop) Set(context.Context, string, []byte)         {}
func (Nop) Delete(context.Context, string)              {}
func (Nop) DeletePrefix(context.Context, string)        {}

// Loader reads through c, collapsing concurrent misses for the same key.
type Loader struct {
	cache  Cache
	flight resilience.SingleFlight
}

func NewLoader(c Cache) *Loader {
	if c == nil {
		c = Nop{}
	}
	return &Loader{cache: c}
}

func (l *Loader) Cache() Cache {
	return l.cache
}

// Load returns the cached value for key or calls load and stores its result.
func Load[T any](ctx context.Context, l *Loader, key string, load func(context.Context) (T, error)) (T, error) {
	var zero T
	if load == nil {
		return zero, fmt.Errorf("loader is required")
	}
	if l == nil || key == "" {
		return load(ctx)
	}

	if raw, ok := l.cache.Get(ctx, key); ok {
		var out T
		if err := sonic.Unmarshal(raw, &out); err == nil {
			return out, nil
		}
		l.cache.Delete(ctx, key)
	}

	return resilience.DoTyped(&l.flight, key, func() (T, error) {
		loaded, err := load(ctx)
		if err != nil {
			return zero, err
		}
		if raw, err := sonic.Marshal(loaded); err == nil {
			l.cache.Set(ctx, key, raw)
		}
		return loaded, nil
	})
}
