package resilience

import "golang.org/x/sync/singleflight"

// SingleFlight deduplicates concurrent loads for the same key.
type SingleFlight struct {
	group singleflight.Group
}

func (g *SingleFlight) Do(key string, fn func() (any, error)) (any, error, bool) {
	return g.group.Do(key, fn)
}

// Forget drops an in-flight key so the next caller triggers a fresh load.
func (g *SingleFlight) Forget(key string) {
	g.group.Forget(key)
}

// DoTyped is Do with the result asserted back to T.
func DoTyped[T any](g *SingleFlight, key string, fn func() (T, error)) (T, error) {
	v, err, _ := g.Do(key, func() (any, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	out, _ := v.(T)
	return out, nil
}
