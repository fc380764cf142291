package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

// StateListener is called after every state change, outside the breaker lock.
type StateListener func(name string, from, to CircuitState)

// CircuitBreaker guards one outbound dependency. It opens after
// FailureThreshold consecutive counted failures, rejects calls for
// OpenTimeout, then lets HalfOpenMaxReq probes through; that many successful
// probes close it again and any failed probe reopens it.
type CircuitBreaker struct {
	name     string
	cfg      CircuitBreakerConfig
	listener StateListener
	now      func() time.Time

	mu        sync.Mutex
	state     CircuitState
	failures  int
	openedAt  time.Time
	probes    int
	successes int
}

// NewCircuitBreaker builds an active breaker regardless of cfg.Enabled.
func NewCircuitBreaker(name string, cfg CircuitBreakerConfig, listener StateListener) *CircuitBreaker {
	return &CircuitBreaker{
		name:     name,
		cfg:      cfg.withDefaults(),
		listener: listener,
		now:      time.Now,
		state:    CircuitStateClosed,
	}
}

// NewCircuitBreakerFromConfig returns nil when the breaker is disabled; a nil
// breaker allows every call.
func NewCircuitBreakerFromConfig(name string, cfg CircuitBreakerConfig, listener StateListener) *CircuitBreaker {
	if !cfg.Enabled {
		return nil
	}
	return NewCircuitBreaker(name, cfg, listener)
}

// Execute runs fn when the breaker allows it. Only errors accepted by
// isFailure count toward tripping; nil isFailure counts every error.
func (b *CircuitBreaker) Execute(fn func() error, isFailure func(error) bool) error {
	if err := b.Allow(); err != nil {
		return err
	}

	err := fn()
	if err != nil && (isFailure == nil || isFailure(err)) {
		b.RecordFailure()
		return err
	}
	b.RecordSuccess()
	return err
}

func (b *CircuitBreaker) Allow() error {
	if b == nil {
		return nil
	}

	b.mu.Lock()
	from := b.state
	if b.state == CircuitStateOpen && b.now().Sub(b.openedAt) >= b.cfg.OpenTimeout {
		b.enter(CircuitStateHalfOpen)
	}
	err := error(nil)
	switch {
	case b.state == CircuitStateOpen:
		err = ErrCircuitOpen
	case b.state == CircuitStateHalfOpen && b.probes >= b.cfg.HalfOpenMaxReq:
		err = ErrCircuitOpen
	case b.state == CircuitStateHalfOpen:
		b.probes++
	}
	to := b.state
	b.mu.Unlock()

	b.notify(from, to)
	return err
}

func (b *CircuitBreaker) RecordSuccess() {
	if b == nil {
		return
	}

	b.mu.Lock()
	from := b.state
	switch b.state {
	case CircuitStateClosed:
		b.failures = 0
	case CircuitStateHalfOpen:
		b.successes++
		if b.successes >= b.cfg.HalfOpenMaxReq {
			b.enter(CircuitStateClosed)
		}
	}
	to := b.state
	b.mu.Unlock()

	b.notify(from, to)
}

func (b *CircuitBreaker) RecordFailure() {
	if b == nil {
		return
	}

	b.mu.Lock()
	from := b.state
	switch b.state {
	case CircuitStateClosed:
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			b.enter(CircuitStateOpen)
		}
	case CircuitStateHalfOpen:
		b.enter(CircuitStateOpen)
	case CircuitStateOpen:
		b.openedAt = b.now()
	}
	to := b.state
	b.mu.Unlock()

	b.notify(from, to)
}

// State reports half_open once the cool-down has elapsed even if no call has
// arrived to move the breaker there yet.
func (b *CircuitBreaker) State() CircuitState {
	if b == nil {
		return CircuitStateClosed
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen && b.now().Sub(b.openedAt) >= b.cfg.OpenTimeout {
		return CircuitStateHalfOpen
	}
	return b.state
}

// enter must be called with mu held.
func (b *CircuitBreaker) enter(state CircuitState) {
	b.state = state
	b.failures = 0
	b.probes = 0
	b.successes = 0
	b.openedAt = time.Time{}
	if state == CircuitStateOpen {
		b.openedAt = b.now()
	}
}

func (b *CircuitBreaker) notify(from, to CircuitState) {
	if from != to && b.listener != nil {
		b.listener(b.name, from, to)
	}
}
