package observability

import (
	"github.com/riskibarqy/skate-fantasy/internal/platform/logging"
	"github.com/riskibarqy/skate-fantasy/internal/platform/resilience"
)

// CircuitStateListener counts breaker transitions and logs them. Opening is a
// warning; recovery is info.
func CircuitStateListener(logger *logging.Logger) resilience.StateListener {
	if logger == nil {
		logger = logging.Default()
	}
	return func(name string, from, to resilience.CircuitState) {
		CircuitTransitionsTotal.WithLabelValues(name, string(to)).Inc()
		if to == resilience.CircuitStateOpen {
			logger.Warn("circuit breaker opened", "breaker", name, "from", string(from))
			return
		}
		logger.Info("circuit breaker state changed", "breaker", name, "from", string(from), "to", string(to))
	}
}
